// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pixelhaven Contributors

package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/pixelhaven/pixelhaven/internal/identity"
	"github.com/pixelhaven/pixelhaven/internal/inventory"
	"github.com/pixelhaven/pixelhaven/pkg/htmltext"
)

type userImages struct {
	Thumbnail string `json:"thumbnail"`
	Headshot  string `json:"headshot"`
}

type userInfoResponse struct {
	ID            string     `json:"id"`
	Username      string     `json:"username"`
	Description   string     `json:"description"`
	HasMembership bool       `json:"has_membership"`
	IsStaff       bool       `json:"is_staff"`
	CreatedAt     time.Time  `json:"created_at"`
	LastOnline    string     `json:"last_online"`
	Badges        []string   `json:"badges"`
	Images        userImages `json:"images"`
}

// imagesFor builds the avatar render URLs for a user.
func (h *Handlers) imagesFor(id ulid.ULID) userImages {
	return userImages{
		Thumbnail: fmt.Sprintf("%s/images/thumbnails/%s.png", h.baseURL, id),
		Headshot:  fmt.Sprintf("%s/images/headshots/%s.png", h.baseURL, id),
	}
}

// lookupUser resolves exactly one of the username and id query parameters,
// preferring username when both are present. Any miss, including a
// malformed id, is the normal not-found path.
func (h *Handlers) lookupUser(ctx context.Context, r *http.Request) (*identity.User, error) {
	if username := r.URL.Query().Get("username"); username != "" {
		return h.users.GetByUsername(ctx, username)
	}
	id, err := ulid.Parse(r.URL.Query().Get("id"))
	if err != nil {
		return nil, identity.ErrNotFound
	}
	return h.users.GetByID(ctx, id)
}

func (h *Handlers) userInfo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := h.lookupUser(ctx, r)
	if err != nil {
		h.respondDomainError(w, "user info lookup", err)
		return
	}

	isStaff := true
	if _, err := h.staff.Get(ctx, user.ID); errors.Is(err, identity.ErrNotFound) {
		isStaff = false
	} else if err != nil {
		h.respondDomainError(w, "user info staff lookup", err)
		return
	}

	badges, err := h.users.Badges(ctx, user.ID)
	if err != nil {
		h.respondDomainError(w, "user info badges", err)
		return
	}
	badgeNames := make([]string, 0, len(badges))
	for _, b := range badges {
		badgeNames = append(badgeNames, b.Name)
	}

	writeJSON(w, http.StatusOK, userInfoResponse{
		ID:            user.ID.String(),
		Username:      user.Username,
		Description:   user.Description,
		HasMembership: user.HasMembership(),
		IsStaff:       isStaff,
		CreatedAt:     user.CreatedAt,
		LastOnline:    htmltext.TimeAgo(user.UpdatedAt, time.Now()),
		Badges:        badgeNames,
		Images:        h.imagesFor(user.ID),
	})
}

type inventoryItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

type inventoryResponse struct {
	CurrentPage int             `json:"current_page"`
	TotalPages  int             `json:"total_pages"`
	Items       []inventoryItem `json:"items"`
}

func (h *Handlers) userInventory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// An unknown user takes precedence over a bad category.
	ownerID, err := ulid.Parse(r.URL.Query().Get("id"))
	if err != nil {
		writeError(w, "Invalid user.")
		return
	}
	owner, err := h.users.GetByID(ctx, ownerID)
	if err != nil {
		h.respondDomainError(w, "inventory owner lookup", err)
		return
	}

	itemType, err := inventory.ParseCategory(r.URL.Query().Get("category"))
	if err != nil {
		h.respondDomainError(w, "inventory category", err)
		return
	}

	var viewer *ulid.ULID
	if actor := identity.CurrentActor(ctx); !actor.IsAnonymous() {
		id := actor.UserID
		viewer = &id
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	result, err := h.inventory.UserInventory(ctx, viewer, owner.ID, itemType, page)
	if err != nil {
		if errors.Is(err, inventory.ErrPrivate) {
			writeError(w, fmt.Sprintf("%s has made their inventory private.", owner.Username))
			return
		}
		h.respondDomainError(w, "inventory listing", err)
		return
	}

	if len(result.Items) == 0 {
		writeError(w, fmt.Sprintf("No %s found.", itemType.Category()))
		return
	}

	items := make([]inventoryItem, 0, len(result.Items))
	for _, row := range result.Items {
		items = append(items, inventoryItem{
			ID:       row.ItemID.String(),
			Name:     row.Name,
			Category: row.Type.Category(),
		})
	}
	writeJSON(w, http.StatusOK, inventoryResponse{
		CurrentPage: result.CurrentPage,
		TotalPages:  result.TotalPages,
		Items:       items,
	})
}
