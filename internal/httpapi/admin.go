// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pixelhaven Contributors

package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"

	"github.com/pixelhaven/pixelhaven/internal/access"
	"github.com/pixelhaven/pixelhaven/internal/admin"
	"github.com/pixelhaven/pixelhaven/internal/identity"
	"github.com/pixelhaven/pixelhaven/internal/inventory"
	"github.com/pixelhaven/pixelhaven/pkg/errutil"
)

// respondAdminError writes a status-coded failure for the staff surface.
func (h *Handlers) respondAdminError(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, access.ErrNotAuthorized):
		writeStatusError(w, http.StatusForbidden, "not authorized")
	case errors.Is(err, identity.ErrNotFound):
		writeStatusError(w, http.StatusNotFound, "User not found.")
	case errors.Is(err, inventory.ErrNotFound):
		writeStatusError(w, http.StatusNotFound, "Item not found.")
	case errors.Is(err, inventory.ErrNotOwned):
		writeStatusError(w, http.StatusBadRequest, "User does not own this item.")
	case errors.Is(err, admin.ErrSelfTarget):
		writeStatusError(w, http.StatusBadRequest, "You cannot target your own account.")
	case errors.Is(err, admin.ErrZeroDelta):
		writeStatusError(w, http.StatusBadRequest, "Amount must not be zero.")
	default:
		errutil.LogError(h.log, msg, err)
		writeStatusError(w, http.StatusInternalServerError, genericFault)
	}
}

// targetID parses the {id} route parameter. A false return means the
// response has already been written.
func targetID(w http.ResponseWriter, r *http.Request) (ulid.ULID, bool) {
	id, err := ulid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeStatusError(w, http.StatusNotFound, "User not found.")
		return ulid.ULID{}, false
	}
	return id, true
}

type adminUserResponse struct {
	ID        string   `json:"id"`
	Username  string   `json:"username"`
	Email     *string  `json:"email"`
	Currency  int64    `json:"currency"`
	Banned    bool     `json:"banned"`
	IsStaff   bool     `json:"is_staff"`
	CreatedAt string   `json:"created_at"`
	Actions   []string `json:"actions"`
}

func (h *Handlers) adminUserDetail(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := targetID(w, r)
	if !ok {
		return
	}

	detail, err := h.admin.UserDetail(r.Context(), actor, id)
	if err != nil {
		h.respondAdminError(w, "admin user detail", err)
		return
	}

	actions := make([]string, 0, len(detail.Actions))
	for _, a := range detail.Actions {
		actions = append(actions, string(a))
	}
	writeJSON(w, http.StatusOK, adminUserResponse{
		ID:        detail.User.ID.String(),
		Username:  detail.User.Username,
		Email:     detail.Email,
		Currency:  detail.User.Currency,
		Banned:    detail.User.Banned,
		IsStaff:   detail.IsStaff,
		CreatedAt: detail.User.CreatedAt.Format(time.RFC3339),
		Actions:   actions,
	})
}

type updateUserInfoRequest struct {
	Description string `json:"description"`
}

func (h *Handlers) adminUpdateUserInfo(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := targetID(w, r)
	if !ok {
		return
	}
	var req updateUserInfoRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.admin.UpdateUserInfo(r.Context(), actor, id, req.Description); err != nil {
		h.respondAdminError(w, "admin update user info", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type resetPasswordRequest struct {
	Password string `json:"password"`
}

func (h *Handlers) adminResetPassword(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := targetID(w, r)
	if !ok {
		return
	}
	var req resetPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.admin.ResetPassword(r.Context(), actor, id, req.Password); err != nil {
		h.respondAdminError(w, "admin reset password", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) adminBan(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := targetID(w, r)
	if !ok {
		return
	}
	if err := h.admin.Ban(r.Context(), actor, id); err != nil {
		h.respondAdminError(w, "admin ban", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) adminUnban(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := targetID(w, r)
	if !ok {
		return
	}
	if err := h.admin.Unban(r.Context(), actor, id); err != nil {
		h.respondAdminError(w, "admin unban", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type adjustCurrencyRequest struct {
	Delta int64 `json:"delta"`
}

type adjustCurrencyResponse struct {
	Balance int64 `json:"balance"`
}

func (h *Handlers) adminAdjustCurrency(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := targetID(w, r)
	if !ok {
		return
	}
	var req adjustCurrencyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	balance, err := h.admin.AdjustCurrency(r.Context(), actor, id, req.Delta)
	if err != nil {
		h.respondAdminError(w, "admin adjust currency", err)
		return
	}
	writeJSON(w, http.StatusOK, adjustCurrencyResponse{Balance: balance})
}

type itemRequest struct {
	ItemID string `json:"item_id"`
}

func (h *Handlers) adminGiveItem(w http.ResponseWriter, r *http.Request) {
	h.adminItemOp(w, r, h.admin.GiveItem)
}

func (h *Handlers) adminTakeItem(w http.ResponseWriter, r *http.Request) {
	h.adminItemOp(w, r, h.admin.TakeItem)
}

func (h *Handlers) adminItemOp(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, actor identity.Actor, targetID, itemID ulid.ULID) error) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := targetID(w, r)
	if !ok {
		return
	}
	var req itemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	itemID, err := ulid.Parse(req.ItemID)
	if err != nil {
		writeStatusError(w, http.StatusNotFound, "Item not found.")
		return
	}

	if err := op(r.Context(), actor, id, itemID); err != nil {
		h.respondAdminError(w, "admin item op", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type updateStaffRequest struct {
	Capabilities []string `json:"capabilities"`
}

func (h *Handlers) adminUpdateStaff(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := targetID(w, r)
	if !ok {
		return
	}
	var req updateStaffRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var caps access.Set
	for _, name := range req.Capabilities {
		c, err := access.ParseCapability(name)
		if err != nil {
			writeStatusError(w, http.StatusBadRequest, "Unknown capability: "+name)
			return
		}
		caps = caps.Grant(c)
	}

	if err := h.admin.UpdateStaffPermissions(r.Context(), actor, id, caps); err != nil {
		h.respondAdminError(w, "admin update staff", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) adminDeleteStaff(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := targetID(w, r)
	if !ok {
		return
	}
	if err := h.admin.DeleteStaff(r.Context(), actor, id); err != nil {
		h.respondAdminError(w, "admin delete staff", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
