// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pixelhaven Contributors

package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/pixelhaven/pixelhaven/pkg/htmltext"
)

type wallCreator struct {
	Username  string `json:"username"`
	Thumbnail string `json:"thumbnail"`
	URL       string `json:"url"`
}

type wallPostPayload struct {
	ID       string      `json:"id"`
	Body     string      `json:"body"`
	TimeAgo  string      `json:"time_ago"`
	IsPinned bool        `json:"is_pinned"`
	Creator  wallCreator `json:"creator"`
}

type wallResponse struct {
	CurrentPage int               `json:"current_page"`
	TotalPages  int               `json:"total_pages"`
	Posts       []wallPostPayload `json:"posts"`
}

func (h *Handlers) groupWall(w http.ResponseWriter, r *http.Request) {
	groupID, err := ulid.Parse(r.URL.Query().Get("id"))
	if err != nil {
		writeError(w, "This group does not exist.")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	result, err := h.groups.Wall(r.Context(), groupID, page)
	if err != nil {
		h.respondDomainError(w, "group wall", err)
		return
	}

	// Only a wall with no posts at all reports the error. An out-of-range
	// page returns the page counts with an empty posts array.
	if result.Total == 0 {
		writeError(w, "No posts found.")
		return
	}

	now := time.Now()
	posts := make([]wallPostPayload, 0, len(result.Items))
	for _, row := range result.Items {
		posts = append(posts, wallPostPayload{
			ID:       row.ID.String(),
			Body:     htmltext.FormatBody(row.Body),
			TimeAgo:  htmltext.TimeAgo(row.CreatedAt, now),
			IsPinned: row.Pinned,
			Creator: wallCreator{
				Username:  row.AuthorUsername,
				Thumbnail: h.imagesFor(row.AuthorID).Thumbnail,
				URL:       h.baseURL + "/users/" + row.AuthorUsername,
			},
		})
	}
	writeJSON(w, http.StatusOK, wallResponse{
		CurrentPage: result.CurrentPage,
		TotalPages:  result.TotalPages,
		Posts:       posts,
	})
}

type postToWallRequest struct {
	GroupID string `json:"group_id"`
	Body    string `json:"body"`
}

func (h *Handlers) postToWall(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req postToWallRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	groupID, err := ulid.Parse(req.GroupID)
	if err != nil {
		writeError(w, "This group does not exist.")
		return
	}

	post, err := h.groups.PostToWall(r.Context(), actor.UserID, groupID, req.Body)
	if err != nil {
		h.respondDomainError(w, "post to wall", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": post.ID.String()})
}
