// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pixelhaven Contributors

package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/pixelhaven/pixelhaven/internal/friends"
	"github.com/pixelhaven/pixelhaven/pkg/htmltext"
)

type friendRequestPayload struct {
	ID      string `json:"id"`
	Sender  string `json:"sender"`
	TimeAgo string `json:"time_ago"`
}

type friendRequestsResponse struct {
	CurrentPage int                    `json:"current_page"`
	TotalPages  int                    `json:"total_pages"`
	Requests    []friendRequestPayload `json:"requests"`
}

func (h *Handlers) friendRequests(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	result, err := h.friends.Requests(r.Context(), actor.UserID, page)
	if err != nil {
		h.respondDomainError(w, "friend requests", err)
		return
	}

	now := time.Now()
	requests := make([]friendRequestPayload, 0, len(result.Items))
	for _, row := range result.Items {
		requests = append(requests, friendRequestPayload{
			ID:      row.ID.String(),
			Sender:  row.SenderUsername,
			TimeAgo: htmltext.TimeAgo(row.CreatedAt, now),
		})
	}
	writeJSON(w, http.StatusOK, friendRequestsResponse{
		CurrentPage: result.CurrentPage,
		TotalPages:  result.TotalPages,
		Requests:    requests,
	})
}

type respondFriendRequestBody struct {
	ID     string `json:"id"`
	Action string `json:"action"`
}

func (h *Handlers) respondFriendRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req respondFriendRequestBody
	if !decodeJSON(w, r, &req) {
		return
	}

	action, err := friends.ParseAction(req.Action)
	if err != nil {
		h.respondDomainError(w, "friend request action", err)
		return
	}
	requestID, err := ulid.Parse(req.ID)
	if err != nil {
		writeError(w, "Invalid request.")
		return
	}

	if err := h.friends.Respond(r.Context(), actor.UserID, requestID, action); err != nil {
		h.respondDomainError(w, "respond to friend request", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type sendFriendRequestBody struct {
	Username string `json:"username"`
}

func (h *Handlers) sendFriendRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req sendFriendRequestBody
	if !decodeJSON(w, r, &req) {
		return
	}

	recipient, err := h.users.GetByUsername(r.Context(), req.Username)
	if err != nil {
		h.respondDomainError(w, "friend request recipient lookup", err)
		return
	}

	sent, err := h.friends.Send(r.Context(), actor.UserID, recipient.ID)
	if err != nil {
		h.respondDomainError(w, "send friend request", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": sent.ID.String()})
}
