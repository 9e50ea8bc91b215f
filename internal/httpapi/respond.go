// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pixelhaven Contributors

// Package httpapi exposes the platform's JSON API over chi.
//
// The public surface reports every failure as a 200 response carrying a
// single "error" key with a human-readable reason; HTTP status codes are
// reserved for the authenticated staff surface and for transport-level
// problems (malformed JSON, missing auth). Internal faults are logged and
// masked behind a generic message.
package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/pixelhaven/pixelhaven/internal/access"
	"github.com/pixelhaven/pixelhaven/internal/friends"
	"github.com/pixelhaven/pixelhaven/internal/group"
	"github.com/pixelhaven/pixelhaven/internal/identity"
	"github.com/pixelhaven/pixelhaven/internal/inventory"
	"github.com/pixelhaven/pixelhaven/pkg/errutil"
)

// genericFault masks internal errors from callers.
const genericFault = "Something went wrong."

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError emits the public-surface failure shape: HTTP 200 with the
// reason under the "error" key.
func writeError(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusOK, errorResponse{Error: msg})
}

// writeStatusError emits a status-coded failure for the staff surface.
func writeStatusError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// decodeJSON parses the request body into dst. A false return means the
// response has already been written.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeStatusError(w, http.StatusBadRequest, "Malformed request body.")
		return false
	}
	return true
}

// publicMessage maps domain errors to the user-facing strings the public
// surface returns. Unknown errors map to the generic fault message.
func publicMessage(err error) string {
	switch {
	case errors.Is(err, identity.ErrNotFound):
		return "Invalid user."
	case errors.Is(err, group.ErrNotFound):
		return "This group does not exist."
	case errors.Is(err, group.ErrNotMember):
		return "You are not a member of this group."
	case errors.Is(err, group.ErrInvalidBody):
		return "Post body must be between 3 and 150 characters."
	case errors.Is(err, inventory.ErrUnknownCategory):
		return "Invalid category."
	case errors.Is(err, inventory.ErrNotFound):
		return "Invalid item."
	case errors.Is(err, friends.ErrNotFound):
		return "Invalid request."
	case errors.Is(err, friends.ErrInvalidAction):
		return "Invalid action."
	case errors.Is(err, friends.ErrSelfRequest):
		return "You cannot send a friend request to yourself."
	case errors.Is(err, friends.ErrAlreadyFriends):
		return "You are already friends with this user."
	case errors.Is(err, friends.ErrRequestPending):
		return "A friend request is already pending with this user."
	case errors.Is(err, friends.ErrNotAccepting):
		return "This user is not accepting friend requests."
	case errors.Is(err, access.ErrNotAuthorized):
		return "not authorized"
	default:
		return genericFault
	}
}

// respondDomainError writes the public failure shape for a domain error,
// logging it first when it maps to the generic fault.
func (h *Handlers) respondDomainError(w http.ResponseWriter, msg string, err error) {
	public := publicMessage(err)
	if public == genericFault {
		errutil.LogError(h.log, msg, err)
	} else {
		h.log.Debug(msg, slog.String("error_code", errutil.Code(err)))
	}
	writeError(w, public)
}
