// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pixelhaven Contributors

package httpapi

import (
	"net/http"
	"time"

	"github.com/pixelhaven/pixelhaven/pkg/errutil"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	session, token, err := h.auth.Login(r.Context(), req.Username, req.Password, r.RemoteAddr)
	if err != nil {
		switch errutil.Code(err) {
		case "AUTH_INVALID_CREDENTIALS":
			writeError(w, "Invalid username or password.")
		case "AUTH_ACCOUNT_BANNED":
			writeError(w, "Your account has been banned.")
		default:
			errutil.LogError(h.log, "login", err)
			writeError(w, genericFault)
		}
		if h.metrics != nil {
			h.metrics.LoginsTotal.WithLabelValues("failure").Inc()
		}
		return
	}

	if h.metrics != nil {
		h.metrics.LoginsTotal.WithLabelValues("success").Inc()
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: token, ExpiresAt: session.ExpiresAt})
}

func (h *Handlers) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(r.Context(), bearerToken(r)); err != nil {
		errutil.LogError(h.log, "logout", err)
		writeError(w, genericFault)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
