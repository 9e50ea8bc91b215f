// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pixelhaven Contributors

package httpapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pixelhaven/pixelhaven/internal/identity"
	"github.com/pixelhaven/pixelhaven/pkg/errutil"
)

// bearerToken extracts the token from an "Authorization: Bearer" header.
// Returns the empty string when the header is absent or malformed.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// authenticate resolves the request's bearer token to an actor and attaches
// it to the context. Resolution failures degrade to anonymous rather than
// failing the request; per-handler checks decide whether that is acceptable.
func (h *Handlers) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, err := h.auth.ResolveActor(r.Context(), bearerToken(r))
		if err != nil {
			errutil.LogError(h.log, "resolve actor", err)
			actor = identity.Anonymous
		}
		next.ServeHTTP(w, r.WithContext(identity.WithActor(r.Context(), actor)))
	})
}

// observe records request count and latency against the chi route pattern
// so per-ID paths don't explode the label space.
func (h *Handlers) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.metrics == nil {
			next.ServeHTTP(w, r)
			return
		}
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		h.metrics.RequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(ww.Status())).Inc()
		h.metrics.RequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// requireActor returns the authenticated actor, writing the failure response
// when the request is anonymous. A false return means the response has been
// written.
func requireActor(w http.ResponseWriter, r *http.Request) (identity.Actor, bool) {
	actor := identity.CurrentActor(r.Context())
	if actor.IsAnonymous() {
		writeStatusError(w, http.StatusUnauthorized, "Authentication required.")
		return identity.Anonymous, false
	}
	return actor, true
}
