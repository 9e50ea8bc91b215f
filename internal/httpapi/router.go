// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pixelhaven Contributors

package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pixelhaven/pixelhaven/internal/admin"
	"github.com/pixelhaven/pixelhaven/internal/auth"
	"github.com/pixelhaven/pixelhaven/internal/friends"
	"github.com/pixelhaven/pixelhaven/internal/group"
	"github.com/pixelhaven/pixelhaven/internal/identity"
	"github.com/pixelhaven/pixelhaven/internal/inventory"
	"github.com/pixelhaven/pixelhaven/internal/observability"
)

// Handlers bundles the services behind the JSON API.
type Handlers struct {
	log     *slog.Logger
	metrics *observability.Metrics
	baseURL string

	auth      *auth.Service
	users     identity.UserRepository
	staff     identity.StaffRepository
	groups    *group.Service
	inventory *inventory.Service
	friends   *friends.Service
	admin     *admin.Service
}

// Deps are the collaborators a Handlers needs. Metrics may be nil, in which
// case request instrumentation is skipped.
type Deps struct {
	Log     *slog.Logger
	Metrics *observability.Metrics
	BaseURL string

	Auth      *auth.Service
	Users     identity.UserRepository
	Staff     identity.StaffRepository
	Groups    *group.Service
	Inventory *inventory.Service
	Friends   *friends.Service
	Admin     *admin.Service
}

// NewHandlers creates the API handler set.
func NewHandlers(deps Deps) *Handlers {
	log := deps.Log
	if log == nil {
		log = slog.Default()
	}
	return &Handlers{
		log:       log,
		metrics:   deps.Metrics,
		baseURL:   deps.BaseURL,
		auth:      deps.Auth,
		users:     deps.Users,
		staff:     deps.Staff,
		groups:    deps.Groups,
		inventory: deps.Inventory,
		friends:   deps.Friends,
		admin:     deps.Admin,
	}
}

// Router assembles the chi router with the full route table.
func (h *Handlers) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(h.observe)
	r.Use(h.authenticate)

	r.Post("/api/auth/login", h.login)
	r.Post("/api/auth/logout", h.logout)

	r.Get("/api/users/info", h.userInfo)
	r.Get("/api/users/inventory", h.userInventory)

	r.Get("/api/groups/wall", h.groupWall)
	r.Post("/api/groups/wall", h.postToWall)

	r.Get("/api/friends/requests", h.friendRequests)
	r.Post("/api/friends/requests", h.respondFriendRequest)
	r.Post("/api/friends/send", h.sendFriendRequest)

	r.Route("/api/admin", func(r chi.Router) {
		r.Get("/users/{id}", h.adminUserDetail)
		r.Post("/users/{id}/info", h.adminUpdateUserInfo)
		r.Post("/users/{id}/password", h.adminResetPassword)
		r.Post("/users/{id}/ban", h.adminBan)
		r.Post("/users/{id}/unban", h.adminUnban)
		r.Post("/users/{id}/currency", h.adminAdjustCurrency)
		r.Post("/users/{id}/items/give", h.adminGiveItem)
		r.Post("/users/{id}/items/take", h.adminTakeItem)
		r.Put("/staff/{id}", h.adminUpdateStaff)
		r.Delete("/staff/{id}", h.adminDeleteStaff)
	})

	return r
}
