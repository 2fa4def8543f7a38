// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/portal-cms/internal/middleware"
	"github.com/olegiv/portal-cms/internal/model"
)

// RouterConfig holds the settings of the HTTP router.
type RouterConfig struct {
	CSRFKey        []byte
	IsDevelopment  bool
	ServerAddr     string
	RequestTimeout time.Duration
	RateLimit      float64 // requests per second per IP
	RateBurst      int
}

// PageBuilderRoles are the roles allowed to edit page sections.
func PageBuilderRoles() model.RoleSet {
	return model.NewRoleSet(model.AdminRole(), model.AuthenticatedRole())
}

// Router builds the HTTP handler serving the health checks and /api/v1.
func (h *Handler) Router(cfg RouterConfig) http.Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 100
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = 200
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(cfg.RequestTimeout))
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment)))

	r.Get("/health/live", h.Liveness)
	r.Get("/health/ready", h.Readiness)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimit, cfg.RateBurst))
		r.Use(h.sm.LoadAndSave)
		r.Use(middleware.CSRF(middleware.DefaultCSRFConfig(cfg.CSRFKey, cfg.IsDevelopment, cfg.ServerAddr)))
		r.Use(middleware.LoadRoles(h.sm, h.roles))

		r.Get("/status", h.Status)

		r.Group(func(r chi.Router) {
			if h.lp != nil {
				r.Use(h.lp.Middleware())
			}
			r.Post("/auth/login", h.Login)
		})
		r.Post("/auth/logout", h.Logout)

		r.Get("/me/roles", h.MyRoles)

		r.Get("/component-types", h.ListComponentTypes)
		r.Get("/component-types/{id}", h.GetComponentType)
		r.Get("/sections/{id}", h.GetSection)
		r.Get("/sections/{id}/render", h.RenderSection)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRoles(h.roles, PageBuilderRoles(), h.events))
			r.Post("/sections/{id}/components", h.AddComponent)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(h.roles, h.events))
			r.Post("/component-types", h.CreateComponentType)
			r.Post("/sections", h.CreateSection)
			r.Get("/roles", h.ListRoles)
			r.Post("/users/{id}/roles", h.AssignRole)
			r.Delete("/users/{id}/roles/{roleID}", h.RevokeRole)
			r.Get("/events", h.ListEvents)
		})
	})

	return r
}
