// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for session-based role
// resolution, role checks, CSRF and login throttling.
package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/portal-cms/internal/model"
	"github.com/olegiv/portal-cms/internal/session"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// Context keys set by LoadRoles.
const (
	ContextKeyUserID ContextKey = "user_id"
	ContextKeyRoles  ContextKey = "roles"
)

// RoleResolver resolves and checks role sets. It is satisfied by
// *service.RoleService.
type RoleResolver interface {
	Get(ctx context.Context, userID *int64) (model.RoleSet, error)
	Validate(entityRoles, userRoles model.RoleSet) bool
}

// LoadRoles resolves the roles of the session user, or the anonymous role
// when nobody is logged in, and stores them in the request context.
func LoadRoles(sm *scs.SessionManager, roles RoleResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var userID *int64
			if id := sm.GetInt64(r.Context(), session.KeyUserID); id != 0 {
				userID = &id
			}

			set, err := roles.Get(r.Context(), userID)
			if err != nil {
				slog.Error("resolving roles failed", "error", err, "path", r.URL.Path)
				WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to resolve roles", nil)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyRoles, set)
			if userID != nil {
				ctx = context.WithValue(ctx, ContextKeyUserID, *userID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetRoles returns the role set stored by LoadRoles, or an empty set.
func GetRoles(r *http.Request) model.RoleSet {
	set, _ := r.Context().Value(ContextKeyRoles).(model.RoleSet)
	return set
}

// GetUserID returns the logged-in user's id, or 0 for anonymous requests.
func GetUserID(r *http.Request) int64 {
	id, _ := r.Context().Value(ContextKeyUserID).(int64)
	return id
}

// GetUserIDPtr returns a pointer to the logged-in user's id, or nil.
func GetUserIDPtr(r *http.Request) *int64 {
	if id := GetUserID(r); id != 0 {
		return &id
	}
	return nil
}

// APIError is the JSON error body written by middleware.
type APIError struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
	} `json:"error"`
}

// WriteAPIError writes a JSON error response.
func WriteAPIError(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	var body APIError
	body.Error.Code = code
	body.Error.Message = message
	body.Error.Details = details
	_ = json.NewEncoder(w).Encode(body)
}
