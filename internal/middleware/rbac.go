// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/olegiv/portal-cms/internal/model"
)

// AuditLogger records security events. It is satisfied by *service.EventService.
type AuditLogger interface {
	LogAuthEvent(ctx context.Context, level, message string, userID *int64, ipAddress string, metadata map[string]any) error
}

// RequireRoles rejects requests whose role set, as stored by LoadRoles,
// does not satisfy required. An empty required set lets everyone through.
// audit may be nil.
func RequireRoles(roles RoleResolver, required model.RoleSet, audit AuditLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			have := GetRoles(r)
			if roles.Validate(required, have) {
				next.ServeHTTP(w, r)
				return
			}

			userID := GetUserIDPtr(r)
			slog.Warn("access denied",
				"status", http.StatusForbidden,
				"method", r.Method,
				"path", r.URL.Path,
				"user_id", GetUserID(r),
				"roles", have.IDs(),
				"required", required.IDs(),
				"remote_addr", r.RemoteAddr,
			)
			if audit != nil {
				_ = audit.LogAuthEvent(r.Context(), model.EventLevelWarning, "Access denied: insufficient roles",
					userID, ClientIP(r), map[string]any{
						"method":   r.Method,
						"path":     r.URL.Path,
						"required": required.IDs(),
					})
			}

			WriteAPIError(w, http.StatusForbidden, "forbidden", "Insufficient permissions", nil)
		})
	}
}

// RequireAdmin allows only users holding the Admin role.
func RequireAdmin(roles RoleResolver, audit AuditLogger) func(http.Handler) http.Handler {
	return RequireRoles(roles, model.NewRoleSet(model.AdminRole()), audit)
}
