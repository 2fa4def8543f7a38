// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"net/http"

	"github.com/olegiv/portal-cms/internal/middleware"
	"github.com/olegiv/portal-cms/internal/model"
	"github.com/olegiv/portal-cms/internal/service"
)

// RolesResponse describes the role set of the caller.
type RolesResponse struct {
	UserID *int64       `json:"user_id"`
	Roles  []model.Role `json:"roles"`
}

// AssignRoleRequest is the body of POST /users/{id}/roles.
type AssignRoleRequest struct {
	RoleID int64 `json:"role_id"`
}

// MyRoles returns the roles of the session user, or the anonymous role.
func (h *Handler) MyRoles(w http.ResponseWriter, r *http.Request) {
	roles := middleware.GetRoles(r)
	list := roles.Roles()
	if list == nil {
		list = []model.Role{}
	}
	WriteSuccess(w, RolesResponse{
		UserID: middleware.GetUserIDPtr(r),
		Roles:  list,
	}, nil)
}

// ListRoles returns every defined role.
func (h *Handler) ListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.roles.List(r.Context())
	if err != nil {
		h.logger.Error("listing roles", "error", err)
		WriteInternalError(w, "Failed to list roles")
		return
	}
	WriteList(w, roles)
}

// AssignRole grants a role to a user.
func (h *Handler) AssignRole(w http.ResponseWriter, r *http.Request) {
	userID, err := parseIDParam(r, "id")
	if err != nil {
		WriteBadRequest(w, "Invalid user ID", nil)
		return
	}

	var req AssignRoleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.RoleID <= 0 {
		WriteValidationError(w, map[string]string{"role_id": "Role is required"})
		return
	}

	if err := h.roles.Assign(r.Context(), userID, req.RoleID); err != nil {
		h.writeRoleChangeError(w, err)
		return
	}
	h.auditRoleChange(r, "Role assigned", userID, req.RoleID)
	w.WriteHeader(http.StatusNoContent)
}

// RevokeRole removes a role from a user.
func (h *Handler) RevokeRole(w http.ResponseWriter, r *http.Request) {
	userID, err := parseIDParam(r, "id")
	if err != nil {
		WriteBadRequest(w, "Invalid user ID", nil)
		return
	}
	roleID, err := parseIDParam(r, "roleID")
	if err != nil {
		WriteBadRequest(w, "Invalid role ID", nil)
		return
	}

	if err := h.roles.Revoke(r.Context(), userID, roleID); err != nil {
		h.writeRoleChangeError(w, err)
		return
	}
	h.auditRoleChange(r, "Role revoked", userID, roleID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeRoleChangeError(w http.ResponseWriter, err error) {
	if errors.Is(err, service.ErrNotFound) {
		WriteNotFound(w, "User or role not found")
		return
	}
	h.logger.Error("changing user roles", "error", err)
	WriteInternalError(w, "Failed to update roles")
}

func (h *Handler) auditRoleChange(r *http.Request, message string, userID, roleID int64) {
	_ = h.events.LogRoleEvent(r.Context(), model.EventLevelInfo, message, middleware.GetUserIDPtr(r),
		middleware.ClientIP(r), map[string]any{"target_user_id": userID, "role_id": roleID})
}
