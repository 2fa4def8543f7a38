// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/olegiv/portal-cms/internal/middleware"
	"github.com/olegiv/portal-cms/internal/model"
	"github.com/olegiv/portal-cms/internal/service"
	"github.com/olegiv/portal-cms/internal/session"
)

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID         int64   `json:"id"`
	GivenName  string  `json:"given_name"`
	FamilyName string  `json:"family_name"`
	Email      string  `json:"email"`
	RoleIDs    []int64 `json:"role_ids"`
}

// Login authenticates the user and stores their id in a fresh session.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		WriteValidationError(w, map[string]string{"email": "Email and password are required"})
		return
	}

	ctx := r.Context()
	ip := middleware.ClientIP(r)

	if h.lp != nil {
		if locked, remaining := h.lp.IsAccountLocked(email); locked {
			_ = h.events.LogAuthEvent(ctx, model.EventLevelWarning, "Login attempt on locked account", nil, ip, map[string]any{"email": email})
			w.Header().Set("Retry-After", fmt.Sprintf("%d", int(remaining.Round(time.Second).Seconds())))
			WriteError(w, http.StatusTooManyRequests, "account_locked",
				"Account is temporarily locked. Try again in "+remaining.Round(time.Second).String(), nil)
			return
		}
	}

	user, err := h.users.Authenticate(ctx, email, req.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		h.loginFailed(w, r, email, ip)
		return
	}
	if err != nil {
		h.logger.Error("login failed", "error", err)
		WriteInternalError(w, "Login failed")
		return
	}

	if h.lp != nil {
		h.lp.RecordSuccessfulLogin(email)
	}

	if err := h.sm.RenewToken(ctx); err != nil {
		h.logger.Error("session renewal error", "error", err)
		WriteInternalError(w, "Login failed")
		return
	}
	h.sm.Put(ctx, session.KeyUserID, user.ID)

	roles, err := h.roles.Get(ctx, &user.ID)
	if err != nil {
		h.logger.Error("resolving roles after login", "error", err, "user_id", user.ID)
		WriteInternalError(w, "Login failed")
		return
	}

	h.logger.Info("user logged in", "user_id", user.ID, "email", user.Email)
	_ = h.events.LogAuthEvent(ctx, model.EventLevelInfo, "User logged in", &user.ID, ip, map[string]any{"email": user.Email})

	WriteSuccess(w, UserResponse{
		ID:         user.ID,
		GivenName:  user.GivenName,
		FamilyName: user.FamilyName,
		Email:      user.Email,
		RoleIDs:    roles.IDs(),
	}, nil)
}

func (h *Handler) loginFailed(w http.ResponseWriter, r *http.Request, email, ip string) {
	ctx := r.Context()
	_ = h.events.LogAuthEvent(ctx, model.EventLevelWarning, "Login failed", nil, ip, map[string]any{"email": email})

	if h.lp != nil {
		if locked, d := h.lp.RecordFailedAttempt(email); locked {
			_ = h.events.LogAuthEvent(ctx, model.EventLevelWarning, "Account locked due to failed attempts", nil, ip,
				map[string]any{"email": email, "duration": d.String()})
			w.Header().Set("Retry-After", fmt.Sprintf("%d", int(d.Seconds())))
			WriteError(w, http.StatusTooManyRequests, "account_locked",
				"Too many failed attempts. Try again in "+d.String(), nil)
			return
		}
		if remaining := h.lp.RemainingAttempts(email); remaining > 0 && remaining <= 3 {
			WriteError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid email or password",
				map[string]string{"remaining_attempts": fmt.Sprintf("%d", remaining)})
			return
		}
	}
	WriteError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid email or password", nil)
}

// Logout destroys the session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := h.sm.GetInt64(ctx, session.KeyUserID)

	if userID > 0 {
		_ = h.events.LogAuthEvent(ctx, model.EventLevelInfo, "User logged out", &userID, middleware.ClientIP(r), nil)
	}

	if err := h.sm.Destroy(ctx); err != nil {
		h.logger.Error("session destroy error", "error", err)
		WriteInternalError(w, "Logout failed")
		return
	}

	h.logger.Info("user logged out", "user_id", userID)
	w.WriteHeader(http.StatusNoContent)
}
