// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/olegiv/portal-cms/internal/cache"
	"github.com/olegiv/portal-cms/internal/model"
	"github.com/olegiv/portal-cms/internal/store"
)

// RoleService resolves the roles held by users and checks them against the
// roles required by content.
type RoleService struct {
	dc     *store.DataContext
	users  *UserService
	cache  *cache.RoleCache
	logger *slog.Logger
}

// NewRoleService creates a RoleService. roleCache may be nil.
func NewRoleService(dc *store.DataContext, users *UserService, roleCache *cache.RoleCache, logger *slog.Logger) *RoleService {
	return &RoleService{
		dc:     dc,
		users:  users,
		cache:  roleCache,
		logger: logger,
	}
}

// Get returns the roles of the user with the given id.
//
// A nil userID stands for an anonymous visitor and always yields exactly one
// role, Anonymous. An unknown user yields an empty set. Only storage
// failures are returned as errors.
func (s *RoleService) Get(ctx context.Context, userID *int64) (model.RoleSet, error) {
	if userID == nil {
		return s.anonymous(ctx)
	}
	id := *userID

	if s.cache == nil {
		return s.load(ctx, id)
	}
	return s.cache.GetOrLoad(ctx, id, func() (model.RoleSet, error) {
		return s.load(ctx, id)
	})
}

// load reads the role set of user id from storage.
func (s *RoleService) load(ctx context.Context, id int64) (model.RoleSet, error) {
	user, err := s.users.Get(ctx, id)
	if err != nil {
		return model.RoleSet{}, err
	}
	if user == nil {
		return model.NewRoleSet(), nil
	}

	rows, err := s.dc.Queries().ListRolesForUser(ctx, user.ID)
	if err != nil {
		return model.RoleSet{}, fmt.Errorf("listing roles of user %d: %w", user.ID, err)
	}
	return model.NewRoleSet(toModelRoles(rows)...), nil
}

func (s *RoleService) anonymous(ctx context.Context) (model.RoleSet, error) {
	row, err := s.dc.Queries().GetRoleByName(ctx, model.RoleNameAnonymous)
	if errors.Is(err, sql.ErrNoRows) {
		return model.NewRoleSet(model.AnonymousRole()), nil
	}
	if err != nil {
		return model.RoleSet{}, fmt.Errorf("getting anonymous role: %w", err)
	}
	return model.NewRoleSet(model.Role{ID: row.ID, Name: row.Name}), nil
}

// Validate reports whether userRoles grant access to content requiring
// entityRoles. Content without required roles is open to everyone and the
// Admin role is granted access to everything.
func (s *RoleService) Validate(entityRoles, userRoles model.RoleSet) bool {
	if entityRoles.IsEmpty() {
		return true
	}
	if userRoles.IsAdmin() {
		return true
	}
	return entityRoles.Intersects(userRoles)
}

// List returns every role ordered by id.
func (s *RoleService) List(ctx context.Context) ([]model.Role, error) {
	rows, err := s.dc.Queries().ListRoles(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing roles: %w", err)
	}
	return toModelRoles(rows), nil
}

// Assign grants roleID to userID. Assigning a role the user already holds
// is not an error. ErrNotFound is returned for an unknown user or role.
func (s *RoleService) Assign(ctx context.Context, userID, roleID int64) error {
	if err := s.checkUserAndRole(ctx, userID, roleID); err != nil {
		return err
	}

	err := s.dc.InTx(ctx, func(q *store.Queries) error {
		return q.AssignRole(ctx, store.AssignRoleParams{UserID: userID, RoleID: roleID})
	})
	if err != nil {
		return fmt.Errorf("assigning role %d to user %d: %w", roleID, userID, err)
	}

	s.invalidate(ctx, userID)
	s.logger.Info("role assigned", "category", model.EventCategoryRole, "user_id", userID, "role_id", roleID)
	return nil
}

// Revoke removes roleID from userID. Revoking a role the user does not hold
// is not an error. ErrNotFound is returned for an unknown user or role.
func (s *RoleService) Revoke(ctx context.Context, userID, roleID int64) error {
	if err := s.checkUserAndRole(ctx, userID, roleID); err != nil {
		return err
	}

	var removed int64
	err := s.dc.InTx(ctx, func(q *store.Queries) error {
		var err error
		removed, err = q.RevokeRole(ctx, store.RevokeRoleParams{UserID: userID, RoleID: roleID})
		return err
	})
	if err != nil {
		return fmt.Errorf("revoking role %d from user %d: %w", roleID, userID, err)
	}

	s.invalidate(ctx, userID)
	if removed > 0 {
		s.logger.Info("role revoked", "category", model.EventCategoryRole, "user_id", userID, "role_id", roleID)
	}
	return nil
}

func (s *RoleService) checkUserAndRole(ctx context.Context, userID, roleID int64) error {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}

	_, err = s.dc.Queries().GetRoleByID(ctx, roleID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("role %d: %w", roleID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("getting role %d: %w", roleID, err)
	}
	return nil
}

func (s *RoleService) invalidate(ctx context.Context, userID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		s.logger.Warn("invalidating cached roles failed", "category", model.EventCategoryCache, "user_id", userID, "error", err)
	}
}

func toModelRoles(rows []store.Role) []model.Role {
	roles := make([]model.Role, len(rows))
	for i, r := range rows {
		roles[i] = model.Role{ID: r.ID, Name: r.Name}
	}
	return roles
}
