// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/portal-cms/internal/model"
	"github.com/olegiv/portal-cms/internal/testutil"
)

var (
	roleAdmin         = model.AdminRole()
	roleAuthenticated = model.Role{ID: model.RoleIDAuthenticated, Name: model.RoleNameAuthenticated}
	roleAnonymous     = model.AnonymousRole()
	roleEditor        = model.Role{ID: 4, Name: "Editor"}
)

func TestRoleService_GetAnonymous(t *testing.T) {
	s := newTestServices(t)

	roles, err := s.roles.Get(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, 1, roles.Len())
	assert.Equal(t, []model.Role{roleAnonymous}, roles.Roles())
}

func TestRoleService_GetAnonymousWithoutRoleRow(t *testing.T) {
	s := newTestServices(t)
	_, err := s.db.Exec(`DELETE FROM roles WHERE name = 'Anonymous'`)
	require.NoError(t, err)

	roles, err := s.roles.Get(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []model.Role{model.AnonymousRole()}, roles.Roles())
}

func TestRoleService_GetUnknownUser(t *testing.T) {
	s := newTestServices(t)
	id := int64(999)

	roles, err := s.roles.Get(context.Background(), &id)
	require.NoError(t, err)
	assert.True(t, roles.IsEmpty())
}

func TestRoleService_GetAssignedRoles(t *testing.T) {
	tests := []struct {
		name    string
		roleIDs []int64
	}{
		{"no roles", nil},
		{"one role", []int64{model.RoleIDAuthenticated}},
		{"two roles", []int64{model.RoleIDAdmin, model.RoleIDAuthenticated}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServices(t)
			user := testutil.CreateUser(t, s.db, "user@example.com", tt.roleIDs...)

			roles, err := s.roles.Get(context.Background(), &user.ID)
			require.NoError(t, err)
			assert.Equal(t, len(tt.roleIDs), roles.Len())
			for _, id := range tt.roleIDs {
				assert.True(t, roles.Has(id), "missing role %d", id)
			}
			assert.False(t, roles.Has(model.RoleIDAnonymous), "user with an account resolved as anonymous")
		})
	}
}

func TestRoleService_Validate(t *testing.T) {
	set := model.NewRoleSet
	tests := []struct {
		name   string
		entity model.RoleSet
		user   model.RoleSet
		want   bool
	}{
		{"open content, anonymous", set(), set(roleAnonymous), true},
		{"open content, no roles", set(), set(), true},
		{"admin bypass", set(roleEditor), set(roleAdmin), true},
		{"admin among others", set(roleEditor), set(roleAuthenticated, roleAdmin), true},
		{"restricted, no roles", set(roleAuthenticated), set(), false},
		{"restricted, anonymous", set(roleAuthenticated), set(roleAnonymous), false},
		{"overlap", set(roleAuthenticated, roleEditor), set(roleEditor), true},
		{"no overlap", set(roleEditor), set(roleAuthenticated), false},
		{"matched by id only", set(model.Role{ID: 4, Name: "Other name"}), set(roleEditor), true},
	}

	s := &RoleService{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Validate(tt.entity, tt.user); got != tt.want {
				t.Errorf("Validate(%v, %v) = %v, want %v", tt.entity.IDs(), tt.user.IDs(), got, tt.want)
			}
		})
	}
}

func TestRoleService_AssignRevoke(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, s.db, "editor@example.com")

	roles, err := s.roles.Get(ctx, &user.ID)
	require.NoError(t, err)
	require.True(t, roles.IsEmpty())

	_, cached := s.roleCache.Get(ctx, user.ID)
	require.True(t, cached, "Get did not cache the role set")

	require.NoError(t, s.roles.Assign(ctx, user.ID, model.RoleIDAuthenticated))
	require.NoError(t, s.roles.Assign(ctx, user.ID, model.RoleIDAuthenticated), "second Assign")

	_, cached = s.roleCache.Get(ctx, user.ID)
	assert.False(t, cached, "Assign did not invalidate the cached role set")

	roles, err = s.roles.Get(ctx, &user.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{model.RoleIDAuthenticated}, roles.IDs())

	require.NoError(t, s.roles.Revoke(ctx, user.ID, model.RoleIDAuthenticated))
	require.NoError(t, s.roles.Revoke(ctx, user.ID, model.RoleIDAuthenticated), "second Revoke")

	roles, err = s.roles.Get(ctx, &user.ID)
	require.NoError(t, err)
	assert.True(t, roles.IsEmpty())
}

func TestRoleService_AssignNotFound(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, s.db, "someone@example.com")

	assert.ErrorIs(t, s.roles.Assign(ctx, 999, model.RoleIDAdmin), ErrNotFound)
	assert.ErrorIs(t, s.roles.Assign(ctx, user.ID, 999), ErrNotFound)
	assert.ErrorIs(t, s.roles.Revoke(ctx, 999, model.RoleIDAdmin), ErrNotFound)
}

func TestRoleService_List(t *testing.T) {
	s := newTestServices(t)

	roles, err := s.roles.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.Role{roleAdmin, roleAuthenticated, roleAnonymous}, roles)
}
