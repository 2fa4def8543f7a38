// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/portal-cms/internal/auth"
	"github.com/olegiv/portal-cms/internal/store"
)

func TestUserService_Create(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	user, err := s.users.Create(ctx, CreateUserInput{
		GivenName:  " Ada ",
		FamilyName: "Lovelace",
		Email:      " Ada@Example.COM ",
		Password:   "analytical-engine",
	})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, "Ada", user.GivenName)
	assert.NotEqual(t, "analytical-engine", user.PasswordHash)

	got, err := s.users.GetByEmail(ctx, "ADA@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, user.ID, got.ID)

	roles, err := s.roles.Get(ctx, &user.ID)
	require.NoError(t, err)
	assert.True(t, roles.IsEmpty(), "new users start without roles")
}

func TestUserService_CreateErrors(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	_, err := s.users.Create(ctx, CreateUserInput{Email: "taken@example.com", Password: "long-enough-pw"})
	require.NoError(t, err)

	tests := []struct {
		name string
		in   CreateUserInput
		want error
	}{
		{"duplicate email", CreateUserInput{Email: "TAKEN@example.com", Password: "long-enough-pw"}, ErrEmailTaken},
		{"invalid email", CreateUserInput{Email: "not-an-email", Password: "long-enough-pw"}, ErrInvalidEmail},
		{"short password", CreateUserInput{Email: "new@example.com", Password: "short"}, auth.ErrPasswordTooShort},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.users.Create(ctx, tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestUserService_GetAbsent(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	user, err := s.users.Get(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, user)

	user, err = s.users.GetByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestUserService_Authenticate(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	created, err := s.users.Create(ctx, CreateUserInput{Email: "login@example.com", Password: "right-password"})
	require.NoError(t, err)

	user, err := s.users.Authenticate(ctx, "Login@Example.com", "right-password")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	_, err = s.users.Authenticate(ctx, "login@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = s.users.Authenticate(ctx, "missing@example.com", "right-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserService_AuthenticateRehashesLegacyHash(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	// argon2id hash of "changeme" with m=65536, t=1, p=4
	const legacy = "$argon2id$v=19$m=65536,t=1,p=4$mucMvOaS6lZ2LWNS1OEFKw$UYEWv8cvCOO6l2zGeqv3JPVe1nyy0x9GXBfYEuDM544"
	require.True(t, auth.NeedsRehash(legacy))

	now := time.Now().UTC()
	created, err := s.dc.Queries().CreateUser(ctx, store.CreateUserParams{
		GivenName: "Legacy", FamilyName: "User", Email: "legacy@example.com",
		PasswordHash: legacy, CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)

	_, err = s.users.Authenticate(ctx, "legacy@example.com", "changeme")
	require.NoError(t, err)

	stored, err := s.users.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.NotEqual(t, legacy, stored.PasswordHash)
	assert.False(t, auth.NeedsRehash(stored.PasswordHash))

	_, err = s.users.Authenticate(ctx, "legacy@example.com", "changeme")
	assert.NoError(t, err, "login with upgraded hash")
}
