// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/olegiv/portal-cms/internal/auth"
	"github.com/olegiv/portal-cms/internal/store"
)

var (
	// ErrNotFound is returned by write operations that reference a missing record.
	ErrNotFound = errors.New("not found")

	// ErrEmailTaken is returned by UserService.Create for a registered email.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials is returned by UserService.Authenticate.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInvalidEmail is returned by UserService.Create.
	ErrInvalidEmail = errors.New("invalid email address")
)

// UserService looks up, registers and authenticates users.
type UserService struct {
	dc     *store.DataContext
	logger *slog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(dc *store.DataContext, logger *slog.Logger) *UserService {
	return &UserService{dc: dc, logger: logger}
}

// Get returns the user with the given id, or nil if there is none.
func (s *UserService) Get(ctx context.Context, id int64) (*store.User, error) {
	user, err := s.dc.Queries().GetUserByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user %d: %w", id, err)
	}
	return &user, nil
}

// GetByEmail returns the user registered with email, or nil if there is none.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*store.User, error) {
	user, err := s.dc.Queries().GetUserByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user by email: %w", err)
	}
	return &user, nil
}

// CreateUserInput holds the fields needed to register a user.
type CreateUserInput struct {
	GivenName  string
	FamilyName string
	Email      string
	Password   string
}

// Create registers a new user with no roles.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*store.User, error) {
	email := normalizeEmail(in.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}
	if err := auth.ValidatePassword(in.Password); err != nil {
		return nil, err
	}

	existing, err := s.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now().UTC()
	user, err := s.dc.Queries().CreateUser(ctx, store.CreateUserParams{
		GivenName:    strings.TrimSpace(in.GivenName),
		FamilyName:   strings.TrimSpace(in.FamilyName),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	s.logger.Info("user created", "user_id", user.ID, "email", user.Email)
	return &user, nil
}

// Authenticate checks email and password and returns the matching user.
// Hashes produced with outdated parameters are upgraded on success.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*store.User, error) {
	user, err := s.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	ok, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil {
		s.logger.Warn("stored password hash is unreadable", "user_id", user.ID, "error", err)
		return nil, ErrInvalidCredentials
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	if auth.NeedsRehash(user.PasswordHash) {
		s.rehash(ctx, user, password)
	}
	return user, nil
}

func (s *UserService) rehash(ctx context.Context, user *store.User, password string) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		s.logger.Warn("rehashing password failed", "user_id", user.ID, "error", err)
		return
	}
	now := time.Now().UTC()
	if err := s.dc.Queries().UpdateUserPassword(ctx, store.UpdateUserPasswordParams{
		PasswordHash: hash,
		UpdatedAt:    now,
		ID:           user.ID,
	}); err != nil {
		s.logger.Warn("storing rehashed password failed", "user_id", user.ID, "error", err)
		return
	}
	user.PasswordHash = hash
	user.UpdatedAt = now
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
