// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/olegiv/portal-cms/internal/auth"
)

// Default admin credentials, used when SeedConfig leaves them empty.
const (
	DefaultAdminEmail      = "admin@example.com"
	DefaultAdminPassword   = "changeme1234"
	DefaultAdminGivenName  = "Portal"
	DefaultAdminFamilyName = "Administrator"
)

// adminRoleID mirrors model.RoleIDAdmin; store cannot import model.
const adminRoleID = 1

// SeedConfig controls the initial data created by Seed.
type SeedConfig struct {
	Enabled       bool
	AdminEmail    string
	AdminPassword string
}

// Seed creates the default admin user and grants it the Admin role.
// It is a no-op when seeding is disabled or the admin already exists.
func Seed(ctx context.Context, db *sql.DB, cfg SeedConfig) error {
	if !cfg.Enabled {
		slog.Info("database seeding disabled, skipping")
		return nil
	}

	email := strings.ToLower(strings.TrimSpace(cfg.AdminEmail))
	if email == "" {
		email = DefaultAdminEmail
	}
	password := cfg.AdminPassword
	if password == "" {
		password = DefaultAdminPassword
	}

	queries := New(db)

	_, err := queries.GetUserByEmail(ctx, email)
	if err == nil {
		slog.Info("admin user already exists, skipping seed")
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking for admin user: %w", err)
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	dc := NewDataContext(db)
	var user User
	err = dc.InTx(ctx, func(q *Queries) error {
		now := time.Now().UTC()
		user, err = q.CreateUser(ctx, CreateUserParams{
			GivenName:    DefaultAdminGivenName,
			FamilyName:   DefaultAdminFamilyName,
			Email:        email,
			PasswordHash: passwordHash,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if err != nil {
			return fmt.Errorf("creating admin user: %w", err)
		}
		if err := q.AssignRole(ctx, AssignRoleParams{UserID: user.ID, RoleID: adminRoleID}); err != nil {
			return fmt.Errorf("assigning admin role: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.Info("created default admin user", "id", user.ID, "email", user.Email)

	return nil
}
