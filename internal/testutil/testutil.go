// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package testutil provides shared test helpers for portal-cms packages.
package testutil

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/olegiv/portal-cms/internal/auth"
	"github.com/olegiv/portal-cms/internal/store"

	_ "github.com/mattn/go-sqlite3"
)

// TestPassword is the plaintext password of users created by CreateUser.
const TestPassword = "correct-horse-battery"

// TestLogger creates a test logger that only outputs warnings and errors.
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// TestLoggerSilent creates a test logger that only outputs errors.
func TestLoggerSilent() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// TestDB creates a temporary migrated database. The returned cleanup
// function closes it.
func TestDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "portal-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	_ = f.Close()

	db, err := store.NewDB(dbPath)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	if err := store.Migrate(db); err != nil {
		_ = db.Close()
		t.Fatalf("Migrate: %v", err)
	}

	return db, func() { _ = db.Close() }
}

// TestMemoryDB opens an unmigrated in-memory database with the cgo driver.
func TestMemoryDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// CreateUser inserts a user with TestPassword and grants it roleIDs.
func CreateUser(t *testing.T, db *sql.DB, email string, roleIDs ...int64) store.User {
	t.Helper()

	hash, err := auth.HashPassword(TestPassword)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	ctx := context.Background()
	q := store.New(db)
	now := time.Now().UTC()
	user, err := q.CreateUser(ctx, store.CreateUserParams{
		GivenName:    "Test",
		FamilyName:   "User",
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("CreateUser(%s): %v", email, err)
	}
	for _, id := range roleIDs {
		if err := q.AssignRole(ctx, store.AssignRoleParams{UserID: user.ID, RoleID: id}); err != nil {
			t.Fatalf("AssignRole(%d, %d): %v", user.ID, id, err)
		}
	}
	return user
}
