// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/olegiv/portal-cms/internal/model"
	"github.com/olegiv/portal-cms/internal/testutil"
)

func TestEventService_LogEvent(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, s.db, "audit@example.com")

	err := s.events.LogAuthEvent(ctx, model.EventLevelWarning, "login failed", &user.ID, "10.0.0.1", map[string]any{"attempts": 3})
	if err != nil {
		t.Fatalf("LogAuthEvent: %v", err)
	}
	if err := s.events.LogPageEvent(ctx, model.EventLevelInfo, "component added", nil, "", nil); err != nil {
		t.Fatalf("LogPageEvent: %v", err)
	}

	events, err := s.events.ListRecent(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}

	page, auth := events[0], events[1]
	if page.Category != model.EventCategoryPage || page.Metadata != "{}" || page.UserID.Valid {
		t.Errorf("page event = %+v", page)
	}
	if auth.Category != model.EventCategoryAuth || auth.Level != model.EventLevelWarning {
		t.Errorf("auth event category/level = %q/%q", auth.Category, auth.Level)
	}
	if !auth.UserID.Valid || auth.UserID.Int64 != user.ID {
		t.Errorf("auth event user = %+v, want %d", auth.UserID, user.ID)
	}
	if auth.IpAddress != "10.0.0.1" {
		t.Errorf("IpAddress = %q, want %q", auth.IpAddress, "10.0.0.1")
	}

	var meta map[string]any
	if err := json.Unmarshal([]byte(auth.Metadata), &meta); err != nil {
		t.Fatalf("metadata is not JSON: %v", err)
	}
	if meta["attempts"] != float64(3) {
		t.Errorf("metadata attempts = %v, want 3", meta["attempts"])
	}
}

func TestEventService_DeleteOldEvents(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	old := time.Now().UTC().Add(-48 * time.Hour)
	if _, err := s.db.Exec(
		`INSERT INTO events (level, category, message, created_at) VALUES (?, ?, ?, ?)`,
		model.EventLevelInfo, model.EventCategorySystem, "old", old,
	); err != nil {
		t.Fatalf("inserting old event: %v", err)
	}
	if err := s.events.LogEvent(ctx, model.EventLevelInfo, model.EventCategorySystem, "fresh", nil, "", nil); err != nil {
		t.Fatalf("LogEvent: %v", err)
	}

	if err := s.events.DeleteOldEvents(ctx, 24*time.Hour); err != nil {
		t.Fatalf("DeleteOldEvents: %v", err)
	}

	events, err := s.events.ListRecent(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(events) != 1 || events[0].Message != "fresh" {
		t.Errorf("remaining events = %+v, want only the fresh one", events)
	}
}
