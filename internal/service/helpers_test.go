// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"database/sql"
	"testing"
	"time"

	"github.com/olegiv/portal-cms/internal/cache"
	"github.com/olegiv/portal-cms/internal/store"
	"github.com/olegiv/portal-cms/internal/testutil"
)

type testServices struct {
	db        *sql.DB
	dc        *store.DataContext
	roleCache *cache.RoleCache
	users     *UserService
	roles     *RoleService
	types     *PageComponentTypeService
	sections  *PageSectionService
	events    *EventService
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()

	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)

	backend := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Minute})
	t.Cleanup(func() { _ = backend.Close() })

	logger := testutil.TestLoggerSilent()
	dc := store.NewDataContext(db)
	users := NewUserService(dc, logger)
	roleCache := cache.NewRoleCache(backend, time.Minute)

	return &testServices{
		db:        db,
		dc:        dc,
		roleCache: roleCache,
		users:     users,
		roles:     NewRoleService(dc, users, roleCache, logger),
		types:     NewPageComponentTypeService(dc, logger),
		sections:  NewPageSectionService(dc, logger),
		events:    NewEventService(dc, logger),
	}
}
