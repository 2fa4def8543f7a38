// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package store provides database access: connection setup, migrations,
// generated queries and the DataContext unit of work used by services.
package store

import (
	"context"
	"database/sql"
	"fmt"
)

// DataContext is the unit of work shared by the services of one request.
// Reads go through Queries; writes that must be committed together go
// through InTx.
type DataContext struct {
	db      *sql.DB
	queries *Queries
}

// NewDataContext creates a DataContext over db.
func NewDataContext(db *sql.DB) *DataContext {
	return &DataContext{
		db:      db,
		queries: New(db),
	}
}

// DB returns the underlying database handle.
func (c *DataContext) DB() *sql.DB {
	return c.db
}

// Queries returns queries bound to the database, outside any transaction.
func (c *DataContext) Queries() *Queries {
	return c.queries
}

// InTx runs fn inside a transaction. The transaction is committed when fn
// returns nil and rolled back otherwise. A commit failure is returned as is.
func (c *DataContext) InTx(ctx context.Context, fn func(q *Queries) error) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	if err := fn(c.queries.WithTx(tx)); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}
