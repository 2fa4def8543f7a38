// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/olegiv/portal-cms/internal/pagebuilder"
	"github.com/olegiv/portal-cms/internal/store"
)

// sectionSanitizer strips scripts and event handlers from section bodies
// before they are shown. Stored bodies are never rewritten by it.
var sectionSanitizer = bluemonday.UGCPolicy()

// PageSectionService manages page sections.
type PageSectionService struct {
	dc     *store.DataContext
	logger *slog.Logger
}

// NewPageSectionService creates a new PageSectionService.
func NewPageSectionService(dc *store.DataContext, logger *slog.Logger) *PageSectionService {
	return &PageSectionService{dc: dc, logger: logger}
}

// Get returns the section with the given id, or nil if there is none.
func (s *PageSectionService) Get(ctx context.Context, id int64) (*store.PageSection, error) {
	section, err := s.dc.Queries().GetPageSection(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting page section %d: %w", id, err)
	}
	return &section, nil
}

// Create stores a new section. The body must be well-formed markup.
func (s *PageSectionService) Create(ctx context.Context, name, body string) (*store.PageSection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("page section name is required")
	}
	if err := pagebuilder.CheckWellFormed(body); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	section, err := s.dc.Queries().CreatePageSection(ctx, store.CreatePageSectionParams{
		Name:      name,
		Body:      body,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("creating page section: %w", err)
	}
	return &section, nil
}

// Render returns the sanitized body of section id. The bool is false when
// the section does not exist.
func (s *PageSectionService) Render(ctx context.Context, id int64) (template.HTML, bool, error) {
	section, err := s.Get(ctx, id)
	if err != nil || section == nil {
		return "", false, err
	}
	return template.HTML(sectionSanitizer.Sanitize(section.Body)), true, nil //nolint:gosec // sanitized by bluemonday
}
