// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/olegiv/portal-cms/internal/model"
	"github.com/olegiv/portal-cms/internal/pagebuilder"
	"github.com/olegiv/portal-cms/internal/store"
)

// errSkip rolls back a unit of work that found nothing to change.
var errSkip = errors.New("skip")

// PageComponentTypeService manages component templates and inserts them
// into page sections.
type PageComponentTypeService struct {
	dc     *store.DataContext
	logger *slog.Logger
}

// NewPageComponentTypeService creates a new PageComponentTypeService.
func NewPageComponentTypeService(dc *store.DataContext, logger *slog.Logger) *PageComponentTypeService {
	return &PageComponentTypeService{dc: dc, logger: logger}
}

// Get returns all component types ordered by name, then id.
func (s *PageComponentTypeService) Get(ctx context.Context) ([]store.PageComponentType, error) {
	types, err := s.dc.Queries().ListPageComponentTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing component types: %w", err)
	}
	return types, nil
}

// GetByID returns the component type with the given id, or nil if there is none.
func (s *PageComponentTypeService) GetByID(ctx context.Context, id int64) (*store.PageComponentType, error) {
	ct, err := s.dc.Queries().GetPageComponentType(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting component type %d: %w", id, err)
	}
	return &ct, nil
}

// Create stores a new component type. The body must be well-formed markup.
func (s *PageComponentTypeService) Create(ctx context.Context, name, body string) (*store.PageComponentType, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("component type name is required")
	}
	if err := pagebuilder.CheckWellFormed(body); err != nil {
		return nil, err
	}

	ct, err := s.dc.Queries().CreatePageComponentType(ctx, store.CreatePageComponentTypeParams{
		Name:      name,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("creating component type: %w", err)
	}
	return &ct, nil
}

// Add appends the body of component type componentTypeID to the element
// with id containerElementID inside page section pageSectionID.
//
// A missing section or component type makes Add a no-op that returns nil.
// Malformed markup and a missing container element are returned as errors
// and leave the section untouched. Every successful call appends, so adding
// the same component twice inserts it twice.
func (s *PageComponentTypeService) Add(ctx context.Context, pageSectionID int64, containerElementID string, componentTypeID int64) error {
	var inserted pagebuilder.Insertion
	err := s.dc.InTx(ctx, func(q *store.Queries) error {
		section, err := q.GetPageSection(ctx, pageSectionID)
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Debug("page section not found, nothing to add", "section_id", pageSectionID)
			return errSkip
		}
		if err != nil {
			return fmt.Errorf("getting page section %d: %w", pageSectionID, err)
		}

		component, err := q.GetPageComponentType(ctx, componentTypeID)
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Debug("component type not found, nothing to add", "component_type_id", componentTypeID)
			return errSkip
		}
		if err != nil {
			return fmt.Errorf("getting component type %d: %w", componentTypeID, err)
		}

		doc, err := pagebuilder.NewDocument(section.Body)
		if err != nil {
			return fmt.Errorf("page section %d: %w", section.ID, err)
		}
		if err := doc.AddElement(section.ID, containerElementID, component.Body); err != nil {
			return fmt.Errorf("adding component type %d to page section %d: %w", component.ID, section.ID, err)
		}
		log := doc.Insertions()
		inserted = log[len(log)-1]

		return q.UpdatePageSectionBody(ctx, store.UpdatePageSectionBodyParams{
			Body:      doc.OuterHTML(),
			UpdatedAt: time.Now().UTC(),
			ID:        section.ID,
		})
	})
	if errors.Is(err, errSkip) {
		return nil
	}
	if err != nil {
		return err
	}

	s.logger.Info("component added to page section",
		"category", model.EventCategoryPage,
		"section_id", pageSectionID,
		"owner_id", inserted.OwnerID,
		"container", inserted.ContainerID,
		"nodes", inserted.Nodes,
		"component_type_id", componentTypeID)
	return nil
}
