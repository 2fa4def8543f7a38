// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/olegiv/portal-cms/internal/middleware"
	"github.com/olegiv/portal-cms/internal/model"
	"github.com/olegiv/portal-cms/internal/pagebuilder"
	"github.com/olegiv/portal-cms/internal/store"
)

// ComponentTypeResponse represents a component type in API responses.
type ComponentTypeResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// SectionResponse represents a page section in API responses.
type SectionResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RenderedSectionResponse carries a sanitized section body.
type RenderedSectionResponse struct {
	ID   int64  `json:"id"`
	HTML string `json:"html"`
}

// CreateMarkupRequest is the body for creating component types and sections.
type CreateMarkupRequest struct {
	Name string `json:"name"`
	Body string `json:"body"`
}

// AddComponentRequest is the body of POST /sections/{id}/components.
type AddComponentRequest struct {
	ContainerElementID string `json:"container_element_id"`
	ComponentTypeID    int64  `json:"component_type_id"`
}

func componentTypeToResponse(ct store.PageComponentType) ComponentTypeResponse {
	return ComponentTypeResponse{ID: ct.ID, Name: ct.Name, Body: ct.Body, CreatedAt: ct.CreatedAt}
}

func sectionToResponse(s store.PageSection) SectionResponse {
	return SectionResponse{ID: s.ID, Name: s.Name, Body: s.Body, CreatedAt: s.CreatedAt, UpdatedAt: s.UpdatedAt}
}

// ListComponentTypes returns all component types ordered by name.
func (h *Handler) ListComponentTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.types.Get(r.Context())
	if err != nil {
		h.logger.Error("listing component types", "error", err)
		WriteInternalError(w, "Failed to list component types")
		return
	}

	resp := make([]ComponentTypeResponse, 0, len(types))
	for _, ct := range types {
		resp = append(resp, componentTypeToResponse(ct))
	}
	WriteList(w, resp)
}

// GetComponentType returns one component type.
func (h *Handler) GetComponentType(w http.ResponseWriter, r *http.Request) {
	ct, ok := requireEntityByID(w, r, "component type", func(id int64) (*store.PageComponentType, error) {
		return h.types.GetByID(r.Context(), id)
	})
	if !ok {
		return
	}
	WriteSuccess(w, componentTypeToResponse(*ct), nil)
}

// CreateComponentType stores a new component type.
func (h *Handler) CreateComponentType(w http.ResponseWriter, r *http.Request) {
	var req CreateMarkupRequest
	if !h.decodeMarkupRequest(w, r, &req) {
		return
	}

	ct, err := h.types.Create(r.Context(), req.Name, req.Body)
	if err != nil {
		h.writeMarkupError(w, "component type", err)
		return
	}
	h.auditPageEvent(r, "Component type created", map[string]any{"component_type_id": ct.ID, "name": ct.Name})
	WriteCreated(w, componentTypeToResponse(*ct))
}

// GetSection returns a page section with its stored body.
func (h *Handler) GetSection(w http.ResponseWriter, r *http.Request) {
	section, ok := requireEntityByID(w, r, "section", func(id int64) (*store.PageSection, error) {
		return h.sections.Get(r.Context(), id)
	})
	if !ok {
		return
	}
	WriteSuccess(w, sectionToResponse(*section), nil)
}

// RenderSection returns the sanitized body of a page section.
func (h *Handler) RenderSection(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteBadRequest(w, "Invalid section ID", nil)
		return
	}

	html, found, err := h.sections.Render(r.Context(), id)
	if err != nil {
		h.logger.Error("rendering section", "error", err, "section_id", id)
		WriteInternalError(w, "Failed to render section")
		return
	}
	if !found {
		WriteNotFound(w, "Section not found")
		return
	}
	WriteSuccess(w, RenderedSectionResponse{ID: id, HTML: string(html)}, nil)
}

// CreateSection stores a new page section.
func (h *Handler) CreateSection(w http.ResponseWriter, r *http.Request) {
	var req CreateMarkupRequest
	if !h.decodeMarkupRequest(w, r, &req) {
		return
	}

	section, err := h.sections.Create(r.Context(), req.Name, req.Body)
	if err != nil {
		h.writeMarkupError(w, "section", err)
		return
	}
	h.auditPageEvent(r, "Page section created", map[string]any{"section_id": section.ID, "name": section.Name})
	WriteCreated(w, sectionToResponse(*section))
}

// AddComponent appends a component type to a container element of a section.
// A missing section or component type is not an error and answers 204.
func (h *Handler) AddComponent(w http.ResponseWriter, r *http.Request) {
	sectionID, err := parseIDParam(r, "id")
	if err != nil {
		WriteBadRequest(w, "Invalid section ID", nil)
		return
	}

	var req AddComponentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	fieldErrors := map[string]string{}
	if strings.TrimSpace(req.ContainerElementID) == "" {
		fieldErrors["container_element_id"] = "Container element is required"
	}
	if req.ComponentTypeID <= 0 {
		fieldErrors["component_type_id"] = "Component type is required"
	}
	if len(fieldErrors) > 0 {
		WriteValidationError(w, fieldErrors)
		return
	}

	err = h.types.Add(r.Context(), sectionID, req.ContainerElementID, req.ComponentTypeID)
	switch {
	case errors.Is(err, pagebuilder.ErrContainerNotFound):
		WriteValidationError(w, map[string]string{"container_element_id": "No element with this id in the section"})
		return
	case errors.Is(err, pagebuilder.ErrMalformedMarkup):
		WriteError(w, http.StatusUnprocessableEntity, "malformed_markup", "Section or component markup is malformed", nil)
		return
	case err != nil:
		h.logger.Error("adding component", "error", err, "section_id", sectionID)
		WriteInternalError(w, "Failed to add component")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) decodeMarkupRequest(w http.ResponseWriter, r *http.Request, req *CreateMarkupRequest) bool {
	if !decodeJSON(w, r, req) {
		return false
	}
	if strings.TrimSpace(req.Name) == "" {
		WriteValidationError(w, map[string]string{"name": "Name is required"})
		return false
	}
	return true
}

func (h *Handler) writeMarkupError(w http.ResponseWriter, entity string, err error) {
	if errors.Is(err, pagebuilder.ErrMalformedMarkup) {
		WriteValidationError(w, map[string]string{"body": err.Error()})
		return
	}
	h.logger.Error("creating "+entity, "error", err)
	WriteInternalError(w, "Failed to create "+entity)
}

func (h *Handler) auditPageEvent(r *http.Request, message string, metadata map[string]any) {
	_ = h.events.LogPageEvent(r.Context(), model.EventLevelInfo, message, middleware.GetUserIDPtr(r), middleware.ClientIP(r), metadata)
}
