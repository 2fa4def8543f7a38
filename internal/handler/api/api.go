// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the JSON API handlers of the portal.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/olegiv/portal-cms/internal/middleware"
	"github.com/olegiv/portal-cms/internal/service"
	"github.com/olegiv/portal-cms/internal/store"
	"github.com/olegiv/portal-cms/internal/version"
)

// maxBodyBytes limits JSON request bodies.
const maxBodyBytes = 1 << 20

// Deps are the collaborators of the API handlers.
type Deps struct {
	DC              *store.DataContext
	Sessions        *scs.SessionManager
	Users           *service.UserService
	Roles           *service.RoleService
	ComponentTypes  *service.PageComponentTypeService
	Sections        *service.PageSectionService
	Events          *service.EventService
	LoginProtection *middleware.LoginProtection
	Version         *version.Info
	Logger          *slog.Logger
}

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	dc       *store.DataContext
	sm       *scs.SessionManager
	users    *service.UserService
	roles    *service.RoleService
	types    *service.PageComponentTypeService
	sections *service.PageSectionService
	events   *service.EventService
	lp       *middleware.LoginProtection
	version  *version.Info
	logger   *slog.Logger
}

// NewHandler creates a new API handler.
func NewHandler(d Deps) *Handler {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		dc:       d.DC,
		sm:       d.Sessions,
		users:    d.Users,
		roles:    d.Roles,
		types:    d.ComponentTypes,
		sections: d.Sections,
		events:   d.Events,
		lp:       d.LoginProtection,
		version:  d.Version,
		logger:   logger,
	}
}

// Response is the standard API response wrapper.
type Response struct {
	Data any   `json:"data,omitempty"`
	Meta *Meta `json:"meta,omitempty"`
}

// Meta contains list metadata.
type Meta struct {
	Total int `json:"total"`
}

// ErrorResponse is the standard API error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a successful JSON response.
func WriteSuccess(w http.ResponseWriter, data any, meta *Meta) {
	WriteJSON(w, http.StatusOK, Response{Data: data, Meta: meta})
}

// WriteList writes items with a total count.
func WriteList[T any](w http.ResponseWriter, items []T) {
	if items == nil {
		items = []T{}
	}
	WriteSuccess(w, items, &Meta{Total: len(items)})
}

// WriteCreated writes a 201 Created JSON response.
func WriteCreated(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, Response{Data: data})
}

// WriteError writes an error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	WriteJSON(w, statusCode, ErrorResponse{
		Error: ErrorDetail{Code: code, Message: message, Details: details},
	})
}

// WriteBadRequest writes a 400 Bad Request response.
func WriteBadRequest(w http.ResponseWriter, message string, details map[string]string) {
	WriteError(w, http.StatusBadRequest, "bad_request", message, details)
}

// WriteNotFound writes a 404 Not Found response.
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, "not_found", message, nil)
}

// WriteUnauthorized writes a 401 Unauthorized response.
func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, "unauthorized", message, nil)
}

// WriteInternalError writes a 500 Internal Server Error response.
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, "internal_error", message, nil)
}

// WriteValidationError writes a 422 Unprocessable Entity response with field errors.
func WriteValidationError(w http.ResponseWriter, fieldErrors map[string]string) {
	WriteError(w, http.StatusUnprocessableEntity, "validation_error", "Validation failed", fieldErrors)
}

// StatusResponse contains API status information.
type StatusResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Build   string `json:"build,omitempty"`
}

// Status returns the API status.
func (h *Handler) Status(w http.ResponseWriter, _ *http.Request) {
	resp := StatusResponse{Status: "ok", Version: "v1"}
	if h.version != nil {
		resp.Build = h.version.String()
	}
	WriteSuccess(w, resp, nil)
}

// parseIDParam reads the int64 URL parameter name.
func parseIDParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return id, nil
}

// EntityFetcher fetches an entity by id, returning nil when it does not exist.
type EntityFetcher[T any] func(id int64) (*T, error)

// requireEntityByID parses the "id" URL parameter and fetches the entity.
// On failure the response has been written and ok is false.
func requireEntityByID[T any](w http.ResponseWriter, r *http.Request, entityName string, fetch EntityFetcher[T]) (*T, bool) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteBadRequest(w, "Invalid "+entityName+" ID", nil)
		return nil, false
	}

	entity, err := fetch(id)
	if err != nil {
		slog.Error("fetching entity failed", "entity", entityName, "id", id, "error", err)
		WriteInternalError(w, "Failed to retrieve "+entityName)
		return nil, false
	}
	if entity == nil {
		WriteNotFound(w, capitalizeFirst(entityName)+" not found")
		return nil, false
	}
	return entity, true
}

// decodeJSON decodes the request body into dst. On failure a 400 response
// has been written and false is returned.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		msg := "Invalid JSON body"
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			msg = "Request body too large"
		case errors.Is(err, io.EOF):
			msg = "Request body is empty"
		}
		WriteBadRequest(w, msg, nil)
		return false
	}
	return true
}

// capitalizeFirst returns s with the first letter capitalized.
func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
