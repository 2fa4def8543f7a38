// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"
)

// maxEventsLimit caps the limit query parameter of ListEvents.
const maxEventsLimit = 500

// EventResponse represents an event log entry in API responses.
type EventResponse struct {
	ID        int64           `json:"id"`
	Level     string          `json:"level"`
	Category  string          `json:"category"`
	Message   string          `json:"message"`
	UserID    *int64          `json:"user_id,omitempty"`
	IPAddress string          `json:"ip_address,omitempty"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// ListEvents returns the most recent event log entries.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			WriteBadRequest(w, "Invalid limit", nil)
			return
		}
		limit = min(n, maxEventsLimit)
	}

	events, err := h.events.ListRecent(r.Context(), limit)
	if err != nil {
		h.logger.Error("listing events", "error", err)
		WriteInternalError(w, "Failed to list events")
		return
	}

	resp := make([]EventResponse, 0, len(events))
	for _, e := range events {
		item := EventResponse{
			ID:        e.ID,
			Level:     e.Level,
			Category:  e.Category,
			Message:   e.Message,
			IPAddress: e.IpAddress,
			CreatedAt: e.CreatedAt,
		}
		if e.UserID.Valid {
			id := e.UserID.Int64
			item.UserID = &id
		}
		if json.Valid([]byte(e.Metadata)) && e.Metadata != "{}" {
			item.Metadata = json.RawMessage(e.Metadata)
		}
		resp = append(resp, item)
	}
	WriteList(w, resp)
}
