// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/olegiv/portal-cms/internal/model"
)

type recordedAudit struct {
	level   string
	message string
	userID  *int64
	ip      string
}

type fakeAudit struct {
	events []recordedAudit
}

func (f *fakeAudit) LogAuthEvent(_ context.Context, level, message string, userID *int64, ip string, _ map[string]any) error {
	f.events = append(f.events, recordedAudit{level, message, userID, ip})
	return nil
}

// requestWithRoles builds a request as LoadRoles would leave it.
func requestWithRoles(userID int64, roles model.RoleSet) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sections/1/components", nil)
	req.RemoteAddr = "192.0.2.10:5555"
	ctx := context.WithValue(req.Context(), ContextKeyRoles, roles)
	if userID != 0 {
		ctx = context.WithValue(ctx, ContextKeyUserID, userID)
	}
	return req.WithContext(ctx)
}

func TestRequireRoles(t *testing.T) {
	required := model.NewRoleSet(roleAdmin, roleAuth)

	tests := []struct {
		name   string
		userID int64
		roles  model.RoleSet
		want   int
	}{
		{"anonymous is denied", 0, model.NewRoleSet(roleAnon), http.StatusForbidden},
		{"no roles is denied", 0, model.RoleSet{}, http.StatusForbidden},
		{"authenticated passes", 3, model.NewRoleSet(roleAuth), http.StatusOK},
		{"admin passes", 1, model.NewRoleSet(roleAdmin), http.StatusOK},
		{"unrelated role is denied", 4, model.NewRoleSet(roleEditor), http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			audit := &fakeAudit{}
			handler := RequireRoles(&fakeResolver{}, required, audit)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, requestWithRoles(tt.userID, tt.roles))

			if rr.Code != tt.want {
				t.Fatalf("status = %d, want %d", rr.Code, tt.want)
			}
			if tt.want == http.StatusForbidden {
				if len(audit.events) != 1 {
					t.Fatalf("audit events = %d, want 1", len(audit.events))
				}
				ev := audit.events[0]
				if ev.level != model.EventLevelWarning || ev.ip != "192.0.2.10" {
					t.Errorf("audit event = %+v", ev)
				}
				if (tt.userID == 0) != (ev.userID == nil) {
					t.Errorf("audit userID = %v for user %d", ev.userID, tt.userID)
				}
			} else if len(audit.events) != 0 {
				t.Errorf("audit events on success = %d, want 0", len(audit.events))
			}
		})
	}
}

func TestRequireRoles_EmptyRequirement(t *testing.T) {
	handler := RequireRoles(&fakeResolver{}, model.RoleSet{}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, requestWithRoles(0, model.NewRoleSet(roleAnon)))
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
}

func TestRequireAdmin(t *testing.T) {
	handler := RequireAdmin(&fakeResolver{}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, requestWithRoles(3, model.NewRoleSet(roleAuth, roleEditor)))
	if rr.Code != http.StatusForbidden {
		t.Errorf("non-admin status = %d, want 403", rr.Code)
	}

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, requestWithRoles(1, model.NewRoleSet(roleAdmin)))
	if rr.Code != http.StatusOK {
		t.Errorf("admin status = %d, want 200", rr.Code)
	}
}
