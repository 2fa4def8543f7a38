// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"encoding/json"
	"testing"
)

func TestNewRoleSet_CollapsesDuplicates(t *testing.T) {
	s := NewRoleSet(
		Role{ID: 2, Name: "Editor"},
		Role{ID: 1, Name: "Admin"},
		Role{ID: 2, Name: "Editor (again)"},
	)

	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}

	roles := s.Roles()
	if roles[0].ID != 1 || roles[1].ID != 2 {
		t.Errorf("Roles() not ordered by ID: %+v", roles)
	}
	if roles[1].Name != "Editor" {
		t.Errorf("duplicate kept %q, want first occurrence %q", roles[1].Name, "Editor")
	}
}

func TestRoleSet_ZeroValue(t *testing.T) {
	var s RoleSet

	if !s.IsEmpty() {
		t.Error("zero RoleSet should be empty")
	}
	if s.Has(RoleIDAdmin) {
		t.Error("zero RoleSet should not contain admin")
	}
	if s.Intersects(NewRoleSet(AdminRole())) {
		t.Error("zero RoleSet should not intersect anything")
	}
	if len(s.Roles()) != 0 {
		t.Errorf("Roles() = %v, want empty", s.Roles())
	}
}

func TestRoleSet_Intersects(t *testing.T) {
	tests := []struct {
		name string
		a, b []int64
		want bool
	}{
		{"disjoint", []int64{1, 2}, []int64{3, 4}, false},
		{"single overlap", []int64{1, 2}, []int64{2, 5}, true},
		{"identical", []int64{7}, []int64{7}, true},
		{"one empty", []int64{}, []int64{1}, false},
		{"both empty", nil, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := setOf(tt.a...), setOf(tt.b...)
			if got := a.Intersects(b); got != tt.want {
				t.Errorf("a.Intersects(b) = %v, want %v", got, tt.want)
			}
			if got := b.Intersects(a); got != tt.want {
				t.Errorf("b.Intersects(a) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRoleSet_IsAdmin(t *testing.T) {
	if !NewRoleSet(AdminRole(), AnonymousRole()).IsAdmin() {
		t.Error("set with Admin should report IsAdmin")
	}
	if NewRoleSet(AnonymousRole()).IsAdmin() {
		t.Error("set without Admin should not report IsAdmin")
	}
}

func TestRoleSet_JSON(t *testing.T) {
	s := NewRoleSet(Role{ID: 3, Name: "Anonymous"}, Role{ID: 1, Name: "Admin"})

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `[{"id":1,"name":"Admin"},{"id":3,"name":"Anonymous"}]`
	if string(data) != want {
		t.Errorf("Marshal = %s, want %s", data, want)
	}

	var decoded RoleSet
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.Len() != 2 || !decoded.Has(1) || !decoded.Has(3) {
		t.Errorf("decoded = %v, want ids [1 3]", decoded.IDs())
	}
}

func setOf(ids ...int64) RoleSet {
	roles := make([]Role, len(ids))
	for i, id := range ids {
		roles[i] = Role{ID: id}
	}
	return NewRoleSet(roles...)
}
