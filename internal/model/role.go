// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain types shared across the portal: roles,
// role sets and event log constants.
package model

import (
	"encoding/json"
	"sort"
)

// Reserved role identifiers. The migrations seed the roles table with them.
const (
	RoleIDAdmin         int64 = 1
	RoleIDAuthenticated int64 = 2
	RoleIDAnonymous     int64 = 3
)

// Reserved role names.
const (
	RoleNameAdmin         = "Admin"
	RoleNameAuthenticated = "Authenticated"
	RoleNameAnonymous     = "Anonymous"
)

// Role is a named permission grouping assignable to users and required by
// content entities.
type Role struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// AnonymousRole returns the role held by visitors without a session.
func AnonymousRole() Role {
	return Role{ID: RoleIDAnonymous, Name: RoleNameAnonymous}
}

// AuthenticatedRole returns the role granted to every registered user.
func AuthenticatedRole() Role {
	return Role{ID: RoleIDAuthenticated, Name: RoleNameAuthenticated}
}

// AdminRole returns the role that bypasses every role requirement.
func AdminRole() Role {
	return Role{ID: RoleIDAdmin, Name: RoleNameAdmin}
}

// RoleSet is an immutable set of roles keyed by role ID.
// The zero value is an empty set.
type RoleSet struct {
	roles map[int64]Role
}

// NewRoleSet builds a set from roles. Roles sharing an ID collapse into the
// first one given.
func NewRoleSet(roles ...Role) RoleSet {
	m := make(map[int64]Role, len(roles))
	for _, r := range roles {
		if _, ok := m[r.ID]; !ok {
			m[r.ID] = r
		}
	}
	return RoleSet{roles: m}
}

// Len returns the number of distinct roles.
func (s RoleSet) Len() int {
	return len(s.roles)
}

// IsEmpty reports whether the set holds no roles.
func (s RoleSet) IsEmpty() bool {
	return len(s.roles) == 0
}

// Has reports whether a role with the given ID is in the set.
func (s RoleSet) Has(id int64) bool {
	_, ok := s.roles[id]
	return ok
}

// Contains reports whether r, compared by ID, is in the set.
func (s RoleSet) Contains(r Role) bool {
	return s.Has(r.ID)
}

// IsAdmin reports whether the set grants the admin bypass.
func (s RoleSet) IsAdmin() bool {
	return s.Has(RoleIDAdmin)
}

// Intersects reports whether the two sets share at least one role ID.
func (s RoleSet) Intersects(other RoleSet) bool {
	small, large := s, other
	if small.Len() > large.Len() {
		small, large = large, small
	}
	for id := range small.roles {
		if large.Has(id) {
			return true
		}
	}
	return false
}

// Roles returns the roles ordered by ID.
func (s RoleSet) Roles() []Role {
	roles := make([]Role, 0, len(s.roles))
	for _, r := range s.roles {
		roles = append(roles, r)
	}
	sort.Slice(roles, func(i, j int) bool {
		return roles[i].ID < roles[j].ID
	})
	return roles
}

// IDs returns the role IDs in ascending order.
func (s RoleSet) IDs() []int64 {
	roles := s.Roles()
	ids := make([]int64, len(roles))
	for i, r := range roles {
		ids[i] = r.ID
	}
	return ids
}

// MarshalJSON encodes the set as an ID-ordered list of roles.
func (s RoleSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Roles())
}

// UnmarshalJSON decodes a list of roles.
func (s *RoleSet) UnmarshalJSON(data []byte) error {
	var roles []Role
	if err := json.Unmarshal(data, &roles); err != nil {
		return err
	}
	*s = NewRoleSet(roles...)
	return nil
}
