// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/olegiv/portal-cms/internal/model"
)

const roleKeyPrefix = "roles:user:"

// DefaultRoleTTL bounds how long a stale role set can survive a missed
// invalidation on another instance.
const DefaultRoleTTL = 5 * time.Minute

// RoleCache caches the resolved role set of each user.
type RoleCache struct {
	sets    *TypedCache[model.RoleSet]
	backend Cacher
}

// NewRoleCache creates a RoleCache on top of backend.
func NewRoleCache(backend Cacher, ttl time.Duration) *RoleCache {
	if ttl <= 0 {
		ttl = DefaultRoleTTL
	}
	return &RoleCache{
		sets:    NewTypedCache[model.RoleSet](backend, ttl),
		backend: backend,
	}
}

func roleKey(userID int64) string {
	return roleKeyPrefix + strconv.FormatInt(userID, 10)
}

// Get returns the cached role set for userID.
func (c *RoleCache) Get(ctx context.Context, userID int64) (model.RoleSet, bool) {
	set, ok := c.sets.Get(ctx, roleKey(userID))
	if !ok {
		return model.RoleSet{}, false
	}
	return *set, true
}

// GetOrLoad returns the cached role set for userID, calling load and caching
// its result on a miss.
func (c *RoleCache) GetOrLoad(ctx context.Context, userID int64, load func() (model.RoleSet, error)) (model.RoleSet, error) {
	set, err := c.sets.GetOrSet(ctx, roleKey(userID), func() (*model.RoleSet, error) {
		roles, err := load()
		if err != nil {
			return nil, err
		}
		return &roles, nil
	})
	if err != nil {
		return model.RoleSet{}, err
	}
	return *set, nil
}

// Set caches roles for userID.
func (c *RoleCache) Set(ctx context.Context, userID int64, roles model.RoleSet) error {
	return c.sets.Set(ctx, roleKey(userID), &roles)
}

// Invalidate drops the cached role set for userID.
func (c *RoleCache) Invalidate(ctx context.Context, userID int64) error {
	return c.sets.Delete(ctx, roleKey(userID))
}

// InvalidateAll drops every cached role set.
func (c *RoleCache) InvalidateAll(ctx context.Context) error {
	return c.backend.DeleteByPrefix(ctx, roleKeyPrefix)
}
