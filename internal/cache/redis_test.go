// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"
)

// skipIfNoRedis returns PORTAL_TEST_REDIS_URL or skips the test.
func skipIfNoRedis(t *testing.T) string {
	t.Helper()
	url := os.Getenv("PORTAL_TEST_REDIS_URL")
	if url == "" {
		t.Skip("Skipping Redis tests: PORTAL_TEST_REDIS_URL not set")
	}
	return url
}

func newTestRedisCache(t *testing.T) *RedisCache {
	t.Helper()
	rc, err := NewRedisCacheFromURL(skipIfNoRedis(t), "portal-test:", time.Minute)
	if err != nil {
		t.Fatalf("NewRedisCacheFromURL: %v", err)
	}
	t.Cleanup(func() {
		_ = rc.Clear(context.Background())
		_ = rc.Close()
	})
	_ = rc.Clear(context.Background())
	return rc
}

func TestRedisCache_Basic(t *testing.T) {
	rc := newTestRedisCache(t)
	ctx := context.Background()

	if err := rc.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := rc.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "v" {
		t.Errorf("Get = %q, want %q", got, "v")
	}

	if err := rc.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := rc.Get(ctx, "k"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get after Delete error = %v, want ErrCacheMiss", err)
	}
}

func TestRedisCache_DeleteByPrefix(t *testing.T) {
	rc := newTestRedisCache(t)
	ctx := context.Background()

	_ = rc.Set(ctx, "roles:user:1", []byte("[]"), 0)
	_ = rc.Set(ctx, "keep", []byte("1"), 0)

	if err := rc.DeleteByPrefix(ctx, "roles:"); err != nil {
		t.Fatalf("DeleteByPrefix: %v", err)
	}
	if has, _ := rc.Has(ctx, "roles:user:1"); has {
		t.Error("prefixed key survived DeleteByPrefix")
	}
	if has, _ := rc.Has(ctx, "keep"); !has {
		t.Error("unrelated key was deleted")
	}
}

func TestRedisCache_InvalidURL(t *testing.T) {
	if _, err := NewRedisCache(RedisCacheOptions{}); err == nil {
		t.Error("NewRedisCache with empty URL succeeded")
	}
	if _, err := NewRedisCacheFromURL("not-a-url", "", 0); err == nil {
		t.Error("NewRedisCacheFromURL with bad URL succeeded")
	}
}
