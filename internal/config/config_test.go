// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"log/slog"
	"strings"
	"testing"
)

const testSecret = "test-secret-key-32-bytes-long!!!"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORTAL_SESSION_SECRET", testSecret)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.DBPath != "./data/portal.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "./data/portal.db")
	}
	if cfg.ServerAddr() != "localhost:8080" {
		t.Errorf("ServerAddr() = %q, want %q", cfg.ServerAddr(), "localhost:8080")
	}
	if !cfg.IsDevelopment() {
		t.Errorf("IsDevelopment() = false for Env %q", cfg.Env)
	}
	if cfg.UseRedisCache() {
		t.Error("UseRedisCache() = true without PORTAL_REDIS_URL")
	}
	if cfg.CachePrefix != "portal:" {
		t.Errorf("CachePrefix = %q, want %q", cfg.CachePrefix, "portal:")
	}
	if cfg.EventRetentionDays != 90 {
		t.Errorf("EventRetentionDays = %d, want 90", cfg.EventRetentionDays)
	}
	if cfg.DoSeed {
		t.Error("DoSeed = true by default")
	}
}

func TestLoad_CustomValues(t *testing.T) {
	t.Setenv("PORTAL_SESSION_SECRET", testSecret)
	t.Setenv("PORTAL_DB_PATH", "/custom/path.db")
	t.Setenv("PORTAL_SERVER_HOST", "0.0.0.0")
	t.Setenv("PORTAL_SERVER_PORT", "3000")
	t.Setenv("PORTAL_ENV", "production")
	t.Setenv("PORTAL_LOG_LEVEL", "debug")
	t.Setenv("PORTAL_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("PORTAL_CACHE_TTL", "60")
	t.Setenv("PORTAL_DO_SEED", "true")
	t.Setenv("PORTAL_ADMIN_EMAIL", "root@example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.DBPath != "/custom/path.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.ServerAddr() != "0.0.0.0:3000" {
		t.Errorf("ServerAddr() = %q", cfg.ServerAddr())
	}
	if cfg.IsDevelopment() {
		t.Error("IsDevelopment() = true in production")
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("SlogLevel() = %v, want debug", cfg.SlogLevel())
	}
	if !cfg.UseRedisCache() {
		t.Error("UseRedisCache() = false with PORTAL_REDIS_URL set")
	}
	if cfg.CacheTTLDuration().Seconds() != 60 {
		t.Errorf("CacheTTLDuration() = %v, want 60s", cfg.CacheTTLDuration())
	}
	if !cfg.DoSeed || cfg.AdminEmail != "root@example.com" {
		t.Errorf("seed settings = %v %q", cfg.DoSeed, cfg.AdminEmail)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"missing secret", map[string]string{}, "SESSION_SECRET"},
		{"short secret", map[string]string{"PORTAL_SESSION_SECRET": "too-short"}, "at least 32 bytes"},
		{"weak secret", map[string]string{"PORTAL_SESSION_SECRET": "change-me-to-32-byte-secret-key!"}, "known default"},
		{"bad port", map[string]string{"PORTAL_SESSION_SECRET": testSecret, "PORTAL_SERVER_PORT": "70000"}, "out of range"},
		{"non-numeric port", map[string]string{"PORTAL_SESSION_SECRET": testSecret, "PORTAL_SERVER_PORT": "http"}, "parsing config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PORTAL_SESSION_SECRET", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if err == nil {
				t.Fatal("Load() succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_SlogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := (Config{LogLevel: tt.level}).SlogLevel(); got != tt.want {
			t.Errorf("SlogLevel(%q) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestHasMinimumEntropy(t *testing.T) {
	tests := []struct {
		secret string
		want   bool
	}{
		{"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", false},
		{"abcdefghABCDEFGH1234567890abcdef", true},
		{"abcdefgh-ijklmnop-1234567890-xyz", true},
		{"ABCDEFGHIJKLMNOP1234567890ABCDEF", false},
	}
	for _, tt := range tests {
		if got := hasMinimumEntropy(tt.secret); got != tt.want {
			t.Errorf("hasMinimumEntropy(%q) = %v, want %v", tt.secret, got, tt.want)
		}
	}
}
