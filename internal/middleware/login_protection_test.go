// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// testLoginProtection returns a LoginProtection with a generous IP limit.
func testLoginProtection(t *testing.T, maxAttempts int, lockout, window time.Duration) *LoginProtection {
	t.Helper()
	lp := NewLoginProtection(LoginProtectionConfig{
		IPRateLimit:       10,
		IPBurst:           100,
		MaxFailedAttempts: maxAttempts,
		LockoutDuration:   lockout,
		AttemptWindow:     window,
	})
	t.Cleanup(lp.Stop)
	return lp
}

func TestDefaultLoginProtectionConfig(t *testing.T) {
	cfg := DefaultLoginProtectionConfig()

	if cfg.IPRateLimit != 0.5 {
		t.Errorf("IPRateLimit = %v, want 0.5", cfg.IPRateLimit)
	}
	if cfg.IPBurst != 5 {
		t.Errorf("IPBurst = %d, want 5", cfg.IPBurst)
	}
	if cfg.MaxFailedAttempts != 5 {
		t.Errorf("MaxFailedAttempts = %d, want 5", cfg.MaxFailedAttempts)
	}
	if cfg.LockoutDuration != 15*time.Minute {
		t.Errorf("LockoutDuration = %v, want 15m", cfg.LockoutDuration)
	}
}

func TestNewLoginProtectionDefaultValues(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{})
	defer lp.Stop()

	if lp.maxFailedAttempts != 5 {
		t.Errorf("maxFailedAttempts = %d, want 5", lp.maxFailedAttempts)
	}
	if lp.lockoutDuration != 15*time.Minute {
		t.Errorf("lockoutDuration = %v, want 15m", lp.lockoutDuration)
	}
	if lp.attemptWindow != 15*time.Minute {
		t.Errorf("attemptWindow = %v, want 15m", lp.attemptWindow)
	}
}

func TestLoginProtectionLocksAfterMaxAttempts(t *testing.T) {
	lp := testLoginProtection(t, 3, time.Minute, time.Minute)
	email := "test@example.com"

	if locked, _ := lp.IsAccountLocked(email); locked {
		t.Fatal("account locked before any failure")
	}

	for i := 0; i < 2; i++ {
		if locked, _ := lp.RecordFailedAttempt(email); locked {
			t.Fatalf("locked after %d failures, want 3", i+1)
		}
	}
	if got := lp.RemainingAttempts(email); got != 1 {
		t.Errorf("RemainingAttempts = %d, want 1", got)
	}

	locked, d := lp.RecordFailedAttempt(email)
	if !locked {
		t.Fatal("third failure did not lock the account")
	}
	if d != time.Minute {
		t.Errorf("lockout = %v, want 1m", d)
	}

	// Case and surrounding space do not matter.
	if locked, remaining := lp.IsAccountLocked("  TEST@example.com "); !locked || remaining <= 0 {
		t.Errorf("IsAccountLocked = %v, %v; want locked with time remaining", locked, remaining)
	}
}

func TestLoginProtectionLockoutDoubles(t *testing.T) {
	lp := testLoginProtection(t, 1, time.Minute, time.Hour)
	email := "double@example.com"

	_, first := lp.RecordFailedAttempt(email)
	_, second := lp.RecordFailedAttempt(email)
	_, third := lp.RecordFailedAttempt(email)

	if first != time.Minute || second != 2*time.Minute || third != 4*time.Minute {
		t.Errorf("lockouts = %v, %v, %v; want 1m, 2m, 4m", first, second, third)
	}
}

func TestLoginProtectionLockoutCapped(t *testing.T) {
	lp := testLoginProtection(t, 1, 16*time.Hour, time.Hour)
	email := "cap@example.com"

	lp.RecordFailedAttempt(email)
	_, d := lp.RecordFailedAttempt(email)
	if d != maxLockout {
		t.Errorf("lockout = %v, want %v", d, maxLockout)
	}
}

func TestLoginProtectionSuccessfulLoginResets(t *testing.T) {
	lp := testLoginProtection(t, 3, time.Minute, time.Minute)
	email := "reset@example.com"

	lp.RecordFailedAttempt(email)
	lp.RecordFailedAttempt(email)
	lp.RecordSuccessfulLogin(email)

	if got := lp.RemainingAttempts(email); got != 3 {
		t.Errorf("RemainingAttempts after success = %d, want 3", got)
	}
}

func TestLoginProtectionWindowExpiry(t *testing.T) {
	lp := testLoginProtection(t, 2, time.Minute, 20*time.Millisecond)
	email := "window@example.com"

	lp.RecordFailedAttempt(email)
	time.Sleep(40 * time.Millisecond)

	if locked, _ := lp.RecordFailedAttempt(email); locked {
		t.Error("failure outside the window should start a new count")
	}
}

func TestLoginProtectionCleanupStaleEntries(t *testing.T) {
	lp := testLoginProtection(t, 5, time.Minute, 10*time.Millisecond)

	lp.RecordFailedAttempt("stale@example.com")
	time.Sleep(20 * time.Millisecond)
	lp.cleanupStaleEntries()

	lp.mu.Lock()
	n := len(lp.attempts)
	lp.mu.Unlock()
	if n != 0 {
		t.Errorf("attempts after cleanup = %d, want 0", n)
	}
}

func TestLoginProtectionMiddleware(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{IPRateLimit: 0.001, IPBurst: 2})
	defer lp.Stop()

	handler := lp.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	post := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
		req.RemoteAddr = addr
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr.Code
	}

	for i := 0; i < 2; i++ {
		if code := post("192.0.2.1:1234"); code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i+1, code)
		}
	}
	if code := post("192.0.2.1:5678"); code != http.StatusTooManyRequests {
		t.Errorf("third request: status = %d, want 429", code)
	}
	if code := post("192.0.2.2:1234"); code != http.StatusOK {
		t.Errorf("other IP: status = %d, want 200", code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/login", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("GET status = %d, want 200 (not limited)", rr.Code)
	}
}
