// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"net/http/httptest"
	"testing"
)

func TestClientIP(t *testing.T) {
	t.Run("x-real-ip wins", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("X-Real-IP", "203.0.113.5")
		r.Header.Set("X-Forwarded-For", "198.51.100.9")
		if got := ClientIP(r); got != "203.0.113.5" {
			t.Errorf("ClientIP() = %q", got)
		}
	})

	t.Run("first forwarded entry", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("X-Forwarded-For", "198.51.100.9, 10.0.0.1")
		if got := ClientIP(r); got != "198.51.100.9" {
			t.Errorf("ClientIP() = %q", got)
		}
	})

	t.Run("falls back to remote addr", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		r.RemoteAddr = "192.0.2.1:51234"
		if got := ClientIP(r); got != "192.0.2.1" {
			t.Errorf("ClientIP() = %q", got)
		}
	})
}
