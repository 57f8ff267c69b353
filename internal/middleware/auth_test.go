// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/oblog-go/internal/store"
)

func TestAuth_RedirectsAnonymous(t *testing.T) {
	sm := scs.New()

	handler := sm.LoadAndSave(Auth(sm)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	req := httptest.NewRequest(http.MethodGet, "/posts/new", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("Location = %q, want /login", loc)
	}
}

func TestAuth_PassesAuthenticated(t *testing.T) {
	sm := scs.New()

	var called bool
	handler := sm.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sm.Put(r.Context(), SessionKeyUserID, int64(42))
		Auth(sm)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			called = true
			w.WriteHeader(http.StatusOK)
		})).ServeHTTP(w, r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/posts/new", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !called {
		t.Error("authenticated request should reach the handler")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestGetUser(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	if user := GetUser(req); user != nil {
		t.Errorf("GetUser without context value = %+v, want nil", user)
	}
	if id := GetUserID(req); id != 0 {
		t.Errorf("GetUserID without context value = %d, want 0", id)
	}
	if ptr := GetUserIDPtr(req); ptr != nil {
		t.Errorf("GetUserIDPtr without context value = %v, want nil", ptr)
	}

	user := store.User{ID: 7, Username: "alice"}
	req = req.WithContext(context.WithValue(req.Context(), ContextKeyUser, user))

	got := GetUser(req)
	if got == nil || got.ID != 7 {
		t.Fatalf("GetUser = %+v, want user 7", got)
	}
	if id := GetUserID(req); id != 7 {
		t.Errorf("GetUserID = %d, want 7", id)
	}
	if ptr := GetUserIDPtr(req); ptr == nil || *ptr != 7 {
		t.Errorf("GetUserIDPtr = %v, want pointer to 7", ptr)
	}
}

func TestRequestPath(t *testing.T) {
	var got string
	handler := RequestPath(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = GetRequestPath(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/posts/3/edit", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got != "/posts/3/edit" {
		t.Errorf("GetRequestPath = %q, want /posts/3/edit", got)
	}
}
