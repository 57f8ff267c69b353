// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/olegiv/oblog-go/internal/store"
	"github.com/olegiv/oblog-go/internal/testutil"
)

func TestCreateUser_UniqueConstraints(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	ctx := context.Background()
	q := store.New(db)

	testutil.CreateUser(t, q, "alice")

	now := time.Now()
	if _, err := q.CreateUser(ctx, store.CreateUserParams{
		Username:     "alice",
		Email:        "different@example.com",
		PasswordHash: "x",
		CreatedAt:    now,
		UpdatedAt:    now,
	}); err == nil {
		t.Error("duplicate username should be rejected")
	}

	if _, err := q.CreateUser(ctx, store.CreateUserParams{
		Username:     "alice2",
		Email:        "alice@example.com",
		PasswordHash: "x",
		CreatedAt:    now,
		UpdatedAt:    now,
	}); err == nil {
		t.Error("duplicate email should be rejected")
	}
}

func TestGetUserByUsername(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	ctx := context.Background()
	q := store.New(db)

	created := testutil.CreateUser(t, q, "alice")

	got, err := q.GetUserByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("got user %d, want %d", got.ID, created.ID)
	}
}

func TestUserFullName(t *testing.T) {
	u := store.User{Username: "alice"}
	if got := u.FullName(); got != "alice" {
		t.Errorf("FullName() = %q, want username fallback", got)
	}

	u.FirstName = "Alice"
	if got := u.FullName(); got != "Alice" {
		t.Errorf("FullName() = %q, want first name", got)
	}

	u.LastName = "Liddell"
	if got := u.FullName(); got != "Alice Liddell" {
		t.Errorf("FullName() = %q", got)
	}
}

func TestUpdateUserProfile(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	ctx := context.Background()
	q := store.New(db)

	user := testutil.CreateUser(t, q, "alice")

	updated, err := q.UpdateUserProfile(ctx, store.UpdateUserProfileParams{
		Username:  "alice2",
		Email:     "alice2@example.com",
		FirstName: "Alice",
		LastName:  "Liddell",
		UpdatedAt: time.Now(),
		ID:        user.ID,
	})
	if err != nil {
		t.Fatalf("UpdateUserProfile: %v", err)
	}

	if updated.Username != "alice2" || updated.FirstName != "Alice" {
		t.Errorf("unexpected update result: %+v", updated)
	}
}
