// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store_test

import (
	"context"
	"testing"

	"github.com/olegiv/oblog-go/internal/store"
	"github.com/olegiv/oblog-go/internal/testutil"
	"github.com/olegiv/oblog-go/internal/util"
)

func TestSeed(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	ctx := context.Background()
	if err := store.Seed(ctx, db); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	q := store.New(db)

	user, err := q.GetUserByEmail(ctx, store.DefaultAuthorEmail)
	if err != nil {
		t.Fatalf("demo author missing after seed: %v", err)
	}
	if user.Username != store.DefaultAuthorUsername {
		t.Errorf("Username = %q, want %q", user.Username, store.DefaultAuthorUsername)
	}

	// The category slug is derived from its title, not hardcoded
	category, err := q.GetPublishedCategoryBySlug(ctx, util.Slugify("Miscellany"))
	if err != nil {
		t.Fatalf("seeded category missing under derived slug: %v", err)
	}
	if category.Title != "Miscellany" {
		t.Errorf("Title = %q, want Miscellany", category.Title)
	}
	if !util.IsValidSlug(category.Slug) {
		t.Errorf("seeded slug %q is not a valid slug", category.Slug)
	}

	// Seeding again is a no-op, not a constraint violation
	if err := store.Seed(ctx, db); err != nil {
		t.Errorf("second Seed: %v", err)
	}
}
