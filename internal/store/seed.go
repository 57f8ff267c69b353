// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/oblog-go/internal/auth"
	"github.com/olegiv/oblog-go/internal/util"
)

// Default demo author credentials
const (
	DefaultAuthorUsername = "demo"
	DefaultAuthorEmail    = "demo@example.com"
	DefaultAuthorPassword = "changeme"
)

// Seed creates initial data: a demo author, a published category, and a
// location. Safe to call repeatedly; it is a no-op once the author exists.
func Seed(ctx context.Context, db *sql.DB) error {
	queries := New(db)

	_, err := queries.GetUserByEmail(ctx, DefaultAuthorEmail)
	if err == nil {
		slog.Info("demo author already exists, skipping seed")
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking for demo author: %w", err)
	}

	passwordHash, err := auth.HashPassword(DefaultAuthorPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now()
	user, err := queries.CreateUser(ctx, CreateUserParams{
		Username:     DefaultAuthorUsername,
		Email:        DefaultAuthorEmail,
		PasswordHash: passwordHash,
		FirstName:    "Demo",
		LastName:     "Author",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return fmt.Errorf("creating demo author: %w", err)
	}

	categoryTitle := "Miscellany"
	category, err := queries.CreateCategory(ctx, CreateCategoryParams{
		Title:       categoryTitle,
		Description: "Posts that fit nowhere else.",
		Slug:        util.Slugify(categoryTitle),
		IsPublished: true,
		CreatedAt:   now,
	})
	if err != nil {
		return fmt.Errorf("creating default category: %w", err)
	}

	if _, err := queries.CreateLocation(ctx, CreateLocationParams{
		Name:        "Nowhere in particular",
		IsPublished: true,
		CreatedAt:   now,
	}); err != nil {
		return fmt.Errorf("creating default location: %w", err)
	}

	slog.Info("seeded initial data",
		"user_id", user.ID,
		"username", user.Username,
		"category", category.Slug,
	)
	slog.Warn("demo author created with default password, change it after first login",
		"email", DefaultAuthorEmail,
	)

	return nil
}
