// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package testutil provides shared test helpers.
package testutil

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/olegiv/oblog-go/internal/auth"
	"github.com/olegiv/oblog-go/internal/store"
	"github.com/olegiv/oblog-go/internal/util"

	_ "github.com/mattn/go-sqlite3" // cgo SQLite driver for in-memory test databases
)

// TestLogger creates a silent test logger that only outputs warnings and errors.
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// TestDB creates an in-memory test database with migrations applied.
// Returns the database and a cleanup function that should be deferred.
func TestDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("opening in-memory database: %v", err)
	}

	// A second connection would see an empty database
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		t.Fatalf("enabling foreign keys: %v", err)
	}

	if err := store.Migrate(db); err != nil {
		_ = db.Close()
		t.Fatalf("Migrate: %v", err)
	}

	return db, func() {
		_ = db.Close()
	}
}

// CreateUser inserts a user for tests.
func CreateUser(t *testing.T, q *store.Queries, username string) store.User {
	t.Helper()

	hash, err := auth.HashPassword("test-password")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	now := time.Now()
	user, err := q.CreateUser(context.Background(), store.CreateUserParams{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return user
}

// CreateCategory inserts a category for tests.
func CreateCategory(t *testing.T, q *store.Queries, slug string, published bool) store.Category {
	t.Helper()

	category, err := q.CreateCategory(context.Background(), store.CreateCategoryParams{
		Title:       slug,
		Slug:        slug,
		IsPublished: published,
		CreatedAt:   time.Now(),
	})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	return category
}

// CreateComment inserts a comment for tests.
func CreateComment(t *testing.T, q *store.Queries, postID, authorID int64, body string) store.Comment {
	t.Helper()

	now := time.Now()
	comment, err := q.CreateComment(context.Background(), store.CreateCommentParams{
		Body:      body,
		AuthorID:  authorID,
		PostID:    postID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateComment: %v", err)
	}
	return comment
}

// PostSpec describes a post to insert for tests.
type PostSpec struct {
	Title       string
	AuthorID    int64
	CategoryID  int64
	LocationID  int64
	IsPublished bool
	PubDate     time.Time
}

// CreatePost inserts a post for tests. Zero-value fields get defaults:
// published, dated one hour in the past.
func CreatePost(t *testing.T, q *store.Queries, spec PostSpec) store.Post {
	t.Helper()

	if spec.Title == "" {
		spec.Title = "test post"
	}
	if spec.PubDate.IsZero() {
		spec.PubDate = time.Now().Add(-time.Hour)
	}

	var locationID sql.NullInt64
	if spec.LocationID != 0 {
		locationID = util.NullInt64FromValue(spec.LocationID)
	}

	now := time.Now()
	post, err := q.CreatePost(context.Background(), store.CreatePostParams{
		Title:       spec.Title,
		Body:        "body of " + spec.Title,
		AuthorID:    spec.AuthorID,
		CategoryID:  spec.CategoryID,
		LocationID:  locationID,
		IsPublished: spec.IsPublished,
		PubDate:     spec.PubDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	return post
}
