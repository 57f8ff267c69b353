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

func TestListCommentsByPost_OldestFirst(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	ctx := context.Background()
	q := store.New(db)

	author := testutil.CreateUser(t, q, "alice")
	category := testutil.CreateCategory(t, q, "travel", true)
	post := testutil.CreatePost(t, q, testutil.PostSpec{
		AuthorID: author.ID, CategoryID: category.ID, IsPublished: true,
	})

	base := time.Now().Add(-time.Hour)
	first, err := q.CreateComment(ctx, store.CreateCommentParams{
		Body: "first", AuthorID: author.ID, PostID: post.ID,
		CreatedAt: base, UpdatedAt: base,
	})
	if err != nil {
		t.Fatalf("CreateComment: %v", err)
	}
	second, err := q.CreateComment(ctx, store.CreateCommentParams{
		Body: "second", AuthorID: author.ID, PostID: post.ID,
		CreatedAt: base.Add(time.Minute), UpdatedAt: base.Add(time.Minute),
	})
	if err != nil {
		t.Fatalf("CreateComment: %v", err)
	}

	comments, err := q.ListCommentsByPost(ctx, post.ID)
	if err != nil {
		t.Fatalf("ListCommentsByPost: %v", err)
	}

	if len(comments) != 2 {
		t.Fatalf("got %d comments, want 2", len(comments))
	}
	if comments[0].ID != first.ID || comments[1].ID != second.ID {
		t.Errorf("unexpected order: %d then %d", comments[0].ID, comments[1].ID)
	}
	if comments[0].AuthorUsername != "alice" {
		t.Errorf("AuthorUsername = %q", comments[0].AuthorUsername)
	}
}

func TestUpdateComment(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	ctx := context.Background()
	q := store.New(db)

	author := testutil.CreateUser(t, q, "alice")
	category := testutil.CreateCategory(t, q, "travel", true)
	post := testutil.CreatePost(t, q, testutil.PostSpec{
		AuthorID: author.ID, CategoryID: category.ID, IsPublished: true,
	})

	now := time.Now()
	comment, err := q.CreateComment(ctx, store.CreateCommentParams{
		Body: "typo", AuthorID: author.ID, PostID: post.ID, CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateComment: %v", err)
	}

	updated, err := q.UpdateComment(ctx, store.UpdateCommentParams{
		Body: "fixed", UpdatedAt: time.Now(), ID: comment.ID,
	})
	if err != nil {
		t.Fatalf("UpdateComment: %v", err)
	}
	if updated.Body != "fixed" {
		t.Errorf("Body = %q, want %q", updated.Body, "fixed")
	}
}

func TestCountCommentsByPost(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	ctx := context.Background()
	q := store.New(db)

	author := testutil.CreateUser(t, q, "alice")
	category := testutil.CreateCategory(t, q, "travel", true)
	post := testutil.CreatePost(t, q, testutil.PostSpec{
		AuthorID: author.ID, CategoryID: category.ID, IsPublished: true,
	})

	count, err := q.CountCommentsByPost(ctx, post.ID)
	if err != nil {
		t.Fatalf("CountCommentsByPost: %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}

	now := time.Now()
	if _, err := q.CreateComment(ctx, store.CreateCommentParams{
		Body: "x", AuthorID: author.ID, PostID: post.ID, CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		t.Fatalf("CreateComment: %v", err)
	}

	count, err = q.CountCommentsByPost(ctx, post.ID)
	if err != nil {
		t.Fatalf("CountCommentsByPost: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}
