// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service provides business logic on top of the store: feed
// composition, the comment attachment rule, body rendering, and event
// logging.
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/olegiv/oblog-go/internal/store"
)

// PostsPerPage is the fixed page size shared by every listing surface.
const PostsPerPage = 10

// ErrNotFound is returned when a post is absent or not visible to the
// viewer. The two cases are deliberately indistinguishable so that
// private content cannot be probed for existence.
var ErrNotFound = errors.New("post not found")

// Scope selects which posts a listing covers.
type Scope struct {
	categoryID int64
	authorID   int64
}

// ScopeAll covers every post.
func ScopeAll() Scope { return Scope{} }

// ScopeCategory covers posts in one category.
func ScopeCategory(categoryID int64) Scope { return Scope{categoryID: categoryID} }

// ScopeAuthor covers posts by one author.
func ScopeAuthor(authorID int64) Scope { return Scope{authorID: authorID} }

// Page describes the slice of the feed a listing returned.
type Page struct {
	Number     int
	PerPage    int
	TotalItems int64
	TotalPages int
}

// HasPrev reports whether an earlier page exists.
func (p Page) HasPrev() bool { return p.Number > 1 }

// HasNext reports whether a later page exists.
func (p Page) HasNext() bool { return p.Number < p.TotalPages }

// Feed composes post listings. Every listing joins related data, counts
// comments live, and orders newest first; the scope and the viewer decide
// the filter branch.
type Feed struct {
	queries *store.Queries
}

// NewFeed creates a Feed backed by the given database.
func NewFeed(db *sql.DB) *Feed {
	return &Feed{queries: store.New(db)}
}

// List returns one page of the feed for the given scope and viewer.
//
// Bulk listings always apply the public filter; owning a draft does not
// surface it on the home or category feeds. The one exception is an
// author browsing their own profile scope, which is unfiltered. The
// pub_date bound is wall-clock time read here, per request.
//
// pageNum is 1-based and clamped to the nearest valid page, so garbage
// page parameters degrade to the first or last page instead of erroring.
func (f *Feed) List(ctx context.Context, scope Scope, viewerID int64, pageNum int) ([]store.FeedPost, Page, error) {
	now := time.Now()

	total, err := f.count(ctx, scope, viewerID, now)
	if err != nil {
		return nil, Page{}, fmt.Errorf("counting posts: %w", err)
	}

	page := clampPage(pageNum, total)
	offset := int64(page.Number-1) * int64(page.PerPage)

	posts, err := f.list(ctx, scope, viewerID, now, int64(page.PerPage), offset)
	if err != nil {
		return nil, Page{}, fmt.Errorf("listing posts: %w", err)
	}

	return posts, page, nil
}

func (f *Feed) count(ctx context.Context, scope Scope, viewerID int64, now time.Time) (int64, error) {
	switch {
	case scope.categoryID != 0:
		return f.queries.CountPublicPostsByCategory(ctx, store.CountPublicPostsByCategoryParams{
			CategoryID: scope.categoryID,
			Now:        now,
		})
	case scope.authorID != 0 && scope.authorID == viewerID:
		return f.queries.CountPostsByAuthor(ctx, scope.authorID)
	case scope.authorID != 0:
		return f.queries.CountPublicPostsByAuthor(ctx, store.CountPublicPostsByAuthorParams{
			AuthorID: scope.authorID,
			Now:      now,
		})
	default:
		return f.queries.CountPublicPosts(ctx, now)
	}
}

func (f *Feed) list(ctx context.Context, scope Scope, viewerID int64, now time.Time, limit, offset int64) ([]store.FeedPost, error) {
	switch {
	case scope.categoryID != 0:
		return f.queries.ListPublicPostsByCategory(ctx, store.ListPublicPostsByCategoryParams{
			CategoryID: scope.categoryID,
			Now:        now,
			Limit:      limit,
			Offset:     offset,
		})
	case scope.authorID != 0 && scope.authorID == viewerID:
		return f.queries.ListPostsByAuthor(ctx, store.ListPostsByAuthorParams{
			AuthorID: scope.authorID,
			Limit:    limit,
			Offset:   offset,
		})
	case scope.authorID != 0:
		return f.queries.ListPublicPostsByAuthor(ctx, store.ListPublicPostsByAuthorParams{
			AuthorID: scope.authorID,
			Now:      now,
			Limit:    limit,
			Offset:   offset,
		})
	default:
		return f.queries.ListPublicPosts(ctx, store.ListPublicPostsParams{
			Now:    now,
			Limit:  limit,
			Offset: offset,
		})
	}
}

// GetVisiblePost fetches a single post if the viewer may read it.
// Unlike bulk listings, detail access grants the author their own drafts.
// Absent and invisible posts both return ErrNotFound.
func (f *Feed) GetVisiblePost(ctx context.Context, id, viewerID int64) (store.FeedPost, error) {
	post, err := f.queries.GetPostByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.FeedPost{}, ErrNotFound
		}
		return store.FeedPost{}, fmt.Errorf("getting post %d: %w", id, err)
	}

	if !post.Access().VisibleTo(viewerID, time.Now()) {
		return store.FeedPost{}, ErrNotFound
	}

	return post, nil
}

// CanComment reports whether the viewer may attach a comment to the post.
// It is exactly detail visibility: any authenticated user may comment on
// a public post, and an author may comment on their own draft.
func (f *Feed) CanComment(post *store.FeedPost, viewerID int64) bool {
	return post.Access().VisibleTo(viewerID, time.Now())
}

// clampPage normalizes a requested 1-based page number against the total
// item count.
func clampPage(pageNum int, total int64) Page {
	totalPages := int((total + PostsPerPage - 1) / PostsPerPage)
	if totalPages < 1 {
		totalPages = 1
	}

	if pageNum < 1 {
		pageNum = 1
	}
	if pageNum > totalPages {
		pageNum = totalPages
	}

	return Page{
		Number:     pageNum,
		PerPage:    PostsPerPage,
		TotalItems: total,
		TotalPages: totalPages,
	}
}
