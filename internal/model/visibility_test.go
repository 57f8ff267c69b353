// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"testing"
	"time"
)

func TestPubliclyVisible(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		access PostAccess
		want   bool
	}{
		{
			name: "published past post in published category",
			access: PostAccess{
				IsPublished:       true,
				PubDate:           now.Add(-time.Hour),
				CategoryPublished: true,
			},
			want: true,
		},
		{
			name: "unpublished post",
			access: PostAccess{
				IsPublished:       false,
				PubDate:           now.Add(-time.Hour),
				CategoryPublished: true,
			},
			want: false,
		},
		{
			name: "future publication date",
			access: PostAccess{
				IsPublished:       true,
				PubDate:           now.Add(time.Hour),
				CategoryPublished: true,
			},
			want: false,
		},
		{
			name: "unpublished category",
			access: PostAccess{
				IsPublished:       true,
				PubDate:           now.Add(-time.Hour),
				CategoryPublished: false,
			},
			want: false,
		},
		{
			name: "pub date exactly now is not yet visible",
			access: PostAccess{
				IsPublished:       true,
				PubDate:           now,
				CategoryPublished: true,
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.access.PubliclyVisible(now); got != tt.want {
				t.Errorf("PubliclyVisible() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVisibleTo(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	draft := PostAccess{
		AuthorID:          7,
		IsPublished:       false,
		PubDate:           now.Add(-time.Hour),
		CategoryPublished: true,
	}

	if !draft.VisibleTo(7, now) {
		t.Error("author should see their own draft")
	}
	if draft.VisibleTo(8, now) {
		t.Error("another user should not see the draft")
	}
	if draft.VisibleTo(AnonymousViewerID, now) {
		t.Error("anonymous viewer should not see the draft")
	}

	deferred := PostAccess{
		AuthorID:          7,
		IsPublished:       true,
		PubDate:           now.Add(24 * time.Hour),
		CategoryPublished: true,
	}

	if !deferred.VisibleTo(7, now) {
		t.Error("author should see their own deferred post")
	}
	if deferred.VisibleTo(8, now) {
		t.Error("another user should not see a deferred post")
	}

	public := PostAccess{
		AuthorID:          7,
		IsPublished:       true,
		PubDate:           now.Add(-time.Hour),
		CategoryPublished: true,
	}

	if !public.VisibleTo(AnonymousViewerID, now) {
		t.Error("anonymous viewer should see a public post")
	}
	if !public.VisibleTo(8, now) {
		t.Error("any user should see a public post")
	}
}

func TestVisibleTo_AnonymousNeverMatchesAuthor(t *testing.T) {
	now := time.Now()

	// A post row with author ID zero must not grant the anonymous
	// viewer an owner override.
	access := PostAccess{
		AuthorID:          AnonymousViewerID,
		IsPublished:       false,
		PubDate:           now.Add(-time.Hour),
		CategoryPublished: true,
	}

	if access.VisibleTo(AnonymousViewerID, now) {
		t.Error("anonymous viewer must never get the owner override")
	}
}
