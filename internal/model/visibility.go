// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain types and rules shared across the application,
// most importantly the post visibility rule.
package model

import "time"

// AnonymousViewerID is the viewer ID used for unauthenticated requests.
// No persisted user ever has ID 0.
const AnonymousViewerID int64 = 0

// PostAccess carries the fields of a post that the visibility rule needs.
type PostAccess struct {
	AuthorID          int64
	IsPublished       bool
	PubDate           time.Time
	CategoryPublished bool
}

// PubliclyVisible reports whether the post is readable by anyone at the
// given instant: it must be published, its publication date must have
// passed, and its category must be published.
func (p PostAccess) PubliclyVisible(now time.Time) bool {
	return p.IsPublished && p.PubDate.Before(now) && p.CategoryPublished
}

// VisibleTo reports whether the viewer may read the post at the given
// instant. The author always sees their own post, drafts and future
// publication dates included. viewerID is AnonymousViewerID for
// unauthenticated viewers, who only ever get the public rule.
//
// now must be wall-clock time read at evaluation time: a post crosses
// into visibility as its pub date passes, without any write.
func (p PostAccess) VisibleTo(viewerID int64, now time.Time) bool {
	if viewerID != AnonymousViewerID && viewerID == p.AuthorID {
		return true
	}
	return p.PubliclyVisible(now)
}
