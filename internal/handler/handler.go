// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler provides HTTP handlers for the application.
package handler

import (
	"database/sql"
	"html/template"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/oblog-go/internal/imaging"
	"github.com/olegiv/oblog-go/internal/render"
	"github.com/olegiv/oblog-go/internal/service"
	"github.com/olegiv/oblog-go/internal/store"
)

// Handler holds the shared dependencies for the blog's HTTP handlers.
type Handler struct {
	queries        *store.Queries
	feed           *service.Feed
	renderer       *render.Renderer
	sessionManager *scs.SessionManager
	eventService   *service.EventService
	images         *imaging.Processor
}

// New creates a Handler wired to the given database and renderer.
func New(db *sql.DB, renderer *render.Renderer, sm *scs.SessionManager, images *imaging.Processor) *Handler {
	return &Handler{
		queries:        store.New(db),
		feed:           service.NewFeed(db),
		renderer:       renderer,
		sessionManager: sm,
		eventService:   service.NewEventService(db),
		images:         images,
	}
}

// PostView represents a post with computed fields for template rendering.
type PostView struct {
	store.FeedPost
	BodyHTML   template.HTML
	URL        string
	IsDraft    bool
	IsDeferred bool
}

// newPostView builds a PostView. The full body is only rendered on the
// detail page; listings show the raw excerpt via the truncate template
// func.
func newPostView(post store.FeedPost, renderBody bool) PostView {
	v := PostView{
		FeedPost:   post,
		URL:        postURL(post.ID),
		IsDraft:    !post.IsPublished || !post.CategoryIsPublished,
		IsDeferred: post.PubDate.After(time.Now()),
	}
	if renderBody {
		v.BodyHTML = service.RenderBody(post.Body)
	}
	return v
}

// newPostViews builds listing views for a page of posts.
func newPostViews(posts []store.FeedPost) []PostView {
	views := make([]PostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, newPostView(p, false))
	}
	return views
}

// CommentView represents a comment with its rendered body.
type CommentView struct {
	store.CommentWithAuthor
	BodyHTML  template.HTML
	CanManage bool
}

// newCommentViews builds comment views, marking the ones the viewer owns.
func newCommentViews(comments []store.CommentWithAuthor, viewerID int64) []CommentView {
	views := make([]CommentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, CommentView{
			CommentWithAuthor: c,
			BodyHTML:          service.RenderBody(c.Body),
			CanManage:         viewerID != 0 && viewerID == c.AuthorID,
		})
	}
	return views
}
