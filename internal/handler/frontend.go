// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/oblog-go/internal/middleware"
	"github.com/olegiv/oblog-go/internal/render"
	"github.com/olegiv/oblog-go/internal/service"
	"github.com/olegiv/oblog-go/internal/store"
	"github.com/olegiv/oblog-go/internal/util"
)

// HomeData holds data for the home feed template.
type HomeData struct {
	Posts      []PostView
	Pagination Pagination
}

// Home renders the paginated public feed.
// GET /
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	viewerID := middleware.GetUserID(r)

	posts, page, err := h.feed.List(r.Context(), service.ScopeAll(), viewerID, ParsePage(r))
	if err != nil {
		logAndInternalError(w, "failed to list posts", "error", err)
		return
	}

	data := HomeData{
		Posts:      newPostViews(posts),
		Pagination: BuildPagination(page, RouteRoot, r.URL.Query()),
	}

	if err := h.renderer.Render(w, r, "blog/home", render.TemplateData{
		Title:       "Latest posts",
		Data:        data,
		CurrentUser: middleware.GetUser(r),
	}); err != nil {
		logAndInternalError(w, "failed to render home", "error", err)
	}
}

// CategoryData holds data for the category feed template.
type CategoryData struct {
	Category   store.Category
	Posts      []PostView
	Pagination Pagination
}

// Category renders the paginated feed of one published category.
// An unpublished or unknown category slug is a 404; there is no owner
// override for category feeds.
// GET /category/{slug}
func (h *Handler) Category(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if !util.IsValidSlug(slug) {
		notFound(w)
		return
	}

	category, err := h.queries.GetPublishedCategoryBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			notFound(w)
			return
		}
		logAndInternalError(w, "failed to get category", "error", err, "slug", slug)
		return
	}

	viewerID := middleware.GetUserID(r)
	posts, page, err := h.feed.List(r.Context(), service.ScopeCategory(category.ID), viewerID, ParsePage(r))
	if err != nil {
		logAndInternalError(w, "failed to list category posts", "error", err, "category_id", category.ID)
		return
	}

	data := CategoryData{
		Category:   category,
		Posts:      newPostViews(posts),
		Pagination: BuildPagination(page, "/category/"+category.Slug, r.URL.Query()),
	}

	if err := h.renderer.Render(w, r, "blog/category", render.TemplateData{
		Title:       category.Title,
		Data:        data,
		CurrentUser: middleware.GetUser(r),
	}); err != nil {
		logAndInternalError(w, "failed to render category", "error", err)
	}
}

// ProfileData holds data for the profile template.
type ProfileData struct {
	Profile    store.User
	IsOwner    bool
	Posts      []PostView
	Pagination Pagination
}

// Profile renders a user's page with their paginated posts. The owner
// sees all of their posts, drafts and deferred ones included; everyone
// else sees only the publicly visible subset.
// GET /profile/{username}
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	profile, err := h.queries.GetUserByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			notFound(w)
			return
		}
		logAndInternalError(w, "failed to get profile user", "error", err, "username", username)
		return
	}

	viewerID := middleware.GetUserID(r)
	posts, page, err := h.feed.List(r.Context(), service.ScopeAuthor(profile.ID), viewerID, ParsePage(r))
	if err != nil {
		logAndInternalError(w, "failed to list profile posts", "error", err, "user_id", profile.ID)
		return
	}

	data := ProfileData{
		Profile:    profile,
		IsOwner:    viewerID == profile.ID,
		Posts:      newPostViews(posts),
		Pagination: BuildPagination(page, profileURL(profile.Username), r.URL.Query()),
	}

	if err := h.renderer.Render(w, r, "blog/profile", render.TemplateData{
		Title:       profile.FullName(),
		Data:        data,
		CurrentUser: middleware.GetUser(r),
	}); err != nil {
		logAndInternalError(w, "failed to render profile", "error", err)
	}
}

// PostDetailData holds data for the post detail template.
type PostDetailData struct {
	Post       PostView
	Comments   []CommentView
	CanComment bool
	IsOwner    bool
}

// PostDetail renders a single post with its comments. Authors can open
// their own drafts and deferred posts here; for everyone else an
// invisible post is indistinguishable from a missing one.
// GET /posts/{id}
func (h *Handler) PostDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(chi.URLParam(r, "id"))
	if !ok {
		notFound(w)
		return
	}

	viewerID := middleware.GetUserID(r)
	post, err := h.feed.GetVisiblePost(r.Context(), id, viewerID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			notFound(w)
			return
		}
		logAndInternalError(w, "failed to get post", "error", err, "post_id", id)
		return
	}

	comments, err := h.queries.ListCommentsByPost(r.Context(), post.ID)
	if err != nil {
		logAndInternalError(w, "failed to list comments", "error", err, "post_id", post.ID)
		return
	}

	data := PostDetailData{
		Post:       newPostView(post, true),
		Comments:   newCommentViews(comments, viewerID),
		CanComment: viewerID != 0 && h.feed.CanComment(&post, viewerID),
		IsOwner:    viewerID != 0 && viewerID == post.AuthorID,
	}

	if err := h.renderer.Render(w, r, "blog/post_detail", render.TemplateData{
		Title:       post.Title,
		Data:        data,
		CurrentUser: middleware.GetUser(r),
	}); err != nil {
		logAndInternalError(w, "failed to render post", "error", err)
	}
}
