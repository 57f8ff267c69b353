// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/oblog-go/internal/middleware"
	"github.com/olegiv/oblog-go/internal/model"
	"github.com/olegiv/oblog-go/internal/render"
	"github.com/olegiv/oblog-go/internal/service"
	"github.com/olegiv/oblog-go/internal/store"
	"github.com/olegiv/oblog-go/internal/util"
)

// requireCommentOwner loads a comment for a mutation and enforces
// ownership. A foreign comment redirects to the parent post with a
// flash. Returns the comment and true when the current user may proceed.
func (h *Handler) requireCommentOwner(w http.ResponseWriter, r *http.Request) (store.Comment, bool) {
	id, ok := parseIDParam(chi.URLParam(r, "id"))
	if !ok {
		notFound(w)
		return store.Comment{}, false
	}

	comment, err := h.queries.GetCommentByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			notFound(w)
			return store.Comment{}, false
		}
		logAndInternalError(w, "failed to get comment", "error", err, "comment_id", id)
		return store.Comment{}, false
	}

	user := middleware.GetUser(r)
	if user == nil || user.ID != comment.AuthorID {
		flashError(w, r, h.renderer, postURL(comment.PostID), "Only the author can change this comment")
		return store.Comment{}, false
	}

	return comment, true
}

// CreateComment attaches a comment to a post. Commenting follows the
// same visibility rule as reading the post, so a draft's author can
// comment on it while nobody else can reach it.
// POST /posts/{id}/comments
func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	postID, ok := parseIDParam(chi.URLParam(r, "id"))
	if !ok {
		notFound(w)
		return
	}

	user := middleware.GetUser(r)
	post, err := h.feed.GetVisiblePost(r.Context(), postID, user.ID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			notFound(w)
			return
		}
		logAndInternalError(w, "failed to get post for comment", "error", err, "post_id", postID)
		return
	}

	if !parseFormOrRedirect(w, r, h.renderer, postURL(post.ID)) {
		return
	}

	body := strings.TrimSpace(r.FormValue("body"))
	if body == "" {
		flashError(w, r, h.renderer, postURL(post.ID), "Comment text is required")
		return
	}

	now := time.Now()
	comment, err := h.queries.CreateComment(r.Context(), store.CreateCommentParams{
		Body:      body,
		AuthorID:  user.ID,
		PostID:    post.ID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		logAndInternalError(w, "failed to create comment", "error", err, "post_id", post.ID)
		return
	}

	slog.Info("comment created", "comment_id", comment.ID, "post_id", post.ID, "user_id", user.ID)
	_ = h.eventService.LogCommentEvent(r.Context(), model.EventLevelInfo, "Comment created",
		middleware.GetUserIDPtr(r), util.ClientIP(r), map[string]any{"comment_id": comment.ID, "post_id": post.ID})

	flashSuccess(w, r, h.renderer, postURL(post.ID), "Comment added")
}

// CommentFormData holds data for the comment edit template.
type CommentFormData struct {
	Comment store.Comment
	PostURL string
}

// EditCommentForm renders the comment edit form for the comment's author.
// GET /comments/{id}/edit
func (h *Handler) EditCommentForm(w http.ResponseWriter, r *http.Request) {
	comment, ok := h.requireCommentOwner(w, r)
	if !ok {
		return
	}

	if err := h.renderer.Render(w, r, "blog/comment_form", render.TemplateData{
		Title: "Edit comment",
		Data: CommentFormData{
			Comment: comment,
			PostURL: postURL(comment.PostID),
		},
		CurrentUser: middleware.GetUser(r),
	}); err != nil {
		logAndInternalError(w, "failed to render comment form", "error", err)
	}
}

// UpdateComment handles the comment edit form submission.
// POST /comments/{id}/edit
func (h *Handler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	comment, ok := h.requireCommentOwner(w, r)
	if !ok {
		return
	}

	if !parseFormOrRedirect(w, r, h.renderer, postURL(comment.PostID)) {
		return
	}

	body := strings.TrimSpace(r.FormValue("body"))
	if body == "" {
		flashError(w, r, h.renderer, "/comments/"+formatID(comment.ID)+RouteSuffixEdit, "Comment text is required")
		return
	}

	updated, err := h.queries.UpdateComment(r.Context(), store.UpdateCommentParams{
		Body:      body,
		UpdatedAt: time.Now(),
		ID:        comment.ID,
	})
	if err != nil {
		logAndInternalError(w, "failed to update comment", "error", err, "comment_id", comment.ID)
		return
	}

	slog.Info("comment updated", "comment_id", updated.ID, "user_id", middleware.GetUserID(r))
	_ = h.eventService.LogCommentEvent(r.Context(), model.EventLevelInfo, "Comment updated",
		middleware.GetUserIDPtr(r), util.ClientIP(r), map[string]any{"comment_id": updated.ID})

	flashSuccess(w, r, h.renderer, postURL(comment.PostID), "Comment updated")
}

// DeleteCommentConfirm renders the comment delete confirmation page.
// GET /comments/{id}/delete
func (h *Handler) DeleteCommentConfirm(w http.ResponseWriter, r *http.Request) {
	comment, ok := h.requireCommentOwner(w, r)
	if !ok {
		return
	}

	if err := h.renderer.Render(w, r, "blog/comment_delete", render.TemplateData{
		Title: "Delete comment",
		Data: CommentFormData{
			Comment: comment,
			PostURL: postURL(comment.PostID),
		},
		CurrentUser: middleware.GetUser(r),
	}); err != nil {
		logAndInternalError(w, "failed to render delete confirmation", "error", err)
	}
}

// DeleteComment handles the comment delete confirmation submission.
// POST /comments/{id}/delete
func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	comment, ok := h.requireCommentOwner(w, r)
	if !ok {
		return
	}

	if err := h.queries.DeleteComment(r.Context(), comment.ID); err != nil {
		logAndInternalError(w, "failed to delete comment", "error", err, "comment_id", comment.ID)
		return
	}

	slog.Info("comment deleted", "comment_id", comment.ID, "user_id", middleware.GetUserID(r))
	_ = h.eventService.LogCommentEvent(r.Context(), model.EventLevelInfo, "Comment deleted",
		middleware.GetUserIDPtr(r), util.ClientIP(r), map[string]any{"comment_id": comment.ID, "post_id": comment.PostID})

	flashSuccess(w, r, h.renderer, postURL(comment.PostID), "Comment deleted")
}
