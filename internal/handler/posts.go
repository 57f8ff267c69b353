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
	"github.com/olegiv/oblog-go/internal/store"
	"github.com/olegiv/oblog-go/internal/util"
)

// pubDateFormat matches the value of an HTML datetime-local input.
const pubDateFormat = "2006-01-02T15:04"

// maxImageUploadSize caps post image uploads at 10 MB.
const maxImageUploadSize = 10 << 20

// PostFormData holds data for the post create/edit form template.
type PostFormData struct {
	IsEdit     bool
	Post       PostForm
	PostID     int64
	Categories []store.Category
	Locations  []store.Location
	Errors     map[string]string
}

// PostForm carries submitted post form values back into the template.
type PostForm struct {
	Title       string
	Body        string
	CategoryID  int64
	LocationID  int64
	IsPublished bool
	PubDate     string
	ImagePath   string
}

// requirePostOwner loads a post for a mutation and enforces ownership.
// Missing posts get a 404. A foreign post redirects to its detail page
// with a flash; the post stays readable there, only the mutation is
// denied. Returns the post and true when the current user may proceed.
func (h *Handler) requirePostOwner(w http.ResponseWriter, r *http.Request) (store.FeedPost, bool) {
	id, ok := parseIDParam(chi.URLParam(r, "id"))
	if !ok {
		notFound(w)
		return store.FeedPost{}, false
	}

	post, err := h.queries.GetPostByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			notFound(w)
			return store.FeedPost{}, false
		}
		logAndInternalError(w, "failed to get post", "error", err, "post_id", id)
		return store.FeedPost{}, false
	}

	user := middleware.GetUser(r)
	if user == nil || user.ID != post.AuthorID {
		flashError(w, r, h.renderer, postURL(post.ID), "Only the author can change this post")
		return store.FeedPost{}, false
	}

	return post, true
}

// loadPostFormChoices fetches the published categories and locations for
// the post form selects.
func (h *Handler) loadPostFormChoices(w http.ResponseWriter, r *http.Request) ([]store.Category, []store.Location, bool) {
	categories, err := h.queries.ListPublishedCategories(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list categories", "error", err)
		return nil, nil, false
	}

	locations, err := h.queries.ListPublishedLocations(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list locations", "error", err)
		return nil, nil, false
	}

	return categories, locations, true
}

// parsePostForm reads and validates the submitted post form.
func parsePostForm(r *http.Request) (PostForm, map[string]string) {
	form := PostForm{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Body:        strings.TrimSpace(r.FormValue("body")),
		IsPublished: r.FormValue("is_published") == "on",
		PubDate:     r.FormValue("pub_date"),
	}
	form.CategoryID = util.ParseNullInt64Positive(r.FormValue("category_id")).Int64
	form.LocationID = util.ParseNullInt64Positive(r.FormValue("location_id")).Int64

	errs := make(map[string]string)
	if form.Title == "" {
		errs["title"] = "Title is required"
	} else if len(form.Title) > 256 {
		errs["title"] = "Title must be at most 256 characters"
	}
	if form.Body == "" {
		errs["body"] = "Text is required"
	}
	if form.CategoryID == 0 {
		errs["category_id"] = "Category is required"
	}
	if form.PubDate != "" {
		if _, err := time.ParseInLocation(pubDateFormat, form.PubDate, time.Local); err != nil {
			errs["pub_date"] = "Publication date is invalid"
		}
	}

	return form, errs
}

// pubDateOrNow converts the validated form value to a time, defaulting
// to now. A future date is allowed and defers publication.
func pubDateOrNow(value string) time.Time {
	if value == "" {
		return time.Now()
	}
	t, err := time.ParseInLocation(pubDateFormat, value, time.Local)
	if err != nil {
		return time.Now()
	}
	return t
}

// processImageUpload stores an uploaded post image if one was submitted.
// Returns the stored file name, or ok=false if the upload was rejected.
func (h *Handler) processImageUpload(r *http.Request) (sql.NullString, bool) {
	file, header, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return sql.NullString{}, true
		}
		return sql.NullString{}, false
	}
	defer func() { _ = file.Close() }()

	if header.Size > maxImageUploadSize {
		return sql.NullString{}, false
	}

	result, err := h.images.ProcessImage(file)
	if err != nil {
		slog.Warn("post image rejected", "error", err, "filename", header.Filename)
		return sql.NullString{}, false
	}

	return util.NullStringFromValue(result.FileName), true
}

// renderPostForm renders the post form template.
func (h *Handler) renderPostForm(w http.ResponseWriter, r *http.Request, title string, data PostFormData) {
	if err := h.renderer.Render(w, r, "blog/post_form", render.TemplateData{
		Title:       title,
		Data:        data,
		CurrentUser: middleware.GetUser(r),
	}); err != nil {
		logAndInternalError(w, "failed to render post form", "error", err)
	}
}

// NewPostForm renders the post creation form.
// GET /posts/new
func (h *Handler) NewPostForm(w http.ResponseWriter, r *http.Request) {
	categories, locations, ok := h.loadPostFormChoices(w, r)
	if !ok {
		return
	}

	h.renderPostForm(w, r, "New post", PostFormData{
		Post:       PostForm{IsPublished: true},
		Categories: categories,
		Locations:  locations,
	})
}

// CreatePost handles the post creation form submission.
// POST /posts/new
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	if err := r.ParseMultipartForm(maxImageUploadSize); err != nil {
		flashError(w, r, h.renderer, RoutePosts+RouteSuffixNew, "Invalid form data")
		return
	}

	form, formErrs := parsePostForm(r)
	imagePath, imageOK := h.processImageUpload(r)
	if !imageOK {
		formErrs["image"] = "Image could not be processed"
	}

	if len(formErrs) > 0 {
		categories, locations, ok := h.loadPostFormChoices(w, r)
		if !ok {
			return
		}
		h.renderPostForm(w, r, "New post", PostFormData{
			Post:       form,
			Categories: categories,
			Locations:  locations,
			Errors:     formErrs,
		})
		return
	}

	now := time.Now()
	post, err := h.queries.CreatePost(r.Context(), store.CreatePostParams{
		Title:       form.Title,
		Body:        form.Body,
		ImagePath:   imagePath,
		AuthorID:    user.ID,
		CategoryID:  form.CategoryID,
		LocationID:  util.ParseNullInt64Positive(r.FormValue("location_id")),
		IsPublished: form.IsPublished,
		PubDate:     pubDateOrNow(form.PubDate),
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		logAndInternalError(w, "failed to create post", "error", err, "user_id", user.ID)
		return
	}

	slog.Info("post created", "post_id", post.ID, "user_id", user.ID)
	_ = h.eventService.LogPostEvent(r.Context(), model.EventLevelInfo, "Post created",
		middleware.GetUserIDPtr(r), util.ClientIP(r), map[string]any{"post_id": post.ID, "title": post.Title})

	// New posts land on the author's profile, like the rest of their
	// work in progress.
	flashSuccess(w, r, h.renderer, profileURL(user.Username), "Post created")
}

// EditPostForm renders the post edit form for the post's author.
// GET /posts/{id}/edit
func (h *Handler) EditPostForm(w http.ResponseWriter, r *http.Request) {
	post, ok := h.requirePostOwner(w, r)
	if !ok {
		return
	}

	categories, locations, choicesOK := h.loadPostFormChoices(w, r)
	if !choicesOK {
		return
	}

	h.renderPostForm(w, r, "Edit post", PostFormData{
		IsEdit: true,
		PostID: post.ID,
		Post: PostForm{
			Title:       post.Title,
			Body:        post.Body,
			CategoryID:  post.CategoryID,
			LocationID:  post.LocationID.Int64,
			IsPublished: post.IsPublished,
			PubDate:     post.PubDate.Local().Format(pubDateFormat),
			ImagePath:   post.ImagePath.String,
		},
		Categories: categories,
		Locations:  locations,
	})
}

// UpdatePost handles the post edit form submission.
// POST /posts/{id}/edit
func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	post, ok := h.requirePostOwner(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxImageUploadSize); err != nil {
		flashError(w, r, h.renderer, postURL(post.ID)+RouteSuffixEdit, "Invalid form data")
		return
	}

	form, formErrs := parsePostForm(r)
	imagePath, imageOK := h.processImageUpload(r)
	if !imageOK {
		formErrs["image"] = "Image could not be processed"
	}

	if len(formErrs) > 0 {
		categories, locations, choicesOK := h.loadPostFormChoices(w, r)
		if !choicesOK {
			return
		}
		h.renderPostForm(w, r, "Edit post", PostFormData{
			IsEdit:     true,
			PostID:     post.ID,
			Post:       form,
			Categories: categories,
			Locations:  locations,
			Errors:     formErrs,
		})
		return
	}

	// Keep the existing image unless a new one was uploaded.
	if !imagePath.Valid {
		imagePath = post.ImagePath
	} else if post.ImagePath.Valid {
		if err := h.images.DeleteImage(post.ImagePath.String); err != nil {
			slog.Warn("failed to delete replaced image", "error", err, "post_id", post.ID)
		}
	}

	user := middleware.GetUser(r)
	updated, err := h.queries.UpdatePost(r.Context(), store.UpdatePostParams{
		Title:       form.Title,
		Body:        form.Body,
		ImagePath:   imagePath,
		CategoryID:  form.CategoryID,
		LocationID:  util.ParseNullInt64Positive(r.FormValue("location_id")),
		IsPublished: form.IsPublished,
		PubDate:     pubDateOrNow(form.PubDate),
		UpdatedAt:   time.Now(),
		ID:          post.ID,
	})
	if err != nil {
		logAndInternalError(w, "failed to update post", "error", err, "post_id", post.ID)
		return
	}

	slog.Info("post updated", "post_id", updated.ID, "user_id", user.ID)
	_ = h.eventService.LogPostEvent(r.Context(), model.EventLevelInfo, "Post updated",
		middleware.GetUserIDPtr(r), util.ClientIP(r), map[string]any{"post_id": updated.ID})

	flashSuccess(w, r, h.renderer, postURL(updated.ID), "Post updated")
}

// DeletePostConfirm renders the delete confirmation page.
// GET /posts/{id}/delete
func (h *Handler) DeletePostConfirm(w http.ResponseWriter, r *http.Request) {
	post, ok := h.requirePostOwner(w, r)
	if !ok {
		return
	}

	if err := h.renderer.Render(w, r, "blog/post_delete", render.TemplateData{
		Title:       "Delete post",
		Data:        newPostView(post, false),
		CurrentUser: middleware.GetUser(r),
	}); err != nil {
		logAndInternalError(w, "failed to render delete confirmation", "error", err)
	}
}

// DeletePost handles the delete confirmation submission. Comments go
// with the post.
// POST /posts/{id}/delete
func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	post, ok := h.requirePostOwner(w, r)
	if !ok {
		return
	}

	if err := h.queries.DeletePost(r.Context(), post.ID); err != nil {
		logAndInternalError(w, "failed to delete post", "error", err, "post_id", post.ID)
		return
	}

	if post.ImagePath.Valid {
		if err := h.images.DeleteImage(post.ImagePath.String); err != nil {
			slog.Warn("failed to delete post image", "error", err, "post_id", post.ID)
		}
	}

	user := middleware.GetUser(r)
	slog.Info("post deleted", "post_id", post.ID, "user_id", user.ID)
	_ = h.eventService.LogPostEvent(r.Context(), model.EventLevelInfo, "Post deleted",
		middleware.GetUserIDPtr(r), util.ClientIP(r), map[string]any{"post_id": post.ID, "title": post.Title})

	flashSuccess(w, r, h.renderer, profileURL(user.Username), "Post deleted")
}
