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

	"github.com/olegiv/oblog-go/internal/auth"
	"github.com/olegiv/oblog-go/internal/middleware"
	"github.com/olegiv/oblog-go/internal/model"
	"github.com/olegiv/oblog-go/internal/render"
	"github.com/olegiv/oblog-go/internal/store"
	"github.com/olegiv/oblog-go/internal/util"
)

// ProfileFormData carries submitted profile values back into the template.
type ProfileFormData struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Errors    map[string]string
}

// EditProfileForm renders the own-profile edit form.
// GET /profile/edit
func (h *Handler) EditProfileForm(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	if err := h.renderer.Render(w, r, "blog/profile_form", render.TemplateData{
		Title: "Edit profile",
		Data: ProfileFormData{
			Username:  user.Username,
			Email:     user.Email,
			FirstName: user.FirstName,
			LastName:  user.LastName,
		},
		CurrentUser: user,
	}); err != nil {
		logAndInternalError(w, "failed to render profile form", "error", err)
	}
}

// UpdateProfile handles the own-profile edit submission. Users can only
// ever reach their own profile here; there is no path to another user's
// settings. An optional new password is applied when provided.
// POST /profile/edit
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	if !parseFormOrRedirect(w, r, h.renderer, RouteProfileEdit) {
		return
	}

	form := ProfileFormData{
		Username:  strings.TrimSpace(r.FormValue("username")),
		Email:     strings.TrimSpace(strings.ToLower(r.FormValue("email"))),
		FirstName: strings.TrimSpace(r.FormValue("first_name")),
		LastName:  strings.TrimSpace(r.FormValue("last_name")),
		Errors:    make(map[string]string),
	}
	newPassword := r.FormValue("new_password")

	if !usernameRe.MatchString(form.Username) {
		form.Errors["username"] = "Username must be 3-64 letters, digits, dots, dashes or underscores"
	}
	if !emailRe.MatchString(form.Email) {
		form.Errors["email"] = "Enter a valid email address"
	}
	if newPassword != "" && len(newPassword) < 8 {
		form.Errors["new_password"] = "Password must be at least 8 characters"
	}

	if len(form.Errors) == 0 && form.Username != user.Username {
		if _, err := h.queries.GetUserByUsername(r.Context(), form.Username); err == nil {
			form.Errors["username"] = "Username is already taken"
		} else if !errors.Is(err, sql.ErrNoRows) {
			logAndInternalError(w, "failed to check username", "error", err)
			return
		}
	}
	if len(form.Errors) == 0 && form.Email != user.Email {
		if _, err := h.queries.GetUserByEmail(r.Context(), form.Email); err == nil {
			form.Errors["email"] = "Email is already registered"
		} else if !errors.Is(err, sql.ErrNoRows) {
			logAndInternalError(w, "failed to check email", "error", err)
			return
		}
	}

	if len(form.Errors) > 0 {
		if err := h.renderer.Render(w, r, "blog/profile_form", render.TemplateData{
			Title:       "Edit profile",
			Data:        form,
			CurrentUser: user,
		}); err != nil {
			logAndInternalError(w, "failed to render profile form", "error", err)
		}
		return
	}

	updated, err := h.queries.UpdateUserProfile(r.Context(), store.UpdateUserProfileParams{
		Username:  form.Username,
		Email:     form.Email,
		FirstName: form.FirstName,
		LastName:  form.LastName,
		UpdatedAt: time.Now(),
		ID:        user.ID,
	})
	if err != nil {
		logAndInternalError(w, "failed to update profile", "error", err, "user_id", user.ID)
		return
	}

	if newPassword != "" {
		hash, err := auth.HashPassword(newPassword)
		if err != nil {
			logAndInternalError(w, "failed to hash password", "error", err)
			return
		}
		if err := h.queries.UpdateUserPassword(r.Context(), store.UpdateUserPasswordParams{
			PasswordHash: hash,
			UpdatedAt:    time.Now(),
			ID:           user.ID,
		}); err != nil {
			logAndInternalError(w, "failed to update password", "error", err, "user_id", user.ID)
			return
		}
		slog.Info("password changed", "user_id", user.ID)
	}

	slog.Info("profile updated", "user_id", updated.ID)
	_ = h.eventService.LogUserEvent(r.Context(), model.EventLevelInfo, "Profile updated",
		&updated.ID, util.ClientIP(r), map[string]any{"username": updated.Username})

	flashSuccess(w, r, h.renderer, profileURL(updated.Username), "Profile updated")
}
