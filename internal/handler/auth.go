// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/olegiv/oblog-go/internal/auth"
	"github.com/olegiv/oblog-go/internal/middleware"
	"github.com/olegiv/oblog-go/internal/model"
	"github.com/olegiv/oblog-go/internal/render"
	"github.com/olegiv/oblog-go/internal/store"
	"github.com/olegiv/oblog-go/internal/util"
)

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_.-]{3,64}$`)
	emailRe    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// AuthHandler handles authentication routes.
type AuthHandler struct {
	*Handler
	loginProtection *middleware.LoginProtection
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(h *Handler, lp *middleware.LoginProtection) *AuthHandler {
	return &AuthHandler{
		Handler:         h,
		loginProtection: lp,
	}
}

// LoginForm renders the login page. Already-authenticated users are
// sent home.
// GET /login
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if userID := h.sessionManager.GetInt64(r.Context(), middleware.SessionKeyUserID); userID > 0 {
		http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
		return
	}

	if err := h.renderer.Render(w, r, "auth/login", render.TemplateData{
		Title: "Log in",
	}); err != nil {
		logAndInternalError(w, "failed to render login", "error", err)
	}
}

// Login handles the login form submission.
// POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectLogin) {
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	if username == "" || password == "" {
		flashError(w, r, h.renderer, redirectLogin, "Username and password are required")
		return
	}

	clientIP := util.ClientIP(r)

	// Check if account is locked
	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsAccountLocked(username); locked {
			_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelWarning,
				"Login attempt on locked account", nil, clientIP, map[string]any{"username": username})
			flashError(w, r, h.renderer, redirectLogin,
				fmt.Sprintf("Account is locked, try again in %s", formatDuration(remaining)))
			return
		}
	}

	user, err := h.queries.GetUserByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			slog.Debug("login attempt for non-existent user", "username", username)
			_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelWarning,
				"Login failed: user not found", nil, clientIP, map[string]any{"username": username})
		} else {
			slog.Error("database error during login", "error", err)
		}
		// Record failed attempt even for non-existent users to prevent enumeration
		if h.recordFailure(w, r, username) {
			return
		}
		flashError(w, r, h.renderer, redirectLogin, "Invalid username or password")
		return
	}

	valid, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil {
		slog.Error("password check error", "error", err)
		flashError(w, r, h.renderer, redirectLogin, "Invalid username or password")
		return
	}

	if !valid {
		slog.Debug("invalid password attempt", "username", username)
		_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelWarning,
			"Login failed: invalid password", &user.ID, clientIP, map[string]any{"username": username})
		if h.recordFailure(w, r, username) {
			return
		}
		flashError(w, r, h.renderer, redirectLogin, "Invalid username or password")
		return
	}

	// Clear failed attempts on successful login
	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(username)
	}

	// Re-hash password if it uses old/expensive parameters
	if auth.NeedsRehash(user.PasswordHash) {
		if newHash, err := auth.HashPassword(password); err == nil {
			if err := h.queries.UpdateUserPassword(r.Context(), store.UpdateUserPasswordParams{
				PasswordHash: newHash,
				UpdatedAt:    time.Now(),
				ID:           user.ID,
			}); err != nil {
				slog.Error("failed to re-hash password", "error", err, "user_id", user.ID)
			} else {
				slog.Info("password re-hashed with updated parameters", "user_id", user.ID)
			}
		}
	}

	if err := h.queries.UpdateUserLastLogin(r.Context(), store.UpdateUserLastLoginParams{
		LastLoginAt: sql.NullTime{Time: time.Now(), Valid: true},
		ID:          user.ID,
	}); err != nil {
		slog.Error("failed to update last login time", "error", err, "user_id", user.ID)
		// Don't block login on this error
	}

	// Regenerate session ID to prevent session fixation
	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		logAndInternalError(w, "session renewal error", "error", err)
		return
	}

	h.sessionManager.Put(r.Context(), middleware.SessionKeyUserID, user.ID)

	slog.Info("user logged in", "user_id", user.ID, "username", user.Username)
	_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelInfo, "User logged in",
		&user.ID, clientIP, map[string]any{"username": user.Username})

	flashSuccess(w, r, h.renderer, profileURL(user.Username), "Welcome back, "+user.FullName())
}

// recordFailure records a failed login attempt. It reports true when a
// response was already written (lockout or last-attempts warning).
func (h *AuthHandler) recordFailure(w http.ResponseWriter, r *http.Request, username string) bool {
	if h.loginProtection == nil {
		return false
	}

	if locked, lockDuration := h.loginProtection.RecordFailedAttempt(username); locked {
		_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelWarning,
			"Account locked due to failed attempts", nil, util.ClientIP(r),
			map[string]any{"username": username, "duration": lockDuration.String()})
		flashError(w, r, h.renderer, redirectLogin,
			fmt.Sprintf("Too many failed attempts, account locked for %s", formatDuration(lockDuration)))
		return true
	}

	remaining := h.loginProtection.GetRemainingAttempts(username)
	if remaining <= 3 && remaining > 0 {
		flashError(w, r, h.renderer, redirectLogin,
			fmt.Sprintf("Invalid username or password, %d attempts remaining", remaining))
		return true
	}

	return false
}

// Logout handles user logout.
// POST /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := h.sessionManager.GetInt64(r.Context(), middleware.SessionKeyUserID)

	if userID > 0 {
		_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelInfo, "User logged out",
			&userID, util.ClientIP(r), nil)
	}

	if err := h.sessionManager.Destroy(r.Context()); err != nil {
		slog.Error("session destroy error", "error", err)
	}

	slog.Info("user logged out", "user_id", userID)
	flashAndRedirect(w, r, h.renderer, RouteRoot, "You have been logged out", "info")
}

// RegisterFormData carries submitted registration values back into the
// template.
type RegisterFormData struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Errors    map[string]string
}

// RegisterForm renders the registration page.
// GET /register
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	if userID := h.sessionManager.GetInt64(r.Context(), middleware.SessionKeyUserID); userID > 0 {
		http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
		return
	}

	if err := h.renderer.Render(w, r, "auth/register", render.TemplateData{
		Title: "Sign up",
		Data:  RegisterFormData{},
	}); err != nil {
		logAndInternalError(w, "failed to render registration", "error", err)
	}
}

// Register handles the registration form submission. New users are
// logged in immediately.
// POST /register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectRegister) {
		return
	}

	form := RegisterFormData{
		Username:  strings.TrimSpace(r.FormValue("username")),
		Email:     strings.TrimSpace(strings.ToLower(r.FormValue("email"))),
		FirstName: strings.TrimSpace(r.FormValue("first_name")),
		LastName:  strings.TrimSpace(r.FormValue("last_name")),
		Errors:    make(map[string]string),
	}
	password := r.FormValue("password")

	if !usernameRe.MatchString(form.Username) {
		form.Errors["username"] = "Username must be 3-64 letters, digits, dots, dashes or underscores"
	}
	if !emailRe.MatchString(form.Email) {
		form.Errors["email"] = "Enter a valid email address"
	}
	if len(password) < 8 {
		form.Errors["password"] = "Password must be at least 8 characters"
	}

	if len(form.Errors) == 0 {
		if _, err := h.queries.GetUserByUsername(r.Context(), form.Username); err == nil {
			form.Errors["username"] = "Username is already taken"
		} else if !errors.Is(err, sql.ErrNoRows) {
			logAndInternalError(w, "failed to check username", "error", err)
			return
		}
		if _, err := h.queries.GetUserByEmail(r.Context(), form.Email); err == nil {
			form.Errors["email"] = "Email is already registered"
		} else if !errors.Is(err, sql.ErrNoRows) {
			logAndInternalError(w, "failed to check email", "error", err)
			return
		}
	}

	if len(form.Errors) > 0 {
		if err := h.renderer.Render(w, r, "auth/register", render.TemplateData{
			Title: "Sign up",
			Data:  form,
		}); err != nil {
			logAndInternalError(w, "failed to render registration", "error", err)
		}
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		logAndInternalError(w, "failed to hash password", "error", err)
		return
	}

	now := time.Now()
	user, err := h.queries.CreateUser(r.Context(), store.CreateUserParams{
		Username:     form.Username,
		Email:        form.Email,
		PasswordHash: hash,
		FirstName:    form.FirstName,
		LastName:     form.LastName,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		logAndInternalError(w, "failed to create user", "error", err, "username", form.Username)
		return
	}

	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		logAndInternalError(w, "session renewal error", "error", err)
		return
	}
	h.sessionManager.Put(r.Context(), middleware.SessionKeyUserID, user.ID)

	slog.Info("user registered", "user_id", user.ID, "username", user.Username)
	_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelInfo, "User registered",
		&user.ID, util.ClientIP(r), map[string]any{"username": user.Username})

	flashSuccess(w, r, h.renderer, profileURL(user.Username), "Welcome, "+user.FullName())
}

// formatDuration formats a duration into a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%d seconds", int(d.Seconds()))
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		if mins == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", mins)
	}
	hours := int(d.Hours())
	if hours == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", hours)
}
