// Copyright (c) 2025-2026 Wavy Blog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/wavyblog/wavy-go/internal/api"
	"github.com/wavyblog/wavy-go/internal/auth"
	"github.com/wavyblog/wavy-go/internal/logging"
	"github.com/wavyblog/wavy-go/internal/middleware"
	"github.com/wavyblog/wavy-go/internal/model"
	"github.com/wavyblog/wavy-go/internal/render"
	"github.com/wavyblog/wavy-go/internal/store"
)

// AuthHandler handles login and logout.
type AuthHandler struct {
	authSvc    *auth.Service
	renderer   *render.Renderer
	protection *middleware.LoginProtection
	events     *store.Store
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authSvc *auth.Service, renderer *render.Renderer, protection *middleware.LoginProtection, events *store.Store) *AuthHandler {
	return &AuthHandler{
		authSvc:    authSvc,
		renderer:   renderer,
		protection: protection,
		events:     events,
	}
}

// LoginForm handles GET /login - displays the login form. A live session
// skips straight to the admin area.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if middleware.GetUser(r) != nil {
		http.Redirect(w, r, redirectAdmin, http.StatusSeeOther)
		return
	}

	if err := h.renderer.Render(w, r, "auth/login", render.TemplateData{
		Title: "Sign In",
	}); err != nil {
		logAndInternalError(w, "failed to render login form", "error", err)
	}
}

// Login handles POST /login - exchanges credentials for a session.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectLogin) {
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	if _, err := mail.ParseAddress(email); err != nil || password == "" {
		flashError(w, r, h.renderer, redirectLogin, "Enter a valid email address and password")
		return
	}

	if locked, remaining := h.protection.IsAccountLocked(email); locked {
		flashError(w, r, h.renderer, redirectLogin,
			fmt.Sprintf("Account temporarily locked. Try again in %s", remaining.Round(time.Second)))
		return
	}

	user, err := h.authSvc.Login(w, r, api.Credentials{Email: email, Password: password})
	if err != nil {
		h.protection.RecordFailedAttempt(email)
		h.recordAuthEvent(r, model.EventLevelWarning, "login failed", "")
		if api.IsUnauthorized(err) {
			flashError(w, r, h.renderer, redirectLogin, "Invalid email or password")
			return
		}
		flashError(w, r, h.renderer, redirectLogin, backendMessage(err))
		return
	}

	h.protection.RecordSuccessfulLogin(email)
	h.recordAuthEvent(r, model.EventLevelInfo, "login", user.ID)

	if user.CanAccessAdmin() {
		http.Redirect(w, r, redirectAdmin, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, redirectHome, http.StatusSeeOther)
}

// Logout handles POST /logout - clears the session and expires the
// refresh cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := ""
	if user := middleware.GetUser(r); user != nil {
		userID = user.ID
	}

	if err := h.authSvc.Logout(w, r); err != nil {
		slog.Error("logout failed", "error", err)
	}
	h.recordAuthEvent(r, model.EventLevelInfo, "logout", userID)

	http.Redirect(w, r, redirectHome, http.StatusSeeOther)
}

// recordAuthEvent writes an auth event with client metadata to the event log.
func (h *AuthHandler) recordAuthEvent(r *http.Request, level, message, userID string) {
	if h.events == nil {
		return
	}

	ua := logging.ParseUserAgent(r.UserAgent())
	metadata, _ := json.Marshal(map[string]string{
		"ip":      middleware.GetClientIP(r),
		"browser": ua.Browser,
		"os":      ua.OS,
		"device":  ua.DeviceType,
	})

	// Event logging is best effort, a failed insert must not break auth.
	ctx := context.WithoutCancel(r.Context())
	if _, err := h.events.CreateEvent(ctx, store.CreateEventParams{
		Level:    level,
		Category: model.EventCategoryAuth,
		Message:  message,
		UserID:   sql.NullString{String: userID, Valid: userID != ""},
		Metadata: string(metadata),
	}); err != nil {
		slog.Error("failed to record auth event", "error", err)
	}
}
