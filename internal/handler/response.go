// Copyright (c) 2025-2026 Wavy Blog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/wavyblog/wavy-go/internal/api"
	"github.com/wavyblog/wavy-go/internal/auth"
	"github.com/wavyblog/wavy-go/internal/middleware"
	"github.com/wavyblog/wavy-go/internal/render"
)

// flashAndRedirect sets a flash message and redirects to the given URL.
// Uses http.StatusSeeOther (303) for POST/PUT/DELETE redirects.
func flashAndRedirect(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message, messageType string) {
	renderer.SetFlash(r, message, messageType)
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// flashError sets an error flash message and redirects to the given URL.
func flashError(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message string) {
	flashAndRedirect(w, r, renderer, url, message, "error")
}

// flashSuccess sets a success flash message and redirects to the given URL.
func flashSuccess(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message string) {
	flashAndRedirect(w, r, renderer, url, message, "success")
}

// parseFormOrRedirect parses the request form and redirects with an error message on failure.
// Returns true if parsing succeeded, false if it failed (and redirect was performed).
func parseFormOrRedirect(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, redirectURL string) bool {
	if err := r.ParseForm(); err != nil {
		flashError(w, r, renderer, redirectURL, "Invalid form data")
		return false
	}
	return true
}

// logAndHTTPError logs an error and writes an HTTP error response.
func logAndHTTPError(w http.ResponseWriter, message string, statusCode int, logMsg string, args ...any) {
	slog.Error(logMsg, args...)
	http.Error(w, message, statusCode)
}

// logAndInternalError logs an error and writes a 500 Internal Server Error response.
func logAndInternalError(w http.ResponseWriter, logMsg string, args ...any) {
	logAndHTTPError(w, "Internal Server Error", http.StatusInternalServerError, logMsg, args...)
}

// backendMessage turns a backend failure into a user-facing toast message.
// The backend's message and details travel verbatim; anything else gets the
// generic fallback so internals never leak into the page.
func backendMessage(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		if apiErr.Details != "" {
			return apiErr.Message + ": " + apiErr.Details
		}
		return apiErr.Message
	}
	return "Unknown error occurred"
}

// handleBackendError deals with a failed backend call on an HTML route.
// A 401 means the access token is dead: the session is torn down and the
// user lands on the public home page. Everything else becomes an error
// flash on the given redirect target.
func handleBackendError(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, authSvc *auth.Service, redirectURL string, err error) {
	if api.IsUnauthorized(err) {
		authSvc.TearDown(w, r)
		http.Redirect(w, r, redirectHome, http.StatusSeeOther)
		return
	}
	flashError(w, r, renderer, redirectURL, backendMessage(err))
}

// renderReadError surfaces a failed backend read as an error panel carrying
// the backend's own message. By the time the error reaches a handler the
// retry budget is already spent.
func renderReadError(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, err error, logMsg string, args ...any) {
	slog.Error(logMsg, append(args, "error", err)...)
	w.WriteHeader(http.StatusInternalServerError)
	if rerr := renderer.Render(w, r, "public/error", render.TemplateData{
		Title: "Something went wrong",
		Data:  backendMessage(err),
		User:  middleware.GetUser(r),
	}); rerr != nil {
		slog.Error("failed to render error page", "error", rerr)
	}
}

// handleReadError deals with a failed backend read on a page that cannot
// redirect to itself. 401 tears the session down; anything else renders the
// error panel.
func handleReadError(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, authSvc *auth.Service, err error, logMsg string, args ...any) {
	if api.IsUnauthorized(err) {
		authSvc.TearDown(w, r)
		http.Redirect(w, r, redirectHome, http.StatusSeeOther)
		return
	}
	renderReadError(w, r, renderer, err, logMsg, args...)
}
