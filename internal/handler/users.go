// Copyright (c) 2025-2026 Wavy Blog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/wavyblog/wavy-go/internal/api"
	"github.com/wavyblog/wavy-go/internal/auth"
	"github.com/wavyblog/wavy-go/internal/middleware"
	"github.com/wavyblog/wavy-go/internal/model"
	"github.com/wavyblog/wavy-go/internal/query"
	"github.com/wavyblog/wavy-go/internal/render"
	"github.com/wavyblog/wavy-go/internal/uikit"
)

// ValidRoles contains the roles a user can be assigned.
var ValidRoles = []string{model.RoleAdmin, model.RoleAuthor}

// UsersHandler handles user management routes. Admin only.
type UsersHandler struct {
	query    *query.Service
	renderer *render.Renderer
	authSvc  *auth.Service
}

// NewUsersHandler creates a new UsersHandler.
func NewUsersHandler(q *query.Service, renderer *render.Renderer, authSvc *auth.Service) *UsersHandler {
	return &UsersHandler{query: q, renderer: renderer, authSvc: authSvc}
}

// UsersListData holds data for the users list template.
type UsersListData struct {
	Users         []model.User
	CurrentUserID string
	Username      string
	Role          string
	Total         int
	Pagination    uikit.Pagination
}

// List handles GET /admin/users - paginated, filterable user list.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	token := h.authSvc.Token(r.Context())
	params := api.ListUsersParams{
		Username:  strings.TrimSpace(r.URL.Query().Get("username")),
		Role:      r.URL.Query().Get("role"),
		PageIndex: uikit.ParsePageIndexParam(r),
		PageSize:  uikit.ParsePageSizeParam(r, model.DefaultPageSize, maxPageSize),
	}

	page, err := h.query.ListUsers(r.Context(), token, params)
	if err != nil {
		handleReadError(w, r, h.renderer, h.authSvc, err, "failed to list users")
		return
	}

	data := UsersListData{
		Users:         page.Items,
		CurrentUserID: middleware.GetUserID(r),
		Username:      params.Username,
		Role:          params.Role,
		Total:         page.Total,
		Pagination: uikit.BuildPagination(page.PageIndex, page.Total, page.PageSize,
			redirectAdminUsers, r.URL.Query()),
	}

	if err := h.renderer.Render(w, r, "admin/users_list", adminData(r, "Users", data,
		uikit.Breadcrumb{Label: "Users", Active: true},
	)); err != nil {
		logAndInternalError(w, "failed to render users list", "error", err)
	}
}

// UserFormData holds data for the user edit form template.
type UserFormData struct {
	User  *model.User
	Roles []string
}

// Edit handles GET /admin/users/{username} - displays the role edit form.
func (h *UsersHandler) Edit(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	token := h.authSvc.Token(r.Context())
	user, err := h.query.GetUser(r.Context(), token, username)
	if err != nil {
		if api.IsNotFound(err) {
			flashError(w, r, h.renderer, redirectAdminUsers, "User not found")
			return
		}
		handleReadError(w, r, h.renderer, h.authSvc, err, "failed to load user", "username", username)
		return
	}

	data := UserFormData{User: user, Roles: ValidRoles}
	if err := h.renderer.Render(w, r, "admin/users_form", adminData(r, "Edit User", data,
		uikit.Breadcrumb{Label: "Users", URL: redirectAdminUsers},
		uikit.Breadcrumb{Label: user.Username, Active: true},
	)); err != nil {
		logAndInternalError(w, "failed to render user form", "error", err)
	}
}

// Update handles POST /admin/users/{username} - changes a user's role.
func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	editURL := fmt.Sprintf(redirectAdminUsersEdit, username)

	if !parseFormOrRedirect(w, r, h.renderer, editURL) {
		return
	}

	role := r.FormValue("role")
	if !slices.Contains(ValidRoles, role) {
		flashError(w, r, h.renderer, editURL, "Invalid role")
		return
	}

	// An admin stripping their own role would lock themselves out of the
	// page they are standing on.
	if current := middleware.GetUser(r); current != nil &&
		current.Username == username && role != model.RoleAdmin {
		flashError(w, r, h.renderer, editURL, "You cannot change your own role")
		return
	}

	token := h.authSvc.Token(r.Context())
	if err := h.query.UpdateUser(r.Context(), token, username, api.UserInput{Role: role}); err != nil {
		handleBackendError(w, r, h.renderer, h.authSvc, editURL, err)
		return
	}

	flashSuccess(w, r, h.renderer, redirectAdminUsers, "User updated")
}

// Delete handles POST /admin/users/{username}/delete.
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	if current := middleware.GetUser(r); current != nil && current.Username == username {
		flashError(w, r, h.renderer, redirectAdminUsers, "You cannot delete your own account")
		return
	}

	token := h.authSvc.Token(r.Context())
	if err := h.query.DeleteUser(r.Context(), token, username); err != nil {
		handleBackendError(w, r, h.renderer, h.authSvc, redirectAdminUsers, err)
		return
	}

	flashSuccess(w, r, h.renderer, redirectAdminUsers, "User deleted")
}
