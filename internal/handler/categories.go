// Copyright (c) 2025-2026 Wavy Blog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/wavyblog/wavy-go/internal/api"
	"github.com/wavyblog/wavy-go/internal/auth"
	"github.com/wavyblog/wavy-go/internal/model"
	"github.com/wavyblog/wavy-go/internal/query"
	"github.com/wavyblog/wavy-go/internal/render"
	"github.com/wavyblog/wavy-go/internal/uikit"
)

// CategoriesHandler handles category management routes. Admin only.
type CategoriesHandler struct {
	query    *query.Service
	renderer *render.Renderer
	authSvc  *auth.Service
}

// NewCategoriesHandler creates a new CategoriesHandler.
func NewCategoriesHandler(q *query.Service, renderer *render.Renderer, authSvc *auth.Service) *CategoriesHandler {
	return &CategoriesHandler{query: q, renderer: renderer, authSvc: authSvc}
}

// CategoriesListData holds data for the categories list template.
type CategoriesListData struct {
	Categories []model.Category
}

// List handles GET /admin/categories. The backend does not paginate
// categories, so neither do we.
func (h *CategoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	cats, err := h.query.ListCategories(r.Context())
	if err != nil {
		handleReadError(w, r, h.renderer, h.authSvc, err, "failed to list categories")
		return
	}

	data := CategoriesListData{Categories: cats}
	if err := h.renderer.Render(w, r, "admin/categories_list", adminData(r, "Categories", data,
		uikit.Breadcrumb{Label: "Categories", Active: true},
	)); err != nil {
		logAndInternalError(w, "failed to render categories list", "error", err)
	}
}

// CategoryFormData holds data for the category create/edit form template.
type CategoryFormData struct {
	Category *model.Category
	IsNew    bool
}

// New handles GET /admin/categories/new - displays the create form.
func (h *CategoriesHandler) New(w http.ResponseWriter, r *http.Request) {
	data := CategoryFormData{IsNew: true}
	if err := h.renderer.Render(w, r, "admin/categories_form", adminData(r, "New Category", data,
		uikit.Breadcrumb{Label: "Categories", URL: redirectAdminCategories},
		uikit.Breadcrumb{Label: "New", Active: true},
	)); err != nil {
		logAndInternalError(w, "failed to render category form", "error", err)
	}
}

// Create handles POST /admin/categories - creates a category.
func (h *CategoriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminCategoriesNew) {
		return
	}

	input, ok := h.categoryInputFromForm(w, r, redirectAdminCategoriesNew)
	if !ok {
		return
	}

	token := h.authSvc.Token(r.Context())
	if _, err := h.query.CreateCategory(r.Context(), token, input); err != nil {
		handleBackendError(w, r, h.renderer, h.authSvc, redirectAdminCategoriesNew, err)
		return
	}

	flashSuccess(w, r, h.renderer, redirectAdminCategories, "Category created")
}

// Edit handles GET /admin/categories/{slug} - displays the edit form.
func (h *CategoriesHandler) Edit(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	cat, err := h.query.GetCategory(r.Context(), slug)
	if err != nil {
		if api.IsNotFound(err) {
			flashError(w, r, h.renderer, redirectAdminCategories, "Category not found")
			return
		}
		handleReadError(w, r, h.renderer, h.authSvc, err, "failed to load category", "slug", slug)
		return
	}

	data := CategoryFormData{Category: cat}
	if err := h.renderer.Render(w, r, "admin/categories_form", adminData(r, "Edit Category", data,
		uikit.Breadcrumb{Label: "Categories", URL: redirectAdminCategories},
		uikit.Breadcrumb{Label: cat.Name, Active: true},
	)); err != nil {
		logAndInternalError(w, "failed to render category form", "error", err)
	}
}

// Update handles POST /admin/categories/{slug} - updates a category.
func (h *CategoriesHandler) Update(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	editURL := fmt.Sprintf(redirectAdminCategoriesEdit, slug)

	if !parseFormOrRedirect(w, r, h.renderer, editURL) {
		return
	}

	input, ok := h.categoryInputFromForm(w, r, editURL)
	if !ok {
		return
	}

	token := h.authSvc.Token(r.Context())
	if _, err := h.query.UpdateCategory(r.Context(), token, slug, input); err != nil {
		handleBackendError(w, r, h.renderer, h.authSvc, editURL, err)
		return
	}

	flashSuccess(w, r, h.renderer, redirectAdminCategories, "Category updated")
}

// Delete handles POST /admin/categories/{slug}/delete.
func (h *CategoriesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	token := h.authSvc.Token(r.Context())
	if err := h.query.DeleteCategory(r.Context(), token, slug); err != nil {
		handleBackendError(w, r, h.renderer, h.authSvc, redirectAdminCategories, err)
		return
	}

	flashSuccess(w, r, h.renderer, redirectAdminCategories, "Category deleted")
}

// BulkDelete handles POST /admin/categories/delete - deletes the selected
// categories, stopping at the first failure.
func (h *CategoriesHandler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminCategories) {
		return
	}

	slugs := r.Form["selected"]
	if len(slugs) == 0 {
		flashError(w, r, h.renderer, redirectAdminCategories, "No categories selected")
		return
	}

	token := h.authSvc.Token(r.Context())
	if err := h.query.DeleteCategories(r.Context(), token, slugs); err != nil {
		handleBackendError(w, r, h.renderer, h.authSvc, redirectAdminCategories, err)
		return
	}

	flashSuccess(w, r, h.renderer, redirectAdminCategories, fmt.Sprintf("Deleted %d categories", len(slugs)))
}

// categoryInputFromForm validates the category form.
func (h *CategoriesHandler) categoryInputFromForm(w http.ResponseWriter, r *http.Request, redirectURL string) (model.CategoryInput, bool) {
	input := model.CategoryInput{
		Name:        strings.TrimSpace(r.FormValue("name")),
		Description: strings.TrimSpace(r.FormValue("description")),
	}

	if input.Name == "" {
		flashError(w, r, h.renderer, redirectURL, "Category name is required")
		return model.CategoryInput{}, false
	}

	return input, true
}
