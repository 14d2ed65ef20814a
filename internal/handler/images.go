// Copyright (c) 2025-2026 Wavy Blog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"strings"

	"github.com/wavyblog/wavy-go/internal/auth"
	"github.com/wavyblog/wavy-go/internal/model"
	"github.com/wavyblog/wavy-go/internal/query"
	"github.com/wavyblog/wavy-go/internal/render"
	"github.com/wavyblog/wavy-go/internal/uikit"
)

// ImagesHandler handles the media library routes.
type ImagesHandler struct {
	query    *query.Service
	renderer *render.Renderer
	authSvc  *auth.Service
}

// NewImagesHandler creates a new ImagesHandler.
func NewImagesHandler(q *query.Service, renderer *render.Renderer, authSvc *auth.Service) *ImagesHandler {
	return &ImagesHandler{query: q, renderer: renderer, authSvc: authSvc}
}

// ImagesListData holds data for the images list template.
type ImagesListData struct {
	Images     []model.Image
	Total      int
	Pagination uikit.Pagination
}

// List handles GET /admin/images - paginated media library.
func (h *ImagesHandler) List(w http.ResponseWriter, r *http.Request) {
	token := h.authSvc.Token(r.Context())
	pageIndex := uikit.ParsePageIndexParam(r)
	pageSize := uikit.ParsePageSizeParam(r, model.DefaultPageSize, maxPageSize)

	page, err := h.query.ListImages(r.Context(), token, pageIndex, pageSize)
	if err != nil {
		handleReadError(w, r, h.renderer, h.authSvc, err, "failed to list images")
		return
	}

	data := ImagesListData{
		Images: page.Items,
		Total:  page.Total,
		Pagination: uikit.BuildPagination(page.PageIndex, page.Total, page.PageSize,
			redirectAdminImages, r.URL.Query()),
	}

	if err := h.renderer.Render(w, r, "admin/images_list", adminData(r, "Images", data,
		uikit.Breadcrumb{Label: "Images", Active: true},
	)); err != nil {
		logAndInternalError(w, "failed to render images list", "error", err)
	}
}

// Upload handles POST /admin/images/upload - streams the multipart body
// through to the backend. The backend owns storage; this side only enforces
// the size cap and the multipart content type.
func (h *ImagesHandler) Upload(w http.ResponseWriter, r *http.Request) {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "multipart/form-data") {
		flashError(w, r, h.renderer, redirectAdminImages, "Upload must be multipart/form-data")
		return
	}
	if r.ContentLength > model.MaxUploadSize {
		flashError(w, r, h.renderer, redirectAdminImages, "Image exceeds the 10 MB upload limit")
		return
	}

	body := http.MaxBytesReader(w, r.Body, model.MaxUploadSize)
	token := h.authSvc.Token(r.Context())
	if _, err := h.query.UploadImage(r.Context(), token, body, contentType); err != nil {
		handleBackendError(w, r, h.renderer, h.authSvc, redirectAdminImages, err)
		return
	}

	flashSuccess(w, r, h.renderer, redirectAdminImages, "Image uploaded")
}

// Delete handles POST /admin/images/delete - deletes an image by its
// storage path.
func (h *ImagesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminImages) {
		return
	}

	imagePath := r.FormValue("path")
	if imagePath == "" {
		flashError(w, r, h.renderer, redirectAdminImages, "No image selected")
		return
	}

	token := h.authSvc.Token(r.Context())
	if err := h.query.DeleteImage(r.Context(), token, imagePath); err != nil {
		handleBackendError(w, r, h.renderer, h.authSvc, redirectAdminImages, err)
		return
	}

	flashSuccess(w, r, h.renderer, redirectAdminImages, "Image deleted")
}
