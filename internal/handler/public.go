// Copyright (c) 2025-2026 Wavy Blog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler contains the HTTP handlers: public blog pages, the
// authenticated admin area, the JSON gateway and the thumbnail proxy.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wavyblog/wavy-go/internal/api"
	"github.com/wavyblog/wavy-go/internal/middleware"
	"github.com/wavyblog/wavy-go/internal/model"
	"github.com/wavyblog/wavy-go/internal/query"
	"github.com/wavyblog/wavy-go/internal/render"
	"github.com/wavyblog/wavy-go/internal/uikit"
)

// PublicHandler serves the unauthenticated blog pages.
type PublicHandler struct {
	query    *query.Service
	renderer *render.Renderer
}

// NewPublicHandler creates a new PublicHandler.
func NewPublicHandler(q *query.Service, renderer *render.Renderer) *PublicHandler {
	return &PublicHandler{query: q, renderer: renderer}
}

// HomeData holds data for the home feed template.
type HomeData struct {
	Posts      []model.Post
	Pagination uikit.FeedPagination
}

// Home handles GET / - the published post feed.
func (h *PublicHandler) Home(w http.ResponseWriter, r *http.Request) {
	pageIndex := uikit.ParsePageIndexParam(r)

	feed, err := h.query.ListPosts(r.Context(), "", api.ListPostsParams{
		Status:    model.PostStatusPublished,
		PageIndex: pageIndex,
	})
	if err != nil {
		renderReadError(w, r, h.renderer, err, "failed to load post feed")
		return
	}

	data := HomeData{
		Posts: feed.Items,
		Pagination: uikit.BuildFeedPagination(uikit.FeedPage{
			PageIndex:   feed.PageIndex,
			PageSize:    feed.PageSize,
			HasNextPage: feed.HasNextPage,
			Empty:       len(feed.Items) == 0,
		}, RouteRoot, r.URL.Query()),
	}

	if err := h.renderer.Render(w, r, "public/home", render.TemplateData{
		Title: "Wavy Blog",
		Data:  data,
		User:  middleware.GetUser(r),
	}); err != nil {
		logAndInternalError(w, "failed to render home", "error", err)
	}
}

// Post handles GET /blog/{slug} - a single published post.
func (h *PublicHandler) Post(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	post, err := h.query.GetPost(r.Context(), slug)
	if err != nil {
		if api.IsNotFound(err) {
			h.NotFound(w, r)
			return
		}
		renderReadError(w, r, h.renderer, err, "failed to load post", "slug", slug)
		return
	}

	// Drafts are reachable by slug but only the backend's list endpoint
	// filters them. Hide them here too.
	if !post.IsPublished() {
		h.NotFound(w, r)
		return
	}

	if err := h.renderer.Render(w, r, "public/post", render.TemplateData{
		Title: post.Title,
		Data:  post,
		User:  middleware.GetUser(r),
	}); err != nil {
		logAndInternalError(w, "failed to render post", "slug", slug, "error", err)
	}
}

// CategoryData holds data for the category feed template.
type CategoryData struct {
	Category model.Category
	Posts    []model.Post
}

// Category handles GET /category/{slug} - the published posts of one category.
func (h *PublicHandler) Category(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	cat, err := h.query.GetCategory(r.Context(), slug)
	if err != nil {
		if api.IsNotFound(err) {
			h.NotFound(w, r)
			return
		}
		renderReadError(w, r, h.renderer, err, "failed to load category", "slug", slug)
		return
	}

	posts, err := h.query.ListPostsByCategory(r.Context(), slug)
	if err != nil {
		renderReadError(w, r, h.renderer, err, "failed to load category posts", "slug", slug)
		return
	}

	if err := h.renderer.Render(w, r, "public/category", render.TemplateData{
		Title: cat.Name,
		Data:  CategoryData{Category: *cat, Posts: posts},
		User:  middleware.GetUser(r),
	}); err != nil {
		logAndInternalError(w, "failed to render category", "slug", slug, "error", err)
	}
}

// NotFound renders the public 404 page.
func (h *PublicHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotFound)
	if err := h.renderer.Render(w, r, "public/notfound", render.TemplateData{
		Title: "Page Not Found",
		User:  middleware.GetUser(r),
	}); err != nil {
		logAndInternalError(w, "failed to render not found page", "error", err)
	}
}
