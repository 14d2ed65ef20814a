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

// PostsHandler handles post management routes.
type PostsHandler struct {
	query    *query.Service
	renderer *render.Renderer
	authSvc  *auth.Service
}

// NewPostsHandler creates a new PostsHandler.
func NewPostsHandler(q *query.Service, renderer *render.Renderer, authSvc *auth.Service) *PostsHandler {
	return &PostsHandler{query: q, renderer: renderer, authSvc: authSvc}
}

// PostsListData holds data for the posts list template.
type PostsListData struct {
	Posts      []model.Post
	Status     string
	Category   string
	Categories []model.Category
	Pagination uikit.FeedPagination
}

// List handles GET /admin/posts - paginated, filterable post list.
func (h *PostsHandler) List(w http.ResponseWriter, r *http.Request) {
	token := h.authSvc.Token(r.Context())
	params := api.ListPostsParams{
		Status:    r.URL.Query().Get("status"),
		Category:  r.URL.Query().Get("category"),
		PageIndex: uikit.ParsePageIndexParam(r),
		PageSize:  uikit.ParsePageSizeParam(r, model.FeedPageSize, maxPageSize),
	}

	feed, err := h.query.ListPosts(r.Context(), token, params)
	if err != nil {
		handleReadError(w, r, h.renderer, h.authSvc, err, "failed to list posts")
		return
	}

	// The category filter dropdown needs the full category list.
	cats, err := h.query.ListCategories(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to load categories", "error", err)
		return
	}

	data := PostsListData{
		Posts:      feed.Items,
		Status:     params.Status,
		Category:   params.Category,
		Categories: cats,
		Pagination: uikit.BuildFeedPagination(uikit.FeedPage{
			PageIndex:   feed.PageIndex,
			PageSize:    feed.PageSize,
			HasNextPage: feed.HasNextPage,
			Empty:       len(feed.Items) == 0,
		}, redirectAdminPosts, r.URL.Query()),
	}

	if err := h.renderer.Render(w, r, "admin/posts_list", adminData(r, "Posts", data,
		uikit.Breadcrumb{Label: "Posts", Active: true},
	)); err != nil {
		logAndInternalError(w, "failed to render posts list", "error", err)
	}
}

// PostFormData holds data for the post create/edit form template.
type PostFormData struct {
	Post       *model.Post
	Categories []model.Category
	IsNew      bool
}

// New handles GET /admin/posts/new - displays the create form.
func (h *PostsHandler) New(w http.ResponseWriter, r *http.Request) {
	cats, err := h.query.ListCategories(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to load categories", "error", err)
		return
	}

	data := PostFormData{Categories: cats, IsNew: true}
	if err := h.renderer.Render(w, r, "admin/posts_form", adminData(r, "New Post", data,
		uikit.Breadcrumb{Label: "Posts", URL: redirectAdminPosts},
		uikit.Breadcrumb{Label: "New", Active: true},
	)); err != nil {
		logAndInternalError(w, "failed to render post form", "error", err)
	}
}

// Create handles POST /admin/posts - creates a post.
func (h *PostsHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminPostsNew) {
		return
	}

	input, ok := h.postInputFromForm(w, r, redirectAdminPostsNew)
	if !ok {
		return
	}

	token := h.authSvc.Token(r.Context())
	post, err := h.query.CreatePost(r.Context(), token, input)
	if err != nil {
		handleBackendError(w, r, h.renderer, h.authSvc, redirectAdminPostsNew, err)
		return
	}

	flashSuccess(w, r, h.renderer, fmt.Sprintf(redirectAdminPostsEdit, post.Slug), "Post created")
}

// Edit handles GET /admin/posts/{slug} - displays the edit form.
func (h *PostsHandler) Edit(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	post, err := h.query.GetPost(r.Context(), slug)
	if err != nil {
		if api.IsNotFound(err) {
			flashError(w, r, h.renderer, redirectAdminPosts, "Post not found")
			return
		}
		handleReadError(w, r, h.renderer, h.authSvc, err, "failed to load post", "slug", slug)
		return
	}

	cats, err := h.query.ListCategories(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to load categories", "error", err)
		return
	}

	data := PostFormData{Post: post, Categories: cats}
	if err := h.renderer.Render(w, r, "admin/posts_form", adminData(r, "Edit Post", data,
		uikit.Breadcrumb{Label: "Posts", URL: redirectAdminPosts},
		uikit.Breadcrumb{Label: post.Title, Active: true},
	)); err != nil {
		logAndInternalError(w, "failed to render post form", "error", err)
	}
}

// Update handles POST /admin/posts/{slug} - updates a post. The backend may
// reissue the slug when the title changed; the redirect follows the slug it
// returns, not the one addressed.
func (h *PostsHandler) Update(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	editURL := fmt.Sprintf(redirectAdminPostsEdit, slug)

	if !parseFormOrRedirect(w, r, h.renderer, editURL) {
		return
	}

	input, ok := h.postInputFromForm(w, r, editURL)
	if !ok {
		return
	}

	token := h.authSvc.Token(r.Context())
	post, err := h.query.UpdatePost(r.Context(), token, slug, input)
	if err != nil {
		handleBackendError(w, r, h.renderer, h.authSvc, editURL, err)
		return
	}

	flashSuccess(w, r, h.renderer, fmt.Sprintf(redirectAdminPostsEdit, post.Slug), "Post updated")
}

// Delete handles POST /admin/posts/{slug}/delete - deletes a single post.
func (h *PostsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	token := h.authSvc.Token(r.Context())
	if err := h.query.DeletePost(r.Context(), token, slug); err != nil {
		handleBackendError(w, r, h.renderer, h.authSvc, redirectAdminPosts, err)
		return
	}

	flashSuccess(w, r, h.renderer, redirectAdminPosts, "Post deleted")
}

// BulkDelete handles POST /admin/posts/delete - deletes the selected posts.
// Deletion stops at the first failure; posts deleted before it stay deleted.
func (h *PostsHandler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminPosts) {
		return
	}

	slugs := r.Form["selected"]
	if len(slugs) == 0 {
		flashError(w, r, h.renderer, redirectAdminPosts, "No posts selected")
		return
	}

	token := h.authSvc.Token(r.Context())
	if err := h.query.DeletePosts(r.Context(), token, slugs); err != nil {
		handleBackendError(w, r, h.renderer, h.authSvc, redirectAdminPosts, err)
		return
	}

	flashSuccess(w, r, h.renderer, redirectAdminPosts, fmt.Sprintf("Deleted %d posts", len(slugs)))
}

// postInputFromForm validates the post form. On failure it flashes and
// redirects, returning ok=false.
func (h *PostsHandler) postInputFromForm(w http.ResponseWriter, r *http.Request, redirectURL string) (model.PostInput, bool) {
	input := model.PostInput{
		Title:        strings.TrimSpace(r.FormValue("title")),
		Content:      r.FormValue("content"),
		Category:     r.FormValue("category"),
		ThumbnailURL: strings.TrimSpace(r.FormValue("thumbnail_url")),
		Status:       r.FormValue("status"),
	}

	if input.Title == "" || input.Content == "" || input.Category == "" {
		flashError(w, r, h.renderer, redirectURL, "Title, content and category are required")
		return model.PostInput{}, false
	}
	if input.Status != model.PostStatusPublished && input.Status != model.PostStatusDraft {
		flashError(w, r, h.renderer, redirectURL, "Invalid post status")
		return model.PostInput{}, false
	}

	return input, true
}
