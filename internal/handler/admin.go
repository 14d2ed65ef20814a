// Copyright (c) 2025-2026 Wavy Blog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/wavyblog/wavy-go/internal/api"
	"github.com/wavyblog/wavy-go/internal/auth"
	"github.com/wavyblog/wavy-go/internal/middleware"
	"github.com/wavyblog/wavy-go/internal/model"
	"github.com/wavyblog/wavy-go/internal/query"
	"github.com/wavyblog/wavy-go/internal/render"
	"github.com/wavyblog/wavy-go/internal/store"
	"github.com/wavyblog/wavy-go/internal/uikit"
)

// dashboardRecentEvents is how many event log entries the dashboard shows.
const dashboardRecentEvents = 10

// adminData assembles the template data shared by every admin page: the
// signed-in user and the role-filtered navigation with the active section
// marked.
func adminData(r *http.Request, title string, data any, crumbs ...uikit.Breadcrumb) render.TemplateData {
	user := middleware.GetUser(r)
	role := ""
	if user != nil {
		role = user.Role
	}
	return render.TemplateData{
		Title:       title,
		Data:        data,
		User:        user,
		Nav:         uikit.BuildNav(role, r.URL.Path),
		Breadcrumbs: crumbs,
	}
}

// AdminHandler handles the admin dashboard.
type AdminHandler struct {
	query    *query.Service
	renderer *render.Renderer
	authSvc  *auth.Service
	events   *store.Store
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(q *query.Service, renderer *render.Renderer, authSvc *auth.Service, events *store.Store) *AdminHandler {
	return &AdminHandler{query: q, renderer: renderer, authSvc: authSvc, events: events}
}

// DashboardData holds data for the dashboard template.
type DashboardData struct {
	RecentPosts   []model.Post
	DraftCount    int
	CategoryCount int
	UserCount     int // -1 when the viewer may not list users
	RecentEvents  []model.Event
}

// Dashboard handles GET /admin - overview counts and recent activity.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	token := h.authSvc.Token(r.Context())
	user := middleware.GetUser(r)

	data := DashboardData{UserCount: -1}

	feed, err := h.query.ListPosts(r.Context(), token, api.ListPostsParams{})
	if err != nil {
		handleReadError(w, r, h.renderer, h.authSvc, err, "failed to load recent posts")
		return
	}
	data.RecentPosts = feed.Items
	for _, p := range feed.Items {
		if !p.IsPublished() {
			data.DraftCount++
		}
	}

	cats, err := h.query.ListCategories(r.Context())
	if err != nil {
		renderReadError(w, r, h.renderer, err, "failed to load categories")
		return
	}
	data.CategoryCount = len(cats)

	// Only admins may list users; the backend would answer 403 anyway.
	if user != nil && user.IsAdmin() {
		users, err := h.query.ListUsers(r.Context(), token, api.ListUsersParams{PageSize: 1})
		if err != nil {
			handleReadError(w, r, h.renderer, h.authSvc, err, "failed to count users")
			return
		}
		data.UserCount = users.Total
	}

	if h.events != nil {
		events, err := h.events.ListEvents(r.Context(), store.ListEventsParams{
			Limit: dashboardRecentEvents,
		})
		if err == nil {
			data.RecentEvents = events
		}
	}

	if err := h.renderer.Render(w, r, "admin/dashboard", adminData(r, "Dashboard", data)); err != nil {
		logAndInternalError(w, "failed to render dashboard", "error", err)
	}
}
