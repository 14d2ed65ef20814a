// Copyright (c) 2025-2026 Wavy Blog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/stretchr/testify/require"

	"github.com/wavyblog/wavy-go/internal/api"
	"github.com/wavyblog/wavy-go/internal/auth"
	"github.com/wavyblog/wavy-go/internal/cache"
	"github.com/wavyblog/wavy-go/internal/config"
	"github.com/wavyblog/wavy-go/internal/middleware"
	"github.com/wavyblog/wavy-go/internal/model"
	"github.com/wavyblog/wavy-go/internal/query"
	"github.com/wavyblog/wavy-go/internal/render"
	"github.com/wavyblog/wavy-go/internal/session"
	"github.com/wavyblog/wavy-go/web"
)

// newTestRenderer parses the real embedded templates. Handlers that only
// redirect never touch them, but page tests render the genuine article.
func newTestRenderer(t *testing.T, sm *scs.SessionManager) *render.Renderer {
	t.Helper()

	templatesFS, err := fs.Sub(web.Templates, "templates")
	require.NoError(t, err)

	r, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sm,
		IsDev:          true,
	})
	require.NoError(t, err)
	return r
}

// newTestQuery wires a query service against the given backend URL with a
// fresh in-memory cache.
func newTestQuery(backendURL string) *query.Service {
	return query.New(api.New(backendURL),
		cache.NewManager(cache.NewSimpleMemoryCache(time.Minute), time.Minute))
}

// newTestAuth builds an auth service plus the session plumbing it needs.
func newTestAuth(backendURL string) (*auth.Service, *scs.SessionManager, *session.Store) {
	sm := scs.New()
	sessions := session.NewStore(sm)
	cfg := config.Config{
		Env:                 "development",
		RefreshCookieName:   "refresh_token",
		RefreshCookieMaxAge: 1209600,
	}
	return auth.NewService(api.New(backendURL), sessions, cfg), sm, sessions
}

// serve runs req through the session middleware and the handler.
func serve(sm *scs.SessionManager, h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	sm.LoadAndSave(h).ServeHTTP(w, req)
	return w
}

// withUser injects a session user into the request context the way
// middleware.LoadUser would.
func withUser(req *http.Request, user model.User) *http.Request {
	ctx := context.WithValue(req.Context(), middleware.ContextKeyUser, user)
	return req.WithContext(ctx)
}

func adminUser() model.User {
	return model.User{ID: "u1", Username: "alice", Email: "alice@example.com", Role: model.RoleAdmin}
}

func authorUser() model.User {
	return model.User{ID: "u2", Username: "bob", Email: "bob@example.com", Role: model.RoleAuthor}
}
