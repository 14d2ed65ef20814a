// Copyright (c) 2025-2026 Wavy Blog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wavyblog/wavy-go/internal/model"
)

// usersBackend serves the user admin endpoints and records mutations.
func usersBackend(t *testing.T, updated, deleted *[]string) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /users", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"users":     []model.User{adminUser(), authorUser()},
			"pageIndex": 1,
			"pageSize":  model.DefaultPageSize,
			"total":     2,
		})
	})
	mux.HandleFunc("GET /users/{username}", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(authorUser())
	})
	mux.HandleFunc("PUT /users/{username}", func(w http.ResponseWriter, r *http.Request) {
		if updated != nil {
			*updated = append(*updated, r.PathValue("username"))
		}
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("DELETE /users/{username}", func(w http.ResponseWriter, r *http.Request) {
		if deleted != nil {
			*deleted = append(*deleted, r.PathValue("username"))
		}
		w.WriteHeader(http.StatusNoContent)
	})
	return httptest.NewServer(mux)
}

func newUsersRouter(t *testing.T, backendURL string) (chi.Router, *scs.SessionManager) {
	t.Helper()
	authSvc, sm, _ := newTestAuth(backendURL)
	h := NewUsersHandler(newTestQuery(backendURL), newTestRenderer(t, sm), authSvc)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, withUser(req, adminUser()))
		})
	})
	r.Get(RouteUsers, h.List)
	r.Get(RouteUsersUsername, h.Edit)
	r.Post(RouteUsersUsername, h.Update)
	r.Post(RouteUsersUsername+RouteSuffixDelete, h.Delete)
	return r, sm
}

func TestUsersList(t *testing.T) {
	srv := usersBackend(t, nil, nil)
	defer srv.Close()
	router, sm := newUsersRouter(t, srv.URL)

	w := serve(sm, router, httptest.NewRequest("GET", "/users", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "alice")
	assert.Contains(t, body, "bob")
}

func TestUsersUpdate(t *testing.T) {
	t.Run("changes another user's role", func(t *testing.T) {
		var updated []string
		srv := usersBackend(t, &updated, nil)
		defer srv.Close()
		router, sm := newUsersRouter(t, srv.URL)

		w := serve(sm, router, postForm("/users/bob", map[string]string{"role": model.RoleAdmin}))
		require.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/admin/users", w.Header().Get("Location"))
		assert.Equal(t, []string{"bob"}, updated)
	})

	t.Run("rejects an unknown role", func(t *testing.T) {
		var updated []string
		srv := usersBackend(t, &updated, nil)
		defer srv.Close()
		router, sm := newUsersRouter(t, srv.URL)

		w := serve(sm, router, postForm("/users/bob", map[string]string{"role": "superuser"}))
		require.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/admin/users/bob", w.Header().Get("Location"))
		assert.Empty(t, updated)
	})

	t.Run("blocks self-demotion", func(t *testing.T) {
		var updated []string
		srv := usersBackend(t, &updated, nil)
		defer srv.Close()
		router, sm := newUsersRouter(t, srv.URL)

		w := serve(sm, router, postForm("/users/alice", map[string]string{"role": model.RoleAuthor}))
		require.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/admin/users/alice", w.Header().Get("Location"))
		assert.Empty(t, updated, "the backend must not be called")
	})
}

func TestUsersDelete(t *testing.T) {
	t.Run("deletes another user", func(t *testing.T) {
		var deleted []string
		srv := usersBackend(t, nil, &deleted)
		defer srv.Close()
		router, sm := newUsersRouter(t, srv.URL)

		w := serve(sm, router, postForm("/users/bob/delete", nil))
		require.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, []string{"bob"}, deleted)
	})

	t.Run("blocks self-deletion", func(t *testing.T) {
		var deleted []string
		srv := usersBackend(t, nil, &deleted)
		defer srv.Close()
		router, sm := newUsersRouter(t, srv.URL)

		w := serve(sm, router, postForm("/users/alice/delete", nil))
		require.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/admin/users", w.Header().Get("Location"))
		assert.Empty(t, deleted, "the backend must not be called")
	})
}
