// Copyright (c) 2025-2026 Wavy Blog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alexedwards/scs/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wavyblog/wavy-go/internal/model"
	"github.com/wavyblog/wavy-go/internal/session"
)

func requestWithUser(t *testing.T, role string) *http.Request {
	t.Helper()
	r := httptest.NewRequest("GET", "/admin/posts", nil)
	if role == "" {
		return r
	}
	user := model.User{ID: "u1", Username: "alice", Role: role}
	ctx := context.WithValue(r.Context(), ContextKeyUser, user)
	return r.WithContext(ctx)
}

func TestRequireRole(t *testing.T) {
	nextCalled := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		role       string
		allowed    []string
		wantStatus int
		wantNext   bool
	}{
		{"admin allowed", "admin", []string{"admin", "author"}, http.StatusOK, true},
		{"author allowed", "author", []string{"admin", "author"}, http.StatusOK, true},
		{"author blocked from admin-only", "author", []string{"admin"}, http.StatusSeeOther, false},
		{"unknown role blocked", "reader", []string{"admin", "author"}, http.StatusSeeOther, false},
		{"no user blocked", "", []string{"admin", "author"}, http.StatusSeeOther, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled = false
			w := httptest.NewRecorder()
			RequireRole(tt.allowed...)(next).ServeHTTP(w, requestWithUser(t, tt.role))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantNext, nextCalled)
			if !tt.wantNext {
				assert.Equal(t, "/", w.Header().Get("Location"))
			}
		})
	}
}

func TestRequireAdminArea(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	w := httptest.NewRecorder()
	RequireAdminArea()(next).ServeHTTP(w, requestWithUser(t, "author"))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	RequireAdminArea()(next).ServeHTTP(w, requestWithUser(t, "reader"))
	assert.Equal(t, http.StatusSeeOther, w.Code)
}

func TestLoadUser(t *testing.T) {
	sm := scs.New()
	sessions := session.NewStore(sm)

	t.Run("no session user passes through without context", func(t *testing.T) {
		var got *model.User
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = GetUser(r)
		})

		handler := sm.LoadAndSave(LoadUser(sessions)(next))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
		assert.Nil(t, got)
	})

	t.Run("session user lands in context", func(t *testing.T) {
		user := model.User{ID: "u1", Username: "alice", Role: "admin"}

		var got *model.User
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = GetUser(r)
		})

		seed := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, sessions.Set(r.Context(), user, "token-1"))
			LoadUser(sessions)(next).ServeHTTP(w, r)
		})
		w := httptest.NewRecorder()
		sm.LoadAndSave(seed).ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

		require.NotNil(t, got)
		assert.Equal(t, "alice", got.Username)
		assert.Equal(t, "admin", got.Role)
	})
}

func TestGetUserHelpers(t *testing.T) {
	r := requestWithUser(t, "author")
	assert.Equal(t, "u1", GetUserID(r))
	assert.Equal(t, "author", GetUserRole(r))

	anon := httptest.NewRequest("GET", "/", nil)
	assert.Nil(t, GetUser(anon))
	assert.Equal(t, "", GetUserID(anon))
	assert.Equal(t, "", GetUserRole(anon))
}

func TestRequestPath(t *testing.T) {
	var got string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetRequestPath(r.Context())
	})
	w := httptest.NewRecorder()
	RequestPath(next).ServeHTTP(w, httptest.NewRequest("GET", "/blog/hello", nil))
	assert.Equal(t, "/blog/hello", got)
}
