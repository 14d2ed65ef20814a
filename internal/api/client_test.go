// Copyright (c) 2025-2026 Wavy Blog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wavyblog/wavy-go/internal/model"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, WithHTTPClient(srv.Client()), WithMaxRetries(2)), srv
}

func TestGetPost_NotFoundIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"code":404,"message":"The requested resource was not found.","details":"Post not found"}`))
	}))

	_, err := client.GetPost(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, int32(1), calls.Load(), "404 must terminate immediately")

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "The requested resource was not found.", apiErr.Message)
	assert.Equal(t, "Post not found", apiErr.Details)
}

func TestGetPost_ServerErrorGetsTwoExtraAttempts(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, `{"code":500,"message":"boom"}`, http.StatusInternalServerError)
	}))

	_, err := client.GetPost(context.Background(), "flaky")
	require.Error(t, err)
	assert.Equal(t, int32(3), calls.Load(), "initial attempt plus two retries")
}

func TestGetPost_RecoversOnRetry(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, `{"code":500,"message":"boom"}`, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"slug":"hello","title":"Hello","status":"published"}`))
	}))

	post, err := client.GetPost(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", post.Slug)
	assert.Equal(t, int32(2), calls.Load())
}

func TestCreatePost_MutationIsNeverRetried(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, `{"code":500,"message":"boom"}`, http.StatusInternalServerError)
	}))

	_, err := client.CreatePost(context.Background(), "tok", model.PostInput{Title: "x"})
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestListPosts_OmitsEmptyFiltersAndDefaults(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.False(t, q.Has("status"), "empty status must be omitted")
		assert.False(t, q.Has("category"), "empty category must be omitted")
		assert.False(t, q.Has("pageIndex"), "default pageIndex must be omitted")
		assert.False(t, q.Has("pageSize"), "default pageSize must be omitted")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"posts":[],"pageIndex":1,"pageSize":10,"hasNextPage":false}`))
	}))

	feed, err := client.ListPosts(context.Background(), "", ListPostsParams{
		PageIndex: 1,
		PageSize:  model.FeedPageSize,
	})
	require.NoError(t, err)
	assert.False(t, feed.HasNextPage)
}

func TestListPosts_SendsNonDefaultParams(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "published", q.Get("status"))
		assert.Equal(t, "3", q.Get("pageIndex"))
		assert.Equal(t, "25", q.Get("pageSize"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"posts":[{"slug":"a"}],"pageIndex":3,"pageSize":25,"hasNextPage":true}`))
	}))

	feed, err := client.ListPosts(context.Background(), "tok", ListPostsParams{
		Status:    "published",
		PageIndex: 3,
		PageSize:  25,
	})
	require.NoError(t, err)
	require.Len(t, feed.Items, 1)
	assert.True(t, feed.HasNextPage)
}

func TestListUsers_FiltersPassThrough(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "alice", q.Get("username"))
		assert.Equal(t, "admin", q.Get("role"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"users":[{"userID":"u1","username":"alice","role":"admin"}],"pageIndex":1,"pageSize":20,"total":1}`))
	}))

	page, err := client.ListUsers(context.Background(), "tok", ListUsersParams{
		Username: "alice",
		Role:     "admin",
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, 1, page.Total)
	assert.False(t, page.HasNextPage())
}

func TestLogin_ReturnsTokenUserAndCookies(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/users/login", r.URL.Path)
		http.SetCookie(w, &http.Cookie{
			Name:     "refresh_token",
			Value:    "rt-123",
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteStrictMode,
		})
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"at-456","user":{"userID":"u1","username":"alice","role":"admin"}}`))
	}))

	result, err := client.Login(context.Background(), Credentials{Email: "a@b.c", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "at-456", result.AccessToken)
	assert.Equal(t, "alice", result.User.Username)
	require.Len(t, result.Cookies, 1)
	assert.Equal(t, "refresh_token", result.Cookies[0].Name)
	assert.Equal(t, "rt-123", result.Cookies[0].Value)
}

func TestRefresh_ForwardsCookieAndNeverRetries(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		ck, err := r.Cookie("refresh_token")
		require.NoError(t, err)
		assert.Equal(t, "rt-old", ck.Value)
		http.Error(w, `{"code":401,"message":"Authentication is required and has failed or has not yet been provided.","details":"Invalid refresh token."}`, http.StatusUnauthorized)
	}))

	_, err := client.Refresh(context.Background(), &http.Cookie{Name: "refresh_token", Value: "rt-old"})
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestDecodeError_MalformedBodyFallsBack(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))

	_, err := client.CreateCategory(context.Background(), "tok", model.CategoryInput{Name: "Go"})
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindConflict, apiErr.Kind)
	assert.Equal(t, "Unknown error occurred", apiErr.Message)
}

func TestDeletePosts_StopsAtFirstFailure(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 2 {
			http.Error(w, `{"code":500,"message":"boom"}`, http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	err := client.DeletePosts(context.Background(), "tok", []string{"a", "b", "c"})
	require.Error(t, err)
	assert.Equal(t, int32(2), calls.Load(), "stop after the failed delete")
}

func TestKindFromStatus(t *testing.T) {
	tests := []struct {
		status int
		want   Kind
	}{
		{http.StatusBadRequest, KindValidation},
		{http.StatusUnauthorized, KindUnauthorized},
		{http.StatusForbidden, KindForbidden},
		{http.StatusNotFound, KindNotFound},
		{http.StatusConflict, KindConflict},
		{http.StatusInternalServerError, KindServer},
		{http.StatusBadGateway, KindUnavailable},
		{http.StatusTeapot, KindServer},
	}

	for _, tt := range tests {
		if got := kindFromStatus(tt.status); got != tt.want {
			t.Errorf("kindFromStatus(%d) = %q, want %q", tt.status, got, tt.want)
		}
	}
}
