// Copyright (c) 2025-2026 Wavy Blog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/wavyblog/wavy-go/internal/auth"
	"github.com/wavyblog/wavy-go/internal/cache"
	"github.com/wavyblog/wavy-go/internal/middleware"
)

// gatewayTimeout bounds a single proxied call. Slightly above the backend
// client timeout so the backend's own deadline fires first.
const gatewayTimeout = 20 * time.Second

// GatewayHandler proxies JSON requests to the backend API. Requests are
// forwarded nearly verbatim: the gateway attaches auth, stamps a request id
// and normalizes error bodies, nothing more. Bodies and status codes of
// successful responses pass through untouched.
type GatewayHandler struct {
	baseURL    string
	httpClient *http.Client
	authSvc    *auth.Service
	cache      *cache.Manager
}

// NewGatewayHandler creates a new GatewayHandler.
func NewGatewayHandler(baseURL string, authSvc *auth.Service, cacheManager *cache.Manager) *GatewayHandler {
	return &GatewayHandler{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: gatewayTimeout},
		authSvc:    authSvc,
		cache:      cacheManager,
	}
}

// SetHTTPClient replaces the upstream HTTP client. Tests use this.
func (h *GatewayHandler) SetHTTPClient(hc *http.Client) {
	h.httpClient = hc
}

// Routes returns the gateway router, meant to be mounted at /api.
func (h *GatewayHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/users/login", h.Proxy)
	r.Post("/users/refresh", h.Proxy)

	r.Get(RoutePosts, h.Proxy)
	r.Post(RoutePosts, h.Proxy)
	r.Get(RoutePostsSlug, h.Proxy)
	r.Put(RoutePostsSlug, h.Proxy)
	r.Delete(RoutePostsSlug, h.Proxy)

	r.Get(RouteCategories, h.Proxy)
	r.Post(RouteCategories, h.Proxy)
	r.Get(RouteCategoriesSlug, h.Proxy)
	r.Put(RouteCategoriesSlug, h.Proxy)
	r.Delete(RouteCategoriesSlug, h.Proxy)
	r.Get(RouteCategoriesSlug+RoutePosts, h.Proxy)

	r.Get(RouteUsers, h.Proxy)
	r.Get(RouteUsersUsername, h.Proxy)
	r.Put(RouteUsersUsername, h.Proxy)
	r.Delete(RouteUsersUsername, h.Proxy)

	r.Get(RouteImages, h.Proxy)
	r.Post(RouteImages, h.Proxy)
	r.Delete(RouteImages, h.Proxy)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		middleware.WriteAPIError(w, http.StatusNotFound, "Not found", "")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		middleware.WriteAPIError(w, http.StatusMethodNotAllowed, "Method not allowed", "")
	})

	return r
}

// Proxy forwards one request to the backend. Mounted under /api, so the
// upstream path is the request path with that prefix stripped.
func (h *GatewayHandler) Proxy(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api")

	upstreamURL := h.baseURL + path
	if r.URL.RawQuery != "" {
		upstreamURL += "?" + r.URL.RawQuery
	}

	upstream, err := http.NewRequestWithContext(r.Context(), r.Method, upstreamURL, r.Body)
	if err != nil {
		middleware.WriteAPIError(w, http.StatusInternalServerError, "Internal server error", "")
		return
	}

	if ct := r.Header.Get("Content-Type"); ct != "" {
		upstream.Header.Set("Content-Type", ct)
	}
	upstream.Header.Set("Accept", "application/json")
	upstream.Header.Set("X-Request-ID", uuid.NewString())
	upstream.ContentLength = r.ContentLength

	// A caller-supplied Authorization header wins; otherwise the session's
	// access token is attached. The refresh flow instead rides on cookies.
	if authz := r.Header.Get("Authorization"); authz != "" {
		upstream.Header.Set("Authorization", authz)
	} else if token := h.authSvc.Token(r.Context()); token != "" {
		upstream.Header.Set("Authorization", "Bearer "+token)
	}
	for _, ck := range r.Cookies() {
		upstream.AddCookie(ck)
	}

	resp, err := h.httpClient.Do(upstream)
	if err != nil {
		slog.Error("gateway request failed", "method", r.Method, "path", path, "error", err)
		middleware.WriteAPIError(w, http.StatusBadGateway, "Backend is unreachable", "")
		return
	}
	defer resp.Body.Close()

	// Rotated refresh cookies must reach the browser.
	for _, ck := range resp.Cookies() {
		http.SetCookie(w, ck)
	}

	if resp.StatusCode >= 400 {
		h.writeError(w, r, path, resp)
		return
	}

	h.invalidateFor(r, path)

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		slog.Error("gateway response copy failed", "path", path, "error", err)
	}
}

// writeError normalizes a backend error body to the {error, details?}
// envelope, preserving the status code. A 401 additionally tears down the
// local session: the tokens are dead. The exception is the login route,
// where a 401 only means wrong credentials and says nothing about an
// existing session.
func (h *GatewayHandler) writeError(w http.ResponseWriter, r *http.Request, path string, resp *http.Response) {
	if resp.StatusCode == http.StatusUnauthorized && path != RouteUsers+"/login" {
		h.authSvc.TearDown(w, r)
	}

	message := "Unknown error occurred"
	details := ""

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err == nil && len(body) > 0 {
		var envelope struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
			Details string `json:"details,omitempty"`
		}
		if err := json.Unmarshal(body, &envelope); err == nil && envelope.Message != "" {
			message = envelope.Message
			details = envelope.Details
		}
	}

	middleware.WriteAPIError(w, resp.StatusCode, message, details)
}

// invalidateFor drops the cache namespaces a successful mutation through
// the gateway may have staled. Reads invalidate nothing.
func (h *GatewayHandler) invalidateFor(r *http.Request, path string) {
	if h.cache == nil || r.Method == http.MethodGet || r.Method == http.MethodHead {
		return
	}

	ctx := r.Context()
	switch {
	case strings.HasPrefix(path, RoutePosts):
		h.cache.Invalidate(ctx, cache.ResourcePosts)
	case strings.HasPrefix(path, RouteCategories):
		h.cache.Invalidate(ctx, cache.ResourceCategories)
		h.cache.Invalidate(ctx, cache.ResourcePosts)
	case strings.HasPrefix(path, RouteUsers+"/login"), strings.HasPrefix(path, RouteUsers+"/refresh"):
		// Auth calls mutate nothing cacheable.
	case strings.HasPrefix(path, RouteUsers):
		h.cache.Invalidate(ctx, cache.ResourceUsers)
		h.cache.Invalidate(ctx, cache.ResourcePosts)
	case strings.HasPrefix(path, RouteImages):
		h.cache.Invalidate(ctx, cache.ResourceImages)
	}
}
