// Copyright (c) 2025-2026 Wavy Blog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/wavyblog/wavy-go/internal/cache"
	"github.com/wavyblog/wavy-go/internal/imaging"
	"github.com/wavyblog/wavy-go/internal/model"
	"github.com/wavyblog/wavy-go/internal/util"
)

// Thumbnail proxy defaults.
const (
	thumbDefaultWidth = 640
	thumbFetchTimeout = 10 * time.Second
	thumbCacheMaxAge  = 86400 // browser cache, one day
)

// ThumbHandler is the resizing proxy for post thumbnails. It fetches the
// source image, scales it down and caches the result; the fetch goes
// through an SSRF-safe dialer because the source URL is caller-controlled.
type ThumbHandler struct {
	cache      *cache.Manager
	processor  *imaging.Processor
	httpClient *http.Client
	maxWidth   int
}

// NewThumbHandler creates a new ThumbHandler.
func NewThumbHandler(cacheManager *cache.Manager, processor *imaging.Processor, maxWidth int) *ThumbHandler {
	if maxWidth <= 0 {
		maxWidth = 1280
	}
	return &ThumbHandler{
		cache:     cacheManager,
		processor: processor,
		httpClient: &http.Client{
			Timeout: thumbFetchTimeout,
			Transport: &http.Transport{
				DialContext: util.SSRFSafeDialContext(&net.Dialer{Timeout: 5 * time.Second}),
			},
		},
		maxWidth: maxWidth,
	}
}

// SetHTTPClient replaces the fetch client. Tests use this to reach a
// loopback server the SSRF guard would otherwise reject.
func (h *ThumbHandler) SetHTTPClient(hc *http.Client) {
	h.httpClient = hc
}

// Thumb handles GET /thumb?src=<url>&w=<width>.
func (h *ThumbHandler) Thumb(w http.ResponseWriter, r *http.Request) {
	src := r.URL.Query().Get("src")
	if err := util.ValidateRemoteURL(src); err != nil {
		http.Error(w, "Invalid source URL", http.StatusBadRequest)
		return
	}

	width := thumbDefaultWidth
	if raw := r.URL.Query().Get("w"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			http.Error(w, "Invalid width", http.StatusBadRequest)
			return
		}
		width = parsed
	}
	if width > h.maxWidth {
		width = h.maxWidth
	}

	key := cache.Key(cache.ResourceImages, "thumb", src, strconv.Itoa(width))
	data, err := h.cache.GetOrSet(r.Context(), key, func() ([]byte, error) {
		return h.fetchAndResize(r, src, width)
	})
	if err != nil {
		http.Error(w, "Failed to produce thumbnail", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", thumbCacheMaxAge))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}

// fetchAndResize downloads the source image and scales it to the requested
// width. Source bytes are capped at the upload limit.
func (h *ThumbHandler) fetchAndResize(r *http.Request, src string, width int) ([]byte, error) {
	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("building fetch request: %w", err)
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching source image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("source returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, model.MaxUploadSize))
	if err != nil {
		return nil, fmt.Errorf("reading source image: %w", err)
	}

	thumb, err := h.processor.Thumbnail(data, width)
	if err != nil {
		return nil, fmt.Errorf("resizing image: %w", err)
	}
	return thumb, nil
}
