// Copyright (c) 2025-2026 Wavy Blog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gzipRequest(path string) *http.Request {
	req := httptest.NewRequest("GET", path, nil)
	req.Header.Set("Accept-Encoding", "gzip")
	return req
}

func gunzip(t *testing.T, data []byte) string {
	t.Helper()
	zr, err := gzip.NewReader(strings.NewReader(string(data)))
	require.NoError(t, err)
	defer zr.Close()
	out, err := io.ReadAll(zr)
	require.NoError(t, err)
	return string(out)
}

func TestCompress(t *testing.T) {
	page := strings.Repeat("<p>hello</p>", 200)
	htmlHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(page))
	})

	t.Run("large html page is gzipped", func(t *testing.T) {
		rec := httptest.NewRecorder()
		Compress(1024)(htmlHandler).ServeHTTP(rec, gzipRequest("/"))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
		assert.Equal(t, "Accept-Encoding", rec.Header().Get("Vary"))
		assert.Equal(t, page, gunzip(t, rec.Body.Bytes()))
	})

	t.Run("client without gzip support gets plain bytes", func(t *testing.T) {
		rec := httptest.NewRecorder()
		Compress(1024)(htmlHandler).ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

		assert.Empty(t, rec.Header().Get("Content-Encoding"))
		assert.Equal(t, page, rec.Body.String())
	})

	t.Run("small responses are not worth compressing", func(t *testing.T) {
		small := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"status":"healthy"}`))
		})

		rec := httptest.NewRecorder()
		Compress(1024)(small).ServeHTTP(rec, gzipRequest("/health"))

		assert.Empty(t, rec.Header().Get("Content-Encoding"))
		assert.Equal(t, `{"status":"healthy"}`, rec.Body.String())
	})

	t.Run("thumbnails pass through uncompressed", func(t *testing.T) {
		jpeg := make([]byte, 4096)
		thumb := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "image/jpeg")
			_, _ = w.Write(jpeg)
		})

		rec := httptest.NewRecorder()
		Compress(1024)(thumb).ServeHTTP(rec, gzipRequest("/thumb"))

		assert.Empty(t, rec.Header().Get("Content-Encoding"))
		assert.Equal(t, jpeg, rec.Body.Bytes())
	})

	t.Run("body-less redirect keeps its status code", func(t *testing.T) {
		redirect := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/admin/posts", http.StatusSeeOther)
		})

		req := httptest.NewRequest("POST", "/admin/posts", nil)
		req.Header.Set("Accept-Encoding", "gzip")
		rec := httptest.NewRecorder()
		Compress(1024)(redirect).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/admin/posts", rec.Header().Get("Location"))
	})

	t.Run("error statuses survive compression", func(t *testing.T) {
		failing := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(page))
		})

		rec := httptest.NewRecorder()
		Compress(1024)(failing).ServeHTTP(rec, gzipRequest("/"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, page, gunzip(t, rec.Body.Bytes()))
	})
}

func TestIsCompressible(t *testing.T) {
	tests := []struct {
		contentType string
		want        bool
	}{
		{"text/html; charset=utf-8", true},
		{"application/json", true},
		{"image/svg+xml", true},
		{"text/anything", true},
		{"image/jpeg", false},
		{"application/octet-stream", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, isCompressible(tt.contentType), tt.contentType)
	}
}
