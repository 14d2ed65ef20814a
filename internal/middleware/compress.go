// Copyright (c) 2025-2026 Wavy Blog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"
	"sync"
)

// gzipPool recycles gzip writers across requests.
var gzipPool = sync.Pool{
	New: func() any {
		return gzip.NewWriter(io.Discard)
	},
}

// compressibleTypes are the media types worth compressing. Thumbnails and
// other binary payloads pass through untouched.
var compressibleTypes = map[string]bool{
	"text/html":              true,
	"text/css":               true,
	"text/plain":             true,
	"text/javascript":        true,
	"application/javascript": true,
	"application/json":       true,
	"application/xml":        true,
	"image/svg+xml":          true,
}

// Compress gzip-compresses responses for clients that accept it. The body is
// buffered so the decision can look at the final Content-Type and size:
// responses smaller than minSize bytes or with a non-compressible media type
// are written out as-is.
func Compress(minSize int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
				next.ServeHTTP(w, r)
				return
			}

			cw := &compressWriter{ResponseWriter: w, minSize: minSize}
			next.ServeHTTP(cw, r)
			cw.flush()
		})
	}
}

// compressWriter buffers the response so flush can decide whether the body
// is worth compressing.
type compressWriter struct {
	http.ResponseWriter
	minSize    int
	buf        []byte
	statusCode int
}

func (cw *compressWriter) WriteHeader(statusCode int) {
	cw.statusCode = statusCode
}

func (cw *compressWriter) Write(b []byte) (int, error) {
	cw.buf = append(cw.buf, b...)
	return len(b), nil
}

// flush writes the buffered response, gzipped when it qualifies. Redirects
// and other body-less responses still need their status code forwarded.
func (cw *compressWriter) flush() {
	compress := len(cw.buf) >= cw.minSize && isCompressible(cw.Header().Get("Content-Type"))

	if compress {
		cw.Header().Set("Content-Encoding", "gzip")
		cw.Header().Set("Vary", "Accept-Encoding")
		cw.Header().Del("Content-Length")
	}

	if cw.statusCode != 0 {
		cw.ResponseWriter.WriteHeader(cw.statusCode)
	}

	if len(cw.buf) == 0 {
		return
	}

	if !compress {
		_, _ = cw.ResponseWriter.Write(cw.buf)
		return
	}

	gz := gzipPool.Get().(*gzip.Writer)
	gz.Reset(cw.ResponseWriter)
	_, _ = gz.Write(cw.buf)
	_ = gz.Close()
	gzipPool.Put(gz)
}

// isCompressible reports whether a Content-Type header names a media type
// from the compressible set. Parameters like charset are ignored.
func isCompressible(contentType string) bool {
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = contentType[:idx]
	}
	contentType = strings.ToLower(strings.TrimSpace(contentType))

	return compressibleTypes[contentType] || strings.HasPrefix(contentType, "text/")
}
