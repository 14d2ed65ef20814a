// Copyright (c) 2025-2026 Wavy Blog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/alexedwards/scs/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"layouts/base.html": &fstest.MapFile{
			Data: []byte(`{{define "base"}}<html><body>{{if .Flash}}<div class="flash {{.FlashType}}">{{.Flash}}</div>{{end}}{{template "content" .}}</body></html>{{end}}`),
		},
		"layouts/admin.html": &fstest.MapFile{
			Data: []byte(`{{define "admin-chrome"}}<nav>admin</nav>{{end}}`),
		},
		"public/home.html": &fstest.MapFile{
			Data: []byte(`{{define "content"}}<h1>{{.Title}}</h1>{{end}}`),
		},
		"admin/dashboard.html": &fstest.MapFile{
			Data: []byte(`{{define "content"}}{{template "admin-chrome" .}}<h1>{{.Title}}</h1>{{end}}`),
		},
		"auth/login.html": &fstest.MapFile{
			Data: []byte(`{{define "content"}}<form></form>{{end}}`),
		},
	}
}

func TestRenderer(t *testing.T) {
	r, err := New(Config{TemplatesFS: testFS()})
	require.NoError(t, err)

	t.Run("renders public template", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/", nil)
		require.NoError(t, r.Render(w, req, "public/home", TemplateData{Title: "Wavy"}))

		assert.Contains(t, w.Body.String(), "<h1>Wavy</h1>")
		assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	})

	t.Run("admin template composes admin chrome", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/admin", nil)
		require.NoError(t, r.Render(w, req, "admin/dashboard", TemplateData{Title: "Dashboard"}))
		assert.Contains(t, w.Body.String(), "<nav>admin</nav>")
	})

	t.Run("unknown template errors", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/", nil)
		err := r.Render(w, req, "public/missing", TemplateData{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})
}

func TestFlash(t *testing.T) {
	sm := scs.New()
	r, err := New(Config{TemplatesFS: testFS(), SessionManager: sm})
	require.NoError(t, err)

	ctx, err := sm.Load(httptest.NewRequest("GET", "/", nil).Context(), "")
	require.NoError(t, err)
	req := httptest.NewRequest("GET", "/", nil).WithContext(ctx)

	r.SetFlash(req, "Post created", "success")

	w := httptest.NewRecorder()
	require.NoError(t, r.Render(w, req, "public/home", TemplateData{Title: "Wavy"}))
	assert.Contains(t, w.Body.String(), `<div class="flash success">Post created</div>`)

	// Flash is consumed on first render
	w = httptest.NewRecorder()
	require.NoError(t, r.Render(w, req, "public/home", TemplateData{Title: "Wavy"}))
	assert.NotContains(t, w.Body.String(), "flash success")
}

func TestMarkdownHTML(t *testing.T) {
	t.Run("renders basic markdown", func(t *testing.T) {
		out := string(MarkdownHTML("# Hello\n\nSome *text*."))
		assert.Contains(t, out, "<h1")
		assert.Contains(t, out, "<em>text</em>")
	})

	t.Run("strips scripts", func(t *testing.T) {
		out := string(MarkdownHTML("hi<script>alert(1)</script>"))
		assert.NotContains(t, out, "<script>")
	})

	t.Run("strips event handlers", func(t *testing.T) {
		out := string(MarkdownHTML(`<img src="x.png" onerror="alert(1)">`))
		assert.NotContains(t, out, "onerror")
	})

	t.Run("keeps links and code", func(t *testing.T) {
		out := string(MarkdownHTML("[go](https://go.dev) and `code`"))
		assert.Contains(t, out, `href="https://go.dev"`)
		assert.Contains(t, out, "<code>code</code>")
	})
}

func TestExcerpt(t *testing.T) {
	t.Run("strips markup", func(t *testing.T) {
		out := Excerpt("# Title\n\nBody **bold** text.", 100)
		assert.Equal(t, "Title Body bold text.", out)
	})

	t.Run("truncates at word boundary", func(t *testing.T) {
		out := Excerpt("one two three four five", 13)
		assert.Equal(t, "one two three…", out)
	})

	t.Run("short text untouched", func(t *testing.T) {
		assert.Equal(t, "short", Excerpt("short", 50))
	})

	t.Run("no trailing ellipsis spill", func(t *testing.T) {
		out := Excerpt(strings.Repeat("word ", 100), 40)
		assert.True(t, strings.HasSuffix(out, "…"))
		assert.LessOrEqual(t, len([]rune(out)), 41)
	})
}
