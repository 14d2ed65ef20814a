// Copyright (c) 2025-2026 Wavy Blog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package uikit

import (
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPagination(t *testing.T) {
	t.Run("single page", func(t *testing.T) {
		p := BuildPagination(1, 5, 20, "/admin/users", nil)
		assert.Equal(t, 1, p.PageIndex)
		assert.Equal(t, 1, p.TotalPages)
		assert.False(t, p.HasPrev)
		assert.False(t, p.HasNext)
		assert.False(t, p.ShouldShow())
	})

	t.Run("middle page", func(t *testing.T) {
		p := BuildPagination(3, 100, 20, "/admin/users", nil)
		assert.Equal(t, 3, p.PageIndex)
		assert.Equal(t, 5, p.TotalPages)
		assert.True(t, p.HasPrev)
		assert.True(t, p.HasNext)
		assert.Equal(t, 2, p.PrevPage)
		assert.Equal(t, 4, p.NextPage)
		assert.True(t, p.ShouldShow())
	})

	t.Run("page clamped to range", func(t *testing.T) {
		p := BuildPagination(99, 50, 20, "/admin/users", nil)
		assert.Equal(t, 3, p.PageIndex)

		p = BuildPagination(0, 50, 20, "/admin/users", nil)
		assert.Equal(t, 1, p.PageIndex)
	})

	t.Run("zero items still has one page", func(t *testing.T) {
		p := BuildPagination(1, 0, 20, "/admin/users", nil)
		assert.Equal(t, 1, p.TotalPages)
		assert.False(t, p.ShouldShow())
	})
}

func TestPaginationPageURL(t *testing.T) {
	t.Run("page one omits pageIndex", func(t *testing.T) {
		p := BuildPagination(1, 100, 20, "/admin/users", nil)
		assert.Equal(t, "/admin/users", p.PageURL(1))
		assert.Equal(t, "/admin/users?pageIndex=2", p.PageURL(2))
	})

	t.Run("filters preserved", func(t *testing.T) {
		query := url.Values{"role": {"admin"}, "pageIndex": {"3"}}
		p := BuildPagination(3, 100, 20, "/admin/users", query)
		assert.Equal(t, "/admin/users?role=admin", p.PageURL(1))
		assert.Equal(t, "/admin/users?role=admin&pageIndex=4", p.PageURL(4))
	})

	t.Run("empty filter values dropped", func(t *testing.T) {
		query := url.Values{"role": {""}, "username": {"bob"}}
		p := BuildPagination(1, 100, 20, "/admin/users", query)
		assert.Equal(t, "/admin/users?username=bob", p.PageURL(1))
	})

	t.Run("default page size omitted, custom carried", func(t *testing.T) {
		p := BuildPagination(1, 100, 20, "/admin/users", url.Values{})
		assert.Equal(t, "/admin/users?pageIndex=2", p.PageURL(2))

		p = BuildPagination(1, 100, 50, "/admin/users", url.Values{})
		assert.Equal(t, "/admin/users?pageSize=50&pageIndex=2", p.PageURL(2))
	})
}

func TestPaginationPages(t *testing.T) {
	numbers := func(pages []PaginationPage) []int {
		var out []int
		for _, pg := range pages {
			if pg.IsEllipsis {
				out = append(out, 0)
			} else {
				out = append(out, pg.Number)
			}
		}
		return out
	}

	tests := []struct {
		name       string
		pageIndex  int
		totalPages int
		want       []int // 0 = ellipsis
	}{
		{"single page", 1, 1, []int{1}},
		{"few pages no ellipsis", 2, 4, []int{1, 2, 3, 4}},
		{"start of long list", 1, 10, []int{1, 2, 0, 10}},
		{"middle of long list", 5, 10, []int{1, 0, 4, 5, 6, 0, 10}},
		{"end of long list", 10, 10, []int{1, 0, 9, 10}},
		{"near start", 3, 10, []int{1, 2, 3, 4, 0, 10}},
		{"near end", 8, 10, []int{1, 0, 7, 8, 9, 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Pagination{BaseURL: "/posts"}
			pages := BuildPaginationPages(tt.pageIndex, tt.totalPages, p.PageURL,
				func(n int, u string, cur, ell bool) PaginationPage {
					return PaginationPage{Number: n, URL: u, IsCurrent: cur, IsEllipsis: ell}
				})
			assert.Equal(t, tt.want, numbers(pages))
		})
	}

	t.Run("current page marked", func(t *testing.T) {
		p := BuildPagination(5, 200, 20, "/posts", nil)
		var current int
		for _, pg := range p.Pages {
			if pg.IsCurrent {
				current = pg.Number
			}
		}
		assert.Equal(t, 5, current)
	})
}

func TestFeedPagination(t *testing.T) {
	t.Run("hidden on empty first page", func(t *testing.T) {
		p := BuildFeedPagination(FeedPage{PageIndex: 1, PageSize: 10, Empty: true}, "/blog", nil)
		assert.False(t, p.ShouldShow())
	})

	t.Run("shown when next page exists", func(t *testing.T) {
		p := BuildFeedPagination(FeedPage{PageIndex: 1, PageSize: 10, HasNextPage: true}, "/blog", nil)
		assert.True(t, p.ShouldShow())
		assert.False(t, p.HasPrev())
		assert.Equal(t, "/blog?pageIndex=2", p.NextURL())
	})

	t.Run("shown past page one even without next", func(t *testing.T) {
		p := BuildFeedPagination(FeedPage{PageIndex: 3, PageSize: 10}, "/blog", nil)
		assert.True(t, p.ShouldShow())
		assert.True(t, p.HasPrev())
		assert.Equal(t, "/blog?pageIndex=2", p.PrevURL())
	})

	t.Run("prev to first page drops pageIndex", func(t *testing.T) {
		p := BuildFeedPagination(FeedPage{PageIndex: 2, PageSize: 10, HasNextPage: true}, "/blog", nil)
		assert.Equal(t, "/blog", p.PrevURL())
		assert.Equal(t, "/blog?pageIndex=3", p.NextURL())
	})

	t.Run("filters preserved", func(t *testing.T) {
		query := url.Values{"category": {"go"}}
		p := BuildFeedPagination(FeedPage{PageIndex: 2, PageSize: 10, HasNextPage: true}, "/blog", query)
		assert.Equal(t, "/blog?category=go", p.PrevURL())
		assert.Equal(t, "/blog?category=go&pageIndex=3", p.NextURL())
	})
}

func TestCalculateTotalPages(t *testing.T) {
	assert.Equal(t, 1, CalculateTotalPages(0, 20))
	assert.Equal(t, 1, CalculateTotalPages(20, 20))
	assert.Equal(t, 2, CalculateTotalPages(21, 20))
	assert.Equal(t, 5, CalculateTotalPages(100, 20))
	assert.Equal(t, 1, CalculateTotalPages(100, 0))
}

func TestClampPage(t *testing.T) {
	assert.Equal(t, 1, ClampPage(0, 5))
	assert.Equal(t, 1, ClampPage(-3, 5))
	assert.Equal(t, 3, ClampPage(3, 5))
	assert.Equal(t, 5, ClampPage(9, 5))
}

func TestParsePageParams(t *testing.T) {
	t.Run("pageIndex default and invalid", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/posts", nil)
		assert.Equal(t, 1, ParsePageIndexParam(r))

		r = httptest.NewRequest("GET", "/posts?pageIndex=abc", nil)
		assert.Equal(t, 1, ParsePageIndexParam(r))

		r = httptest.NewRequest("GET", "/posts?pageIndex=-2", nil)
		assert.Equal(t, 1, ParsePageIndexParam(r))

		r = httptest.NewRequest("GET", "/posts?pageIndex=7", nil)
		assert.Equal(t, 7, ParsePageIndexParam(r))
	})

	t.Run("pageSize clamped", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/posts", nil)
		assert.Equal(t, 20, ParsePageSizeParam(r, 20, 100))

		r = httptest.NewRequest("GET", "/posts?pageSize=50", nil)
		assert.Equal(t, 50, ParsePageSizeParam(r, 20, 100))

		r = httptest.NewRequest("GET", "/posts?pageSize=500", nil)
		assert.Equal(t, 20, ParsePageSizeParam(r, 20, 100))
	})
}

func TestPageRange(t *testing.T) {
	p := BuildPagination(2, 45, 20, "/admin/users", nil)
	assert.Equal(t, "21-40", p.PageRange())

	p = BuildPagination(3, 45, 20, "/admin/users", nil)
	assert.Equal(t, "41-45", p.PageRange())

	p = BuildPagination(1, 0, 20, "/admin/users", nil)
	assert.Equal(t, "0-0", p.PageRange())
}
