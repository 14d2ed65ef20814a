// Copyright (c) 2025-2026 Wavy Blog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package uikit

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/wavyblog/wavy-go/internal/model"
)

// Query parameter names. The URL is the single source of pagination state;
// parameters at their defaults are omitted so canonical URLs stay short.
const (
	ParamPageIndex = "pageIndex"
	ParamPageSize  = "pageSize"
)

// Pagination holds pagination data for templates backed by a total count.
// PageIndex is 1-based.
type Pagination struct {
	PageIndex   int
	TotalPages  int
	TotalItems  int
	PageSize    int
	HasPrev     bool
	HasNext     bool
	PrevPage    int
	NextPage    int
	Pages       []PaginationPage
	BaseURL     string
	QueryString string // preserved filters, without pagination params
}

// PaginationPage represents a single page link.
type PaginationPage struct {
	Number     int
	URL        string
	IsCurrent  bool
	IsEllipsis bool
}

// BuildPagination creates pagination data for templates.
// baseURL is the path without query string (e.g., "/admin/users").
// queryParams are the current query parameters; pagination params are
// stripped and the rest preserved, so page links keep active filters.
func BuildPagination(pageIndex, totalItems, pageSize int, baseURL string, queryParams url.Values) Pagination {
	if pageSize <= 0 {
		pageSize = model.DefaultPageSize
	}
	pageIndex, totalPages := NormalizePagination(pageIndex, totalItems, pageSize)

	p := Pagination{
		PageIndex:  pageIndex,
		TotalPages: totalPages,
		TotalItems: totalItems,
		PageSize:   pageSize,
		HasPrev:    pageIndex > 1,
		HasNext:    pageIndex < totalPages,
		PrevPage:   pageIndex - 1,
		NextPage:   pageIndex + 1,
		BaseURL:    baseURL,
	}

	// Preserve filters, drop pagination params and empty values. A non-default
	// pageSize is carried so it survives page navigation.
	if queryParams != nil {
		params := make(url.Values)
		for k, v := range queryParams {
			if k == ParamPageIndex || k == ParamPageSize {
				continue
			}
			if len(v) > 0 && v[0] != "" {
				params[k] = v
			}
		}
		if pageSize != model.DefaultPageSize {
			params.Set(ParamPageSize, strconv.Itoa(pageSize))
		}
		if len(params) > 0 {
			p.QueryString = params.Encode()
		}
	} else if pageSize != model.DefaultPageSize {
		p.QueryString = ParamPageSize + "=" + strconv.Itoa(pageSize)
	}

	p.Pages = BuildPaginationPages(pageIndex, totalPages, p.PageURL,
		func(number int, pageURL string, isCurrent, isEllipsis bool) PaginationPage {
			return PaginationPage{Number: number, URL: pageURL, IsCurrent: isCurrent, IsEllipsis: isEllipsis}
		})

	return p
}

// PageURL returns the URL for a specific page number. Page 1 is the
// default and is omitted from the URL entirely.
func (p Pagination) PageURL(page int) string {
	switch {
	case page <= 1 && p.QueryString == "":
		return p.BaseURL
	case page <= 1:
		return p.BaseURL + "?" + p.QueryString
	case p.QueryString == "":
		return fmt.Sprintf("%s?%s=%d", p.BaseURL, ParamPageIndex, page)
	default:
		return fmt.Sprintf("%s?%s&%s=%d", p.BaseURL, p.QueryString, ParamPageIndex, page)
	}
}

// PrevURL returns the URL for the previous page.
func (p Pagination) PrevURL() string {
	return p.PageURL(p.PrevPage)
}

// NextURL returns the URL for the next page.
func (p Pagination) NextURL() string {
	return p.PageURL(p.NextPage)
}

// ShouldShow returns true if the pagination control should be displayed.
// A result that fits on one page needs no control.
func (p Pagination) ShouldShow() bool {
	return p.TotalPages > 1
}

// PageRange returns a description of the current item range, e.g. "21-40".
func (p Pagination) PageRange() string {
	if p.TotalItems == 0 {
		return "0-0"
	}
	start := (p.PageIndex-1)*p.PageSize + 1
	end := p.PageIndex * p.PageSize
	if end > p.TotalItems {
		end = p.TotalItems
	}
	return fmt.Sprintf("%d-%d", start, end)
}

// FeedPagination holds pagination data for endpoints that report only
// whether a next page exists, never a total.
type FeedPagination struct {
	PageIndex   int
	PageSize    int
	HasNextPage bool
	Empty       bool // no items on this page
	BaseURL     string
	QueryString string
}

// BuildFeedPagination creates prev/next pagination for a feed page.
func BuildFeedPagination(feedPage FeedPage, baseURL string, queryParams url.Values) FeedPagination {
	p := FeedPagination{
		PageIndex:   feedPage.PageIndex,
		PageSize:    feedPage.PageSize,
		HasNextPage: feedPage.HasNextPage,
		Empty:       feedPage.Empty,
		BaseURL:     baseURL,
	}
	if p.PageIndex < 1 {
		p.PageIndex = 1
	}

	if queryParams != nil {
		params := make(url.Values)
		for k, v := range queryParams {
			if k == ParamPageIndex || k == ParamPageSize {
				continue
			}
			if len(v) > 0 && v[0] != "" {
				params[k] = v
			}
		}
		if p.PageSize > 0 && p.PageSize != model.FeedPageSize {
			params.Set(ParamPageSize, strconv.Itoa(p.PageSize))
		}
		if len(params) > 0 {
			p.QueryString = params.Encode()
		}
	}

	return p
}

// FeedPage carries the feed facts BuildFeedPagination needs.
type FeedPage struct {
	PageIndex   int
	PageSize    int
	HasNextPage bool
	Empty       bool
}

// PageURL returns the URL for a specific page number.
func (p FeedPagination) PageURL(page int) string {
	switch {
	case page <= 1 && p.QueryString == "":
		return p.BaseURL
	case page <= 1:
		return p.BaseURL + "?" + p.QueryString
	case p.QueryString == "":
		return fmt.Sprintf("%s?%s=%d", p.BaseURL, ParamPageIndex, page)
	default:
		return fmt.Sprintf("%s?%s&%s=%d", p.BaseURL, p.QueryString, ParamPageIndex, page)
	}
}

// HasPrev reports whether a previous page exists.
func (p FeedPagination) HasPrev() bool {
	return p.PageIndex > 1
}

// PrevURL returns the URL for the previous page.
func (p FeedPagination) PrevURL() string {
	return p.PageURL(p.PageIndex - 1)
}

// NextURL returns the URL for the next page.
func (p FeedPagination) NextURL() string {
	return p.PageURL(p.PageIndex + 1)
}

// ShouldShow returns true if the control should render. An empty first
// page shows nothing at all.
func (p FeedPagination) ShouldShow() bool {
	if p.Empty && p.PageIndex == 1 && !p.HasNextPage {
		return false
	}
	return p.HasNextPage || p.PageIndex > 1
}

// BuildPaginationPages generates page links with ellipsis for any pagination type.
// The window is the first page, the current page and its neighbors, and the
// last page, with "..." standing in for the gaps.
func BuildPaginationPages[T any](
	pageIndex, totalPages int,
	buildURL func(int) string,
	makePage func(number int, pageURL string, isCurrent, isEllipsis bool) T,
) []T {
	var pages []T
	if totalPages < 1 {
		return pages
	}

	start := pageIndex - 1
	if start < 2 {
		start = 2
	}
	end := pageIndex + 1
	if end > totalPages-1 {
		end = totalPages - 1
	}

	// First page is always present
	pages = append(pages, makePage(1, buildURL(1), pageIndex == 1, false))

	if start > 2 {
		pages = append(pages, makePage(0, "", false, true))
	}

	for i := start; i <= end; i++ {
		pages = append(pages, makePage(i, buildURL(i), i == pageIndex, false))
	}

	if end < totalPages-1 {
		pages = append(pages, makePage(0, "", false, true))
	}

	// Last page is always present when it differs from the first
	if totalPages > 1 {
		pages = append(pages, makePage(totalPages, buildURL(totalPages), pageIndex == totalPages, false))
	}

	return pages
}

// CalculateTotalPages calculates the number of pages for the given total items and page size.
func CalculateTotalPages(totalItems, pageSize int) int {
	if pageSize <= 0 {
		return 1
	}
	totalPages := (totalItems + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	return totalPages
}

// ClampPage ensures the page number is within the valid range [1, totalPages].
func ClampPage(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// NormalizePagination calculates total pages and clamps the current page to a valid range.
// Returns the normalized page number and total pages.
func NormalizePagination(page, totalItems, pageSize int) (normalizedPage, totalPages int) {
	totalPages = CalculateTotalPages(totalItems, pageSize)
	normalizedPage = ClampPage(page, totalPages)
	return normalizedPage, totalPages
}

// ParsePageIndexParam parses the pageIndex query parameter from the request.
// Returns 1 if the parameter is missing, empty, or invalid.
func ParsePageIndexParam(r *http.Request) int {
	return ParseIntParam(r, ParamPageIndex, 1, 1, 0)
}

// ParsePageSizeParam parses the pageSize query parameter from the request.
// Returns the default value if the parameter is missing, empty, or invalid.
// The value is clamped to the range [1, maxPageSize].
func ParsePageSizeParam(r *http.Request, defaultPageSize, maxPageSize int) int {
	return ParseIntParam(r, ParamPageSize, defaultPageSize, 1, maxPageSize)
}

// ParseIntParam parses an integer query parameter from the request.
// Returns defaultVal if the parameter is missing, empty, or invalid.
// If minVal > 0, values below minVal return defaultVal.
// If maxVal > 0, values above maxVal return defaultVal.
func ParseIntParam(r *http.Request, param string, defaultVal, minVal, maxVal int) int {
	str := r.URL.Query().Get(param)
	if str == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(str)
	if err != nil {
		return defaultVal
	}
	if minVal > 0 && val < minVal {
		return defaultVal
	}
	if maxVal > 0 && val > maxVal {
		return defaultVal
	}
	return val
}
