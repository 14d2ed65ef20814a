// Copyright (c) 2025-2026 Wavy Blog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Pagination defaults. Feed endpoints predate the total-count contract and
// keep their smaller page size.
const (
	DefaultPageIndex = 1
	DefaultPageSize  = 20
	FeedPageSize     = 10
)

// Page is a paginated result set with a known total. PageIndex is 1-based.
type Page[T any] struct {
	Items     []T `json:"items"`
	PageIndex int `json:"pageIndex"`
	PageSize  int `json:"pageSize"`
	Total     int `json:"total"`
}

// HasNextPage reports whether another page follows this one.
func (p Page[T]) HasNextPage() bool {
	return p.PageIndex*p.PageSize < p.Total
}

// TotalPages returns the number of pages needed for Total items.
func (p Page[T]) TotalPages() int {
	if p.Total <= 0 || p.PageSize <= 0 {
		return 0
	}
	return (p.Total + p.PageSize - 1) / p.PageSize
}

// Feed is a paginated result set without a total count; the backend only
// reports whether more items exist past the current page.
type Feed[T any] struct {
	Items       []T  `json:"items"`
	PageIndex   int  `json:"pageIndex"`
	PageSize    int  `json:"pageSize"`
	HasNextPage bool `json:"hasNextPage"`
}
