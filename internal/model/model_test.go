// Copyright (c) 2025-2026 Wavy Blog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "testing"

func TestUser_CanAccessAdmin(t *testing.T) {
	tests := []struct {
		role string
		want bool
	}{
		{RoleAdmin, true},
		{RoleAuthor, true},
		{"editor", false},
		{"reader", false},
		{"", false},
		{"Admin", false}, // roles are case-sensitive
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			u := User{Role: tt.role}
			if got := u.CanAccessAdmin(); got != tt.want {
				t.Errorf("CanAccessAdmin() with role %q = %v, want %v", tt.role, got, tt.want)
			}
		})
	}
}

func TestUser_IsAdmin(t *testing.T) {
	if !(&User{Role: RoleAdmin}).IsAdmin() {
		t.Error("admin role should report IsAdmin")
	}
	if (&User{Role: RoleAuthor}).IsAdmin() {
		t.Error("author role should not report IsAdmin")
	}
}

func TestPage_HasNextPage(t *testing.T) {
	tests := []struct {
		name      string
		pageIndex int
		pageSize  int
		total     int
		want      bool
	}{
		{"first page of many", 1, 20, 100, true},
		{"exact last page", 5, 20, 100, false},
		{"partial last page", 3, 20, 45, false},
		{"before partial last page", 2, 20, 45, true},
		{"single item", 1, 20, 1, false},
		{"empty", 1, 20, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Page[int]{PageIndex: tt.pageIndex, PageSize: tt.pageSize, Total: tt.total}
			if got := p.HasNextPage(); got != tt.want {
				t.Errorf("HasNextPage() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPage_TotalPages(t *testing.T) {
	tests := []struct {
		total    int
		pageSize int
		want     int
	}{
		{0, 20, 0},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{45, 20, 3},
		{100, 0, 0},
	}

	for _, tt := range tests {
		p := Page[string]{PageSize: tt.pageSize, Total: tt.total}
		if got := p.TotalPages(); got != tt.want {
			t.Errorf("TotalPages() with total=%d size=%d = %d, want %d",
				tt.total, tt.pageSize, got, tt.want)
		}
	}
}

func TestPost_IsPublished(t *testing.T) {
	if !(&Post{Status: PostStatusPublished}).IsPublished() {
		t.Error("published post should report IsPublished")
	}
	if (&Post{Status: PostStatusDraft}).IsPublished() {
		t.Error("draft post should not report IsPublished")
	}
}
