// Copyright (c) 2025-2026 Wavy Blog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Post statuses.
const (
	PostStatusPublished = "published"
	PostStatusDraft     = "draft"
)

// Post represents a blog post. The slug is the canonical identifier; an
// update may reissue it when the title changes, and callers must follow
// the slug returned by the backend rather than the one they sent.
type Post struct {
	Slug         string    `json:"slug"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	AuthorID     string    `json:"authorID"`
	AuthorName   string    `json:"authorName"`
	Category     string    `json:"category"`
	ThumbnailURL string    `json:"thumbnailURL"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// IsPublished returns true if the post is visible on the public site.
func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}

// PostInput carries the writable fields for create and update operations.
type PostInput struct {
	Title        string `json:"title"`
	Content      string `json:"content"`
	Category     string `json:"category"`
	ThumbnailURL string `json:"thumbnailURL,omitempty"`
	Status       string `json:"status"`
}
