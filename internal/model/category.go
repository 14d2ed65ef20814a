// Copyright (c) 2025-2026 Wavy Blog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Category groups posts. Description is optional; when empty it is omitted
// from payloads entirely rather than sent as an empty string.
type Category struct {
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CategoryInput carries the writable fields for create and update operations.
type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}
