// Copyright (c) 2025-2026 Wavy Blog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain models shared across the application:
// users, posts, categories, images, pagination envelopes and event log entries.
package model

import "time"

// User roles. Role is the sole authorization attribute; there are no
// fine-grained permissions.
const (
	RoleAdmin  = "admin"
	RoleAuthor = "author"
)

// AdminRoles lists the roles allowed into the admin area.
var AdminRoles = []string{RoleAdmin, RoleAuthor}

// User represents an account as returned by the backend API.
type User struct {
	ID        string    `json:"userID"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsAdmin returns true if the user has admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanAccessAdmin returns true if the user's role is on the admin-area
// allow-list. Unknown roles are denied.
func (u *User) CanAccessAdmin() bool {
	for _, role := range AdminRoles {
		if u.Role == role {
			return true
		}
	}
	return false
}
