// Copyright (c) 2025-2026 Wavy Blog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/wavyblog/wavy-go/internal/model"
)

// ListUsersParams filters the user list. Zero values are omitted from the
// request entirely.
type ListUsersParams struct {
	Username  string
	Role      string
	PageIndex int
	PageSize  int
}

// userPage is the backend's user list envelope.
type userPage struct {
	Users     []model.User `json:"users"`
	PageIndex int          `json:"pageIndex"`
	PageSize  int          `json:"pageSize"`
	Total     int          `json:"total"`
}

// ListUsers returns a page of users matching the filters.
func (c *Client) ListUsers(ctx context.Context, token string, params ListUsersParams) (*model.Page[model.User], error) {
	q := listQuery(map[string]string{
		"username": params.Username,
		"role":     params.Role,
	}, params.PageIndex, params.PageSize, model.DefaultPageSize)

	resp, err := c.doRead(ctx, request{
		method: http.MethodGet,
		path:   "/users",
		query:  q,
		token:  token,
	})
	if err != nil {
		return nil, err
	}

	page, err := decode[userPage](resp)
	if err != nil {
		return nil, err
	}
	return &model.Page[model.User]{
		Items:     page.Users,
		PageIndex: page.PageIndex,
		PageSize:  page.PageSize,
		Total:     page.Total,
	}, nil
}

// GetUser fetches a single user by username.
func (c *Client) GetUser(ctx context.Context, token, username string) (*model.User, error) {
	resp, err := c.doRead(ctx, request{
		method: http.MethodGet,
		path:   "/users/" + url.PathEscape(username),
		token:  token,
	})
	if err != nil {
		return nil, err
	}
	return decode[model.User](resp)
}

// UserInput carries the writable user fields. Only admins may change roles;
// the backend enforces this.
type UserInput struct {
	Role string `json:"role,omitempty"`
}

// UpdateUser updates a user account.
func (c *Client) UpdateUser(ctx context.Context, token, username string, input UserInput) error {
	_, err := c.do(ctx, request{
		method: http.MethodPut,
		path:   "/users/" + url.PathEscape(username),
		token:  token,
		body:   input,
	})
	return err
}

// DeleteUser deletes a user account.
func (c *Client) DeleteUser(ctx context.Context, token, username string) error {
	_, err := c.do(ctx, request{
		method: http.MethodDelete,
		path:   "/users/" + url.PathEscape(username),
		token:  token,
	})
	return err
}
