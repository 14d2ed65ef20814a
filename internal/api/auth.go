// Copyright (c) 2025-2026 Wavy Blog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"net/http"

	"github.com/wavyblog/wavy-go/internal/model"
)

// Credentials is the login request payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult is the backend's response to a successful login or refresh.
// Cookies holds the Set-Cookie values (the rotated refresh token) that must
// be forwarded to the browser verbatim.
type AuthResult struct {
	AccessToken string     `json:"access_token"`
	User        model.User `json:"user"`
	Cookies     []*http.Cookie
}

// Login exchanges credentials for an access token, a user and a refresh
// token cookie. Never retried: a failed login is an answer, not an outage.
func (c *Client) Login(ctx context.Context, creds Credentials) (*AuthResult, error) {
	resp, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/users/login",
		body:   creds,
	})
	if err != nil {
		return nil, err
	}

	result, err := decode[AuthResult](resp)
	if err != nil {
		return nil, err
	}
	result.Cookies = resp.cookies
	return result, nil
}

// Refresh exchanges a refresh token cookie for a fresh access token and
// user. The backend rotates the refresh token on every call; the rotated
// cookie comes back in Cookies. Never retried: any failure means the
// session is gone and the caller must start over.
func (c *Client) Refresh(ctx context.Context, refreshCookie *http.Cookie) (*AuthResult, error) {
	resp, err := c.do(ctx, request{
		method:  http.MethodPost,
		path:    "/users/refresh",
		cookies: []*http.Cookie{refreshCookie},
	})
	if err != nil {
		return nil, err
	}

	result, err := decode[AuthResult](resp)
	if err != nil {
		return nil, err
	}
	result.Cookies = resp.cookies
	return result, nil
}
