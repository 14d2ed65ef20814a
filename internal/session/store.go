// Copyright (c) 2025-2026 Wavy Blog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"context"
	"encoding/json"

	"github.com/alexedwards/scs/v2"

	"github.com/wavyblog/wavy-go/internal/model"
)

// Session keys. The user is stored as JSON; the token as a plain string.
const (
	keyUser        = "auth_user"
	keyAccessToken = "auth_access_token"
)

// Store is the typed view of a session's authentication state. A session
// holds at most one (user, access token) pair; Set replaces both
// atomically and Clear removes both.
type Store struct {
	sm *scs.SessionManager
}

// NewStore wraps a session manager with typed accessors.
func NewStore(sm *scs.SessionManager) *Store {
	return &Store{sm: sm}
}

// Manager returns the underlying scs session manager.
func (s *Store) Manager() *scs.SessionManager {
	return s.sm
}

// Set stores the user and access token, replacing whatever was there.
// The session token is renewed first to prevent session fixation.
func (s *Store) Set(ctx context.Context, user model.User, accessToken string) error {
	if err := s.sm.RenewToken(ctx); err != nil {
		return err
	}

	data, err := json.Marshal(user)
	if err != nil {
		return err
	}

	s.sm.Put(ctx, keyUser, string(data))
	s.sm.Put(ctx, keyAccessToken, accessToken)
	return nil
}

// Clear removes the user and access token. Calling it on an empty session
// is a no-op; a cleared session is indistinguishable from one that never
// authenticated.
func (s *Store) Clear(ctx context.Context) error {
	s.sm.Remove(ctx, keyUser)
	s.sm.Remove(ctx, keyAccessToken)
	return s.sm.RenewToken(ctx)
}

// User returns the authenticated user, or nil when the session has none.
func (s *Store) User(ctx context.Context) *model.User {
	data := s.sm.GetString(ctx, keyUser)
	if data == "" {
		return nil
	}

	var user model.User
	if err := json.Unmarshal([]byte(data), &user); err != nil {
		// Corrupt session data reads as logged out
		return nil
	}
	return &user
}

// Token returns the access token, or "" when the session has none.
func (s *Store) Token(ctx context.Context) string {
	return s.sm.GetString(ctx, keyAccessToken)
}

// Authenticated reports whether the session holds a complete auth pair.
func (s *Store) Authenticated(ctx context.Context) bool {
	return s.User(ctx) != nil && s.Token(ctx) != ""
}
