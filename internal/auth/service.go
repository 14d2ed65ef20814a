// Copyright (c) 2025-2026 Wavy Blog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package auth bridges the backend's token auth and the browser session.
// The backend owns credentials and refresh tokens; this package owns the
// session that caches the resulting (user, access token) pair.
package auth

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/wavyblog/wavy-go/internal/api"
	"github.com/wavyblog/wavy-go/internal/config"
	"github.com/wavyblog/wavy-go/internal/model"
	"github.com/wavyblog/wavy-go/internal/session"
)

// Service handles login, logout, and session bootstrap against the backend.
type Service struct {
	client       *api.Client
	sessions     *session.Store
	cookieName   string
	cookieMaxAge int
	secure       bool
	log          *slog.Logger
}

// NewService creates an auth service.
func NewService(client *api.Client, sessions *session.Store, cfg config.Config) *Service {
	return &Service{
		client:       client,
		sessions:     sessions,
		cookieName:   cfg.RefreshCookieName,
		cookieMaxAge: cfg.RefreshCookieMaxAge,
		secure:       !cfg.IsDevelopment(),
		log:          slog.Default(),
	}
}

// Login exchanges credentials for a session. On success the browser gets
// the backend's rotated refresh cookie and the session holds the user and
// access token.
func (s *Service) Login(w http.ResponseWriter, r *http.Request, creds api.Credentials) (*model.User, error) {
	result, err := s.client.Login(r.Context(), creds)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Set(r.Context(), result.User, result.AccessToken); err != nil {
		return nil, err
	}
	s.forwardRefreshCookie(w, result.Cookies)

	s.log.Info("login", "user_id", result.User.ID, "username", result.User.Username)
	return &result.User, nil
}

// Logout clears the session and expires the refresh cookie. The backend is
// not told; its refresh token simply goes unused until it expires.
func (s *Service) Logout(w http.ResponseWriter, r *http.Request) error {
	if user := s.sessions.User(r.Context()); user != nil {
		s.log.Info("logout", "user_id", user.ID)
	}
	s.expireRefreshCookie(w)
	return s.sessions.Clear(r.Context())
}

// Bootstrap creates middleware that establishes a session for requests that
// arrive without one. A live session passes through untouched. Without one,
// the refresh cookie is the only way in: no cookie means no backend call at
// all, just a redirect home. A failed refresh tears everything down so the
// next attempt starts clean.
func (s *Service) Bootstrap() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if s.sessions.Authenticated(r.Context()) {
				next.ServeHTTP(w, r)
				return
			}

			cookie, err := r.Cookie(s.cookieName)
			if err != nil {
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			}

			result, err := s.client.Refresh(r.Context(), cookie)
			if err != nil {
				s.log.Warn("session bootstrap failed", "error", err)
				s.TearDown(w, r)
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			}

			if err := s.sessions.Set(r.Context(), result.User, result.AccessToken); err != nil {
				s.log.Error("failed to store bootstrapped session", "error", err)
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			}
			s.forwardRefreshCookie(w, result.Cookies)

			s.log.Info("session bootstrapped", "user_id", result.User.ID)
			next.ServeHTTP(w, r)
		})
	}
}

// Refresh re-runs the cookie exchange for an existing session, e.g. when
// the access token has expired mid-session. Returns the new user on
// success; on failure the session is already torn down.
func (s *Service) Refresh(w http.ResponseWriter, r *http.Request) (*model.User, error) {
	cookie, err := r.Cookie(s.cookieName)
	if err != nil {
		s.TearDown(w, r)
		return nil, err
	}

	result, err := s.client.Refresh(r.Context(), cookie)
	if err != nil {
		s.TearDown(w, r)
		return nil, err
	}

	if err := s.sessions.Set(r.Context(), result.User, result.AccessToken); err != nil {
		return nil, err
	}
	s.forwardRefreshCookie(w, result.Cookies)
	return &result.User, nil
}

// TearDown clears the session and expires the refresh cookie. Called when
// the backend answers 401 mid-session: the tokens are dead and keeping
// either half invites a redirect loop.
func (s *Service) TearDown(w http.ResponseWriter, r *http.Request) {
	s.expireRefreshCookie(w)
	if err := s.sessions.Clear(r.Context()); err != nil {
		s.log.Error("failed to clear session", "error", err)
	}
}

// Token returns the session's access token, or "" when unauthenticated.
func (s *Service) Token(ctx context.Context) string {
	return s.sessions.Token(ctx)
}

// forwardRefreshCookie relays the backend's rotated refresh cookie to the
// browser. Missing attributes get the canonical values so the cookie is
// never weaker than intended regardless of what the backend sent.
func (s *Service) forwardRefreshCookie(w http.ResponseWriter, cookies []*http.Cookie) {
	for _, c := range cookies {
		if c.Name != s.cookieName {
			continue
		}
		if c.Path == "" {
			c.Path = "/"
		}
		if c.MaxAge == 0 && c.Expires.IsZero() {
			c.MaxAge = s.cookieMaxAge
		}
		if c.SameSite == http.SameSiteDefaultMode {
			c.SameSite = http.SameSiteStrictMode
		}
		c.HttpOnly = true
		c.Secure = s.secure
		http.SetCookie(w, c)
		return
	}
}

// expireRefreshCookie overwrites the refresh cookie with an expired one.
func (s *Service) expireRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteStrictMode,
	})
}
