// Copyright (c) 2025-2026 Wavy Blog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected in production.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"WAVY_DB_PATH" envDefault:"./data/wavy.db"`
	SessionSecret string `env:"WAVY_SESSION_SECRET,required"`
	ServerHost    string `env:"WAVY_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"WAVY_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"WAVY_ENV" envDefault:"development"`
	LogLevel      string `env:"WAVY_LOG_LEVEL" envDefault:"info"`

	// Backend API configuration
	APIBaseURL    string `env:"WAVY_API_BASE_URL" envDefault:"http://localhost:8000/api"`
	APITimeout    int    `env:"WAVY_API_TIMEOUT" envDefault:"15"`    // Backend request timeout in seconds
	APIMaxRetries int    `env:"WAVY_API_MAX_RETRIES" envDefault:"2"` // Extra attempts for failed reads

	// Refresh token cookie defaults, applied when the backend omits attributes
	RefreshCookieName   string `env:"WAVY_REFRESH_COOKIE_NAME" envDefault:"refresh_token"`
	RefreshCookieMaxAge int    `env:"WAVY_REFRESH_COOKIE_MAX_AGE" envDefault:"1209600"` // 14 days in seconds

	// Cache configuration
	RedisURL     string `env:"WAVY_REDIS_URL"`                         // Optional Redis URL for distributed caching
	CachePrefix  string `env:"WAVY_CACHE_PREFIX" envDefault:"wavy:"`   // Redis key prefix
	CacheTTL     int    `env:"WAVY_CACHE_TTL" envDefault:"300"`        // Default cache TTL in seconds
	CacheMaxSize int    `env:"WAVY_CACHE_MAX_SIZE" envDefault:"10000"` // Max memory cache entries

	// Thumbnail proxy configuration
	ThumbMaxWidth int `env:"WAVY_THUMB_MAX_WIDTH" envDefault:"1280"` // Upper bound for requested widths
	ThumbQuality  int `env:"WAVY_THUMB_QUALITY" envDefault:"85"`     // JPEG quality for resized output
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// APIRequestTimeout returns the backend request timeout as a duration.
func (c Config) APIRequestTimeout() time.Duration {
	return time.Duration(c.APITimeout) * time.Second
}

// MinSessionSecretLength is the minimum required length for the session secret.
// AES-256 requires 32 bytes minimum for secure encryption.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// Validate session secret length
	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("WAVY_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	// Reject known weak/default secrets
	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("WAVY_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	// Warn about low-entropy secrets
	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("WAVY_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
