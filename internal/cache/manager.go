// Copyright (c) 2025-2026 Wavy Blog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"log/slog"
	"time"
)

// Resource identifies a cached resource type. Each resource owns a key
// namespace; invalidation is coarse, wiping the whole namespace.
type Resource string

// Cached resource types.
const (
	ResourcePosts      Resource = "posts"
	ResourceCategories Resource = "categories"
	ResourceUsers      Resource = "users"
	ResourceImages     Resource = "images"
)

// resources lists every namespace the manager owns.
var resources = []Resource{ResourcePosts, ResourceCategories, ResourceUsers, ResourceImages}

// Manager groups the resource caches behind one Cacher and implements the
// invalidation policy: any successful mutation of a resource type drops
// every cached list and detail of that type.
type Manager struct {
	cache Cacher
	ttl   time.Duration
}

// NewManager creates a manager over the given cache backend.
func NewManager(cache Cacher, ttl time.Duration) *Manager {
	return &Manager{cache: cache, ttl: ttl}
}

// NewManagerWithConfig creates a manager with its own cache backend.
func NewManagerWithConfig(cfg Config) *Manager {
	return NewManager(NewCache(cfg), cfg.DefaultTTL)
}

// Stop closes the underlying cache.
func (m *Manager) Stop() {
	if err := m.cache.Close(); err != nil {
		slog.Warn("closing cache", "category", "cache", "error", err)
	}
}

// Key builds a namespaced cache key: resource, kind ("list" or "detail"),
// then the identifying parts.
func Key(res Resource, kind string, parts ...string) string {
	key := string(res) + ":" + kind
	for _, p := range parts {
		key += ":" + p
	}
	return key
}

// GetOrSet returns the cached bytes for key, or computes, stores and
// returns them. Cache errors degrade to computing the value fresh.
func (m *Manager) GetOrSet(ctx context.Context, key string, fn func() ([]byte, error)) ([]byte, error) {
	if data, err := m.cache.Get(ctx, key); err == nil {
		return data, nil
	}

	data, err := fn()
	if err != nil {
		return nil, err
	}
	if err := m.cache.Set(ctx, key, data, m.ttl); err != nil {
		slog.Warn("cache set failed", "category", "cache", "key", key, "error", err)
	}
	return data, nil
}

// Invalidate wipes every cached entry for a resource type.
func (m *Manager) Invalidate(ctx context.Context, res Resource) {
	if err := m.cache.DeleteByPrefix(ctx, string(res)+":"); err != nil {
		slog.Warn("cache invalidation failed", "category", "cache",
			"resource", string(res), "error", err)
	}
}

// InvalidateAll wipes every resource namespace.
func (m *Manager) InvalidateAll(ctx context.Context) {
	for _, res := range resources {
		m.Invalidate(ctx, res)
	}
}

// Cache returns the underlying Cacher for typed wrappers.
func (m *Manager) Cache() Cacher {
	return m.cache
}

// TTL returns the manager's default entry lifetime.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// ResourceStats pairs a resource namespace with backend-wide statistics.
type ResourceStats struct {
	Resource Resource
	Stats    Stats
}

// AllStats returns statistics when the backend provides them. The counters
// are backend-wide; per-namespace accounting is not tracked.
func (m *Manager) AllStats() []ResourceStats {
	sp, ok := m.cache.(StatsProvider)
	if !ok {
		return nil
	}

	stats := sp.Stats()
	out := make([]ResourceStats, 0, len(resources))
	for _, res := range resources {
		out = append(out, ResourceStats{Resource: res, Stats: stats})
	}
	return out
}

// TotalStats returns the backend-wide statistics, or zero when the
// backend does not track them.
func (m *Manager) TotalStats() Stats {
	if sp, ok := m.cache.(StatsProvider); ok {
		return sp.Stats()
	}
	return Stats{}
}
