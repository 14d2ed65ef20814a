// Copyright (c) 2025-2026 Wavy Blog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wavyblog/wavy-go/internal/model"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, Migrate(db))
	return db
}

func TestMigrate_CreatesTables(t *testing.T) {
	db := testDB(t)

	for _, table := range []string{"sessions", "events"} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
	}
}

func TestStore_CreateAndListEvents(t *testing.T) {
	s := New(testDB(t))
	ctx := context.Background()

	ev, err := s.CreateEvent(ctx, CreateEventParams{
		Level:    model.EventLevelWarning,
		Category: model.EventCategoryAuth,
		Message:  "login failed",
		UserID:   sql.NullString{String: "u1", Valid: true},
		Metadata: `{"ip":"127.0.0.1"}`,
	})
	require.NoError(t, err)
	assert.NotZero(t, ev.ID)

	events, err := s.ListEvents(ctx, ListEventsParams{Limit: 10})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "login failed", events[0].Message)
	assert.Equal(t, model.EventCategoryAuth, events[0].Category)
	assert.Equal(t, "u1", events[0].UserID.String)
}

func TestStore_ListEvents_FiltersAndOrder(t *testing.T) {
	s := New(testDB(t))
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i, level := range []string{
		model.EventLevelInfo, model.EventLevelWarning, model.EventLevelError,
	} {
		_, err := s.CreateEvent(ctx, CreateEventParams{
			Level:     level,
			Category:  model.EventCategorySystem,
			Message:   level + " event",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	// Newest first
	all, err := s.ListEvents(ctx, ListEventsParams{Limit: 10})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "error event", all[0].Message)

	// Level filter
	warnings, err := s.ListEvents(ctx, ListEventsParams{Level: model.EventLevelWarning, Limit: 10})
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, "warning event", warnings[0].Message)

	count, err := s.CountEvents(ctx, model.EventLevelError, "")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestStore_CreateEvent_EmptyMetadataDefaults(t *testing.T) {
	s := New(testDB(t))

	ev, err := s.CreateEvent(context.Background(), CreateEventParams{
		Level:    model.EventLevelInfo,
		Category: model.EventCategorySystem,
		Message:  "no metadata",
	})
	require.NoError(t, err)
	assert.Equal(t, "{}", ev.Metadata)
}

func TestStore_PurgeEventsBefore(t *testing.T) {
	s := New(testDB(t))
	ctx := context.Background()

	old := time.Now().Add(-48 * time.Hour)
	_, err := s.CreateEvent(ctx, CreateEventParams{
		Level: model.EventLevelInfo, Category: model.EventCategorySystem,
		Message: "old", CreatedAt: old,
	})
	require.NoError(t, err)
	_, err = s.CreateEvent(ctx, CreateEventParams{
		Level: model.EventLevelInfo, Category: model.EventCategorySystem,
		Message: "recent",
	})
	require.NoError(t, err)

	purged, err := s.PurgeEventsBefore(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	remaining, err := s.CountEvents(ctx, "", "")
	require.NoError(t, err)
	assert.Equal(t, 1, remaining)
}
