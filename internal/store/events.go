// Copyright (c) 2025-2026 Wavy Blog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/wavyblog/wavy-go/internal/model"
)

// Store wraps the local database with typed queries.
type Store struct {
	db *sql.DB
}

// New creates a Store over an open database.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// CreateEventParams holds the fields for a new event log entry.
type CreateEventParams struct {
	Level     string
	Category  string
	Message   string
	UserID    sql.NullString
	Metadata  string
	CreatedAt time.Time
}

// CreateEvent inserts an event log entry and returns it with its ID.
func (s *Store) CreateEvent(ctx context.Context, params CreateEventParams) (*model.Event, error) {
	if params.Metadata == "" {
		params.Metadata = "{}"
	}
	if params.CreatedAt.IsZero() {
		params.CreatedAt = time.Now()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO events (level, category, message, user_id, metadata, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		params.Level, params.Category, params.Message, params.UserID, params.Metadata, params.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting event: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading event id: %w", err)
	}

	return &model.Event{
		ID:        id,
		Level:     params.Level,
		Category:  params.Category,
		Message:   params.Message,
		UserID:    params.UserID,
		Metadata:  params.Metadata,
		CreatedAt: params.CreatedAt,
	}, nil
}

// ListEventsParams filters and paginates the event log.
type ListEventsParams struct {
	Level    string // empty matches all levels
	Category string // empty matches all categories
	Limit    int
	Offset   int
}

// ListEvents returns event log entries, newest first.
func (s *Store) ListEvents(ctx context.Context, params ListEventsParams) ([]model.Event, error) {
	if params.Limit <= 0 {
		params.Limit = 50
	}

	query := `SELECT id, level, category, message, user_id, metadata, created_at
		FROM events WHERE 1=1`
	args := []any{}
	if params.Level != "" {
		query += " AND level = ?"
		args = append(args, params.Level)
	}
	if params.Category != "" {
		query += " AND category = ?"
		args = append(args, params.Category)
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, params.Limit, params.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var ev model.Event
		if err := rows.Scan(&ev.ID, &ev.Level, &ev.Category, &ev.Message,
			&ev.UserID, &ev.Metadata, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// CountEvents returns the number of events matching the filters.
func (s *Store) CountEvents(ctx context.Context, level, category string) (int, error) {
	query := "SELECT COUNT(*) FROM events WHERE 1=1"
	args := []any{}
	if level != "" {
		query += " AND level = ?"
		args = append(args, level)
	}
	if category != "" {
		query += " AND category = ?"
		args = append(args, category)
	}

	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting events: %w", err)
	}
	return count, nil
}

// PurgeEventsBefore deletes event log entries older than the cutoff and
// returns how many were removed.
func (s *Store) PurgeEventsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM events WHERE created_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("purging events: %w", err)
	}
	return res.RowsAffected()
}
