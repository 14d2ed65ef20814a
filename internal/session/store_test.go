// Copyright (c) 2025-2026 Wavy Blog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"context"
	"testing"

	"github.com/alexedwards/scs/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wavyblog/wavy-go/internal/model"
)

// testStore uses the in-memory scs store; the sqlite-backed store only
// differs in persistence.
func testStore(t *testing.T) (*Store, context.Context) {
	t.Helper()

	sm := scs.New()
	ctx, err := sm.Load(context.Background(), "")
	require.NoError(t, err)
	return NewStore(sm), ctx
}

func TestStore_SetAndGet(t *testing.T) {
	s, ctx := testStore(t)

	user := model.User{ID: "u1", Username: "alice", Role: model.RoleAdmin}
	require.NoError(t, s.Set(ctx, user, "token-1"))

	got := s.User(ctx)
	require.NotNil(t, got)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, "token-1", s.Token(ctx))
	assert.True(t, s.Authenticated(ctx))
}

func TestStore_SetReplacesPreviousPair(t *testing.T) {
	s, ctx := testStore(t)

	require.NoError(t, s.Set(ctx, model.User{ID: "u1", Username: "alice"}, "token-1"))
	require.NoError(t, s.Set(ctx, model.User{ID: "u2", Username: "bob"}, "token-2"))

	got := s.User(ctx)
	require.NotNil(t, got)
	assert.Equal(t, "bob", got.Username)
	assert.Equal(t, "token-2", s.Token(ctx))
}

func TestStore_Clear(t *testing.T) {
	s, ctx := testStore(t)

	require.NoError(t, s.Set(ctx, model.User{ID: "u1"}, "token-1"))
	require.NoError(t, s.Clear(ctx))

	assert.Nil(t, s.User(ctx))
	assert.Empty(t, s.Token(ctx))
	assert.False(t, s.Authenticated(ctx))
}

func TestStore_ClearIsIdempotent(t *testing.T) {
	s, ctx := testStore(t)

	require.NoError(t, s.Clear(ctx))
	require.NoError(t, s.Clear(ctx))

	assert.Nil(t, s.User(ctx))
	assert.False(t, s.Authenticated(ctx))
}

func TestStore_EmptySessionReadsAsLoggedOut(t *testing.T) {
	s, ctx := testStore(t)

	assert.Nil(t, s.User(ctx))
	assert.Empty(t, s.Token(ctx))
	assert.False(t, s.Authenticated(ctx))
}
