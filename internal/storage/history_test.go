// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHistory(t *testing.T) *HistoryStore {
	t.Helper()
	h, err := OpenHistory(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { h.Close() })
	return h
}

func TestHistoryStore_AppendAndRecent(t *testing.T) {
	h := newTestHistory(t)
	ctx := context.Background()

	require.NoError(t, h.Append(ctx, "sess-1", "user", "what is a goroutine"))
	require.NoError(t, h.Append(ctx, "sess-1", "assistant", "a lightweight thread"))
	require.NoError(t, h.Append(ctx, "sess-2", "user", "explain channels"))

	entries, err := h.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	// Newest first
	assert.Equal(t, "explain channels", entries[0].Content)
	assert.Equal(t, "sess-2", entries[0].SessionID)
	assert.False(t, entries[0].CreatedAt.IsZero())
}

func TestHistoryStore_Search(t *testing.T) {
	h := newTestHistory(t)
	ctx := context.Background()

	require.NoError(t, h.Append(ctx, "s", "user", "goroutines and channels"))
	require.NoError(t, h.Append(ctx, "s", "user", "slices and maps"))

	entries, err := h.Search(ctx, "channel", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Content, "channels")

	entries, err = h.Search(ctx, "nothing here", 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestHistoryStore_Count(t *testing.T) {
	h := newTestHistory(t)
	ctx := context.Background()

	n, err := h.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, h.Append(ctx, "s", "user", "one"))
	n, err = h.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestOpenHistory_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "history.db")
	h, err := OpenHistory(path)
	require.NoError(t, err)
	h.Close()
}
