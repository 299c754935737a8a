// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *ConversationStore {
	t.Helper()
	store, err := NewConversationStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestConversationStore_SaveAndLoad(t *testing.T) {
	store := newTestStore(t)

	conv := &StoredConversation{
		Model: "test-model",
		Messages: []StoredMessage{
			NewStoredMessage("user", "how do slices work?"),
			NewStoredMessage("assistant", "they are views over arrays"),
		},
	}

	id, err := store.Save(conv)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	loaded, err := store.Load(id)
	require.NoError(t, err)
	assert.Equal(t, "test-model", loaded.Model)
	require.Len(t, loaded.Messages, 2)
	assert.Equal(t, "user", loaded.Messages[0].Role)
	assert.False(t, loaded.CreatedAt.IsZero())
}

func TestConversationStore_SummaryFromFirstUserMessage(t *testing.T) {
	store := newTestStore(t)

	conv := &StoredConversation{
		Messages: []StoredMessage{
			NewStoredMessage("system", "you are helpful"),
			NewStoredMessage("user", "multi\nline\nquestion"),
		},
	}
	id, err := store.Save(conv)
	require.NoError(t, err)

	loaded, err := store.Load(id)
	require.NoError(t, err)
	assert.Equal(t, "multi line question", loaded.Summary)
}

func TestConversationStore_LoadMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Load("no-such-id")
	assert.ErrorIs(t, err, ErrConversationNotFound)
}

func TestConversationStore_List(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Save(&StoredConversation{Messages: []StoredMessage{NewStoredMessage("user", "first")}})
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond) // distinct UpdatedAt
	id2, err := store.Save(&StoredConversation{Messages: []StoredMessage{NewStoredMessage("user", "second")}})
	require.NoError(t, err)

	metas, err := store.List()
	require.NoError(t, err)
	require.Len(t, metas, 2)
	// Most recent first
	assert.Equal(t, id2, metas[0].ID)
	assert.Equal(t, "second", metas[0].Preview)
	assert.Equal(t, 1, metas[0].MessageCount)
}

func TestConversationStore_Delete(t *testing.T) {
	store := newTestStore(t)

	id, err := store.Save(&StoredConversation{Messages: []StoredMessage{NewStoredMessage("user", "x")}})
	require.NoError(t, err)

	require.NoError(t, store.Delete(id))
	_, err = store.Load(id)
	assert.ErrorIs(t, err, ErrConversationNotFound)

	assert.ErrorIs(t, store.Delete(id), ErrConversationNotFound)
}

func TestConversationStore_EnforceLimit(t *testing.T) {
	store := newTestStore(t)
	store.MaxConversations = 2

	for i := 0; i < 4; i++ {
		_, err := store.Save(&StoredConversation{
			Messages: []StoredMessage{NewStoredMessage("user", "msg")},
		})
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond) // distinct UpdatedAt
	}

	metas, err := store.List()
	require.NoError(t, err)
	assert.LessOrEqual(t, len(metas), 2)
}
