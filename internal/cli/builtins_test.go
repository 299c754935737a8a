// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/skiff/internal/commands"
	"github.com/jeranaias/skiff/internal/config"
	"github.com/jeranaias/skiff/internal/storage"
)

// stubAgent satisfies agent.Agent for handler tests.
type stubAgent struct {
	models []string
}

func (s *stubAgent) Chat(ctx context.Context, prompt string) (string, error) { return "", nil }
func (s *stubAgent) Stream(ctx context.Context, prompt string, fn func(chunk string)) error {
	return nil
}
func (s *stubAgent) Models(ctx context.Context) ([]string, error) { return s.models, nil }
func (s *stubAgent) Abort()                                       {}

func newTestHost(t *testing.T) (*commands.Executor, *commands.Context) {
	t.Helper()
	t.Setenv("SKIFF_CONFIG_DIR", t.TempDir())

	registry := commands.NewRegistry()
	RegisterBuiltins(registry, "test")

	store, err := storage.NewConversationStore(filepath.Join(t.TempDir(), "conversations"))
	require.NoError(t, err)

	cfg := config.Default()
	cmdCtx := &commands.Context{
		Config: cfg,
		Store:  store,
	}
	return commands.NewExecutor(registry), cmdCtx
}

func TestHelpListsVisibleCommands(t *testing.T) {
	exec, cmdCtx := newTestHost(t)

	res := exec.Execute(context.Background(), "/help", cmdCtx)
	require.True(t, res.Success)
	assert.Contains(t, res.Message, "/help")
	assert.Contains(t, res.Message, "/quit")
	assert.NotContains(t, res.Message, "/debug")
}

func TestHelpSingleCommand(t *testing.T) {
	exec, cmdCtx := newTestHost(t)

	res := exec.Execute(context.Background(), "/help load", cmdCtx)
	require.True(t, res.Success)
	assert.Contains(t, res.Message, "/load")
	assert.Contains(t, res.Message, "Aliases: /l, /resume")
}

func TestHelpUnknownTopic(t *testing.T) {
	exec, cmdCtx := newTestHost(t)

	res := exec.Execute(context.Background(), "/help frobnicate", cmdCtx)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "no such command")
}

func TestQuitSignalsExit(t *testing.T) {
	exec, cmdCtx := newTestHost(t)

	for _, input := range []string{"/quit", "/exit", "/q"} {
		res := exec.Execute(context.Background(), input, cmdCtx)
		assert.True(t, res.Success, input)
		assert.True(t, res.ShouldExit, input)
	}
}

func TestClearSetsFlag(t *testing.T) {
	exec, cmdCtx := newTestHost(t)

	res := exec.Execute(context.Background(), "/clear", cmdCtx)
	require.True(t, res.Success)
	assert.Equal(t, true, res.Data["clear"])

	res = exec.Execute(context.Background(), "/new", cmdCtx)
	require.True(t, res.Success)
	assert.Equal(t, true, res.Data["clear"])
}

func TestSaveLoadRoundTrip(t *testing.T) {
	exec, cmdCtx := newTestHost(t)

	cmdCtx.Conversation = &storage.StoredConversation{
		Messages: []storage.StoredMessage{
			storage.NewStoredMessage("user", "how do tides work"),
			storage.NewStoredMessage("assistant", "gravity, mostly"),
		},
	}

	res := exec.Execute(context.Background(), "/save", cmdCtx)
	require.True(t, res.Success, res.Message)
	id := strings.TrimPrefix(res.Message, "Saved conversation ")

	res = exec.Execute(context.Background(), "/load "+id[:8], cmdCtx)
	require.True(t, res.Success, res.Message)
	conv, ok := res.Data["conversation"].(*storage.StoredConversation)
	require.True(t, ok)
	assert.Len(t, conv.Messages, 2)
}

func TestSaveWithoutTranscript(t *testing.T) {
	exec, cmdCtx := newTestHost(t)

	res := exec.Execute(context.Background(), "/save", cmdCtx)
	assert.False(t, res.Success)
	assert.Equal(t, "Nothing to save yet", res.Message)
}

func TestSessionsEmpty(t *testing.T) {
	exec, cmdCtx := newTestHost(t)

	res := exec.Execute(context.Background(), "/sessions", cmdCtx)
	require.True(t, res.Success)
	assert.Equal(t, "No saved conversations", res.Message)
}

func TestLoadUnknownID(t *testing.T) {
	exec, cmdCtx := newTestHost(t)

	res := exec.Execute(context.Background(), "/load deadbeef", cmdCtx)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "no conversation matching")
}

func TestModelShowAndSwitch(t *testing.T) {
	exec, cmdCtx := newTestHost(t)
	cmdCtx.Config.Agent.Model = "qwen2.5:7b"

	res := exec.Execute(context.Background(), "/model", cmdCtx)
	require.True(t, res.Success)
	assert.Contains(t, res.Message, "qwen2.5:7b")

	var switched string
	cmdCtx.SetModel = func(model string) { switched = model }

	res = exec.Execute(context.Background(), "/m llama3.2", cmdCtx)
	require.True(t, res.Success)
	assert.Equal(t, "llama3.2", switched)
	assert.Equal(t, "llama3.2", cmdCtx.Config.Agent.Model)
}

func TestModelsRequiresAgent(t *testing.T) {
	exec, cmdCtx := newTestHost(t)

	res := exec.Execute(context.Background(), "/models", cmdCtx)
	assert.False(t, res.Success)
	assert.Equal(t, "No agent available", res.Message)
}

func TestModelsListsSorted(t *testing.T) {
	exec, cmdCtx := newTestHost(t)
	cmdCtx.Agent = &stubAgent{models: []string{"zephyr", "llama3.2"}}

	res := exec.Execute(context.Background(), "/models", cmdCtx)
	require.True(t, res.Success)
	assert.Less(t, strings.Index(res.Message, "llama3.2"), strings.Index(res.Message, "zephyr"))
}

func TestConfigGetSet(t *testing.T) {
	exec, cmdCtx := newTestHost(t)

	res := exec.Execute(context.Background(), "/config theme dark", cmdCtx)
	require.True(t, res.Success, res.Message)

	res = exec.Execute(context.Background(), "/cfg theme", cmdCtx)
	require.True(t, res.Success)
	assert.Equal(t, "dark", res.Message)

	// The set must have been persisted.
	loaded, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "dark", loaded.UI.Theme)
}

func TestConfigUnknownKey(t *testing.T) {
	exec, cmdCtx := newTestHost(t)

	res := exec.Execute(context.Background(), "/config nope", cmdCtx)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "unknown config key")
}

func TestHistoryEmpty(t *testing.T) {
	exec, cmdCtx := newTestHost(t)

	hist, err := storage.OpenHistory(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { hist.Close() })
	cmdCtx.History = hist

	res := exec.Execute(context.Background(), "/history", cmdCtx)
	require.True(t, res.Success)
	assert.Equal(t, "No matching history", res.Message)
}

func TestHistorySearch(t *testing.T) {
	exec, cmdCtx := newTestHost(t)

	hist, err := storage.OpenHistory(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { hist.Close() })
	cmdCtx.History = hist

	ctx := context.Background()
	require.NoError(t, hist.Append(ctx, "s1", "user", "explain goroutines"))
	require.NoError(t, hist.Append(ctx, "s1", "user", "explain channels"))

	res := exec.Execute(ctx, "/hist channels", cmdCtx)
	require.True(t, res.Success)
	assert.Contains(t, res.Message, "channels")
	assert.NotContains(t, res.Message, "goroutines")
}
