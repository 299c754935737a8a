// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/skiff/internal/commands"
	"github.com/jeranaias/skiff/internal/config"
)

func testRegistry() *commands.Registry {
	r := commands.NewRegistry()
	r.Register(&commands.Command{
		Name:        "ping",
		Description: "Reply with pong",
		Handler: func(ctx context.Context, args []string, cmdCtx *commands.Context) (*commands.Result, error) {
			return commands.Ok("pong"), nil
		},
	})
	r.Register(&commands.Command{
		Name:    "quit",
		Aliases: []string{"q"},
		Handler: func(ctx context.Context, args []string, cmdCtx *commands.Context) (*commands.Result, error) {
			return commands.Exit(""), nil
		},
	})
	return r
}

func testModel() Model {
	return New(testRegistry(), Options{Config: config.Default(), Version: "test"})
}

func TestResizePropagates(t *testing.T) {
	m := testModel()

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	got := updated.(Model)

	if got.width != 120 || got.height != 40 {
		t.Errorf("size = %dx%d, want 120x40", got.width, got.height)
	}
	if got.viewport.Height != 40-chromeHeight {
		t.Errorf("viewport height = %d, want %d", got.viewport.Height, 40-chromeHeight)
	}
}

func TestCommandResultAppendsSystemMessage(t *testing.T) {
	m := testModel()

	updated, _ := m.handleCommandResult(commandResultMsg{
		input:  "/ping",
		result: commands.Ok("pong"),
	})
	got := updated.(Model)

	if len(got.conversation.Messages) != 1 {
		t.Fatalf("messages = %d, want 1", len(got.conversation.Messages))
	}
	if got.conversation.Messages[0].Role != "system" {
		t.Errorf("role = %q, want system", got.conversation.Messages[0].Role)
	}
	if got.conversation.Messages[0].Content != "pong" {
		t.Errorf("content = %q, want pong", got.conversation.Messages[0].Content)
	}
}

func TestCommandResultExitQuits(t *testing.T) {
	m := testModel()

	updated, cmd := m.handleCommandResult(commandResultMsg{
		input:  "/quit",
		result: commands.Exit(""),
	})
	got := updated.(Model)

	if !got.quitting {
		t.Error("exit result should set quitting")
	}
	if cmd == nil {
		t.Fatal("exit result should produce a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("exit result should produce tea.Quit")
	}
}

func TestCommandResultClearResetsConversation(t *testing.T) {
	m := testModel()
	m.record("user", "hello")
	m.record("assistant", "hi")

	updated, _ := m.handleCommandResult(commandResultMsg{
		input: "/clear",
		result: &commands.Result{
			Success: true,
			Data:    map[string]any{"clear": true},
		},
	})
	got := updated.(Model)

	if len(got.conversation.Messages) != 0 {
		t.Errorf("messages = %d after clear, want 0", len(got.conversation.Messages))
	}
}

func TestFailedResultSetsNotice(t *testing.T) {
	m := testModel()

	updated, _ := m.handleCommandResult(commandResultMsg{
		input:  "/nope",
		result: commands.Fail("Unknown command: nope"),
	})
	got := updated.(Model)

	if got.notice != "Unknown command: nope" {
		t.Errorf("notice = %q", got.notice)
	}
	if !got.noticeIsErr {
		t.Error("failed result should flag the notice as an error")
	}
}

func TestSubmitWithoutAgentRefusesChat(t *testing.T) {
	m := testModel()
	m.input.SetValue("hello there")

	updated, cmd := m.handleSubmit()
	got := updated.(Model)

	if cmd != nil {
		t.Error("chat without an agent should not produce a command")
	}
	if got.notice == "" || !got.noticeIsErr {
		t.Errorf("expected error notice, got %q", got.notice)
	}
}

func TestSubmitSlashCommandDispatches(t *testing.T) {
	m := testModel()
	m.input.SetValue("/ping")

	updated, cmd := m.handleSubmit()
	got := updated.(Model)

	if cmd == nil {
		t.Fatal("slash command should produce a dispatch command")
	}
	msg, ok := cmd().(commandResultMsg)
	if !ok {
		t.Fatalf("dispatch produced %T", cmd())
	}
	if msg.result.Message != "pong" {
		t.Errorf("result = %q, want pong", msg.result.Message)
	}
	if got.input.Value() != "" {
		t.Error("submit should clear the input")
	}
}

func TestCompletionPopupAcceptOnEnter(t *testing.T) {
	m := testModel()
	m.input.SetValue("/p")
	m.updateCompletions()

	if !m.completionState.Visible {
		t.Fatal("completions should be visible for /p")
	}

	updated, _ := m.handleSubmit()
	got := updated.(Model)

	if got.input.Value() != "/ping " {
		t.Errorf("input = %q after accept, want %q", got.input.Value(), "/ping ")
	}
	if got.completionState.Visible {
		t.Error("accept should close the popup")
	}
}

func TestStreamDoneRecordsReply(t *testing.T) {
	m := testModel()
	m.state = StateStreaming

	updated, _ := m.handleStreamDone(streamDoneMsg{reply: "the answer\n"})
	got := updated.(Model)

	if got.state != StateReady {
		t.Error("stream completion should return to ready state")
	}
	if len(got.conversation.Messages) != 1 {
		t.Fatalf("messages = %d, want 1", len(got.conversation.Messages))
	}
	if got.conversation.Messages[0].Content != "the answer" {
		t.Errorf("reply = %q, want trimmed answer", got.conversation.Messages[0].Content)
	}
}
