// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/skiff/internal/commands"
)

// =============================================================================
// MESSAGES
// =============================================================================

// commandResultMsg carries a finished slash-command dispatch back into
// the update loop.
type commandResultMsg struct {
	input  string
	result *commands.Result
}

// streamStartedMsg reports that a streaming request is in flight.
type streamStartedMsg struct {
	done   chan streamDoneMsg
	cancel context.CancelFunc
}

// streamDoneMsg reports the end of a streaming reply.
type streamDoneMsg struct {
	reply string
	err   error
}

// StreamTickMsg drives buffer flushes while a reply streams in.
type StreamTickMsg struct {
	Time time.Time
}

// idleTickMsg drives periodic session idle checks.
type idleTickMsg struct{}

// idleWarningMsg surfaces an approaching idle timeout.
type idleWarningMsg struct {
	remaining time.Duration
}

// idleTimeoutMsg ends the session after the idle timeout elapses.
type idleTimeoutMsg struct{}

// =============================================================================
// COMMANDS
// =============================================================================

// executeCommandCmd dispatches one slash command off the update loop.
func (m *Model) executeCommandCmd(input string) tea.Cmd {
	cmdCtx := m.commandContext()
	executor := m.executor
	return func() tea.Msg {
		return commandResultMsg{
			input:  input,
			result: executor.Execute(context.Background(), input, cmdCtx),
		}
	}
}

// startStreamCmd launches the agent request. Chunks accumulate in the
// streaming buffer; completion arrives on the done channel.
func (m *Model) startStreamCmd(prompt string) tea.Cmd {
	ag := m.opts.Agent
	buf := m.streamBuf
	return func() tea.Msg {
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan streamDoneMsg, 1)

		go func() {
			var reply []byte
			err := ag.Stream(ctx, prompt, func(chunk string) {
				reply = append(reply, chunk...)
				buf.Write(chunk)
			})
			done <- streamDoneMsg{reply: string(reply), err: err}
		}()

		return streamStartedMsg{done: done, cancel: cancel}
	}
}

// waitStreamCmd blocks until the in-flight request finishes.
func waitStreamCmd(done chan streamDoneMsg) tea.Cmd {
	return func() tea.Msg {
		return <-done
	}
}

// streamTickCmd flushes the streaming buffer at a capped frame rate.
func streamTickCmd() tea.Cmd {
	return tea.Tick(33*time.Millisecond, func(t time.Time) tea.Msg {
		return StreamTickMsg{Time: t}
	})
}

// idleTickCmd polls the session manager for idle state.
func idleTickCmd() tea.Cmd {
	return tea.Tick(15*time.Second, func(time.Time) tea.Msg {
		return idleTickMsg{}
	})
}
