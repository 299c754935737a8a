// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/skiff/internal/agent"
	"github.com/jeranaias/skiff/internal/commands"
	"github.com/jeranaias/skiff/internal/storage"
)

// =============================================================================
// UPDATE
// =============================================================================

// Update handles all Bubble Tea messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case commandResultMsg:
		return m.handleCommandResult(msg)

	case streamStartedMsg:
		m.cancel = msg.cancel
		return m, tea.Batch(waitStreamCmd(msg.done), streamTickCmd(), m.spinner.Tick)

	case StreamTickMsg:
		if m.state != StateStreaming {
			return m, nil
		}
		if chunk, ok := m.streamBuf.Flush(); ok {
			m.partial += chunk
			m.refreshViewport()
		}
		return m, streamTickCmd()

	case streamDoneMsg:
		return m.handleStreamDone(msg)

	case idleTickMsg:
		return m.handleIdleTick()

	case idleWarningMsg:
		m.notice = fmt.Sprintf("Session idle - timing out in %s", msg.remaining.Round(time.Second))
		m.noticeIsErr = false
		return m, nil

	case idleTimeoutMsg:
		m.autosave()
		m.quitting = true
		return m, tea.Quit

	default:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
}

func (m Model) handleResize(msg tea.WindowSizeMsg) Model {
	m.width = msg.Width
	m.height = msg.Height

	m.viewport.Width = msg.Width
	m.viewport.Height = msg.Height - chromeHeight
	if m.viewport.Height < 1 {
		m.viewport.Height = 1
	}
	m.input.Width = msg.Width - 4
	m.popup.SetWidth(msg.Width / 2)
	m.statusBar.SetWidth(msg.Width)

	m.refreshViewport()
	return m
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case keyMatch(msg, m.keys().Quit):
		m.autosave()
		m.quitting = true
		return m, tea.Quit

	case keyMatch(msg, m.keys().Cancel):
		return m.handleCancel()

	case keyMatch(msg, m.keys().Complete):
		return m.handleTab(false)

	case keyMatch(msg, m.keys().CompleteBack):
		return m.handleTab(true)

	case keyMatch(msg, m.keys().Submit):
		return m.handleSubmit()

	case keyMatch(msg, m.keys().ScrollUp):
		m.viewport.LineUp(5)
		return m, nil

	case keyMatch(msg, m.keys().ScrollDown):
		m.viewport.LineDown(5)
		return m, nil
	}

	// Any other key edits the input line; completions follow the text.
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.updateCompletions()
	return m, cmd
}

func (m Model) handleCancel() (tea.Model, tea.Cmd) {
	if m.completionState.Visible {
		m.completionState.Clear()
		return m, nil
	}
	if m.state == StateStreaming && m.cancel != nil {
		m.cancel()
		m.notice = "Cancelled"
		m.noticeIsErr = false
		return m, nil
	}
	m.input.SetValue("")
	return m, nil
}

// handleTab opens or cycles the completion popup.
func (m Model) handleTab(backwards bool) (tea.Model, tea.Cmd) {
	if !m.completionState.Visible {
		m.updateCompletions()
		return m, nil
	}
	if backwards {
		m.completionState.Prev()
	} else {
		m.completionState.Next()
	}
	return m, nil
}

func (m Model) handleSubmit() (tea.Model, tea.Cmd) {
	// Enter with the popup open accepts the selection instead of
	// submitting the line.
	if m.completionState.Visible {
		if value := m.completionState.Accept(); value != "" {
			m.input.SetValue(commands.Prefix + value + " ")
			m.input.CursorEnd()
		}
		m.completionState.Clear()
		return m, nil
	}

	text := strings.TrimSpace(m.input.Value())
	if text == "" || m.state == StateStreaming {
		return m, nil
	}
	m.input.SetValue("")
	m.notice = ""
	if m.opts.Session != nil {
		m.opts.Session.RecordActivity()
	}

	if commands.IsCommand(text) {
		return m, m.executeCommandCmd(text)
	}

	if m.opts.Agent == nil {
		m.notice = "No agent available - slash commands only"
		m.noticeIsErr = true
		return m, nil
	}

	m.record("user", text)
	m.state = StateStreaming
	m.partial = ""
	m.streamBuf.Reset()
	m.refreshViewport()
	return m, m.startStreamCmd(text)
}

// updateCompletions recomputes the popup contents from the input line.
func (m *Model) updateCompletions() {
	line := m.input.Value()
	comps := m.completer.CompleteLine(line)
	if len(comps) == 0 {
		m.completionState.Clear()
		return
	}
	m.completionState.Update(line, comps)
}

// =============================================================================
// RESULT HANDLING
// =============================================================================

func (m Model) handleCommandResult(msg commandResultMsg) (tea.Model, tea.Cmd) {
	res := msg.result

	if res.Message != "" {
		m.conversation.Messages = append(m.conversation.Messages,
			storage.NewStoredMessage("system", res.Message))
	}
	m.notice = ""
	if !res.Success {
		m.notice = res.Message
		m.noticeIsErr = true
	}

	if res.Data != nil {
		if res.Data["clear"] == true {
			m.conversation = newConversation(m.opts.Config)
		}
		if conv, ok := res.Data["conversation"].(*storage.StoredConversation); ok {
			m.conversation = conv
			if sm, ok := m.opts.Agent.(interface{ SetModel(string) }); ok && conv.Model != "" {
				sm.SetModel(conv.Model)
			}
		}
	}

	m.refreshViewport()
	m.viewport.GotoBottom()

	if res.ShouldExit {
		m.autosave()
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleStreamDone(msg streamDoneMsg) (tea.Model, tea.Cmd) {
	if chunk, ok := m.streamBuf.ForceFlush(); ok {
		m.partial += chunk
	}
	m.state = StateReady
	m.cancel = nil
	m.partial = ""

	if msg.err != nil {
		m.notice = msg.err.Error()
		m.noticeIsErr = true
		m.refreshViewport()
		return m, nil
	}

	m.record("assistant", agent.TrimReply(msg.reply))
	m.autosave()
	m.refreshViewport()
	m.viewport.GotoBottom()
	return m, nil
}

func (m Model) handleIdleTick() (tea.Model, tea.Cmd) {
	if m.opts.Session == nil || m.opts.Config == nil {
		return m, idleTickCmd()
	}

	// The manager's callbacks are not wired here; the TUI reads the idle
	// clock directly so warnings render as messages on the next frame.
	timeout := m.opts.Config.IdleTimeout()
	if timeout > 0 {
		idle := m.opts.Session.IdleFor()
		if idle >= timeout {
			return m, func() tea.Msg { return idleTimeoutMsg{} }
		}
		if remaining := timeout - idle; remaining <= 2*time.Minute {
			return m, tea.Batch(idleTickCmd(),
				func() tea.Msg { return idleWarningMsg{remaining: remaining} })
		}
	}
	return m, idleTickCmd()
}
