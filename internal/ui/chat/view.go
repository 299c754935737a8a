// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/skiff/internal/storage"
	"github.com/jeranaias/skiff/internal/ui/components"
)

// chromeHeight is the number of terminal rows taken by everything
// except the viewport: header, input border, input, status bar.
const chromeHeight = 6

// =============================================================================
// VIEW
// =============================================================================

// View renders the complete chat screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	if popup := m.popup.View(m.completionState); popup != "" {
		b.WriteString(popup)
		b.WriteString("\n")
	}
	if m.notice != "" {
		b.WriteString(m.renderNotice())
		b.WriteString("\n")
	}

	b.WriteString(m.renderInput())
	b.WriteString("\n")
	b.WriteString(m.statusBar.View(m.statusInfo()))
	return b.String()
}

func (m Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render("skiff")
	version := m.theme.HeaderSubtitle.Render(" " + m.opts.Version)
	return m.theme.Header.Width(m.width).Render(title + version)
}

func (m Model) renderInput() string {
	line := m.input.View()
	if m.state == StateStreaming {
		line = m.spinner.View() + " " + m.theme.ThinkingText.Render("thinking...")
	}
	return m.theme.InputContainer.Width(m.width).Render(line)
}

func (m Model) renderNotice() string {
	if m.noticeIsErr {
		return m.theme.ErrorBox.Render(m.theme.ErrorTitle.Render("error ") +
			m.theme.ErrorMessage.Render(m.notice))
	}
	return m.theme.ThinkingText.Render(m.notice)
}

func (m Model) statusInfo() components.StatusInfo {
	info := components.StatusInfo{
		AgentOnline:  m.opts.Agent != nil,
		MessageCount: len(m.conversation.Messages),
		Streaming:    m.state == StateStreaming,
	}
	if m.opts.Config != nil {
		info.Model = m.opts.Config.Agent.Model
	}
	if m.opts.Session != nil {
		info.Dirty = m.opts.Session.IsDirty()
	}
	return info
}

// =============================================================================
// TRANSCRIPT RENDERING
// =============================================================================

// refreshViewport re-renders the transcript, including any partial
// streaming reply.
func (m *Model) refreshViewport() {
	var parts []string

	if len(m.conversation.Messages) == 0 && m.partial == "" {
		parts = append(parts, m.renderWelcome())
	}
	for _, msg := range m.conversation.Messages {
		parts = append(parts, m.renderMessage(msg))
	}
	if m.state == StateStreaming && m.partial != "" {
		// Partial replies render as plain text; markdown is unstable on
		// half-finished input.
		parts = append(parts, m.theme.AssistantBubble.Render(m.partial))
	}

	m.viewport.SetContent(strings.Join(parts, "\n\n"))
	m.viewport.GotoBottom()
}

func (m *Model) renderMessage(msg storage.StoredMessage) string {
	switch msg.Role {
	case "user":
		bubble := m.theme.UserBubble.Render(msg.Content)
		return lipgloss.PlaceHorizontal(m.viewport.Width, lipgloss.Right, bubble)
	case "assistant":
		return m.theme.AssistantBubble.Render(m.renderMarkdown(msg.Content))
	default:
		return m.theme.SystemBubble.Render(msg.Content)
	}
}

func (m *Model) renderMarkdown(content string) string {
	if m.renderer == nil {
		return content
	}
	rendered, err := m.renderer.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(rendered, "\n")
}

func (m *Model) renderWelcome() string {
	var b strings.Builder
	b.WriteString("skiff\n")
	b.WriteString(m.theme.WelcomeVersion.Render(m.opts.Version) + "\n\n")
	if m.opts.Agent != nil {
		b.WriteString(m.theme.WelcomeInfo.Render("Type a message to chat, or / for commands."))
	} else {
		b.WriteString(m.theme.WelcomeInfo.Render("No agent available. Slash commands only - try /help."))
	}
	box := m.theme.WelcomeBox.Render(b.String())
	return lipgloss.Place(m.viewport.Width, m.viewport.Height, lipgloss.Center, lipgloss.Center, box)
}
