// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/skiff/internal/ui/styles"
)

// =============================================================================
// STATUS BAR
// =============================================================================

// StatusBar renders the single-line footer: model, agent availability,
// unsaved marker, and key hints.
type StatusBar struct {
	theme *styles.Theme
	width int
}

// NewStatusBar creates a status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{theme: theme, width: 80}
}

// SetWidth sets the bar width in columns.
func (s *StatusBar) SetWidth(width int) {
	s.width = width
}

// StatusInfo is the state the bar displays.
type StatusInfo struct {
	Model        string
	AgentOnline  bool
	Dirty        bool
	MessageCount int
	Streaming    bool
}

// View renders the bar.
func (s *StatusBar) View(info StatusInfo) string {
	var left []string

	if info.AgentOnline {
		left = append(left, s.theme.AgentOnline.Render("agent"))
	} else {
		left = append(left, s.theme.AgentOffline.Render("no agent"))
	}
	if info.Model != "" {
		left = append(left, info.Model)
	}
	if info.Dirty {
		left = append(left, "*unsaved")
	}

	hints := s.hints(info)

	leftStr := strings.Join(left, " | ")
	gap := s.width - lipgloss.Width(leftStr) - lipgloss.Width(hints) - 2
	if gap < 1 {
		gap = 1
	}

	return s.theme.StatusBar.Width(s.width).Render(
		leftStr + strings.Repeat(" ", gap) + hints)
}

func (s *StatusBar) hints(info StatusInfo) string {
	key := s.theme.ShortcutKey.Render
	desc := s.theme.ShortcutDesc.Render

	if info.Streaming {
		return key("esc") + desc(" cancel")
	}
	return key("tab") + desc(" complete ") + key("/help") + desc(" commands ") + key("ctrl+c") + desc(" quit")
}
