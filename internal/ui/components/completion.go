// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the skiff TUI.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/skiff/internal/commands"
	"github.com/jeranaias/skiff/internal/ui/styles"
	"github.com/jeranaias/skiff/internal/util"
)

// =============================================================================
// COMPLETION POPUP
// =============================================================================

// CompletionPopup renders the slash-command completion list above the
// input area. Selection state lives in commands.CompletionState; this
// component only draws it.
type CompletionPopup struct {
	theme      *styles.Theme
	width      int
	maxVisible int
}

// NewCompletionPopup creates a popup with default dimensions.
func NewCompletionPopup(theme *styles.Theme) *CompletionPopup {
	return &CompletionPopup{
		theme:      theme,
		width:      48,
		maxVisible: 8,
	}
}

// SetWidth sets the popup width in columns.
func (c *CompletionPopup) SetWidth(width int) {
	if width > 20 {
		c.width = width
	}
}

// View renders the popup for the given completion state. Empty or
// hidden states render nothing.
func (c *CompletionPopup) View(state *commands.CompletionState) string {
	if state == nil || !state.Visible || len(state.Completions) == 0 {
		return ""
	}

	start, end := c.window(state)

	var lines []string
	for i := start; i < end; i++ {
		lines = append(lines, c.renderItem(state.Completions[i], i == state.Selected))
	}
	if len(state.Completions) > c.maxVisible {
		lines = append(lines, c.theme.ShortcutDesc.Render(
			fmt.Sprintf("  %d/%d", state.Selected+1, len(state.Completions))))
	}

	return c.theme.CompletionPopup.Width(c.width).Render(strings.Join(lines, "\n"))
}

// window returns the visible slice bounds, keeping the selection
// centered once the list overflows.
func (c *CompletionPopup) window(state *commands.CompletionState) (int, int) {
	total := len(state.Completions)
	if total <= c.maxVisible {
		return 0, total
	}

	start := state.Selected - c.maxVisible/2
	if start < 0 {
		start = 0
	}
	end := start + c.maxVisible
	if end > total {
		end = total
		start = end - c.maxVisible
	}
	return start, end
}

func (c *CompletionPopup) renderItem(comp commands.Completion, selected bool) string {
	indicator := " "
	valueStyle := c.theme.CompletionItem
	if selected {
		indicator = ">"
		valueStyle = c.theme.CompletionSelected
	}

	nameWidth := 14
	descWidth := c.width - nameWidth - 6
	name := util.PadRight(util.TruncateWidth(commands.Prefix+comp.Value, nameWidth), nameWidth)
	desc := util.TruncateWidth(comp.Description, descWidth)

	return lipgloss.JoinHorizontal(lipgloss.Left,
		c.theme.CompletionSelected.Render(indicator+" "),
		valueStyle.Render(name),
		c.theme.ShortcutDesc.Render(desc),
	)
}

// ViewCompact renders a one-line hint instead of the full popup, for
// very short terminals.
func (c *CompletionPopup) ViewCompact(state *commands.CompletionState) string {
	if state == nil || !state.Visible || len(state.Completions) == 0 {
		return ""
	}
	if len(state.Completions) == 1 {
		return c.theme.ShortcutDesc.Render(
			fmt.Sprintf("Tab: complete %s%s", commands.Prefix, state.Completions[0].Value))
	}
	return c.theme.ShortcutDesc.Render(
		fmt.Sprintf("Tab: %d completions", len(state.Completions)))
}
