// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides reusable UI components for the skiff TUI.

Components are pure renderers built on Lip Gloss: they accept a
*styles.Theme at construction and draw state owned elsewhere. None of
them hold Bubble Tea state.

CompletionPopup (completion.go) draws the slash-command completion
list; the selection itself lives in commands.CompletionState.

StatusBar (statusbar.go) draws the footer line: agent availability,
active model, unsaved marker, and key hints.

	theme := styles.NewTheme(cfg.UI.Theme)
	bar := components.NewStatusBar(theme)
	bar.SetWidth(80)
	line := bar.View(components.StatusInfo{Model: "qwen2.5-coder:7b", AgentOnline: true})
*/
package components
