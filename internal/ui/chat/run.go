// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/skiff/internal/commands"
)

// Run starts the full-screen chat program and blocks until it exits.
func Run(registry *commands.Registry, opts Options) error {
	program := tea.NewProgram(New(registry, opts), tea.WithAltScreen())
	_, err := program.Run()
	return err
}
