// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash command system for skiff.
package commands

import "strings"

// =============================================================================
// COMPLETER
// =============================================================================

// Completer provides tab completion over registered command names. It
// holds no state of its own; every call reads through to the registry.
type Completer struct {
	registry *Registry
}

// NewCompleter creates a completer over the given registry.
func NewCompleter(registry *Registry) *Completer {
	return &Completer{registry: registry}
}

// Complete returns completions for the command name prefix. Hidden
// commands and aliases are never offered.
func (c *Completer) Complete(prefix string) []Completion {
	return c.registry.Completions(prefix)
}

// CompleteLine returns completions for a raw input line as typed,
// including the slash. Lines past the command name (an argument is
// being typed) yield nothing.
func (c *Completer) CompleteLine(line string) []Completion {
	if !strings.HasPrefix(line, Prefix) {
		return nil
	}
	rest := strings.TrimPrefix(line, Prefix)
	if strings.ContainsAny(rest, " \t") {
		return nil
	}
	return c.registry.Completions(rest)
}

// =============================================================================
// COMPLETION NAVIGATION
// =============================================================================

// CompletionState holds the state for navigating completions in an
// interactive popup.
type CompletionState struct {
	// Original input before completion
	OriginalInput string

	// Current completions
	Completions []Completion

	// Selected index (-1 for none)
	Selected int

	// Visible indicates if completions should be shown
	Visible bool
}

// NewCompletionState creates a new completion state.
func NewCompletionState() *CompletionState {
	return &CompletionState{Selected: -1}
}

// Update replaces the current completions, auto-selecting the first.
func (cs *CompletionState) Update(input string, completions []Completion) {
	cs.OriginalInput = input
	cs.Completions = completions
	cs.Selected = 0
	cs.Visible = len(completions) > 0
}

// Next moves to the next completion, wrapping around.
func (cs *CompletionState) Next() {
	if len(cs.Completions) == 0 {
		return
	}
	cs.Selected = (cs.Selected + 1) % len(cs.Completions)
}

// Prev moves to the previous completion, wrapping around.
func (cs *CompletionState) Prev() {
	if len(cs.Completions) == 0 {
		return
	}
	cs.Selected--
	if cs.Selected < 0 {
		cs.Selected = len(cs.Completions) - 1
	}
}

// Accept returns the selected completion value, or the first entry if
// nothing is selected, or empty if there are no completions.
func (cs *CompletionState) Accept() string {
	if cs.Selected < 0 || cs.Selected >= len(cs.Completions) {
		if len(cs.Completions) > 0 {
			return cs.Completions[0].Value
		}
		return ""
	}
	return cs.Completions[cs.Selected].Value
}

// GetSelected returns the currently selected completion, or nil.
func (cs *CompletionState) GetSelected() *Completion {
	if cs.Selected < 0 || cs.Selected >= len(cs.Completions) {
		return nil
	}
	return &cs.Completions[cs.Selected]
}

// Clear resets the completion state.
func (cs *CompletionState) Clear() {
	cs.OriginalInput = ""
	cs.Completions = nil
	cs.Selected = -1
	cs.Visible = false
}
