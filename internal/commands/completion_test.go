// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash command system for skiff.
package commands

import "testing"

// =============================================================================
// COMPLETER TESTS
// =============================================================================

func testCompleter() *Completer {
	r := NewRegistry()
	r.RegisterAll([]*Command{
		{Name: "help", Description: "Show help", Handler: nopHandler},
		{Name: "history", Description: "Show history", Handler: nopHandler},
		{Name: "quit", Description: "Exit", Handler: nopHandler},
		{Name: "debug", Hidden: true, Handler: nopHandler},
	})
	return NewCompleter(r)
}

func TestCompleter_Complete(t *testing.T) {
	c := testCompleter()

	tests := []struct {
		prefix string
		want   []string
	}{
		{"", []string{"help", "history", "quit"}},
		{"h", []string{"help", "history"}},
		{"he", []string{"help"}},
		{"z", nil},
		{"debug", nil}, // hidden commands are never offered
	}

	for _, tc := range tests {
		got := c.Complete(tc.prefix)
		if len(got) != len(tc.want) {
			t.Errorf("Complete(%q) = %v, want %v", tc.prefix, got, tc.want)
			continue
		}
		for i := range got {
			if got[i].Value != tc.want[i] {
				t.Errorf("Complete(%q)[%d] = %q, want %q", tc.prefix, i, got[i].Value, tc.want[i])
			}
		}
	}
}

func TestCompleter_CompleteLine(t *testing.T) {
	c := testCompleter()

	tests := []struct {
		line string
		want int
	}{
		{"/he", 1},
		{"/", 3},
		{"/help arg", 0}, // past the command name
		{"plain", 0},     // not a command line
	}

	for _, tc := range tests {
		got := c.CompleteLine(tc.line)
		if len(got) != tc.want {
			t.Errorf("CompleteLine(%q) returned %d entries, want %d", tc.line, len(got), tc.want)
		}
	}
}

// =============================================================================
// COMPLETION STATE TESTS
// =============================================================================

func TestCompletionState_Navigation(t *testing.T) {
	cs := NewCompletionState()
	cs.Update("/h", []Completion{{Value: "help"}, {Value: "history"}})

	if !cs.Visible {
		t.Error("state with completions should be visible")
	}
	if cs.Accept() != "help" {
		t.Errorf("Accept() = %q, want first entry auto-selected", cs.Accept())
	}

	cs.Next()
	if cs.Accept() != "history" {
		t.Errorf("after Next, Accept() = %q, want history", cs.Accept())
	}

	cs.Next() // wraps
	if cs.Accept() != "help" {
		t.Errorf("Next should wrap to first entry, got %q", cs.Accept())
	}

	cs.Prev() // wraps backwards
	if cs.Accept() != "history" {
		t.Errorf("Prev should wrap to last entry, got %q", cs.Accept())
	}

	cs.Clear()
	if cs.Visible || cs.Accept() != "" {
		t.Error("Clear should reset visibility and selection")
	}
}

func TestCompletionState_Empty(t *testing.T) {
	cs := NewCompletionState()
	cs.Update("/zz", nil)

	if cs.Visible {
		t.Error("state without completions should not be visible")
	}
	cs.Next() // must not panic
	cs.Prev()
	if cs.GetSelected() != nil {
		t.Error("GetSelected on empty state should be nil")
	}
}
