// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash command system for skiff.
package commands

// =============================================================================
// RESULT TYPE
// =============================================================================

// Result is the uniform outcome of every execution attempt. Every
// failure mode - unknown command, missing agent, handler error - is
// surfaced as a Result with Success false rather than an error from
// Execute.
type Result struct {
	// Success reports whether the command completed normally.
	Success bool

	// Message is optional display text for the host to render.
	Message string

	// ShouldExit signals the host to terminate the session loop.
	ShouldExit bool

	// Data carries handler-specific extension fields the host may
	// choose to read. The core never inspects it.
	Data map[string]any
}

// Ok returns a successful result with a display message.
func Ok(message string) *Result {
	return &Result{Success: true, Message: message}
}

// Fail returns a failed result with a display message.
func Fail(message string) *Result {
	return &Result{Success: false, Message: message}
}

// Exit returns a successful result that asks the host to terminate.
func Exit(message string) *Result {
	return &Result{Success: true, Message: message, ShouldExit: true}
}
