// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides the command set and the plain-terminal REPL
// host for skiff.
//
// The slash command core (internal/commands) is a mechanism with no
// commands of its own; RegisterBuiltins supplies the policy - the
// command set both hosts (this REPL and the TUI) expose. The REPL is
// the line-oriented fallback for dumb terminals and --plain runs,
// driving the same registry, executor, and completer the TUI uses.
package cli
