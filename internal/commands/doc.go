// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash command system for skiff.
//
// This package is the dispatch core of the chat shell: it recognizes
// input lines that are slash commands, resolves them (including aliases)
// against a registry, enforces preconditions, invokes the handler, and
// returns a uniform Result the host loop can render or act on.
//
// # Key Types
//
//   - Registry: command definitions plus the alias index
//   - Executor: lookup, precondition checks, handler invocation
//   - Context: capability bundle handed to every handler
//   - Result: uniform outcome of every execution attempt
//   - Completer: prefix completion over registered command names
//
// The package defines no commands of its own; hosts register whatever
// command set they want (see internal/cli for the builtin set).
//
// # Usage
//
// Classify, then execute:
//
//	if commands.IsCommand(input) {
//	    result := executor.Execute(ctx, input, cmdCtx)
//	    render(result)
//	}
//
// Get completions:
//
//	completions := completer.Complete("he")
//	// [{Value: "help", Description: "Show available commands"}]
package commands
