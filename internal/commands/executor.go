// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash command system for skiff.
package commands

import (
	"context"
	"fmt"
)

// =============================================================================
// EXECUTOR
// =============================================================================

// Executor resolves and runs commands against a registry, converting
// every failure into a Result. Nothing escapes Execute: handler errors
// and panics both come back as failed Results, so the host never needs
// its own recovery around command dispatch.
type Executor struct {
	registry *Registry
}

// NewExecutor creates an executor over the given registry.
func NewExecutor(registry *Registry) *Executor {
	return &Executor{registry: registry}
}

// Registry returns the registry the executor dispatches against.
func (e *Executor) Registry() *Registry {
	return e.registry
}

// Execute parses input, resolves the command through the alias index,
// checks preconditions, and runs the handler. It blocks until the
// handler returns; callers wanting a deadline race ctx outside the
// handler's control or pass a cancellable ctx for the handler to honor.
//
// Hosts are expected to classify with IsCommand before calling; input
// without the prefix is parsed by the same rules, with the first token
// taken literally as the identifier.
//
// Execution is strictly sequential per call. The executor keeps no
// queue; hosts serialize overlapping lines themselves if they need to.
func (e *Executor) Execute(ctx context.Context, input string, cmdCtx *Context) (result *Result) {
	identifier, args := Parse(input)

	cmd := e.registry.Get(identifier)
	if cmd == nil {
		return Fail("Unknown command: " + identifier)
	}

	if cmd.RequiresAgent && !cmdCtx.HasAgent() {
		return Fail("No agent available")
	}

	// A panicking handler must not take the session down; it surfaces
	// like any other handler failure.
	defer func() {
		if r := recover(); r != nil {
			result = Fail(fmt.Sprintf("%v", r))
		}
	}()

	res, err := cmd.Handler(ctx, args, cmdCtx)
	if err != nil {
		return Fail(err.Error())
	}
	if res == nil {
		return &Result{Success: true}
	}
	return res
}
