// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash command system for skiff.
package commands

import (
	"context"
	"strings"
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// Handler is the function implementing a command's behavior. It may block
// on network or timer work; the executor waits for it to return. A non-nil
// error is converted by the executor into a failed Result.
type Handler func(ctx context.Context, args []string, cmdCtx *Context) (*Result, error)

// Command represents a slash command that can be executed.
type Command struct {
	// Name is the primary command name without the slash (e.g., "help").
	// Case-sensitive, must be unique and non-empty.
	Name string

	// Aliases are alternative names (e.g., "h", "?")
	Aliases []string

	// Description is shown in help and completion
	Description string

	// Usage shows argument syntax (e.g., "model <name>")
	Usage string

	// Hidden commands don't appear in listings or completion,
	// but still resolve and execute.
	Hidden bool

	// RequiresAgent gates execution on an agent being present
	// in the Context.
	RequiresAgent bool

	// Handler is the function that executes the command
	Handler Handler
}

// =============================================================================
// COMMAND REGISTRY
// =============================================================================

// Registry holds all registered commands and the alias index.
//
// The index maps every name and alias to its owning command. A name or
// alias that collides with an existing binding overwrites that binding
// only; the previously bound command keeps its other names. Registration
// is expected to finish before execution begins; the registry takes no
// locks.
type Registry struct {
	index   map[string]*Command
	ordered []*Command
}

// NewRegistry creates an empty command registry. Hosts register their
// own command set; the registry ships with none.
func NewRegistry() *Registry {
	return &Registry{
		index: make(map[string]*Command),
	}
}

// Register adds a command to the registry, binding its name and every
// alias. Colliding bindings are overwritten (last write wins).
func (r *Registry) Register(cmd *Command) {
	for _, c := range r.ordered {
		if c == cmd {
			r.bind(cmd)
			return
		}
	}
	r.ordered = append(r.ordered, cmd)
	r.bind(cmd)
}

func (r *Registry) bind(cmd *Command) {
	r.index[cmd.Name] = cmd
	for _, alias := range cmd.Aliases {
		r.index[alias] = cmd
	}
}

// RegisterAll registers each command in sequence order.
func (r *Registry) RegisterAll(cmds []*Command) {
	for _, cmd := range cmds {
		r.Register(cmd)
	}
}

// Get retrieves a command by name or alias. Exact, case-sensitive match.
// Returns nil if the token is unbound.
func (r *Registry) Get(token string) *Command {
	return r.index[token]
}

// Has reports whether token matches a registered name or alias.
func (r *Registry) Has(token string) bool {
	_, ok := r.index[token]
	return ok
}

// List returns the distinct registered commands in registration order.
// Each command appears once regardless of how many aliases it carries.
// Hidden commands are excluded unless includeHidden is true.
func (r *Registry) List(includeHidden bool) []*Command {
	cmds := make([]*Command, 0, len(r.ordered))
	for _, cmd := range r.ordered {
		if cmd.Hidden && !includeHidden {
			continue
		}
		cmds = append(cmds, cmd)
	}
	return cmds
}

// =============================================================================
// COMPLETIONS
// =============================================================================

// Completion is a single completion entry offered to the host UI.
type Completion struct {
	// Value to insert
	Value string

	// Description shown alongside
	Description string
}

// Completions returns an entry for every non-hidden command whose name
// starts with prefix. Matching is case-sensitive; the empty prefix
// matches everything. Aliases are not offered. Order follows command
// registration order.
func (r *Registry) Completions(prefix string) []Completion {
	var completions []Completion
	for _, cmd := range r.ordered {
		if cmd.Hidden {
			continue
		}
		if strings.HasPrefix(cmd.Name, prefix) {
			completions = append(completions, Completion{
				Value:       cmd.Name,
				Description: cmd.Description,
			})
		}
	}
	return completions
}
