// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash command system for skiff.
package commands

import (
	"github.com/jeranaias/skiff/internal/agent"
	"github.com/jeranaias/skiff/internal/config"
	"github.com/jeranaias/skiff/internal/session"
	"github.com/jeranaias/skiff/internal/storage"
)

// =============================================================================
// CONTEXT TYPE
// =============================================================================

// Context is the capability bundle handed to a handler at invocation
// time. The host builds one per input line; the core never retains it
// after Execute returns.
//
// All fields are optional and may be nil - handlers must check before
// use. The executor itself only ever looks at Agent, and only for
// presence.
//
// Example usage in a handler:
//
//	func handleModels(ctx context.Context, args []string, cmdCtx *commands.Context) (*commands.Result, error) {
//	    models, err := cmdCtx.Agent.Models(ctx)
//	    // ...
//	}
type Context struct {
	// Agent is the optional AI agent. Commands with RequiresAgent set
	// are rejected before their handler runs when this is nil.
	Agent agent.Agent

	// Config provides access to application configuration
	Config *config.Config

	// Store handles conversation persistence
	Store *storage.ConversationStore

	// History records executed prompts for recall and search
	History *storage.HistoryStore

	// Session manages the current session state
	Session *session.Manager

	// Conversation is the live transcript the host is accumulating,
	// for handlers that persist or replace it.
	Conversation *storage.StoredConversation

	// AddMessage appends a message to the host's transcript view.
	// Role is one of "user", "assistant", "system".
	AddMessage func(role, content string)

	// SetModel asks the host to switch the agent to another model.
	SetModel func(model string)

	// HandleAbort asks the host to cancel any in-flight agent work.
	HandleAbort func()
}

// NewContext creates a command context with the given collaborators.
// All parameters may be nil.
func NewContext(ag agent.Agent, cfg *config.Config, store *storage.ConversationStore, sess *session.Manager) *Context {
	return &Context{
		Agent:   ag,
		Config:  cfg,
		Store:   store,
		Session: sess,
	}
}

// HasAgent reports whether an agent capability is present.
func (c *Context) HasAgent() bool {
	return c != nil && c.Agent != nil
}

// Message sends a transcript message if the host supplied a callback.
func (c *Context) Message(role, content string) {
	if c != nil && c.AddMessage != nil {
		c.AddMessage(role, content)
	}
}

// Abort requests cancellation of in-flight agent work, if the host
// supplied a callback.
func (c *Context) Abort() {
	if c != nil && c.HandleAbort != nil {
		c.HandleAbort()
	}
}

// RecordActivity records user activity in the session manager if available.
func (c *Context) RecordActivity() {
	if c != nil && c.Session != nil {
		c.Session.RecordActivity()
	}
}

// MarkDirty marks the session as having unsaved changes.
func (c *Context) MarkDirty() {
	if c != nil && c.Session != nil {
		c.Session.MarkDirty()
	}
}
