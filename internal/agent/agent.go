// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package agent provides the AI agent capability for skiff.
//
// The chat shell treats the agent as optional: hosts pass it into the
// command context when one is configured, and agent-requiring commands
// are gated on its presence. The package ships an Ollama-backed
// implementation; anything satisfying Agent plugs in the same way.
package agent

import "context"

// Agent is the capability surface the shell consumes. Implementations
// must be safe for concurrent use.
type Agent interface {
	// Chat sends a prompt and returns the complete reply.
	Chat(ctx context.Context, prompt string) (string, error)

	// Stream sends a prompt and delivers the reply incrementally
	// through fn. It blocks until the reply is complete or ctx is
	// cancelled.
	Stream(ctx context.Context, prompt string, fn func(chunk string)) error

	// Models lists the model names the agent can serve.
	Models(ctx context.Context) ([]string, error)

	// Abort cancels any in-flight request.
	Abort()
}
