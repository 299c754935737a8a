// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat is the Bubble Tea host for skiff: a full-screen chat view
over an agent, with the slash-command system wired into its input line.

The model composes a viewport (transcript), a textinput (prompt line),
a spinner, and the completion popup from ui/components. Slash commands
dispatch through commands.Executor off the update loop; their results
come back as commandResultMsg. Agent replies stream through a
StreamingBuffer flushed at a capped frame rate so rendering stays
smooth regardless of token rate.

Layout, top to bottom:

	header      - title and model name
	viewport    - rendered transcript (glamour markdown for replies)
	popup       - completion suggestions, when typing a slash command
	input       - prompt line
	status bar  - agent state, model, unsaved marker, key hints

The package owns no persistence; it delegates to the collaborators
handed in via Options and to the command handlers.
*/
package chat
