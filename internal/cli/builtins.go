// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jeranaias/skiff/internal/commands"
	"github.com/jeranaias/skiff/internal/config"
	"github.com/jeranaias/skiff/internal/storage"
	"github.com/jeranaias/skiff/internal/util"
)

// =============================================================================
// BUILTIN COMMAND SET
// =============================================================================

// RegisterBuiltins installs the standard skiff command set into the
// registry. The registry itself ships empty; this is the policy layer
// both hosts share.
func RegisterBuiltins(r *commands.Registry, version string) {
	r.RegisterAll([]*commands.Command{
		{
			Name:        "help",
			Aliases:     []string{"h", "?"},
			Description: "Show available commands",
			Usage:       "help [command]",
			Handler:     makeHelpHandler(r),
		},
		{
			Name:        "status",
			Description: "Show session and agent status",
			Handler:     makeStatusHandler(version),
		},
		{
			Name:        "clear",
			Aliases:     []string{"c"},
			Description: "Clear the conversation",
			Handler:     handleClear,
		},
		{
			Name:        "new",
			Aliases:     []string{"n"},
			Description: "Start a new conversation",
			Handler:     handleClear,
		},
		{
			Name:        "save",
			Aliases:     []string{"s"},
			Description: "Save the current conversation",
			Usage:       "save [name]",
			Handler:     handleSave,
		},
		{
			Name:        "load",
			Aliases:     []string{"l", "resume"},
			Description: "Load a saved conversation",
			Usage:       "load <id>",
			Handler:     handleLoad,
		},
		{
			Name:        "sessions",
			Aliases:     []string{"list"},
			Description: "List saved conversations",
			Handler:     handleSessions,
		},
		{
			Name:        "history",
			Aliases:     []string{"hist"},
			Description: "Show or search prompt history",
			Usage:       "history [term]",
			Handler:     handleHistory,
		},
		{
			Name:        "model",
			Aliases:     []string{"m"},
			Description: "Show or switch the agent model",
			Usage:       "model [name]",
			Handler:     handleModel,
		},
		{
			Name:          "models",
			Description:   "List models the agent can serve",
			RequiresAgent: true,
			Handler:       handleModels,
		},
		{
			Name:        "config",
			Aliases:     []string{"cfg"},
			Description: "Show or set configuration",
			Usage:       "config [key] [value]",
			Handler:     handleConfig,
		},
		{
			Name:        "quit",
			Aliases:     []string{"exit", "q"},
			Description: "Exit skiff",
			Handler:     handleQuit,
		},
		{
			Name:    "debug",
			Hidden:  true,
			Handler: handleDebug,
		},
	})
}

// =============================================================================
// HANDLERS
// =============================================================================

func makeHelpHandler(r *commands.Registry) commands.Handler {
	return func(ctx context.Context, args []string, cmdCtx *commands.Context) (*commands.Result, error) {
		if len(args) > 0 {
			cmd := r.Get(args[0])
			if cmd == nil {
				return nil, fmt.Errorf("no such command: %s", args[0])
			}
			var b strings.Builder
			fmt.Fprintf(&b, "/%s - %s\n", cmd.Name, cmd.Description)
			if cmd.Usage != "" {
				fmt.Fprintf(&b, "Usage: /%s\n", cmd.Usage)
			}
			if len(cmd.Aliases) > 0 {
				fmt.Fprintf(&b, "Aliases: /%s\n", strings.Join(cmd.Aliases, ", /"))
			}
			return commands.Ok(strings.TrimRight(b.String(), "\n")), nil
		}

		var b strings.Builder
		b.WriteString("Available commands:\n")
		for _, cmd := range r.List(false) {
			fmt.Fprintf(&b, "  /%-10s %s\n", cmd.Name, cmd.Description)
		}
		b.WriteString("Anything else is sent to the agent as chat.")
		return commands.Ok(b.String()), nil
	}
}

func makeStatusHandler(version string) commands.Handler {
	return func(ctx context.Context, args []string, cmdCtx *commands.Context) (*commands.Result, error) {
		var b strings.Builder
		fmt.Fprintf(&b, "skiff %s\n", version)

		if cmdCtx.Session != nil {
			fmt.Fprintf(&b, "Session:  %s (up %s)\n",
				cmdCtx.Session.ID(), cmdCtx.Session.Uptime().Round(time.Second))
			if cmdCtx.Session.IsDirty() {
				b.WriteString("Unsaved changes: yes\n")
			}
		}

		if cmdCtx.HasAgent() {
			model := ""
			if cmdCtx.Config != nil {
				model = cmdCtx.Config.Agent.Model
			}
			fmt.Fprintf(&b, "Agent:    available (model %s)", model)
		} else {
			b.WriteString("Agent:    not available")
		}
		return commands.Ok(b.String()), nil
	}
}

// handleClear asks the host to reset its transcript. The host reads
// the clear flag out of Data; the core never interprets it.
func handleClear(ctx context.Context, args []string, cmdCtx *commands.Context) (*commands.Result, error) {
	if cmdCtx.Session != nil {
		cmdCtx.Session.MarkClean()
	}
	return &commands.Result{
		Success: true,
		Message: "Conversation cleared",
		Data:    map[string]any{"clear": true},
	}, nil
}

func handleSave(ctx context.Context, args []string, cmdCtx *commands.Context) (*commands.Result, error) {
	if cmdCtx.Store == nil {
		return nil, fmt.Errorf("conversation storage is not available")
	}
	if cmdCtx.Conversation == nil || len(cmdCtx.Conversation.Messages) == 0 {
		return commands.Fail("Nothing to save yet"), nil
	}

	if len(args) > 0 {
		cmdCtx.Conversation.Summary = strings.Join(args, " ")
	}

	id, err := cmdCtx.Store.Save(cmdCtx.Conversation)
	if err != nil {
		return nil, fmt.Errorf("save failed: %w", err)
	}

	if cmdCtx.Session != nil {
		cmdCtx.Session.MarkClean()
	}
	return commands.Ok("Saved conversation " + id), nil
}

func handleLoad(ctx context.Context, args []string, cmdCtx *commands.Context) (*commands.Result, error) {
	if cmdCtx.Store == nil {
		return nil, fmt.Errorf("conversation storage is not available")
	}
	if len(args) == 0 {
		return handleSessions(ctx, args, cmdCtx)
	}

	id, err := resolveConversationID(cmdCtx.Store, args[0])
	if err != nil {
		return nil, err
	}
	conv, err := cmdCtx.Store.Load(id)
	if err != nil {
		return nil, fmt.Errorf("load failed: %w", err)
	}

	return &commands.Result{
		Success: true,
		Message: fmt.Sprintf("Loaded %q (%d messages)", conv.Summary, len(conv.Messages)),
		Data:    map[string]any{"conversation": conv},
	}, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// resolveConversationID accepts a full ID or a unique prefix, as
// printed by /sessions.
func resolveConversationID(store *storage.ConversationStore, token string) (string, error) {
	metas, err := store.List()
	if err != nil {
		return "", err
	}

	var match string
	for _, meta := range metas {
		if meta.ID == token {
			return token, nil
		}
		if strings.HasPrefix(meta.ID, token) {
			if match != "" {
				return "", fmt.Errorf("ambiguous conversation id: %s", token)
			}
			match = meta.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("no conversation matching %s", token)
	}
	return match, nil
}

func handleSessions(ctx context.Context, args []string, cmdCtx *commands.Context) (*commands.Result, error) {
	if cmdCtx.Store == nil {
		return nil, fmt.Errorf("conversation storage is not available")
	}

	metas, err := cmdCtx.Store.List()
	if err != nil {
		return nil, fmt.Errorf("listing conversations failed: %w", err)
	}
	if len(metas) == 0 {
		return commands.Ok("No saved conversations"), nil
	}

	var b strings.Builder
	b.WriteString("Saved conversations:\n")
	for _, meta := range metas {
		fmt.Fprintf(&b, "  %s  %s  (%d messages, %s)\n",
			shortID(meta.ID), util.TruncateRunes(meta.Summary, 40),
			meta.MessageCount, meta.UpdatedAt.Format("2006-01-02 15:04"))
	}
	b.WriteString("Load one with /load <id>")
	return commands.Ok(b.String()), nil
}

func handleHistory(ctx context.Context, args []string, cmdCtx *commands.Context) (*commands.Result, error) {
	if cmdCtx.History == nil {
		return nil, fmt.Errorf("history is not available")
	}

	const limit = 20
	var entries []storage.HistoryEntry
	var err error
	if len(args) > 0 {
		entries, err = cmdCtx.History.Search(ctx, strings.Join(args, " "), limit)
	} else {
		entries, err = cmdCtx.History.Recent(ctx, limit)
	}
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return commands.Ok("No matching history"), nil
	}

	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "%s  %-9s %s\n",
			e.CreatedAt.Format("15:04"), e.Role, util.TruncateRunes(e.Content, 70))
	}
	return commands.Ok(strings.TrimRight(b.String(), "\n")), nil
}

func handleModel(ctx context.Context, args []string, cmdCtx *commands.Context) (*commands.Result, error) {
	if len(args) == 0 {
		if cmdCtx.Config == nil {
			return commands.Fail("No configuration loaded"), nil
		}
		return commands.Ok("Current model: " + cmdCtx.Config.Agent.Model), nil
	}

	model := args[0]
	if cmdCtx.Config != nil {
		cmdCtx.Config.Agent.Model = model
	}
	if cmdCtx.SetModel != nil {
		cmdCtx.SetModel(model)
	}
	return commands.Ok("Switched to model " + model), nil
}

func handleModels(ctx context.Context, args []string, cmdCtx *commands.Context) (*commands.Result, error) {
	models, err := cmdCtx.Agent.Models(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing models failed: %w", err)
	}
	if len(models) == 0 {
		return commands.Ok("No models installed"), nil
	}

	sort.Strings(models)
	return commands.Ok("Available models:\n  " + strings.Join(models, "\n  ")), nil
}

func handleConfig(ctx context.Context, args []string, cmdCtx *commands.Context) (*commands.Result, error) {
	if cmdCtx.Config == nil {
		return commands.Fail("No configuration loaded"), nil
	}
	cfg := cmdCtx.Config

	if len(args) == 0 {
		var b strings.Builder
		b.WriteString("Configuration:\n")
		fmt.Fprintf(&b, "  model          %s\n", cfg.Agent.Model)
		fmt.Fprintf(&b, "  agent_url      %s\n", cfg.Agent.BaseURL)
		fmt.Fprintf(&b, "  agent_enabled  %t\n", cfg.Agent.Enabled)
		fmt.Fprintf(&b, "  theme          %s\n", cfg.UI.Theme)
		fmt.Fprintf(&b, "  auto_save      %t", cfg.Session.AutoSave)
		return commands.Ok(b.String()), nil
	}

	key := args[0]
	if len(args) == 1 {
		switch key {
		case "model":
			return commands.Ok(cfg.Agent.Model), nil
		case "agent_url":
			return commands.Ok(cfg.Agent.BaseURL), nil
		case "theme":
			return commands.Ok(cfg.UI.Theme), nil
		case "auto_save":
			return commands.Ok(fmt.Sprintf("%t", cfg.Session.AutoSave)), nil
		default:
			return nil, fmt.Errorf("unknown config key: %s", key)
		}
	}

	value := args[1]
	switch key {
	case "model":
		cfg.Agent.Model = value
		if cmdCtx.SetModel != nil {
			cmdCtx.SetModel(value)
		}
	case "agent_url":
		cfg.Agent.BaseURL = value
	case "theme":
		cfg.UI.Theme = value
		cfg.Validate()
	case "auto_save":
		cfg.Session.AutoSave = value == "true" || value == "1"
	default:
		return nil, fmt.Errorf("unknown config key: %s", key)
	}

	if err := config.Save(cfg); err != nil {
		return nil, fmt.Errorf("saving config failed: %w", err)
	}
	return commands.Ok(fmt.Sprintf("Set %s = %s", key, value)), nil
}

func handleQuit(ctx context.Context, args []string, cmdCtx *commands.Context) (*commands.Result, error) {
	cmdCtx.Abort()
	return commands.Exit("Goodbye"), nil
}

func handleDebug(ctx context.Context, args []string, cmdCtx *commands.Context) (*commands.Result, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "agent present: %t\n", cmdCtx.HasAgent())
	if cmdCtx.Session != nil {
		fmt.Fprintf(&b, "session: %s idle %s dirty %t\n",
			cmdCtx.Session.ID(), cmdCtx.Session.IdleFor().Round(time.Millisecond), cmdCtx.Session.IsDirty())
	}
	if cmdCtx.Conversation != nil {
		fmt.Fprintf(&b, "transcript: %d messages", len(cmdCtx.Conversation.Messages))
	}
	return commands.Ok(strings.TrimRight(b.String(), "\n")), nil
}
