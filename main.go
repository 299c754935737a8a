// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// skiff is a slash-command chat shell for local AI agents.
//
// It runs as a full-screen TUI on capable terminals and falls back to a
// line-oriented REPL on dumb terminals, pipes, or when --plain is given.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/term"

	"github.com/jeranaias/skiff/internal/agent"
	"github.com/jeranaias/skiff/internal/cli"
	"github.com/jeranaias/skiff/internal/commands"
	"github.com/jeranaias/skiff/internal/config"
	"github.com/jeranaias/skiff/internal/session"
	"github.com/jeranaias/skiff/internal/storage"
	"github.com/jeranaias/skiff/internal/ui/chat"
	"github.com/jeranaias/skiff/internal/util"
)

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdVersion:
		cli.HandleVersion()
	case cli.CmdHelp:
		cli.HandleHelp()
	default:
		if err := run(cmd, args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
}

func run(cmd cli.Command, args cli.Args) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if args.Model != "" {
		cfg.Agent.Model = args.Model
	}
	if args.NoAgent {
		cfg.Agent.Enabled = false
	}
	if args.Plain {
		cfg.UI.Plain = true
	}
	cfg.Validate()

	dir, err := config.Dir()
	if err != nil {
		return err
	}

	// Logging is best-effort; the shell still works without it.
	logger, closeLog, err := util.OpenLogFile(filepath.Join(dir, "skiff.log"))
	if err != nil {
		logger = log.New(io.Discard, "", 0)
	} else {
		defer closeLog.Close()
	}
	logger.Printf("skiff %s starting", cli.Version)

	// Agent backend. A dead backend is not fatal: the shell still runs,
	// agent-requiring commands refuse with "No agent available".
	var ag agent.Agent
	if cfg.Agent.Enabled {
		client := agent.NewOllamaClient(&agent.ClientConfig{
			BaseURL: cfg.Agent.BaseURL,
			Model:   cfg.Agent.Model,
			Timeout: cfg.AgentTimeout(),
		})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := client.CheckRunning(ctx); err != nil {
			logger.Printf("agent backend unreachable at %s: %v", cfg.Agent.BaseURL, err)
			fmt.Fprintf(os.Stderr, "Warning: agent backend unreachable at %s (commands still work)\n", cfg.Agent.BaseURL)
		}
		cancel()
		ag = client
	}

	// Storage: conversations are JSON files, input history is SQLite.
	store, err := storage.NewConversationStore(filepath.Join(dir, "conversations"))
	if err != nil {
		return fmt.Errorf("failed to open conversation store: %w", err)
	}
	history, err := storage.OpenHistory(filepath.Join(dir, "history.db"))
	if err != nil {
		logger.Printf("history store unavailable: %v", err)
		history = nil
	}
	if history != nil {
		defer history.Close()
	}

	sess := session.NewManager(session.Config{
		Timeout: cfg.IdleTimeout(),
	})

	// Pick up edits to config.toml during long sessions. Only fields
	// that are safe to swap mid-session are applied.
	if cfgPath, perr := config.Path(); perr == nil {
		watcher, werr := config.NewWatcher(cfgPath, func(fresh *config.Config) {
			logger.Printf("config reloaded from %s", cfgPath)
			cfg.Session = fresh.Session
			if fresh.Agent.Model != "" && fresh.Agent.Model != cfg.Agent.Model {
				cfg.Agent.Model = fresh.Agent.Model
				if s, ok := ag.(interface{ SetModel(string) }); ok {
					s.SetModel(fresh.Agent.Model)
				}
			}
		})
		if werr == nil {
			if werr = watcher.Watch(); werr == nil {
				defer watcher.Close()
			} else {
				logger.Printf("config watcher failed: %v", werr)
			}
		}
	}

	if useTUI(cmd, cfg) {
		registry := commands.NewRegistry()
		cli.RegisterBuiltins(registry, cli.Version)
		return chat.Run(registry, chat.Options{
			Config:  cfg,
			Agent:   ag,
			Store:   store,
			History: history,
			Session: sess,
			Logger:  logger,
			Version: cli.Version,
		})
	}
	return cli.Run(cli.Options{
		Config:  cfg,
		Agent:   ag,
		Store:   store,
		History: history,
		Session: sess,
		Logger:  logger,
		Version: cli.Version,
	})
}

// useTUI decides between the full-screen TUI and the line REPL.
func useTUI(cmd cli.Command, cfg *config.Config) bool {
	if cmd == cli.CmdChat || cfg.UI.Plain {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}
