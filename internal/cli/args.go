// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdChat
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Plain forces the line-oriented REPL even on capable terminals.
	Plain bool

	// Model overrides the configured model for this run.
	Model string

	// NoAgent starts without an agent; chat input is refused and only
	// slash commands work.
	NoAgent bool

	// Raw holds the remaining positional arguments.
	Raw []string
}

// Parse reads os.Args into a command and its arguments.
func Parse() (Command, Args) {
	args := os.Args[1:]
	remaining, parsed := parseGlobalFlags(args)

	if len(remaining) == 0 {
		return CmdTUI, parsed
	}

	cmd := strings.ToLower(remaining[0])
	parsed.Raw = remaining[1:]

	switch cmd {
	case "tui":
		return CmdTUI, parsed
	case "chat", "repl":
		return CmdChat, parsed
	case "version", "-v", "--version":
		return CmdVersion, parsed
	case "help", "-h", "--help":
		return CmdHelp, parsed
	default:
		return CmdTUI, parsed
	}
}

// parseGlobalFlags strips flags valid for every command.
func parseGlobalFlags(args []string) ([]string, Args) {
	var parsed Args
	var remaining []string

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--plain", "-p":
			parsed.Plain = true
		case "--no-agent":
			parsed.NoAgent = true
		case "-m", "--model":
			if i+1 < len(args) {
				i++
				parsed.Model = args[i]
			}
		default:
			remaining = append(remaining, args[i])
		}
	}
	return remaining, parsed
}

// HandleVersion prints version information.
func HandleVersion() {
	fmt.Printf("skiff %s\n", Version)
	fmt.Printf("  commit:  %s\n", GitCommit)
	fmt.Printf("  built:   %s\n", BuildDate)
	fmt.Printf("  go:      %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// HandleHelp prints usage information.
func HandleHelp() {
	fmt.Println(`skiff - chat shell for local AI agents

Usage:
  skiff [flags]           Start the full-screen TUI
  skiff chat [flags]      Start the line-oriented REPL
  skiff version           Show version information
  skiff help              Show this help

Flags:
  -p, --plain             Force the line-oriented REPL
  -m, --model NAME        Use a specific model for this run
      --no-agent          Start without an agent (commands only)

Environment:
  SKIFF_CONFIG_DIR        Data directory (default ~/.skiff)
  SKIFF_AGENT_URL         Agent backend URL
  SKIFF_MODEL             Default model
  SKIFF_NO_AGENT          Disable the agent ("1" or "true")
  SKIFF_THEME             UI theme: dark, light, auto
  SKIFF_PLAIN             Force the REPL ("1" or "true")

Interactive commands (inside the shell):
  /help                   List available commands
  /model [name]           Show or switch model
  /save, /load, /sessions Conversation persistence
  /quit                   Exit`)
}
