// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"

	"github.com/jeranaias/skiff/internal/agent"
	"github.com/jeranaias/skiff/internal/commands"
	"github.com/jeranaias/skiff/internal/config"
	"github.com/jeranaias/skiff/internal/session"
	"github.com/jeranaias/skiff/internal/storage"
	"github.com/jeranaias/skiff/internal/ui/styles"
)

// =============================================================================
// STYLES
// =============================================================================

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(styles.Cyan).
			Bold(true)

	welcomeStyle = lipgloss.NewStyle().
			Foreground(styles.Purple).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary)

	resultStyle = lipgloss.NewStyle().
			Foreground(styles.Emerald)

	errorStyle = lipgloss.NewStyle().
			Foreground(styles.Rose).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(styles.Amber)
)

// =============================================================================
// INPUT
// =============================================================================

// input wraps liner with persistent history and slash-command
// completion.
type input struct {
	line        *liner.State
	historyFile string
}

func newInput(completer *commands.Completer) *input {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	line.SetCompleter(func(prefix string) []string {
		var out []string
		for _, c := range completer.CompleteLine(prefix) {
			out = append(out, commands.Prefix+c.Value)
		}
		return out
	})

	dir, err := config.Dir()
	if err != nil {
		dir = os.TempDir()
	}

	in := &input{
		line:        line,
		historyFile: filepath.Join(dir, "input_history"),
	}
	if f, err := os.Open(in.historyFile); err == nil {
		in.line.ReadHistory(f)
		f.Close()
	}
	return in
}

func (in *input) Read(prompt string) (string, error) {
	text, err := in.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) != "" {
		in.line.AppendHistory(text)
	}
	return text, nil
}

func (in *input) Close() {
	if err := os.MkdirAll(filepath.Dir(in.historyFile), 0o755); err == nil {
		if f, err := os.OpenFile(in.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600); err == nil {
			in.line.WriteHistory(f)
			f.Close()
		}
	}
	in.line.Close()
}

// =============================================================================
// REPL
// =============================================================================

// Options bundles the collaborators the REPL runs against. Agent,
// Store, and History may be nil; the affected commands report their
// absence instead.
type Options struct {
	Config  *config.Config
	Agent   agent.Agent
	Store   *storage.ConversationStore
	History *storage.HistoryStore
	Session *session.Manager
	Logger  *log.Logger
	Version string
}

// repl is one interactive line-oriented session.
type repl struct {
	opts     Options
	executor *commands.Executor
	input    *input
	logger   *log.Logger

	conversation *storage.StoredConversation

	// cancel aborts the in-flight agent request, when there is one.
	// Written by the REPL loop and read by the signal goroutine.
	mu     sync.Mutex
	cancel context.CancelFunc

	// timedOut is set by the idle checker; the loop reads it between
	// lines (the prompt blocks, so it takes effect on the next input).
	timedOut atomic.Bool
}

// setCancel publishes the cancel func for the in-flight request; nil
// marks the request finished.
func (r *repl) setCancel(cancel context.CancelFunc) {
	r.mu.Lock()
	r.cancel = cancel
	r.mu.Unlock()
}

// abort cancels the in-flight request, reporting whether there was one.
func (r *repl) abort() bool {
	r.mu.Lock()
	cancel := r.cancel
	r.mu.Unlock()
	if cancel == nil {
		return false
	}
	cancel()
	return true
}

// Run drives the plain line-oriented shell until the user exits. It is
// the fallback host for dumb terminals and pipes; the TUI covers the
// interactive case.
func Run(opts Options) error {
	registry := commands.NewRegistry()
	RegisterBuiltins(registry, opts.Version)

	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "", 0)
	}

	r := &repl{
		opts:         opts,
		executor:     commands.NewExecutor(registry),
		input:        newInput(commands.NewCompleter(registry)),
		logger:       logger,
		conversation: newConversation(opts.Config),
	}
	defer r.input.Close()

	r.printWelcome()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		for range sigChan {
			if r.abort() {
				fmt.Fprintln(os.Stderr, "\n"+warningStyle.Render("[Cancelled]"))
			}
		}
	}()

	idleDone := make(chan struct{})
	defer close(idleDone)
	if r.opts.Session != nil {
		r.opts.Session.SetCallbacks(
			func(remaining time.Duration) {
				fmt.Fprintln(os.Stderr, "\n"+warningStyle.Render(
					fmt.Sprintf("Session idle - timing out in %s", remaining.Round(time.Second))))
			},
			func() { r.timedOut.Store(true) },
		)
		go func() {
			ticker := time.NewTicker(15 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-idleDone:
					return
				case <-ticker.C:
					r.opts.Session.Check()
				}
			}
		}()
	}

	for {
		text, err := r.input.Read(promptStyle.Render("skiff> "))
		if err != nil {
			// Ctrl+C at the prompt and Ctrl+D both end the session.
			if !errors.Is(err, liner.ErrPromptAborted) && !errors.Is(err, liner.ErrNotTerminalOutput) {
				r.logger.Printf("prompt read: %v", err)
			}
			fmt.Println()
			r.finish()
			return nil
		}

		if r.timedOut.Load() {
			fmt.Println(warningStyle.Render("Session ended after idle timeout"))
			r.finish()
			return nil
		}

		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if r.opts.Session != nil {
			r.opts.Session.RecordActivity()
		}

		if commands.IsCommand(text) {
			if r.dispatch(text) {
				r.finish()
				return nil
			}
			continue
		}

		if err := r.chat(text); err != nil {
			fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("[Error]"), err)
		}
	}
}

func newConversation(cfg *config.Config) *storage.StoredConversation {
	conv := &storage.StoredConversation{}
	if cfg != nil {
		conv.Model = cfg.Agent.Model
	}
	return conv
}

// dispatch runs one slash command and applies its result to the REPL
// state. Returns true when the session should end.
func (r *repl) dispatch(text string) bool {
	cmdCtx := &commands.Context{
		Agent:        r.opts.Agent,
		Config:       r.opts.Config,
		Store:        r.opts.Store,
		History:      r.opts.History,
		Session:      r.opts.Session,
		Conversation: r.conversation,
		SetModel:     r.setModel,
		HandleAbort: func() {
			r.abort()
		},
	}

	res := r.executor.Execute(context.Background(), text, cmdCtx)

	if res.Message != "" {
		if res.Success {
			fmt.Println(resultStyle.Render(res.Message))
		} else {
			fmt.Fprintln(os.Stderr, errorStyle.Render(res.Message))
		}
	}

	if res.Data != nil {
		if res.Data["clear"] == true {
			r.conversation = newConversation(r.opts.Config)
		}
		if conv, ok := res.Data["conversation"].(*storage.StoredConversation); ok {
			r.conversation = conv
			r.setModel(conv.Model)
		}
	}
	return res.ShouldExit
}

func (r *repl) setModel(model string) {
	if model == "" {
		return
	}
	if sm, ok := r.opts.Agent.(interface{ SetModel(string) }); ok {
		sm.SetModel(model)
	}
	r.conversation.Model = model
}

// chat sends one message to the agent and streams the reply to stdout.
func (r *repl) chat(text string) error {
	if r.opts.Agent == nil {
		return fmt.Errorf("no agent configured; use slash commands or start Ollama (see /help)")
	}

	ctx, cancel := context.WithCancel(context.Background())
	r.setCancel(cancel)
	defer func() {
		r.setCancel(nil)
		cancel()
	}()

	r.record("user", text)

	fmt.Println()
	var reply strings.Builder
	err := r.opts.Agent.Stream(ctx, text, func(chunk string) {
		reply.WriteString(chunk)
		fmt.Print(chunk)
	})
	fmt.Println()
	if err != nil {
		// Keep the user's line in the transcript; a retry of the same
		// question should read naturally.
		return err
	}

	r.record("assistant", agent.TrimReply(reply.String()))
	r.autosave()
	return nil
}

func (r *repl) record(role, content string) {
	r.conversation.Messages = append(r.conversation.Messages,
		storage.NewStoredMessage(role, content))
	if r.opts.Session != nil {
		r.opts.Session.MarkDirty()
	}
	if r.opts.History != nil {
		sessionID := ""
		if r.opts.Session != nil {
			sessionID = r.opts.Session.ID()
		}
		if err := r.opts.History.Append(context.Background(), sessionID, role, content); err != nil {
			r.logger.Printf("history append: %v", err)
		}
	}
}

func (r *repl) autosave() {
	if r.opts.Config == nil || !r.opts.Config.Session.AutoSave || r.opts.Store == nil {
		return
	}
	if len(r.conversation.Messages) == 0 {
		return
	}
	if _, err := r.opts.Store.Save(r.conversation); err != nil {
		r.logger.Printf("autosave: %v", err)
	} else if r.opts.Session != nil {
		r.opts.Session.MarkClean()
	}
}

// =============================================================================
// DISPLAY
// =============================================================================

func (r *repl) printWelcome() {
	fmt.Println()
	fmt.Println(welcomeStyle.Render("skiff " + r.opts.Version))
	fmt.Println(infoStyle.Render(strings.Repeat("─", 30)))
	if r.opts.Config != nil {
		fmt.Printf("%s %s\n", infoStyle.Render("Model:"), resultStyle.Render(r.opts.Config.Agent.Model))
	}
	if r.opts.Agent == nil {
		fmt.Println(warningStyle.Render("No agent available - slash commands only"))
	}
	fmt.Println()
	fmt.Println(infoStyle.Render("Type a message, or /help for commands. Ctrl+D exits."))
	fmt.Println()
}

func (r *repl) finish() {
	if r.opts.Session != nil && r.opts.Session.IsDirty() {
		r.autosave()
	}
	fmt.Println(infoStyle.Render("Goodbye!"))
}
