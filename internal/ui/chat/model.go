// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/skiff/internal/agent"
	"github.com/jeranaias/skiff/internal/commands"
	"github.com/jeranaias/skiff/internal/config"
	"github.com/jeranaias/skiff/internal/session"
	"github.com/jeranaias/skiff/internal/storage"
	"github.com/jeranaias/skiff/internal/ui/components"
	"github.com/jeranaias/skiff/internal/ui/styles"
)

// =============================================================================
// CHAT STATE
// =============================================================================

// State represents the current state of the chat view.
type State int

const (
	StateReady     State = iota // Ready for input
	StateStreaming              // Receiving a streaming reply
)

// Options bundles the collaborators the chat view runs against. Agent,
// Store, and History may be nil.
type Options struct {
	Config  *config.Config
	Agent   agent.Agent
	Store   *storage.ConversationStore
	History *storage.HistoryStore
	Session *session.Manager
	Logger  *log.Logger
	Version string
}

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view.
type Model struct {
	state State
	opts  Options
	theme *styles.Theme

	width  int
	height int

	// Conversation being accumulated, replaced on /load and /clear.
	conversation *storage.StoredConversation

	// Command system
	executor        *commands.Executor
	completer       *commands.Completer
	completionState *commands.CompletionState

	// Components
	viewport  viewport.Model
	input     textinput.Model
	spinner   spinner.Model
	popup     *components.CompletionPopup
	statusBar *components.StatusBar

	// Markdown rendering for finished replies; nil falls back to plain
	// text.
	renderer *glamour.TermRenderer

	// Streaming
	streamBuf *StreamingBuffer
	partial   string
	cancel    context.CancelFunc

	// Transient status line content (errors, idle warnings).
	notice      string
	noticeIsErr bool

	logger   *log.Logger
	quitting bool
}

// New creates the chat model. RegisterBuiltins (or equivalent) must
// already have populated the registry.
func New(registry *commands.Registry, opts Options) Model {
	theme := styles.NewTheme(themePreference(opts.Config))

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type a message, / for commands..."
	ti.CharLimit = 4096
	ti.Focus()

	vp := viewport.New(80, 20)

	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}
	sp.Style = theme.Spinner

	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "", 0)
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(76),
	)
	if err != nil {
		renderer = nil
	}

	return Model{
		state:           StateReady,
		opts:            opts,
		theme:           theme,
		conversation:    newConversation(opts.Config),
		executor:        commands.NewExecutor(registry),
		completer:       commands.NewCompleter(registry),
		completionState: commands.NewCompletionState(),
		viewport:        vp,
		input:           ti,
		spinner:         sp,
		popup:           components.NewCompletionPopup(theme),
		statusBar:       components.NewStatusBar(theme),
		renderer:        renderer,
		streamBuf:       NewStreamingBuffer(),
		logger:          logger,
	}
}

// Init starts the spinner and the idle check loop.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, idleTickCmd())
}

func themePreference(cfg *config.Config) string {
	if cfg == nil {
		return "auto"
	}
	return cfg.UI.Theme
}

func newConversation(cfg *config.Config) *storage.StoredConversation {
	conv := &storage.StoredConversation{}
	if cfg != nil {
		conv.Model = cfg.Agent.Model
	}
	return conv
}

// commandContext builds the capability bundle one dispatch sees. The
// callbacks close over the program via messages, not the model value,
// because Bubble Tea copies models on update.
func (m *Model) commandContext() *commands.Context {
	return &commands.Context{
		Agent:        m.opts.Agent,
		Config:       m.opts.Config,
		Store:        m.opts.Store,
		History:      m.opts.History,
		Session:      m.opts.Session,
		Conversation: m.conversation,
		SetModel: func(model string) {
			if sm, ok := m.opts.Agent.(interface{ SetModel(string) }); ok {
				sm.SetModel(model)
			}
		},
		HandleAbort: func() {
			if m.cancel != nil {
				m.cancel()
			}
		},
	}
}

// record appends to the transcript and the prompt history store.
func (m *Model) record(role, content string) {
	m.conversation.Messages = append(m.conversation.Messages,
		storage.NewStoredMessage(role, content))
	if m.opts.Session != nil {
		m.opts.Session.MarkDirty()
	}
	if m.opts.History != nil {
		sessionID := ""
		if m.opts.Session != nil {
			sessionID = m.opts.Session.ID()
		}
		if err := m.opts.History.Append(context.Background(), sessionID, role, content); err != nil {
			m.logger.Printf("history append: %v", err)
		}
	}
}

func (m *Model) autosave() {
	if m.opts.Config == nil || !m.opts.Config.Session.AutoSave || m.opts.Store == nil {
		return
	}
	if len(m.conversation.Messages) == 0 {
		return
	}
	if _, err := m.opts.Store.Save(m.conversation); err != nil {
		m.logger.Printf("autosave: %v", err)
	} else if m.opts.Session != nil {
		m.opts.Session.MarkClean()
	}
}
