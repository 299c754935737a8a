// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session tracks the identity and activity of an interactive
// skiff session: session ID, idle timeout, and unsaved-changes state.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// SESSION MANAGER
// =============================================================================

// Manager tracks session state. All methods are safe for concurrent
// use; the hosts poll Check from their tick loops.
type Manager struct {
	mu sync.Mutex

	sessionID    string
	startTime    time.Time
	lastActivity time.Time

	// Idle timeout; zero disables timeout handling entirely.
	timeout       time.Duration
	warningBefore time.Duration
	warningShown  bool

	isDirty bool

	onTimeout func()
	onWarning func(remaining time.Duration)
}

// Config holds configuration for the session manager.
type Config struct {
	// Timeout ends the session after inactivity; zero disables it.
	Timeout time.Duration

	// WarningBefore is how long before timeout to warn (default: 2 minutes)
	WarningBefore time.Duration

	// OnTimeout is called once when the idle timeout elapses.
	OnTimeout func()

	// OnWarning is called once when the warning window opens.
	OnWarning func(remaining time.Duration)
}

// NewManager creates a session manager with a fresh session ID.
func NewManager(cfg Config) *Manager {
	if cfg.WarningBefore == 0 {
		cfg.WarningBefore = 2 * time.Minute
	}
	now := time.Now()
	return &Manager{
		sessionID:     uuid.NewString(),
		startTime:     now,
		lastActivity:  now,
		timeout:       cfg.Timeout,
		warningBefore: cfg.WarningBefore,
		onTimeout:     cfg.OnTimeout,
		onWarning:     cfg.OnWarning,
	}
}

// ID returns the session's unique identifier.
func (m *Manager) ID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessionID
}

// StartTime returns when the session began.
func (m *Manager) StartTime() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.startTime
}

// Uptime returns how long the session has been running.
func (m *Manager) Uptime() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return time.Since(m.startTime)
}

// RecordActivity resets the idle clock. Hosts call this on every input
// line.
func (m *Manager) RecordActivity() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastActivity = time.Now()
	m.warningShown = false
}

// IdleFor returns how long the session has been idle.
func (m *Manager) IdleFor() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return time.Since(m.lastActivity)
}

// MarkDirty records unsaved changes.
func (m *Manager) MarkDirty() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.isDirty = true
}

// MarkClean records that changes were persisted.
func (m *Manager) MarkClean() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.isDirty = false
}

// IsDirty reports whether the session has unsaved changes.
func (m *Manager) IsDirty() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.isDirty
}

// SetCallbacks installs the warning and timeout handlers, replacing any
// set at construction. Hosts that select their idle behavior after the
// manager exists install these before polling Check.
func (m *Manager) SetCallbacks(onWarning func(remaining time.Duration), onTimeout func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onWarning = onWarning
	m.onTimeout = onTimeout
}

// Check fires the warning and timeout callbacks when their windows are
// reached. Hosts call it periodically; callbacks run on the caller's
// goroutine. Returns true when the session has timed out.
func (m *Manager) Check() bool {
	m.mu.Lock()
	if m.timeout == 0 {
		m.mu.Unlock()
		return false
	}

	idle := time.Since(m.lastActivity)
	remaining := m.timeout - idle

	if remaining <= 0 {
		onTimeout := m.onTimeout
		m.mu.Unlock()
		if onTimeout != nil {
			onTimeout()
		}
		return true
	}

	if remaining <= m.warningBefore && !m.warningShown {
		m.warningShown = true
		onWarning := m.onWarning
		m.mu.Unlock()
		if onWarning != nil {
			onWarning(remaining)
		}
		return false
	}

	m.mu.Unlock()
	return false
}
