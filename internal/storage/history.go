// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// =============================================================================
// HISTORY STORE
// =============================================================================

// HistoryStore records every prompt and reply in a SQLite database so
// past exchanges survive across sessions and can be searched from the
// /history command.
type HistoryStore struct {
	db *sql.DB
}

// HistoryEntry is one recorded exchange line.
type HistoryEntry struct {
	ID        int64
	SessionID string
	Role      string
	Content   string
	CreatedAt time.Time
}

const historySchema = `
CREATE TABLE IF NOT EXISTS history (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL,
	role       TEXT NOT NULL,
	content    TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_history_session ON history(session_id);
CREATE INDEX IF NOT EXISTS idx_history_created ON history(created_at);
`

// OpenHistory opens (creating if needed) the history database at path.
func OpenHistory(path string) (*HistoryStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	// WAL keeps reads cheap while the TUI appends from its own goroutine.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(historySchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create history schema: %w", err)
	}

	return &HistoryStore{db: db}, nil
}

// Close releases the database handle.
func (h *HistoryStore) Close() error {
	return h.db.Close()
}

// Append records one exchange line.
func (h *HistoryStore) Append(ctx context.Context, sessionID, role, content string) error {
	_, err := h.db.ExecContext(ctx,
		"INSERT INTO history (session_id, role, content, created_at) VALUES (?, ?, ?, ?)",
		sessionID, role, content, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to append history: %w", err)
	}
	return nil
}

// Recent returns the newest entries, newest first.
func (h *HistoryStore) Recent(ctx context.Context, limit int) ([]HistoryEntry, error) {
	rows, err := h.db.QueryContext(ctx,
		"SELECT id, session_id, role, content, created_at FROM history ORDER BY id DESC LIMIT ?",
		limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()
	return scanHistory(rows)
}

// Search returns entries whose content contains term, newest first.
func (h *HistoryStore) Search(ctx context.Context, term string, limit int) ([]HistoryEntry, error) {
	rows, err := h.db.QueryContext(ctx,
		"SELECT id, session_id, role, content, created_at FROM history WHERE content LIKE ? ORDER BY id DESC LIMIT ?",
		"%"+term+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search history: %w", err)
	}
	defer rows.Close()
	return scanHistory(rows)
}

// Count returns the total number of recorded entries.
func (h *HistoryStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := h.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM history").Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count history: %w", err)
	}
	return n, nil
}

func scanHistory(rows *sql.Rows) ([]HistoryEntry, error) {
	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		var created int64
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Role, &e.Content, &created); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		e.CreatedAt = time.Unix(created, 0)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
