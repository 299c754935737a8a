// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

// The TUI owns the terminal, so operational logging goes to a file
// under the data directory instead of stderr.

// OpenLogFile opens (creating if needed) the application log file and
// returns a logger writing to it. The caller owns the returned closer.
func OpenLogFile(path string) (*log.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return log.New(f, "", log.LstdFlags), f, nil
}

// DiscardLogger returns a logger that drops everything, for callers
// that run without a writable data directory.
func DiscardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}
