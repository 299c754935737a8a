// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for skiff.
//
// Configuration is TOML with sensible defaults, environment variable
// overrides, and validation.
//
// File location: ~/.skiff/config.toml (or $SKIFF_CONFIG_DIR/config.toml).
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/skiff/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete skiff configuration.
type Config struct {
	Version string `toml:"version"`

	// Agent configuration
	Agent AgentConfig `toml:"agent"`

	// Session configuration
	Session SessionConfig `toml:"session"`

	// UI configuration
	UI UIConfig `toml:"ui"`
}

// AgentConfig contains agent backend configuration.
type AgentConfig struct {
	// Enabled wires an agent into the shell. When false, commands
	// that require an agent are refused and chat input is rejected.
	Enabled bool `toml:"enabled"`
	// BaseURL is the URL of the Ollama-compatible backend
	BaseURL string `toml:"base_url"`
	// Model is the default model for chat requests
	Model string `toml:"model"`
	// TimeoutSecs is the request timeout in seconds
	TimeoutSecs int `toml:"timeout_secs"`
}

// SessionConfig contains session behavior configuration.
type SessionConfig struct {
	// IdleTimeoutSecs ends an inactive session; 0 disables the timeout.
	IdleTimeoutSecs int `toml:"idle_timeout_secs"`
	// AutoSave persists the conversation on every exchange
	AutoSave bool `toml:"auto_save"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is "dark", "light", or "auto"
	Theme string `toml:"theme"`
	// Plain forces the line-oriented REPL instead of the TUI
	Plain bool `toml:"plain"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the built-in default configuration.
func Default() *Config {
	return &Config{
		Version: "1",
		Agent: AgentConfig{
			Enabled:     true,
			BaseURL:     "http://127.0.0.1:11434",
			Model:       "qwen2.5-coder:7b",
			TimeoutSecs: 120,
		},
		Session: SessionConfig{
			IdleTimeoutSecs: 0,
			AutoSave:        true,
		},
		UI: UIConfig{
			Theme: "auto",
		},
	}
}

// =============================================================================
// PATHS
// =============================================================================

// Dir returns the skiff data directory, creating nothing.
// $SKIFF_CONFIG_DIR overrides the default ~/.skiff.
func Dir() (string, error) {
	if dir := os.Getenv("SKIFF_CONFIG_DIR"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate home directory: %w", err)
	}
	return filepath.Join(home, ".skiff"), nil
}

// Path returns the config file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// =============================================================================
// LOAD / SAVE
// =============================================================================

// Load reads the config file, falling back to defaults when it does
// not exist, then applies environment overrides and validation.
func Load() (*Config, error) {
	cfg := Default()

	path, err := Path()
	if err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if _, err := toml.DecodeFile(path, cfg); err != nil {
				return nil, fmt.Errorf("failed to load config: %w", err)
			}
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.Validate()
	return cfg, nil
}

// LoadFromPath reads a specific config file. The file must exist.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.ApplyEnvOverrides()
	cfg.Validate()
	return cfg, nil
}

// Save writes the config atomically to the default path.
func Save(cfg *Config) error {
	path, err := Path()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	// 0600: the config may hold backend endpoints users consider private
	return util.AtomicWriteFile(path, buf.Bytes(), 0o600)
}

// =============================================================================
// OVERRIDES AND VALIDATION
// =============================================================================

// ApplyEnvOverrides lets the environment win over the file.
func (c *Config) ApplyEnvOverrides() {
	if url := os.Getenv("SKIFF_AGENT_URL"); url != "" {
		c.Agent.BaseURL = url
	}
	if model := os.Getenv("SKIFF_MODEL"); model != "" {
		c.Agent.Model = model
	}
	if v := os.Getenv("SKIFF_NO_AGENT"); v == "1" || v == "true" {
		c.Agent.Enabled = false
	}
	if v := os.Getenv("SKIFF_THEME"); v != "" {
		c.UI.Theme = v
	}
	if v := os.Getenv("SKIFF_PLAIN"); v == "1" || v == "true" {
		c.UI.Plain = true
	}
	if v := os.Getenv("SKIFF_IDLE_TIMEOUT"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			c.Session.IdleTimeoutSecs = secs
		}
	}
}

// Validate clamps out-of-range values back to usable ones rather than
// refusing to start.
func (c *Config) Validate() {
	if c.Agent.BaseURL == "" {
		c.Agent.BaseURL = Default().Agent.BaseURL
	}
	if c.Agent.Model == "" {
		c.Agent.Model = Default().Agent.Model
	}
	if c.Agent.TimeoutSecs <= 0 {
		c.Agent.TimeoutSecs = Default().Agent.TimeoutSecs
	}
	if c.Session.IdleTimeoutSecs < 0 {
		c.Session.IdleTimeoutSecs = 0
	}
	switch c.UI.Theme {
	case "dark", "light", "auto":
	default:
		c.UI.Theme = "auto"
	}
}

// AgentTimeout returns the agent request timeout as a duration.
func (c *Config) AgentTimeout() time.Duration {
	return time.Duration(c.Agent.TimeoutSecs) * time.Second
}

// IdleTimeout returns the session idle timeout; zero means disabled.
func (c *Config) IdleTimeout() time.Duration {
	return time.Duration(c.Session.IdleTimeoutSecs) * time.Second
}
