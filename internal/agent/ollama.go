// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package agent

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the Ollama-backed agent.
type ClientConfig struct {
	// BaseURL is the Ollama API base URL. Explicit IPv4 avoids IPv6
	// resolution issues on Windows.
	BaseURL string

	// Model is the model used for chat requests.
	Model string

	// Timeout for non-streaming requests (default: 120s)
	Timeout time.Duration

	// MaxRetries for transient failures (default: 3)
	MaxRetries int

	// RetryDelay between retries (default: 1s)
	RetryDelay time.Duration

	// RequestsPerSecond throttles outgoing requests (default: 4)
	RequestsPerSecond float64
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:           "http://127.0.0.1:11434",
		Model:             "qwen2.5-coder:7b",
		Timeout:           120 * time.Second,
		MaxRetries:        3,
		RetryDelay:        1 * time.Second,
		RequestsPerSecond: 4,
	}
}

// =============================================================================
// OLLAMA CLIENT
// =============================================================================

// OllamaClient is the Ollama-backed Agent implementation. It is safe
// for concurrent use.
type OllamaClient struct {
	config     *ClientConfig
	httpClient *http.Client
	limiter    *rate.Limiter

	mu     sync.Mutex
	cancel context.CancelFunc // cancels the in-flight request, if any
}

var _ Agent = (*OllamaClient)(nil)

// NewOllamaClient creates an agent client, filling defaults for any
// zero config values.
func NewOllamaClient(config *ClientConfig) *OllamaClient {
	if config == nil {
		config = DefaultConfig()
	}
	defaults := DefaultConfig()
	if config.BaseURL == "" {
		config.BaseURL = defaults.BaseURL
	}
	if config.Model == "" {
		config.Model = defaults.Model
	}
	if config.Timeout == 0 {
		config.Timeout = defaults.Timeout
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = defaults.MaxRetries
	}
	if config.RetryDelay == 0 {
		config.RetryDelay = defaults.RetryDelay
	}
	if config.RequestsPerSecond == 0 {
		config.RequestsPerSecond = defaults.RequestsPerSecond
	}

	return &OllamaClient{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(config.RequestsPerSecond), 1),
	}
}

// Model returns the configured chat model.
func (c *OllamaClient) Model() string {
	return c.config.Model
}

// SetModel switches the model used for subsequent chat requests.
func (c *OllamaClient) SetModel(model string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.config.Model = model
}

// CheckRunning verifies the backend is reachable.
func (c *OllamaClient) CheckRunning(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL, nil)
	if err != nil {
		return &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrTimeout
		}
		return ErrNotRunning
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &ClientError{
			Type:    ErrTypeConnection,
			Message: "unexpected status from backend: " + resp.Status,
		}
	}
	return nil
}

// =============================================================================
// WIRE TYPES
// =============================================================================

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
	Done    bool        `json:"done"`
}

type listModelsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

type backendError struct {
	Error string `json:"error"`
}

// =============================================================================
// AGENT OPERATIONS
// =============================================================================

// Chat sends a prompt and returns the complete reply.
func (c *OllamaClient) Chat(ctx context.Context, prompt string) (string, error) {
	ctx, done := c.track(ctx)
	defer done()

	var reply string
	err := c.withRetries(ctx, func() error {
		resp, err := c.doChat(ctx, prompt, false)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		var result chatResponse
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
		}
		reply = result.Message.Content
		return nil
	})
	return reply, err
}

// Stream sends a prompt and delivers reply chunks through fn until the
// backend marks the reply done.
func (c *OllamaClient) Stream(ctx context.Context, prompt string, fn func(chunk string)) error {
	ctx, done := c.track(ctx)
	defer done()

	resp, err := c.doChat(ctx, prompt, true)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	reader := bufio.NewReader(resp.Body)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := reader.ReadBytes('\n')
		if len(bytes.TrimSpace(line)) > 0 {
			var chunk chatResponse
			if jerr := json.Unmarshal(line, &chunk); jerr != nil {
				return &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode stream chunk", Cause: jerr}
			}
			if chunk.Message.Content != "" {
				fn(chunk.Message.Content)
			}
			if chunk.Done {
				return nil
			}
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return &ClientError{Type: ErrTypeConnection, Message: "stream read failed", Cause: err}
		}
	}
}

// Models lists the model names the backend can serve.
func (c *OllamaClient) Models(ctx context.Context) ([]string, error) {
	ctx, done := c.track(ctx)
	defer done()

	var names []string
	err := c.withRetries(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/api/tags", nil)
		if err != nil {
			return &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return ErrTimeout
			}
			return ErrNotRunning
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to list models: " + resp.Status}
		}

		var result listModelsResponse
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
		}

		names = names[:0]
		for _, m := range result.Models {
			names = append(names, m.Name)
		}
		return nil
	})
	return names, err
}

// Abort cancels the in-flight request, if any.
func (c *OllamaClient) Abort() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// =============================================================================
// INTERNALS
// =============================================================================

// track derives a cancellable context and records its cancel func so
// Abort can reach the in-flight request.
func (c *OllamaClient) track(ctx context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancel(ctx)
	c.mu.Lock()
	c.cancel = cancel
	c.mu.Unlock()

	return ctx, func() {
		c.mu.Lock()
		if c.cancel != nil {
			c.cancel = nil
		}
		c.mu.Unlock()
		cancel()
	}
}

func (c *OllamaClient) doChat(ctx context.Context, prompt string, stream bool) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	c.mu.Lock()
	model := c.config.Model
	c.mu.Unlock()

	body, err := json.Marshal(chatRequest{
		Model:    model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
		Stream:   stream,
	})
	if err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, ErrNotRunning
	}

	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, ErrModelNotFound
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		var berr backendError
		if err := json.NewDecoder(resp.Body).Decode(&berr); err == nil && berr.Error != "" {
			return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: berr.Error}
		}
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "chat request failed: " + resp.Status}
	}

	return resp, nil
}

// withRetries runs fn, retrying connection-class failures with a fixed
// delay. Model and response errors are not retried.
func (c *OllamaClient) withRetries(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.config.RetryDelay):
			}
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		var cerr *ClientError
		if errors.As(lastErr, &cerr) {
			if cerr.Type == ErrTypeNotRunning || cerr.Type == ErrTypeConnection {
				continue
			}
		}
		return lastErr
	}
	return lastErr
}

// TrimReply strips the leading/trailing whitespace backends tend to
// emit around replies.
func TrimReply(s string) string {
	return strings.TrimSpace(s)
}
