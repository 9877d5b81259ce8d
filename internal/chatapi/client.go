// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chatapi provides the HTTP client for the answer backend.
// The backend is an opaque request/response service: one message in,
// one reply out.
package chatapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeConnection
	ErrTypeTimeout
	ErrTypeInvalidResponse
	ErrTypeServer
)

// ClientError represents an error from the backend client.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// =============================================================================
// REQUEST / RESPONSE TYPES
// =============================================================================

// Settings is the opaque model configuration passed through to the
// backend.
type Settings struct {
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"maxTokens"`
}

// Request is the chat request wire format.
type Request struct {
	Message   string    `json:"message"`
	SessionID string    `json:"sessionId,omitempty"`
	Settings  *Settings `json:"settings,omitempty"`
}

// Reply is the decoded backend answer.
type Reply struct {
	Text   string
	Source string
}

// wireResponse accepts both backend response shapes: the full
// {reply, source} form and the simpler keyword-bot {title, answer}
// form, which is concatenated into a single display string.
type wireResponse struct {
	Reply  string `json:"reply"`
	Source string `json:"source"`
	Title  string `json:"title"`
	Answer string `json:"answer"`
}

func (w *wireResponse) toReply() (*Reply, bool) {
	if w.Reply != "" {
		return &Reply{Text: w.Reply, Source: w.Source}, true
	}
	if w.Title != "" || w.Answer != "" {
		text := strings.TrimSpace(w.Title)
		if text != "" && w.Answer != "" {
			text += "\n\n"
		}
		return &Reply{Text: text + w.Answer, Source: w.Source}, true
	}
	return nil, false
}

// =============================================================================
// CLIENT
// =============================================================================

// ClientConfig holds configuration options for the backend client.
type ClientConfig struct {
	// BaseURL is the backend base URL (default: http://127.0.0.1:5000).
	BaseURL string

	// Timeout for requests (default: 30s).
	Timeout time.Duration
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL: "http://127.0.0.1:5000",
		Timeout: 30 * time.Second,
	}
}

// Client talks to the answer backend. Safe for concurrent use.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
}

// NewClient creates a backend client with default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a backend client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	if config.BaseURL == "" {
		config.BaseURL = "http://127.0.0.1:5000"
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
	}
}

// Send posts one chat request and decodes the reply.
// All transport and decode failures come back as *ClientError with a
// human-readable message suitable for the error banner.
func (c *Client) Send(ctx context.Context, req *Request) (*Reply, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeUnknown, Message: "failed to encode request", Cause: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(c.config.BaseURL, "/")+"/chat", bytes.NewReader(body))
	if err != nil {
		return nil, &ClientError{Type: ErrTypeUnknown, Message: "failed to build request", Cause: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, &ClientError{Type: ErrTypeTimeout, Message: "the assistant took too long to respond", Cause: err}
		}
		return nil, &ClientError{Type: ErrTypeConnection, Message: "could not reach the assistant service", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Body content is not part of the contract on error paths.
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &ClientError{
			Type:    ErrTypeServer,
			Message: fmt.Sprintf("the assistant service returned an error (HTTP %d)", resp.StatusCode),
		}
	}

	var wire wireResponse
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "the assistant sent an unreadable reply", Cause: err}
	}
	reply, ok := wire.toReply()
	if !ok {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "the assistant sent an empty reply"}
	}
	return reply, nil
}
