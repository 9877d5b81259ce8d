// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat sequences a raw user input into a persisted exchange:
// append the user message, call the answer backend, append the reply,
// and drive its typewriter reveal.
package chat

import (
	"context"
	"strings"
	"sync"

	"github.com/Sathishnaik786/yvi-chat-assistant/internal/chatapi"
	"github.com/Sathishnaik786/yvi-chat-assistant/internal/model"
	"github.com/Sathishnaik786/yvi-chat-assistant/internal/reveal"
	"github.com/Sathishnaik786/yvi-chat-assistant/internal/session"
)

// Service is the external answer backend. Implemented by
// chatapi.Client; tests substitute their own.
type Service interface {
	Send(ctx context.Context, req *chatapi.Request) (*chatapi.Reply, error)
}

// =============================================================================
// ORCHESTRATOR
// =============================================================================

// Orchestrator owns the typing flag, the error banner text, and the
// live reveal tasks. All methods are safe for concurrent use; the UI
// calls SendUserMessage from a background command while SkipReveal and
// the getters run on the event loop.
type Orchestrator struct {
	registry *session.Registry
	service  Service
	runner   *reveal.Runner

	revealOpts reveal.Options

	mu      sync.Mutex
	typing  bool
	lastErr string
}

// New creates an orchestrator. revealOpts configures every reveal this
// orchestrator starts.
func New(registry *session.Registry, service Service, revealOpts reveal.Options) *Orchestrator {
	return &Orchestrator{
		registry:   registry,
		service:    service,
		runner:     reveal.NewRunner(),
		revealOpts: revealOpts,
	}
}

// Registry exposes the session registry for UI consumption.
func (o *Orchestrator) Registry() *session.Registry {
	return o.registry
}

// Typing reports whether a backend request is in flight. It covers the
// network wait only, not the reveal that follows.
func (o *Orchestrator) Typing() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.typing
}

// Error returns the current dismissable error banner text, or "".
func (o *Orchestrator) Error() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastErr
}

// ClearError dismisses the error banner.
func (o *Orchestrator) ClearError() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.lastErr = ""
}

// =============================================================================
// SEND
// =============================================================================

// SendUserMessage turns a raw input string into a persisted exchange.
// It blocks until the assistant reply is fully revealed (or the reveal
// is skipped), so callers run it off the event loop.
//
// Empty input and a missing current session are silent no-ops. Backend
// failures set the error banner and leave the conversation exactly as
// it was after the user message.
func (o *Orchestrator) SendUserMessage(ctx context.Context, text string, settings *chatapi.Settings) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return
	}
	current := o.registry.Current()
	if current == nil {
		return
	}
	sessionID := current.ID

	// A new message always lands with the previous reply fully shown.
	if revealing := current.RevealingMessage(); revealing != nil {
		o.SkipReveal(revealing.ID)
	}

	o.registry.AppendMessage(sessionID, model.NewUserMessage(trimmed))

	o.setTyping(true)
	o.ClearError()

	reply, err := o.service.Send(ctx, &chatapi.Request{
		Message:   trimmed,
		SessionID: sessionID,
		Settings:  settings,
	})
	// The typing indicator reflects "waiting for the backend", not
	// "still revealing": it clears as soon as the call resolves.
	o.setTyping(false)
	if err != nil {
		o.setError(humanError(err))
		return
	}

	asst := model.NewAssistantMessage(reply.Text, reply.Source)
	o.registry.AppendMessage(sessionID, asst)

	o.runner.Reveal(ctx, asst.ID, reply.Text, o.revealOpts, func(prefix string) {
		o.registry.UpdateMessage(sessionID, asst.ID, func(m *model.Message) {
			m.DisplayedContent = prefix
		})
	})

	// Reveal finished, naturally or cancelled: content is authoritative.
	o.registry.UpdateMessage(sessionID, asst.ID, func(m *model.Message) {
		m.IsRevealed = true
		m.DisplayedContent = ""
	})
}

// SkipReveal immediately completes the reveal of one message: the full
// text is shown and the message marked revealed. A message that is not
// mid-reveal is left untouched.
func (o *Orchestrator) SkipReveal(messageID string) {
	target, sessionID := o.findMessage(messageID)
	if target == nil || !target.Revealing() {
		return
	}

	// Cancel first so the task's final update lands before ours.
	o.runner.Cancel(messageID)

	o.registry.UpdateMessage(sessionID, messageID, func(m *model.Message) {
		m.DisplayedContent = m.Content
		m.IsRevealed = true
	})
}

// findMessage locates a message in any session; reveals may still be
// running for a session the user has switched away from.
func (o *Orchestrator) findMessage(messageID string) (*model.Message, string) {
	for _, s := range o.registry.Sessions() {
		if m := s.FindMessage(messageID); m != nil {
			return m, s.ID
		}
	}
	return nil, ""
}

func (o *Orchestrator) setTyping(v bool) {
	o.mu.Lock()
	o.typing = v
	o.mu.Unlock()
}

func (o *Orchestrator) setError(msg string) {
	o.mu.Lock()
	o.lastErr = msg
	o.mu.Unlock()
}

// humanError maps a backend failure to the banner string. ClientError
// messages are already written for people; anything else gets a
// generic fallback.
func humanError(err error) string {
	if cerr, ok := err.(*chatapi.ClientError); ok {
		return cerr.Message
	}
	return "Failed to send message. Please try again."
}
