// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat sessions and messages.
package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Assistant"
	default:
		return string(r)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single message in a chat session.
//
// For assistant messages DisplayedContent holds the partial text while the
// reveal animation is in flight; it is always a prefix of Content. Once
// IsRevealed is true, Content is authoritative and DisplayedContent is
// ignored. User messages are always treated as revealed.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`

	// Source identifies which knowledge category answered (assistant only).
	Source string `json:"source,omitempty"`

	// Reveal state (assistant only, not persisted once revealed).
	DisplayedContent string `json:"displayedContent,omitempty"`
	IsRevealed       bool   `json:"isRevealed,omitempty"`
}

// NewUserMessage creates a user message with the current timestamp.
// User messages have no reveal phase and are created revealed.
func NewUserMessage(content string) *Message {
	return &Message{
		ID:         uuid.NewString(),
		Role:       RoleUser,
		Content:    content,
		Timestamp:  time.Now(),
		IsRevealed: true,
	}
}

// NewAssistantMessage creates an assistant message whose text is fully
// known but not yet revealed on screen.
func NewAssistantMessage(content, source string) *Message {
	return &Message{
		ID:               uuid.NewString(),
		Role:             RoleAssistant,
		Content:          content,
		Timestamp:        time.Now(),
		Source:           source,
		DisplayedContent: "",
		IsRevealed:       false,
	}
}

// Clone returns a copy of the message. All fields are values, so a
// struct copy is a full copy.
func (m *Message) Clone() *Message {
	if m == nil {
		return nil
	}
	out := *m
	return &out
}

// DisplayedText returns the text the UI should render right now:
// the full content for user and revealed assistant messages, the
// current reveal prefix otherwise.
func (m *Message) DisplayedText() string {
	if m.Role == RoleUser || m.IsRevealed {
		return m.Content
	}
	return m.DisplayedContent
}

// Revealing reports whether this message is mid-reveal.
func (m *Message) Revealing() bool {
	return m.Role == RoleAssistant && !m.IsRevealed
}
