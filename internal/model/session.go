// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/Sathishnaik786/yvi-chat-assistant/internal/util"
)

// DefaultTitle is the title of a session with no messages yet.
const DefaultTitle = "New Chat"

// titleMaxRunes is how much of the first user message becomes the title.
const titleMaxRunes = 30

// =============================================================================
// CHAT SESSION
// =============================================================================

// ChatSession holds one persisted conversation: an ordered list of
// messages plus organizational metadata.
type ChatSession struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Messages    []*Message `json:"messages"`
	LastUpdated time.Time  `json:"lastUpdated"`

	// Organization (optional)
	FolderID string   `json:"folderId,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Archived bool     `json:"archived,omitempty"`
}

// NewChatSession creates an empty session titled DefaultTitle.
func NewChatSession() *ChatSession {
	return &ChatSession{
		ID:          util.GenerateID("sess"),
		Title:       DefaultTitle,
		Messages:    make([]*Message, 0),
		LastUpdated: time.Now(),
	}
}

// Append adds a message, refreshes LastUpdated, and derives the title
// from the first message of the session.
func (s *ChatSession) Append(msg *Message) {
	if len(s.Messages) == 0 {
		s.Title = DeriveTitle(msg.Content)
	}
	s.Messages = append(s.Messages, msg)
	s.LastUpdated = time.Now()
}

// Clone returns a deep copy of the session, messages included. The
// registry hands out clones so readers never share memory with the
// reveal path mutating the originals.
func (s *ChatSession) Clone() *ChatSession {
	if s == nil {
		return nil
	}
	out := *s
	out.Messages = make([]*Message, len(s.Messages))
	for i, m := range s.Messages {
		out.Messages[i] = m.Clone()
	}
	if s.Tags != nil {
		out.Tags = append([]string(nil), s.Tags...)
	}
	return &out
}

// FindMessage returns the message with the given id, or nil.
func (s *ChatSession) FindMessage(id string) *Message {
	for _, m := range s.Messages {
		if m.ID == id {
			return m
		}
	}
	return nil
}

// RevealingMessage returns the assistant message currently mid-reveal,
// or nil when every message is fully shown. At most one message can be
// revealing at a time.
func (s *ChatSession) RevealingMessage() *Message {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Revealing() {
			return s.Messages[i]
		}
	}
	return nil
}

// DeriveTitle builds a session title from its first message: the first
// 30 characters, with "..." appended when the message is longer.
func DeriveTitle(firstMessage string) string {
	if firstMessage == "" {
		return DefaultTitle
	}
	runes := []rune(firstMessage)
	if len(runes) <= titleMaxRunes {
		return firstMessage
	}
	return string(runes[:titleMaxRunes]) + "..."
}
