// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package share encodes conversations, favorites and templates into
// opaque share codes: a JSON envelope, base64-encoded. The encoding is
// for compactness and transport only; it is neither encrypted nor
// signed.
package share

import (
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/Sathishnaik786/yvi-chat-assistant/internal/model"
)

// Payload types.
const (
	TypeConversation = "conversation"
	TypeFavorites    = "favorites"
	TypeTemplate     = "template"
)

// Version is the current share payload version.
const Version = "1.0"

// Envelope is the share payload wrapper. Type, Version and Data are
// required; a decoded envelope missing any of them is rejected.
type Envelope struct {
	Type      string          `json:"type"`
	Version   string          `json:"version"`
	Data      json.RawMessage `json:"data"`
	CreatedAt int64           `json:"createdAt"`
}

// =============================================================================
// ENCODING / DECODING
// =============================================================================

// Encode wraps data in an envelope and returns the share code.
func Encode(payloadType string, data any) (string, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return "", err
	}
	env := Envelope{
		Type:      payloadType,
		Version:   Version,
		Data:      raw,
		CreatedAt: time.Now().UnixMilli(),
	}
	blob, err := json.Marshal(env)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(blob), nil
}

// Decode parses a share code. Malformed or incomplete codes yield
// (nil, false), never an error or panic: a bad code must not interrupt
// the caller.
func Decode(code string) (*Envelope, bool) {
	blob, err := base64.StdEncoding.DecodeString(code)
	if err != nil {
		return nil, false
	}
	var env Envelope
	if err := json.Unmarshal(blob, &env); err != nil {
		return nil, false
	}
	if env.Type == "" || env.Version == "" || len(env.Data) == 0 {
		return nil, false
	}
	return &env, true
}

// =============================================================================
// PAYLOAD HELPERS
// =============================================================================

// ConversationPayload is the shared slice of a session.
type ConversationPayload struct {
	Title        string           `json:"title"`
	Messages     []*model.Message `json:"messages"`
	MessageCount int              `json:"messageCount"`
}

// Conversation builds a share code for one session.
func Conversation(s *model.ChatSession) (string, error) {
	return Encode(TypeConversation, ConversationPayload{
		Title:        s.Title,
		Messages:     s.Messages,
		MessageCount: len(s.Messages),
	})
}

// DecodeConversation extracts a conversation payload from a code.
func DecodeConversation(code string) (*ConversationPayload, bool) {
	env, ok := Decode(code)
	if !ok || env.Type != TypeConversation {
		return nil, false
	}
	var payload ConversationPayload
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		return nil, false
	}
	return &payload, true
}
