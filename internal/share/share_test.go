// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package share

import (
	"encoding/base64"
	"testing"

	"github.com/Sathishnaik786/yvi-chat-assistant/internal/model"
)

func TestConversationRoundTrip(t *testing.T) {
	s := model.NewChatSession()
	s.Append(model.NewUserMessage("what do you offer?"))
	s.Append(model.NewAssistantMessage("many things", "services"))

	code, err := Conversation(s)
	if err != nil {
		t.Fatalf("Conversation failed: %v", err)
	}

	payload, ok := DecodeConversation(code)
	if !ok {
		t.Fatal("DecodeConversation rejected its own code")
	}
	if payload.Title != s.Title {
		t.Errorf("Title = %q, want %q", payload.Title, s.Title)
	}
	if payload.MessageCount != 2 || len(payload.Messages) != 2 {
		t.Errorf("MessageCount = %d, Messages = %d, want 2 each", payload.MessageCount, len(payload.Messages))
	}
	if payload.Messages[0].Content != "what do you offer?" {
		t.Errorf("first message = %q", payload.Messages[0].Content)
	}
}

func TestDecodeRejectsMalformedCodes(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{"empty", ""},
		{"not base64", "!!!not-base64!!!"},
		{"base64 of garbage", base64.StdEncoding.EncodeToString([]byte("not json"))},
		{"missing type", base64.StdEncoding.EncodeToString([]byte(`{"version":"1.0","data":{"a":1}}`))},
		{"missing version", base64.StdEncoding.EncodeToString([]byte(`{"type":"conversation","data":{"a":1}}`))},
		{"missing data", base64.StdEncoding.EncodeToString([]byte(`{"type":"conversation","version":"1.0"}`))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if env, ok := Decode(tt.code); ok || env != nil {
				t.Errorf("Decode(%q) accepted a malformed code", tt.code)
			}
		})
	}
}

func TestDecodeConversationWrongType(t *testing.T) {
	code, err := Encode(TypeTemplate, map[string]string{"name": "tpl"})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := DecodeConversation(code); ok {
		t.Error("DecodeConversation must reject non-conversation payloads")
	}
}

func TestEncodeSetsEnvelopeFields(t *testing.T) {
	code, err := Encode(TypeFavorites, []string{"a", "b"})
	if err != nil {
		t.Fatal(err)
	}
	env, ok := Decode(code)
	if !ok {
		t.Fatal("Decode rejected a fresh code")
	}
	if env.Type != TypeFavorites {
		t.Errorf("Type = %q", env.Type)
	}
	if env.Version != Version {
		t.Errorf("Version = %q", env.Version)
	}
	if env.CreatedAt == 0 {
		t.Error("CreatedAt should be set")
	}
}
