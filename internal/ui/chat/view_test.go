// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
	"testing"

	"github.com/Sathishnaik786/yvi-chat-assistant/internal/model"
)

func TestRenderMessageShowsCursorWhileRevealing(t *testing.T) {
	m := Model{}

	msg := model.NewAssistantMessage("full answer", "services")
	msg.DisplayedContent = "full an"

	out := m.renderMessage(msg)
	if !strings.Contains(out, "full an▌") {
		t.Errorf("revealing message should show partial text with cursor, got %q", out)
	}
	if strings.Contains(out, "full answer") {
		t.Errorf("revealing message should not show complete text, got %q", out)
	}
}

func TestRenderMessageUserShowsFullText(t *testing.T) {
	m := Model{}

	msg := model.NewUserMessage("hello there")
	out := m.renderMessage(msg)
	if !strings.Contains(out, "hello there") {
		t.Errorf("user message should render full content, got %q", out)
	}
	if !strings.Contains(out, "You") {
		t.Errorf("user message should carry the You label, got %q", out)
	}
}

func TestRenderMessageTimestampToggle(t *testing.T) {
	m := Model{showTimestamp: true}

	msg := model.NewUserMessage("hi")
	out := m.renderMessage(msg)
	if !strings.Contains(out, msg.Timestamp.Format("15:04")) {
		t.Errorf("timestamps enabled but not rendered: %q", out)
	}
}

func TestDefaultKeyMapBindings(t *testing.T) {
	keys := defaultKeyMap()

	checks := map[string][]string{
		"enter":  keys.Send.Keys(),
		"ctrl+s": keys.SkipReveal.Keys(),
		"ctrl+n": keys.NewSession.Keys(),
		"ctrl+c": keys.Quit.Keys(),
	}
	for want, got := range checks {
		found := false
		for _, k := range got {
			if k == want {
				found = true
			}
		}
		if !found {
			t.Errorf("binding %q missing from %v", want, got)
		}
	}
}
