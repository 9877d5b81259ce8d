// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package library

import (
	"sync"

	"github.com/Sathishnaik786/yvi-chat-assistant/internal/chatapi"
	"github.com/Sathishnaik786/yvi-chat-assistant/internal/storage"
	"github.com/Sathishnaik786/yvi-chat-assistant/internal/util"
)

// ============================================================================
// CONVERSATION TEMPLATES
// ============================================================================

// ConversationTemplate seeds a new session with a system prompt,
// starter prompts, and model settings.
type ConversationTemplate struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Description    string           `json:"description"`
	Icon           string           `json:"icon"`
	Category       string           `json:"category"` // coding, writing, analysis, creative, custom
	SystemPrompt   string           `json:"systemPrompt"`
	StarterPrompts []string         `json:"starterPrompts"`
	Settings       chatapi.Settings `json:"settings"`
	IsDefault      bool             `json:"isDefault"`
}

func defaultTemplates() []ConversationTemplate {
	return []ConversationTemplate{
		{
			ID:           "code-review",
			Name:         "Code Review",
			Description:  "Get detailed code reviews with best practices",
			Icon:         "🔍",
			Category:     "coding",
			SystemPrompt: "You are an expert code reviewer. Provide thorough, constructive feedback on code quality, security, performance, and best practices. Point out potential bugs and suggest improvements.",
			StarterPrompts: []string{
				"Review this code for security issues",
				"How can I improve the performance of this function?",
				"Check this code for best practices",
			},
			Settings:  chatapi.Settings{Model: "gpt-4o", Temperature: 0.3, MaxTokens: 2048},
			IsDefault: true,
		},
		{
			ID:           "brainstorming",
			Name:         "Brainstorming",
			Description:  "Generate creative ideas and solutions",
			Icon:         "💡",
			Category:     "creative",
			SystemPrompt: "You are a creative thinking partner. Help generate innovative ideas, explore possibilities, and think outside the box. Be encouraging and build upon ideas.",
			StarterPrompts: []string{
				"Help me brainstorm ideas for...",
				"What are some creative solutions for...",
				"Generate unique concepts for...",
			},
			Settings:  chatapi.Settings{Model: "gpt-4o-mini", Temperature: 0.9, MaxTokens: 2048},
			IsDefault: true,
		},
		{
			ID:           "writing-assistant",
			Name:         "Writing Assistant",
			Description:  "Improve your writing with professional feedback",
			Icon:         "✍️",
			Category:     "writing",
			SystemPrompt: "You are a professional writing assistant. Help improve clarity, grammar, style, and structure. Provide constructive feedback and suggest better phrasing.",
			StarterPrompts: []string{
				"Improve this paragraph",
				"Make this more professional",
				"Check this for grammar and style",
			},
			Settings:  chatapi.Settings{Model: "gpt-4o-mini", Temperature: 0.5, MaxTokens: 2048},
			IsDefault: true,
		},
		{
			ID:           "technical-analysis",
			Name:         "Technical Analysis",
			Description:  "Deep dive into technical topics",
			Icon:         "🔬",
			Category:     "analysis",
			SystemPrompt: "You are a technical analyst. Provide in-depth, accurate analysis of technical topics. Break down complex concepts and explain thoroughly.",
			StarterPrompts: []string{
				"Explain the technical details of...",
				"Analyze the architecture of...",
				"Compare these technologies...",
			},
			Settings:  chatapi.Settings{Model: "gpt-4o", Temperature: 0.4, MaxTokens: 4096},
			IsDefault: true,
		},
		{
			ID:           "general-chat",
			Name:         "General Chat",
			Description:  "Casual conversation and general questions",
			Icon:         "💬",
			Category:     "custom",
			SystemPrompt: "You are a helpful, friendly assistant. Answer questions clearly and concisely. Be conversational and approachable.",
			StarterPrompts: []string{
				"Tell me about...",
				"How does... work?",
				"What is...?",
			},
			Settings:  chatapi.Settings{Model: "gpt-4o-mini", Temperature: 0.7, MaxTokens: 2048},
			IsDefault: true,
		},
	}
}

// Templates manages conversation templates. Defaults always come first;
// only custom templates persist.
type Templates struct {
	mu    sync.Mutex
	store *storage.Store
	items []ConversationTemplate
}

// NewTemplates loads custom templates and prepends the defaults.
func NewTemplates(store *storage.Store) *Templates {
	t := &Templates{store: store, items: defaultTemplates()}
	var custom []ConversationTemplate
	if t.store.Load(storage.KeyTemplates, &custom) {
		t.items = append(t.items, custom...)
	}
	return t
}

// Add creates a custom template and returns its id.
func (t *Templates) Add(tpl ConversationTemplate) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	tpl.ID = util.GenerateID("tpl")
	tpl.IsDefault = false
	t.items = append(t.items, tpl)
	t.persistLocked()
	return tpl.ID
}

// Update mutates a template via fn. Defaults can be edited in memory
// for the session, but only custom templates are persisted.
func (t *Templates) Update(id string, fn func(*ConversationTemplate)) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := range t.items {
		if t.items[i].ID == id {
			fn(&t.items[i])
			t.items[i].ID = id // id is immutable
			t.persistLocked()
			return true
		}
	}
	return false
}

// Delete removes a custom template. Defaults are protected.
func (t *Templates) Delete(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i, tpl := range t.items {
		if tpl.ID == id {
			if tpl.IsDefault {
				return false
			}
			t.items = append(t.items[:i], t.items[i+1:]...)
			t.persistLocked()
			return true
		}
	}
	return false
}

// ByID returns a template by id.
func (t *Templates) ByID(id string) (ConversationTemplate, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, tpl := range t.items {
		if tpl.ID == id {
			return tpl, true
		}
	}
	return ConversationTemplate{}, false
}

// All returns a copy of all templates, defaults first.
func (t *Templates) All() []ConversationTemplate {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]ConversationTemplate, len(t.items))
	copy(out, t.items)
	return out
}

func (t *Templates) persistLocked() {
	var custom []ConversationTemplate
	for _, tpl := range t.items {
		if !tpl.IsDefault {
			custom = append(custom, tpl)
		}
	}
	t.store.SetLogged(storage.KeyTemplates, custom)
}
