// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package library

import (
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/Sathishnaik786/yvi-chat-assistant/internal/storage"
	"github.com/Sathishnaik786/yvi-chat-assistant/internal/util"
)

// ============================================================================
// PROMPT LIBRARY
// ============================================================================

// variablePattern matches {{placeholder}} markers in prompt content.
var variablePattern = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// Prompt is a reusable prompt with {{variable}} placeholders.
type Prompt struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category"`
	Tags        []string  `json:"tags"`
	Variables   []string  `json:"variables"`
	IsFavorite  bool      `json:"isFavorite"`
	UsageCount  int       `json:"usageCount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Builtin     bool      `json:"-"`
}

func defaultPrompts() []Prompt {
	now := time.Now()
	return []Prompt{
		{
			ID:          "code-review-1",
			Title:       "Code Review Request",
			Content:     "Please review this {{language}} code for:\n- Best practices\n- Security vulnerabilities\n- Performance issues\n- Code quality\n\n```{{language}}\n{{code}}\n```",
			Description: "Comprehensive code review template",
			Category:    "Development",
			Tags:        []string{"code", "review", "quality"},
			Variables:   []string{"language", "code"},
			CreatedAt:   now, UpdatedAt: now, Builtin: true,
		},
		{
			ID:          "explain-concept",
			Title:       "Explain Concept",
			Content:     "Explain {{concept}} in simple terms as if I'm a {{level}}. Include:\n1. A clear definition\n2. Real-world examples\n3. Common use cases\n4. Key benefits and limitations",
			Description: "Get clear explanations of complex topics",
			Category:    "Learning",
			Tags:        []string{"explain", "education", "learning"},
			Variables:   []string{"concept", "level"},
			CreatedAt:   now, UpdatedAt: now, Builtin: true,
		},
		{
			ID:          "writing-improve",
			Title:       "Improve Writing",
			Content:     "Please improve this {{type}} by:\n- Enhancing clarity and readability\n- Fixing grammar and style issues\n- Making it more {{tone}}\n- Keeping the core message intact\n\n{{text}}",
			Description: "Enhance any type of written content",
			Category:    "Writing",
			Tags:        []string{"writing", "editing", "improvement"},
			Variables:   []string{"type", "tone", "text"},
			CreatedAt:   now, UpdatedAt: now, Builtin: true,
		},
		{
			ID:          "brainstorm-ideas",
			Title:       "Brainstorm Ideas",
			Content:     "Help me brainstorm {{number}} creative ideas for {{topic}}. For each idea, provide:\n- A catchy title\n- Brief description\n- Why it could work\n- Potential challenges\n\nTarget audience: {{audience}}",
			Description: "Generate creative ideas with details",
			Category:    "Creative",
			Tags:        []string{"brainstorm", "ideas", "creative"},
			Variables:   []string{"number", "topic", "audience"},
			CreatedAt:   now, UpdatedAt: now, Builtin: true,
		},
	}
}

// PromptLibrary manages reusable prompts. Built-in prompts always load;
// only user-created prompts persist.
type PromptLibrary struct {
	mu    sync.Mutex
	store *storage.Store
	items []Prompt
}

// NewPromptLibrary loads custom prompts and prepends the built-ins.
func NewPromptLibrary(store *storage.Store) *PromptLibrary {
	p := &PromptLibrary{store: store, items: defaultPrompts()}
	var custom []Prompt
	if p.store.Load(storage.KeyPrompts, &custom) {
		p.items = append(p.items, custom...)
	}
	return p
}

// Add creates a custom prompt; variables are extracted from the
// content automatically.
func (p *PromptLibrary) Add(prompt Prompt) string {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	prompt.ID = util.GenerateID("prompt")
	prompt.Builtin = false
	prompt.UsageCount = 0
	prompt.CreatedAt = now
	prompt.UpdatedAt = now
	prompt.Variables = ExtractVariables(prompt.Content)
	if prompt.Tags == nil {
		prompt.Tags = []string{}
	}
	p.items = append(p.items, prompt)
	p.persistLocked()
	return prompt.ID
}

// Update mutates a prompt via fn and refreshes UpdatedAt and the
// extracted variables.
func (p *PromptLibrary) Update(id string, fn func(*Prompt)) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i := range p.items {
		if p.items[i].ID == id {
			fn(&p.items[i])
			p.items[i].ID = id
			p.items[i].UpdatedAt = time.Now()
			p.items[i].Variables = ExtractVariables(p.items[i].Content)
			p.persistLocked()
			return true
		}
	}
	return false
}

// Delete removes a custom prompt. Built-ins are protected.
func (p *PromptLibrary) Delete(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, prompt := range p.items {
		if prompt.ID == id {
			if prompt.Builtin {
				return false
			}
			p.items = append(p.items[:i], p.items[i+1:]...)
			p.persistLocked()
			return true
		}
	}
	return false
}

// IncrementUsage bumps a prompt's usage counter.
func (p *PromptLibrary) IncrementUsage(id string) {
	p.Update(id, func(prompt *Prompt) { prompt.UsageCount++ })
}

// ToggleFavorite flips a prompt's favorite flag.
func (p *PromptLibrary) ToggleFavorite(id string) {
	p.Update(id, func(prompt *Prompt) { prompt.IsFavorite = !prompt.IsFavorite })
}

// ByID returns a prompt by id.
func (p *PromptLibrary) ByID(id string) (Prompt, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, prompt := range p.items {
		if prompt.ID == id {
			return prompt, true
		}
	}
	return Prompt{}, false
}

// All returns a copy of all prompts, built-ins first.
func (p *PromptLibrary) All() []Prompt {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]Prompt, len(p.items))
	copy(out, p.items)
	return out
}

// Categories returns the distinct categories in use.
func (p *PromptLibrary) Categories() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	return distinct(func(yield func(string)) {
		for _, prompt := range p.items {
			yield(prompt.Category)
		}
	})
}

// Tags returns the distinct tags across all prompts.
func (p *PromptLibrary) Tags() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	return distinct(func(yield func(string)) {
		for _, prompt := range p.items {
			for _, t := range prompt.Tags {
				yield(t)
			}
		}
	})
}

func (p *PromptLibrary) persistLocked() {
	var custom []Prompt
	for _, prompt := range p.items {
		if !prompt.Builtin {
			custom = append(custom, prompt)
		}
	}
	p.store.SetLogged(storage.KeyPrompts, custom)
}

// ExtractVariables returns the {{placeholder}} names in content, in
// order of first appearance.
func ExtractVariables(content string) []string {
	matches := variablePattern.FindAllStringSubmatch(content, -1)
	return distinct(func(yield func(string)) {
		for _, m := range matches {
			yield(strings.TrimSpace(m[1]))
		}
	})
}

// Render substitutes values into a prompt's {{placeholders}}. Missing
// variables are left as-is so the user can spot them.
func Render(content string, values map[string]string) string {
	return variablePattern.ReplaceAllStringFunc(content, func(match string) string {
		name := strings.TrimSpace(strings.Trim(match, "{}"))
		if v, ok := values[name]; ok {
			return v
		}
		return match
	})
}
