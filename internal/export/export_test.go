// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/Sathishnaik786/yvi-chat-assistant/internal/model"
)

func sampleSession() *model.ChatSession {
	s := model.NewChatSession()
	s.Append(model.NewUserMessage("How do I write a loop in Go?"))
	asst := model.NewAssistantMessage("Use for:\n```go\nfor i := 0; i < 10; i++ {\n}\n```", "coding")
	asst.IsRevealed = true
	s.Append(asst)
	return s
}

func TestMarkdownExport(t *testing.T) {
	content, err := NewMarkdownExporter(nil).Export(sampleSession())
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	text := string(content)
	for _, want := range []string{
		"# How do I write a loop in Go?",
		"**You**",
		"**Assistant**",
		"How do I write a loop in Go?",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestJSONExportRoundTrips(t *testing.T) {
	s := sampleSession()
	content, err := NewJSONExporter(nil).Export(s)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	var doc struct {
		ID       string `json:"id"`
		Title    string `json:"title"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
			Source  string `json:"source"`
		} `json:"messages"`
	}
	if err := json.Unmarshal(content, &doc); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if doc.ID != s.ID || doc.Title != s.Title {
		t.Errorf("doc identity = (%q, %q)", doc.ID, doc.Title)
	}
	if len(doc.Messages) != 2 {
		t.Fatalf("message count = %d, want 2", len(doc.Messages))
	}
	if doc.Messages[1].Role != "assistant" || doc.Messages[1].Source != "coding" {
		t.Errorf("assistant message = %+v", doc.Messages[1])
	}
}

func TestHTMLExportEscapesAndHighlights(t *testing.T) {
	s := model.NewChatSession()
	s.Append(model.NewUserMessage("is 1 < 2 && 3 > 2?"))

	content, err := NewHTMLExporter(nil).Export(s)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	text := string(content)

	if strings.Contains(text, "1 < 2 && 3 > 2") {
		t.Error("message content must be HTML-escaped")
	}
	if !strings.Contains(text, "1 &lt; 2 &amp;&amp; 3 &gt; 2") {
		t.Error("escaped content missing")
	}

	// Code blocks come out highlighted (inline styles from chroma).
	highlighted, err := NewHTMLExporter(nil).Export(sampleSession())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(highlighted), "<pre") {
		t.Error("code block should render as <pre>")
	}
}

func TestForFormat(t *testing.T) {
	for _, format := range []string{"markdown", "md", "json", "html", "JSON"} {
		if _, err := ForFormat(format, nil); err != nil {
			t.Errorf("ForFormat(%q) failed: %v", format, err)
		}
	}
	if _, err := ForFormat("pdf", nil); err == nil {
		t.Error("ForFormat should reject unknown formats")
	}
}

func TestExportToFile(t *testing.T) {
	dir := t.TempDir()
	opts := DefaultOptions()
	opts.OutputDir = dir

	path, err := ExportToFile(sampleSession(), NewMarkdownExporter(opts), opts)
	if err != nil {
		t.Fatalf("ExportToFile failed: %v", err)
	}
	if !strings.HasSuffix(path, ".md") {
		t.Errorf("path = %q, want .md suffix", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("exported file missing: %v", err)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello World!", "Hello_World"},
		{"", "conversation"},
		{"///", "conversation"},
		{"what's new?", "what_s_new"},
	}
	for _, tt := range tests {
		if got := sanitizeFilename(tt.in); got != tt.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
