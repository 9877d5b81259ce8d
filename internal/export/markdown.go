// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/Sathishnaik786/yvi-chat-assistant/internal/model"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter exports sessions to Markdown format.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

// Export converts a session to Markdown.
func (e *MarkdownExporter) Export(s *model.ChatSession) ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("session is nil")
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# %s\n\n", s.Title))
	sb.WriteString(fmt.Sprintf("**Last Updated:** %s\n\n", s.LastUpdated.Format("Jan 2, 2006 15:04")))
	sb.WriteString("---\n\n")

	for _, msg := range s.Messages {
		sb.WriteString(fmt.Sprintf("### %s\n", roleLabel(msg.Role)))
		if e.options.IncludeTimestamps {
			sb.WriteString(fmt.Sprintf("*%s*\n\n", msg.Timestamp.Format("Jan 2, 2006 15:04")))
		}
		sb.WriteString(msg.Content)
		sb.WriteString("\n\n---\n\n")
	}

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// MimeType returns the MIME type for Markdown.
func (e *MarkdownExporter) MimeType() string {
	return "text/markdown"
}

func roleLabel(r model.Role) string {
	if r == model.RoleUser {
		return "👤 **You**"
	}
	return "🤖 **Assistant**"
}

// formatTimestamp renders a timestamp for metadata sections.
func formatTimestamp(t time.Time) string {
	return t.Format("Jan 2, 2006 15:04:05")
}
