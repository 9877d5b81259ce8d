// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Sathishnaik786/yvi-chat-assistant/internal/model"
)

// =============================================================================
// JSON EXPORTER
// =============================================================================

// JSONExporter exports sessions to JSON format. The output is a
// faithful, re-importable snapshot: filtering options are ignored.
type JSONExporter struct {
	options *Options
}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter(opts *Options) *JSONExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &JSONExporter{options: opts}
}

// jsonDocument is the export wire shape, with RFC3339 timestamps for
// interoperability with the original web client's export.
type jsonDocument struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	LastUpdated string        `json:"lastUpdated"`
	Messages    []jsonMessage `json:"messages"`
}

type jsonMessage struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
	Source    string `json:"source,omitempty"`
}

// Export converts a session to JSON.
func (e *JSONExporter) Export(s *model.ChatSession) ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("session is nil")
	}

	doc := jsonDocument{
		ID:          s.ID,
		Title:       s.Title,
		LastUpdated: s.LastUpdated.Format(time.RFC3339),
		Messages:    make([]jsonMessage, 0, len(s.Messages)),
	}
	for _, msg := range s.Messages {
		doc.Messages = append(doc.Messages, jsonMessage{
			ID:        msg.ID,
			Role:      msg.Role.String(),
			Content:   msg.Content,
			Timestamp: msg.Timestamp.Format(time.RFC3339),
			Source:    msg.Source,
		})
	}

	return json.MarshalIndent(doc, "", "  ")
}

// FileExtension returns the file extension for JSON.
func (e *JSONExporter) FileExtension() string {
	return ".json"
}

// MimeType returns the MIME type for JSON.
func (e *JSONExporter) MimeType() string {
	return "application/json"
}
