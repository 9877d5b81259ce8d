// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"html"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	chromastyles "github.com/alecthomas/chroma/v2/styles"

	"github.com/Sathishnaik786/yvi-chat-assistant/internal/model"
)

// =============================================================================
// HTML EXPORTER
// =============================================================================

// HTMLExporter exports sessions to a standalone styled HTML page.
// Fenced code blocks inside messages are syntax-highlighted.
type HTMLExporter struct {
	options *Options
}

// NewHTMLExporter creates a new HTML exporter.
func NewHTMLExporter(opts *Options) *HTMLExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &HTMLExporter{options: opts}
}

// Export converts a session to HTML.
func (e *HTMLExporter) Export(s *model.ChatSession) ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("session is nil")
	}

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"UTF-8\">\n")
	sb.WriteString(fmt.Sprintf("<title>%s</title>\n", html.EscapeString(s.Title)))
	sb.WriteString("<style>\n")
	sb.WriteString(e.stylesheet())
	sb.WriteString("</style>\n</head>\n<body>\n")

	sb.WriteString(fmt.Sprintf("<h1>%s</h1>\n", html.EscapeString(s.Title)))
	sb.WriteString("<div class=\"metadata\">\n")
	sb.WriteString(fmt.Sprintf("<p><strong>Last Updated:</strong> %s</p>\n", formatTimestamp(s.LastUpdated)))
	sb.WriteString(fmt.Sprintf("<p><strong>Total Messages:</strong> %d</p>\n", len(s.Messages)))
	sb.WriteString("</div>\n<hr>\n")

	for _, msg := range s.Messages {
		sb.WriteString(fmt.Sprintf("<div class=\"message %s\">\n", msg.Role))
		sb.WriteString(fmt.Sprintf("<div class=\"role\">%s</div>\n", html.EscapeString(msg.Role.DisplayName())))
		if e.options.IncludeTimestamps {
			sb.WriteString(fmt.Sprintf("<div class=\"timestamp\">%s</div>\n", formatTimestamp(msg.Timestamp)))
		}
		sb.WriteString("<div class=\"content\">")
		sb.WriteString(renderContent(msg.Content, e.theme()))
		sb.WriteString("</div>\n</div>\n")
	}

	sb.WriteString("</body>\n</html>\n")
	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for HTML.
func (e *HTMLExporter) FileExtension() string {
	return ".html"
}

// MimeType returns the MIME type for HTML.
func (e *HTMLExporter) MimeType() string {
	return "text/html"
}

func (e *HTMLExporter) theme() string {
	if e.options.Theme == "light" {
		return "github"
	}
	return "monokai"
}

func (e *HTMLExporter) stylesheet() string {
	bg, fg, userBg, asstBg := "#ffffff", "#333333", "#e0f2fe", "#f1f5f9"
	if e.options.Theme != "light" {
		bg, fg, userBg, asstBg = "#1e1e2e", "#cdd6f4", "#313244", "#45475a"
	}
	return fmt.Sprintf(`body {
  font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif;
  max-width: 800px;
  margin: 0 auto;
  padding: 40px 20px;
  line-height: 1.6;
  background: %s;
  color: %s;
}
.metadata { font-size: 14px; opacity: 0.7; margin-bottom: 30px; }
.message { margin: 20px 0; padding: 15px; border-radius: 8px; }
.message.user { background: %s; margin-left: 20px; }
.message.assistant { background: %s; margin-right: 20px; }
.role { font-weight: bold; margin-bottom: 5px; }
.timestamp { font-size: 12px; opacity: 0.7; margin-bottom: 10px; }
.content { white-space: pre-wrap; word-wrap: break-word; }
.content pre { white-space: pre; overflow-x: auto; padding: 10px; border-radius: 6px; }
`, bg, fg, userBg, asstBg)
}

// =============================================================================
// CONTENT RENDERING
// =============================================================================

// renderContent escapes message text and syntax-highlights fenced code
// blocks using chroma.
func renderContent(content, theme string) string {
	var sb strings.Builder
	lines := strings.Split(content, "\n")

	var inCode bool
	var lang string
	var code []string

	flush := func() {
		sb.WriteString(highlightCode(strings.Join(code, "\n"), lang, theme))
		code = nil
		lang = ""
	}

	for _, line := range lines {
		if strings.HasPrefix(line, "```") {
			if inCode {
				flush()
			} else {
				lang = strings.TrimSpace(strings.TrimPrefix(line, "```"))
			}
			inCode = !inCode
			continue
		}
		if inCode {
			code = append(code, line)
			continue
		}
		sb.WriteString(html.EscapeString(line))
		sb.WriteString("\n")
	}
	if inCode {
		// Unterminated fence; render what we have.
		flush()
	}
	return sb.String()
}

// highlightCode renders a code block with chroma, falling back to an
// escaped <pre> when highlighting fails.
func highlightCode(code, lang, theme string) string {
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}

	style := chromastyles.Get(theme)
	if style == nil {
		style = chromastyles.Fallback
	}

	formatter := chromahtml.New(chromahtml.WithClasses(false))

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "<pre>" + html.EscapeString(code) + "</pre>"
	}

	var sb strings.Builder
	if err := formatter.Format(&sb, style, iterator); err != nil {
		return "<pre>" + html.EscapeString(code) + "</pre>"
	}
	return sb.String()
}
