// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Sathishnaik786/yvi-chat-assistant/internal/model"
	"github.com/Sathishnaik786/yvi-chat-assistant/internal/ui/styles"
	"github.com/Sathishnaik786/yvi-chat-assistant/internal/util"
)

// View renders the whole chat screen.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := styles.Title.Render("YVI Chat Assistant")

	body := m.viewport.View()
	if m.showSidebar {
		sidebar := styles.SidebarBorder.Render(m.renderSidebar())
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, body)
	}

	statusLine := m.renderStatus()
	inputStyle := styles.InputBox
	if m.input.Focused() {
		inputStyle = styles.InputBoxFocused
	}
	input := inputStyle.Width(m.width - 2).Render(m.input.View())

	hints := styles.Hint.Render(
		"enter send · ctrl+s skip · ctrl+n new · ctrl+j/k switch · ctrl+b sidebar · ctrl+c quit")

	return lipgloss.JoinVertical(lipgloss.Left, header, body, statusLine, input, hints)
}

// renderStatus shows the typing indicator or the current error.
func (m Model) renderStatus() string {
	if err := m.orch.Error(); err != "" {
		return styles.ErrorBanner.Render("✗ " + err + "  (esc to dismiss)")
	}
	if m.orch.Typing() {
		return styles.Typing.Render(m.spin.View() + " Assistant is thinking...")
	}
	return ""
}

// renderSidebar renders the session list, newest first, with the
// current session highlighted.
func (m Model) renderSidebar() string {
	registry := m.orch.Registry()
	sessions := registry.Sessions()
	currentID := registry.CurrentID()

	var b strings.Builder
	b.WriteString(styles.SidebarTitle.Render(fmt.Sprintf("Chats (%d)", len(sessions))))
	b.WriteString("\n")

	for _, s := range sessions {
		title := util.TruncateRunes(s.Title, sidebarWidth-4)
		if s.ID == currentID {
			b.WriteString(styles.SidebarSelected.Width(sidebarWidth).Render("▸ " + title))
		} else {
			b.WriteString(styles.SidebarItem.Width(sidebarWidth).Render("  " + title))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// refreshTranscript re-renders the current session into the viewport.
func (m *Model) refreshTranscript() {
	if !m.ready && m.width == 0 {
		return
	}

	s := m.currentSession()
	if s == nil || len(s.Messages) == 0 {
		m.viewport.SetContent(styles.Hint.Render(
			"Start the conversation. Try asking about our services."))
		return
	}

	var b strings.Builder
	for _, msg := range s.Messages {
		b.WriteString(m.renderMessage(msg))
		b.WriteString("\n")
	}
	m.viewport.SetContent(b.String())
}

// renderMessage renders one transcript entry.
func (m *Model) renderMessage(msg *model.Message) string {
	var label string
	switch msg.Role {
	case model.RoleUser:
		label = styles.UserLabel.Render("You")
	default:
		label = styles.AssistantLabel.Render("Assistant")
	}
	if m.showTimestamp {
		label += " " + styles.Timestamp.Render(msg.Timestamp.Format("15:04"))
	}

	text := msg.DisplayedText()
	if msg.Revealing() {
		// Raw text with a cursor while the reveal animates; markdown
		// rendering mid-animation would flicker.
		return label + "\n" + text + "▌\n"
	}

	if msg.Role == model.RoleAssistant && m.renderer != nil {
		if rendered, err := m.renderer.Render(text); err == nil {
			return label + "\n" + strings.TrimRight(rendered, "\n") + "\n"
		}
	}
	return label + "\n" + text + "\n"
}
