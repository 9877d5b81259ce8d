// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.refreshTranscript()
		m.ready = true
		return m, nil

	case redrawMsg:
		m.refreshTranscript()
		m.viewport.GotoBottom()
		if m.animating() {
			return m, redrawTick()
		}
		return m, nil

	case sendDoneMsg:
		m.sending = false
		m.refreshTranscript()
		m.viewport.GotoBottom()
		return m, nil

	case StoreReloadedMsg:
		m.refreshTranscript()
		m.viewport.GotoBottom()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// handleKey routes key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	registry := m.orch.Registry()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Send):
		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			return m, nil
		}
		m.input.Reset()
		m.sending = true
		return m, tea.Batch(m.sendCmd(text), redrawTick())

	case key.Matches(msg, m.keys.SkipReveal):
		if s := m.currentSession(); s != nil {
			if rev := s.RevealingMessage(); rev != nil {
				m.orch.SkipReveal(rev.ID)
				m.refreshTranscript()
				m.viewport.GotoBottom()
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.NewSession):
		registry.CreateSession()
		m.refreshTranscript()
		return m, nil

	case key.Matches(msg, m.keys.NextSession):
		m.switchRelative(1)
		return m, nil

	case key.Matches(msg, m.keys.PrevSession):
		m.switchRelative(-1)
		return m, nil

	case key.Matches(msg, m.keys.DeleteSession):
		if s := m.currentSession(); s != nil {
			registry.DeleteSession(s.ID)
			m.refreshTranscript()
		}
		return m, nil

	case key.Matches(msg, m.keys.ToggleSidebar):
		m.showSidebar = !m.showSidebar
		m.resize()
		m.refreshTranscript()
		return m, nil

	case key.Matches(msg, m.keys.DismissError):
		m.orch.ClearError()
		return m, nil

	case key.Matches(msg, m.keys.ScrollUp):
		m.viewport.PageUp()
		return m, nil

	case key.Matches(msg, m.keys.ScrollDown):
		m.viewport.PageDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// switchRelative moves the current session by delta within the list.
func (m *Model) switchRelative(delta int) {
	registry := m.orch.Registry()
	sessions := registry.Sessions()
	if len(sessions) < 2 {
		return
	}

	currentID := registry.CurrentID()
	idx := 0
	for i, s := range sessions {
		if s.ID == currentID {
			idx = i
			break
		}
	}

	idx = (idx + delta + len(sessions)) % len(sessions)
	registry.SwitchSession(sessions[idx].ID)
	m.refreshTranscript()
	m.viewport.GotoBottom()
}

// resize rebuilds the viewport and markdown renderer for the current
// terminal size.
func (m *Model) resize() {
	// Header, error line, input box, status bar.
	chromeHeight := 6
	vpHeight := m.height - chromeHeight
	if vpHeight < 3 {
		vpHeight = 3
	}

	w := m.transcriptWidth()
	if !m.ready {
		m.viewport = viewport.New(w, vpHeight)
	} else {
		m.viewport.Width = w
		m.viewport.Height = vpHeight
	}
	m.input.Width = m.width - 6

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(w-2),
	)
	if err == nil {
		m.renderer = renderer
	}
}
