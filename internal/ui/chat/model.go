// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/Sathishnaik786/yvi-chat-assistant/internal/chat"
	"github.com/Sathishnaik786/yvi-chat-assistant/internal/chatapi"
	"github.com/Sathishnaik786/yvi-chat-assistant/internal/config"
	"github.com/Sathishnaik786/yvi-chat-assistant/internal/model"
	"github.com/Sathishnaik786/yvi-chat-assistant/internal/ui/styles"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// redrawInterval drives re-renders while a reveal is in flight.
	redrawInterval = 80 * time.Millisecond

	// sidebarWidth is the fixed width of the session list.
	sidebarWidth = 28

	// inputCharLimit caps composer input.
	inputCharLimit = 4000
)

// =============================================================================
// MESSAGES
// =============================================================================

// sendDoneMsg signals that a send (including its reveal) finished.
type sendDoneMsg struct{}

// StoreReloadedMsg signals that the session store changed on disk and
// the registry has been reloaded. Sent from outside the program loop
// by the store watcher.
type StoreReloadedMsg struct{}

// redrawMsg drives the animation refresh loop.
type redrawMsg time.Time

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view.
type Model struct {
	orch     *chat.Orchestrator
	cfg      *config.Config
	settings chatapi.Settings

	keys     keyMap
	input    textinput.Model
	viewport viewport.Model
	spin     spinner.Model
	renderer *glamour.TermRenderer

	width   int
	height  int
	ready   bool
	sending bool

	showSidebar   bool
	showTimestamp bool
}

// New creates the chat view bound to an orchestrator.
func New(orch *chat.Orchestrator, cfg *config.Config) Model {
	input := textinput.New()
	input.Placeholder = "Ask about our services..."
	input.CharLimit = inputCharLimit
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(styles.Amber)

	return Model{
		orch: orch,
		cfg:  cfg,
		settings: chatapi.Settings{
			Model:       cfg.AI.Model,
			Temperature: cfg.AI.Temperature,
			MaxTokens:   cfg.AI.MaxTokens,
		},
		keys:          defaultKeyMap(),
		input:         input,
		spin:          spin,
		showSidebar:   true,
		showTimestamp: cfg.UI.ShowTimestamps,
	}
}

// Init starts the cursor blink and spinner.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spin.Tick)
}

// =============================================================================
// COMMANDS
// =============================================================================

// sendCmd dispatches the user message. It blocks through the network
// call and the full reveal, so it runs as a command.
func (m *Model) sendCmd(text string) tea.Cmd {
	orch := m.orch
	settings := m.settings
	return func() tea.Msg {
		orch.SendUserMessage(context.Background(), text, &settings)
		return sendDoneMsg{}
	}
}

// redrawTick schedules the next animation frame.
func redrawTick() tea.Cmd {
	return tea.Tick(redrawInterval, func(t time.Time) tea.Msg {
		return redrawMsg(t)
	})
}

// =============================================================================
// HELPERS
// =============================================================================

// currentSession returns the session under display, or nil.
func (m *Model) currentSession() *model.ChatSession {
	return m.orch.Registry().Current()
}

// revealing reports whether the current session has a reveal in flight.
func (m *Model) revealing() bool {
	s := m.currentSession()
	return s != nil && s.RevealingMessage() != nil
}

// animating reports whether the view needs periodic redraws.
func (m *Model) animating() bool {
	return m.sending || m.orch.Typing() || m.revealing()
}

// transcriptWidth is the viewport width given the sidebar state.
func (m *Model) transcriptWidth() int {
	w := m.width
	if m.showSidebar {
		w -= sidebarWidth + 1
	}
	if w < 20 {
		w = 20
	}
	return w
}
