// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/Sathishnaik786/yvi-chat-assistant/internal/ui/styles"
)

// ===== OUTPUT STYLES =====

var (
	okStyle   = lipgloss.NewStyle().Foreground(styles.Emerald).Bold(true)
	errStyle  = lipgloss.NewStyle().Foreground(styles.Rose).Bold(true)
	warnStyle = lipgloss.NewStyle().Foreground(styles.Amber)
	dimStyle  = lipgloss.NewStyle().Foreground(styles.TextMuted)
	headStyle = lipgloss.NewStyle().Foreground(styles.Cyan).Bold(true)
)

// IsInteractive reports whether stdout is a terminal. Animations and
// prompts are disabled when piping.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// DarkBackground probes the terminal background so exports and
// markdown rendering can pick a matching theme.
func DarkBackground() bool {
	return termenv.HasDarkBackground()
}
