// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling for the chat TUI.
// All colors use Lip Gloss AdaptiveColor for automatic light/dark detection.
package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// COLORS
// =============================================================================

// Purple - Primary accent, assistant messages, selections
var Purple = lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#A78BFA"}

// Cyan - Brand color, info, user highlights
var Cyan = lipgloss.AdaptiveColor{Light: "#0891B2", Dark: "#22D3EE"}

// Emerald - Success states, connected indicator
var Emerald = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}

// Rose - Errors, destructive actions
var Rose = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}

// Amber - Warnings, typing indicator
var Amber = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

// Overlay - Borders and separators
var Overlay = lipgloss.AdaptiveColor{Light: "#E5E5E5", Dark: "#313244"}

// TextPrimary - Main body text
var TextPrimary = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#CDD6F4"}

// TextSecondary - Labels, less prominent text
var TextSecondary = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#A6ADC8"}

// TextMuted - Hints, timestamps
var TextMuted = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6C7086"}

// SelectionBg - Highlighted sidebar row
var SelectionBg = lipgloss.AdaptiveColor{Light: "#BFDBFE", Dark: "#1E3A5F"}

// =============================================================================
// SHARED STYLES
// =============================================================================

var (
	// Title renders the header bar.
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan)

	// UserLabel prefixes user messages in the transcript.
	UserLabel = lipgloss.NewStyle().
			Bold(true).
			Foreground(Cyan)

	// AssistantLabel prefixes assistant messages.
	AssistantLabel = lipgloss.NewStyle().
			Bold(true).
			Foreground(Purple)

	// ErrorBanner renders the dismissible error line.
	ErrorBanner = lipgloss.NewStyle().
			Foreground(Rose).
			Bold(true)

	// Typing renders the waiting indicator.
	Typing = lipgloss.NewStyle().
		Foreground(Amber).
		Italic(true)

	// Hint renders key hints in the status bar.
	Hint = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Timestamp renders message times.
	Timestamp = lipgloss.NewStyle().
			Foreground(TextMuted)

	// SidebarTitle heads the session list.
	SidebarTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(TextSecondary).
			Padding(0, 1)

	// SidebarItem renders an unselected session row.
	SidebarItem = lipgloss.NewStyle().
			Foreground(TextSecondary).
			Padding(0, 1)

	// SidebarSelected renders the current session row.
	SidebarSelected = lipgloss.NewStyle().
			Bold(true).
			Foreground(TextPrimary).
			Background(SelectionBg).
			Padding(0, 1)

	// SidebarBorder separates the sidebar from the transcript.
	SidebarBorder = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderRight(true).
			BorderForeground(Overlay)

	// InputBox frames the composer.
	InputBox = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Overlay).
			Padding(0, 1)

	// InputBoxFocused frames the composer when it has focus.
	InputBoxFocused = InputBox.
			BorderForeground(Cyan)
)
