// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the interactive chat TUI.
//
// The view is a standard Bubble Tea model: a viewport holds the
// transcript, a textinput is the composer, and a sidebar lists
// sessions. Sending runs as a command that blocks through the
// orchestrator's network call and reveal animation; a redraw tick
// repaints the transcript while the animation mutates the registry
// underneath.
//
// Key bindings:
//
//	enter    send message
//	ctrl+s   skip the reveal animation
//	ctrl+n   new chat
//	ctrl+j/k next / previous chat
//	ctrl+d   delete current chat
//	ctrl+b   toggle sidebar
//	esc      dismiss error banner
//	ctrl+c   quit
package chat
