// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/Sathishnaik786/yvi-chat-assistant/internal/config"
	"github.com/Sathishnaik786/yvi-chat-assistant/internal/model"
	"github.com/Sathishnaik786/yvi-chat-assistant/internal/session"
	"github.com/Sathishnaik786/yvi-chat-assistant/internal/share"
)

// HandleShare prints a share code for a conversation, or imports one.
//
//	yvi share [session-id]      encode (default: current session)
//	yvi share import <code>     import a shared conversation
//	yvi share show <code>       preview a code without importing
func HandleShare(args Args, cfg *config.Config) int {
	registry, _, err := openRegistry(cfg)
	if err != nil {
		return fail("open session store: %v", err)
	}

	switch args.Subcommand {
	case "import":
		if len(args.Raw) < 2 {
			return fail("usage: yvi share import <code>")
		}
		payload, ok := share.DecodeConversation(args.Raw[1])
		if !ok {
			return fail("not a valid share code")
		}

		importConversation(registry, payload)

		fmt.Printf("%s imported %q (%d messages)\n",
			okStyle.Render("✓"), payload.Title, len(payload.Messages))
		return 0

	case "show":
		if len(args.Raw) < 2 {
			return fail("usage: yvi share show <code>")
		}
		payload, ok := share.DecodeConversation(args.Raw[1])
		if !ok {
			return fail("not a valid share code")
		}
		fmt.Printf("%s  %d messages\n", headStyle.Render(payload.Title), payload.MessageCount)
		return 0

	default:
		target := registry.Current()
		if args.Subcommand != "" {
			target = registry.Find(args.Subcommand)
		}
		if target == nil {
			return fail("no session to share")
		}

		code, err := share.Conversation(target)
		if err != nil {
			return fail("encode: %v", err)
		}
		if !args.Quiet {
			fmt.Println(dimStyle.Render("share code for ") + headStyle.Render(target.Title))
		}
		fmt.Println(code)
		return 0
	}
}

// importConversation copies a decoded payload into a fresh session.
// Message IDs are minted anew so importing the same code twice never
// collides with existing messages.
func importConversation(registry *session.Registry, payload *share.ConversationPayload) *model.ChatSession {
	s := registry.CreateSession()
	for _, msg := range payload.Messages {
		copied := msg.Clone()
		copied.ID = uuid.NewString()
		registry.AppendMessage(s.ID, copied)
	}
	title := payload.Title
	registry.UpdateSession(s.ID, session.SessionUpdate{Title: &title})
	return registry.Find(s.ID)
}
