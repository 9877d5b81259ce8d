// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/Sathishnaik786/yvi-chat-assistant/internal/chatapi"
	"github.com/Sathishnaik786/yvi-chat-assistant/internal/config"
)

// HandleAsk answers a single question and exits. The reply animates
// with the configured reveal unless stdout is piped.
func HandleAsk(args Args, cfg *config.Config) int {
	query := strings.TrimSpace(args.Query)
	if query == "" {
		return fail("usage: yvi ask \"question\"")
	}

	client := newClient(cfg)
	reply, err := client.Send(context.Background(), &chatapi.Request{
		Message: query,
		Settings: &chatapi.Settings{
			Model:       cfg.AI.Model,
			Temperature: cfg.AI.Temperature,
			MaxTokens:   cfg.AI.MaxTokens,
		},
	})
	if err != nil {
		return fail("%v", err)
	}

	printRevealed(reply.Text, revealOptions(cfg))
	if args.Verbose && reply.Source != "" {
		fmt.Println(dimStyle.Render("source: " + reply.Source))
	}
	return 0
}
