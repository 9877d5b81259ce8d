// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/Sathishnaik786/yvi-chat-assistant/internal/chatapi"
	"github.com/Sathishnaik786/yvi-chat-assistant/internal/config"
	"github.com/Sathishnaik786/yvi-chat-assistant/internal/model"
	"github.com/Sathishnaik786/yvi-chat-assistant/internal/session"
	"github.com/Sathishnaik786/yvi-chat-assistant/internal/util"
)

// HandleChat runs the line-mode REPL. Unlike the TUI it renders plain
// text, but it shares the same session store, so conversations appear
// in both.
func HandleChat(args Args, cfg *config.Config) int {
	registry, store, err := openRegistry(cfg)
	if err != nil {
		return fail("open session store: %v", err)
	}

	client := newClient(cfg)
	opts := revealOptions(cfg)

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	historyPath := filepath.Join(store.BaseDir, "repl_history")
	if f, err := os.Open(historyPath); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(historyPath); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	if !args.Quiet {
		fmt.Println(headStyle.Render("YVI Chat Assistant") + dimStyle.Render("  (:help for commands)"))
	}

	for {
		input, err := line.Prompt("you> ")
		if err != nil {
			// Ctrl+C or EOF ends the session.
			fmt.Println()
			return 0
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if strings.HasPrefix(input, ":") {
			if quit := replCommand(input, registry); quit {
				return 0
			}
			continue
		}

		current := registry.Current()
		if current == nil {
			current = registry.CreateSession()
		}
		registry.AppendMessage(current.ID, model.NewUserMessage(input))

		reply, err := client.Send(context.Background(), &chatapi.Request{
			Message:   input,
			SessionID: current.ID,
			Settings: &chatapi.Settings{
				Model:       cfg.AI.Model,
				Temperature: cfg.AI.Temperature,
				MaxTokens:   cfg.AI.MaxTokens,
			},
		})
		if err != nil {
			fmt.Println(errStyle.Render("✗ ") + err.Error())
			continue
		}

		assistant := model.NewAssistantMessage(reply.Text, reply.Source)
		assistant.IsRevealed = true // the REPL animates on stdout, not in the store
		registry.AppendMessage(current.ID, assistant)

		fmt.Print(headStyle.Render("yvi> "))
		printRevealed(reply.Text, opts)
	}
}

// replCommand handles :commands; returns true to quit.
func replCommand(input string, registry *session.Registry) bool {
	fields := strings.Fields(input)
	switch fields[0] {
	case ":quit", ":q", ":exit":
		return true

	case ":new":
		registry.CreateSession()
		fmt.Println(dimStyle.Render("started a new chat"))

	case ":sessions", ":ls":
		currentID := registry.CurrentID()
		for i, s := range registry.Sessions() {
			marker := "  "
			if s.ID == currentID {
				marker = okStyle.Render("* ")
			}
			fmt.Printf("%s%2d  %s  %s\n", marker, i+1,
				util.TruncateRunes(s.Title, 40),
				dimStyle.Render(s.LastUpdated.Format("Jan 2 15:04")))
		}

	case ":switch":
		if len(fields) < 2 {
			fmt.Println(warnStyle.Render("usage: :switch <number>"))
			return false
		}
		n, err := strconv.Atoi(fields[1])
		sessions := registry.Sessions()
		if err != nil || n < 1 || n > len(sessions) {
			fmt.Println(warnStyle.Render("no such session"))
			return false
		}
		registry.SwitchSession(sessions[n-1].ID)
		fmt.Println(dimStyle.Render("switched to: " + sessions[n-1].Title))

	case ":help", ":h":
		fmt.Println(`:new        start a new chat
:sessions   list chats
:switch N   switch to chat number N
:quit       exit`)

	default:
		fmt.Println(warnStyle.Render("unknown command " + fields[0] + " (:help)"))
	}
	return false
}
