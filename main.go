// yvi - a chat assistant for the terminal.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Sathishnaik786/yvi-chat-assistant/internal/chat"
	"github.com/Sathishnaik786/yvi-chat-assistant/internal/chatapi"
	"github.com/Sathishnaik786/yvi-chat-assistant/internal/cli"
	"github.com/Sathishnaik786/yvi-chat-assistant/internal/config"
	"github.com/Sathishnaik786/yvi-chat-assistant/internal/reveal"
	"github.com/Sathishnaik786/yvi-chat-assistant/internal/session"
	"github.com/Sathishnaik786/yvi-chat-assistant/internal/storage"
	chatui "github.com/Sathishnaik786/yvi-chat-assistant/internal/ui/chat"
)

// Version information (set at build time)
var (
	Version   = "1.0.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdVersion:
		cli.PrintVersion()
		return
	case cli.CmdHelp:
		cli.PrintUsage()
		return
	}

	cfg, err := cli.LoadConfig(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	switch cmd {
	case cli.CmdAsk:
		os.Exit(cli.HandleAsk(args, cfg))
	case cli.CmdChat:
		os.Exit(cli.HandleChat(args, cfg))
	case cli.CmdServe:
		os.Exit(cli.HandleServe(args, cfg))
	case cli.CmdStatus:
		os.Exit(cli.HandleStatus(args, cfg))
	case cli.CmdStats:
		os.Exit(cli.HandleStats(args, cfg))
	case cli.CmdExport:
		os.Exit(cli.HandleExport(args, cfg))
	case cli.CmdShare:
		os.Exit(cli.HandleShare(args, cfg))
	case cli.CmdConfig:
		os.Exit(cli.HandleConfig(args, cfg))
	case cli.CmdFavorites:
		os.Exit(cli.HandleFavorites(args, cfg))
	case cli.CmdFolders:
		os.Exit(cli.HandleFolders(args, cfg))
	case cli.CmdPrompts:
		os.Exit(cli.HandlePrompts(args, cfg))
	case cli.CmdTemplates:
		os.Exit(cli.HandleTemplates(args, cfg))
	default:
		os.Exit(runTUI(cfg))
	}
}

// runTUI wires the store, registry, backend client and orchestrator
// together and starts the chat interface.
func runTUI(cfg *config.Config) int {
	var store *storage.Store
	var err error
	if cfg.DataDir != "" {
		store, err = storage.NewStoreWithDir(cfg.DataDir)
	} else {
		store, err = storage.NewStore()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening data directory: %v\n", err)
		return 1
	}

	registry := session.NewRegistry(store)

	client := chatapi.NewClientWithConfig(&chatapi.ClientConfig{
		BaseURL: cfg.Backend.URL,
		Timeout: time.Duration(cfg.Backend.TimeoutSecs) * time.Second,
	})

	revealOpts := reveal.Options{
		Mode:          reveal.ModeChar,
		StepDelay:     time.Duration(cfg.Reveal.CharSpeedMs) * time.Millisecond,
		ReducedMotion: cfg.Reveal.ReducedMotion,
	}
	if cfg.Reveal.Mode == "word" {
		revealOpts.Mode = reveal.ModeWord
		revealOpts.StepDelay = time.Duration(cfg.Reveal.WordSpeedMs) * time.Millisecond
	}

	orch := chat.New(registry, client, revealOpts)

	p := tea.NewProgram(
		chatui.New(orch, cfg),
		tea.WithAltScreen(),
	)

	// Pick up session writes from other processes (a second yvi, or the
	// CLI commands) while the TUI is running.
	watcher, err := storage.NewWatcher(store, 0)
	if err == nil {
		defer watcher.Close()
		go func() {
			for key := range watcher.Events() {
				if key != storage.KeySessions && key != storage.KeyCurrentSession {
					continue
				}
				registry.Reload()
				p.Send(chatui.StoreReloadedMsg{})
			}
		}()
	}

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running yvi: %v\n", err)
		return 1
	}
	return 0
}
