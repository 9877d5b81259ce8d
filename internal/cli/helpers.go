// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Sathishnaik786/yvi-chat-assistant/internal/chatapi"
	"github.com/Sathishnaik786/yvi-chat-assistant/internal/config"
	"github.com/Sathishnaik786/yvi-chat-assistant/internal/reveal"
	"github.com/Sathishnaik786/yvi-chat-assistant/internal/session"
	"github.com/Sathishnaik786/yvi-chat-assistant/internal/storage"
)

// LoadConfig loads configuration, honoring --config.
func LoadConfig(args Args) (*config.Config, error) {
	if args.ConfigPath != "" {
		return config.LoadFrom(filepath.Dir(args.ConfigPath))
	}
	return config.Load()
}

// newClient builds the backend client from config.
func newClient(cfg *config.Config) *chatapi.Client {
	return chatapi.NewClientWithConfig(&chatapi.ClientConfig{
		BaseURL: cfg.Backend.URL,
		Timeout: time.Duration(cfg.Backend.TimeoutSecs) * time.Second,
	})
}

// openRegistry opens the store and session registry at the configured
// data directory.
func openRegistry(cfg *config.Config) (*session.Registry, *storage.Store, error) {
	var store *storage.Store
	var err error
	if cfg.DataDir != "" {
		store, err = storage.NewStoreWithDir(cfg.DataDir)
	} else {
		store, err = storage.NewStore()
	}
	if err != nil {
		return nil, nil, err
	}
	return session.NewRegistry(store), store, nil
}

// revealOptions maps the reveal section of the config onto engine
// options. Animation is disabled when output is not a terminal.
func revealOptions(cfg *config.Config) reveal.Options {
	opts := reveal.Options{
		Mode:          reveal.ModeChar,
		StepDelay:     time.Duration(cfg.Reveal.CharSpeedMs) * time.Millisecond,
		ReducedMotion: cfg.Reveal.ReducedMotion,
	}
	if cfg.Reveal.Mode == "word" {
		opts.Mode = reveal.ModeWord
		opts.StepDelay = time.Duration(cfg.Reveal.WordSpeedMs) * time.Millisecond
	}
	if !IsInteractive() {
		opts.ReducedMotion = true
	}
	return opts
}

// printRevealed types the reply to stdout with the configured
// animation, printing only the delta of each step.
func printRevealed(text string, opts reveal.Options) {
	printed := 0
	reveal.Run(context.Background(), text, opts, func(prefix string) {
		if len(prefix) >= printed {
			fmt.Print(prefix[printed:])
			printed = len(prefix)
		}
	})
	fmt.Println()
}

// fail prints an error and returns the exit code to pass to os.Exit.
func fail(format string, a ...any) int {
	fmt.Fprintln(os.Stderr, errStyle.Render("✗ ")+fmt.Sprintf(format, a...))
	return 1
}
