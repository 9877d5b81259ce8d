// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"

	"github.com/Sathishnaik786/yvi-chat-assistant/internal/config"
	"github.com/Sathishnaik786/yvi-chat-assistant/internal/export"
	"github.com/Sathishnaik786/yvi-chat-assistant/internal/model"
)

// HandleExport writes a conversation to a file. With no session id the
// current session is exported.
func HandleExport(args Args, cfg *config.Config) int {
	registry, _, err := openRegistry(cfg)
	if err != nil {
		return fail("open session store: %v", err)
	}

	var target *model.ChatSession
	if args.Subcommand != "" {
		target = registry.Find(args.Subcommand)
		if target == nil {
			return fail("no session with id %q (try yvi chat, :sessions)", args.Subcommand)
		}
	} else {
		target = registry.Current()
		if target == nil {
			return fail("nothing to export")
		}
	}

	format := args.Options["format"]
	if format == "" {
		format = "md"
	}

	opts := export.DefaultOptions()
	opts.IncludeTimestamps = cfg.UI.ShowTimestamps
	if dir := args.Options["output"]; dir != "" {
		opts.OutputDir = dir
	}
	if DarkBackground() {
		opts.Theme = "dark"
	} else {
		opts.Theme = "light"
	}

	exporter, err := export.ForFormat(format, opts)
	if err != nil {
		return fail("%v", err)
	}

	path, err := export.ExportToFile(target, exporter, opts)
	if err != nil {
		return fail("export: %v", err)
	}

	if !args.Quiet {
		fmt.Printf("%s exported %q to %s\n", okStyle.Render("✓"), target.Title, path)
	}
	return 0
}
