// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command dispatch for the chat assistant.
package cli

import (
	"fmt"
	"os"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "1.0.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdServe
	CmdStatus
	CmdStats
	CmdExport
	CmdShare
	CmdConfig
	CmdFavorites
	CmdFolders
	CmdPrompts
	CmdTemplates
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet      bool
	Verbose    bool
	ConfigPath string

	// Command-specific
	Query      string
	Subcommand string

	// Raw args remaining after flag parsing
	Raw []string

	// Options holds named options (e.g. --format, --output)
	Options map[string]string
}

const usageText = `yvi - chat assistant for the terminal

Yvi answers questions from a curated knowledge base and keeps your
conversations organized locally.

Usage:
  yvi                        Start the chat TUI (default)
  yvi ask "question"         Ask a single question
  yvi chat                   Interactive line-mode chat
  yvi serve                  Run the answer backend
  yvi status                 Check backend connectivity
  yvi stats                  Show local usage analytics
  yvi export <session>       Export a conversation
    --format md|json|html    Export format (default: md)
    --output DIR             Output directory (default: .)
  yvi share <session>        Print a share code for a conversation
  yvi share import <code>    Import a shared conversation
  yvi favorites [add|remove] Saved answers
  yvi folders [new|delete]   Organize sessions into folders and tags
  yvi prompts [show|use]     Reusable prompt library
  yvi templates [use]        Start a conversation from a template
  yvi config [show|set|path] Configuration
  yvi version                Show version

Global flags:
  --config FILE              Use an explicit config file
  --quiet                    Suppress informational output
  --verbose                  Verbose logging

Examples:
  yvi ask "our services"
  yvi export sess_a1b2c3 --format html --output ~/exports
  yvi config set reveal.mode word
`

// Parse parses command-line arguments and returns the command and args.
func Parse() (Command, Args) {
	return parseArgs(os.Args[1:])
}

func parseArgs(argv []string) (Command, Args) {
	remaining, parsed := parseGlobalFlags(argv)

	if len(remaining) == 0 {
		return CmdTUI, parsed
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsed.Raw = remaining
	if len(remaining) > 0 && !strings.HasPrefix(remaining[0], "--") {
		parsed.Subcommand = remaining[0]
	}

	switch cmd {
	case "tui":
		return CmdTUI, parsed

	case "ask":
		parsed.Query = strings.Join(stripOptions(remaining, parsed.Options), " ")
		return CmdAsk, parsed

	case "chat":
		return CmdChat, parsed

	case "serve", "server":
		return CmdServe, parsed

	case "status", "s":
		return CmdStatus, parsed

	case "stats", "analytics":
		return CmdStats, parsed

	case "export":
		return CmdExport, parsed

	case "share":
		return CmdShare, parsed

	case "config":
		return CmdConfig, parsed

	case "favorites", "favs":
		return CmdFavorites, parsed

	case "folders":
		return CmdFolders, parsed

	case "prompts":
		return CmdPrompts, parsed

	case "templates":
		return CmdTemplates, parsed

	case "version", "-v", "--version":
		return CmdVersion, parsed

	case "help", "-h", "--help":
		return CmdHelp, parsed

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		return CmdHelp, parsed
	}
}

// parseGlobalFlags extracts global flags and --key value options,
// returning the positional arguments.
func parseGlobalFlags(args []string) ([]string, Args) {
	parsed := Args{Options: make(map[string]string)}
	var remaining []string

	for i := 0; i < len(args); i++ {
		switch arg := args[i]; arg {
		case "--quiet", "-q":
			parsed.Quiet = true
		case "--verbose":
			parsed.Verbose = true
		case "--config":
			if i+1 < len(args) {
				i++
				parsed.ConfigPath = args[i]
			}
		default:
			if strings.HasPrefix(arg, "--") && i+1 < len(args) && !strings.HasPrefix(args[i+1], "--") {
				parsed.Options[strings.TrimPrefix(arg, "--")] = args[i+1]
				i++
				continue
			}
			remaining = append(remaining, arg)
		}
	}
	return remaining, parsed
}

// stripOptions drops option values already captured into opts so they
// don't end up inside a joined query string.
func stripOptions(args []string, opts map[string]string) []string {
	var out []string
	for i := 0; i < len(args); i++ {
		if strings.HasPrefix(args[i], "--") {
			if _, ok := opts[strings.TrimPrefix(args[i], "--")]; ok {
				i++ // skip the value
			}
			continue
		}
		out = append(out, args[i])
	}
	return out
}

// PrintUsage prints the full usage text.
func PrintUsage() {
	fmt.Print(usageText)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("yvi version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
}
