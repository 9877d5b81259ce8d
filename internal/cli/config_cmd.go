// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/Sathishnaik786/yvi-chat-assistant/internal/config"
)

// HandleConfig inspects and edits the TOML config file.
//
//	yvi config            print the effective config
//	yvi config show       same
//	yvi config path       print the config file location
//	yvi config set K V    set a dotted key, e.g. reveal.mode word
func HandleConfig(args Args, cfg *config.Config) int {
	switch args.Subcommand {
	case "", "show":
		enc := toml.NewEncoder(os.Stdout)
		enc.Indent = ""
		if err := enc.Encode(cfg); err != nil {
			return fail("encode config: %v", err)
		}
		return 0

	case "path":
		dir, err := configDirFor(args)
		if err != nil {
			return fail("%v", err)
		}
		fmt.Println(filepath.Join(dir, "config.toml"))
		return 0

	case "set":
		if len(args.Raw) < 3 {
			return fail("usage: yvi config set <key> <value>")
		}
		key, value := args.Raw[1], args.Raw[2]
		if err := setConfigKey(cfg, key, value); err != nil {
			return fail("%v", err)
		}
		dir, err := configDirFor(args)
		if err != nil {
			return fail("%v", err)
		}
		if err := cfg.Save(dir); err != nil {
			return fail("save config: %v", err)
		}
		if !args.Quiet {
			fmt.Printf("%s %s = %s\n", okStyle.Render("✓"), key, value)
		}
		return 0

	default:
		return fail("unknown config subcommand %q (expected show, path or set)", args.Subcommand)
	}
}

func configDirFor(args Args) (string, error) {
	if args.ConfigPath != "" {
		return filepath.Dir(args.ConfigPath), nil
	}
	return config.ConfigDir()
}

// setConfigKey mutates one dotted config key. Only keys a user would
// plausibly flip from the command line are wired up.
func setConfigKey(cfg *config.Config, key, value string) error {
	switch strings.ToLower(key) {
	case "data_dir":
		cfg.DataDir = value
	case "backend.url":
		cfg.Backend.URL = value
	case "backend.timeout_secs":
		return setInt(&cfg.Backend.TimeoutSecs, value)
	case "reveal.mode":
		if value != "char" && value != "word" {
			return fmt.Errorf("reveal.mode must be char or word, got %q", value)
		}
		cfg.Reveal.Mode = value
	case "reveal.char_speed_ms":
		return setInt(&cfg.Reveal.CharSpeedMs, value)
	case "reveal.word_speed_ms":
		return setInt(&cfg.Reveal.WordSpeedMs, value)
	case "reveal.reduced_motion":
		return setBool(&cfg.Reveal.ReducedMotion, value)
	case "ai.model":
		cfg.AI.Model = value
	case "ai.temperature":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%s: %q is not a number", key, value)
		}
		cfg.AI.Temperature = f
	case "ai.max_tokens":
		return setInt(&cfg.AI.MaxTokens, value)
	case "server.port":
		return setInt(&cfg.Server.Port, value)
	case "server.knowledge_path":
		cfg.Server.KnowledgePath = value
	case "server.rate_limit_per_sec":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%s: %q is not a number", key, value)
		}
		cfg.Server.RateLimitPerSec = f
	case "ui.theme":
		if value != "dark" && value != "light" {
			return fmt.Errorf("ui.theme must be dark or light, got %q", value)
		}
		cfg.UI.Theme = value
	case "ui.show_timestamps":
		return setBool(&cfg.UI.ShowTimestamps, value)
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}

func setInt(dst *int, value string) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("%q is not an integer", value)
	}
	*dst = n
	return nil
}

func setBool(dst *bool, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("%q is not a boolean", value)
	}
	*dst = b
	return nil
}
