// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for the
// chat assistant.
//
// Supports both TOML and JSON configuration formats, with sensible
// defaults, environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.yvi/config.toml
//   - ~/.yvi/config.json
//   - Built-in defaults
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/Sathishnaik786/yvi-chat-assistant/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete application configuration.
type Config struct {
	// DataDir is where sessions, favorites and other blobs are stored.
	// Empty means ~/.yvi/data.
	DataDir string `toml:"data_dir" json:"data_dir"`

	Backend BackendConfig `toml:"backend" json:"backend"`
	Reveal  RevealConfig  `toml:"reveal" json:"reveal"`
	AI      AIConfig      `toml:"ai" json:"ai"`
	Server  ServerConfig  `toml:"server" json:"server"`
	UI      UIConfig      `toml:"ui" json:"ui"`
}

// BackendConfig points the client at the answer backend.
type BackendConfig struct {
	// URL is the base URL of the chat endpoint.
	URL string `toml:"url" json:"url"`
	// TimeoutSecs is the request timeout in seconds.
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
}

// RevealConfig controls the typewriter reveal of assistant replies.
type RevealConfig struct {
	// Mode is "char" or "word".
	Mode string `toml:"mode" json:"mode"`
	// CharSpeedMs is the per-character delay in char mode.
	CharSpeedMs int `toml:"char_speed_ms" json:"char_speed_ms"`
	// WordSpeedMs is the per-token delay in word mode.
	WordSpeedMs int `toml:"word_speed_ms" json:"word_speed_ms"`
	// ReducedMotion shows replies instantly instead of animating.
	// Also honored from the environment (YVI_REDUCED_MOTION, NO_COLOR-style).
	ReducedMotion bool `toml:"reduced_motion" json:"reduced_motion"`
}

// AIConfig holds the model settings passed through to the backend.
type AIConfig struct {
	Model       string  `toml:"model" json:"model"`
	Temperature float64 `toml:"temperature" json:"temperature"`
	MaxTokens   int     `toml:"max_tokens" json:"max_tokens"`
}

// ServerConfig configures the embedded keyword-matching backend.
type ServerConfig struct {
	// Port for `yvi serve` (default: 5000, matching the original backend).
	Port int `toml:"port" json:"port"`
	// KnowledgePath is an optional JSON knowledge base file.
	// Empty means the built-in static table.
	KnowledgePath string `toml:"knowledge_path" json:"knowledge_path"`
	// LogDBPath is the sqlite interaction log location.
	// Empty means <DataDir>/chatlog.db.
	LogDBPath string `toml:"log_db_path" json:"log_db_path"`
	// RateLimitPerSec caps requests per client per second (0 = unlimited).
	RateLimitPerSec float64 `toml:"rate_limit_per_sec" json:"rate_limit_per_sec"`
}

// UIConfig contains cosmetic TUI settings.
type UIConfig struct {
	Theme          string `toml:"theme" json:"theme"` // "dark" or "light"
	ShowTimestamps bool   `toml:"show_timestamps" json:"show_timestamps"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		DataDir: "",
		Backend: BackendConfig{
			URL:         "http://127.0.0.1:5000",
			TimeoutSecs: 30,
		},
		Reveal: RevealConfig{
			Mode:        "char",
			CharSpeedMs: 25,
			WordSpeedMs: 180,
		},
		AI: AIConfig{
			Model:       "gpt-4o-mini",
			Temperature: 0.7,
			MaxTokens:   2048,
		},
		Server: ServerConfig{
			Port:            5000,
			RateLimitPerSec: 10,
		},
		UI: UIConfig{
			Theme:          "dark",
			ShowTimestamps: true,
		},
	}
}

// =============================================================================
// LOADING
// =============================================================================

// ConfigDir returns the directory holding config files (~/.yvi).
func ConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".yvi"), nil
}

// Load reads the config from the default locations, applies environment
// overrides, and validates. A missing file is not an error; defaults win.
func Load() (*Config, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	return LoadFrom(dir)
}

// LoadFrom reads the config from dir/config.toml or dir/config.json.
func LoadFrom(dir string) (*Config, error) {
	cfg := DefaultConfig()

	tomlPath := filepath.Join(dir, "config.toml")
	jsonPath := filepath.Join(dir, "config.json")

	switch {
	case fileExists(tomlPath):
		if _, err := toml.DecodeFile(tomlPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", tomlPath, err)
		}
	case fileExists(jsonPath):
		data, err := os.ReadFile(jsonPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", jsonPath, err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", jsonPath, err)
		}
	}

	cfg.applyEnvOverrides()
	cfg.Validate()

	if cfg.DataDir == "" {
		cfg.DataDir = filepath.Join(dir, "data")
	}
	if cfg.Server.LogDBPath == "" {
		cfg.Server.LogDBPath = filepath.Join(cfg.DataDir, "chatlog.db")
	}
	return cfg, nil
}

// Save writes the config as TOML to dir/config.toml.
func (c *Config) Save(dir string) error {
	var sb strings.Builder
	if err := toml.NewEncoder(&sb).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return util.AtomicWriteFile(filepath.Join(dir, "config.toml"), []byte(sb.String()), 0644)
}

// applyEnvOverrides applies YVI_* environment variables on top of the
// file-based config.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("YVI_BACKEND_URL"); v != "" {
		c.Backend.URL = v
	}
	if v := os.Getenv("YVI_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("YVI_REVEAL_MODE"); v != "" {
		c.Reveal.Mode = v
	}
	if v := os.Getenv("YVI_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("YVI_REDUCED_MOTION"); v != "" && v != "0" && v != "false" {
		c.Reveal.ReducedMotion = true
	}
}

// Validate clamps out-of-range values to sane bounds. It never fails:
// a bad config degrades to defaults rather than refusing to start.
func (c *Config) Validate() {
	if c.Reveal.Mode != "char" && c.Reveal.Mode != "word" {
		c.Reveal.Mode = "char"
	}
	if c.Reveal.CharSpeedMs <= 0 {
		c.Reveal.CharSpeedMs = 25
	}
	if c.Reveal.WordSpeedMs <= 0 {
		c.Reveal.WordSpeedMs = 180
	}
	if c.Backend.TimeoutSecs <= 0 {
		c.Backend.TimeoutSecs = 30
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		c.Server.Port = 5000
	}
	if c.AI.Temperature < 0 {
		c.AI.Temperature = 0
	}
	if c.AI.Temperature > 2 {
		c.AI.Temperature = 2
	}
	if c.AI.MaxTokens <= 0 {
		c.AI.MaxTokens = 2048
	}
	if c.UI.Theme != "dark" && c.UI.Theme != "light" {
		c.UI.Theme = "dark"
	}
	if c.Server.RateLimitPerSec < 0 {
		c.Server.RateLimitPerSec = 0
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
