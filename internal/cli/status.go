// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Sathishnaik786/yvi-chat-assistant/internal/config"
)

// HandleStatus checks backend connectivity and prints a summary.
func HandleStatus(args Args, cfg *config.Config) int {
	fmt.Println(headStyle.Render("YVI Status"))
	fmt.Printf("  backend:   %s\n", cfg.Backend.URL)

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(strings.TrimRight(cfg.Backend.URL, "/") + "/health")
	if err != nil {
		fmt.Printf("  health:    %s\n", errStyle.Render("unreachable"))
		if args.Verbose {
			fmt.Println(dimStyle.Render("  " + err.Error()))
		}
		fmt.Println(dimStyle.Render("\n  start it with: yvi serve"))
		return 1
	}
	defer resp.Body.Close()

	var health struct {
		Status         string `json:"status"`
		Version        string `json:"version"`
		KnowledgeCount int    `json:"knowledge_count"`
		UptimeSeconds  int64  `json:"uptime_seconds"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil || health.Status != "ok" {
		fmt.Printf("  health:    %s\n", warnStyle.Render("degraded"))
		return 1
	}

	fmt.Printf("  health:    %s\n", okStyle.Render("ok"))
	fmt.Printf("  version:   %s\n", health.Version)
	fmt.Printf("  knowledge: %d entries\n", health.KnowledgeCount)
	fmt.Printf("  uptime:    %s\n", (time.Duration(health.UptimeSeconds) * time.Second).String())
	return 0
}
