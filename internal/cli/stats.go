// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/Sathishnaik786/yvi-chat-assistant/internal/analytics"
	"github.com/Sathishnaik786/yvi-chat-assistant/internal/config"
)

// HandleStats prints usage analytics over the locally stored sessions.
func HandleStats(args Args, cfg *config.Config) int {
	registry, _, err := openRegistry(cfg)
	if err != nil {
		return fail("open session store: %v", err)
	}

	data := analytics.Compute(registry.Sessions())

	fmt.Println(headStyle.Render("Usage Analytics"))
	fmt.Printf("  sessions:        %d\n", data.TotalSessions)
	fmt.Printf("  messages:        %d  (%d you, %d assistant)\n",
		data.TotalMessages, data.TotalUserMessages, data.TotalAssistantMessages)
	fmt.Printf("  avg per session: %.1f\n", data.AvgMessagesPerSession)
	if data.AvgResponseTime > 0 {
		fmt.Printf("  avg response:    %s\n", data.AvgResponseTime.Round(10*time.Millisecond))
	}

	if len(data.TopicDistribution) > 0 {
		fmt.Println("\n" + headStyle.Render("Top Topics"))
		for _, tc := range data.TopicDistribution {
			fmt.Printf("  %-20s %s\n", tc.Topic, bar(tc.Count))
		}
	}

	if len(data.MessagesOverTime) > 0 {
		fmt.Println("\n" + headStyle.Render("Last Days"))
		for _, dc := range data.MessagesOverTime {
			fmt.Printf("  %s  %s\n", dc.Date, bar(dc.Count))
		}
	}

	fmt.Println("\n" + headStyle.Render("Weekday Activity"))
	for _, da := range data.DailyActivity {
		fmt.Printf("  %s  %s\n", da.Day, bar(da.Messages))
	}
	return 0
}

// bar renders a small count histogram cell.
func bar(n int) string {
	if n > 40 {
		n = 40
	}
	return dimStyle.Render(strings.Repeat("█", n))
}
