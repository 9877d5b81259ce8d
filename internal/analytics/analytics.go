// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package analytics aggregates usage statistics over chat sessions.
// All computation is client-side over in-memory data; nothing here
// talks to the network or the store.
package analytics

import (
	"sort"
	"strings"
	"time"

	"github.com/Sathishnaik786/yvi-chat-assistant/internal/model"
)

// topicStopwords are common words excluded from topic extraction.
var topicStopwords = map[string]bool{
	"about": true, "would": true, "could": true,
	"should": true, "please": true, "thank": true,
}

// =============================================================================
// RESULT TYPES
// =============================================================================

// DateCount is one day's message count for the over-time series.
type DateCount struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int    `json:"count"`
}

// TopicCount is one entry of the topic distribution.
type TopicCount struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

// DayActivity is one weekday's message count.
type DayActivity struct {
	Day      string `json:"day"` // "Sun".."Sat"
	Messages int    `json:"messages"`
}

// Data is the full aggregation result.
type Data struct {
	TotalMessages          int           `json:"totalMessages"`
	TotalSessions          int           `json:"totalSessions"`
	AvgMessagesPerSession  float64       `json:"averageMessagesPerSession"`
	TotalUserMessages      int           `json:"totalUserMessages"`
	TotalAssistantMessages int           `json:"totalAssistantMessages"`
	AvgResponseTime        time.Duration `json:"averageResponseTime"`
	MessagesOverTime       []DateCount   `json:"messagesOverTime"`
	TopicDistribution      []TopicCount  `json:"topicDistribution"`
	DailyActivity          []DayActivity `json:"dailyActivity"`
}

// =============================================================================
// AGGREGATION
// =============================================================================

// Compute aggregates analytics over the given sessions.
func Compute(sessions []*model.ChatSession) Data {
	var d Data
	d.TotalSessions = len(sessions)

	byDate := make(map[string]int)
	byWeekday := make(map[time.Weekday]int)
	topics := make(map[string]int)

	var responseTotal time.Duration
	var responseCount int

	for _, s := range sessions {
		d.TotalMessages += len(s.Messages)

		for i, msg := range s.Messages {
			byDate[msg.Timestamp.Format("2006-01-02")]++
			byWeekday[msg.Timestamp.Weekday()]++

			if msg.Role == model.RoleUser {
				d.TotalUserMessages++
				countTopics(topics, msg.Content)
				continue
			}

			d.TotalAssistantMessages++
			// Response time = gap between a user message and the
			// assistant reply that follows it.
			if i > 0 && s.Messages[i-1].Role == model.RoleUser {
				responseTotal += msg.Timestamp.Sub(s.Messages[i-1].Timestamp)
				responseCount++
			}
		}
	}

	if d.TotalSessions > 0 {
		d.AvgMessagesPerSession = float64(d.TotalMessages) / float64(d.TotalSessions)
	}
	if responseCount > 0 {
		d.AvgResponseTime = responseTotal / time.Duration(responseCount)
	}

	d.MessagesOverTime = lastDays(byDate, 7)
	d.TopicDistribution = topTopics(topics, 5)
	d.DailyActivity = weekdaySeries(byWeekday)
	return d
}

// countTopics counts candidate topic words in user text: longer than
// four characters and not a stopword.
func countTopics(topics map[string]int, content string) {
	for _, word := range strings.Fields(strings.ToLower(content)) {
		word = strings.Trim(word, ".,!?;:\"'()")
		if len(word) > 4 && !topicStopwords[word] {
			topics[word]++
		}
	}
}

// lastDays returns the most recent n dates with activity, ascending.
func lastDays(byDate map[string]int, n int) []DateCount {
	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	if len(dates) > n {
		dates = dates[len(dates)-n:]
	}

	out := make([]DateCount, 0, len(dates))
	for _, date := range dates {
		out = append(out, DateCount{Date: date, Count: byDate[date]})
	}
	return out
}

// topTopics returns the n most frequent topics, most frequent first.
// Ties break alphabetically so output is deterministic.
func topTopics(topics map[string]int, n int) []TopicCount {
	out := make([]TopicCount, 0, len(topics))
	for topic, count := range topics {
		out = append(out, TopicCount{Topic: topic, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Topic < out[j].Topic
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// weekdaySeries renders the Sun..Sat activity row.
func weekdaySeries(byWeekday map[time.Weekday]int) []DayActivity {
	out := make([]DayActivity, 0, 7)
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		out = append(out, DayActivity{
			Day:      wd.String()[:3],
			Messages: byWeekday[wd],
		})
	}
	return out
}
