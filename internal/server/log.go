// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// ============================================================================
// INTERACTION LOG
// ============================================================================

// InteractionLog persists chat interactions to a local sqlite database
// so the stats and logs endpoints report real traffic.
type InteractionLog struct {
	db *sql.DB
}

// LogEntry is one recorded interaction.
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	UserQuery string    `json:"user_query"`
	Response  string    `json:"response"`
	Category  string    `json:"category"`
	Feedback  *string   `json:"feedback"`
}

// OpenInteractionLog opens (and migrates) the interaction database at
// path. Use ":memory:" for an ephemeral log.
func OpenInteractionLog(path string) (*InteractionLog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open interaction log: %w", err)
	}
	// modernc.org/sqlite is not safe for concurrent writers on one
	// connection pool slot; serialize through a single connection.
	db.SetMaxOpenConns(1)

	const schema = `
CREATE TABLE IF NOT EXISTS interactions (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	created_at TEXT NOT NULL,
	user_query TEXT NOT NULL,
	response   TEXT NOT NULL,
	category   TEXT NOT NULL,
	feedback   TEXT
);
CREATE INDEX IF NOT EXISTS idx_interactions_created ON interactions(created_at);
CREATE INDEX IF NOT EXISTS idx_interactions_category ON interactions(category);
`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate interaction log: %w", err)
	}
	return &InteractionLog{db: db}, nil
}

// Close releases the underlying database handle.
func (l *InteractionLog) Close() error {
	return l.db.Close()
}

// Record stores one interaction.
func (l *InteractionLog) Record(ctx context.Context, query, response, category string) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO interactions (created_at, user_query, response, category) VALUES (?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339), query, response, category)
	if err != nil {
		return fmt.Errorf("record interaction: %w", err)
	}
	return nil
}

// RecordFeedback attaches feedback ("positive" or "negative") to the
// most recent interaction matching the query.
func (l *InteractionLog) RecordFeedback(ctx context.Context, query, feedback string) error {
	_, err := l.db.ExecContext(ctx,
		`UPDATE interactions SET feedback = ?
		 WHERE id = (SELECT id FROM interactions WHERE user_query = ? ORDER BY id DESC LIMIT 1)`,
		feedback, query)
	if err != nil {
		return fmt.Errorf("record feedback: %w", err)
	}
	return nil
}

// Recent returns the latest interactions, newest first.
func (l *InteractionLog) Recent(ctx context.Context, limit int) ([]LogEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := l.db.QueryContext(ctx,
		`SELECT created_at, user_query, response, category, feedback
		 FROM interactions ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent interactions: %w", err)
	}
	defer rows.Close()

	out := make([]LogEntry, 0, limit)
	for rows.Next() {
		var e LogEntry
		var created string
		var feedback sql.NullString
		if err := rows.Scan(&created, &e.UserQuery, &e.Response, &e.Category, &feedback); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		e.Timestamp, _ = time.Parse(time.RFC3339, created)
		if feedback.Valid {
			e.Feedback = &feedback.String
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// LogStats aggregates the interaction log for the stats endpoint.
type LogStats struct {
	TotalChats       int            `json:"totalChats"`
	TotalMessages    int            `json:"totalMessages"`
	PositiveFeedback int            `json:"positiveFeedback"`
	NegativeFeedback int            `json:"negativeFeedback"`
	TopCategories    map[string]int `json:"topCategories"`
	DailyActivity    map[string]int `json:"dailyActivity"` // YYYY-MM-DD -> count
}

// Stats computes totals over the whole log.
func (l *InteractionLog) Stats(ctx context.Context) (LogStats, error) {
	stats := LogStats{
		TopCategories: make(map[string]int),
		DailyActivity: make(map[string]int),
	}

	row := l.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(DISTINCT user_query),
		       COALESCE(SUM(CASE WHEN feedback = 'positive' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN feedback = 'negative' THEN 1 ELSE 0 END), 0)
		FROM interactions`)
	if err := row.Scan(&stats.TotalMessages, &stats.TotalChats,
		&stats.PositiveFeedback, &stats.NegativeFeedback); err != nil {
		return stats, fmt.Errorf("query interaction totals: %w", err)
	}

	rows, err := l.db.QueryContext(ctx,
		`SELECT category, COUNT(*) FROM interactions GROUP BY category ORDER BY COUNT(*) DESC LIMIT 5`)
	if err != nil {
		return stats, fmt.Errorf("query top categories: %w", err)
	}
	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			rows.Close()
			return stats, err
		}
		stats.TopCategories[category] = count
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return stats, err
	}

	rows, err = l.db.QueryContext(ctx,
		`SELECT substr(created_at, 1, 10), COUNT(*) FROM interactions
		 GROUP BY substr(created_at, 1, 10) ORDER BY 1 DESC LIMIT 7`)
	if err != nil {
		return stats, fmt.Errorf("query daily activity: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var day string
		var count int
		if err := rows.Scan(&day, &count); err != nil {
			return stats, err
		}
		stats.DailyActivity[day] = count
	}
	return stats, rows.Err()
}
