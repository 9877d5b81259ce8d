// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ============================================================================
// KNOWLEDGE BASE
// ============================================================================

// Entry is a single answer in the knowledge base, keyed by its
// lowercased title.
type Entry struct {
	Title    string `json:"title"`
	Answer   string `json:"answer"`
	Category string `json:"category"`
}

// synonyms maps common phrasing variants onto canonical knowledge keys.
// Matching is exact on the whole normalized message.
var synonyms = map[string]string{
	"cybersecurity service":  "cybersecurity services",
	"infrastructure service": "infrastructure services",
	"data analytic":          "data analytics",
	"oracle financial":       "oracle financials",
	"rpa service":            "rpa services",
	"mobile app development": "mobile development",
	"web app development":    "web development",
}

// KnowledgeBase holds the loaded entries and answers exact-match lookups.
type KnowledgeBase struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewKnowledgeBase creates a knowledge base from the given entries.
func NewKnowledgeBase(entries []Entry) *KnowledgeBase {
	kb := &KnowledgeBase{entries: make(map[string]Entry, len(entries))}
	for _, e := range entries {
		kb.entries[normalizeKey(e.Title)] = e
	}
	return kb
}

// LoadKnowledgeBase reads a JSON array of entries from path. When path
// is empty or the file is missing, the built-in default set is used.
func LoadKnowledgeBase(path string) (*KnowledgeBase, error) {
	if path == "" {
		return NewKnowledgeBase(defaultEntries), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewKnowledgeBase(defaultEntries), nil
		}
		return nil, fmt.Errorf("read knowledge base: %w", err)
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse knowledge base %s: %w", path, err)
	}
	return NewKnowledgeBase(entries), nil
}

// Lookup resolves a user message to an entry. The message is lowercased,
// trimmed, and run through the synonym table before the exact match.
func (kb *KnowledgeBase) Lookup(message string) (Entry, bool) {
	key := normalizeKey(message)
	if canonical, ok := synonyms[key]; ok {
		key = canonical
	}

	kb.mu.RLock()
	defer kb.mu.RUnlock()
	e, ok := kb.entries[key]
	return e, ok
}

// Size returns the number of loaded entries.
func (kb *KnowledgeBase) Size() int {
	kb.mu.RLock()
	defer kb.mu.RUnlock()
	return len(kb.entries)
}

// Categories returns the distinct categories in display form, sorted.
func (kb *KnowledgeBase) Categories() []string {
	kb.mu.RLock()
	seen := make(map[string]bool)
	for _, e := range kb.entries {
		if e.Category != "" {
			seen[e.Category] = true
		}
	}
	kb.mu.RUnlock()

	caser := cases.Title(language.English)
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, caser.String(c))
	}
	sort.Strings(out)
	return out
}

// NoMatchReply builds the apology sent when no entry matches, listing
// the categories a user can ask about.
func (kb *KnowledgeBase) NoMatchReply() string {
	cats := kb.Categories()
	if len(cats) == 0 {
		return "Sorry, I don't have information about that topic."
	}
	return "Sorry, I don't have information about that topic. Please ask about " +
		strings.Join(cats, ", ") + "."
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ============================================================================
// DEFAULT ENTRIES
// ============================================================================

// defaultEntries ship with the binary so the server answers something
// useful before an operator provides a knowledge file.
var defaultEntries = []Entry{
	{
		Title:    "our services",
		Answer:   "We offer a comprehensive range of IT services including software development, cloud solutions, data analytics, and cybersecurity services.",
		Category: "our services",
	},
	{
		Title:    "cybersecurity services",
		Answer:   "Our cybersecurity practice covers security assessments, threat monitoring, incident response, and compliance consulting.",
		Category: "our services",
	},
	{
		Title:    "infrastructure services",
		Answer:   "We design, migrate, and operate cloud and on-premise infrastructure, including managed hosting and disaster recovery.",
		Category: "our services",
	},
	{
		Title:    "data analytics",
		Answer:   "Our data analytics team builds reporting pipelines, dashboards, and predictive models that turn raw data into decisions.",
		Category: "core capabilities",
	},
	{
		Title:    "oracle financials",
		Answer:   "We implement and support Oracle Financials Cloud, covering general ledger, payables, receivables, and reporting.",
		Category: "core capabilities",
	},
	{
		Title:    "rpa services",
		Answer:   "Our robotic process automation services identify repetitive workflows and automate them end to end.",
		Category: "other capabilities",
	},
	{
		Title:    "mobile development",
		Answer:   "We build native and cross-platform mobile applications for iOS and Android.",
		Category: "other capabilities",
	},
	{
		Title:    "web development",
		Answer:   "We deliver modern web applications, from customer portals to internal tooling.",
		Category: "other capabilities",
	},
	{
		Title:    "our process",
		Answer:   "Our process includes requirements gathering, design, development, testing, and deployment phases, with a named contact at every step.",
		Category: "our process",
	},
	{
		Title:    "about us",
		Answer:   "YVI Soft Solutions is an IT consulting firm specializing in enterprise solutions.",
		Category: "about us",
	},
	{
		Title:    "contact",
		Answer:   "You can reach us at contact@yvi.com or call us at +1-234-567-8900.",
		Category: "contact",
	},
	{
		Title:    "location",
		Answer:   "Our offices are listed on the contact page; our headquarters is in Hyderabad with delivery centers in the US and EU.",
		Category: "location",
	},
}
