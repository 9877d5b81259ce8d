// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server implements the keyword-matching answer backend.
//
// Endpoints:
//   - POST /chat          - Answer a user message from the knowledge base
//   - GET  /health        - Health check
//   - GET  /api/stats     - Interaction totals for the admin dashboard
//   - GET  /api/logs      - Recent interactions, newest first
//   - POST /api/feedback  - Attach thumbs up/down to an interaction
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// ============================================================================
// CONSTANTS
// ============================================================================

const (
	// DefaultPort matches the port the desktop client expects.
	DefaultPort = 5000

	// MaxRequestBodySize caps request bodies at 1MB.
	MaxRequestBodySize = 1 * 1024 * 1024

	// MaxMessageLength caps a single chat message.
	MaxMessageLength = 10000

	// Version is the server version.
	Version = "1.0.0"
)

// ============================================================================
// WIRE TYPES
// ============================================================================

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId,omitempty"`
}

// ChatResponse is the body of a successful POST /chat.
type ChatResponse struct {
	Reply  string `json:"reply"`
	Source string `json:"source,omitempty"`
}

// FeedbackRequest is the body of POST /api/feedback.
type FeedbackRequest struct {
	Query    string `json:"query"`
	Feedback string `json:"feedback"` // "positive" or "negative"
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status         string `json:"status"`
	Version        string `json:"version"`
	KnowledgeCount int    `json:"knowledge_count"`
	UptimeSeconds  int64  `json:"uptime_seconds"`
}

// ============================================================================
// SERVER
// ============================================================================

// Options configure a Server.
type Options struct {
	Port          int
	KnowledgePath string  // JSON entries file; empty uses the built-in set
	LogDBPath     string  // sqlite file; empty uses ":memory:"
	RatePerSec    float64 // 0 uses the default limiter
}

// Server answers chat messages from a knowledge base and records every
// interaction.
type Server struct {
	port      int
	kb        *KnowledgeBase
	ilog      *InteractionLog
	mux       *http.ServeMux
	server    *http.Server
	startTime time.Time
}

// New builds a Server from opts, loading the knowledge base and opening
// the interaction log.
func New(opts Options) (*Server, error) {
	if opts.Port == 0 {
		opts.Port = DefaultPort
	}

	kb, err := LoadKnowledgeBase(opts.KnowledgePath)
	if err != nil {
		return nil, err
	}

	dbPath := opts.LogDBPath
	if dbPath == "" {
		dbPath = ":memory:"
	}
	ilog, err := OpenInteractionLog(dbPath)
	if err != nil {
		return nil, err
	}

	s := &Server{
		port:      opts.Port,
		kb:        kb,
		ilog:      ilog,
		mux:       http.NewServeMux(),
		startTime: time.Now(),
	}
	s.setupRoutes()

	limiter := DefaultRateLimiter()
	if opts.RatePerSec > 0 {
		limiter = NewRateLimiter(opts.RatePerSec, int(opts.RatePerSec)*2)
	}
	handler := Chain(
		RecoveryMiddleware(),
		LoggingMiddleware(log.Default()),
		CORSMiddleware(DefaultCORSConfig()),
		RateLimitMiddleware(limiter),
	)(s.mux)

	s.server = &http.Server{
		Addr:         fmt.Sprintf("127.0.0.1:%d", s.port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

// Port returns the configured port.
func (s *Server) Port() int { return s.port }

// Handler exposes the routed (unwrapped) mux for tests.
func (s *Server) Handler() http.Handler { return s.mux }

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("POST /chat", s.handleChat)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /api/stats", s.handleStats)
	s.mux.HandleFunc("GET /api/logs", s.handleLogs)
	s.mux.HandleFunc("POST /api/feedback", s.handleFeedback)
}

// ============================================================================
// HANDLERS
// ============================================================================

// handleChat answers POST /chat. Every request is logged, matches with
// the entry's category and misses as "no_match".
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodySize)

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("CHAT_BAD_REQUEST | error=%v", err)
		s.writeError(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		s.writeError(w, http.StatusBadRequest, "Message must not be empty")
		return
	}
	if len(message) > MaxMessageLength {
		s.writeError(w, http.StatusBadRequest,
			fmt.Sprintf("Message exceeds maximum length of %d", MaxMessageLength))
		return
	}

	entry, ok := s.kb.Lookup(message)
	if !ok {
		reply := s.kb.NoMatchReply()
		s.logInteraction(r.Context(), message, reply, "no_match")
		s.writeJSON(w, http.StatusOK, ChatResponse{Reply: reply, Source: "no_match"})
		return
	}

	s.logInteraction(r.Context(), message, entry.Answer, entry.Category)
	s.writeJSON(w, http.StatusOK, ChatResponse{Reply: entry.Answer, Source: entry.Category})
}

// handleHealth answers GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:         "ok",
		Version:        Version,
		KnowledgeCount: s.kb.Size(),
		UptimeSeconds:  int64(time.Since(s.startTime).Seconds()),
	})
}

// handleStats answers GET /api/stats.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.ilog.Stats(r.Context())
	if err != nil {
		log.Printf("STATS_ERROR | error=%v", err)
		s.writeError(w, http.StatusInternalServerError, "Could not load statistics")
		return
	}
	s.writeJSON(w, http.StatusOK, stats)
}

// handleLogs answers GET /api/logs?limit=N.
func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if q := r.URL.Query().Get("limit"); q != "" {
		if n, err := strconv.Atoi(q); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	entries, err := s.ilog.Recent(r.Context(), limit)
	if err != nil {
		log.Printf("LOGS_ERROR | error=%v", err)
		s.writeError(w, http.StatusInternalServerError, "Could not load logs")
		return
	}
	s.writeJSON(w, http.StatusOK, entries)
}

// handleFeedback answers POST /api/feedback.
func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodySize)

	var req FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request format")
		return
	}
	if req.Feedback != "positive" && req.Feedback != "negative" {
		s.writeError(w, http.StatusBadRequest, "Feedback must be 'positive' or 'negative'")
		return
	}

	if err := s.ilog.RecordFeedback(r.Context(), normalizeKey(req.Query), req.Feedback); err != nil {
		log.Printf("FEEDBACK_ERROR | error=%v", err)
		s.writeError(w, http.StatusInternalServerError, "Could not record feedback")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) logInteraction(ctx context.Context, query, response, category string) {
	if err := s.ilog.Record(ctx, normalizeKey(query), response, category); err != nil {
		log.Printf("LOG_INTERACTION_FAILED | error=%v", err)
	}
}

// ============================================================================
// LIFECYCLE
// ============================================================================

// Start runs the server until it fails or Shutdown is called.
func (s *Server) Start() error {
	log.Printf("SERVER_START | addr=%s version=%s entries=%d",
		s.server.Addr, Version, s.kb.Size())
	return s.server.ListenAndServe()
}

// Shutdown drains in-flight requests and closes the interaction log.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Printf("SERVER_SHUTDOWN | draining")
	err := s.server.Shutdown(ctx)
	if cerr := s.ilog.Close(); err == nil {
		err = cerr
	}
	return err
}

// ============================================================================
// HELPERS
// ============================================================================

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]any{
		"error": map[string]any{
			"message": message,
			"code":    status,
		},
	})
}
