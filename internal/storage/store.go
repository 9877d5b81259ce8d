// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides local key-value persistence for the chat
// assistant. Each key is an independent JSON document on disk, written
// wholesale on every mutation (last writer wins).
package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/Sathishnaik786/yvi-chat-assistant/internal/util"
)

// Well-known store keys.
const (
	KeySessions       = "chat_sessions"
	KeyCurrentSession = "current_session"
	KeySettings       = "settings"
	KeyFavorites      = "favorites"
	KeyFolders        = "folders"
	KeyTags           = "tags"
	KeyTemplates      = "templates"
	KeyPrompts        = "prompts"
	KeyFeedback       = "feedback"
)

// =============================================================================
// STORE
// =============================================================================

// Store persists JSON blobs under a base directory, one file per key.
type Store struct {
	// BaseDir is the directory holding the JSON files.
	// Default: ~/.yvi/data
	BaseDir string
}

// NewStore creates a store rooted at the default data directory.
func NewStore() (*Store, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return NewStoreWithDir(filepath.Join(homeDir, ".yvi", "data"))
}

// NewStoreWithDir creates a store rooted at a custom directory.
func NewStoreWithDir(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &Store{BaseDir: baseDir}, nil
}

// Set serializes v and writes it under key atomically.
func (s *Store) Set(key string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %q: %w", key, err)
	}
	if err := util.AtomicWriteFile(s.filePath(key), data, 0644); err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	return nil
}

// SetLogged is Set for fire-and-forget call sites: persistence failures
// are logged and swallowed, leaving in-memory state authoritative.
func (s *Store) SetLogged(key string, v any) {
	if err := s.Set(key, v); err != nil {
		log.Printf("storage: %v", err)
	}
}

// Get reads the value stored under key into out.
// Returns false with no error when the key does not exist.
func (s *Store) Get(key string, out any) (bool, error) {
	data, err := os.ReadFile(s.filePath(key))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %q: %w", key, err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(out); err != nil {
		return false, fmt.Errorf("failed to decode %q: %w", key, err)
	}
	return true, nil
}

// Load reads the value stored under key into out, treating any failure
// (missing key, corrupt JSON, shape mismatch) as "not present" so callers
// fall back to their zero default. Decode failures are logged.
func (s *Store) Load(key string, out any) bool {
	ok, err := s.Get(key, out)
	if err != nil {
		log.Printf("storage: discarding %q: %v", key, err)
		return false
	}
	return ok
}

// Delete removes the value stored under key. Missing keys are a no-op.
func (s *Store) Delete(key string) error {
	err := os.Remove(s.filePath(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// filePath maps a key to its on-disk location.
func (s *Store) filePath(key string) string {
	return filepath.Join(s.BaseDir, sanitizeKey(key)+".json")
}

// KeyForFile maps a file name inside BaseDir back to its store key,
// returning false for files the store does not own.
func (s *Store) KeyForFile(name string) (string, bool) {
	base := filepath.Base(name)
	if !strings.HasSuffix(base, ".json") || strings.HasPrefix(base, ".tmp-") {
		return "", false
	}
	return strings.TrimSuffix(base, ".json"), true
}

// sanitizeKey keeps keys safe to use as file names.
func sanitizeKey(key string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, key)
}
