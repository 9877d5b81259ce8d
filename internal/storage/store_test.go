// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type settingsBlob struct {
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStoreWithDir(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return store
}

func TestStoreSetGet(t *testing.T) {
	store := newTestStore(t)

	in := settingsBlob{Model: "gpt-4o", Temperature: 0.7}
	if err := store.Set(KeySettings, in); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	var out settingsBlob
	ok, err := store.Get(KeySettings, &out)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok {
		t.Fatal("Get reported key missing")
	}
	if out != in {
		t.Errorf("round-trip = %+v, want %+v", out, in)
	}
}

func TestStoreGetMissingKey(t *testing.T) {
	store := newTestStore(t)

	var out settingsBlob
	ok, err := store.Get("never_written", &out)
	if err != nil {
		t.Fatalf("Get returned error for missing key: %v", err)
	}
	if ok {
		t.Error("Get reported a missing key as present")
	}
}

func TestStoreLoadFallsBackOnCorruptData(t *testing.T) {
	store := newTestStore(t)

	// Corrupt JSON on disk must not error the caller; Load reports
	// "not present" so the zero default wins.
	path := filepath.Join(store.BaseDir, "chat_sessions.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	var out []settingsBlob
	if store.Load(KeySessions, &out) {
		t.Error("Load should report corrupt data as absent")
	}
	if out != nil {
		t.Errorf("out should stay zero, got %v", out)
	}
}

func TestStoreLoadFallsBackOnShapeMismatch(t *testing.T) {
	store := newTestStore(t)

	// Valid JSON of the wrong shape (object where a list is expected).
	if err := store.Set(KeySessions, map[string]string{"oops": "wrong"}); err != nil {
		t.Fatal(err)
	}

	var out []settingsBlob
	if store.Load(KeySessions, &out) {
		t.Error("Load should report shape mismatch as absent")
	}
}

func TestStoreDelete(t *testing.T) {
	store := newTestStore(t)

	if err := store.Set(KeyFavorites, []string{"a"}); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete(KeyFavorites); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	// Idempotent on repeat.
	if err := store.Delete(KeyFavorites); err != nil {
		t.Fatalf("second Delete failed: %v", err)
	}

	var out []string
	ok, _ := store.Get(KeyFavorites, &out)
	if ok {
		t.Error("key still present after Delete")
	}
}

func TestKeyForFile(t *testing.T) {
	store := newTestStore(t)

	tests := []struct {
		file   string
		key    string
		wantOK bool
	}{
		{"chat_sessions.json", "chat_sessions", true},
		{filepath.Join(store.BaseDir, "favorites.json"), "favorites", true},
		{".tmp-12345", "", false},
		{"notes.txt", "", false},
	}
	for _, tt := range tests {
		key, ok := store.KeyForFile(tt.file)
		if ok != tt.wantOK || key != tt.key {
			t.Errorf("KeyForFile(%q) = (%q, %v), want (%q, %v)", tt.file, key, ok, tt.key, tt.wantOK)
		}
	}
}

func TestWatcherReportsExternalWrite(t *testing.T) {
	store := newTestStore(t)

	w, err := NewWatcher(store, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	if err := store.Set(KeySessions, []string{"s1"}); err != nil {
		t.Fatal(err)
	}

	select {
	case key := <-w.Events():
		if key != KeySessions {
			t.Errorf("changed key = %q, want %q", key, KeySessions)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no watch event within 2s")
	}
}
