// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// =============================================================================
// STORE WATCHER
// =============================================================================

// Watcher reports external changes to the store's files, so a running
// app can pick up writes made by another process (the browser analogue:
// a second tab firing localStorage "storage" events). Events are
// debounced per key because an atomic write produces several fs events.
type Watcher struct {
	store   *Store
	watcher *fsnotify.Watcher
	events  chan string

	mu      sync.Mutex
	pending map[string]time.Time

	debounce time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewWatcher starts watching the store's base directory.
func NewWatcher(s *Store, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(s.BaseDir); err != nil {
		fsw.Close()
		return nil, err
	}

	if debounce <= 0 {
		debounce = 200 * time.Millisecond
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		store:    s,
		watcher:  fsw,
		events:   make(chan string, 16),
		pending:  make(map[string]time.Time),
		debounce: debounce,
		ctx:      ctx,
		cancel:   cancel,
	}

	go w.processEvents()
	go w.flushPending()
	return w, nil
}

// Events returns the channel of changed store keys.
func (w *Watcher) Events() <-chan string {
	return w.events
}

// Close stops watching and releases resources.
func (w *Watcher) Close() error {
	w.cancel()
	return w.watcher.Close()
}

func (w *Watcher) processEvents() {
	for {
		select {
		case <-w.ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			key, ok := w.store.KeyForFile(event.Name)
			if !ok {
				continue
			}
			w.mu.Lock()
			w.pending[key] = time.Now()
			w.mu.Unlock()
		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

func (w *Watcher) flushPending() {
	ticker := time.NewTicker(w.debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			now := time.Now()
			w.mu.Lock()
			var ready []string
			for key, last := range w.pending {
				if now.Sub(last) >= w.debounce {
					ready = append(ready, key)
					delete(w.pending, key)
				}
			}
			w.mu.Unlock()

			for _, key := range ready {
				select {
				case w.events <- key:
				default:
					// Consumer is behind; drop rather than block.
				}
			}
		}
	}
}
