// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package library manages the user's saved material: favorited
// messages, folders and tags for organizing sessions, conversation
// templates, and the prompt library. Everything persists through the
// key-value store.
package library

import (
	"sync"
	"time"

	"github.com/Sathishnaik786/yvi-chat-assistant/internal/model"
	"github.com/Sathishnaik786/yvi-chat-assistant/internal/storage"
	"github.com/Sathishnaik786/yvi-chat-assistant/internal/util"
)

// ============================================================================
// FAVORITES
// ============================================================================

// Favorite is a bookmarked message with user-assigned organization.
type Favorite struct {
	ID           string     `json:"id"`
	MessageID    string     `json:"messageId"`
	SessionID    string     `json:"sessionId"`
	SessionTitle string     `json:"sessionTitle"`
	Content      string     `json:"messageContent"`
	Role         model.Role `json:"messageRole"`
	Tags         []string   `json:"tags"`
	Category     string     `json:"category"`
	Note         string     `json:"note,omitempty"`
	CreatedAt    time.Time  `json:"timestamp"`
}

// Favorites is the persisted collection of bookmarked messages.
type Favorites struct {
	mu    sync.Mutex
	store *storage.Store
	items []Favorite
}

// NewFavorites loads favorites from the store.
func NewFavorites(store *storage.Store) *Favorites {
	f := &Favorites{store: store}
	f.store.Load(storage.KeyFavorites, &f.items)
	return f
}

// Add bookmarks a message and returns the favorite's id. Newest
// favorites come first.
func (f *Favorites) Add(fav Favorite) string {
	f.mu.Lock()
	defer f.mu.Unlock()

	fav.ID = util.GenerateID("fav")
	fav.CreatedAt = time.Now()
	if fav.Tags == nil {
		fav.Tags = []string{}
	}
	f.items = append([]Favorite{fav}, f.items...)
	f.persistLocked()
	return fav.ID
}

// Remove deletes a favorite by id.
func (f *Favorites) Remove(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, fav := range f.items {
		if fav.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			f.persistLocked()
			return true
		}
	}
	return false
}

// Update mutates a favorite in place via fn.
func (f *Favorites) Update(id string, fn func(*Favorite)) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.items {
		if f.items[i].ID == id {
			fn(&f.items[i])
			f.persistLocked()
			return true
		}
	}
	return false
}

// IsFavorite reports whether the message has been bookmarked.
func (f *Favorites) IsFavorite(messageID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, fav := range f.items {
		if fav.MessageID == messageID {
			return true
		}
	}
	return false
}

// ByMessage returns the favorite for a message, if any.
func (f *Favorites) ByMessage(messageID string) (Favorite, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, fav := range f.items {
		if fav.MessageID == messageID {
			return fav, true
		}
	}
	return Favorite{}, false
}

// All returns a copy of all favorites, newest first.
func (f *Favorites) All() []Favorite {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]Favorite, len(f.items))
	copy(out, f.items)
	return out
}

// Categories returns the distinct non-empty categories in use.
func (f *Favorites) Categories() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return distinct(func(yield func(string)) {
		for _, fav := range f.items {
			if fav.Category != "" {
				yield(fav.Category)
			}
		}
	})
}

// Tags returns the distinct tags across all favorites.
func (f *Favorites) Tags() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return distinct(func(yield func(string)) {
		for _, fav := range f.items {
			for _, t := range fav.Tags {
				yield(t)
			}
		}
	})
}

func (f *Favorites) persistLocked() {
	f.store.SetLogged(storage.KeyFavorites, f.items)
}

// distinct collects unique values in first-seen order.
func distinct(each func(yield func(string))) []string {
	seen := make(map[string]bool)
	var out []string
	each(func(v string) {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	})
	return out
}
