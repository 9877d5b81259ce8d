// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the authoritative list of chat sessions and the
// pointer to the active one.
package session

import (
	"sync"
	"time"

	"github.com/Sathishnaik786/yvi-chat-assistant/internal/model"
	"github.com/Sathishnaik786/yvi-chat-assistant/internal/storage"
)

// =============================================================================
// SESSION REGISTRY
// =============================================================================

// Registry holds the ordered session list and the current-session
// pointer. Every mutation persists the full session list and the
// current id to the store (fire and forget; persistence failures are
// logged and in-memory state stays authoritative).
//
// Invariant: whenever the registry is non-empty, CurrentID references a
// member of the list.
type Registry struct {
	mu       sync.Mutex
	store    *storage.Store
	sessions []*model.ChatSession
	current  string
}

// NewRegistry loads the registry from the store. If stored sessions
// exist and the stored current id matches one of them, that session is
// resumed; otherwise the first session becomes current; an empty store
// yields one fresh session.
func NewRegistry(store *storage.Store) *Registry {
	r := &Registry{store: store}

	var sessions []*model.ChatSession
	if store.Load(storage.KeySessions, &sessions) {
		r.sessions = sessions
	}
	normalize(r.sessions)

	var currentID string
	store.Load(storage.KeyCurrentSession, &currentID)

	switch {
	case r.findLocked(currentID) != nil:
		r.current = currentID
	case len(r.sessions) > 0:
		r.current = r.sessions[0].ID
	default:
		r.createLocked()
	}
	return r
}

// normalize repairs sessions as loaded from disk: a reveal that was
// in flight when the app last exited can never resume, so its message
// is promoted to fully revealed.
func normalize(sessions []*model.ChatSession) {
	for _, s := range sessions {
		for _, m := range s.Messages {
			if m.Role == model.RoleAssistant && !m.IsRevealed {
				m.IsRevealed = true
				m.DisplayedContent = ""
			}
		}
	}
}

// =============================================================================
// READ ACCESS
// =============================================================================

// Sessions returns a snapshot of the sessions in display order. Every
// session is a deep copy: renderers read it without locking while the
// send path keeps mutating the registry's own copies. Mutations go
// through registry methods, never through a returned session.
func (r *Registry) Sessions() []*model.ChatSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.ChatSession, len(r.sessions))
	for i, s := range r.sessions {
		out[i] = s.Clone()
	}
	return out
}

// CurrentID returns the id of the active session.
func (r *Registry) CurrentID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Current returns a snapshot of the active session, or nil only in the
// transient window before the first session exists.
func (r *Registry) Current() *model.ChatSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.findLocked(r.current).Clone()
}

// Find returns a snapshot of the session with the given id, or nil.
func (r *Registry) Find(id string) *model.ChatSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.findLocked(id).Clone()
}

// Len returns the number of sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// =============================================================================
// MUTATIONS
// =============================================================================

// CreateSession inserts a new empty session at the front of the order
// and marks it current. The returned session is a snapshot.
func (r *Registry) CreateSession() *model.ChatSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.createLocked().Clone()
}

func (r *Registry) createLocked() *model.ChatSession {
	s := model.NewChatSession()
	r.sessions = append([]*model.ChatSession{s}, r.sessions...)
	r.current = s.ID
	r.persistLocked()
	return s
}

// SwitchSession makes the session with the given id current.
// Unknown ids are a silent no-op. Switching does NOT cancel an
// in-flight reveal for the session being left; the reveal keeps
// updating that session in the background until it completes or is
// skipped.
func (r *Registry) SwitchSession(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findLocked(id) == nil {
		return
	}
	r.current = id
	r.persistLocked()
}

// DeleteSession removes one session. If it was current, the new first
// session becomes current, or a fresh session is created when none
// remain. Repeated calls with the same id are a no-op.
func (r *Registry) DeleteSession(id string) {
	r.BulkDelete([]string{id})
}

// BulkDelete removes several sessions as a single atomic update:
// the current-session replacement is evaluated once, after all
// removals.
func (r *Registry) BulkDelete(ids []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doomed := make(map[string]bool, len(ids))
	for _, id := range ids {
		doomed[id] = true
	}

	kept := r.sessions[:0]
	removed := false
	for _, s := range r.sessions {
		if doomed[s.ID] {
			removed = true
			continue
		}
		kept = append(kept, s)
	}
	if !removed {
		return
	}
	r.sessions = kept

	if doomed[r.current] {
		if len(r.sessions) > 0 {
			r.current = r.sessions[0].ID
		} else {
			r.createLocked()
			return // createLocked persisted already
		}
	}
	r.persistLocked()
}

// ClearAll removes every session and starts over with one fresh one.
func (r *Registry) ClearAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions = nil
	r.createLocked()
}

// SessionUpdate is a partial update; nil fields are left untouched.
type SessionUpdate struct {
	Title    *string
	FolderID *string
	Tags     *[]string
	Archived *bool
}

func (u SessionUpdate) applyTo(s *model.ChatSession) {
	if u.Title != nil {
		s.Title = *u.Title
	}
	if u.FolderID != nil {
		s.FolderID = *u.FolderID
	}
	if u.Tags != nil {
		s.Tags = *u.Tags
	}
	if u.Archived != nil {
		s.Archived = *u.Archived
	}
}

// UpdateSession merges the partial update into one session and
// refreshes its LastUpdated. Unknown ids are a no-op.
func (r *Registry) UpdateSession(id string, update SessionUpdate) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.findLocked(id)
	if s == nil {
		return
	}
	update.applyTo(s)
	s.LastUpdated = time.Now()
	r.persistLocked()
}

// BulkUpdate applies the same partial update to every listed session.
// Unlike UpdateSession it does not refresh LastUpdated, so bulk
// organizational changes do not reshuffle history views.
func (r *Registry) BulkUpdate(ids []string, update SessionUpdate) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	touched := false
	for _, s := range r.sessions {
		if wanted[s.ID] {
			update.applyTo(s)
			touched = true
		}
	}
	if touched {
		r.persistLocked()
	}
}

// Reorder replaces the display order with the given id sequence.
// Ids not present in the registry are ignored; sessions not mentioned
// keep their prior relative order, after the mentioned ones.
func (r *Registry) Reorder(ids []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	index := make(map[string]*model.ChatSession, len(r.sessions))
	for _, s := range r.sessions {
		index[s.ID] = s
	}

	reordered := make([]*model.ChatSession, 0, len(r.sessions))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if s, ok := index[id]; ok && !seen[id] {
			reordered = append(reordered, s)
			seen[id] = true
		}
	}
	for _, s := range r.sessions {
		if !seen[s.ID] {
			reordered = append(reordered, s)
		}
	}
	r.sessions = reordered
	r.persistLocked()
}

// AppendMessage appends to a session's messages, refreshing its
// LastUpdated and deriving the title from the first message. The
// registry stores its own copy; the caller's pointer stays private.
func (r *Registry) AppendMessage(sessionID string, msg *model.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.findLocked(sessionID)
	if s == nil {
		return
	}
	s.Append(msg.Clone())
	r.persistLocked()
}

// UpdateMessage applies fn to one message and refreshes the session's
// LastUpdated. Used by the reveal path to advance DisplayedContent.
func (r *Registry) UpdateMessage(sessionID, messageID string, fn func(*model.Message)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.findLocked(sessionID)
	if s == nil {
		return
	}
	m := s.FindMessage(messageID)
	if m == nil {
		return
	}
	fn(m)
	s.LastUpdated = time.Now()
	r.persistLocked()
}

// Reload replaces in-memory state from the store, used when another
// process rewrote the sessions file. The current id is kept when the
// reloaded list still contains it.
func (r *Registry) Reload() {
	r.mu.Lock()
	defer r.mu.Unlock()

	var sessions []*model.ChatSession
	if !r.store.Load(storage.KeySessions, &sessions) {
		return
	}
	normalize(sessions)
	r.sessions = sessions

	if r.findLocked(r.current) == nil {
		if len(r.sessions) > 0 {
			r.current = r.sessions[0].ID
		} else {
			r.createLocked()
		}
	}
}

// =============================================================================
// INTERNALS
// =============================================================================

func (r *Registry) findLocked(id string) *model.ChatSession {
	if id == "" {
		return nil
	}
	for _, s := range r.sessions {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// persistLocked serializes the full session list and current id.
func (r *Registry) persistLocked() {
	r.store.SetLogged(storage.KeySessions, r.sessions)
	r.store.SetLogged(storage.KeyCurrentSession, r.current)
}
