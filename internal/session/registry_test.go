// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sathishnaik786/yvi-chat-assistant/internal/model"
	"github.com/Sathishnaik786/yvi-chat-assistant/internal/storage"
)

func newTestRegistry(t *testing.T) (*Registry, *storage.Store) {
	t.Helper()
	store, err := storage.NewStoreWithDir(t.TempDir())
	require.NoError(t, err)
	return NewRegistry(store), store
}

func TestNewRegistryEmptyStoreCreatesOneSession(t *testing.T) {
	r, _ := newTestRegistry(t)

	require.Equal(t, 1, r.Len())
	current := r.Current()
	require.NotNil(t, current)
	assert.Equal(t, current.ID, r.CurrentID())
	assert.Empty(t, current.Messages)
	assert.Equal(t, model.DefaultTitle, current.Title)
}

func TestCreateSessionInsertsAtFrontAndBecomesCurrent(t *testing.T) {
	r, _ := newTestRegistry(t)
	first := r.Current()

	second := r.CreateSession()

	sessions := r.Sessions()
	require.Len(t, sessions, 2)
	assert.Equal(t, second.ID, sessions[0].ID)
	assert.Equal(t, first.ID, sessions[1].ID)
	assert.Equal(t, second.ID, r.CurrentID())
}

func TestSwitchSession(t *testing.T) {
	r, _ := newTestRegistry(t)
	first := r.Current()
	r.CreateSession()

	r.SwitchSession(first.ID)
	assert.Equal(t, first.ID, r.CurrentID())

	// Unknown id is a silent no-op.
	r.SwitchSession("sess_doesnotexist")
	assert.Equal(t, first.ID, r.CurrentID())
}

func TestDeleteCurrentSelectsNewFirst(t *testing.T) {
	r, _ := newTestRegistry(t)
	older := r.Current()
	newer := r.CreateSession() // current, at the front

	r.DeleteSession(newer.ID)

	require.Equal(t, 1, r.Len())
	assert.Equal(t, older.ID, r.CurrentID())

	// Deleting again is a no-op.
	r.DeleteSession(newer.ID)
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, older.ID, r.CurrentID())
}

func TestDeleteLastSessionCreatesFreshOne(t *testing.T) {
	r, _ := newTestRegistry(t)
	only := r.Current()

	r.DeleteSession(only.ID)

	require.Equal(t, 1, r.Len())
	assert.NotEqual(t, only.ID, r.CurrentID())
	assert.Empty(t, r.Current().Messages)
}

func TestBulkDeleteEvaluatesCurrentOnce(t *testing.T) {
	r, _ := newTestRegistry(t)
	b := r.Current()
	a := r.CreateSession() // current

	r.BulkDelete([]string{a.ID})

	require.Equal(t, 1, r.Len())
	assert.Equal(t, b.ID, r.CurrentID())
}

func TestBulkDeleteEverything(t *testing.T) {
	r, _ := newTestRegistry(t)
	a := r.Current()
	b := r.CreateSession()

	r.BulkDelete([]string{a.ID, b.ID})

	require.Equal(t, 1, r.Len())
	assert.NotContains(t, []string{a.ID, b.ID}, r.CurrentID())
}

func TestUpdateSessionMergesAndRefreshes(t *testing.T) {
	r, _ := newTestRegistry(t)
	s := r.Current()
	before := s.LastUpdated

	time.Sleep(5 * time.Millisecond)
	title := "Renamed"
	archived := true
	r.UpdateSession(s.ID, SessionUpdate{Title: &title, Archived: &archived})

	got := r.Current()
	assert.Equal(t, "Renamed", got.Title)
	assert.True(t, got.Archived)
	assert.True(t, got.LastUpdated.After(before))

	// Unknown id is a no-op.
	r.UpdateSession("sess_nope", SessionUpdate{Title: &title})
}

func TestBulkUpdateDoesNotTouchLastUpdated(t *testing.T) {
	r, _ := newTestRegistry(t)
	a := r.Current()
	b := r.CreateSession()
	aBefore, bBefore := a.LastUpdated, b.LastUpdated

	folder := "folder-1"
	r.BulkUpdate([]string{a.ID, b.ID}, SessionUpdate{FolderID: &folder})

	gotA, gotB := r.Find(a.ID), r.Find(b.ID)
	assert.Equal(t, "folder-1", gotA.FolderID)
	assert.Equal(t, "folder-1", gotB.FolderID)
	assert.Equal(t, aBefore, gotA.LastUpdated)
	assert.Equal(t, bBefore, gotB.LastUpdated)
}

func TestReorder(t *testing.T) {
	r, _ := newTestRegistry(t)
	c := r.Current()
	b := r.CreateSession()
	a := r.CreateSession() // order: a, b, c

	r.Reorder([]string{c.ID, a.ID, b.ID})

	got := r.Sessions()
	require.Len(t, got, 3)
	assert.Equal(t, []string{c.ID, a.ID, b.ID}, []string{got[0].ID, got[1].ID, got[2].ID})
}

func TestReorderPartialAndUnknownIDs(t *testing.T) {
	r, _ := newTestRegistry(t)
	c := r.Current()
	b := r.CreateSession()
	a := r.CreateSession() // order: a, b, c

	// Unknown ids are ignored; unmentioned sessions keep their prior
	// relative order after the mentioned ones.
	r.Reorder([]string{"sess_ghost", c.ID})

	got := r.Sessions()
	require.Len(t, got, 3)
	assert.Equal(t, []string{c.ID, a.ID, b.ID}, []string{got[0].ID, got[1].ID, got[2].ID})
}

func TestAppendMessageDerivesTitle(t *testing.T) {
	r, _ := newTestRegistry(t)
	s := r.Current()

	r.AppendMessage(s.ID, model.NewUserMessage("Hello world, this message is over thirty characters"))

	got := r.Current()
	assert.Equal(t, "Hello world, this message is o...", got.Title)
	assert.Len(t, got.Messages, 1)

	r.AppendMessage(s.ID, model.NewUserMessage("second"))
	assert.Equal(t, "Hello world, this message is o...", r.Current().Title, "title derives from first message only")
}

func TestPersistenceRoundTrip(t *testing.T) {
	store, err := storage.NewStoreWithDir(t.TempDir())
	require.NoError(t, err)

	r1 := NewRegistry(store)
	s := r1.Current()
	r1.AppendMessage(s.ID, model.NewUserMessage("persisted question"))
	other := r1.CreateSession()
	r1.SwitchSession(s.ID)

	// A second registry over the same store resumes where we left off.
	r2 := NewRegistry(store)
	require.Equal(t, 2, r2.Len())
	assert.Equal(t, s.ID, r2.CurrentID())
	require.NotNil(t, r2.Find(other.ID))
	require.Len(t, r2.Current().Messages, 1)
	assert.Equal(t, "persisted question", r2.Current().Messages[0].Content)
}

func TestLoadPromotesInterruptedReveal(t *testing.T) {
	store, err := storage.NewStoreWithDir(t.TempDir())
	require.NoError(t, err)

	r1 := NewRegistry(store)
	s := r1.Current()
	r1.AppendMessage(s.ID, model.NewUserMessage("q"))
	asst := model.NewAssistantMessage("full answer", "")
	asst.DisplayedContent = "full an" // mid-reveal at shutdown
	r1.AppendMessage(s.ID, asst)

	r2 := NewRegistry(store)
	loaded := r2.Current().Messages[1]
	assert.True(t, loaded.IsRevealed, "interrupted reveal promotes to revealed on load")
	assert.Equal(t, "full answer", loaded.DisplayedText())
}

func TestClearAll(t *testing.T) {
	r, _ := newTestRegistry(t)
	r.AppendMessage(r.CurrentID(), model.NewUserMessage("q"))
	r.CreateSession()

	r.ClearAll()

	require.Equal(t, 1, r.Len())
	assert.Empty(t, r.Current().Messages)
}

func TestReadAccessorsReturnDetachedCopies(t *testing.T) {
	r, _ := newTestRegistry(t)
	r.AppendMessage(r.CurrentID(), model.NewUserMessage("original"))

	// Mutating a returned session must never reach the registry.
	snap := r.Current()
	snap.Title = "scribbled"
	snap.Messages[0].Content = "scribbled"
	snap.Messages = append(snap.Messages, model.NewUserMessage("extra"))

	fresh := r.Current()
	assert.NotEqual(t, "scribbled", fresh.Title)
	require.Len(t, fresh.Messages, 1)
	assert.Equal(t, "original", fresh.Messages[0].Content)

	// Same for the caller's pointer after AppendMessage.
	msg := model.NewUserMessage("appended")
	r.AppendMessage(r.CurrentID(), msg)
	msg.Content = "scribbled"
	assert.Equal(t, "appended", r.Current().Messages[1].Content)
}

func TestConcurrentRevealWritesAndTranscriptReads(t *testing.T) {
	r, _ := newTestRegistry(t)
	id := r.CurrentID()
	asst := model.NewAssistantMessage("the full reply text", "")
	r.AppendMessage(id, model.NewUserMessage("q"))
	r.AppendMessage(id, asst)

	// Writer advances the reveal prefix the way the orchestrator does;
	// readers walk the transcript the way the view does. Run under the
	// race detector this fails if reads ever share memory with writes.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			prefix := "the full reply text"[:i%19]
			r.UpdateMessage(id, asst.ID, func(m *model.Message) {
				m.DisplayedContent = prefix
			})
			r.AppendMessage(id, model.NewUserMessage("more"))
		}
	}()

	for i := 0; i < 200; i++ {
		if cur := r.Current(); cur != nil {
			for _, m := range cur.Messages {
				_ = m.DisplayedText()
			}
		}
		for _, s := range r.Sessions() {
			_ = s.RevealingMessage()
		}
	}
	<-done
}

func TestStoredCurrentIDMismatchFallsBackToFirst(t *testing.T) {
	store, err := storage.NewStoreWithDir(t.TempDir())
	require.NoError(t, err)

	r1 := NewRegistry(store)
	first := r1.CreateSession()

	// Simulate a stale pointer on disk.
	require.NoError(t, store.Set(storage.KeyCurrentSession, "sess_stale"))

	r2 := NewRegistry(store)
	assert.Equal(t, first.ID, r2.CurrentID())
}

func TestReloadPicksUpExternalStoreWrite(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewStoreWithDir(dir)
	require.NoError(t, err)
	r := NewRegistry(store)

	// Another process writes through its own registry on the same dir.
	otherStore, err := storage.NewStoreWithDir(dir)
	require.NoError(t, err)
	other := NewRegistry(otherStore)
	imported := other.CreateSession()
	other.AppendMessage(imported.ID, model.NewUserMessage("written elsewhere"))

	r.Reload()

	got := r.Find(imported.ID)
	require.NotNil(t, got)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "written elsewhere", got.Messages[0].Content)
}

func TestReloadKeepsCurrentWhenStillPresent(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewStoreWithDir(dir)
	require.NoError(t, err)
	r := NewRegistry(store)
	current := r.CurrentID()

	otherStore, err := storage.NewStoreWithDir(dir)
	require.NoError(t, err)
	NewRegistry(otherStore).CreateSession()

	r.Reload()

	assert.Equal(t, current, r.CurrentID())
	assert.Equal(t, 2, r.Len())
}
