// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package library

import (
	"sync"
	"time"

	"github.com/Sathishnaik786/yvi-chat-assistant/internal/storage"
	"github.com/Sathishnaik786/yvi-chat-assistant/internal/util"
)

// ============================================================================
// FOLDERS AND TAGS
// ============================================================================

// RootFolderID is the id of the built-in folder holding unfoldered
// sessions. It cannot be deleted.
const RootFolderID = "root"

// Folder groups sessions in the sidebar. Folders nest one level deep
// through ParentID.
type Folder struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ParentID  string    `json:"parentId,omitempty"`
	Color     string    `json:"color,omitempty"`
	Expanded  bool      `json:"isExpanded"`
	CreatedAt time.Time `json:"createdAt"`
}

// Tag labels sessions independently of folders.
type Tag struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

func defaultFolders() []Folder {
	return []Folder{
		{ID: RootFolderID, Name: "All Chats", Expanded: true, CreatedAt: time.Now()},
	}
}

func defaultTags() []Tag {
	return []Tag{
		{ID: "work", Name: "Work", Color: "#3b82f6"},
		{ID: "personal", Name: "Personal", Color: "#22c55e"},
		{ID: "important", Name: "Important", Color: "#ef4444"},
		{ID: "research", Name: "Research", Color: "#8b5cf6"},
	}
}

// Organizer manages folders and tags, persisting each under its own
// store key.
type Organizer struct {
	mu      sync.Mutex
	store   *storage.Store
	folders []Folder
	tags    []Tag
}

// NewOrganizer loads folders and tags, seeding defaults on first run.
func NewOrganizer(store *storage.Store) *Organizer {
	o := &Organizer{store: store}
	if !o.store.Load(storage.KeyFolders, &o.folders) || len(o.folders) == 0 {
		o.folders = defaultFolders()
	}
	if !o.store.Load(storage.KeyTags, &o.tags) || len(o.tags) == 0 {
		o.tags = defaultTags()
	}
	return o
}

// CreateFolder adds a folder and returns it. parentID may be empty for
// a top-level folder.
func (o *Organizer) CreateFolder(name, parentID, color string) Folder {
	o.mu.Lock()
	defer o.mu.Unlock()

	folder := Folder{
		ID:        util.GenerateID("folder"),
		Name:      name,
		ParentID:  parentID,
		Color:     color,
		Expanded:  true,
		CreatedAt: time.Now(),
	}
	o.folders = append(o.folders, folder)
	o.persistFoldersLocked()
	return folder
}

// UpdateFolder mutates a folder in place via fn.
func (o *Organizer) UpdateFolder(id string, fn func(*Folder)) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	for i := range o.folders {
		if o.folders[i].ID == id {
			fn(&o.folders[i])
			o.persistFoldersLocked()
			return true
		}
	}
	return false
}

// DeleteFolder removes a folder and its direct children. The root
// folder is protected.
func (o *Organizer) DeleteFolder(id string) bool {
	if id == RootFolderID {
		return false
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	kept := o.folders[:0]
	removed := false
	for _, folder := range o.folders {
		if folder.ID == id || folder.ParentID == id {
			removed = true
			continue
		}
		kept = append(kept, folder)
	}
	o.folders = kept
	if removed {
		o.persistFoldersLocked()
	}
	return removed
}

// ToggleFolder flips a folder's expanded state.
func (o *Organizer) ToggleFolder(id string) {
	o.UpdateFolder(id, func(f *Folder) { f.Expanded = !f.Expanded })
}

// Subfolders returns folders whose parent is parentID; pass "" for the
// top level.
func (o *Organizer) Subfolders(parentID string) []Folder {
	o.mu.Lock()
	defer o.mu.Unlock()

	var out []Folder
	for _, folder := range o.folders {
		if folder.ParentID == parentID {
			out = append(out, folder)
		}
	}
	return out
}

// Folders returns a copy of all folders.
func (o *Organizer) Folders() []Folder {
	o.mu.Lock()
	defer o.mu.Unlock()

	out := make([]Folder, len(o.folders))
	copy(out, o.folders)
	return out
}

// CreateTag adds a tag and returns it.
func (o *Organizer) CreateTag(name, color string) Tag {
	o.mu.Lock()
	defer o.mu.Unlock()

	tag := Tag{ID: util.GenerateID("tag"), Name: name, Color: color}
	o.tags = append(o.tags, tag)
	o.persistTagsLocked()
	return tag
}

// DeleteTag removes a tag by id.
func (o *Organizer) DeleteTag(id string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	for i, tag := range o.tags {
		if tag.ID == id {
			o.tags = append(o.tags[:i], o.tags[i+1:]...)
			o.persistTagsLocked()
			return true
		}
	}
	return false
}

// Tags returns a copy of all tags.
func (o *Organizer) Tags() []Tag {
	o.mu.Lock()
	defer o.mu.Unlock()

	out := make([]Tag, len(o.tags))
	copy(out, o.tags)
	return out
}

func (o *Organizer) persistFoldersLocked() {
	o.store.SetLogged(storage.KeyFolders, o.folders)
}

func (o *Organizer) persistTagsLocked() {
	o.store.SetLogged(storage.KeyTags, o.tags)
}
