package domain

import "sort"

// DefaultNoteTitle is the title given to every newly created note and the
// fallback shown when neither the cache nor the list carries a title.
const DefaultNoteTitle = "untitled page"

// NoteMeta is the lightweight record used for listing notes, distinct from
// the full document content.
type NoteMeta struct {
	ID           NoteID
	Title        string
	LastModified Timestamp
}

// SortNotesByModified orders notes most recently modified first, the display
// order of the note list.
func SortNotesByModified(notes []NoteMeta) {
	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].LastModified.After(notes[j].LastModified)
	})
}

// NoteEventType enumerates changes broadcast to connected clients.
type NoteEventType string

const (
	NoteCreated NoteEventType = "created"
	NoteSaved   NoteEventType = "saved"
	NoteDeleted NoteEventType = "deleted"
)

// NoteEvent describes one change to a user's note collection.
type NoteEvent struct {
	Type   NoteEventType `json:"type"`
	UserID UserID        `json:"user_id"`
	NoteID NoteID        `json:"note_id"`
	Title  string        `json:"title,omitempty"`
	At     Timestamp     `json:"at"`
}
