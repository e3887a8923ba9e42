package domain

import (
	"context"
	"time"
)

// NoteStore defines persistence for note metadata. Timestamps on writes are
// assigned by the store, not the client, so the "most recently modified"
// ordering stays trustworthy across devices.
type NoteStore interface {
	// ListNotes returns the user's notes ordered by LastModified descending.
	ListNotes(ctx context.Context, uid UserID) ([]NoteMeta, error)

	// PutNoteMeta upserts title and last-modified for a note and returns the
	// store-assigned modification time.
	PutNoteMeta(ctx context.Context, uid UserID, id NoteID, title string) (time.Time, error)

	// DeleteNoteMeta removes a note's metadata.
	DeleteNoteMeta(ctx context.Context, uid UserID, id NoteID) error
}

// ContentStore defines blob persistence for document content. Writes are
// whole-document replacement, never partial patches.
type ContentStore interface {
	FetchContent(ctx context.Context, uid UserID, id NoteID) (Document, error)
	SaveContent(ctx context.Context, uid UserID, id NoteID, doc Document) error
	// DeleteContent removes a note's content. Returns ErrContentNotFound if
	// the blob was never written.
	DeleteContent(ctx context.Context, uid UserID, id NoteID) error
}

// NoteCache is the device-local write-back cache ahead of the remote store.
// All operations are best-effort: a miss (ok == false) is an expected
// outcome, never an error.
type NoteCache interface {
	Title(uid UserID, id NoteID) (string, bool)
	SetTitle(uid UserID, id NoteID, title string)
	Content(uid UserID, id NoteID) (Document, bool)
	SetContent(uid UserID, id NoteID, doc Document)
	Remove(uid UserID, id NoteID)
	LastOpened(uid UserID) (NoteID, bool)
	SetLastOpened(uid UserID, id NoteID)
}

// Editor is the contract over the third-party rich-text editing surface.
type Editor interface {
	SetEditable(editable bool)
	IsEditable() bool
	// SetContent replaces the document shown in the editor. addToHistory
	// controls whether the change lands on the surface's undo stack.
	SetContent(doc Document, addToHistory bool)
	Content() Document
	IsEmpty() bool
	Focus()
	// OnUpdate registers the callback fired after every user edit while the
	// surface is editable.
	OnUpdate(fn func())
}

// Notifier carries transient user-facing messages (the toast surface).
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// ConfirmFunc is a blocking yes/no gate shown before irreversible actions.
type ConfirmFunc func(prompt string) bool

// UserStore defines persistence for workspace profiles.
type UserStore interface {
	GetUser(ctx context.Context, uid UserID) (*User, error)
	// UpdateUser merges the non-zero fields of u into the stored document.
	UpdateUser(ctx context.Context, u *User) error
}

// AvatarStore persists profile images and returns their public URL.
type AvatarStore interface {
	UploadAvatar(ctx context.Context, uid UserID, data []byte, contentType string) (string, error)
}

// EventSink receives note change events for fan-out to connected clients.
type EventSink interface {
	Publish(ev NoteEvent)
}
