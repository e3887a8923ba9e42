// Package editor provides a headless implementation of the editing-surface
// contract. The real rich-text surface is a third-party component living in
// the front-end; this one holds a document tree, an editable flag and an
// update callback, which is all the session controller ever touches.
package editor

import (
	"sync"

	"github.com/Hotate516/kiga-workspace/internal/domain"
)

type Headless struct {
	mu       sync.Mutex
	doc      domain.Document
	editable bool
	focused  bool
	onUpdate func()
}

func NewHeadless() *Headless {
	return &Headless{
		doc:      domain.EmptyDocument(),
		editable: true,
	}
}

func (e *Headless) SetEditable(editable bool) {
	e.mu.Lock()
	e.editable = editable
	e.mu.Unlock()
}

func (e *Headless) IsEditable() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.editable
}

// SetContent replaces the document programmatically. It never fires the
// update callback: only user edits do.
func (e *Headless) SetContent(doc domain.Document, addToHistory bool) {
	e.mu.Lock()
	e.doc = doc
	e.mu.Unlock()
}

func (e *Headless) Content() domain.Document {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc
}

func (e *Headless) IsEmpty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc.IsEmpty()
}

func (e *Headless) Focus() {
	e.mu.Lock()
	e.focused = true
	e.mu.Unlock()
}

func (e *Headless) IsFocused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.focused
}

func (e *Headless) OnUpdate(fn func()) {
	e.mu.Lock()
	e.onUpdate = fn
	e.mu.Unlock()
}

// Edit simulates a user edit: the document is replaced and, while the
// surface is editable, the update callback fires. Edits against a disabled
// surface are dropped the way a real surface swallows input.
func (e *Headless) Edit(doc domain.Document) {
	e.mu.Lock()
	if !e.editable {
		e.mu.Unlock()
		return
	}
	e.doc = doc
	fn := e.onUpdate
	e.mu.Unlock()

	if fn != nil {
		fn()
	}
}

var _ domain.Editor = (*Headless)(nil)
