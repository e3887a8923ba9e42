package notesession

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Hotate516/kiga-workspace/internal/app/notes"
	"github.com/Hotate516/kiga-workspace/internal/domain"
	"github.com/Hotate516/kiga-workspace/internal/observability"
)

// State is the single operation guard of a note session. At most one
// note-level operation runs at a time; every entry point checks and sets the
// state under the controller lock.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateSaving
	StateDeleting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateSaving:
		return "saving"
	case StateDeleting:
		return "deleting"
	default:
		return "unknown"
	}
}

// DefaultDebounceInterval is the quiet period behind typing before the
// metadata write goes to the remote store.
const DefaultDebounceInterval = 1500 * time.Millisecond

// Controller owns the lifecycle of "which note is open" for one user
// session: it reconciles cache against remote on load, debounces metadata
// writes on edit, and coordinates save/delete against the editor's editable
// state. Store failures never escape it; they become notifications.
type Controller struct {
	svc      *notes.Service
	cache    domain.NoteCache
	editor   domain.Editor
	notifier domain.Notifier
	confirm  domain.ConfirmFunc
	session  domain.Session
	meta     *debouncer
	now      func() time.Time

	mu             sync.Mutex
	notes          []domain.NoteMeta
	currentID      domain.NoteID
	title          string
	lastSaved      time.Time
	state          State
	initialLoading bool
}

type Option func(*Controller)

// WithDebounceInterval overrides the metadata coalescing window.
func WithDebounceInterval(d time.Duration) Option {
	return func(c *Controller) { c.meta = newDebouncer(d) }
}

// WithClock overrides the controller's time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// NewController builds a controller for one signed-in session. confirm is
// the blocking yes/no gate shown before a delete; a declined confirmation
// aborts silently.
func NewController(
	session domain.Session,
	svc *notes.Service,
	cache domain.NoteCache,
	editor domain.Editor,
	notifier domain.Notifier,
	confirm domain.ConfirmFunc,
	opts ...Option,
) *Controller {
	c := &Controller{
		svc:      svc,
		cache:    cache,
		editor:   editor,
		notifier: notifier,
		confirm:  confirm,
		session:  session,
		meta:     newDebouncer(DefaultDebounceInterval),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	editor.OnUpdate(c.editorUpdated)
	return c
}

// Start performs the initial load: fetch the note list, create a first note
// for a fresh user, otherwise restore the last opened note (falling back to
// the most recently modified one).
func (c *Controller) Start(ctx context.Context) {
	c.mu.Lock()
	c.initialLoading = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.initialLoading = false
		c.mu.Unlock()
	}()

	uid := c.session.UserID
	log := observability.LoggerFromContext(ctx).With("user_id", uid)

	list, err := c.svc.List(ctx, uid)
	if err != nil {
		log.Error("failed to fetch notes list", "error", err)
		c.notifier.Error("failed to fetch the note list")
		return
	}

	c.mu.Lock()
	c.notes = list
	c.mu.Unlock()

	if len(list) == 0 {
		c.createAndSelect(ctx, true)
		return
	}

	idToLoad := list[0].ID
	if last, ok := c.cache.LastOpened(uid); ok {
		for _, n := range list {
			if n.ID == last {
				idToLoad = last
				break
			}
		}
	}
	c.load(ctx, idToLoad)
}

// Select switches to another note. Selecting the current note, or selecting
// while an operation is in flight, is ignored.
func (c *Controller) Select(ctx context.Context, id domain.NoteID) {
	c.mu.Lock()
	skip := id == c.currentID || c.state != StateIdle
	c.mu.Unlock()
	if skip {
		return
	}
	c.load(ctx, id)
}

// load makes id the current note and fills the editor: cached content wins
// outright (it may hold unsaved edits); otherwise the remote copy is fetched
// behind an empty-document placeholder and written back into the cache.
// Editing is disabled for the duration and restored no matter what.
func (c *Controller) load(ctx context.Context, id domain.NoteID) {
	if !c.begin(StateLoading) {
		return
	}
	c.editor.SetEditable(false)
	defer func() {
		c.end()
		c.editor.SetEditable(true)
		c.editor.Focus()
	}()

	uid := c.session.UserID
	log := observability.LoggerFromContext(ctx).With("user_id", uid, "note_id", id)

	c.mu.Lock()
	c.currentID = id
	var listTitle string
	for _, n := range c.notes {
		if n.ID == id {
			listTitle = n.Title
			break
		}
	}
	c.mu.Unlock()

	title, hadCachedTitle := c.cache.Title(uid, id)
	if !hadCachedTitle {
		title = listTitle
		if title == "" {
			title = domain.DefaultNoteTitle
		}
	}
	c.setTitle(title)

	if doc, ok := c.cache.Content(uid, id); ok {
		c.editor.SetContent(doc, false)
	} else {
		// Placeholder first so stale content from the previous note never
		// shows under the new title.
		c.editor.SetContent(domain.EmptyDocument(), false)

		doc, err := c.svc.FetchContent(ctx, uid, id)
		if err != nil {
			log.Error("failed to load note content", "error", err)
			c.notifier.Error("failed to load the note")
			return
		}
		c.editor.SetContent(doc, false)
		c.cache.SetContent(uid, id, doc)
		if !hadCachedTitle {
			c.cache.SetTitle(uid, id, title)
		}
	}

	c.mu.Lock()
	c.lastSaved = c.now()
	c.mu.Unlock()
	c.cache.SetLastOpened(uid, id)
}

// CreatePage makes a new note and selects it.
func (c *Controller) CreatePage(ctx context.Context) {
	c.createAndSelect(ctx, false)
}

func (c *Controller) createAndSelect(ctx context.Context, initialSetup bool) {
	if !c.begin(StateLoading) {
		return
	}
	c.editor.SetEditable(false)

	uid := c.session.UserID
	var created *domain.NoteMeta

	func() {
		defer func() {
			c.end()
			c.editor.SetEditable(true)
		}()

		meta, err := c.svc.Create(ctx, uid)
		if err != nil {
			observability.LoggerFromContext(ctx).Error("failed to create note",
				"user_id", uid, "error", err)
			c.notifier.Error("failed to create a new note")
			return
		}

		c.mu.Lock()
		c.notes = append([]domain.NoteMeta{*meta}, c.notes...)
		domain.SortNotesByModified(c.notes)
		c.mu.Unlock()

		c.cache.SetTitle(uid, meta.ID, meta.Title)
		c.cache.SetContent(uid, meta.ID, domain.EmptyDocument())

		if !initialSetup {
			c.notifier.Success("created a new note")
		}
		created = meta
	}()

	if created != nil {
		c.load(ctx, created.ID)
	}
}

// Save pushes the current title and document to the remote store. It rejects
// when nothing is selected, the editor is not editable, or both title and
// content are empty.
func (c *Controller) Save(ctx context.Context) {
	c.mu.Lock()
	id := c.currentID
	title := c.title
	c.mu.Unlock()

	if id == "" || !c.editor.IsEditable() {
		c.notifier.Error("cannot save right now")
		return
	}
	doc := c.editor.Content()
	if strings.TrimSpace(title) == "" && c.editor.IsEmpty() {
		c.notifier.Error("there is nothing to save")
		return
	}

	if !c.begin(StateSaving) {
		return
	}
	defer c.end()

	// A pending debounced metadata write would land after this save with a
	// possibly stale title; drop it.
	c.meta.Cancel()

	uid := c.session.UserID
	modified, err := c.svc.Save(ctx, uid, id, title, doc)
	if err != nil {
		observability.LoggerFromContext(ctx).Error("failed to save note",
			"user_id", uid, "note_id", id, "error", err)
		c.notifier.Error(fmt.Sprintf("failed to save %q", title))
		return
	}

	c.mu.Lock()
	c.lastSaved = modified
	for i := range c.notes {
		if c.notes[i].ID == id {
			c.notes[i].Title = title
			c.notes[i].LastModified = modified
		}
	}
	domain.SortNotesByModified(c.notes)
	c.mu.Unlock()

	c.notifier.Success(fmt.Sprintf("saved %q", title))
}

// Delete removes the current note after confirmation. The last remaining
// note can never be deleted. On success the note occupying the freed list
// position becomes current, clamped to the new list length.
func (c *Controller) Delete(ctx context.Context) {
	c.mu.Lock()
	id := c.currentID
	idx := -1
	var title string
	for i, n := range c.notes {
		if n.ID == id {
			idx = i
			title = n.Title
			break
		}
	}
	count := len(c.notes)
	c.mu.Unlock()

	if id == "" || idx < 0 {
		return
	}
	if count <= 1 {
		c.notifier.Error("the last note cannot be deleted")
		return
	}
	if !c.confirm(fmt.Sprintf("Delete note %q? This cannot be undone.", title)) {
		return
	}

	if !c.begin(StateDeleting) {
		return
	}

	uid := c.session.UserID
	var nextID domain.NoteID

	func() {
		defer c.end()

		if err := c.svc.Delete(ctx, uid, id); err != nil {
			observability.LoggerFromContext(ctx).Error("failed to delete note",
				"user_id", uid, "note_id", id, "error", err)
			c.notifier.Error(fmt.Sprintf("failed to delete %q", title))
			return
		}
		c.cache.Remove(uid, id)

		c.mu.Lock()
		updated := make([]domain.NoteMeta, 0, len(c.notes)-1)
		for _, n := range c.notes {
			if n.ID != id {
				updated = append(updated, n)
			}
		}
		c.notes = updated
		next := idx
		if next > len(updated)-1 {
			next = len(updated) - 1
		}
		nextID = updated[next].ID
		c.mu.Unlock()

		c.notifier.Success(fmt.Sprintf("deleted %q", title))
	}()

	if nextID != "" {
		c.load(ctx, nextID)
	}
}

// SetTitle records a title edit: the cache is updated synchronously and the
// remote metadata write is scheduled through the coalescing window.
func (c *Controller) SetTitle(title string) {
	c.mu.Lock()
	c.title = title
	id := c.currentID
	busy := c.state != StateIdle || c.initialLoading
	c.mu.Unlock()

	if id == "" || busy || !c.editor.IsEditable() {
		return
	}
	c.cache.SetTitle(c.session.UserID, id, title)
	c.scheduleMetaUpdate(id, title)
}

// editorUpdated runs after every user edit: current title and content go
// into the cache immediately, the metadata write is debounced so typing does
// not turn into one remote write per keystroke.
func (c *Controller) editorUpdated() {
	c.mu.Lock()
	id := c.currentID
	title := c.title
	busy := c.state != StateIdle || c.initialLoading
	c.mu.Unlock()

	if id == "" || busy || !c.editor.IsEditable() {
		return
	}

	uid := c.session.UserID
	c.cache.SetTitle(uid, id, title)
	c.cache.SetContent(uid, id, c.editor.Content())
	c.scheduleMetaUpdate(id, title)
}

// scheduleMetaUpdate captures its target note id, so a write pending when
// the user switches notes still lands on the note it was typed into.
func (c *Controller) scheduleMetaUpdate(id domain.NoteID, title string) {
	uid := c.session.UserID
	c.meta.Trigger(func() {
		if err := c.svc.UpdateMeta(context.Background(), uid, id, title); err != nil {
			// No notification here: a background metadata miss must not
			// interrupt typing.
			observability.Logger().Error("debounced metadata update failed",
				"user_id", uid, "note_id", id, "error", err)
		}
	})
}

func (c *Controller) begin(s State) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateIdle {
		return false
	}
	c.state = s
	return true
}

func (c *Controller) end() {
	c.mu.Lock()
	c.state = StateIdle
	c.mu.Unlock()
}

func (c *Controller) setTitle(title string) {
	c.mu.Lock()
	c.title = title
	c.mu.Unlock()
}

// Notes returns a copy of the in-memory note list in display order.
func (c *Controller) Notes() []domain.NoteMeta {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.NoteMeta, len(c.notes))
	copy(out, c.notes)
	return out
}

func (c *Controller) CurrentNoteID() domain.NoteID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentID
}

func (c *Controller) Title() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.title
}

func (c *Controller) LastSaved() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSaved
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}
