package notesession_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hotate516/kiga-workspace/internal/adapters/editor"
	"github.com/Hotate516/kiga-workspace/internal/adapters/storage/memory"
	"github.com/Hotate516/kiga-workspace/internal/app/notes"
	"github.com/Hotate516/kiga-workspace/internal/app/notesession"
	"github.com/Hotate516/kiga-workspace/internal/domain"
)

const testUser = domain.UserID("test-uid")

// recordingNotifier captures user-facing messages.
type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, msg)
}

func (n *recordingNotifier) Error(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, msg)
}

func (n *recordingNotifier) errorCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.errors)
}

// countingNoteStore counts metadata writes going to the remote store.
type countingNoteStore struct {
	*memory.NoteStore
	mu         sync.Mutex
	puts       int
	lastTitles map[domain.NoteID]string
}

func newCountingNoteStore() *countingNoteStore {
	return &countingNoteStore{
		NoteStore:  memory.NewNoteStore(),
		lastTitles: make(map[domain.NoteID]string),
	}
}

func (s *countingNoteStore) PutNoteMeta(ctx context.Context, uid domain.UserID, id domain.NoteID, title string) (time.Time, error) {
	s.mu.Lock()
	s.puts++
	s.lastTitles[id] = title
	s.mu.Unlock()
	return s.NoteStore.PutNoteMeta(ctx, uid, id, title)
}

func (s *countingNoteStore) putCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.puts
}

func (s *countingNoteStore) lastTitle(id domain.NoteID) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastTitles[id]
}

// flakyContentStore fails selected operations on demand.
type flakyContentStore struct {
	domain.ContentStore
	mu        sync.Mutex
	failSave  bool
	failFetch bool
}

func (s *flakyContentStore) setFail(save, fetch bool) {
	s.mu.Lock()
	s.failSave = save
	s.failFetch = fetch
	s.mu.Unlock()
}

func (s *flakyContentStore) SaveContent(ctx context.Context, uid domain.UserID, id domain.NoteID, doc domain.Document) error {
	s.mu.Lock()
	fail := s.failSave
	s.mu.Unlock()
	if fail {
		return errors.New("blob store unavailable")
	}
	return s.ContentStore.SaveContent(ctx, uid, id, doc)
}

func (s *flakyContentStore) FetchContent(ctx context.Context, uid domain.UserID, id domain.NoteID) (domain.Document, error) {
	s.mu.Lock()
	fail := s.failFetch
	s.mu.Unlock()
	if fail {
		return domain.Document{}, errors.New("blob store unavailable")
	}
	return s.ContentStore.FetchContent(ctx, uid, id)
}

type fixture struct {
	store    *countingNoteStore
	content  *flakyContentStore
	svc      *notes.Service
	cache    *memory.Cache
	editor   *editor.Headless
	notifier *recordingNotifier
	confirm  bool
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:    newCountingNoteStore(),
		content:  &flakyContentStore{ContentStore: memory.NewContentStore()},
		cache:    memory.NewCache(),
		editor:   editor.NewHeadless(),
		notifier: &recordingNotifier{},
		confirm:  true,
	}
	f.svc = notes.NewService(f.store, f.content)
	return f
}

func (f *fixture) controller(opts ...notesession.Option) *notesession.Controller {
	confirm := func(string) bool { return f.confirm }
	return notesession.NewController(
		domain.Session{UserID: testUser},
		f.svc, f.cache, f.editor, f.notifier, confirm, opts...,
	)
}

// seedNotes creates n notes with strictly increasing timestamps, so the
// last created note sits first in the list.
func (f *fixture) seedNotes(t *testing.T, n int) []domain.NoteMeta {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < n; i++ {
		_, err := f.svc.Create(ctx, testUser)
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
	}
	list, err := f.svc.List(ctx, testUser)
	require.NoError(t, err)
	require.Len(t, list, n)
	return list
}

func TestStartWithFreshUserCreatesFirstNote(t *testing.T) {
	f := newFixture(t)
	ctrl := f.controller()

	ctrl.Start(context.Background())

	list := ctrl.Notes()
	require.Len(t, list, 1)
	assert.Equal(t, domain.DefaultNoteTitle, list[0].Title)
	assert.Equal(t, list[0].ID, ctrl.CurrentNoteID())
	assert.Equal(t, domain.DefaultNoteTitle, ctrl.Title())
	assert.True(t, f.editor.Content().IsEmpty())
	assert.True(t, f.editor.IsEditable())
}

func TestStartRestoresLastOpenedNote(t *testing.T) {
	f := newFixture(t)
	seeded := f.seedNotes(t, 2)
	older := seeded[1]
	f.cache.SetLastOpened(testUser, older.ID)

	ctrl := f.controller()
	ctrl.Start(context.Background())

	assert.Equal(t, older.ID, ctrl.CurrentNoteID())

	// The remote fetch populated the cache, so the next selection of this
	// note is served locally.
	_, ok := f.cache.Content(testUser, older.ID)
	assert.True(t, ok)
}

func TestStartIgnoresDanglingLastOpenedPointer(t *testing.T) {
	f := newFixture(t)
	seeded := f.seedNotes(t, 2)
	f.cache.SetLastOpened(testUser, domain.NoteID("gone"))

	ctrl := f.controller()
	ctrl.Start(context.Background())

	assert.Equal(t, seeded[0].ID, ctrl.CurrentNoteID())
}

func TestStartListFailureNotifiesAndStops(t *testing.T) {
	f := newFixture(t)
	failing := notes.NewService(&failingNoteStore{}, f.content)
	ctrl := notesession.NewController(
		domain.Session{UserID: testUser},
		failing, f.cache, f.editor, f.notifier,
		func(string) bool { return true },
	)

	ctrl.Start(context.Background())

	assert.Equal(t, 1, f.notifier.errorCount())
	assert.Empty(t, ctrl.Notes())
	assert.Equal(t, notesession.StateIdle, ctrl.State())
}

func TestEditSurvivesNoteSwitch(t *testing.T) {
	f := newFixture(t)
	seeded := f.seedNotes(t, 2)
	noteB, noteA := seeded[0], seeded[1]

	ctrl := f.controller()
	ctx := context.Background()
	ctrl.Start(ctx)
	require.Equal(t, noteB.ID, ctrl.CurrentNoteID())

	ctrl.Select(ctx, noteA.ID)
	require.Equal(t, noteA.ID, ctrl.CurrentNoteID())

	edited := domain.TextDocument("hello from note A")
	f.editor.Edit(edited)

	// Cache captured the edit before we leave.
	cached, ok := f.cache.Content(testUser, noteA.ID)
	require.True(t, ok)
	assert.Equal(t, edited, cached)

	ctrl.Select(ctx, noteB.ID)
	assert.True(t, f.editor.Content().IsEmpty())

	ctrl.Select(ctx, noteA.ID)
	assert.Equal(t, edited, f.editor.Content())
}

func TestLoadFailureRestoresEditableSurface(t *testing.T) {
	f := newFixture(t)
	seeded := f.seedNotes(t, 2)
	other := seeded[1]

	ctrl := f.controller()
	ctx := context.Background()
	ctrl.Start(ctx)

	f.content.setFail(false, true)
	ctrl.Select(ctx, other.ID)

	assert.Equal(t, 1, f.notifier.errorCount())
	assert.True(t, f.editor.IsEditable())
	assert.True(t, f.editor.Content().IsEmpty(), "placeholder stays after a failed load")
	assert.Equal(t, notesession.StateIdle, ctrl.State())
}

func TestSaveUpdatesListOrder(t *testing.T) {
	f := newFixture(t)
	seeded := f.seedNotes(t, 2)
	older := seeded[1]

	ctrl := f.controller()
	ctx := context.Background()
	ctrl.Start(ctx)
	ctrl.Select(ctx, older.ID)

	ctrl.SetTitle("meeting notes")
	f.editor.Edit(domain.TextDocument("agenda"))
	ctrl.Save(ctx)

	list := ctrl.Notes()
	require.Len(t, list, 2)
	assert.Equal(t, older.ID, list[0].ID, "saved note moves to the top")
	assert.Equal(t, "meeting notes", list[0].Title)
	assert.False(t, list[0].LastModified.Before(list[1].LastModified))
	assert.False(t, ctrl.LastSaved().IsZero())

	stored, err := f.svc.FetchContent(ctx, testUser, older.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TextDocument("agenda"), stored)
}

func TestSaveRejectsWhenNothingToPersist(t *testing.T) {
	f := newFixture(t)
	f.seedNotes(t, 1)

	ctrl := f.controller()
	ctx := context.Background()
	ctrl.Start(ctx)

	ctrl.SetTitle("   ")
	ctrl.Save(ctx)

	assert.Equal(t, 1, f.notifier.errorCount())
}

func TestSaveFailureKeepsListAndClearsState(t *testing.T) {
	f := newFixture(t)
	f.seedNotes(t, 2)

	ctrl := f.controller()
	ctx := context.Background()
	ctrl.Start(ctx)
	before := ctrl.Notes()

	ctrl.SetTitle("doomed")
	f.editor.Edit(domain.TextDocument("unsaved"))
	f.content.setFail(true, false)
	ctrl.Save(ctx)

	assert.Equal(t, 1, f.notifier.errorCount())
	assert.Equal(t, notesession.StateIdle, ctrl.State())

	after := ctrl.Notes()
	require.Len(t, after, len(before))
	for i := range before {
		assert.Equal(t, before[i].ID, after[i].ID)
		assert.Equal(t, before[i].Title, after[i].Title)
	}
}

func TestDeleteRefusesLastNote(t *testing.T) {
	f := newFixture(t)
	f.seedNotes(t, 1)

	ctrl := f.controller()
	ctx := context.Background()
	ctrl.Start(ctx)

	ctrl.Delete(ctx)

	assert.Equal(t, 1, f.notifier.errorCount())
	assert.Len(t, ctrl.Notes(), 1)
}

func TestDeleteSelectsReplacementByPosition(t *testing.T) {
	f := newFixture(t)
	seeded := f.seedNotes(t, 2)
	first, second := seeded[0], seeded[1]

	ctrl := f.controller()
	ctx := context.Background()
	ctrl.Start(ctx)
	require.Equal(t, first.ID, ctrl.CurrentNoteID())

	ctrl.Delete(ctx)

	list := ctrl.Notes()
	require.Len(t, list, 1)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, second.ID, ctrl.CurrentNoteID())

	// The deleted note is gone from cache and store.
	_, ok := f.cache.Content(testUser, first.ID)
	assert.False(t, ok)
	remote, err := f.svc.List(ctx, testUser)
	require.NoError(t, err)
	require.Len(t, remote, 1)
}

func TestDeleteDeclinedConfirmationAbortsSilently(t *testing.T) {
	f := newFixture(t)
	f.seedNotes(t, 2)
	f.confirm = false

	ctrl := f.controller()
	ctx := context.Background()
	ctrl.Start(ctx)

	ctrl.Delete(ctx)

	assert.Equal(t, 0, f.notifier.errorCount())
	assert.Len(t, ctrl.Notes(), 2)
}

func TestCreatePagePrependsAndSelects(t *testing.T) {
	f := newFixture(t)
	f.seedNotes(t, 1)

	ctrl := f.controller()
	ctx := context.Background()
	ctrl.Start(ctx)
	previous := ctrl.CurrentNoteID()

	ctrl.CreatePage(ctx)

	list := ctrl.Notes()
	require.Len(t, list, 2)
	assert.Equal(t, list[0].ID, ctrl.CurrentNoteID())
	assert.NotEqual(t, previous, ctrl.CurrentNoteID())
	assert.True(t, f.editor.Content().IsEmpty())

	// The new note's cache is seeded, so its load never hits the store.
	_, ok := f.cache.Content(testUser, ctrl.CurrentNoteID())
	assert.True(t, ok)
}

func TestDebouncedMetaWriteCoalesces(t *testing.T) {
	f := newFixture(t)
	f.seedNotes(t, 1)

	ctrl := f.controller(notesession.WithDebounceInterval(40 * time.Millisecond))
	ctx := context.Background()
	ctrl.Start(ctx)
	id := ctrl.CurrentNoteID()

	base := f.store.putCount()
	ctrl.SetTitle("d")
	ctrl.SetTitle("dr")
	ctrl.SetTitle("draft")

	time.Sleep(150 * time.Millisecond)

	assert.Equal(t, base+1, f.store.putCount(), "rapid edits coalesce into one write")
	assert.Equal(t, "draft", f.store.lastTitle(id))
}

func TestSaveCancelsPendingDebouncedWrite(t *testing.T) {
	f := newFixture(t)
	f.seedNotes(t, 1)

	ctrl := f.controller(notesession.WithDebounceInterval(60 * time.Millisecond))
	ctx := context.Background()
	ctrl.Start(ctx)

	f.editor.Edit(domain.TextDocument("body"))
	ctrl.SetTitle("final title")
	base := f.store.putCount()
	ctrl.Save(ctx)
	afterSave := f.store.putCount()
	require.Equal(t, base+1, afterSave, "save itself writes metadata once")

	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, afterSave, f.store.putCount(), "no stale debounced write after save")
}

func TestEditWhileBusyIsIgnored(t *testing.T) {
	f := newFixture(t)
	f.seedNotes(t, 1)

	ctrl := f.controller()
	ctx := context.Background()
	ctrl.Start(ctx)
	id := ctrl.CurrentNoteID()

	// Surface disabled: the edit is swallowed before it reaches the cache.
	f.editor.SetEditable(false)
	f.editor.Edit(domain.TextDocument("should not stick"))
	f.editor.SetEditable(true)

	cached, ok := f.cache.Content(testUser, id)
	require.True(t, ok)
	assert.True(t, cached.IsEmpty())
}

// failingNoteStore errors on every operation.
type failingNoteStore struct{}

func (failingNoteStore) ListNotes(context.Context, domain.UserID) ([]domain.NoteMeta, error) {
	return nil, errors.New("document store unavailable")
}

func (failingNoteStore) PutNoteMeta(context.Context, domain.UserID, domain.NoteID, string) (time.Time, error) {
	return time.Time{}, errors.New("document store unavailable")
}

func (failingNoteStore) DeleteNoteMeta(context.Context, domain.UserID, domain.NoteID) error {
	return errors.New("document store unavailable")
}
