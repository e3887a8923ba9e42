package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hotate516/kiga-workspace/internal/domain"
)

const (
	uid  = domain.UserID("uid-1")
	note = domain.NoteID("note-1")
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestMissesAreNotErrors(t *testing.T) {
	c := openTestCache(t)

	_, ok := c.Title(uid, note)
	assert.False(t, ok)
	_, ok = c.Content(uid, note)
	assert.False(t, ok)
	_, ok = c.LastOpened(uid)
	assert.False(t, ok)
}

func TestTitleRoundTrip(t *testing.T) {
	c := openTestCache(t)

	c.SetTitle(uid, note, "groceries")
	got, ok := c.Title(uid, note)
	require.True(t, ok)
	assert.Equal(t, "groceries", got)

	c.SetTitle(uid, note, "errands")
	got, _ = c.Title(uid, note)
	assert.Equal(t, "errands", got)
}

func TestContentRoundTrip(t *testing.T) {
	c := openTestCache(t)

	doc := domain.Document{
		Type: "doc",
		Content: []domain.DocumentNode{
			{Type: "heading", Attrs: map[string]any{"level": float64(1)}, Content: []domain.DocumentNode{
				{Type: "text", Text: "hello"},
			}},
			{Type: "paragraph", Content: []domain.DocumentNode{
				{Type: "text", Text: "world", Marks: []domain.Mark{{Type: "italic"}}},
			}},
		},
	}
	c.SetContent(uid, note, doc)

	got, ok := c.Content(uid, note)
	require.True(t, ok)
	assert.Equal(t, doc, got)
}

func TestTitleAndContentShareOneRow(t *testing.T) {
	c := openTestCache(t)

	c.SetTitle(uid, note, "t")
	c.SetContent(uid, note, domain.TextDocument("body"))

	title, ok := c.Title(uid, note)
	require.True(t, ok)
	assert.Equal(t, "t", title)
	content, ok := c.Content(uid, note)
	require.True(t, ok)
	assert.Equal(t, domain.TextDocument("body"), content)
}

func TestRemoveClearsBothFields(t *testing.T) {
	c := openTestCache(t)

	c.SetTitle(uid, note, "t")
	c.SetContent(uid, note, domain.TextDocument("body"))
	c.Remove(uid, note)

	_, ok := c.Title(uid, note)
	assert.False(t, ok)
	_, ok = c.Content(uid, note)
	assert.False(t, ok)
}

func TestLastOpenedPointer(t *testing.T) {
	c := openTestCache(t)

	c.SetLastOpened(uid, note)
	got, ok := c.LastOpened(uid)
	require.True(t, ok)
	assert.Equal(t, note, got)

	c.SetLastOpened(uid, "note-2")
	got, _ = c.LastOpened(uid)
	assert.Equal(t, domain.NoteID("note-2"), got)

	// Pointers are per user.
	_, ok = c.LastOpened("someone-else")
	assert.False(t, ok)
}

func TestEntriesAreScopedByUser(t *testing.T) {
	c := openTestCache(t)

	c.SetTitle("alice", note, "alice's note")
	c.SetTitle("bob", note, "bob's note")

	got, _ := c.Title("alice", note)
	assert.Equal(t, "alice's note", got)
	got, _ = c.Title("bob", note)
	assert.Equal(t, "bob's note", got)
}

func TestSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")

	c, err := Open(path)
	require.NoError(t, err)
	c.SetTitle(uid, note, "persisted")
	c.SetLastOpened(uid, note)
	require.NoError(t, c.Close())

	c, err = Open(path)
	require.NoError(t, err)
	defer c.Close()

	title, ok := c.Title(uid, note)
	require.True(t, ok)
	assert.Equal(t, "persisted", title)
	last, ok := c.LastOpened(uid)
	require.True(t, ok)
	assert.Equal(t, note, last)
}
