package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyDocumentIsEmpty(t *testing.T) {
	assert.True(t, EmptyDocument().IsEmpty())
	assert.False(t, TextDocument("hello").IsEmpty())
}

func TestEmptyDocumentCanonicalJSON(t *testing.T) {
	raw, err := json.Marshal(EmptyDocument())
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"doc","content":[{"type":"paragraph"}]}`, string(raw))
}

func TestDocumentRoundTripPreservesStructure(t *testing.T) {
	doc := Document{
		Type: "doc",
		Content: []DocumentNode{
			{Type: "heading", Attrs: map[string]any{"level": float64(2)}, Content: []DocumentNode{
				{Type: "text", Text: "Title"},
			}},
			{Type: "paragraph", Content: []DocumentNode{
				{Type: "text", Text: "bold bit", Marks: []Mark{{Type: "bold"}}},
				{Type: "text", Text: " and a link", Marks: []Mark{
					{Type: "link", Attrs: map[string]any{"href": "https://example.com"}},
				}},
			}},
			{Type: "bulletList", Content: []DocumentNode{
				{Type: "listItem", Content: []DocumentNode{
					{Type: "paragraph", Content: []DocumentNode{{Type: "text", Text: "item"}}},
				}},
			}},
		},
	}

	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	var back Document
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, doc, back)
}

func TestTextDocument(t *testing.T) {
	assert.True(t, TextDocument().IsEmpty())

	doc := TextDocument("first", "", "third")
	require.Len(t, doc.Content, 3)
	assert.Equal(t, "first", doc.Content[0].Content[0].Text)
	assert.Empty(t, doc.Content[1].Content)
	assert.Equal(t, "third", doc.Content[2].Content[0].Text)
}

func TestSortNotesByModified(t *testing.T) {
	notes := []NoteMeta{
		{ID: "old", LastModified: mustTime(t, "2024-01-01T00:00:00Z")},
		{ID: "new", LastModified: mustTime(t, "2024-06-01T00:00:00Z")},
		{ID: "mid", LastModified: mustTime(t, "2024-03-01T00:00:00Z")},
	}
	SortNotesByModified(notes)

	assert.Equal(t, NoteID("new"), notes[0].ID)
	assert.Equal(t, NoteID("mid"), notes[1].ID)
	assert.Equal(t, NoteID("old"), notes[2].ID)
}

func mustTime(t *testing.T, s string) Timestamp {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return ts
}
