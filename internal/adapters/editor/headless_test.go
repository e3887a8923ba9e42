package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Hotate516/kiga-workspace/internal/domain"
)

func TestNewHeadlessStartsEmptyAndEditable(t *testing.T) {
	e := NewHeadless()

	assert.True(t, e.IsEditable())
	assert.True(t, e.IsEmpty())
	assert.Equal(t, domain.EmptyDocument(), e.Content())
}

func TestEditFiresUpdateCallback(t *testing.T) {
	e := NewHeadless()
	var updates int
	e.OnUpdate(func() { updates++ })

	e.Edit(domain.TextDocument("hello"))

	assert.Equal(t, 1, updates)
	assert.Equal(t, domain.TextDocument("hello"), e.Content())
	assert.False(t, e.IsEmpty())
}

func TestEditAgainstDisabledSurfaceIsDropped(t *testing.T) {
	e := NewHeadless()
	var updates int
	e.OnUpdate(func() { updates++ })

	e.SetEditable(false)
	e.Edit(domain.TextDocument("ignored"))

	assert.Equal(t, 0, updates)
	assert.True(t, e.IsEmpty())
}

func TestSetContentNeverFiresCallback(t *testing.T) {
	e := NewHeadless()
	var updates int
	e.OnUpdate(func() { updates++ })

	e.SetContent(domain.TextDocument("loaded"), false)

	assert.Equal(t, 0, updates)
	assert.Equal(t, domain.TextDocument("loaded"), e.Content())
}

func TestSetContentWorksWhileDisabled(t *testing.T) {
	e := NewHeadless()
	e.SetEditable(false)

	e.SetContent(domain.TextDocument("loaded"), true)

	assert.Equal(t, domain.TextDocument("loaded"), e.Content())
}

func TestCallbackCanReadEditorState(t *testing.T) {
	e := NewHeadless()
	var seen domain.Document
	e.OnUpdate(func() { seen = e.Content() })

	e.Edit(domain.TextDocument("live"))

	assert.Equal(t, domain.TextDocument("live"), seen)
}

func TestFocus(t *testing.T) {
	e := NewHeadless()
	assert.False(t, e.IsFocused())
	e.Focus()
	assert.True(t, e.IsFocused())
}
