package domain

import (
	"bytes"
	"encoding/json"
)

// DocumentNode is one node of the rich-text document tree. The tree is
// opaque to this repository: nodes are carried whole between the cache, the
// stores and the editing surface, and never rewritten. Formatting semantics
// belong to the external editor.
type DocumentNode struct {
	Type    string         `json:"type"`
	Attrs   map[string]any `json:"attrs,omitempty"`
	Marks   []Mark         `json:"marks,omitempty"`
	Text    string         `json:"text,omitempty"`
	Content []DocumentNode `json:"content,omitempty"`
}

// Mark is an inline formatting annotation on a text node.
type Mark struct {
	Type  string         `json:"type"`
	Attrs map[string]any `json:"attrs,omitempty"`
}

// Document is the root of a document tree. An empty note is represented by
// EmptyDocument, never by a zero or missing value.
type Document = DocumentNode

// EmptyDocument returns the canonical empty document: a doc node holding a
// single empty paragraph.
func EmptyDocument() Document {
	return Document{
		Type:    "doc",
		Content: []DocumentNode{{Type: "paragraph"}},
	}
}

// IsEmpty reports whether d equals the canonical empty document.
func (d Document) IsEmpty() bool {
	a, err := json.Marshal(d)
	if err != nil {
		return false
	}
	b, _ := json.Marshal(EmptyDocument())
	return bytes.Equal(a, b)
}

// TextDocument builds a plain document out of paragraph lines. It exists for
// clients that author content without a rich-text surface (the CLI session);
// the result is an ordinary document tree like any other.
func TextDocument(lines ...string) Document {
	if len(lines) == 0 {
		return EmptyDocument()
	}
	paras := make([]DocumentNode, 0, len(lines))
	for _, line := range lines {
		p := DocumentNode{Type: "paragraph"}
		if line != "" {
			p.Content = []DocumentNode{{Type: "text", Text: line}}
		}
		paras = append(paras, p)
	}
	return Document{Type: "doc", Content: paras}
}
