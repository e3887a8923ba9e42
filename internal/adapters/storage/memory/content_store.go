package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/Hotate516/kiga-workspace/internal/domain"
)

type contentKey struct {
	uid domain.UserID
	id  domain.NoteID
}

// ContentStore is an in-memory implementation of domain.ContentStore.
// Documents are held serialized, matching the blob store it stands in for.
type ContentStore struct {
	mu    sync.RWMutex
	blobs map[contentKey][]byte
}

func NewContentStore() *ContentStore {
	return &ContentStore{
		blobs: make(map[contentKey][]byte),
	}
}

func (s *ContentStore) FetchContent(ctx context.Context, uid domain.UserID, id domain.NoteID) (domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, ok := s.blobs[contentKey{uid, id}]
	if !ok {
		return domain.Document{}, domain.ErrContentNotFound
	}

	var doc domain.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return domain.Document{}, fmt.Errorf("decode content for note %s: %w", id, err)
	}
	return doc, nil
}

func (s *ContentStore) SaveContent(ctx context.Context, uid domain.UserID, id domain.NoteID, doc domain.Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode content for note %s: %w", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[contentKey{uid, id}] = raw
	return nil
}

func (s *ContentStore) DeleteContent(ctx context.Context, uid domain.UserID, id domain.NoteID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := contentKey{uid, id}
	if _, ok := s.blobs[key]; !ok {
		return domain.ErrContentNotFound
	}
	delete(s.blobs, key)
	return nil
}
