package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Hotate516/kiga-workspace/internal/domain"
)

// NoteStore is an in-memory implementation of domain.NoteStore.
// It is NOT persistent and is only suitable for development / local mode.
type NoteStore struct {
	mu    sync.RWMutex
	notes map[domain.UserID]map[domain.NoteID]domain.NoteMeta
	now   func() time.Time
}

func NewNoteStore() *NoteStore {
	return &NoteStore{
		notes: make(map[domain.UserID]map[domain.NoteID]domain.NoteMeta),
		now:   time.Now,
	}
}

// SetClock overrides the store-assigned timestamp source, for tests.
func (s *NoteStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *NoteStore) ListNotes(ctx context.Context, uid domain.UserID) ([]domain.NoteMeta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.NoteMeta, 0, len(s.notes[uid]))
	for _, meta := range s.notes[uid] {
		out = append(out, meta)
	}
	domain.SortNotesByModified(out)
	return out, nil
}

func (s *NoteStore) PutNoteMeta(ctx context.Context, uid domain.UserID, id domain.NoteID, title string) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.notes[uid] == nil {
		s.notes[uid] = make(map[domain.NoteID]domain.NoteMeta)
	}
	modified := s.now()
	s.notes[uid][id] = domain.NoteMeta{ID: id, Title: title, LastModified: modified}
	return modified, nil
}

func (s *NoteStore) DeleteNoteMeta(ctx context.Context, uid domain.UserID, id domain.NoteID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.notes[uid][id]; !ok {
		return domain.ErrNoteNotFound
	}
	delete(s.notes[uid], id)
	return nil
}
