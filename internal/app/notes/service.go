package notes

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Hotate516/kiga-workspace/internal/domain"
	"github.com/Hotate516/kiga-workspace/internal/observability"
)

// Service is the remote note store façade: metadata lives in the document
// store, content in the blob store, and this service keeps the two moves of
// every operation in the right order.
type Service struct {
	meta    domain.NoteStore
	content domain.ContentStore
	events  domain.EventSink // optional
	now     func() time.Time
}

func NewService(meta domain.NoteStore, content domain.ContentStore) *Service {
	return &Service{
		meta:    meta,
		content: content,
		now:     time.Now,
	}
}

// WithEvents attaches a sink that receives a NoteEvent after every
// successful create, save and delete.
func (s *Service) WithEvents(sink domain.EventSink) *Service {
	s.events = sink
	return s
}

// List returns the user's notes, most recently modified first.
func (s *Service) List(ctx context.Context, uid domain.UserID) ([]domain.NoteMeta, error) {
	return s.meta.ListNotes(ctx, uid)
}

// FetchContent loads a note's document tree. A note whose content was never
// written yields the canonical empty document, not an error.
func (s *Service) FetchContent(ctx context.Context, uid domain.UserID, id domain.NoteID) (domain.Document, error) {
	doc, err := s.content.FetchContent(ctx, uid, id)
	if err != nil {
		if errors.Is(err, domain.ErrContentNotFound) {
			observability.LoggerFromContext(ctx).Warn("note content missing, serving empty document",
				"user_id", uid, "note_id", id)
			return domain.EmptyDocument(), nil
		}
		return domain.Document{}, err
	}
	return doc, nil
}

// Create makes a new note with the default title and empty content and
// returns its metadata.
func (s *Service) Create(ctx context.Context, uid domain.UserID) (*domain.NoteMeta, error) {
	id := domain.NoteID(uuid.NewString())
	title := domain.DefaultNoteTitle

	modified, err := s.meta.PutNoteMeta(ctx, uid, id, title)
	if err != nil {
		return nil, err
	}
	if err := s.content.SaveContent(ctx, uid, id, domain.EmptyDocument()); err != nil {
		return nil, err
	}

	meta := &domain.NoteMeta{ID: id, Title: title, LastModified: modified}
	s.publish(domain.NoteEvent{Type: domain.NoteCreated, UserID: uid, NoteID: id, Title: title, At: modified})
	return meta, nil
}

// Save replaces the note's content whole and upserts its metadata, returning
// the store-assigned modification time.
func (s *Service) Save(ctx context.Context, uid domain.UserID, id domain.NoteID, title string, doc domain.Document) (time.Time, error) {
	if err := s.content.SaveContent(ctx, uid, id, doc); err != nil {
		return time.Time{}, err
	}
	modified, err := s.meta.PutNoteMeta(ctx, uid, id, title)
	if err != nil {
		return time.Time{}, err
	}
	s.publish(domain.NoteEvent{Type: domain.NoteSaved, UserID: uid, NoteID: id, Title: title, At: modified})
	return modified, nil
}

// UpdateMeta writes title and a fresh modification time without touching
// content. This is the debounced path behind typing.
func (s *Service) UpdateMeta(ctx context.Context, uid domain.UserID, id domain.NoteID, title string) error {
	_, err := s.meta.PutNoteMeta(ctx, uid, id, title)
	return err
}

// Delete removes metadata and content. Missing content is tolerated: the
// note may never have been saved.
func (s *Service) Delete(ctx context.Context, uid domain.UserID, id domain.NoteID) error {
	if err := s.meta.DeleteNoteMeta(ctx, uid, id); err != nil {
		return err
	}
	if err := s.content.DeleteContent(ctx, uid, id); err != nil {
		if !errors.Is(err, domain.ErrContentNotFound) {
			return err
		}
		observability.LoggerFromContext(ctx).Warn("note content already absent during delete",
			"user_id", uid, "note_id", id)
	}
	s.publish(domain.NoteEvent{Type: domain.NoteDeleted, UserID: uid, NoteID: id, At: s.now()})
	return nil
}

func (s *Service) publish(ev domain.NoteEvent) {
	if s.events != nil {
		s.events.Publish(ev)
	}
}
