package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Hotate516/kiga-workspace/internal/domain"
)

// Store keeps user documents at users/{uid} and note metadata at
// users/{uid}/kigaNotes/{noteID}. Modification times are assigned server
// side via firestore.ServerTimestamp so list ordering stays trustworthy
// across devices.
type Store struct {
	client *firestore.Client
}

var (
	_ domain.NoteStore = (*Store)(nil)
	_ domain.UserStore = (*Store)(nil)
)

// NewStore creates a Firestore store for the given project
// (KIGA_GCP_PROJECT).
func NewStore(ctx context.Context, projectID string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

// ─────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────

func (s *Store) userDoc(uid domain.UserID) *firestore.DocumentRef {
	return s.client.Collection("users").Doc(string(uid))
}

func (s *Store) notesCol(uid domain.UserID) *firestore.CollectionRef {
	return s.userDoc(uid).Collection("kigaNotes")
}

func (s *Store) noteDoc(uid domain.UserID, id domain.NoteID) *firestore.DocumentRef {
	return s.notesCol(uid).Doc(string(id))
}

// ─────────────────────────────────────────
// Firestore Types
// ─────────────────────────────────────────

type noteDoc struct {
	Title        string    `firestore:"title"`
	LastModified time.Time `firestore:"lastModified"`
}

type userDoc struct {
	Name     string `firestore:"name"`
	Email    string `firestore:"email"`
	PhotoURL string `firestore:"photoURL"`
}

// ─────────────────────────────────────────
// NoteStore implementation
// ─────────────────────────────────────────

func (s *Store) ListNotes(ctx context.Context, uid domain.UserID) ([]domain.NoteMeta, error) {
	q := s.notesCol(uid).OrderBy("lastModified", firestore.Desc)

	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []domain.NoteMeta
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("firestore ListNotes: %w", err)
		}

		var doc noteDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode noteDoc: %w", err)
		}

		out = append(out, domain.NoteMeta{
			ID:           domain.NoteID(snap.Ref.ID),
			Title:        doc.Title,
			LastModified: doc.LastModified,
		})
	}
	return out, nil
}

func (s *Store) PutNoteMeta(ctx context.Context, uid domain.UserID, id domain.NoteID, title string) (time.Time, error) {
	res, err := s.noteDoc(uid, id).Set(ctx, map[string]interface{}{
		"title":        title,
		"lastModified": firestore.ServerTimestamp,
	}, firestore.MergeAll)
	if err != nil {
		return time.Time{}, fmt.Errorf("firestore PutNoteMeta: %w", err)
	}
	return res.UpdateTime, nil
}

func (s *Store) DeleteNoteMeta(ctx context.Context, uid domain.UserID, id domain.NoteID) error {
	_, err := s.noteDoc(uid, id).Delete(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return domain.ErrNoteNotFound
		}
		return fmt.Errorf("firestore DeleteNoteMeta: %w", err)
	}
	return nil
}

// ─────────────────────────────────────────
// UserStore implementation
// ─────────────────────────────────────────

func (s *Store) GetUser(ctx context.Context, uid domain.UserID) (*domain.User, error) {
	snap, err := s.userDoc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("firestore GetUser: %w", err)
	}

	var doc userDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("firestore GetUser decode: %w", err)
	}

	return &domain.User{
		UID:      uid,
		Name:     doc.Name,
		Email:    doc.Email,
		PhotoURL: doc.PhotoURL,
	}, nil
}

func (s *Store) UpdateUser(ctx context.Context, u *domain.User) error {
	fields := map[string]interface{}{}
	if u.Name != "" {
		fields["name"] = u.Name
	}
	if u.Email != "" {
		fields["email"] = u.Email
	}
	if u.PhotoURL != "" {
		fields["photoURL"] = u.PhotoURL
	}
	if len(fields) == 0 {
		return nil
	}

	_, err := s.userDoc(u.UID).Set(ctx, fields, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("firestore UpdateUser: %w", err)
	}
	return nil
}
