// Package gcs stores note content and profile images as objects in a Cloud
// Storage bucket: kigaNotes/{uid}/{noteID}.json for documents and
// userIcons/{uid}/profile.jpg for avatars.
package gcs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"

	"github.com/Hotate516/kiga-workspace/internal/domain"
)

type Store struct {
	bucket *storage.BucketHandle
	name   string
}

var (
	_ domain.ContentStore = (*Store)(nil)
	_ domain.AvatarStore  = (*Store)(nil)
)

// NewStore opens a client against the given bucket (KIGA_GCS_BUCKET).
func NewStore(ctx context.Context, bucket string) (*Store, error) {
	if bucket == "" {
		return nil, fmt.Errorf("bucket is required for GCS store")
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating storage client: %w", err)
	}

	return &Store{bucket: client.Bucket(bucket), name: bucket}, nil
}

func notePath(uid domain.UserID, id domain.NoteID) string {
	return fmt.Sprintf("kigaNotes/%s/%s.json", uid, id)
}

func avatarPath(uid domain.UserID) string {
	return fmt.Sprintf("userIcons/%s/profile.jpg", uid)
}

// ─────────────────────────────────────────
// ContentStore implementation
// ─────────────────────────────────────────

func (s *Store) FetchContent(ctx context.Context, uid domain.UserID, id domain.NoteID) (domain.Document, error) {
	r, err := s.bucket.Object(notePath(uid, id)).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return domain.Document{}, domain.ErrContentNotFound
		}
		return domain.Document{}, fmt.Errorf("gcs FetchContent: %w", err)
	}
	defer r.Close()

	raw, err := io.ReadAll(r)
	if err != nil {
		return domain.Document{}, fmt.Errorf("gcs FetchContent read: %w", err)
	}

	var doc domain.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return domain.Document{}, fmt.Errorf("gcs FetchContent decode: %w", err)
	}
	return doc, nil
}

func (s *Store) SaveContent(ctx context.Context, uid domain.UserID, id domain.NoteID, doc domain.Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("gcs SaveContent encode: %w", err)
	}

	w := s.bucket.Object(notePath(uid, id)).NewWriter(ctx)
	w.ContentType = "application/json"
	if _, err := w.Write(raw); err != nil {
		w.Close()
		return fmt.Errorf("gcs SaveContent write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("gcs SaveContent close: %w", err)
	}
	return nil
}

func (s *Store) DeleteContent(ctx context.Context, uid domain.UserID, id domain.NoteID) error {
	err := s.bucket.Object(notePath(uid, id)).Delete(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return domain.ErrContentNotFound
		}
		return fmt.Errorf("gcs DeleteContent: %w", err)
	}
	return nil
}

// ─────────────────────────────────────────
// AvatarStore implementation
// ─────────────────────────────────────────

func (s *Store) UploadAvatar(ctx context.Context, uid domain.UserID, data []byte, contentType string) (string, error) {
	obj := s.bucket.Object(avatarPath(uid))

	w := obj.NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		w.Close()
		return "", fmt.Errorf("gcs UploadAvatar write: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("gcs UploadAvatar close: %w", err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.name, avatarPath(uid)), nil
}
