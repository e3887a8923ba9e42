package profile

import (
	"context"
	"fmt"
	"strings"

	"github.com/Hotate516/kiga-workspace/internal/domain"
	"github.com/Hotate516/kiga-workspace/internal/observability"
)

// Service reads and updates workspace profiles. The identity itself comes
// from the external sign-in provider; this service only touches the user
// document and the avatar blob.
type Service struct {
	users   domain.UserStore
	avatars domain.AvatarStore
}

func NewService(users domain.UserStore, avatars domain.AvatarStore) *Service {
	return &Service{
		users:   users,
		avatars: avatars,
	}
}

func (s *Service) Get(ctx context.Context, uid domain.UserID) (*domain.User, error) {
	return s.users.GetUser(ctx, uid)
}

// UpdateName sets the display name on the user document.
func (s *Service) UpdateName(ctx context.Context, uid domain.UserID, name string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("name must not be empty")
	}

	if err := s.users.UpdateUser(ctx, &domain.User{UID: uid, Name: name}); err != nil {
		return nil, err
	}
	return s.users.GetUser(ctx, uid)
}

// UpdateAvatar uploads a new profile image, stores its URL on the user
// document and returns the fresh profile.
func (s *Service) UpdateAvatar(ctx context.Context, uid domain.UserID, data []byte, contentType string) (*domain.User, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("avatar image must not be empty")
	}
	if contentType == "" {
		contentType = "image/jpeg"
	}

	log := observability.LoggerFromContext(ctx).With("user_id", uid)

	url, err := s.avatars.UploadAvatar(ctx, uid, data, contentType)
	if err != nil {
		log.Error("avatar upload failed", "error", err)
		return nil, err
	}

	if err := s.users.UpdateUser(ctx, &domain.User{UID: uid, PhotoURL: url}); err != nil {
		log.Error("failed to store avatar url", "error", err)
		return nil, err
	}

	log.Info("avatar updated", "url", url)
	return s.users.GetUser(ctx, uid)
}
