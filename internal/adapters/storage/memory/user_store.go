package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/Hotate516/kiga-workspace/internal/domain"
)

// UserStore is an in-memory implementation of domain.UserStore and
// domain.AvatarStore.
type UserStore struct {
	mu      sync.RWMutex
	users   map[domain.UserID]domain.User
	avatars map[domain.UserID][]byte
}

func NewUserStore() *UserStore {
	return &UserStore{
		users:   make(map[domain.UserID]domain.User),
		avatars: make(map[domain.UserID][]byte),
	}
}

// Seed inserts a user directly, for wiring local mode and tests.
func (s *UserStore) Seed(u domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.UID] = u
}

func (s *UserStore) GetUser(ctx context.Context, uid domain.UserID) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[uid]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (s *UserStore) UpdateUser(ctx context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.users[u.UID]
	if !ok {
		return domain.ErrUserNotFound
	}
	if u.Name != "" {
		cur.Name = u.Name
	}
	if u.Email != "" {
		cur.Email = u.Email
	}
	if u.PhotoURL != "" {
		cur.PhotoURL = u.PhotoURL
	}
	s.users[u.UID] = cur
	return nil
}

func (s *UserStore) UploadAvatar(ctx context.Context, uid domain.UserID, data []byte, contentType string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.avatars[uid] = append([]byte(nil), data...)
	return fmt.Sprintf("memory://userIcons/%s/profile.jpg", uid), nil
}
