package profile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hotate516/kiga-workspace/internal/adapters/storage/memory"
	"github.com/Hotate516/kiga-workspace/internal/domain"
)

func newTestService(t *testing.T) (*Service, *memory.UserStore) {
	t.Helper()
	users := memory.NewUserStore()
	users.Seed(domain.User{UID: "uid-1", Name: "Hotate", Email: "hotate@example.com"})
	return NewService(users, users), users
}

func TestGet(t *testing.T) {
	svc, _ := newTestService(t)

	u, err := svc.Get(context.Background(), "uid-1")
	require.NoError(t, err)
	assert.Equal(t, "Hotate", u.Name)
	assert.Equal(t, "hotate@example.com", u.Email)
}

func TestGetUnknownUser(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Get(context.Background(), "nobody")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUpdateName(t *testing.T) {
	svc, _ := newTestService(t)

	u, err := svc.UpdateName(context.Background(), "uid-1", "  New Name  ")
	require.NoError(t, err)
	assert.Equal(t, "New Name", u.Name)
	// Untouched fields survive the update.
	assert.Equal(t, "hotate@example.com", u.Email)
}

func TestUpdateNameRejectsBlank(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.UpdateName(context.Background(), "uid-1", "   ")
	assert.Error(t, err)
}

func TestUpdateNameUnknownUser(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.UpdateName(context.Background(), "nobody", "Someone")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUpdateAvatar(t *testing.T) {
	svc, _ := newTestService(t)

	u, err := svc.UpdateAvatar(context.Background(), "uid-1", []byte("jpeg-bytes"), "image/jpeg")
	require.NoError(t, err)
	assert.NotEmpty(t, u.PhotoURL)
	assert.Equal(t, "Hotate", u.Name)
}

func TestUpdateAvatarRejectsEmptyImage(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.UpdateAvatar(context.Background(), "uid-1", nil, "image/jpeg")
	assert.Error(t, err)
}
