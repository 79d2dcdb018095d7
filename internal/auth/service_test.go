package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/washtrack/washtrack/internal/shared"
)

type fakeRepo struct {
	users    map[string]*User
	sessions map[string]int64
}

func (r *fakeRepo) FindByUsername(ctx context.Context, username string) (*User, error) {
	if u, ok := r.users[username]; ok {
		return u, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeRepo) CreateSession(ctx context.Context, id string, userID int64, expiresAt time.Time, ip, ua string) error {
	if r.sessions == nil {
		r.sessions = make(map[string]int64)
	}
	r.sessions[id] = userID
	return nil
}

func (r *fakeRepo) DeleteSession(ctx context.Context, id string) error {
	delete(r.sessions, id)
	return nil
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestAuthenticate(t *testing.T) {
	repo := &fakeRepo{users: map[string]*User{
		"admin": {ID: 1, Username: "admin", PasswordHash: hashOf(t, "secret-pass"), IsActive: true},
		"gone":  {ID: 2, Username: "gone", PasswordHash: hashOf(t, "secret-pass"), IsActive: false},
	}}
	svc := NewService(repo)
	ctx := context.Background()

	user, err := svc.Authenticate(ctx, "admin", "secret-pass")
	require.NoError(t, err)
	require.Equal(t, int64(1), user.ID)

	_, err = svc.Authenticate(ctx, "admin", "wrong-pass")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "gone", "secret-pass")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody", "secret-pass")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}
