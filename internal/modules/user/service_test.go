package user

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type memoryRepo struct{ users map[uuid.UUID]*User }

func (m *memoryRepo) CreateUser(_ context.Context, u *User) error {
	m.users[u.ID] = u
	return nil
}

func (m *memoryRepo) GetUserByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *memoryRepo) GetUserByID(_ context.Context, id uuid.UUID) (*User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func TestRegisterUser(t *testing.T) {
	repo := &memoryRepo{users: map[uuid.UUID]*User{}}
	svc := NewService(repo, bcrypt.MinCost)
	ctx := context.Background()

	u, err := svc.RegisterUser(ctx, RegisterRequest{Email: " Owner@Example.com ", Password: "long-enough", FirstName: "Ada"})
	require.NoError(t, err)
	require.Equal(t, "owner@example.com", u.Email)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("long-enough")))

	got, err := svc.GetUser(ctx, u.ID.String())
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	_, err = svc.RegisterUser(ctx, RegisterRequest{Email: "owner@example.com", Password: "long-enough"})
	require.ErrorIs(t, err, ErrEmailTaken)
	_, err = svc.RegisterUser(ctx, RegisterRequest{Email: "", Password: "long-enough"})
	require.ErrorIs(t, err, ErrEmailRequired)
	_, err = svc.RegisterUser(ctx, RegisterRequest{Email: "new@example.com", Password: "short"})
	require.ErrorIs(t, err, ErrPasswordTooShort)

	_, err = svc.GetUser(ctx, "nope")
	require.ErrorIs(t, err, ErrUserNotFound)
}
