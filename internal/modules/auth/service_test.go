package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/georgemunganga/vendorhub-backend/internal/modules/user"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type userStub struct{ users map[string]*user.User }

func (s *userStub) CreateUser(_ context.Context, u *user.User) error {
	s.users[u.Email] = u
	return nil
}

func (s *userStub) GetUserByEmail(_ context.Context, email string) (*user.User, error) {
	u, ok := s.users[email]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return u, nil
}

func (s *userStub) GetUserByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, user.ErrUserNotFound
}

type vendorStub map[uuid.UUID]uuid.UUID

func (v vendorStub) VendorIDForOwner(_ context.Context, ownerID uuid.UUID) (uuid.UUID, error) {
	return v[ownerID], nil
}

func newTestService(t *testing.T) (Service, *user.User, uuid.UUID) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	u := &user.User{ID: uuid.New(), Email: "owner@example.com", PasswordHash: string(hash)}
	vendorID := uuid.New()
	svc := NewService(
		&userStub{users: map[string]*user.User{u.Email: u}},
		vendorStub{u.ID: vendorID},
		"test-secret",
		time.Hour,
	)
	return svc, u, vendorID
}

func TestLogin(t *testing.T) {
	svc, u, vendorID := newTestService(t)

	token, err := svc.Login(context.Background(), u.Email, "s3cret-pass")
	require.NoError(t, err)

	claims, err := svc.ParseToken(token)
	require.NoError(t, err)
	require.Equal(t, u.ID, claims.UserID())
	require.Equal(t, vendorID.String(), claims.VendorID)

	_, err = svc.Login(context.Background(), u.Email, "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(context.Background(), "nobody@example.com", "s3cret-pass")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestParseTokenRejects(t *testing.T) {
	svc, u, _ := newTestService(t)

	_, err := svc.ParseToken("garbage")
	require.ErrorIs(t, err, ErrInvalidToken)

	other := NewService(&userStub{users: map[string]*user.User{u.Email: u}}, vendorStub{}, "other-secret", time.Hour)
	token, err := other.Login(context.Background(), u.Email, "s3cret-pass")
	require.NoError(t, err)
	_, err = svc.ParseToken(token)
	require.ErrorIs(t, err, ErrInvalidToken)

	expired := svc.(*service)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err = expired.Login(context.Background(), u.Email, "s3cret-pass")
	require.NoError(t, err)
	_, err = svc.ParseToken(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestMiddleware(t *testing.T) {
	svc, u, vendorID := newTestService(t)
	token, err := svc.Login(context.Background(), u.Email, "s3cret-pass")
	require.NoError(t, err)

	var seenVendor, seenUser uuid.UUID
	h := Middleware(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenVendor = VendorIDFromContext(r.Context())
		seenUser = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, vendorID, seenVendor)
	require.Equal(t, u.ID, seenUser)

	for _, header := range []string{"", "Bearer ", "Basic abc", "Bearer nope"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code, header)
	}
}

func TestContextWithoutClaims(t *testing.T) {
	require.Equal(t, uuid.Nil, VendorIDFromContext(context.Background()))
	require.Equal(t, uuid.Nil, UserIDFromContext(context.Background()))
	ctx := WithClaims(context.Background(), &Claims{VendorID: "not-a-uuid"})
	require.Equal(t, uuid.Nil, VendorIDFromContext(ctx))
}
