package auth

import (
	"context"
	"errors"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// Claims are carried in the access token. VendorID is empty until the user
// has onboarded a vendor and logged in again.
type Claims struct {
	VendorID string `json:"vendor_id,omitempty"`
	jwt.StandardClaims
}

// UserID returns the subject as a uuid, or uuid.Nil when it does not parse.
func (c *Claims) UserID() uuid.UUID {
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return uuid.Nil
	}
	return id
}

// Service defines the interface for authentication-related business logic.
type Service interface {
	Login(ctx context.Context, email, password string) (string, error)
	ParseToken(token string) (*Claims, error)
}

// VendorResolver finds the vendor owned by a user. It returns uuid.Nil when
// the user has no vendor yet.
type VendorResolver interface {
	VendorIDForOwner(ctx context.Context, ownerID uuid.UUID) (uuid.UUID, error)
}
