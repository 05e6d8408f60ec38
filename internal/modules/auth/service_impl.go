package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/georgemunganga/vendorhub-backend/internal/modules/user"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type service struct {
	userRepo user.Repository
	vendors  VendorResolver
	key      []byte
	ttl      time.Duration
	now      func() time.Time
}

// NewService creates a new auth service signing HS256 tokens with secret.
func NewService(userRepo user.Repository, vendors VendorResolver, secret string, ttl time.Duration) Service {
	return &service{
		userRepo: userRepo,
		vendors:  vendors,
		key:      []byte(secret),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *service) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, user.ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	vendorID, err := s.vendors.VendorIDForOwner(ctx, u.ID)
	if err != nil {
		return "", fmt.Errorf("failed to resolve vendor: %w", err)
	}

	now := s.now()
	claims := &Claims{
		StandardClaims: jwt.StandardClaims{
			Subject:   u.ID.String(),
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(s.ttl).Unix(),
		},
	}
	if vendorID != uuid.Nil {
		claims.VendorID = vendorID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.key)
}

func (s *service) ParseToken(raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.key, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
