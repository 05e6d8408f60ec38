package auth

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey struct{}

// WithClaims stores the verified claims on ctx.
func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(ctxKey{}).(*Claims)
	return c, ok && c != nil
}

// VendorIDFromContext returns the tenant of the current request, or uuid.Nil.
func VendorIDFromContext(ctx context.Context) uuid.UUID {
	c, ok := ClaimsFromContext(ctx)
	if !ok || c.VendorID == "" {
		return uuid.Nil
	}
	id, err := uuid.Parse(c.VendorID)
	if err != nil {
		return uuid.Nil
	}
	return id
}

// UserIDFromContext returns the authenticated user, or uuid.Nil.
func UserIDFromContext(ctx context.Context) uuid.UUID {
	c, ok := ClaimsFromContext(ctx)
	if !ok {
		return uuid.Nil
	}
	return c.UserID()
}
