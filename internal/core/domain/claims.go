package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Claims is the identity carried by a verified token for the lifetime of a
// single request.
type Claims struct {
	UserID    uuid.UUID `json:"user_id"`
	RoleID    uuid.UUID `json:"role_id"`
	RoleName  string    `json:"role_name"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsExpiredAt reports whether the claims are no longer valid at now.
// The boundary is inclusive: a token expiring exactly at now is expired.
func (c Claims) IsExpiredAt(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

func (c Claims) IsExpired() bool {
	return c.IsExpiredAt(time.Now())
}

func (c Claims) RoleKind() RoleKind {
	return RoleKindFromID(c.RoleID)
}

type claimsKey struct{}

// ContextWithClaims returns a copy of ctx carrying c.
func ContextWithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, c)
}

// ClaimsFromContext returns the claims attached by the auth middleware.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*Claims)
	return c, ok && c != nil
}
