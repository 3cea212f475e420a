package ports

import (
	"time"

	"github.com/google/uuid"

	"github.com/99minutos/backoffice-api/internal/core/domain"
)

// TokenService issues and verifies signed identity tokens.
type TokenService interface {
	Issue(userID, roleID uuid.UUID, roleName string, ttl time.Duration) (string, error)
	IssueFor(user *domain.User) (token string, expiresAt time.Time, err error)
	Decode(token string) (*domain.Claims, error)
	Validate(token string) bool
}

// PasswordHasher produces and checks salted password digests.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}
