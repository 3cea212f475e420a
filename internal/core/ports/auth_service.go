package ports

import (
	"context"
	"time"

	"github.com/99minutos/backoffice-api/internal/core/domain"
)

// LoginResult is returned after a successful login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

type AuthService interface {
	Login(ctx context.Context, login, password string) (*LoginResult, error)
}

// LoginGuard tracks failed login attempts per login identifier.
type LoginGuard interface {
	Locked(ctx context.Context, login string) (bool, error)
	RegisterFailure(ctx context.Context, login string) (int64, error)
	Reset(ctx context.Context, login string) error
}
