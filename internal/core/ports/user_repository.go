package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/99minutos/backoffice-api/internal/core/domain"
)

// UserRepository defines persistence for backoffice users.
// Lookups return domain.ErrUserNotFound when no row matches.
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]domain.User, error)
	Search(ctx context.Context, query string, limit int) ([]domain.User, error)
	Count(ctx context.Context) (int64, error)
}
