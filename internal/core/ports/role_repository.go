package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/99minutos/backoffice-api/internal/core/domain"
)

// RoleRepository defines read access to role records plus the seeding hook
// used at startup.
type RoleRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Role, error)
	FindByName(ctx context.Context, name string) (*domain.Role, error)
	ListAll(ctx context.Context) ([]domain.Role, error)
	// Seed inserts the given roles, leaving existing rows untouched.
	Seed(ctx context.Context, roles []domain.Role) error
}
