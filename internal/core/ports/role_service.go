package ports

import (
	"context"

	"github.com/99minutos/backoffice-api/internal/core/domain"
)

type RoleService interface {
	List(ctx context.Context) ([]domain.Role, error)
	// Reconcile seeds missing roles and fails when stored roles disagree
	// with the known role kinds.
	Reconcile(ctx context.Context) error
}
