package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/99minutos/backoffice-api/internal/core/domain"
)

// MerchantRepository defines persistence for merchants, their sites and
// site credentials.
type MerchantRepository interface {
	Create(ctx context.Context, m *domain.Merchant) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Merchant, error)
	List(ctx context.Context, limit, offset int) ([]domain.Merchant, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.MerchantStatus) error
	// CreateSite stores the site and its credentials atomically.
	CreateSite(ctx context.Context, site *domain.Site, creds *domain.SiteCredentials) error
}
