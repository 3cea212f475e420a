package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/99minutos/backoffice-api/internal/core/domain"
)

type CreateMerchantInput struct {
	Name        string
	Description *string
}

type CreateSiteInput struct {
	Name               string
	URL                string
	CallbackURL        string
	RedirectSuccessURL string
	RedirectFailURL    string
	AllowedIPs         []string
}

// SiteRegistration is returned once when a site is created. It is the only
// place the plaintext secret key is exposed.
type SiteRegistration struct {
	Site      *domain.Site
	SecretKey string
}

type MerchantService interface {
	Create(ctx context.Context, actor *domain.Claims, in CreateMerchantInput) (*domain.Merchant, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Merchant, error)
	List(ctx context.Context, limit, offset int) ([]domain.Merchant, error)
	ChangeStatus(ctx context.Context, actor *domain.Claims, id uuid.UUID, status domain.MerchantStatus) (*domain.Merchant, error)
	CreateSite(ctx context.Context, actor *domain.Claims, merchantID uuid.UUID, in CreateSiteInput) (*SiteRegistration, error)
}
