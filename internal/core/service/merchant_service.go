package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/99minutos/backoffice-api/internal/core/domain"
	"github.com/99minutos/backoffice-api/internal/core/ports"
)

const (
	publicKeyPrefix = "pk_"
	secretKeyPrefix = "sk_"
	publicKeyBytes  = 16
	secretKeyBytes  = 32
)

type merchantService struct {
	merchants ports.MerchantRepository
	audit     ports.Auditor
	log       zerolog.Logger
}

// NewMerchantService returns a MerchantService implementation.
func NewMerchantService(merchants ports.MerchantRepository, audit ports.Auditor, log zerolog.Logger) ports.MerchantService {
	if audit == nil {
		audit = NopAuditor{}
	}
	return &merchantService{merchants: merchants, audit: audit, log: log}
}

func (s *merchantService) Create(ctx context.Context, actor *domain.Claims, in ports.CreateMerchantInput) (*domain.Merchant, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}

	exists, err := s.merchants.ExistsByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("check merchant name: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("merchant '%s': %w", name, domain.ErrMerchantExists)
	}

	m := domain.NewMerchant(name, in.Description)
	if err := s.merchants.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("create merchant: %w", err)
	}

	s.record(actor, domain.AuditMerchantCreate, m.ID, "")
	s.log.Info().Str("merchant_id", m.ID.String()).Str("name", m.Name).Msg("merchant created")
	return m, nil
}

func (s *merchantService) Get(ctx context.Context, id uuid.UUID) (*domain.Merchant, error) {
	return s.merchants.FindByID(ctx, id)
}

func (s *merchantService) List(ctx context.Context, limit, offset int) ([]domain.Merchant, error) {
	limit, offset, err := normalizePage(limit, offset)
	if err != nil {
		return nil, err
	}
	merchants, err := s.merchants.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list merchants: %w", err)
	}
	return merchants, nil
}

func (s *merchantService) ChangeStatus(ctx context.Context, actor *domain.Claims, id uuid.UUID, status domain.MerchantStatus) (*domain.Merchant, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown merchant status %q", domain.ErrValidation, status)
	}

	m, err := s.merchants.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.Status == status {
		return m, nil
	}
	if !m.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s to %s", domain.ErrInvalidTransition, m.Status, status)
	}

	if err := s.merchants.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("update merchant status: %w", err)
	}

	from := m.Status
	m.Status = status
	m.UpdatedAt = time.Now().UTC()

	s.record(actor, domain.AuditMerchantStatus, m.ID, string(from)+"->"+string(status))
	return m, nil
}

// CreateSite registers a site under an existing merchant and issues its
// credentials.
func (s *merchantService) CreateSite(ctx context.Context, actor *domain.Claims, merchantID uuid.UUID, in ports.CreateSiteInput) (*ports.SiteRegistration, error) {
	m, err := s.merchants.FindByID(ctx, merchantID)
	if err != nil {
		return nil, err
	}
	if m.Status == domain.MerchantInactive {
		return nil, fmt.Errorf("%w: merchant is inactive", domain.ErrValidation)
	}

	publicKey, err := generateKey(publicKeyPrefix, publicKeyBytes)
	if err != nil {
		return nil, err
	}
	secretKey, err := generateKey(secretKeyPrefix, secretKeyBytes)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	site := &domain.Site{
		ID:                 uuid.New(),
		MerchantID:         m.ID,
		Name:               strings.TrimSpace(in.Name),
		URL:                in.URL,
		CallbackURL:        in.CallbackURL,
		RedirectSuccessURL: in.RedirectSuccessURL,
		RedirectFailURL:    in.RedirectFailURL,
		Status:             domain.SiteActive,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	allowed := in.AllowedIPs
	if allowed == nil {
		allowed = []string{}
	}
	creds := &domain.SiteCredentials{
		ID:         uuid.New(),
		SiteID:     site.ID,
		PublicKey:  publicKey,
		SecretKey:  secretKey,
		AllowedIPs: allowed,
		IsActive:   true,
		CreatedAt:  now,
	}

	if err := s.merchants.CreateSite(ctx, site, creds); err != nil {
		return nil, fmt.Errorf("create site: %w", err)
	}
	site.Credentials = creds

	s.record(actor, domain.AuditSiteCreated, site.ID, "merchant="+m.ID.String())
	s.log.Info().
		Str("merchant_id", m.ID.String()).
		Str("site_id", site.ID.String()).
		Str("public_key", publicKey).
		Msg("site created")

	return &ports.SiteRegistration{Site: site, SecretKey: secretKey}, nil
}

func (s *merchantService) record(actor *domain.Claims, action domain.AuditAction, target uuid.UUID, detail string) {
	s.audit.Record(domain.AuditEvent{
		Action:   action,
		ActorID:  actorID(actor),
		TargetID: target.String(),
		Outcome:  domain.OutcomeSuccess,
		Detail:   detail,
		At:       time.Now().UTC(),
	})
}

func generateKey(prefix string, n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate key: %w", err)
	}
	return prefix + hex.EncodeToString(buf), nil
}
