package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/99minutos/backoffice-api/internal/core/domain"
	"github.com/99minutos/backoffice-api/internal/core/ports"
)

const selectMerchant = `SELECT id, name, description, status, created_at, updated_at FROM merchant`

type MerchantRepository struct {
	db *pgxpool.Pool
}

func NewMerchantRepository(db *pgxpool.Pool) ports.MerchantRepository {
	return &MerchantRepository{db: db}
}

func (r *MerchantRepository) Create(ctx context.Context, m *domain.Merchant) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO merchant (id, name, description, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		m.ID, m.Name, m.Description, string(m.Status), m.CreatedAt, m.UpdatedAt)
	if err != nil {
		if _, ok := constraintViolation(err, codeUniqueViolation); ok {
			return domain.ErrMerchantExists
		}
		return fmt.Errorf("insert merchant: %w", err)
	}
	return nil
}

// FindByID loads a merchant together with its sites and their credentials.
func (r *MerchantRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Merchant, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	m, err := scanMerchant(r.db.QueryRow(ctx, selectMerchant+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMerchantNotFound
		}
		return nil, fmt.Errorf("find merchant: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT s.id, s.merchant_id, s.name, s.url, s.callback_url, s.redirect_success_url,
		       s.redirect_fail_url, s.status, s.created_at, s.updated_at,
		       c.id, c.public_key, c.allowed_ips, c.is_active, c.created_at
		FROM site s
		LEFT JOIN site_credentials c ON c.site_id = s.id
		WHERE s.merchant_id = $1
		ORDER BY s.created_at`, id)
	if err != nil {
		return nil, fmt.Errorf("find merchant sites: %w", err)
	}
	sites, err := pgx.CollectRows(rows, scanSite)
	if err != nil {
		return nil, fmt.Errorf("find merchant sites: %w", err)
	}
	m.Sites = sites
	return m, nil
}

// List returns merchants newest first, without their sites.
func (r *MerchantRepository) List(ctx context.Context, limit, offset int) ([]domain.Merchant, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.db.Query(ctx, selectMerchant+` ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list merchants: %w", err)
	}
	merchants, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Merchant, error) {
		m, err := scanMerchant(row)
		if err != nil {
			return domain.Merchant{}, err
		}
		return *m, nil
	})
	if err != nil {
		return nil, fmt.Errorf("list merchants: %w", err)
	}
	return merchants, nil
}

func (r *MerchantRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var ok bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM merchant WHERE lower(name) = lower($1))`, name).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("check merchant: %w", err)
	}
	return ok, nil
}

func (r *MerchantRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.MerchantStatus) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tag, err := r.db.Exec(ctx, `UPDATE merchant SET status = $2, updated_at = now() WHERE id = $1`, id, string(status))
	if err != nil {
		return fmt.Errorf("update merchant status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMerchantNotFound
	}
	return nil
}

func (r *MerchantRepository) CreateSite(ctx context.Context, site *domain.Site, creds *domain.SiteCredentials) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			INSERT INTO site (id, merchant_id, name, url, callback_url, redirect_success_url,
			                  redirect_fail_url, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			site.ID, site.MerchantID, site.Name, site.URL, site.CallbackURL, site.RedirectSuccessURL,
			site.RedirectFailURL, string(site.Status), site.CreatedAt, site.UpdatedAt); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO site_credentials (id, site_id, public_key, secret_key, allowed_ips, is_active, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			creds.ID, creds.SiteID, creds.PublicKey, creds.SecretKey, creds.AllowedIPs, creds.IsActive, creds.CreatedAt)
		return err
	})
	if err != nil {
		if _, ok := constraintViolation(err, codeUniqueViolation); ok {
			return domain.ErrSiteExists
		}
		if _, ok := constraintViolation(err, codeForeignKeyViolation); ok {
			return domain.ErrMerchantNotFound
		}
		return fmt.Errorf("insert site: %w", err)
	}
	return nil
}

func scanMerchant(row pgx.Row) (*domain.Merchant, error) {
	var (
		m      domain.Merchant
		status string
	)
	if err := row.Scan(&m.ID, &m.Name, &m.Description, &status, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	m.Status = domain.MerchantStatus(status)
	return &m, nil
}

func scanSite(row pgx.CollectableRow) (domain.Site, error) {
	var (
		s      domain.Site
		status string
		credID *uuid.UUID
		c      domain.SiteCredentials
		pub    *string
		ips    []string
		active *bool
		credAt *time.Time
	)
	err := row.Scan(
		&s.ID, &s.MerchantID, &s.Name, &s.URL, &s.CallbackURL, &s.RedirectSuccessURL,
		&s.RedirectFailURL, &status, &s.CreatedAt, &s.UpdatedAt,
		&credID, &pub, &ips, &active, &credAt,
	)
	if err != nil {
		return domain.Site{}, err
	}
	s.Status = domain.SiteStatus(status)

	if credID != nil {
		c.ID = *credID
		c.SiteID = s.ID
		c.PublicKey = *pub
		c.AllowedIPs = ips
		c.IsActive = *active
		c.CreatedAt = *credAt
		s.Credentials = &c
	}
	return s, nil
}
