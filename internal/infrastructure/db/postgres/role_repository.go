package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/99minutos/backoffice-api/internal/core/domain"
	"github.com/99minutos/backoffice-api/internal/core/ports"
)

const selectRole = `SELECT role_id, role_name, role_description, created_at, updated_at FROM roles`

type RoleRepository struct {
	db *pgxpool.Pool
}

func NewRoleRepository(db *pgxpool.Pool) ports.RoleRepository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Role, error) {
	return r.findOne(ctx, selectRole+` WHERE role_id = $1`, id)
}

func (r *RoleRepository) FindByName(ctx context.Context, name string) (*domain.Role, error) {
	return r.findOne(ctx, selectRole+` WHERE role_name = $1`, name)
}

// ListAll returns every role ordered by name.
func (r *RoleRepository) ListAll(ctx context.Context) ([]domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.db.Query(ctx, selectRole+` ORDER BY role_name`)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	roles, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Role, error) {
		var role domain.Role
		err := row.Scan(&role.ID, &role.Name, &role.Description, &role.CreatedAt, &role.UpdatedAt)
		return role, err
	})
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	return roles, nil
}

// Seed inserts roles in one batch. Rows whose id already exists are kept as is.
func (r *RoleRepository) Seed(ctx context.Context, roles []domain.Role) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	batch := &pgx.Batch{}
	for _, role := range roles {
		batch.Queue(`
			INSERT INTO roles (role_id, role_name, role_description, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (role_id) DO NOTHING`,
			role.ID, role.Name, role.Description, role.CreatedAt, role.UpdatedAt)
	}
	if err := r.db.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("seed roles: %w", err)
	}
	return nil
}

func (r *RoleRepository) findOne(ctx context.Context, query string, arg any) (*domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var role domain.Role
	err := r.db.QueryRow(ctx, query, arg).
		Scan(&role.ID, &role.Name, &role.Description, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, fmt.Errorf("find role: %w", err)
	}
	return &role, nil
}
