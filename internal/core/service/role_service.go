package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/99minutos/backoffice-api/internal/core/domain"
	"github.com/99minutos/backoffice-api/internal/core/ports"
)

type roleService struct {
	roles ports.RoleRepository
	log   zerolog.Logger
}

// NewRoleService returns a RoleService implementation.
func NewRoleService(roles ports.RoleRepository, log zerolog.Logger) ports.RoleService {
	return &roleService{roles: roles, log: log}
}

func (s *roleService) List(ctx context.Context) ([]domain.Role, error) {
	roles, err := s.roles.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	return roles, nil
}

// Reconcile makes sure every known role kind exists in storage under its
// fixed identifier and canonical name. Extra rows are logged and ignored.
func (s *roleService) Reconcile(ctx context.Context) error {
	kinds := domain.AllRoleKinds()
	seed := make([]domain.Role, 0, len(kinds))
	for _, k := range kinds {
		seed = append(seed, domain.NewRole(k))
	}
	if err := s.roles.Seed(ctx, seed); err != nil {
		return fmt.Errorf("seed roles: %w", err)
	}

	stored, err := s.roles.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("load roles: %w", err)
	}

	byID := make(map[uuid.UUID]domain.Role, len(stored))
	for _, r := range stored {
		byID[r.ID] = r
	}

	for _, k := range kinds {
		r, ok := byID[k.ID()]
		if !ok {
			return fmt.Errorf("%w: %s (%s) missing", domain.ErrRoleDrift, k, k.ID())
		}
		if r.Name != k.String() {
			return fmt.Errorf("%w: %s stored as %q", domain.ErrRoleDrift, k.ID(), r.Name)
		}
		delete(byID, k.ID())
	}

	for id, r := range byID {
		s.log.Warn().Str("role_id", id.String()).Str("role_name", r.Name).Msg("unknown role in storage")
	}

	s.log.Info().Int("roles", len(kinds)).Msg("roles reconciled")
	return nil
}
