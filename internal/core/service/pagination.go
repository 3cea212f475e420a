package service

import (
	"fmt"

	"github.com/99minutos/backoffice-api/internal/core/domain"
	"github.com/99minutos/backoffice-api/internal/core/ports"
)

// normalizePage applies the default limit and rejects out-of-range values.
func normalizePage(limit, offset int) (int, int, error) {
	switch {
	case limit < 0:
		return 0, 0, fmt.Errorf("%w: limit must not be negative", domain.ErrValidation)
	case limit > ports.MaxPageLimit:
		return 0, 0, fmt.Errorf("%w: limit cannot exceed %d", domain.ErrValidation, ports.MaxPageLimit)
	case offset < 0:
		return 0, 0, fmt.Errorf("%w: offset must not be negative", domain.ErrValidation)
	}
	if limit == 0 {
		limit = ports.DefaultPageLimit
	}
	return limit, offset, nil
}
