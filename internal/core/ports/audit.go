package ports

import (
	"context"

	"github.com/99minutos/backoffice-api/internal/core/domain"
)

// AuditRepository persists audit events.
type AuditRepository interface {
	Insert(ctx context.Context, event domain.AuditEvent) error
}

// Auditor accepts audit events without blocking the caller.
type Auditor interface {
	Record(event domain.AuditEvent)
}
