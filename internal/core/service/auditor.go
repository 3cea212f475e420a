package service

import (
	"github.com/google/uuid"

	"github.com/99minutos/backoffice-api/internal/core/domain"
)

// NopAuditor discards events. Used when auditing is disabled.
type NopAuditor struct{}

func (NopAuditor) Record(domain.AuditEvent) {}

func actorID(actor *domain.Claims) uuid.UUID {
	if actor == nil {
		return uuid.Nil
	}
	return actor.UserID
}
