package domain

import (
	"time"

	"github.com/google/uuid"
)

type AuditAction string

const (
	AuditLogin          AuditAction = "auth.login"
	AuditUserCreated    AuditAction = "user.created"
	AuditUserUpdated    AuditAction = "user.updated"
	AuditUserDeleted    AuditAction = "user.deleted"
	AuditMerchantCreate AuditAction = "merchant.created"
	AuditMerchantStatus AuditAction = "merchant.status_changed"
	AuditSiteCreated    AuditAction = "site.created"
)

type AuditOutcome string

const (
	OutcomeSuccess AuditOutcome = "success"
	OutcomeFailure AuditOutcome = "failure"
)

// AuditEvent records who did what to which resource.
type AuditEvent struct {
	Action   AuditAction  `json:"action"`
	ActorID  uuid.UUID    `json:"actor_id"`
	TargetID string       `json:"target_id,omitempty"`
	Outcome  AuditOutcome `json:"outcome"`
	Detail   string       `json:"detail,omitempty"`
	At       time.Time    `json:"at"`
}
