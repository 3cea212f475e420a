package domain

import (
	"time"

	"github.com/google/uuid"
)

// RoleKind is the closed set of privilege levels known to the service.
// Each kind is bound to a fixed identifier that is seeded into the roles table.
type RoleKind uint8

const (
	RoleUnknown RoleKind = iota
	RoleAdmin
	RoleSupport
	RoleRisk
	RoleFinance
	RoleUser
)

var (
	AdminRoleID   = uuid.MustParse("878c19c6-643b-4a57-98f1-a60786a38a92")
	SupportRoleID = uuid.MustParse("e79d6652-5efb-43ae-9565-04b3d3fcfc0f")
	RiskRoleID    = uuid.MustParse("48cd5981-0e75-4329-8e1d-57681e8715db")
	FinanceRoleID = uuid.MustParse("2e457833-9393-4a8f-9c0e-4314e1425312")
	UserRoleID    = uuid.MustParse("eec86d00-495c-490c-b151-b9d33672a681")
)

type roleDefinition struct {
	id          uuid.UUID
	name        string
	description string
}

var roleDefinitions = map[RoleKind]roleDefinition{
	RoleAdmin:   {AdminRoleID, "Admin", "Full system access with all permissions"},
	RoleSupport: {SupportRoleID, "Support", "Customer support and assistance permissions"},
	RoleRisk:    {RiskRoleID, "Risk", "Risk management and fraud prevention permissions"},
	RoleFinance: {FinanceRoleID, "Finance", "Financial operations and reporting permissions"},
	RoleUser:    {UserRoleID, "User", "Standard user access"},
}

// AllRoleKinds returns every known kind, most privileged first.
func AllRoleKinds() []RoleKind {
	return []RoleKind{RoleAdmin, RoleSupport, RoleRisk, RoleFinance, RoleUser}
}

// RoleKindFromID maps a role identifier to its kind. Unknown identifiers
// map to RoleUnknown.
func RoleKindFromID(id uuid.UUID) RoleKind {
	for kind, def := range roleDefinitions {
		if def.id == id {
			return kind
		}
	}
	return RoleUnknown
}

// ID returns the fixed identifier of the kind, or uuid.Nil for RoleUnknown.
func (k RoleKind) ID() uuid.UUID {
	return roleDefinitions[k].id
}

func (k RoleKind) String() string {
	if def, ok := roleDefinitions[k]; ok {
		return def.name
	}
	return "Unknown"
}

func (k RoleKind) Description() string {
	return roleDefinitions[k].description
}

// Valid reports whether k is one of the seeded kinds.
func (k RoleKind) Valid() bool {
	_, ok := roleDefinitions[k]
	return ok
}

// Role is a persisted role record.
type Role struct {
	ID          uuid.UUID `json:"role_id"`
	Name        string    `json:"role_name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewRole builds the canonical record for a seeded kind.
func NewRole(kind RoleKind) Role {
	desc := kind.Description()
	now := time.Now().UTC()
	return Role{
		ID:          kind.ID(),
		Name:        kind.String(),
		Description: &desc,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (r Role) Kind() RoleKind { return RoleKindFromID(r.ID) }

func (r Role) IsAdmin() bool   { return r.ID == AdminRoleID }
func (r Role) IsSupport() bool { return r.ID == SupportRoleID }
func (r Role) IsRisk() bool    { return r.ID == RiskRoleID }
func (r Role) IsFinance() bool { return r.ID == FinanceRoleID }
func (r Role) IsUser() bool    { return r.ID == UserRoleID }
