package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User models a backoffice account.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewUser returns an active user with a fresh identifier.
func NewUser(username, email, passwordHash string, role Role) *User {
	now := time.Now().UTC()
	return &User{
		ID:           uuid.New(),
		Username:     strings.TrimSpace(username),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: passwordHash,
		IsActive:     true,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (u *User) HasRole(kind RoleKind) bool {
	return u.Role.ID == kind.ID()
}

func (u *User) IsAdmin() bool {
	return u.Role.IsAdmin()
}

func (u *User) Activate() {
	u.IsActive = true
	u.touch()
}

func (u *User) Deactivate() {
	u.IsActive = false
	u.touch()
}

func (u *User) UpdateUsername(username string) {
	u.Username = strings.TrimSpace(username)
	u.touch()
}

func (u *User) UpdateEmail(email string) {
	u.Email = strings.ToLower(strings.TrimSpace(email))
	u.touch()
}

func (u *User) ChangeRole(role Role) {
	u.Role = role
	u.touch()
}

func (u *User) touch() {
	u.UpdatedAt = time.Now().UTC()
}
