package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/99minutos/backoffice-api/internal/core/domain"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// CreateUserInput carries the data needed to create a user.
type CreateUserInput struct {
	Username string
	Email    string
	Password string
	RoleID   uuid.UUID
}

// UpdateUserInput holds optional changes; nil fields are left untouched.
type UpdateUserInput struct {
	Username *string
	Email    *string
	RoleID   *uuid.UUID
	IsActive *bool
}

// ListUsersInput selects a page of users. A non-empty Search switches to a
// case-insensitive match on username or email and ignores Offset.
type ListUsersInput struct {
	Limit  int
	Offset int
	Search string
}

type UserPage struct {
	Users  []domain.User
	Total  int64
	Limit  int
	Offset int
}

type UserService interface {
	Create(ctx context.Context, actor *domain.Claims, in CreateUserInput) (*domain.User, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.User, error)
	Me(ctx context.Context, actor *domain.Claims) (*domain.User, error)
	List(ctx context.Context, in ListUsersInput) (*UserPage, error)
	Update(ctx context.Context, actor *domain.Claims, id uuid.UUID, in UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, actor *domain.Claims, id uuid.UUID) error
}
