package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/99minutos/backoffice-api/internal/core/domain"
	"github.com/99minutos/backoffice-api/internal/core/ports"
)

type userService struct {
	users  ports.UserRepository
	roles  ports.RoleRepository
	hasher ports.PasswordHasher
	audit  ports.Auditor
	log    zerolog.Logger
}

// NewUserService returns a UserService implementation.
func NewUserService(
	users ports.UserRepository,
	roles ports.RoleRepository,
	hasher ports.PasswordHasher,
	audit ports.Auditor,
	log zerolog.Logger,
) ports.UserService {
	if audit == nil {
		audit = NopAuditor{}
	}
	return &userService{
		users:  users,
		roles:  roles,
		hasher: hasher,
		audit:  audit,
		log:    log,
	}
}

func (s *userService) Create(ctx context.Context, actor *domain.Claims, in ports.CreateUserInput) (*domain.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if username == "" || email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", domain.ErrValidation)
	}

	role, err := s.roles.FindByID(ctx, in.RoleID)
	if err != nil {
		return nil, err
	}

	if err := s.ensureUsernameFree(ctx, username); err != nil {
		return nil, err
	}
	if err := s.ensureEmailFree(ctx, email); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := domain.NewUser(username, email, hash, *role)
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.record(actor, domain.AuditUserCreated, user.ID, "role="+role.Name)
	s.log.Info().
		Str("user_id", user.ID.String()).
		Str("role", role.Name).
		Msg("user created")

	return user, nil
}

func (s *userService) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *userService) Me(ctx context.Context, actor *domain.Claims) (*domain.User, error) {
	if actor == nil {
		return nil, domain.ErrUnauthorized
	}
	return s.users.FindByID(ctx, actor.UserID)
}

func (s *userService) List(ctx context.Context, in ports.ListUsersInput) (*ports.UserPage, error) {
	limit, offset, err := normalizePage(in.Limit, in.Offset)
	if err != nil {
		return nil, err
	}

	if q := strings.TrimSpace(in.Search); q != "" {
		users, err := s.users.Search(ctx, q, limit)
		if err != nil {
			return nil, fmt.Errorf("search users: %w", err)
		}
		return &ports.UserPage{Users: users, Total: int64(len(users)), Limit: limit}, nil
	}

	users, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	total, err := s.users.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	return &ports.UserPage{Users: users, Total: total, Limit: limit, Offset: offset}, nil
}

// Update applies the non-nil fields of in. An actor cannot change their own
// role or deactivate their own account.
func (s *userService) Update(ctx context.Context, actor *domain.Claims, id uuid.UUID, in ports.UpdateUserInput) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	self := actor != nil && actor.UserID == id
	var changes []string

	if in.Username != nil {
		username := strings.TrimSpace(*in.Username)
		if username == "" {
			return nil, fmt.Errorf("%w: username must not be empty", domain.ErrValidation)
		}
		if username != user.Username {
			if err := s.ensureUsernameFree(ctx, username); err != nil {
				return nil, err
			}
			user.UpdateUsername(username)
			changes = append(changes, "username")
		}
	}

	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if email == "" {
			return nil, fmt.Errorf("%w: email must not be empty", domain.ErrValidation)
		}
		if email != user.Email {
			if err := s.ensureEmailFree(ctx, email); err != nil {
				return nil, err
			}
			user.UpdateEmail(email)
			changes = append(changes, "email")
		}
	}

	if in.RoleID != nil && *in.RoleID != user.Role.ID {
		if self {
			return nil, fmt.Errorf("%w: cannot change own role", domain.ErrForbidden)
		}
		role, err := s.roles.FindByID(ctx, *in.RoleID)
		if err != nil {
			return nil, err
		}
		user.ChangeRole(*role)
		changes = append(changes, "role")
	}

	if in.IsActive != nil && *in.IsActive != user.IsActive {
		if self && !*in.IsActive {
			return nil, fmt.Errorf("%w: cannot deactivate own account", domain.ErrForbidden)
		}
		if *in.IsActive {
			user.Activate()
		} else {
			user.Deactivate()
		}
		changes = append(changes, "is_active")
	}

	if len(changes) == 0 {
		return user, nil
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.record(actor, domain.AuditUserUpdated, user.ID, strings.Join(changes, ","))
	return user, nil
}

func (s *userService) Delete(ctx context.Context, actor *domain.Claims, id uuid.UUID) error {
	if actor != nil && actor.UserID == id {
		return fmt.Errorf("%w: cannot delete own account", domain.ErrForbidden)
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}

	s.record(actor, domain.AuditUserDeleted, id, "")
	s.log.Info().Str("user_id", id.String()).Msg("user deleted")
	return nil
}

func (s *userService) ensureUsernameFree(ctx context.Context, username string) error {
	exists, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("check username: %w", err)
	}
	if exists {
		return fmt.Errorf("username '%s': %w", username, domain.ErrUserExists)
	}
	return nil
}

func (s *userService) ensureEmailFree(ctx context.Context, email string) error {
	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if exists {
		return fmt.Errorf("email '%s': %w", email, domain.ErrUserExists)
	}
	return nil
}

func (s *userService) record(actor *domain.Claims, action domain.AuditAction, target uuid.UUID, detail string) {
	s.audit.Record(domain.AuditEvent{
		Action:   action,
		ActorID:  actorID(actor),
		TargetID: target.String(),
		Outcome:  domain.OutcomeSuccess,
		Detail:   detail,
		At:       time.Now().UTC(),
	})
}
