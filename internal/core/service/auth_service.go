package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/99minutos/backoffice-api/internal/core/domain"
	"github.com/99minutos/backoffice-api/internal/core/ports"
)

// AuthService implements login for backoffice users.
type AuthService struct {
	users  ports.UserRepository
	tokens ports.TokenService
	hasher ports.PasswordHasher
	guard  ports.LoginGuard
	audit  ports.Auditor
	log    zerolog.Logger
}

// NewAuthService wires the login use case. guard may be nil, in which case
// failed attempts are not tracked.
func NewAuthService(
	users ports.UserRepository,
	tokens ports.TokenService,
	hasher ports.PasswordHasher,
	guard ports.LoginGuard,
	audit ports.Auditor,
	log zerolog.Logger,
) *AuthService {
	if audit == nil {
		audit = NopAuditor{}
	}
	return &AuthService{
		users:  users,
		tokens: tokens,
		hasher: hasher,
		guard:  guard,
		audit:  audit,
		log:    log,
	}
}

// Login authenticates by username or email. Unknown users, wrong passwords
// and inactive accounts all yield domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, login, password string) (*ports.LoginResult, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	key := strings.ToLower(login)

	if s.guard != nil {
		locked, err := s.guard.Locked(ctx, key)
		if err != nil {
			s.log.Warn().Err(err).Msg("login guard check failed, continuing")
		} else if locked {
			return nil, domain.ErrTooManyAttempts
		}
	}

	user, err := s.lookup(ctx, login)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.fail(ctx, key, uuid.Nil, "unknown login")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.fail(ctx, key, user.ID, "wrong password")
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		s.fail(ctx, key, user.ID, "inactive account")
		return nil, domain.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.IssueFor(user)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	if s.guard != nil {
		if err := s.guard.Reset(ctx, key); err != nil {
			s.log.Warn().Err(err).Msg("failed to reset login attempts")
		}
	}

	s.audit.Record(domain.AuditEvent{
		Action:   domain.AuditLogin,
		ActorID:  user.ID,
		TargetID: user.ID.String(),
		Outcome:  domain.OutcomeSuccess,
		At:       time.Now().UTC(),
	})
	s.log.Info().
		Str("user_id", user.ID.String()).
		Str("role", user.Role.Name).
		Msg("user logged in")

	return &ports.LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func (s *AuthService) lookup(ctx context.Context, login string) (*domain.User, error) {
	if strings.Contains(login, "@") {
		return s.users.FindByEmail(ctx, strings.ToLower(login))
	}
	return s.users.FindByUsername(ctx, login)
}

func (s *AuthService) fail(ctx context.Context, key string, actor uuid.UUID, reason string) {
	if s.guard != nil {
		if _, err := s.guard.RegisterFailure(ctx, key); err != nil {
			s.log.Warn().Err(err).Msg("failed to register login failure")
		}
	}
	s.audit.Record(domain.AuditEvent{
		Action:  domain.AuditLogin,
		ActorID: actor,
		Outcome: domain.OutcomeFailure,
		Detail:  reason,
		At:      time.Now().UTC(),
	})
	s.log.Debug().Str("reason", reason).Msg("login rejected")
}
