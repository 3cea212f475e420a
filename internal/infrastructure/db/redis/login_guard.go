package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/99minutos/backoffice-api/internal/core/ports"
)

const (
	defaultMaxAttempts = 5
	defaultWindow      = 15 * time.Minute
)

// LoginGuard counts failed logins per identifier in a fixed window.
// Key format: login:attempts:<normalized login>
type LoginGuard struct {
	client      redis.Cmdable
	maxAttempts int64
	window      time.Duration
}

var _ ports.LoginGuard = (*LoginGuard)(nil)

// NewLoginGuard locks a login after maxAttempts failures until window has
// passed since the first one.
func NewLoginGuard(client redis.Cmdable, maxAttempts int64, window time.Duration) *LoginGuard {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	if window <= 0 {
		window = defaultWindow
	}
	return &LoginGuard{client: client, maxAttempts: maxAttempts, window: window}
}

// Locked reports whether login has reached the failure limit.
func (g *LoginGuard) Locked(ctx context.Context, login string) (bool, error) {
	n, err := g.client.Get(ctx, g.key(login)).Int64()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("login guard get: %w", err)
	}
	return n >= g.maxAttempts, nil
}

// RegisterFailure increments the counter and returns the new total. The
// window starts with the first failure.
func (g *LoginGuard) RegisterFailure(ctx context.Context, login string) (int64, error) {
	key := g.key(login)
	n, err := g.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("login guard incr: %w", err)
	}
	if n == 1 {
		if err := g.client.Expire(ctx, key, g.window).Err(); err != nil {
			return n, fmt.Errorf("login guard expire: %w", err)
		}
	}
	return n, nil
}

func (g *LoginGuard) Reset(ctx context.Context, login string) error {
	if err := g.client.Del(ctx, g.key(login)).Err(); err != nil {
		return fmt.Errorf("login guard reset: %w", err)
	}
	return nil
}

func (g *LoginGuard) key(login string) string {
	return "login:attempts:" + strings.ToLower(strings.TrimSpace(login))
}
