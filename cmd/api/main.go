package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/99minutos/backoffice-api/internal/api"
	"github.com/99minutos/backoffice-api/internal/core/ports"
	"github.com/99minutos/backoffice-api/internal/core/service"
	"github.com/99minutos/backoffice-api/internal/infrastructure/config"
	"github.com/99minutos/backoffice-api/internal/infrastructure/db/mongo"
	"github.com/99minutos/backoffice-api/internal/infrastructure/db/postgres"
	"github.com/99minutos/backoffice-api/internal/infrastructure/db/redis"
	"github.com/99minutos/backoffice-api/internal/infrastructure/http/handlers"
	"github.com/99minutos/backoffice-api/internal/infrastructure/queue"
	"github.com/99minutos/backoffice-api/pkg/logger"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "backoffice-api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is fine outside local development.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.Logging.Level,
		Pretty:  !cfg.Service.IsProduction(),
		Service: "backoffice-api",
		Version: version,
	})

	// --- Postgres ---
	pool, err := postgres.Connect(ctx, postgres.Config{
		URL:      cfg.Database.URL,
		MaxConns: cfg.Database.MaxConnections,
		MinConns: cfg.Database.MinConnections,
	})
	if err != nil {
		return err
	}
	defer pool.Close()
	log.Info().Msg("database connection pool established")

	if err := postgres.Migrate(ctx, pool, log); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	// --- Redis ---
	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer rdb.Close()

	checks := []handlers.DependencyCheck{
		{Name: "postgres", Ping: pool.Ping},
		{Name: "redis", Ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() }},
	}

	// --- Audit ---
	var (
		auditor    ports.Auditor = service.NopAuditor{}
		dispatcher *queue.Dispatcher
	)
	if cfg.Mongo.AuditEnabled {
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return err
		}
		defer func() {
			dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(dctx)
		}()

		auditRepo := mongo.NewAuditRepository(db)
		if err := auditRepo.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("audit indexes not created")
		}

		dispatcher = queue.NewDispatcher(cfg.Mongo.AuditWorkers, auditRepo, log)
		auditor = dispatcher
		checks = append(checks, handlers.DependencyCheck{
			Name: "mongo",
			Ping: func(ctx context.Context) error { return client.Ping(ctx, nil) },
		})
	} else {
		log.Warn().Msg("audit trail disabled")
	}

	// --- Services ---
	userRepo := postgres.NewUserRepository(pool)
	roleRepo := postgres.NewRoleRepository(pool)
	merchantRepo := postgres.NewMerchantRepository(pool)

	roleService := service.NewRoleService(roleRepo, log)
	if err := roleService.Reconcile(ctx); err != nil {
		return fmt.Errorf("reconcile roles: %w", err)
	}

	tokens, err := service.NewTokenService(cfg.JWT.SecretKey, cfg.JWT.TTL)
	if err != nil {
		return err
	}
	hasher := service.NewBcryptHasher(0)
	guard := redis.NewLoginGuard(rdb, cfg.Login.MaxAttempts, cfg.Login.Lockout)

	e := api.NewRouter(api.Dependencies{
		Log:       log,
		Tokens:    tokens,
		Auth:      service.NewAuthService(userRepo, tokens, hasher, guard, auditor, log),
		Users:     service.NewUserService(userRepo, roleRepo, hasher, auditor, log),
		Roles:     roleService,
		Merchants: service.NewMerchantService(merchantRepo, auditor, log),
		Checks:    checks,
		Version:   version,
		LoginRate: cfg.Login.Rate,
	})

	g, gctx := errgroup.WithContext(ctx)
	if dispatcher != nil {
		dispatcher.Start(gctx)
	}

	g.Go(func() error {
		log.Info().Str("addr", cfg.Service.Addr()).Str("env", cfg.Service.Env).Msg("server starting")
		if err := e.Start(cfg.Service.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		err := e.Shutdown(shutdownCtx)
		if dispatcher != nil {
			if derr := dispatcher.Stop(shutdownCtx); derr != nil {
				log.Error().Err(derr).Msg("audit queue not fully drained")
			}
		}
		return err
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}
