package config

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// EnvPrefix is prepended to every variable name read by Load.
const EnvPrefix = "P2P_APP_"

type Config struct {
	Service  ServiceConfig
	Logging  LoggingConfig
	JWT      JWTConfig
	Database DatabaseConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Login    LoginConfig
}

type ServiceConfig struct {
	Host string `env:"SERVICE_HOST, default=0.0.0.0"`
	Port int    `env:"SERVICE_PORT, default=8080"`
	Env  string `env:"ENV,          default=development"`
}

// Addr is the listen address for the HTTP server.
func (s ServiceConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

func (s ServiceConfig) IsProduction() bool {
	return s.Env == "production"
}

type LoggingConfig struct {
	Level string `env:"LOGGING_LEVEL, default=info"`
}

type JWTConfig struct {
	SecretKey string        `env:"JWT_SECRET_KEY, required"`
	TTL       time.Duration `env:"JWT_TTL,        default=24h"`
}

type DatabaseConfig struct {
	URL            string `env:"DATABASE_URL,             required"`
	MaxConnections int32  `env:"DATABASE_MAX_CONNECTIONS, default=10"`
	MinConnections int32  `env:"DATABASE_MIN_CONNECTIONS, default=1"`
}

type MongoConfig struct {
	URI          string `env:"MONGO_URI,     default=mongodb://localhost:27017"`
	Database     string `env:"MONGO_DB,      default=backoffice"`
	AuditEnabled bool   `env:"AUDIT_ENABLED, default=true"`
	AuditWorkers int    `env:"AUDIT_WORKERS, default=4"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type LoginConfig struct {
	MaxAttempts int64         `env:"LOGIN_MAX_ATTEMPTS, default=5"`
	Lockout     time.Duration `env:"LOGIN_LOCKOUT,      default=15m"`
	Rate        float64       `env:"LOGIN_RATE,         default=5"`
}

// Load reads configuration from P2P_APP_* environment variables.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration through l, which lets tests supply a map.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: envconfig.PrefixLookuper(EnvPrefix, l),
	}); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Service.Port <= 0 || c.Service.Port > 65535 {
		return fmt.Errorf("invalid SERVICE_PORT %d", c.Service.Port)
	}
	if c.JWT.TTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive, got %s", c.JWT.TTL)
	}
	if c.Database.MinConnections > c.Database.MaxConnections {
		return fmt.Errorf("DATABASE_MIN_CONNECTIONS (%d) exceeds DATABASE_MAX_CONNECTIONS (%d)",
			c.Database.MinConnections, c.Database.MaxConnections)
	}
	if c.Login.MaxAttempts <= 0 {
		return fmt.Errorf("LOGIN_MAX_ATTEMPTS must be positive, got %d", c.Login.MaxAttempts)
	}
	return nil
}
