package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port       string `env:"PORT,        default=4000"`
	Env        string `env:"ENV,         default=development"`
	LogLevel   string `env:"LOG_LEVEL,   default=info"`
	BcryptCost int    `env:"BCRYPT_COST, default=10"`

	DB DBConfig
}

type DBConfig struct {
	URL            string        `env:"DATABASE_URL, required"`
	MaxOpen        int           `env:"DB_MAX_OPEN,        default=25"`
	MaxIdle        int           `env:"DB_MAX_IDLE,        default=25"`
	MaxLifetime    time.Duration `env:"DB_MAX_LIFETIME,    default=5m"`
	ConnectTimeout time.Duration `env:"DB_CONNECT_TIMEOUT, default=5s"`
}

// Development reports whether the service runs with ENV=development.
func (c *Config) Development() bool {
	return c.Env == "development"
}

// Load reads configuration from the process environment.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration through the given lookuper.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	return &cfg, nil
}
