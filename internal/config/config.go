package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config carries all runtime settings of the roster API. The auth secret is
// read separately by the auth package (SALAREAN_AUTH_SECRET) so tokens can be
// verified without pulling the whole config through that package.
type Config struct {
	Addr         string        `env:"SALAREAN_ADDR" envDefault:":8080"`
	PGDSN        string        `env:"SALAREAN_PG_DSN"`
	RedisAddr    string        `env:"SALAREAN_REDIS_ADDR"`
	CacheTTL     time.Duration `env:"SALAREAN_CACHE_TTL" envDefault:"30m"`
	TokenTTL     time.Duration `env:"SALAREAN_TOKEN_TTL" envDefault:"15m"`
	RateBurst    int           `env:"SALAREAN_RATE_BURST" envDefault:"20"`
	RatePerSec   int           `env:"SALAREAN_RATE_PER_SEC" envDefault:"10"`
	MaxBodyBytes int64         `env:"SALAREAN_MAX_BODY_BYTES" envDefault:"1048576"`
}

// Load parses configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 30 * time.Minute
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 15 * time.Minute
	}
	return cfg, nil
}
