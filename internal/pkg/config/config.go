package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port          string `env:"PORT,           default=8080"`
	Env           string `env:"ENV,            default=development"`
	LogLevel      string `env:"LOG_LEVEL,      default=info"`
	SessionSecret string `env:"SESSION_SECRET"`
	CanonicalHost string `env:"CANONICAL_HOST"`

	Session  SessionConfig
	Upstream UpstreamConfig
	Redis    RedisConfig
}

type SessionConfig struct {
	// TTL is the session-scoped tier; RememberTTL is the durable tier chosen
	// by the "remember me" checkbox.
	TTL           time.Duration `env:"SESSION_TTL,          default=12h"`
	RememberTTL   time.Duration `env:"SESSION_REMEMBER_TTL, default=720h"`
	RenewInterval time.Duration `env:"RENEW_INTERVAL,       default=30m"`
}

type UpstreamConfig struct {
	DevURL  string        `env:"UPSTREAM_DEV_URL,  default=http://localhost:5000"`
	ProdURL string        `env:"UPSTREAM_PROD_URL, default=https://api.fonoinova.com.br"`
	Timeout time.Duration `env:"UPSTREAM_TIMEOUT,  default=15s"`
}

type RedisConfig struct {
	// Addr left empty falls back to the in-memory token store (development).
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB, default=0"`
}

// BaseURL resolves the upstream endpoint from the environment flag, once at
// startup. Anything that is not development talks to production.
func (c *Config) BaseURL() string {
	if c.Env == "development" {
		return c.Upstream.DevURL
	}
	return c.Upstream.ProdURL
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
