// Package config loads service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/dmitrymomot/lingo/pkg/conditional"
	"github.com/dmitrymomot/lingo/pkg/db"
	"github.com/dmitrymomot/lingo/pkg/logger"
	"github.com/dmitrymomot/lingo/pkg/redis"
)

// HTTP configures the server.
type HTTP struct {
	Address         string        `env:"HTTP_ADDRESS" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	RequestTimeout  time.Duration `env:"HTTP_REQUEST_TIMEOUT" envDefault:"15s"`
	AllowedOrigins  []string      `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
}

// Export configures the export endpoint.
type Export struct {
	BrowserMaxAge time.Duration `env:"EXPORT_BROWSER_MAX_AGE" envDefault:"60s"`
	SharedMaxAge  time.Duration `env:"EXPORT_SHARED_MAX_AGE" envDefault:"300s"`
	Snapshot      bool          `env:"EXPORT_SNAPSHOT" envDefault:"false"`
}

// Policy returns the Cache-Control policy.
func (e Export) Policy() conditional.CachePolicy {
	return conditional.CachePolicy{BrowserMaxAge: e.BrowserMaxAge, SharedMaxAge: e.SharedMaxAge}
}

// Auth configures API token authentication.
type Auth struct {
	PruneSchedule string        `env:"AUTH_PRUNE_SCHEDULE" envDefault:"@hourly"`
	CacheTTL      time.Duration `env:"AUTH_TOKEN_CACHE_TTL" envDefault:"1m"`
	Disabled      bool          `env:"AUTH_DISABLED" envDefault:"false"`
}

// Log configures the logger.
type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// Config is the full service configuration.
type Config struct {
	Sentry   logger.SentryConfig
	Log      Log
	Auth     Auth
	Redis    redis.Config
	HTTP     HTTP
	Database db.Config
	Export   Export
}

// Load reads an optional .env file (ignored when missing; variables already
// set in the environment win) and parses the environment into Config.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("config: load env file: %w", err)
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Export.BrowserMaxAge < 0 || c.Export.SharedMaxAge < 0 {
		return errors.New("config: export max-age must not be negative")
	}
	if c.HTTP.RequestTimeout <= 0 {
		return errors.New("config: HTTP_REQUEST_TIMEOUT must be positive")
	}
	if strings.TrimSpace(c.HTTP.Address) == "" {
		return errors.New("config: HTTP_ADDRESS is required")
	}
	return nil
}
