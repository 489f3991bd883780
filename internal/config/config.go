package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to every environment variable, e.g. COVIDDASH_PORT.
const Prefix = "COVIDDASH"

// Config holds all application configuration loaded from environment variables.
type Config struct {
	SourceURL      string   `envconfig:"SOURCE_URL" default:"https://api.covid19api.com/live/country/united-states" validate:"required,url"`
	CountryLabel   string   `envconfig:"COUNTRY_LABEL" default:"United States" validate:"required"`
	DefaultRegions []string `envconfig:"DEFAULT_REGIONS" default:"New York"`

	HTTPTimeout     time.Duration `envconfig:"HTTP_TIMEOUT" default:"0s" validate:"gte=0"`
	FetchAttempts   int           `envconfig:"FETCH_ATTEMPTS" default:"1" validate:"gte=1,lte=10"`
	RetryDelay      time.Duration `envconfig:"RETRY_DELAY" default:"2s" validate:"gte=0"`
	RefreshInterval time.Duration `envconfig:"REFRESH_INTERVAL" default:"0s" validate:"gte=0"`

	Port            int           `envconfig:"PORT" default:"8050" validate:"gte=1,lte=65535"`
	RateLimitRPS    float64       `envconfig:"RATE_LIMIT_RPS" default:"20" validate:"gte=0"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s" validate:"gt=0"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
}

// Load reads an optional .env file, then the environment, and validates the
// result.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		slog.Debug("no .env file found, falling back to system env vars")
	}

	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// SlogLevel maps LogLevel onto slog.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
