package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Config holds the configuration for the dream service.
// Environment variables are parsed from the DREAMDIVE_ prefix.
type Config struct {
	// HTTP Configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// Store driver: memory (default), sqlite or postgres
	StoreDriver string `envconfig:"STORE_DRIVER" default:"memory"`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:"./data/dreamdive.db"`
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`

	// Interpreter (Gemini) configuration. BaseURL is overridable for tests.
	GeminiAPIKey  string        `envconfig:"GEMINI_API_KEY" default:""`
	GeminiModel   string        `envconfig:"GEMINI_MODEL" default:"gemini-2.5-flash"`
	GeminiBaseURL string        `envconfig:"GEMINI_BASE_URL" default:"https://generativelanguage.googleapis.com"`
	GeminiTimeout time.Duration `envconfig:"GEMINI_TIMEOUT" default:"60s"`

	// Quota policy. Ceilings are lifetime analyses per session per class;
	// the store never sees these values.
	GuestQuota int `envconfig:"GUEST_QUOTA" default:"1"`
	UserQuota  int `envconfig:"USER_QUOTA" default:"10"`

	// Session cookie lifetime, fixed at issuance.
	SessionTTL time.Duration `envconfig:"SESSION_TTL" default:"24h"`

	// Background health probing.
	HealthInterval     time.Duration `envconfig:"HEALTH_INTERVAL" default:"30s"`
	HealthProbeTimeout time.Duration `envconfig:"HEALTH_PROBE_TIMEOUT" default:"2s"`

	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// Validate checks cross-field constraints that envconfig cannot express.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case "memory", "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported STORE_DRIVER: %s", c.StoreDriver)
	}
	if c.StoreDriver == "postgres" && c.PostgresDSN == "" {
		return fmt.Errorf("STORE_DRIVER=postgres requires DREAMDIVE_POSTGRES_DSN")
	}
	if c.GuestQuota < 0 || c.UserQuota < 0 {
		return fmt.Errorf("quota ceilings must not be negative")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session TTL must be positive")
	}
	return nil
}

// New creates a new Config by parsing environment variables.
// Example: DREAMDIVE_HTTP_PORT, DREAMDIVE_STORE_DRIVER.
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("DREAMDIVE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Info().
		Int("port", cfg.HTTPPort).
		Str("store_driver", cfg.StoreDriver).
		Str("gemini_model", cfg.GeminiModel).
		Bool("gemini_key_present", cfg.GeminiAPIKey != "").
		Int("guest_quota", cfg.GuestQuota).
		Int("user_quota", cfg.UserQuota).
		Dur("session_ttl", cfg.SessionTTL).
		Msg("Configuration loaded")

	return &cfg, nil
}
