package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - http.go: HTTP server configuration
//   - session.go: Session backend and cookie configuration
//   - redis.go: Redis connection configuration
//   - partsapi.go: Upstream parts API configuration
//   - ui.go: Storefront and back-office tuning
//   - observability.go: Logging and metrics configuration
type AppConfig struct {
	// IsDev controls development mode behavior (template reloading, generated cookie keys).
	// Set DEV=true or NODE_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// HTTP server configuration
	HTTP HTTPConfig

	// Session configuration
	Session SessionConfig

	// Redis configuration, used by the redis session backend and the chrome cache.
	Redis RedisConfig `envPrefix:"REDIS_"`

	// Upstream parts API configuration
	PartsAPI PartsAPIConfig `envPrefix:"PARTS_API_"`

	// UI tuning
	UI UIConfig

	// Observability configuration
	Observability ObservabilityConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.HTTP.Sanitize()
	c.Session.Sanitize()
	c.PartsAPI.Sanitize()
	c.UI.Sanitize()
	c.Observability.Sanitize()

	c.detectDevMode()
}

// detectDevMode checks both DEV and NODE_ENV environment variables.
// NODE_ENV is checked as a fallback (common in frontend tooling).
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}

// NeedsRedis reports whether any enabled component talks to Redis.
func (c *AppConfig) NeedsRedis() bool {
	return c.Session.Backend == SessionBackendRedis || c.UI.ChromeCache == ChromeCacheRedis
}

// Validate checks struct constraints and cross-field rules. Call it after
// Sanitize.
func (c *AppConfig) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if !c.IsDev && c.Session.Backend == SessionBackendCookie && c.Session.HashKey == "" {
		return fmt.Errorf("invalid configuration: SESSION_HASH_KEY is required for the %s backend outside development", SessionBackendCookie)
	}
	if _, _, err := c.Session.Keys(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
