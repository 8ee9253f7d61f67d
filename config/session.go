package config

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// SessionBackend selects where the per-browser session values live.
type SessionBackend string

const (
	// SessionBackendCookie keeps the values in a signed, encrypted cookie.
	SessionBackendCookie SessionBackend = "cookie"
	// SessionBackendRedis keeps the values in Redis keyed by a client id cookie.
	SessionBackendRedis SessionBackend = "redis"
	// SessionBackendMemory keeps the values in process memory (development only).
	SessionBackendMemory SessionBackend = "memory"
)

// UnmarshalText implements encoding.TextUnmarshaler for SessionBackend.
func (b *SessionBackend) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "cookie", "redis", "memory":
		*b = SessionBackend(v)
		return nil
	default:
		return fmt.Errorf("invalid SessionBackend: %q (valid options: cookie, redis, memory)", v)
	}
}

// SessionConfig groups session persistence configuration.
type SessionConfig struct {
	Backend SessionBackend `env:"SESSION_BACKEND" envDefault:"cookie" validate:"oneof=cookie redis memory"`

	// HashKey and BlockKey are hex or base64 encoded securecookie keys.
	// Left empty in development, random keys are generated at startup.
	HashKey  string `env:"SESSION_HASH_KEY"`
	BlockKey string `env:"SESSION_BLOCK_KEY"`

	CookieName       string `env:"SESSION_COOKIE_NAME"        envDefault:"parts_state"`
	ClientCookieName string `env:"SESSION_CLIENT_COOKIE_NAME" envDefault:"parts_client"`

	// TTL bounds server-side session state. Zero keeps it until sign-out.
	TTL time.Duration `env:"SESSION_TTL" envDefault:"0s"`

	// RedisPrefix namespaces the redis backend's keys.
	RedisPrefix string `env:"SESSION_REDIS_PREFIX" envDefault:"parts:session:"`
}

// Sanitize normalises session values.
func (c *SessionConfig) Sanitize() {
	c.HashKey = strings.TrimSpace(c.HashKey)
	c.BlockKey = strings.TrimSpace(c.BlockKey)
	if c.Backend == "" {
		c.Backend = SessionBackendCookie
	}
	if c.TTL < 0 {
		c.TTL = 0
	}
	if strings.TrimSpace(c.CookieName) == "" {
		c.CookieName = "parts_state"
	}
	if strings.TrimSpace(c.ClientCookieName) == "" {
		c.ClientCookieName = "parts_client"
	}
}

// Keys decodes HashKey and BlockKey. Empty keys decode to nil.
func (c *SessionConfig) Keys() ([]byte, []byte, error) {
	hash, err := decodeKey(c.HashKey)
	if err != nil {
		return nil, nil, fmt.Errorf("SESSION_HASH_KEY: %w", err)
	}
	block, err := decodeKey(c.BlockKey)
	if err != nil {
		return nil, nil, fmt.Errorf("SESSION_BLOCK_KEY: %w", err)
	}
	if hash != nil && len(hash) < 32 {
		return nil, nil, fmt.Errorf("SESSION_HASH_KEY: must decode to at least 32 bytes, got %d", len(hash))
	}
	switch len(block) {
	case 0, 16, 24, 32:
	default:
		return nil, nil, fmt.Errorf("SESSION_BLOCK_KEY: must decode to 16, 24 or 32 bytes, got %d", len(block))
	}
	return hash, block, nil
}

func decodeKey(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	if b, err := hex.DecodeString(s); err == nil {
		return b, nil
	}
	if b, err := base64.StdEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	return nil, fmt.Errorf("not valid hex or base64")
}
