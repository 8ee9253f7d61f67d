package config

import (
	"fmt"
	"strings"
	"time"
)

// ChromeCache selects where the public navbar and footer data is cached.
type ChromeCache string

const (
	ChromeCacheOff    ChromeCache = "off"
	ChromeCacheMemory ChromeCache = "memory"
	ChromeCacheRedis  ChromeCache = "redis"
)

// UnmarshalText implements encoding.TextUnmarshaler for ChromeCache.
func (c *ChromeCache) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "off", "memory", "redis":
		*c = ChromeCache(v)
		return nil
	default:
		return fmt.Errorf("invalid ChromeCache: %q (valid options: off, memory, redis)", v)
	}
}

// UIConfig tunes the storefront and back office.
type UIConfig struct {
	// SearchDebounce is the quiet period before a search request is answered.
	SearchDebounce time.Duration `env:"UI_SEARCH_DEBOUNCE" envDefault:"400ms"`
	ShopPageSize   int           `env:"UI_SHOP_PAGE_SIZE"  envDefault:"12"    validate:"min=1,max=100"`
	HomeProducts   int           `env:"UI_HOME_PRODUCTS"   envDefault:"8"     validate:"min=1,max=48"`
	AdminPageSize  int           `env:"UI_ADMIN_PAGE_SIZE" envDefault:"10"    validate:"min=1,max=100"`

	ChromeCache ChromeCache   `env:"UI_CHROME_CACHE" envDefault:"memory" validate:"oneof=off memory redis"`
	ChromeTTL   time.Duration `env:"UI_CHROME_TTL"   envDefault:"5m"`

	// MaxUploadBytes caps multipart form submissions.
	MaxUploadBytes int64 `env:"UI_MAX_UPLOAD_BYTES" envDefault:"5242880"`
}

// Sanitize applies floors to the UI settings.
func (c *UIConfig) Sanitize() {
	if c.SearchDebounce < 0 {
		c.SearchDebounce = 0
	}
	if c.ChromeCache == "" {
		c.ChromeCache = ChromeCacheMemory
	}
	if c.ChromeTTL <= 0 {
		c.ChromeCache = ChromeCacheOff
	}
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = 5 << 20
	}
}
