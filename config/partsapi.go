package config

import (
	"strings"
	"time"
)

// PartsAPIConfig configures the upstream parts API client.
type PartsAPIConfig struct {
	BaseURL       string `env:"BASE_URL"        envDefault:"https://snmtc.in/parts/api"        validate:"required,url"`
	PublicBaseURL string `env:"PUBLIC_BASE_URL" envDefault:"https://snmtc.in/parts/public/api" validate:"required,url"`
	// MediaBaseURL prefixes stored image filenames.
	MediaBaseURL string        `env:"MEDIA_BASE_URL" envDefault:"https://snmtc.in/parts/public" validate:"required,url"`
	Timeout      time.Duration `env:"TIMEOUT"        envDefault:"15s"`

	// JMESPath expressions that read the response envelope. Empty values
	// keep the built-in defaults.
	ItemsExpr       string `env:"ITEMS_EXPR"`
	CurrentPageExpr string `env:"CURRENT_PAGE_EXPR"`
	TotalPagesExpr  string `env:"TOTAL_PAGES_EXPR"`
	CountExpr       string `env:"COUNT_EXPR"`
	MessageExpr     string `env:"MESSAGE_EXPR"`
}

// Sanitize trims URLs and applies the timeout floor.
func (c *PartsAPIConfig) Sanitize() {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	c.PublicBaseURL = strings.TrimRight(strings.TrimSpace(c.PublicBaseURL), "/")
	c.MediaBaseURL = strings.TrimRight(strings.TrimSpace(c.MediaBaseURL), "/")
	if c.Timeout <= 0 {
		c.Timeout = 15 * time.Second
	}
	c.ItemsExpr = strings.TrimSpace(c.ItemsExpr)
	c.CurrentPageExpr = strings.TrimSpace(c.CurrentPageExpr)
	c.TotalPagesExpr = strings.TrimSpace(c.TotalPagesExpr)
	c.CountExpr = strings.TrimSpace(c.CountExpr)
	c.MessageExpr = strings.TrimSpace(c.MessageExpr)
}
