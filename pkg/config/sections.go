package config

import (
	"fmt"
	"strings"
	"time"
)

type HTTPConfig struct {
	Addr              string        `koanf:"addr"              validate:"required"`
	ReadHeaderTimeout time.Duration `koanf:"readheadertimeout" validate:"gt=0"`
	ShutdownTimeout   time.Duration `koanf:"shutdowntimeout"   validate:"gt=0"`
}

type LogConfig struct {
	Level string `koanf:"level" validate:"oneof=debug info warn error"`
}

type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Token   string `koanf:"token"`
}

type DatabaseConfig struct {
	URL  string `koanf:"url"`
	Seed bool   `koanf:"seed"`
}

type BreakerConfig struct {
	Failures    uint32        `koanf:"failures"    validate:"gt=0"`
	OpenTimeout time.Duration `koanf:"opentimeout" validate:"gt=0"`
}

type CatalogClientConfig struct {
	URL     string        `koanf:"url"     validate:"required,url"`
	Timeout time.Duration `koanf:"timeout" validate:"gt=0"`
	Breaker BreakerConfig `koanf:"breaker"`
}

type SessionConfig struct {
	Secret string        `koanf:"secret" validate:"min=32"`
	TTL    time.Duration `koanf:"ttl"    validate:"gt=0"`
}

type RateLimitConfig struct {
	Sessions int           `koanf:"sessions" validate:"gt=0"`
	Window   time.Duration `koanf:"window"   validate:"gt=0"`
}

// Catalog configures cmd/catalog.
type Catalog struct {
	HTTP     HTTPConfig     `koanf:"http"`
	Log      LogConfig      `koanf:"log"`
	Metrics  MetricsConfig  `koanf:"metrics"`
	Database DatabaseConfig `koanf:"database"`
}

// Storefront configures cmd/storefront.
type Storefront struct {
	HTTP      HTTPConfig          `koanf:"http"`
	Log       LogConfig           `koanf:"log"`
	Metrics   MetricsConfig       `koanf:"metrics"`
	Catalog   CatalogClientConfig `koanf:"catalog"`
	Session   SessionConfig       `koanf:"session"`
	RateLimit RateLimitConfig     `koanf:"ratelimit"`
}

func CatalogDefaults() map[string]any {
	return map[string]any{
		"http.addr":              ":8082",
		"http.readheadertimeout": "5s",
		"http.shutdowntimeout":   "10s",
		"log.level":              "info",
		"metrics.enabled":        true,
		"database.seed":          true,
	}
}

func StorefrontDefaults() map[string]any {
	return map[string]any{
		"http.addr":                   ":8080",
		"http.readheadertimeout":      "5s",
		"http.shutdowntimeout":        "10s",
		"log.level":                   "info",
		"metrics.enabled":             true,
		"catalog.url":                 "http://localhost:8082",
		"catalog.timeout":             "3s",
		"catalog.breaker.failures":    5,
		"catalog.breaker.opentimeout": "30s",
		"session.ttl":                 "24h",
		"ratelimit.sessions":          10,
		"ratelimit.window":            "1m",
	}
}

func (c Catalog) Validate() error {
	return c.Metrics.validate()
}

func (c Storefront) Validate() error {
	if err := c.Metrics.validate(); err != nil {
		return err
	}
	if c.Catalog.Breaker.OpenTimeout < c.Catalog.Timeout {
		return fmt.Errorf("catalog.breaker.opentimeout (%v) must not be shorter than catalog.timeout (%v)",
			c.Catalog.Breaker.OpenTimeout, c.Catalog.Timeout)
	}
	return nil
}

func (c MetricsConfig) validate() error {
	if c.Enabled && c.Token != "" && len(c.Token) < 16 {
		return fmt.Errorf("metrics.token must be at least 16 chars")
	}
	return nil
}

// String renders the storefront config with secrets masked.
func (c Storefront) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "http.addr=%s ", c.HTTP.Addr)
	fmt.Fprintf(&b, "log.level=%s ", c.Log.Level)
	fmt.Fprintf(&b, "metrics.enabled=%t ", c.Metrics.Enabled)
	fmt.Fprintf(&b, "catalog.url=%s catalog.timeout=%v ", c.Catalog.URL, c.Catalog.Timeout)
	fmt.Fprintf(&b, "session.secret=%s session.ttl=%v", mask(c.Session.Secret), c.Session.TTL)
	return b.String()
}

// String renders the catalog config with the database credentials masked.
func (c Catalog) String() string {
	return fmt.Sprintf("http.addr=%s log.level=%s metrics.enabled=%t database.url=%s",
		c.HTTP.Addr, c.Log.Level, c.Metrics.Enabled, maskURL(c.Database.URL))
}

func mask(s string) string {
	if s == "" {
		return "<not configured>"
	}
	return "****"
}

func maskURL(url string) string {
	if url == "" {
		return "<not configured>"
	}
	if _, host, ok := strings.Cut(url, "@"); ok {
		return "****@" + host
	}
	return "****"
}
