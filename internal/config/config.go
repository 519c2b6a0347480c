// Taptodine - Multi-tenant Restaurant Ordering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/taptodine

package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig              `koanf:"server"`
	Backend   BackendConfig             `koanf:"backend"`
	Customers map[string]CustomerConfig `koanf:"customers"`
	Gateway   GatewayConfig             `koanf:"gateway"`
	Session   SessionConfig             `koanf:"session"`
	Payment   PaymentConfig             `koanf:"payment"`
	Security  SecurityConfig            `koanf:"security"`
	Tenancy   TenancyConfig             `koanf:"tenancy"`
	Logging   LoggingConfig             `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
//
// Environment Variables:
//   - HTTP_PORT, HTTP_HOST, HTTP_TIMEOUT, SHUTDOWN_TIMEOUT
//   - STATIC_DIR: optional directory with a prebuilt UI bundle
//   - ENVIRONMENT: development or production
//   - PUBLIC_URL: storefront origin used for payment redirects, such as
//     https://example.com (tenants are served from its subdomains)
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	StaticDir       string        `koanf:"static_dir"`
	PublicURL       string        `koanf:"public_url"`
	Environment     string        `koanf:"environment"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// BackendConfig describes the deployment-wide restaurant backend.
// APIBaseURL serves order history; DefaultCustomer serves menus for requests
// without a known tenant.
type BackendConfig struct {
	APIBaseURL      string         `koanf:"api_base_url"`
	DefaultCustomer CustomerConfig `koanf:"default_customer"`
}

// CustomerConfig is one tenant's backend settings.
type CustomerConfig struct {
	APIBaseURL string `koanf:"api_base_url"`
	MenuID     string `koanf:"menu_id"`
	APIKey     string `koanf:"api_key"`
}

// GatewayConfig tunes the upstream HTTP client.
//
// Timeout of zero leaves upstream calls unbounded.
type GatewayConfig struct {
	Timeout          time.Duration `koanf:"timeout"`
	MaxResponseBytes int64         `koanf:"max_response_bytes"`
	UserAgent        string        `koanf:"user_agent"`

	MaxIdleConnsPerHost int           `koanf:"max_idle_conns_per_host"`
	IdleConnTimeout     time.Duration `koanf:"idle_conn_timeout"`

	BreakerDisabled     bool          `koanf:"breaker_disabled"`
	BreakerMaxRequests  uint32        `koanf:"breaker_max_requests"`
	BreakerInterval     time.Duration `koanf:"breaker_interval"`
	BreakerTimeout      time.Duration `koanf:"breaker_timeout"`
	BreakerMinRequests  uint32        `koanf:"breaker_min_requests"`
	BreakerFailureRatio float64       `koanf:"breaker_failure_ratio"`

	CoalesceDisabled bool `koanf:"coalesce_disabled"`
}

// SessionConfig controls visitor cart sessions.
type SessionConfig struct {
	TTL             time.Duration `koanf:"ttl"`
	CleanupInterval time.Duration `koanf:"cleanup_interval"`
	CookieName      string        `koanf:"cookie_name"`
	CookieSecure    bool          `koanf:"cookie_secure"`
}

// PaymentConfig holds payment provider settings. Checkout is enabled when a
// secret key is present.
//
// SuccessURL and CancelURL may be absolute or start with "/", in which case
// they are resolved against the tenant's storefront origin, built from
// server.public_url or, outside production, from the checkout request.
type PaymentConfig struct {
	PublishableKey string `koanf:"publishable_key"`
	SecretKey      string `koanf:"secret_key"`
	Currency       string `koanf:"currency"`
	SuccessURL     string `koanf:"success_url"`
	CancelURL      string `koanf:"cancel_url"`
}

// Enabled reports whether a payment provider is configured.
func (p PaymentConfig) Enabled() bool {
	return p.SecretKey != ""
}

// SecurityConfig holds CORS and rate limit settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// TenancyConfig extends the set of first path segments that are never
// treated as a tenant on local hosts.
type TenancyConfig struct {
	ReservedRoutes []string `koanf:"reserved_routes"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// IsProduction reports whether ENVIRONMENT is production.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Load reads configuration from defaults, an optional config file, .env and
// the environment, then validates it.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
