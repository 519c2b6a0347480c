// Taptodine - Multi-tenant Restaurant Ordering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/taptodine

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the config file locations searched in order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/taptodine/config.yaml",
	"/etc/taptodine/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// DotEnvPath is the dotenv file loaded before the environment layer.
var DotEnvPath = ".env"

const defaultBackendURL = "https://api.test.juhaluoto.net"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            3000,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Backend: BackendConfig{
			APIBaseURL: defaultBackendURL,
			DefaultCustomer: CustomerConfig{
				APIBaseURL: defaultBackendURL,
				MenuID:     "1",
			},
		},
		Customers: map[string]CustomerConfig{
			"customer1": {APIBaseURL: defaultBackendURL, MenuID: "1"},
			"customer2": {APIBaseURL: "https://api2.test.juhaluoto.net", MenuID: "2"},
		},
		Gateway: GatewayConfig{
			Timeout:             30 * time.Second,
			MaxResponseBytes:    10 << 20,
			UserAgent:           "taptodine/1.0",
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			BreakerMaxRequests:  3,
			BreakerInterval:     time.Minute,
			BreakerTimeout:      30 * time.Second,
			BreakerMinRequests:  10,
			BreakerFailureRatio: 0.6,
		},
		Session: SessionConfig{
			TTL:             24 * time.Hour,
			CleanupInterval: 5 * time.Minute,
			CookieName:      "tt_session",
		},
		Payment: PaymentConfig{
			Currency:   "eur",
			SuccessURL: "/success?session_id={CHECKOUT_SESSION_ID}",
			CancelURL:  "/checkout",
		},
		Security: SecurityConfig{
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   300,
			RateLimitWindow: time.Minute,
		},
		Tenancy: TenancyConfig{
			ReservedRoutes: []string{},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadWithKoanf builds the layered configuration: defaults, then the YAML
// file if one is found, then .env and process environment variables.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := loadDotEnv(DotEnvPath); err != nil {
		return nil, err
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// loadDotEnv copies variables from path into the environment without
// overriding variables that are already set. A missing file is not an error.
func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are split on commas when they arrive as a single string
// from the environment.
var sliceConfigPaths = []string{
	"security.cors_origins",
	"tenancy.reserved_routes",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to koanf paths.
// Variables not listed are ignored.
var envMappings = map[string]string{
	"http_port":        "server.port",
	"http_host":        "server.host",
	"http_timeout":     "server.timeout",
	"shutdown_timeout": "server.shutdown_timeout",
	"static_dir":       "server.static_dir",
	"public_url":       "server.public_url",
	"environment":      "server.environment",

	"api_base_url":                  "backend.api_base_url",
	"next_public_api_base_url":      "backend.api_base_url",
	"default_customer_api_base_url": "backend.default_customer.api_base_url",
	"default_customer_menu_id":      "backend.default_customer.menu_id",
	"default_customer_api_key":      "backend.default_customer.api_key",

	"gateway_timeout":            "gateway.timeout",
	"gateway_max_response_bytes": "gateway.max_response_bytes",
	"gateway_user_agent":         "gateway.user_agent",
	"gateway_breaker_disabled":   "gateway.breaker_disabled",
	"gateway_breaker_timeout":    "gateway.breaker_timeout",
	"gateway_coalesce_disabled":  "gateway.coalesce_disabled",

	"session_ttl":              "session.ttl",
	"session_cleanup_interval": "session.cleanup_interval",
	"session_cookie_name":      "session.cookie_name",
	"session_cookie_secure":    "session.cookie_secure",

	"stripe_publishable_key":             "payment.publishable_key",
	"next_public_stripe_publishable_key": "payment.publishable_key",
	"stripe_secret_key":                  "payment.secret_key",
	"payment_currency":                   "payment.currency",
	"checkout_success_url":               "payment.success_url",
	"checkout_cancel_url":                "payment.cancel_url",

	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	"reserved_routes": "tenancy.reserved_routes",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

// normalize lower-cases tenant IDs so lookups match resolved subdomains.
func (c *Config) normalize() {
	if len(c.Customers) == 0 {
		return
	}
	normalized := make(map[string]CustomerConfig, len(c.Customers))
	for id, cc := range c.Customers {
		normalized[strings.ToLower(strings.TrimSpace(id))] = cc
	}
	c.Customers = normalized
}
