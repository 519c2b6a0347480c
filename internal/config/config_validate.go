// Taptodine - Multi-tenant Restaurant Ordering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/taptodine

package config

import (
	"fmt"
	"strings"
	"time"
)

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateBackend,
		c.validateCustomers,
		c.validateGateway,
		c.validateSession,
		c.validatePayment,
		c.validateRateLimits,
		c.validateLogging,
	}
	for _, validate := range validators {
		if err := validate(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if c.Server.PublicURL != "" {
		if err := validateHTTPURL(c.Server.PublicURL, "PUBLIC_URL"); err != nil {
			return err
		}
	}
	switch c.Server.Environment {
	case "development", "production":
		return nil
	default:
		return fmt.Errorf("ENVIRONMENT must be development or production, got %q", c.Server.Environment)
	}
}

func (c *Config) validateBackend() error {
	if c.Backend.APIBaseURL == "" {
		return fmt.Errorf("API_BASE_URL is required")
	}
	if err := validateHTTPURL(c.Backend.APIBaseURL, "API_BASE_URL"); err != nil {
		return err
	}
	return validateCustomer("default_customer", c.Backend.DefaultCustomer)
}

func (c *Config) validateCustomers() error {
	for id, cc := range c.Customers {
		if id == "" || strings.ContainsAny(id, "./ ") {
			return fmt.Errorf("customers: invalid tenant id %q", id)
		}
		if err := validateCustomer("customers."+id, cc); err != nil {
			return err
		}
	}
	return nil
}

func validateCustomer(path string, cc CustomerConfig) error {
	if cc.APIBaseURL == "" {
		return fmt.Errorf("%s.api_base_url is required", path)
	}
	if err := validateHTTPURL(cc.APIBaseURL, path+".api_base_url"); err != nil {
		return err
	}
	if strings.TrimSpace(cc.MenuID) == "" {
		return fmt.Errorf("%s.menu_id is required", path)
	}
	return nil
}

func (c *Config) validateGateway() error {
	if c.Gateway.Timeout < 0 {
		return fmt.Errorf("GATEWAY_TIMEOUT must not be negative")
	}
	if c.Gateway.MaxResponseBytes <= 0 {
		return fmt.Errorf("GATEWAY_MAX_RESPONSE_BYTES must be positive")
	}
	if c.Gateway.BreakerDisabled {
		return nil
	}
	if c.Gateway.BreakerFailureRatio <= 0 || c.Gateway.BreakerFailureRatio > 1 {
		return fmt.Errorf("gateway.breaker_failure_ratio must be in (0, 1], got %v", c.Gateway.BreakerFailureRatio)
	}
	if c.Gateway.BreakerTimeout <= 0 {
		return fmt.Errorf("GATEWAY_BREAKER_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateSession() error {
	if c.Session.TTL < time.Minute {
		return fmt.Errorf("SESSION_TTL must be at least 1m, got %v", c.Session.TTL)
	}
	if c.Session.CleanupInterval <= 0 {
		return fmt.Errorf("SESSION_CLEANUP_INTERVAL must be positive")
	}
	if c.Session.CookieName == "" {
		return fmt.Errorf("SESSION_COOKIE_NAME is required")
	}
	return nil
}

func (c *Config) validatePayment() error {
	if !c.Payment.Enabled() {
		return nil
	}
	if len(c.Payment.Currency) != 3 {
		return fmt.Errorf("PAYMENT_CURRENCY must be a three-letter ISO code, got %q", c.Payment.Currency)
	}
	if err := validateRedirectURL(c.Payment.SuccessURL, "CHECKOUT_SUCCESS_URL"); err != nil {
		return err
	}
	if err := validateRedirectURL(c.Payment.CancelURL, "CHECKOUT_CANCEL_URL"); err != nil {
		return err
	}
	relative := strings.HasPrefix(c.Payment.SuccessURL, "/") || strings.HasPrefix(c.Payment.CancelURL, "/")
	if relative && c.IsProduction() && c.Server.PublicURL == "" {
		return fmt.Errorf("PUBLIC_URL is required in production when checkout redirect URLs are relative")
	}
	return nil
}

const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
		return nil
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
}
