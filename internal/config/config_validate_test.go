// Taptodine - Multi-tenant Restaurant Ordering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/taptodine

package config

import (
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults",
			mutate: func(*Config) {},
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "HTTP_PORT",
		},
		{
			name:    "unknown environment",
			mutate:  func(c *Config) { c.Server.Environment = "staging" },
			wantErr: "ENVIRONMENT",
		},
		{
			name:    "backend url without scheme",
			mutate:  func(c *Config) { c.Backend.APIBaseURL = "api.example.com" },
			wantErr: "API_BASE_URL",
		},
		{
			name: "tenant missing menu id",
			mutate: func(c *Config) {
				c.Customers["bistro"] = CustomerConfig{APIBaseURL: "https://bistro.example.com"}
			},
			wantErr: "customers.bistro.menu_id",
		},
		{
			name: "tenant id with dot",
			mutate: func(c *Config) {
				c.Customers["a.b"] = CustomerConfig{APIBaseURL: "https://x.example.com", MenuID: "1"}
			},
			wantErr: "invalid tenant id",
		},
		{
			name: "payment with bad currency",
			mutate: func(c *Config) {
				c.Payment.SecretKey = "sk_test"
				c.Payment.Currency = "euro"
			},
			wantErr: "PAYMENT_CURRENCY",
		},
		{
			name: "payment with protocol-relative success url",
			mutate: func(c *Config) {
				c.Payment.SecretKey = "sk_test"
				c.Payment.SuccessURL = "//evil.example.com/success"
			},
			wantErr: "CHECKOUT_SUCCESS_URL",
		},
		{
			name: "payment with absolute urls",
			mutate: func(c *Config) {
				c.Payment.SecretKey = "sk_test"
				c.Payment.SuccessURL = "https://shop.example.com/success"
				c.Payment.CancelURL = "https://shop.example.com/checkout"
			},
		},
		{
			name: "production payment needs public url",
			mutate: func(c *Config) {
				c.Server.Environment = "production"
				c.Payment.SecretKey = "sk_live"
			},
			wantErr: "PUBLIC_URL is required",
		},
		{
			name: "production payment with public url",
			mutate: func(c *Config) {
				c.Server.Environment = "production"
				c.Server.PublicURL = "https://example.com"
				c.Payment.SecretKey = "sk_live"
			},
		},
		{
			name:    "public url without scheme",
			mutate:  func(c *Config) { c.Server.PublicURL = "example.com" },
			wantErr: "PUBLIC_URL",
		},
		{
			name:    "rate limit window too small",
			mutate:  func(c *Config) { c.Security.RateLimitWindow = 0 },
			wantErr: "RATE_LIMIT_WINDOW",
		},
		{
			name: "rate limit disabled skips bounds",
			mutate: func(c *Config) {
				c.Security.RateLimitDisabled = true
				c.Security.RateLimitReqs = 0
			},
		},
		{
			name:    "breaker ratio above one",
			mutate:  func(c *Config) { c.Gateway.BreakerFailureRatio = 1.5 },
			wantErr: "breaker_failure_ratio",
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "LOG_FORMAT",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestServerAddr(t *testing.T) {
	t.Parallel()

	s := ServerConfig{Host: "127.0.0.1", Port: 3000}
	if got := s.Addr(); got != "127.0.0.1:3000" {
		t.Errorf("Addr() = %q", got)
	}
}
