// Taptodine - Multi-tenant Restaurant Ordering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/taptodine

// Package customer maps tenant IDs to the backend that serves them.
//
// Lookups are pure and never fail: an absent or unknown tenant resolves to
// the default configuration.
package customer

import (
	"errors"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/tomtom215/taptodine/internal/config"
)

// ErrNoCustomer is returned when an operation needs a tenant ID and none was given.
var ErrNoCustomer = errors.New("customer id is required")

// Config is one tenant's backend settings.
type Config struct {
	APIBaseURL string
	MenuID     string
	APIKey     string
}

// Registry holds the tenant table. It is immutable after construction.
type Registry struct {
	apiBase  string
	fallback Config
	tenants  map[string]Config
}

// NewRegistry builds a Registry. apiBase is the deployment-wide backend used
// for order history.
func NewRegistry(apiBase string, fallback Config, tenants map[string]Config) *Registry {
	table := make(map[string]Config, len(tenants))
	for id, c := range tenants {
		table[strings.ToLower(id)] = normalize(c)
	}
	return &Registry{
		apiBase:  strings.TrimRight(apiBase, "/"),
		fallback: normalize(fallback),
		tenants:  table,
	}
}

// NewRegistryFromConfig builds a Registry from application configuration.
func NewRegistryFromConfig(cfg *config.Config) *Registry {
	tenants := make(map[string]Config, len(cfg.Customers))
	for id, cc := range cfg.Customers {
		tenants[id] = fromConfig(cc)
	}
	return NewRegistry(cfg.Backend.APIBaseURL, fromConfig(cfg.Backend.DefaultCustomer), tenants)
}

func fromConfig(cc config.CustomerConfig) Config {
	return Config{APIBaseURL: cc.APIBaseURL, MenuID: cc.MenuID, APIKey: cc.APIKey}
}

func normalize(c Config) Config {
	c.APIBaseURL = strings.TrimRight(c.APIBaseURL, "/")
	c.MenuID = strings.TrimSpace(c.MenuID)
	return c
}

// Lookup returns the configuration for id, or the default when id is empty
// or unknown.
func (r *Registry) Lookup(id string) Config {
	if c, ok := r.tenants[strings.ToLower(id)]; ok && id != "" {
		return c
	}
	return r.fallback
}

// Known reports whether id has its own entry in the tenant table.
func (r *Registry) Known(id string) bool {
	_, ok := r.tenants[strings.ToLower(id)]
	return ok && id != ""
}

// IDs returns the configured tenant IDs in sorted order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.tenants))
	for id := range r.tenants {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// MenuEndpoint returns {apiBaseUrl}/api/menu/{menuId} for id.
func (r *Registry) MenuEndpoint(id string) string {
	c := r.Lookup(id)
	return c.APIBaseURL + "/api/menu/" + url.PathEscape(c.MenuID)
}

// OrdersEndpoint returns {apiBase}/customers/{id}/orders. Order history is
// per customer, so there is no default.
func (r *Registry) OrdersEndpoint(id string) (string, error) {
	if id == "" {
		return "", ErrNoCustomer
	}
	return r.apiBase + "/customers/" + url.PathEscape(id) + "/orders", nil
}

// RequestHeaders returns the headers sent to the backend for id. The
// Authorization header is present only when the tenant has an API key.
func (r *Registry) RequestHeaders(id string) http.Header {
	h := http.Header{}
	h.Set("Accept", "application/json")
	h.Set("Content-Type", "application/json")
	if key := r.Lookup(id).APIKey; key != "" {
		h.Set("Authorization", "Bearer "+key)
	}
	return h
}
