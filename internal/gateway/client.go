// Taptodine - Multi-tenant Restaurant Ordering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/taptodine

package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/taptodine/internal/config"
	"github.com/tomtom215/taptodine/internal/customer"
	"github.com/tomtom215/taptodine/internal/logging"
	"github.com/tomtom215/taptodine/internal/metrics"
	"github.com/tomtom215/taptodine/internal/models"
)

// maxErrorBodySize caps how much of a failed response is kept for logs.
const maxErrorBodySize = 4 * 1024

// Client fetches tenant menus and orders. It is safe for concurrent use.
type Client struct {
	registry  *customer.Registry
	http      *http.Client
	breakers  *breakerSet
	group     singleflight.Group
	coalesce  bool
	maxBytes  int64
	userAgent string
}

// NewClient creates a gateway client for the tenants in registry.
func NewClient(cfg config.GatewayConfig, registry *customer.Registry) *Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.MaxIdleConnsPerHost > 0 {
		transport.MaxIdleConnsPerHost = cfg.MaxIdleConnsPerHost
	}
	if cfg.IdleConnTimeout > 0 {
		transport.IdleConnTimeout = cfg.IdleConnTimeout
	}

	maxBytes := cfg.MaxResponseBytes
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}

	return &Client{
		registry:  registry,
		http:      &http.Client{Timeout: cfg.Timeout, Transport: transport},
		breakers:  newBreakerSet(cfg),
		coalesce:  !cfg.CoalesceDisabled,
		maxBytes:  maxBytes,
		userAgent: cfg.UserAgent,
	}
}

// FetchMenu fetches and normalizes the menu of tenant. An empty tenant
// fetches the default menu.
func (c *Client) FetchMenu(ctx context.Context, tenant string) (*models.Menu, error) {
	endpoint := c.registry.MenuEndpoint(tenant)

	body, err := c.get(ctx, OpMenu, endpoint, c.registry.RequestHeaders(tenant))
	if err != nil {
		return nil, err
	}

	var up upstreamMenu
	if err := json.Unmarshal(body, &up); err != nil {
		return nil, fmt.Errorf("%w: decode menu: %w", ErrMalformedResponse, err)
	}
	return normalizeMenu(ctx, &up)
}

// FetchOrders fetches the order history of tenant. Orders are per customer,
// so an empty tenant yields customer.ErrNoCustomer without a request.
func (c *Client) FetchOrders(ctx context.Context, tenant string) ([]models.Order, error) {
	endpoint, err := c.registry.OrdersEndpoint(tenant)
	if err != nil {
		return nil, err
	}

	body, err := c.get(ctx, OpOrders, endpoint, c.registry.RequestHeaders(tenant))
	if err != nil {
		return nil, err
	}

	var up upstreamOrders
	if err := json.Unmarshal(body, &up); err != nil {
		return nil, fmt.Errorf("%w: decode orders: %w", ErrMalformedResponse, err)
	}
	return normalizeOrders(&up), nil
}

// BreakerStates reports the circuit breaker state per upstream host.
func (c *Client) BreakerStates() map[string]string {
	return c.breakers.states()
}

// get performs a GET and returns the raw body of a 2xx response. Identical
// concurrent requests share one upstream call; each caller still observes
// its own context.
func (c *Client) get(ctx context.Context, op, endpoint string, header http.Header) ([]byte, error) {
	if !c.coalesce {
		return c.fetch(ctx, op, endpoint, header)
	}

	key := op + " " + endpoint + " " + header.Get("Authorization")
	ch := c.group.DoChan(key, func() (interface{}, error) {
		// The shared call must not die with whichever caller arrived first.
		return c.fetch(context.WithoutCancel(ctx), op, endpoint, header)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Shared {
			metrics.GatewayCoalescedRequests.WithLabelValues(op).Inc()
		}
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

func (c *Client) fetch(ctx context.Context, op, endpoint string, header http.Header) ([]byte, error) {
	host := endpoint
	if u, err := url.Parse(endpoint); err == nil {
		host = u.Host
	}

	start := time.Now()
	body, err := c.breakers.execute(host, func() ([]byte, error) {
		return c.do(ctx, op, endpoint, header)
	})
	metrics.RecordGatewayRequest(op, outcome(err), time.Since(start))

	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("operation", op).Str("host", host).
			Dur("duration", time.Since(start)).Msg("Upstream request failed")
		return nil, err
	}
	return body, nil
}

func (c *Client) do(ctx context.Context, op, endpoint string, header http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", op, err)
	}
	req.Header = header.Clone()
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Op: op, StatusCode: resp.StatusCode, Body: readBodyForError(resp.Body)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", op, err)
	}
	if int64(len(body)) > c.maxBytes {
		return nil, fmt.Errorf("%w: %s response exceeds %d bytes", ErrMalformedResponse, op, c.maxBytes)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("%w: empty %s response", ErrMalformedResponse, op)
	}
	return body, nil
}

// readBodyForError keeps the start of an error body for diagnostics.
func readBodyForError(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return "(failed to read response body)"
	}
	return string(body)
}
