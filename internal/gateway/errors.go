// Taptodine - Multi-tenant Restaurant Ordering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/taptodine

package gateway

import (
	"context"
	"errors"
	"fmt"
)

// Operation names used in errors, logs and metrics.
const (
	OpMenu   = "menu"
	OpOrders = "orders"
)

var (
	// ErrMalformedResponse means the upstream body could not be decoded into
	// the expected shape.
	ErrMalformedResponse = errors.New("malformed upstream response")

	// ErrUnavailable means the upstream's circuit breaker rejected the call.
	ErrUnavailable = errors.New("upstream temporarily unavailable")
)

// StatusError is returned when the backend answers with a non-2xx status.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s request failed with status %d", e.Op, e.StatusCode)
}

// IsClientError reports whether the status is a 4xx.
func (e *StatusError) IsClientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

// EnvelopeMessage returns the client-facing message for a failed operation.
func EnvelopeMessage(op string) string {
	switch op {
	case OpMenu:
		return "Failed to fetch menu"
	case OpOrders:
		return "Failed to fetch orders"
	default:
		return "Upstream request failed"
	}
}

// outcome classifies err for the gateway_requests_total metric.
func outcome(err error) string {
	var statusErr *StatusError
	switch {
	case err == nil:
		return "success"
	case errors.As(err, &statusErr):
		return "status"
	case errors.Is(err, ErrMalformedResponse):
		return "decode"
	case errors.Is(err, ErrUnavailable):
		return "rejected"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "transport"
	}
}
