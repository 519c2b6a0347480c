// Taptodine - Multi-tenant Restaurant Ordering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/taptodine

package gateway

import (
	"errors"
	"fmt"
	"sync"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/taptodine/internal/config"
	"github.com/tomtom215/taptodine/internal/logging"
	"github.com/tomtom215/taptodine/internal/metrics"
)

// breakerSet holds one circuit breaker per upstream host, created lazily.
//
// The breakers run on real time; tests drive them with failing calls rather
// than a fake clock.
type breakerSet struct {
	cfg      config.GatewayConfig
	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker[[]byte]
}

func newBreakerSet(cfg config.GatewayConfig) *breakerSet {
	return &breakerSet{cfg: cfg, breakers: make(map[string]*gobreaker.CircuitBreaker[[]byte])}
}

func (bs *breakerSet) get(host string) *gobreaker.CircuitBreaker[[]byte] {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	if cb, ok := bs.breakers[host]; ok {
		return cb
	}
	cb := bs.newBreaker("gateway:" + host)
	bs.breakers[host] = cb
	return cb
}

func (bs *breakerSet) newBreaker(name string) *gobreaker.CircuitBreaker[[]byte] {
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	minRequests := bs.cfg.BreakerMinRequests
	failureRatio := bs.cfg.BreakerFailureRatio

	return gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        name,
		MaxRequests: bs.cfg.BreakerMaxRequests,
		Interval:    bs.cfg.BreakerInterval,
		Timeout:     bs.cfg.BreakerTimeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < minRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			if ratio >= failureRatio {
				logging.Warn().Str("breaker", name).Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", ratio*100).Msg("[CIRCUIT BREAKER] Opening circuit")
				return true
			}
			return false
		},

		// A 4xx is the backend answering correctly about a bad request
		// (unknown menu, unknown customer); it says nothing about its health.
		IsSuccessful: func(err error) bool {
			var statusErr *StatusError
			if errors.As(err, &statusErr) {
				return statusErr.IsClientError()
			}
			return err == nil
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("[CIRCUIT BREAKER] State transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})
}

// execute runs fn through the breaker for host. Rejections are reported as
// ErrUnavailable.
func (bs *breakerSet) execute(host string, fn func() ([]byte, error)) ([]byte, error) {
	if bs.cfg.BreakerDisabled {
		return fn()
	}

	cb := bs.get(host)
	body, err := cb.Execute(fn)
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(cb.Name(), "rejected").Inc()
		return nil, fmt.Errorf("%w: %s: %w", ErrUnavailable, host, err)
	case err != nil:
		metrics.CircuitBreakerRequests.WithLabelValues(cb.Name(), "failure").Inc()
		return nil, err
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(cb.Name(), "success").Inc()
		return body, nil
	}
}

// states reports the state of every breaker created so far.
func (bs *breakerSet) states() map[string]string {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	out := make(map[string]string, len(bs.breakers))
	for host, cb := range bs.breakers {
		out[host] = cb.State().String()
	}
	return out
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
