// Taptodine - Multi-tenant Restaurant Ordering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/taptodine

package session

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/taptodine/internal/cache"
	"github.com/tomtom215/taptodine/internal/config"
	"github.com/tomtom215/taptodine/internal/logging"
	"github.com/tomtom215/taptodine/internal/metrics"
	"github.com/tomtom215/taptodine/internal/store"
	"github.com/tomtom215/taptodine/internal/tenant"
)

// DefaultTenant names the session scope of requests without a tenant.
const DefaultTenant = "_default"

// Session is the cart session of one visitor at one tenant.
type Session struct {
	Key     string
	Tenant  string
	Visitor string
	Store   *store.Store
}

// Key returns the registry key for a visitor at tenant.
func Key(tenantID, visitor string) string {
	if tenantID == "" {
		tenantID = DefaultTenant
	}
	return tenantID + ":" + visitor
}

// Manager owns the visitor stores.
type Manager struct {
	stores          *cache.Cache[*store.Store]
	source          store.Source
	cookieName      string
	cookieSecure    bool
	ttl             time.Duration
	cleanupInterval time.Duration

	mu       sync.RWMutex
	onExpire []func(key string)
}

// NewManager creates a Manager whose stores load menus and orders from source.
func NewManager(cfg config.SessionConfig, source store.Source) *Manager {
	m := &Manager{
		source:          source,
		cookieName:      cfg.CookieName,
		cookieSecure:    cfg.CookieSecure,
		ttl:             cfg.TTL,
		cleanupInterval: cfg.CleanupInterval,
	}
	if m.cookieName == "" {
		m.cookieName = "tt_session"
	}
	if m.cleanupInterval <= 0 {
		m.cleanupInterval = 5 * time.Minute
	}
	m.stores = cache.New[*store.Store](cfg.TTL,
		cache.WithSliding[*store.Store](),
		cache.WithOnEvict(m.expired),
	)
	return m
}

// OnExpire registers fn to be called with the key of every expired session.
func (m *Manager) OnExpire(fn func(key string)) {
	m.mu.Lock()
	m.onExpire = append(m.onExpire, fn)
	m.mu.Unlock()
}

// Get returns the store of visitor at tenantID, creating it on first use.
func (m *Manager) Get(tenantID, visitor string) *store.Store {
	s, created := m.stores.GetOrCreate(Key(tenantID, visitor), func() *store.Store {
		return store.New(tenantID, m.source)
	})
	if created {
		metrics.SessionsCreated.Inc()
		metrics.SessionsActive.Set(float64(m.stores.Len()))
	}
	return s
}

// Lookup returns an existing store without creating one.
func (m *Manager) Lookup(key string) (*store.Store, bool) {
	return m.stores.Get(key)
}

// Active returns the number of live sessions.
func (m *Manager) Active() int {
	return m.stores.Len()
}

// Sweep drops every session idle for longer than the TTL.
func (m *Manager) Sweep(now time.Time) int {
	removed := m.stores.Cleanup(now)
	metrics.SessionsActive.Set(float64(m.stores.Len()))
	return removed
}

func (m *Manager) expired(key string, _ *store.Store) {
	metrics.SessionsExpired.Inc()

	m.mu.RLock()
	hooks := append([]func(string){}, m.onExpire...)
	m.mu.RUnlock()
	for _, fn := range hooks {
		fn(key)
	}
}

// Serve sweeps expired sessions until ctx is cancelled. It implements
// suture.Service.
func (m *Manager) Serve(ctx context.Context) error {
	logger := logging.WithComponent("session")
	ticker := time.NewTicker(m.cleanupInterval)
	defer ticker.Stop()

	logger.Info().Dur("ttl", m.ttl).Dur("interval", m.cleanupInterval).Msg("Session janitor started")
	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Session janitor stopped")
			return ctx.Err()
		case now := <-ticker.C:
			if removed := m.Sweep(now); removed > 0 {
				logger.Debug().Int("removed", removed).Int("active", m.Active()).Msg("Expired sessions swept")
			}
		}
	}
}

// String identifies the service in supervisor logs.
func (m *Manager) String() string {
	return "session-janitor"
}

type contextKey struct{}

// WithSession returns a context carrying sess.
func WithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, sess)
}

// FromContext returns the session attached by Middleware.
func FromContext(ctx context.Context) (*Session, bool) {
	sess, ok := ctx.Value(contextKey{}).(*Session)
	return sess, ok && sess != nil
}

// Middleware attaches the visitor's session for the request's tenant,
// issuing a visitor cookie when the request has none. It must run after
// the tenant resolver.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		visitor := m.visitorID(r)
		if visitor == "" {
			visitor = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     m.cookieName,
				Value:    visitor,
				Path:     "/",
				MaxAge:   int(m.ttl / time.Second),
				HttpOnly: true,
				Secure:   m.cookieSecure,
				SameSite: http.SameSiteLaxMode,
			})
		}

		tenantID := tenant.FromRequest(r)
		sess := &Session{
			Key:     Key(tenantID, visitor),
			Tenant:  tenantID,
			Visitor: visitor,
			Store:   m.Get(tenantID, visitor),
		}

		ctx := WithSession(r.Context(), sess)
		ctx = logging.ContextWithSession(ctx, visitor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// visitorID returns the visitor cookie value if it holds a valid UUID.
func (m *Manager) visitorID(r *http.Request) string {
	c, err := r.Cookie(m.cookieName)
	if err != nil {
		return ""
	}
	id, err := uuid.Parse(c.Value)
	if err != nil {
		return ""
	}
	return id.String()
}
