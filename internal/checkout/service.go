// Taptodine - Multi-tenant Restaurant Ordering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/taptodine

package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/taptodine/internal/cache"
	"github.com/tomtom215/taptodine/internal/config"
	"github.com/tomtom215/taptodine/internal/logging"
	"github.com/tomtom215/taptodine/internal/metrics"
	"github.com/tomtom215/taptodine/internal/models"
	"github.com/tomtom215/taptodine/internal/store"
)

// sessionTTL bounds how long begun and completed sessions are remembered.
// Hosted sessions expire on the provider side within a day.
const sessionTTL = 24 * time.Hour

// Service runs the checkout flow against a Provider.
type Service struct {
	provider   Provider
	currency   string
	successURL string
	cancelURL  string

	begun     *cache.Cache[ownedCart]
	completed *cache.Cache[ownedOrder]
	group     singleflight.Group
	now       func() time.Time
}

// ownedCart is the cart a session was created for.
type ownedCart struct {
	tenant  string
	visitor string
	items   []models.CartItem
}

// ownedOrder is the order a session completed into.
type ownedOrder struct {
	tenant  string
	visitor string
	order   models.Order
}

func (o ownedOrder) check(tenant, visitor string) error {
	if o.tenant != tenant {
		return ErrSessionMismatch
	}
	if o.visitor != visitor {
		return ErrVisitorMismatch
	}
	return nil
}

// NewService creates a checkout service.
func NewService(cfg config.PaymentConfig, provider Provider) *Service {
	currency := cfg.Currency
	if currency == "" {
		currency = "eur"
	}
	return &Service{
		provider:   provider,
		currency:   currency,
		successURL: cfg.SuccessURL,
		cancelURL:  cfg.CancelURL,
		begun:      cache.New[ownedCart](sessionTTL),
		completed:  cache.New[ownedOrder](sessionTTL),
		now:        time.Now,
	}
}

// Begin creates a hosted payment session for the cart of st on behalf of
// visitor. baseURL is the storefront origin (including the tenant path
// prefix on local hosts) that relative redirect URLs are resolved against.
// The cart as priced here is what Complete later orders.
func (s *Service) Begin(ctx context.Context, st *store.Store, baseURL, visitor string) (*Session, error) {
	state := st.Snapshot()
	if len(state.Cart) == 0 {
		metrics.RecordCheckoutSession("empty_cart")
		return nil, store.ErrEmptyCart
	}

	req := SessionRequest{
		Tenant:            st.Tenant(),
		ClientReferenceID: visitor,
		Currency:          s.currency,
		Items:             lineItems(state.Cart),
		SuccessURL:        resolveURL(baseURL, s.successURL),
		CancelURL:         resolveURL(baseURL, s.cancelURL),
	}

	sess, err := s.provider.CreateSession(ctx, req)
	if err != nil {
		metrics.RecordCheckoutSession("error")
		logging.Ctx(ctx).Error().Err(err).Int("items", len(req.Items)).Msg("Failed to create checkout session")
		return nil, newPaymentError("create session", err)
	}

	s.begun.Set(sess.ID, ownedCart{tenant: st.Tenant(), visitor: visitor, items: state.Cart})
	metrics.RecordCheckoutSession("created")
	logging.Ctx(ctx).Info().Str("checkout_session", sess.ID).Float64("total", state.Total).Msg("Checkout session created")
	return sess, nil
}

// Complete records the order for a paid session started by visitor and
// removes the paid lines from the cart. Completing the same session again
// returns the first order, but only to the visitor that placed it.
func (s *Service) Complete(ctx context.Context, st *store.Store, sessionID, visitor string) (models.Order, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return models.Order{}, ErrMissingSessionID
	}
	if done, ok := s.completed.Get(sessionID); ok {
		if err := done.check(st.Tenant(), visitor); err != nil {
			return models.Order{}, err
		}
		return done.order.Clone(), nil
	}

	key := st.Tenant() + "\x00" + visitor + "\x00" + sessionID
	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		if done, ok := s.completed.Get(sessionID); ok {
			if err := done.check(st.Tenant(), visitor); err != nil {
				return nil, err
			}
			return done.order, nil
		}
		return s.complete(ctx, st, sessionID, visitor)
	})
	if err != nil {
		return models.Order{}, err
	}
	return v.(models.Order).Clone(), nil
}

func (s *Service) complete(ctx context.Context, st *store.Store, sessionID, visitor string) (models.Order, error) {
	sess, err := s.provider.GetSession(ctx, sessionID)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("checkout_session", sessionID).Msg("Failed to confirm checkout session")
		return models.Order{}, newPaymentError("confirm session", err)
	}
	if sess.Tenant != st.Tenant() {
		return models.Order{}, ErrSessionMismatch
	}
	if sess.ClientReferenceID != visitor {
		return models.Order{}, ErrVisitorMismatch
	}
	if !sess.Paid {
		return models.Order{}, ErrNotPaid
	}

	// Order what was priced at Begin; the live cart is only a fallback for
	// sessions begun before a restart.
	var items []models.CartItem
	if begun, ok := s.begun.Get(sessionID); ok {
		items = begun.items
	} else {
		items = st.Snapshot().Cart
	}
	if len(items) == 0 {
		return models.Order{}, fmt.Errorf("complete checkout: %w", store.ErrEmptyCart)
	}
	if paid := cartCents(items); paid != sess.AmountTotal {
		logging.Ctx(ctx).Warn().Str("checkout_session", sessionID).
			Int64("paid_cents", sess.AmountTotal).Int64("cart_cents", paid).Msg("Checkout amount mismatch")
		return models.Order{}, ErrAmountMismatch
	}

	order := models.Order{
		ID:             uuid.NewString(),
		RestaurantName: st.Snapshot().RestaurantName,
		Items:          items,
		Total:          models.CartTotal(items),
		Status:         models.OrderStatusPending,
		CreatedAt:      models.NewTimestamp(s.now().UTC()),
	}
	st.AddOrder(order)
	st.Subtract(items)

	s.begun.Delete(sessionID)
	s.completed.Set(sessionID, ownedOrder{tenant: st.Tenant(), visitor: visitor, order: order})
	metrics.OrdersPlaced.Inc()
	logging.Ctx(ctx).Info().Str("order_id", order.ID).Str("checkout_session", sessionID).
		Float64("total", order.Total).Msg("Order placed")
	return order, nil
}

func cartCents(items []models.CartItem) int64 {
	var cents int64
	for i := range items {
		cents += items[i].LineCents()
	}
	return cents
}

// Sweep forgets begun and completed sessions older than a day.
func (s *Service) Sweep(now time.Time) int {
	return s.begun.Cleanup(now) + s.completed.Cleanup(now)
}

// Serve sweeps remembered sessions hourly until ctx is cancelled. It
// implements suture.Service.
func (s *Service) Serve(ctx context.Context) error {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			s.Sweep(now)
		}
	}
}

// String identifies the service in supervisor logs.
func (s *Service) String() string {
	return "checkout-sweeper"
}

func lineItems(cart []models.CartItem) []LineItem {
	items := make([]LineItem, 0, len(cart))
	for _, c := range cart {
		name := c.Name
		if len(c.Options) > 0 {
			name += " (" + strings.Join(c.Options, ", ") + ")"
		}
		items = append(items, LineItem{
			Name:        name,
			Description: c.Description,
			Image:       c.Image,
			UnitAmount:  models.Cents(c.Price),
			Quantity:    int64(c.Quantity),
		})
	}
	return items
}

// resolveURL resolves a root-relative target against base.
func resolveURL(base, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimRight(base, "/") + target
	}
	return target
}
