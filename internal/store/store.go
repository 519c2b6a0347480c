// Taptodine - Multi-tenant Restaurant Ordering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/taptodine

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tomtom215/taptodine/internal/logging"
	"github.com/tomtom215/taptodine/internal/metrics"
	"github.com/tomtom215/taptodine/internal/models"
)

var (
	// ErrInvalidQuantity is returned by Add for quantities below 1.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")

	// ErrEmptyCart is returned when an order is requested for an empty cart.
	ErrEmptyCart = errors.New("cart is empty")
)

// Messages recorded in State.Error when a refresh fails.
const (
	MsgMenuFailed   = "Failed to fetch menu"
	MsgOrdersFailed = "Failed to fetch orders"
)

// Source loads menus and order history for a tenant.
type Source interface {
	FetchMenu(ctx context.Context, tenant string) (*models.Menu, error)
	FetchOrders(ctx context.Context, tenant string) ([]models.Order, error)
}

// State is an immutable snapshot of a Store.
type State struct {
	Cart           []models.CartItem `json:"cart"`
	Menu           []models.MenuItem `json:"menu"`
	Orders         []models.Order    `json:"orders"`
	IsLoading      bool              `json:"isLoading"`
	Error          string            `json:"error,omitempty"`
	RestaurantName string            `json:"restaurantName"`
	Total          float64           `json:"total"`
	ItemCount      int               `json:"itemCount"`
	// Version increases with every change; observers use it to discard
	// snapshots that arrive out of order.
	Version uint64 `json:"version"`
}

// Store is the cart, menu and order state of one visitor of one tenant.
type Store struct {
	tenant string
	source Source

	mu             sync.Mutex
	cart           []models.CartItem
	menu           []models.MenuItem
	orders         []models.Order
	loading        bool
	errMsg         string
	restaurantName string
	version        uint64

	observers    map[uint64]func(State)
	nextObserver uint64
}

// New creates an empty Store for tenant. An empty tenant uses the default
// customer configuration of source.
func New(tenant string, source Source) *Store {
	return &Store{
		tenant:    tenant,
		source:    source,
		cart:      []models.CartItem{},
		menu:      []models.MenuItem{},
		orders:    []models.Order{},
		observers: make(map[uint64]func(State)),
	}
}

// Tenant returns the tenant the store was created for.
func (s *Store) Tenant() string {
	return s.tenant
}

// Add puts quantity units of item in the cart. An item already in the cart
// has its quantity increased; its originally selected options are kept.
func (s *Store) Add(item models.MenuItem, quantity int, options []string) (State, error) {
	if quantity < 1 {
		return s.Snapshot(), ErrInvalidQuantity
	}

	return s.update("add", func() {
		if i := s.indexOf(item.ID); i >= 0 {
			s.cart[i].Quantity += quantity
			return
		}
		entry := models.CartItem{MenuItem: item.Clone(), Quantity: quantity}
		if len(options) > 0 {
			entry.Options = append([]string(nil), options...)
		}
		s.cart = append(s.cart, entry)
	}), nil
}

// Remove deletes the cart entry for itemID. Removing an absent id is a no-op.
func (s *Store) Remove(itemID string) State {
	return s.update("remove", func() {
		s.removeLocked(itemID)
	})
}

// SetQuantity replaces the quantity of the cart entry for itemID. A quantity
// of zero or less removes the entry. Absent ids are ignored.
func (s *Store) SetQuantity(itemID string, quantity int) State {
	return s.update("set_quantity", func() {
		if quantity <= 0 {
			s.removeLocked(itemID)
			return
		}
		if i := s.indexOf(itemID); i >= 0 {
			s.cart[i].Quantity = quantity
		}
	})
}

// Clear empties the cart.
func (s *Store) Clear() State {
	return s.update("clear", func() {
		s.cart = []models.CartItem{}
	})
}

// Subtract lowers each matching cart entry by the quantity in lines,
// removing entries that reach zero. Lines for absent ids are ignored.
func (s *Store) Subtract(lines []models.CartItem) State {
	return s.update("subtract", func() {
		for _, line := range lines {
			i := s.indexOf(line.ID)
			if i < 0 {
				continue
			}
			if s.cart[i].Quantity <= line.Quantity {
				s.removeLocked(line.ID)
				continue
			}
			s.cart[i].Quantity -= line.Quantity
		}
	})
}

// AddOrder appends an order to the order history. The order is not checked
// against the cart.
func (s *Store) AddOrder(order models.Order) State {
	return s.update("add_order", func() {
		s.orders = append(s.orders, order.Clone())
	})
}

// FetchMenu refreshes the menu from the source. On failure the previous menu
// is kept and State.Error carries a message for the visitor.
//
// The source call is detached from ctx cancellation: a refresh that has
// started always lands in the store.
func (s *Store) FetchMenu(ctx context.Context) (State, error) {
	s.beginFetch()

	menu, err := s.source.FetchMenu(context.WithoutCancel(ctx), s.tenant)
	metrics.RecordStoreFetch("menu", err)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("tenant", s.tenant).Msg("Failed to refresh menu")
		return s.failFetch(MsgMenuFailed), err
	}

	return s.update("fetch_menu", func() {
		s.menu = cloneMenuItems(menu.Items)
		s.restaurantName = menu.RestaurantName
		s.loading = false
	}), nil
}

// FetchOrders refreshes the order history from the source with the same
// loading and error contract as FetchMenu.
func (s *Store) FetchOrders(ctx context.Context) (State, error) {
	s.beginFetch()

	orders, err := s.source.FetchOrders(context.WithoutCancel(ctx), s.tenant)
	metrics.RecordStoreFetch("orders", err)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("tenant", s.tenant).Msg("Failed to refresh orders")
		return s.failFetch(MsgOrdersFailed), err
	}

	return s.update("fetch_orders", func() {
		s.orders = cloneOrders(orders)
		s.loading = false
	}), nil
}

func (s *Store) beginFetch() {
	s.update("", func() {
		s.loading = true
		s.errMsg = ""
	})
}

func (s *Store) failFetch(msg string) State {
	return s.update("", func() {
		s.errMsg = msg
		s.loading = false
	})
}

// Snapshot returns the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Total returns the cart total.
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.CartTotal(s.cart)
}

// MenuItem looks up an item of the loaded menu.
func (s *Store) MenuItem(id string) (models.MenuItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.menu {
		if s.menu[i].ID == id {
			return s.menu[i].Clone(), true
		}
	}
	return models.MenuItem{}, false
}

// NewOrder builds a pending order from a copy of the current cart. The
// store is not modified.
func (s *Store) NewOrder(id string, now time.Time) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.cart) == 0 {
		return models.Order{}, ErrEmptyCart
	}
	return models.Order{
		ID:             id,
		RestaurantName: s.restaurantName,
		Items:          cloneCart(s.cart),
		Total:          models.CartTotal(s.cart),
		Status:         models.OrderStatusPending,
		CreatedAt:      models.NewTimestamp(now.UTC()),
	}, nil
}

// Subscribe registers fn to receive the state after every change. The
// returned function removes the registration.
func (s *Store) Subscribe(fn func(State)) (cancel func()) {
	s.mu.Lock()
	id := s.nextObserver
	s.nextObserver++
	s.observers[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.observers, id)
			s.mu.Unlock()
		})
	}
}

// update applies fn under the lock, then notifies observers outside it.
// An empty op skips the cart operation metric.
func (s *Store) update(op string, fn func()) State {
	s.mu.Lock()
	fn()
	s.version++
	state := s.snapshotLocked()
	observers := make([]func(State), 0, len(s.observers))
	for _, o := range s.observers {
		observers = append(observers, o)
	}
	s.mu.Unlock()

	if op != "" {
		metrics.RecordCartOperation(op)
	}
	for _, o := range observers {
		o(state)
	}
	return state
}

func (s *Store) indexOf(itemID string) int {
	for i := range s.cart {
		if s.cart[i].ID == itemID {
			return i
		}
	}
	return -1
}

func (s *Store) removeLocked(itemID string) {
	if i := s.indexOf(itemID); i >= 0 {
		s.cart = append(s.cart[:i:i], s.cart[i+1:]...)
	}
}

func (s *Store) snapshotLocked() State {
	return State{
		Cart:           cloneCart(s.cart),
		Menu:           cloneMenuItems(s.menu),
		Orders:         cloneOrders(s.orders),
		IsLoading:      s.loading,
		Error:          s.errMsg,
		RestaurantName: s.restaurantName,
		Total:          models.CartTotal(s.cart),
		ItemCount:      models.CartCount(s.cart),
		Version:        s.version,
	}
}

func cloneCart(items []models.CartItem) []models.CartItem {
	out := make([]models.CartItem, len(items))
	for i := range items {
		out[i] = items[i].Clone()
	}
	return out
}

func cloneMenuItems(items []models.MenuItem) []models.MenuItem {
	out := make([]models.MenuItem, len(items))
	for i := range items {
		out[i] = items[i].Clone()
	}
	return out
}

func cloneOrders(orders []models.Order) []models.Order {
	out := make([]models.Order, len(orders))
	for i := range orders {
		out[i] = orders[i].Clone()
	}
	return out
}
