// Taptodine - Multi-tenant Restaurant Ordering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/taptodine

package websocket

import (
	"context"
	"sort"
	"sync"

	"github.com/goccy/go-json"

	"github.com/tomtom215/taptodine/internal/logging"
	"github.com/tomtom215/taptodine/internal/metrics"
	"github.com/tomtom215/taptodine/internal/store"
)

// ShutdownReason identifies why the hub is shutting down.
type ShutdownReason string

const (
	// ShutdownReasonContextCanceled is the normal graceful shutdown path.
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"

	// ShutdownReasonContextDeadline indicates the context deadline was exceeded.
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// Message types for WebSocket communication
const (
	MessageTypeStoreUpdate = "store_update"
	MessageTypePing        = "ping"
	MessageTypePong        = "pong"
)

// Message represents a WebSocket message
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type envelope struct {
	key string
	msg Message
}

// Hub maintains the connected clients of every session and fans store
// changes out to them.
type Hub struct {
	sessions   map[string]map[*Client]bool
	unsub      map[string]func()
	broadcast  chan envelope
	expire     chan string
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		sessions:   make(map[string]map[*Client]bool),
		unsub:      make(map[string]func()),
		broadcast:  make(chan envelope, 256),
		expire:     make(chan string, 64),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Serve runs the hub until ctx is cancelled. It implements suture.Service.
//
// Shutdown is checked first, then client lifecycle events, then broadcasts,
// so a client is always registered before it can miss a message.
func (h *Hub) Serve(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		default:
		}

		select {
		case client := <-h.Register:
			h.register(client)
			continue
		case client := <-h.Unregister:
			h.unregister(client)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		case client := <-h.Register:
			h.register(client)
		case client := <-h.Unregister:
			h.unregister(client)
		case key := <-h.expire:
			h.closeSession(key)
		case env := <-h.broadcast:
			h.broadcastToSession(env.key, env.msg)
		}
	}
}

// String identifies the service in supervisor logs.
func (h *Hub) String() string {
	return "websocket-hub"
}

func (h *Hub) register(client *Client) {
	h.mu.Lock()
	clients, ok := h.sessions[client.key]
	if !ok {
		clients = make(map[*Client]bool)
		h.sessions[client.key] = clients
		key := client.key
		h.unsub[key] = client.store.Subscribe(func(state store.State) {
			h.Broadcast(key, Message{Type: MessageTypeStoreUpdate, Data: state})
		})
	}
	clients[client] = true
	total := h.countLocked()
	h.mu.Unlock()

	// The first frame a client sees is the current state.
	select {
	case client.send <- Message{Type: MessageTypeStoreUpdate, Data: client.store.Snapshot()}:
	default:
	}

	metrics.WSConnections.Set(float64(total))
	logging.Debug().Int("total_clients", total).Msg("websocket client connected")
}

func (h *Hub) unregister(client *Client) {
	h.mu.Lock()
	if h.removeLocked(client) {
		close(client.send)
	}
	total := h.countLocked()
	h.mu.Unlock()

	metrics.WSConnections.Set(float64(total))
	logging.Debug().Int("total_clients", total).Msg("websocket client disconnected")
}

// removeLocked drops client and, for the last client of a session, the
// store subscription. It reports whether client was registered.
func (h *Hub) removeLocked(client *Client) bool {
	clients, ok := h.sessions[client.key]
	if !ok || !clients[client] {
		return false
	}
	delete(clients, client)
	if len(clients) == 0 {
		delete(h.sessions, client.key)
		if cancel, ok := h.unsub[client.key]; ok {
			cancel()
			delete(h.unsub, client.key)
		}
	}
	return true
}

// sortedLocked returns the clients of key in ID order.
func (h *Hub) sortedLocked(key string) []*Client {
	clients := make([]*Client, 0, len(h.sessions[key]))
	for client := range h.sessions[key] {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})
	return clients
}

func (h *Hub) broadcastToSession(key string, message Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var toRemove []*Client
	for _, client := range h.sortedLocked(key) {
		select {
		case client.send <- message:
			metrics.WSMessagesSent.Inc()
		default:
			toRemove = append(toRemove, client)
		}
	}

	for _, client := range toRemove {
		metrics.WSErrors.WithLabelValues("slow_client").Inc()
		h.removeLocked(client)
		close(client.send)
	}
	if len(toRemove) > 0 {
		metrics.WSConnections.Set(float64(h.countLocked()))
	}
}

func (h *Hub) closeSession(key string) {
	h.mu.Lock()
	clients := h.sortedLocked(key)
	for _, client := range clients {
		h.removeLocked(client)
		close(client.send)
	}
	total := h.countLocked()
	h.mu.Unlock()

	if len(clients) > 0 {
		metrics.WSConnections.Set(float64(total))
		logging.Debug().Int("clients_closed", len(clients)).Msg("websocket session expired")
	}
}

func (h *Hub) logGracefulShutdown(ctx context.Context) {
	clientCount := h.GetClientCount()
	h.closeAllClients()

	logging.Info().
		Str("component", "websocket-hub").
		Str("reason", string(getShutdownReason(ctx))).
		Int("clients_closed", clientCount).
		Msg("websocket hub stopped")
}

func getShutdownReason(ctx context.Context) ShutdownReason {
	if ctx.Err() == context.DeadlineExceeded {
		return ShutdownReasonContextDeadline
	}
	return ShutdownReasonContextCanceled
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	keys := make([]string, 0, len(h.sessions))
	for key := range h.sessions {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		for _, client := range h.sortedLocked(key) {
			h.removeLocked(client)
			close(client.send)
		}
	}
	metrics.WSConnections.Set(0)
}

// Broadcast queues message for every client of the session key. The
// message is dropped when the queue is full.
func (h *Hub) Broadcast(key string, message Message) {
	select {
	case h.broadcast <- envelope{key: key, msg: message}:
	default:
		metrics.WSErrors.WithLabelValues("broadcast_dropped").Inc()
		logging.Warn().Str("message_type", message.Type).Msg("broadcast channel full, dropping message")
	}
}

// CloseSession disconnects every client of the session key. It is
// registered as the session expiry hook.
func (h *Hub) CloseSession(key string) {
	select {
	case h.expire <- key:
	default:
		logging.Warn().Msg("session expiry queue full, clients stay connected")
	}
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.countLocked()
}

// SessionClientCount returns the number of clients connected for key.
func (h *Hub) SessionClientCount(key string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[key])
}

func (h *Hub) countLocked() int {
	n := 0
	for _, clients := range h.sessions {
		n += len(clients)
	}
	return n
}

// MarshalMessage converts a message to JSON
func MarshalMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}
