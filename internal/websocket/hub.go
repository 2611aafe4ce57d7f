// BGPWatch - BGP Alert Stream Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bgpwatch

package websocket

import (
	"context"
	"sort"
	"sync"

	"github.com/goccy/go-json"

	"github.com/tomtom215/bgpwatch/internal/logging"
	"github.com/tomtom215/bgpwatch/internal/metrics"
	"github.com/tomtom215/bgpwatch/internal/models"
)

// ShutdownReason identifies why the hub is shutting down.
type ShutdownReason string

const (
	// ShutdownReasonContextCanceled is the normal graceful path (e.g. SIGTERM).
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"

	// ShutdownReasonContextDeadline may indicate a hung operation during shutdown.
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// Message types for WebSocket communication
const (
	MessageTypeSnapshot     = "snapshot"
	MessageTypeAlert        = "alert"
	MessageTypeNotification = "notification"
	MessageTypeMode         = "mode"
	MessageTypePing         = "ping"
	MessageTypePong         = "pong"
)

// Message represents a WebSocket message
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`

	// seq is the store position of an alert message, 1-based. Zero for
	// every other message and for alerts sent outside the sequence.
	seq int
}

// SnapshotFunc returns the payload sent to a newly registered client and the
// number of alerts that payload already contains.
type SnapshotFunc func() (data interface{}, covered int)

// BacklogFunc returns the alerts after the first n, in arrival order.
type BacklogFunc func(n int) []models.Alert

// ModeData is the payload of a mode message.
type ModeData struct {
	Mode string `json:"mode"`
}

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Message
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex

	snapshotMu sync.RWMutex
	snapshot   SnapshotFunc
	backlog    BacklogFunc
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan Message, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// SetSnapshot installs the function whose result is sent to every newly
// registered client. nil disables the snapshot, and with it alert
// sequencing: such clients receive every alert message as queued.
//
// Alert messages whose sequence the client's snapshot already covers are
// not sent to it, so an alert queued before the client registered is not
// shown twice.
func (h *Hub) SetSnapshot(fn SnapshotFunc) {
	h.snapshotMu.Lock()
	defer h.snapshotMu.Unlock()
	h.snapshot = fn
}

// SetBacklog installs the function used to fill a gap in a client's alert
// sequence, which happens when a broadcast was dropped because the hub was
// backed up. nil leaves gaps unfilled.
func (h *Hub) SetBacklog(fn BacklogFunc) {
	h.snapshotMu.Lock()
	defer h.snapshotMu.Unlock()
	h.backlog = fn
}

// String identifies the hub in supervisor events.
func (h *Hub) String() string {
	return "websocket-hub"
}

// Serve adapts RunWithContext to the suture.Service interface.
func (h *Hub) Serve(ctx context.Context) error {
	return h.RunWithContext(ctx)
}

// RunWithContext runs the hub until ctx is cancelled, then closes every
// client and returns ctx.Err().
//
// Selection is priority-ordered: shutdown, then client lifecycle, then
// broadcasts. Client state is always settled before a message goes out.
func (h *Hub) RunWithContext(ctx context.Context) error {
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
		case message := <-h.broadcast:
			h.broadcastToClients(message)
		}
	}
}

func (h *Hub) register(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	total := len(h.clients)
	h.mu.Unlock()

	metrics.WSConnections.Set(float64(total))
	logging.Info().Uint64("client_id", client.id).Int("total_clients", total).Msg("websocket client connected")

	h.snapshotMu.RLock()
	fn := h.snapshot
	h.snapshotMu.RUnlock()
	if fn == nil {
		return
	}

	// The snapshot is taken on the hub goroutine, so every alert message
	// still queued in h.broadcast is handled after it and compared against
	// covered.
	data, covered := fn()
	h.mu.Lock()
	client.sequenced = true
	client.covered = covered
	h.mu.Unlock()

	select {
	case client.send <- Message{Type: MessageTypeSnapshot, Data: data}:
	default:
		metrics.WSErrors.WithLabelValues("send_buffer_full").Inc()
	}
}

func (h *Hub) unregister(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	total := len(h.clients)
	h.mu.Unlock()

	metrics.WSConnections.Set(float64(total))
	logging.Info().Uint64("client_id", client.id).Int("total_clients", total).Msg("websocket client disconnected")
}

// logGracefulShutdown closes all clients and logs the shutdown. ctx.Err() is
// not logged as an error since cancellation is the expected path.
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
	switch ctx.Err() {
	case context.DeadlineExceeded:
		return ShutdownReasonContextDeadline
	default:
		return ShutdownReasonContextCanceled
	}
}

// sortedClients returns clients in ID order. Must be called with mu held.
func (h *Hub) sortedClients() []*Client {
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})
	return clients
}

// broadcastToClients sends message to every client in ID order, dropping
// clients whose buffer is full.
func (h *Hub) broadcastToClients(message Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var toRemove []*Client
	for _, client := range h.sortedClients() {
		var ok bool
		if message.seq > 0 && client.sequenced {
			ok = h.deliverAlert(client, message)
		} else {
			ok = trySend(client, message)
		}
		if !ok {
			toRemove = append(toRemove, client)
		}
	}

	for _, client := range toRemove {
		close(client.send)
		delete(h.clients, client)
		metrics.WSErrors.WithLabelValues("slow_client").Inc()
		logging.Warn().Uint64("client_id", client.id).Msg("dropping slow websocket client")
	}
	if len(toRemove) > 0 {
		metrics.WSConnections.Set(float64(len(h.clients)))
	}
}

// deliverAlert sends a sequenced alert to a client that started from a
// snapshot. Alerts the client already has are skipped; a gap before message
// is filled from the backlog, which also yields message itself. Must be
// called with mu held. Returns false when the client's buffer is full.
func (h *Hub) deliverAlert(client *Client, message Message) bool {
	switch {
	case message.seq <= client.covered:
		return true
	case message.seq == client.covered+1:
		if !trySend(client, message) {
			return false
		}
		client.covered = message.seq
		return true
	}

	h.snapshotMu.RLock()
	backlog := h.backlog
	h.snapshotMu.RUnlock()
	if backlog == nil {
		if !trySend(client, message) {
			return false
		}
		client.covered = message.seq
		return true
	}

	missed := backlog(client.covered)
	logging.Debug().
		Uint64("client_id", client.id).
		Int("from", client.covered+1).
		Int("count", len(missed)).
		Msg("filling websocket alert gap")
	for _, alert := range missed {
		next := Message{Type: MessageTypeAlert, Data: alert, seq: client.covered + 1}
		if !trySend(client, next) {
			return false
		}
		client.covered = next.seq
	}
	return true
}

func trySend(client *Client, message Message) bool {
	select {
	case client.send <- message:
		metrics.WSMessagesSent.Inc()
		return true
	default:
		return false
	}
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.sortedClients() {
		close(client.send)
		delete(h.clients, client)
	}
	metrics.WSConnections.Set(0)
}

// BroadcastJSON queues a message for all clients, dropping it if the hub
// is backed up.
func (h *Hub) BroadcastJSON(messageType string, data interface{}) {
	h.enqueue(Message{Type: messageType, Data: data})
}

func (h *Hub) enqueue(message Message) {
	select {
	case h.broadcast <- message:
	default:
		metrics.WSErrors.WithLabelValues("broadcast_full").Inc()
		logging.Warn().Str("message_type", message.Type).Msg("broadcast channel full, dropping message")
	}
}

// BroadcastAlert pushes one newly received alert. seq is its 1-based
// position in the session store.
func (h *Hub) BroadcastAlert(seq int, alert models.Alert) {
	h.enqueue(Message{Type: MessageTypeAlert, Data: alert, seq: seq})
}

// BroadcastNotification pushes the outcome of a dispatched command.
func (h *Hub) BroadcastNotification(n interface{}) {
	h.BroadcastJSON(MessageTypeNotification, n)
}

// BroadcastMode pushes a display mode change.
func (h *Hub) BroadcastMode(mode string) {
	h.BroadcastJSON(MessageTypeMode, ModeData{Mode: mode})
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// MarshalMessage converts a message to JSON
func MarshalMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}
