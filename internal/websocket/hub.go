// Vigil - Real-time Behavioral Alerting for Remote Proctoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vigil

package websocket

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/tomtom215/vigil/internal/logging"
	"github.com/tomtom215/vigil/internal/metrics"
)

var (
	// ErrClientNotFound is returned when no connection is attached for a session.
	ErrClientNotFound = errors.New("no connection for session")

	// ErrSessionAttached is returned when a session already has a connection.
	ErrSessionAttached = errors.New("session already has a connection")

	// ErrSendBufferFull is returned when a client is not draining its queue.
	ErrSendBufferFull = errors.New("client send buffer full")

	// ErrHubStopped is returned for registrations after shutdown.
	ErrHubStopped = errors.New("websocket hub stopped")
)

// ShutdownReason identifies why the hub is shutting down.
type ShutdownReason string

const (
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// Message types for WebSocket communication.
const (
	MessageTypeFrameSignals   = "frame_signals"
	MessageTypeFrameError     = "frame_error"
	MessageTypeManualRequest  = "manual_request"
	MessageTypeClientResponse = "client_response"
	MessageTypeClientAlert    = "client_alert"
	MessageTypePing           = "ping"
	MessageTypePong           = "pong"
	MessageTypeError          = "error"
)

// Message is the outbound envelope.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// ErrorData is the payload of an "error" message.
type ErrorData struct {
	Error string `json:"error"`
}

// Hub tracks one connection per session and routes outbound messages to it.
type Hub struct {
	clients    map[string]*Client
	Unregister chan *Client
	done       chan struct{}
	stopOnce   sync.Once
	mu         sync.RWMutex
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		Unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Register attaches a client to its session. It is synchronous so that
// anything sent to the session right after registration reaches the client.
func (h *Hub) Register(c *Client) error {
	select {
	case <-h.done:
		return ErrHubStopped
	default:
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, exists := h.clients[c.sessionID]; exists {
		return fmt.Errorf("%w: %s", ErrSessionAttached, c.sessionID)
	}
	h.clients[c.sessionID] = c
	metrics.WSConnections.Set(float64(len(h.clients)))
	logging.Info().Str("session_id", c.sessionID).Int("total_clients", len(h.clients)).Msg("websocket client connected")
	return nil
}

// RunWithContext processes disconnects until ctx is canceled, then closes
// every remaining client.
func (h *Hub) RunWithContext(ctx context.Context) error {
	for {
		// Shutdown wins over pending disconnects.
		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		default:
		}

		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		case client := <-h.Unregister:
			h.remove(client)
		}
	}
}

// Serve satisfies suture.Service.
func (h *Hub) Serve(ctx context.Context) error {
	return h.RunWithContext(ctx)
}

func (h *Hub) String() string { return "websocket-hub" }

// remove detaches c if it is still the session's current client.
func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if cur, ok := h.clients[c.sessionID]; ok && cur == c {
		delete(h.clients, c.sessionID)
		close(c.send)
		metrics.WSConnections.Set(float64(len(h.clients)))
		logging.Info().Str("session_id", c.sessionID).Int("total_clients", len(h.clients)).Msg("websocket client disconnected")
	}
}

// SendToSession queues a message for the session's connection without
// blocking. It implements detection.Broadcaster.
func (h *Hub) SendToSession(sessionID, messageType string, data interface{}) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	c, ok := h.clients[sessionID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrClientNotFound, sessionID)
	}
	select {
	case c.send <- Message{Type: messageType, Data: data}:
		return nil
	default:
		metrics.WSErrors.WithLabelValues("send_buffer_full").Inc()
		return fmt.Errorf("%w: %s", ErrSendBufferFull, sessionID)
	}
}

// GetClientCount returns the number of connected clients.
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) shutdown(ctx context.Context) {
	h.stopOnce.Do(func() { close(h.done) })
	count := h.closeAllClients()

	// Context cancellation is the normal path, so no error field here.
	logging.Info().
		Str("component", "websocket-hub").
		Str("reason", string(getShutdownReason(ctx))).
		Int("clients_closed", count).
		Msg("websocket hub stopped")
}

func getShutdownReason(ctx context.Context) ShutdownReason {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ShutdownReasonContextDeadline
	}
	return ShutdownReasonContextCanceled
}

// closeAllClients closes every client in session ID order.
func (h *Hub) closeAllClients() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	ids := make([]string, 0, len(h.clients))
	for id := range h.clients {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		close(h.clients[id].send)
		delete(h.clients, id)
	}
	metrics.WSConnections.Set(0)
	return len(ids)
}

// Detach removes c immediately. Used when a connection is rejected after
// registration.
func (h *Hub) Detach(c *Client) {
	h.remove(c)
}

// Connected reports whether sessionID has a live connection.
func (h *Hub) Connected(sessionID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[sessionID]
	return ok
}
