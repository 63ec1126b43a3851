// Vigil - Real-time Behavioral Alerting for Remote Proctoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vigil

package websocket

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/tomtom215/vigil/internal/detection"
	"github.com/tomtom215/vigil/internal/logging"
	"github.com/tomtom215/vigil/internal/metrics"
	"github.com/tomtom215/vigil/internal/models"
	"github.com/tomtom215/vigil/internal/validation"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8 << 20 // frames may carry an encoded image
	sendBuffer     = 256
)

// Handler receives the inbound control inputs of a session.
// *detection.Engine implements it.
type Handler interface {
	SubmitFrame(ctx context.Context, sessionID string, raw []byte) error
	SubmitFrameError(ctx context.Context, sessionID, reason string) error
	RequestScan(ctx context.Context, sessionID string) error
	ForwardClientAlert(ctx context.Context, sessionID string, raw json.RawMessage) error
	ClientResponse(sessionID string, raw json.RawMessage)
	CloseSession(sessionID string)
}

// Client is a middleman between one session's websocket connection and
// the hub.
type Client struct {
	sessionID string
	hub       *Hub
	conn      *websocket.Conn
	handler   Handler
	send      chan Message
	log       zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// NewClient creates a client for sessionID.
func NewClient(hub *Hub, conn *websocket.Conn, sessionID string, handler Handler) *Client {
	ctx, cancel := context.WithCancel(logging.ContextWithSessionID(context.Background(), sessionID))
	return &Client{
		sessionID: sessionID,
		hub:       hub,
		conn:      conn,
		handler:   handler,
		send:      make(chan Message, sendBuffer),
		log:       logging.ForSession(sessionID),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// SessionID returns the session this client belongs to.
func (c *Client) SessionID() string { return c.sessionID }

// readPump pumps messages from the connection into the handler. On exit the
// session is closed and the client unregistered.
func (c *Client) readPump() {
	defer func() {
		c.cancel()
		c.handler.CloseSession(c.sessionID)
		select {
		case c.hub.Unregister <- c:
		case <-c.hub.done:
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.log.Error().Err(err).Msg("failed to set read deadline")
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				metrics.WSErrors.WithLabelValues("unexpected_close").Inc()
				c.log.Error().Err(err).Msg("unexpected websocket close error")
			}
			return
		}
		c.dispatch(raw)
	}
}

// dispatch routes one inbound envelope.
func (c *Client) dispatch(raw []byte) {
	var msg models.ClientMessage
	if err := json.Unmarshal(raw, &msg); err != nil || msg.Type == "" {
		metrics.WSErrors.WithLabelValues("malformed").Inc()
		c.reply(MessageTypeError, ErrorData{Error: "malformed message"})
		return
	}

	var err error
	switch msg.Type {
	case MessageTypeFrameSignals:
		err = c.handler.SubmitFrame(c.ctx, c.sessionID, msg.Data)
	case MessageTypeFrameError:
		var fe models.FrameError
		if len(msg.Data) > 0 {
			_ = json.Unmarshal(msg.Data, &fe)
		}
		err = c.handler.SubmitFrameError(c.ctx, c.sessionID, fe.Reason)
	case MessageTypeManualRequest:
		err = c.manualRequest(msg.Data)
	case MessageTypeClientResponse:
		c.handler.ClientResponse(c.sessionID, msg.Data)
	case MessageTypeClientAlert:
		err = c.handler.ForwardClientAlert(c.ctx, c.sessionID, msg.Data)
	case MessageTypePing:
		c.reply(MessageTypePong, nil)
	default:
		metrics.WSMessagesReceived.WithLabelValues("unknown").Inc()
		c.reply(MessageTypeError, ErrorData{Error: "unknown message type: " + msg.Type})
		return
	}
	metrics.WSMessagesReceived.WithLabelValues(msg.Type).Inc()

	if err != nil {
		c.log.Warn().Err(err).Str("type", msg.Type).Msg("inbound message not accepted")
	}
}

// manualRequest handles operator commands sent over the session socket.
// Only scan requests are understood; anything else is logged and ignored.
func (c *Client) manualRequest(data json.RawMessage) error {
	var req models.ManualRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return err
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		return verr
	}
	if req.Type != detection.TypeEnvironmentReq {
		c.log.Info().Str("request_type", req.Type).Msg("ignoring unsupported manual request")
		return nil
	}
	return c.handler.RequestScan(c.ctx, c.sessionID)
}

func (c *Client) reply(messageType string, data interface{}) {
	if err := c.hub.SendToSession(c.sessionID, messageType, data); err != nil {
		c.log.Debug().Err(err).Str("type", messageType).Msg("reply dropped")
	}
}

// writePump pumps messages from the hub to the connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.Error().Err(err).Msg("failed to set write deadline")
				return
			}
			if !ok {
				// The hub closed the channel.
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			payload, err := json.Marshal(message)
			if err != nil {
				metrics.WSErrors.WithLabelValues("marshal").Inc()
				c.log.Error().Err(err).Str("type", message.Type).Msg("failed to marshal message")
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				metrics.WSErrors.WithLabelValues("write").Inc()
				c.log.Error().Err(err).Msg("failed to write message")
				return
			}
			metrics.WSMessagesSent.Inc()

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Start begins reading and writing for the client.
func (c *Client) Start() {
	go c.writePump()
	go c.readPump()
}
