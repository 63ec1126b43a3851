// Vigil - Real-time Behavioral Alerting for Remote Proctoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vigil

package models

import (
	"time"

	"github.com/goccy/go-json"
)

// ClientMessage is the inbound WebSocket envelope.
type ClientMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// FrameError reports a frame the client could not capture or encode.
type FrameError struct {
	Reason string `json:"reason"`
}

// ManualRequest is an operator command for a session.
type ManualRequest struct {
	Type string `json:"type" validate:"required"`
}

// IngestEnvelope is the NATS payload published by perception workers.
type IngestEnvelope struct {
	SessionID string          `json:"session_id" validate:"required"`
	Bundle    json.RawMessage `json:"bundle" validate:"required"`
}

// SessionInfo is the operator-facing view of a live session.
type SessionInfo struct {
	SessionID          string    `json:"session_id"`
	Participant        string    `json:"participant,omitempty"`
	StartTime          time.Time `json:"start_time"`
	FrameCount         int64     `json:"frame_count"`
	ErrorCount         int64     `json:"error_count"`
	LastSuspicionScore int       `json:"last_suspicion_score"`
	EnvironmentScanned bool      `json:"environment_scan_sent"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status            string          `json:"status"`
	Models            map[string]bool `json:"models"`
	CaptionBreaker    string          `json:"caption_breaker"`
	ActiveConnections int             `json:"active_connections"`
	WebSocketClients  int             `json:"websocket_clients"`
	Uptime            string          `json:"uptime"`
}
