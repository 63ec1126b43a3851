// Vigil - Real-time Behavioral Alerting for Remote Proctoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vigil

package detection

import (
	"context"
	"time"

	"github.com/tomtom215/vigil/internal/behavior"
	"github.com/tomtom215/vigil/internal/caption"
)

// Alert type tags. Most alerts carry no tag; clients key UI behavior off
// the ones that do.
const (
	TypeSessionReady   = "session_ready"
	TypeEnvironmentReq = "request_360_scan"
)

// AlertKind classifies alerts for metrics and notifier routing.
// It is not part of the wire format.
type AlertKind string

const (
	AlertGaze             AlertKind = "gaze"
	AlertMultiPerson      AlertKind = "multi_person"
	AlertRiskObject       AlertKind = "risk_object"
	AlertHighSuspicion    AlertKind = "high_suspicion"
	AlertEnvironmentScan  AlertKind = "environment_scan"
	AlertSessionReady     AlertKind = "session_ready"
	AlertProcessingErrors AlertKind = "processing_errors"
)

// MessageTypeAlert is the outbound WebSocket message type for every alert.
const MessageTypeAlert = "proctoring_alert"

// Alert is one message in a session's outbound alert stream.
type Alert struct {
	Title          string            `json:"alert"`
	Description    string            `json:"description"`
	SuspicionScore *int              `json:"suspicion_score,omitempty"`
	PatternSummary *behavior.Summary `json:"pattern_summary,omitempty"`
	Reasons        []string          `json:"reasons,omitempty"`
	Type           string            `json:"type,omitempty"`
	Severity       behavior.Severity `json:"severity,omitempty"`
	Timestamp      time.Time         `json:"timestamp"`
	ModelsLoaded   *Capabilities     `json:"models_loaded,omitempty"`

	Kind AlertKind `json:"-"`

	// SessionID is set by the engine on delivery so notifiers know the source.
	SessionID string `json:"session_id,omitempty"`
}

// Capabilities lists which optional analysis features are active.
type Capabilities struct {
	Captioning       bool `json:"captioning"`
	ObjectDetection  bool `json:"object_detection"`
	BehaviorAnalysis bool `json:"behavior_analysis"`
	EyeTracking      bool `json:"eye_tracking"`
}

// Broadcaster delivers messages to one session's connection.
type Broadcaster interface {
	SendToSession(sessionID, messageType string, data interface{}) error
}

// Notifier forwards selected alerts to an out-of-band channel.
type Notifier interface {
	// Send delivers an alert.
	Send(ctx context.Context, alert *Alert) error

	// Name returns the notifier name, e.g. "webhook".
	Name() string

	// Enabled returns whether this notifier is active.
	Enabled() bool
}

// Captioner describes a frame in words. Implementations never return an
// error; failures are folded into the Result status.
type Captioner interface {
	Caption(ctx context.Context, image []byte, reason string) caption.Result
	Enabled() bool
}

// CaptionRequest asks the engine to caption a frame off the session lane
// and then build the risk-object alert from the result.
type CaptionRequest struct {
	Image  []byte
	Reason string
	Labels []string
	Risk   RiskContext
}
