// Vigil - Real-time Behavioral Alerting for Remote Proctoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vigil

package behavior

import "time"

// Severity ranks how concerning an event is.
type Severity string

const (
	SeverityAttention Severity = "attention"
	SeverityWarning   Severity = "warning"
	SeverityUrgent    Severity = "urgent"
)

// Kind identifies what happened.
type Kind string

const (
	KindLookingLeft     Kind = "looking_left"
	KindLookingRight    Kind = "looking_right"
	KindLookingDown     Kind = "looking_down"
	KindFaceMissing     Kind = "face_missing"
	KindMultipleFaces   Kind = "multiple_faces"
	KindMultiplePersons Kind = "multiple_persons"
	KindRiskObject      Kind = "risk_object"
)

// IsGaze reports whether k is a lateral or downward gaze kind.
func (k Kind) IsGaze() bool {
	switch k {
	case KindLookingLeft, KindLookingRight, KindLookingDown:
		return true
	}
	return false
}

// IsHighRisk reports whether k is inherently urgent regardless of context.
func (k Kind) IsHighRisk() bool {
	switch k {
	case KindMultipleFaces, KindMultiplePersons, KindRiskObject:
		return true
	}
	return false
}

// Event is one classified behavioral occurrence. Events are immutable.
type Event struct {
	Kind      Kind      `json:"kind"`
	Severity  Severity  `json:"severity"`
	Timestamp time.Time `json:"timestamp"`
}
