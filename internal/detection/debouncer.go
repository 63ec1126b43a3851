// Vigil - Real-time Behavioral Alerting for Remote Proctoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vigil

package detection

import (
	"math"
	"time"

	"github.com/tomtom215/vigil/internal/behavior"
	"github.com/tomtom215/vigil/internal/models"
)

// DebounceConfig holds the gaze and presence thresholds.
type DebounceConfig struct {
	YawThreshold     float64 // pixels
	PitchThreshold   float64 // pixels
	GazeDelay        time.Duration
	FaceMissingDelay time.Duration
}

// Debouncer turns per-frame face geometry into durable triggers.
//
// Triggers are level-triggered: once a deviation has lasted longer than its
// delay, every further qualifying frame yields the trigger again until the
// condition clears. Rate limiting happens downstream in the session's
// cooldown gate.
//
// At most one of gazeOffSince and faceMissingSince is set at any time.
type Debouncer struct {
	cfg              DebounceConfig
	gazeOffSince     time.Time
	faceMissingSince time.Time
}

// NewDebouncer returns a debouncer with both timers unset.
func NewDebouncer(cfg DebounceConfig) *Debouncer {
	return &Debouncer{cfg: cfg}
}

// Update feeds one frame and returns the trigger kind, or "" for none.
//
// A present face without geometry (landmark extraction failed) ends any
// absence streak but yields no trigger and leaves the gaze timer untouched.
func (d *Debouncer) Update(now time.Time, b *models.SignalBundle) behavior.Kind {
	if !b.FacePresent {
		d.gazeOffSince = time.Time{}
		if d.faceMissingSince.IsZero() {
			d.faceMissingSince = now
		}
		if elapsed(now, d.faceMissingSince) > d.cfg.FaceMissingDelay {
			return behavior.KindFaceMissing
		}
		return ""
	}

	d.faceMissingSince = time.Time{}
	if !b.HasGeometry() {
		return ""
	}

	yawPx := *b.YawDeviation * float64(b.ImageWidth)
	pitchPx := *b.PitchDeviation * float64(b.ImageHeight)

	var kind behavior.Kind
	switch {
	case math.Abs(yawPx) > d.cfg.YawThreshold:
		kind = behavior.KindLookingRight
		if yawPx < 0 {
			kind = behavior.KindLookingLeft
		}
	case math.Abs(pitchPx) > d.cfg.PitchThreshold:
		kind = behavior.KindLookingDown
	default:
		d.gazeOffSince = time.Time{}
		return ""
	}

	if d.gazeOffSince.IsZero() {
		d.gazeOffSince = now
	}
	if elapsed(now, d.gazeOffSince) > d.cfg.GazeDelay {
		return kind
	}
	return ""
}

// GazeOffSince returns when the current off-angle streak began, or zero.
func (d *Debouncer) GazeOffSince() time.Time { return d.gazeOffSince }

// FaceMissingSince returns when the current absence streak began, or zero.
func (d *Debouncer) FaceMissingSince() time.Time { return d.faceMissingSince }

// elapsed returns now-since, clamped at zero when the clock moved backward.
func elapsed(now, since time.Time) time.Duration {
	if d := now.Sub(since); d > 0 {
		return d
	}
	return 0
}
