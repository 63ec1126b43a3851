// Vigil - Real-time Behavioral Alerting for Remote Proctoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vigil

package behavior

import "time"

// Analyzer owns one session's event history and scores it.
// Like History, it must only be used from the owning session's goroutine.
type Analyzer struct {
	history *History
	window  time.Duration
}

// NewAnalyzer creates an analyzer retaining up to capacity events and
// scoring over the trailing window.
func NewAnalyzer(capacity int, window time.Duration) *Analyzer {
	return &Analyzer{history: NewHistory(capacity), window: window}
}

// AddEvent records an event.
func (a *Analyzer) AddEvent(kind Kind, severity Severity, ts time.Time) {
	a.history.Add(Event{Kind: kind, Severity: severity, Timestamp: ts})
}

// SuspicionScore scores the history as of now.
func (a *Analyzer) SuspicionScore(now time.Time) Result {
	return Score(a.history.Snapshot(), now, a.window)
}

// PatternSummary summarizes the history as of now.
func (a *Analyzer) PatternSummary(now time.Time) Summary {
	return Summarize(a.history.Snapshot(), now, a.window)
}

// Len returns the number of retained events.
func (a *Analyzer) Len() int { return a.history.Len() }
