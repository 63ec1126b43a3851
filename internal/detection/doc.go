// Vigil - Real-time Behavioral Alerting for Remote Proctoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vigil

// Package detection decides, per proctoring session, when to raise an alert
// and which one.
//
// Architecture:
//
//	SignalBundle -> Engine -> lane(session) -> Session.ProcessFrame -> Alerts
//	                                 |                 |
//	                                 v                 v
//	                         Caption (async)    Broadcaster / Notifiers
//
// Each frame first updates the Debouncer, which converts sustained head
// deviation or face absence into a level-triggered trigger. Heavier work
// happens only at cooldown-gated ticks, where at most one primary alert is
// chosen:
//
//  1. more than one person (own cooldown, ends the tick)
//  2. a risk object such as a phone or book (analysis cooldown, captioned)
//  3. the debounced gaze or presence trigger
//
// Every trigger is recorded in the session's behavior.Analyzer even when a
// higher-priority alert suppressed it. After resolution the suspicion score
// is recomputed and a high-suspicion alert is sent only when it crosses the
// threshold at a strictly higher value than last time. A one-shot 360° scan
// request follows once the session is old enough.
//
// Captioning runs outside the lane. Its result is queued back onto the same
// lane, so the risk-object alert can arrive after other alerts from the tick
// that requested it.
package detection
