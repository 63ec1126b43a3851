// Vigil - Real-time Behavioral Alerting for Remote Proctoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vigil

// Package behavior keeps a bounded history of classified proctoring events
// and turns the recent window into a 0-100 suspicion score.
//
// Storage and scoring are separate: History is a ring buffer, while Score
// and Summarize are pure functions over a slice of events. Analyzer ties
// the two together for a single session.
//
// Score accumulates in a fixed order so the reasons are deterministic:
//
//	urgent events              +25 each  "N high-risk object(s) detected"
//	>= 3 warnings              +20       "N gaze warnings in Ws"
//	>= 5 attention events      +15       "N attention alerts in Ws"
//	>= 3 looking_down          +15       "Repeated looking down detected"
//	left and right both seen   +10       "Suspicious gaze alternation pattern"
//	>= 5 events, mean gap < 5s +10       "Rapid suspicious activity detected"
//
// The total is clamped to [0, 100].
package behavior
