// Vigil - Real-time Behavioral Alerting for Remote Proctoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vigil

package behavior

import (
	"fmt"
	"time"
)

// Scoring weights and thresholds.
const (
	urgentWeight = 25

	warningBonus     = 20
	warningMinCount  = 3
	attentionBonus   = 15
	attentionMinCnt  = 5
	lookDownBonus    = 15
	lookDownMinCount = 3
	alternationBonus = 10
	rapidBonus       = 10
	rapidMinEvents   = 5
	rapidMaxMeanGap  = 5 * time.Second

	MaxScore = 100
)

// Result is a suspicion score and the reasons that produced it, in a fixed order.
type Result struct {
	Score   int      `json:"score"`
	Reasons []string `json:"reasons"`
}

// Summary aggregates the events inside the analysis window.
type Summary struct {
	TotalEvents int    `json:"total_events"`
	Urgent      int    `json:"urgent"`
	Warning     int    `json:"warning"`
	Attention   int    `json:"attention"`
	TimeWindow  string `json:"time_window"`
}

// InWindow returns the events with now-timestamp <= window, preserving order.
// Events stamped after now count as inside the window.
func InWindow(events []Event, now time.Time, window time.Duration) []Event {
	out := make([]Event, 0, len(events))
	for _, ev := range events {
		if now.Sub(ev.Timestamp) <= window {
			out = append(out, ev)
		}
	}
	return out
}

// Score computes the suspicion score of events within window of now.
// It is a pure function of its arguments.
func Score(events []Event, now time.Time, window time.Duration) Result {
	recent := InWindow(events, now, window)
	if len(recent) == 0 {
		return Result{}
	}

	var urgent, warning, attention, down int
	var left, right bool
	for _, ev := range recent {
		switch ev.Severity {
		case SeverityUrgent:
			urgent++
		case SeverityWarning:
			warning++
		case SeverityAttention:
			attention++
		}
		switch ev.Kind {
		case KindLookingDown:
			down++
		case KindLookingLeft:
			left = true
		case KindLookingRight:
			right = true
		}
	}

	secs := int(window / time.Second)
	score := 0
	var reasons []string

	if urgent > 0 {
		score += urgent * urgentWeight
		reasons = append(reasons, fmt.Sprintf("%d high-risk object(s) detected", urgent))
	}
	if warning >= warningMinCount {
		score += warningBonus
		reasons = append(reasons, fmt.Sprintf("%d gaze warnings in %ds", warning, secs))
	}
	if attention >= attentionMinCnt {
		score += attentionBonus
		reasons = append(reasons, fmt.Sprintf("%d attention alerts in %ds", attention, secs))
	}
	if down >= lookDownMinCount {
		score += lookDownBonus
		reasons = append(reasons, "Repeated looking down detected")
	}
	if left && right {
		score += alternationBonus
		reasons = append(reasons, "Suspicious gaze alternation pattern")
	}
	if len(recent) >= rapidMinEvents && meanGap(recent) < rapidMaxMeanGap {
		score += rapidBonus
		reasons = append(reasons, "Rapid suspicious activity detected")
	}

	return Result{Score: clamp(score), Reasons: reasons}
}

// Summarize counts the events within window of now by severity.
func Summarize(events []Event, now time.Time, window time.Duration) Summary {
	recent := InWindow(events, now, window)
	s := Summary{
		TotalEvents: len(recent),
		TimeWindow:  fmt.Sprintf("%ds", int(window/time.Second)),
	}
	for _, ev := range recent {
		switch ev.Severity {
		case SeverityUrgent:
			s.Urgent++
		case SeverityWarning:
			s.Warning++
		case SeverityAttention:
			s.Attention++
		}
	}
	return s
}

// meanGap is the mean of consecutive timestamp differences. Needs len >= 2.
func meanGap(events []Event) time.Duration {
	var total time.Duration
	for i := 1; i < len(events); i++ {
		total += events[i].Timestamp.Sub(events[i-1].Timestamp)
	}
	return total / time.Duration(len(events)-1)
}

func clamp(score int) int {
	switch {
	case score < 0:
		return 0
	case score > MaxScore:
		return MaxScore
	}
	return score
}
