// Vigil - Real-time Behavioral Alerting for Remote Proctoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vigil

package behavior

import (
	"testing"
	"time"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func TestHistory_EvictsOldest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		capacity int
		inserts  int
		wantLen  int
		wantHead int // index (insert order) of the oldest retained event
	}{
		{name: "below capacity", capacity: 5, inserts: 3, wantLen: 3, wantHead: 0},
		{name: "exactly full", capacity: 5, inserts: 5, wantLen: 5, wantHead: 0},
		{name: "overflow by five", capacity: 5, inserts: 10, wantLen: 5, wantHead: 5},
		{name: "capacity one", capacity: 1, inserts: 4, wantLen: 1, wantHead: 3},
		{name: "zero capacity raised", capacity: 0, inserts: 2, wantLen: 1, wantHead: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := NewHistory(tt.capacity)
			for i := 0; i < tt.inserts; i++ {
				h.Add(Event{Kind: KindFaceMissing, Severity: SeverityAttention, Timestamp: t0.Add(time.Duration(i) * time.Second)})
			}
			if h.Len() != tt.wantLen {
				t.Fatalf("Len() = %d, want %d", h.Len(), tt.wantLen)
			}
			snap := h.Snapshot()
			for i, ev := range snap {
				want := t0.Add(time.Duration(tt.wantHead+i) * time.Second)
				if !ev.Timestamp.Equal(want) {
					t.Errorf("snap[%d].Timestamp = %v, want %v", i, ev.Timestamp, want)
				}
			}
		})
	}
}

func TestHistory_SnapshotIsCopy(t *testing.T) {
	h := NewHistory(3)
	h.Add(Event{Kind: KindLookingDown, Severity: SeverityWarning, Timestamp: t0})
	snap := h.Snapshot()
	snap[0].Kind = KindRiskObject

	if got := h.Snapshot()[0].Kind; got != KindLookingDown {
		t.Errorf("history mutated through snapshot: Kind = %v", got)
	}
}

func TestHistory_CapacityPlusFiveThenSummary(t *testing.T) {
	const n = 50
	a := NewAnalyzer(n, 60*time.Second)
	// One event per second so only the last 61 seconds fall inside the window.
	for i := 0; i < n+5; i++ {
		a.AddEvent(KindFaceMissing, SeverityAttention, t0.Add(time.Duration(i)*time.Second))
	}
	if a.Len() != n {
		t.Fatalf("Len() = %d, want %d", a.Len(), n)
	}
	now := t0.Add(time.Duration(n+4) * time.Second)
	s := a.PatternSummary(now)
	if s.TotalEvents > n {
		t.Errorf("TotalEvents = %d, want <= %d", s.TotalEvents, n)
	}
	if s.TotalEvents != n {
		t.Errorf("TotalEvents = %d, want %d (all retained events are recent)", s.TotalEvents, n)
	}
}
