// Vigil - Real-time Behavioral Alerting for Remote Proctoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vigil

package behavior

// History is a fixed-capacity FIFO of events. When full, Add evicts the
// oldest entry. History is not safe for concurrent use; each session owns
// its own and mutates it from a single goroutine.
type History struct {
	buf   []Event
	head  int // index of the oldest event
	count int
}

// NewHistory returns a history holding at most capacity events.
// A capacity below 1 is raised to 1.
func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{buf: make([]Event, capacity)}
}

// Add appends ev, evicting the oldest event if the history is full.
func (h *History) Add(ev Event) {
	if h.count < len(h.buf) {
		h.buf[(h.head+h.count)%len(h.buf)] = ev
		h.count++
		return
	}
	h.buf[h.head] = ev
	h.head = (h.head + 1) % len(h.buf)
}

// Len returns the number of retained events.
func (h *History) Len() int { return h.count }

// Snapshot returns the retained events oldest first. The slice is a copy.
func (h *History) Snapshot() []Event {
	out := make([]Event, h.count)
	for i := 0; i < h.count; i++ {
		out[i] = h.buf[(h.head+i)%len(h.buf)]
	}
	return out
}
