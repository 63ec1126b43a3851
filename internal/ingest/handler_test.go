// Vigil - Real-time Behavioral Alerting for Remote Proctoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vigil

package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/tomtom215/vigil/internal/logging"
	"github.com/tomtom215/vigil/internal/metrics"
	"github.com/tomtom215/vigil/internal/session"
)

func init() {
	logging.SetLogger(zerolog.Nop())
}

type submitted struct {
	sessionID string
	raw       string
}

// mockSubmitter knows a fixed set of sessions.
type mockSubmitter struct {
	mu       sync.Mutex
	known    map[string]bool
	err      error
	received []submitted
	signal   chan struct{}
}

func newMockSubmitter(sessions ...string) *mockSubmitter {
	m := &mockSubmitter{known: make(map[string]bool), signal: make(chan struct{}, 16)}
	for _, id := range sessions {
		m.known[id] = true
	}
	return m
}

func (m *mockSubmitter) SubmitFrame(_ context.Context, id string, raw []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if !m.known[id] {
		return fmt.Errorf("%w: %s", session.ErrSessionNotFound, id)
	}
	m.received = append(m.received, submitted{sessionID: id, raw: string(raw)})
	select {
	case m.signal <- struct{}{}:
	default:
	}
	return nil
}

func (m *mockSubmitter) snapshot() []submitted {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]submitted(nil), m.received...)
}

func TestNewHandler(t *testing.T) {
	t.Parallel()

	if _, err := NewHandler(nil); !errors.Is(err, ErrNilSubmitter) {
		t.Errorf("NewHandler(nil) error = %v, want ErrNilSubmitter", err)
	}
	if h, err := NewHandler(newMockSubmitter()); err != nil || h == nil {
		t.Errorf("NewHandler() = %v, %v", h, err)
	}
}

func TestHandler_Handle(t *testing.T) {
	bundle := `{"face_present":false,"image_width":640,"image_height":480,"face_count":0}`

	tests := []struct {
		name    string
		payload string
		result  string
		routed  bool
	}{
		{"routed", `{"session_id":"exam-1","bundle":` + bundle + `}`, "routed", true},
		{"unknown session", `{"session_id":"exam-9","bundle":` + bundle + `}`, "unknown_session", false},
		{"not json", `not json`, "malformed", false},
		{"missing session", `{"bundle":` + bundle + `}`, "malformed", false},
		{"missing bundle", `{"session_id":"exam-1"}`, "malformed", false},
		{"bad session id", `{"session_id":"exam 1!","bundle":` + bundle + `}`, "malformed", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := newMockSubmitter("exam-1")
			h, err := NewHandler(sub)
			if err != nil {
				t.Fatal(err)
			}

			counter := metrics.IngestMessages.WithLabelValues(tt.result)
			before := testutil.ToFloat64(counter)

			msg := message.NewMessage(watermill.NewUUID(), []byte(tt.payload))
			if err := h.Handle(msg); err != nil {
				t.Fatalf("Handle() error = %v, want nil", err)
			}

			if got := testutil.ToFloat64(counter) - before; got != 1 {
				t.Errorf("%s counter delta = %v, want 1", tt.result, got)
			}
			got := sub.snapshot()
			if tt.routed {
				if len(got) != 1 || got[0].sessionID != "exam-1" || got[0].raw != bundle {
					t.Errorf("submitted = %+v", got)
				}
			} else if len(got) != 0 {
				t.Errorf("submitted = %+v, want none", got)
			}
		})
	}
}

func TestHandler_SubmitFailureIsAcked(t *testing.T) {
	sub := newMockSubmitter("exam-1")
	sub.err = session.ErrStopped
	h, _ := NewHandler(sub)

	counter := metrics.IngestMessages.WithLabelValues("failed")
	before := testutil.ToFloat64(counter)

	msg := message.NewMessage(watermill.NewUUID(), []byte(`{"session_id":"exam-1","bundle":{}}`))
	if err := h.Handle(msg); err != nil {
		t.Errorf("Handle() error = %v, want nil", err)
	}
	if got := testutil.ToFloat64(counter) - before; got != 1 {
		t.Errorf("failed counter delta = %v, want 1", got)
	}
}
