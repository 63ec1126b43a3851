// Vigil - Real-time Behavioral Alerting for Remote Proctoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vigil

package supervisor

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/vigil/internal/detection"
	"github.com/tomtom215/vigil/internal/logging"
	"github.com/tomtom215/vigil/internal/websocket"
)

// countingService runs until canceled, failing its first failures starts.
type countingService struct {
	name     string
	failures int32
	starts   atomic.Int32
	stops    atomic.Int32
}

func (s *countingService) Serve(ctx context.Context) error {
	n := s.starts.Add(1)
	defer s.stops.Add(1)
	if n <= s.failures {
		return errors.New("simulated failure")
	}
	<-ctx.Done()
	return ctx.Err()
}

func (s *countingService) String() string { return s.name }

// syncBuffer is a goroutine-safe log sink.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func quietTree(t *testing.T, cfg TreeConfig) (*SupervisorTree, *syncBuffer) {
	t.Helper()
	var out syncBuffer
	logging.SetLogger(logging.NewTestLogger(&out))
	return NewSupervisorTree(logging.NewSlogLogger(), cfg), &out
}

func eventually(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestTreeConfigDefaults(t *testing.T) {
	tests := []struct {
		name string
		in   TreeConfig
		want TreeConfig
	}{
		{"zero", TreeConfig{}, DefaultTreeConfig()},
		{
			"partial",
			TreeConfig{FailureBackoff: time.Second},
			TreeConfig{FailureThreshold: 5, FailureDecay: 30, FailureBackoff: time.Second, ShutdownTimeout: 10 * time.Second},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.in
			cfg.applyDefaults()
			if cfg != tt.want {
				t.Errorf("applyDefaults() = %+v, want %+v", cfg, tt.want)
			}
		})
	}
}

func TestSupervisorTree_StartsEveryLayer(t *testing.T) {
	tree, _ := quietTree(t, TreeConfig{ShutdownTimeout: time.Second})

	core := &countingService{name: "core"}
	messaging := &countingService{name: "messaging"}
	api := &countingService{name: "api"}
	tree.AddCoreService(core)
	tree.AddMessagingService(messaging)
	tree.AddAPIService(api)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	for _, svc := range []*countingService{core, messaging, api} {
		svc := svc
		eventually(t, svc.name+" start", func() bool { return svc.starts.Load() == 1 })
	}

	cancel()
	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("tree error = %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("tree did not stop")
	}

	for _, svc := range []*countingService{core, messaging, api} {
		if svc.stops.Load() != 1 {
			t.Errorf("%s stops = %d, want 1", svc.name, svc.stops.Load())
		}
	}
}

func TestSupervisorTree_RestartIsLayerLocal(t *testing.T) {
	tree, logs := quietTree(t, TreeConfig{
		FailureThreshold: 10,
		FailureBackoff:   10 * time.Millisecond,
		ShutdownTimeout:  time.Second,
	})

	flaky := &countingService{name: "flaky-ingest", failures: 2}
	stable := &countingService{name: "stable-engine"}
	tree.AddMessagingService(flaky)
	tree.AddCoreService(stable)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)
	defer func() {
		cancel()
		<-errCh
	}()

	eventually(t, "flaky restarts", func() bool { return flaky.starts.Load() >= 3 })
	if got := stable.starts.Load(); got != 1 {
		t.Errorf("stable service started %d times, want 1", got)
	}
	eventually(t, "failure logged", func() bool { return strings.Contains(logs.String(), "flaky-ingest") })
}

func TestSupervisorTree_RunsEngineAndHub(t *testing.T) {
	tree, _ := quietTree(t, TreeConfig{ShutdownTimeout: 2 * time.Second})

	hub := websocket.NewHub()
	engine := detection.NewEngine(detection.DefaultEngineConfig(), hub, nil)
	tree.AddCoreService(engine)
	tree.AddMessagingService(hub)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	if err := engine.OpenSession("exam-1", ""); err != nil {
		t.Fatalf("OpenSession: %v", err)
	}
	if engine.ActiveSessions() != 1 {
		t.Errorf("ActiveSessions() = %d, want 1", engine.ActiveSessions())
	}

	cancel()
	select {
	case <-errCh:
	case <-time.After(5 * time.Second):
		t.Fatal("tree did not stop")
	}

	report, err := tree.UnstoppedServiceReport()
	if err != nil {
		t.Fatalf("UnstoppedServiceReport: %v", err)
	}
	if len(report) != 0 {
		t.Errorf("unstopped services: %v", report)
	}
}

var _ suture.Service = (*countingService)(nil)
