// Vigil - Real-time Behavioral Alerting for Remote Proctoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vigil

package session

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/tomtom215/vigil/internal/logging"
	"github.com/tomtom215/vigil/internal/metrics"
)

var (
	// ErrLaneClosed is returned when submitting to a session with no open lane.
	ErrLaneClosed = errors.New("session lane closed")

	// ErrStopped is returned once the lane set has been stopped.
	ErrStopped = errors.New("lanes stopped")
)

// Job is one unit of per-session work. ctx is canceled when the lane closes.
type Job func(ctx context.Context)

type queued struct {
	job Job
	at  time.Time
}

type lane struct {
	jobs   chan queued
	ctx    context.Context
	cancel context.CancelFunc
}

// Lanes runs jobs strictly in submission order per session, with sessions
// proceeding concurrently up to a global limit.
type Lanes struct {
	mu     sync.RWMutex
	lanes  map[string]*lane
	buffer int
	sem    *semaphore.Weighted

	// outstanding counts jobs queued or running.
	outstanding atomic.Int64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewLanes creates a lane set. buffer is the per-session queue length;
// maxConcurrent caps simultaneously executing jobs (<= 0 means 4 x GOMAXPROCS).
func NewLanes(buffer int, maxConcurrent int) *Lanes {
	if buffer < 1 {
		buffer = 1
	}
	if maxConcurrent <= 0 {
		maxConcurrent = 4 * runtime.GOMAXPROCS(0)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Lanes{
		lanes:  make(map[string]*lane),
		buffer: buffer,
		sem:    semaphore.NewWeighted(int64(maxConcurrent)),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Open starts the lane for id.
func (l *Lanes) Open(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.ctx.Err() != nil {
		return ErrStopped
	}
	if _, ok := l.lanes[id]; ok {
		return ErrSessionExists
	}

	ctx, cancel := context.WithCancel(l.ctx)
	ln := &lane{jobs: make(chan queued, l.buffer), ctx: ctx, cancel: cancel}
	l.lanes[id] = ln

	l.wg.Add(1)
	go l.run(id, ln)
	return nil
}

// Enqueue appends job to id's lane. When the lane is full it blocks until
// there is room, ctx ends, or the lane closes.
func (l *Lanes) Enqueue(ctx context.Context, id string, job Job) error {
	l.mu.RLock()
	ln, ok := l.lanes[id]
	l.mu.RUnlock()
	if !ok {
		metrics.LaneJobs.WithLabelValues("closed").Inc()
		return fmt.Errorf("%w: %s", ErrLaneClosed, id)
	}

	q := queued{job: job, at: time.Now()}
	l.outstanding.Add(1)
	select {
	case ln.jobs <- q:
	case <-ln.ctx.Done():
		l.outstanding.Add(-1)
		metrics.LaneJobs.WithLabelValues("closed").Inc()
		return fmt.Errorf("%w: %s", ErrLaneClosed, id)
	case <-ctx.Done():
		l.outstanding.Add(-1)
		metrics.LaneJobs.WithLabelValues("canceled").Inc()
		return ctx.Err()
	}

	// The lane may have closed and drained between lookup and send.
	if ln.ctx.Err() != nil {
		l.drain(ln)
		metrics.LaneJobs.WithLabelValues("closed").Inc()
		return fmt.Errorf("%w: %s", ErrLaneClosed, id)
	}
	metrics.LaneJobs.WithLabelValues("queued").Inc()
	return nil
}

// Close stops id's lane. Jobs still queued are discarded; a job already
// running sees its context canceled. It reports whether a lane was open.
func (l *Lanes) Close(id string) bool {
	l.mu.Lock()
	ln, ok := l.lanes[id]
	if ok {
		delete(l.lanes, id)
	}
	l.mu.Unlock()

	if ok {
		ln.cancel()
	}
	return ok
}

// Stop closes every lane and waits for their goroutines to exit.
func (l *Lanes) Stop() {
	l.mu.Lock()
	l.cancel()
	l.lanes = make(map[string]*lane)
	l.mu.Unlock()
	l.wg.Wait()
}

// Len returns the number of open lanes.
func (l *Lanes) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.lanes)
}

// WaitIdle blocks until no job is queued or running, or timeout expires.
func (l *Lanes) WaitIdle(timeout time.Duration) bool {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	tick := time.NewTicker(5 * time.Millisecond)
	defer tick.Stop()
	for {
		if l.outstanding.Load() == 0 {
			return true
		}
		select {
		case <-deadline.C:
			return false
		case <-tick.C:
		}
	}
}

func (l *Lanes) run(id string, ln *lane) {
	defer l.wg.Done()
	defer l.drain(ln)

	for {
		select {
		case <-ln.ctx.Done():
			return
		case q := <-ln.jobs:
			if ln.ctx.Err() != nil {
				l.outstanding.Add(-1)
				return
			}
			if err := l.sem.Acquire(ln.ctx, 1); err != nil {
				l.outstanding.Add(-1)
				return
			}
			metrics.LaneWait.Observe(time.Since(q.at).Seconds())
			l.exec(ln.ctx, id, q.job)
			l.sem.Release(1)
			l.outstanding.Add(-1)
		}
	}
}

// drain discards whatever is left in a closed lane.
func (l *Lanes) drain(ln *lane) {
	for {
		select {
		case <-ln.jobs:
			l.outstanding.Add(-1)
		default:
			return
		}
	}
}

// exec runs one job, containing panics to the job that raised them.
func (l *Lanes) exec(ctx context.Context, id string, job Job) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error().Str("session_id", id).Interface("panic", r).Msg("Session job panicked")
		}
	}()
	job(ctx)
}
