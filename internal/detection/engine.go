// Vigil - Real-time Behavioral Alerting for Remote Proctoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vigil

package detection

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/sync/semaphore"

	"github.com/tomtom215/vigil/internal/behavior"
	"github.com/tomtom215/vigil/internal/caption"
	"github.com/tomtom215/vigil/internal/logging"
	"github.com/tomtom215/vigil/internal/metrics"
	"github.com/tomtom215/vigil/internal/models"
	"github.com/tomtom215/vigil/internal/session"
	"github.com/tomtom215/vigil/internal/validation"
)

// EngineConfig configures the engine and its lanes.
type EngineConfig struct {
	Detection Config

	LaneBuffer         int
	MaxConcurrent      int
	CaptionConcurrency int
	CaptionTimeout     time.Duration
	NotifyTimeout      time.Duration
}

// DefaultEngineConfig returns sensible defaults.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Detection:          DefaultConfig(),
		LaneBuffer:         100,
		CaptionConcurrency: 4,
		CaptionTimeout:     20 * time.Second,
		NotifyTimeout:      10 * time.Second,
	}
}

// Engine owns every live session. Inputs for a session are serialized on
// that session's lane; different sessions run concurrently.
type Engine struct {
	cfg         EngineConfig
	caps        Capabilities
	registry    *session.Registry[*Session]
	lanes       *session.Lanes
	broadcaster Broadcaster
	captioner   Captioner
	captionSem  *semaphore.Weighted

	mu        sync.RWMutex
	notifiers []Notifier
	clock     func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewEngine creates an engine. captioner may be nil.
func NewEngine(cfg EngineConfig, broadcaster Broadcaster, captioner Captioner) *Engine {
	if cfg.CaptionConcurrency < 1 {
		cfg.CaptionConcurrency = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	e := &Engine{
		cfg:         cfg,
		registry:    session.NewRegistry[*Session](),
		lanes:       session.NewLanes(cfg.LaneBuffer, cfg.MaxConcurrent),
		broadcaster: broadcaster,
		captioner:   captioner,
		captionSem:  semaphore.NewWeighted(int64(cfg.CaptionConcurrency)),
		clock:       time.Now,
		ctx:         ctx,
		cancel:      cancel,
	}
	e.caps = Capabilities{
		Captioning:       captioner != nil && captioner.Enabled(),
		ObjectDetection:  true,
		BehaviorAnalysis: cfg.Detection.EnableBehaviorAnalysis,
		EyeTracking:      cfg.Detection.EnableEyeTracking,
	}
	return e
}

// RegisterNotifier adds a notifier for urgent alerts.
func (e *Engine) RegisterNotifier(n Notifier) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.notifiers = append(e.notifiers, n)
	logging.Info().Str("notifier", n.Name()).Msg("Registered notifier")
}

// SetClock replaces the time source. Tests use it to drive cooldowns.
func (e *Engine) SetClock(clock func() time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clock = clock
}

func (e *Engine) now() time.Time {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.clock()
}

// Capabilities reports which optional features are active.
func (e *Engine) Capabilities() Capabilities { return e.caps }

// ActiveSessions returns the number of connected sessions.
func (e *Engine) ActiveSessions() int { return e.registry.Len() }

// OpenSession registers a new session and queues its ready event.
func (e *Engine) OpenSession(id, participant string) error {
	sess := NewSession(id, participant, e.now(), &e.cfg.Detection)
	if err := e.registry.Add(id, sess); err != nil {
		metrics.SessionsTotal.WithLabelValues("rejected").Inc()
		return fmt.Errorf("open session %s: %w", id, err)
	}
	if err := e.lanes.Open(id); err != nil {
		e.registry.Remove(id)
		metrics.SessionsTotal.WithLabelValues("rejected").Inc()
		return fmt.Errorf("open lane %s: %w", id, err)
	}
	metrics.RecordSessionOpened()
	sess.log.Info().Str("participant", participant).Msg("Session connected")

	return e.lanes.Enqueue(e.ctx, id, func(context.Context) {
		e.deliver(sess, ReadyAlert(e.caps, e.now()))
	})
}

// CloseSession discards a session and anything still queued for it.
func (e *Engine) CloseSession(id string) {
	sess, ok := e.registry.Remove(id)
	e.lanes.Close(id)
	if !ok {
		return
	}
	metrics.RecordSessionClosed()
	info := sess.Info()
	sess.log.Info().Int64("frames", info.FrameCount).Int64("errors", info.ErrorCount).Msg("Session disconnected")
}

// SubmitFrame queues a raw signal bundle. Decoding and validation happen on
// the lane so a bad frame counts as an error in its arrival position.
func (e *Engine) SubmitFrame(ctx context.Context, id string, raw []byte) error {
	return e.submit(ctx, id, func(_ context.Context, sess *Session) {
		start := time.Now()
		now := e.now()

		var b models.SignalBundle
		if err := json.Unmarshal(raw, &b); err != nil {
			sess.log.Debug().Err(err).Msg("Dropping undecodable frame")
			e.deliver(sess, sess.RecordFrameError(now, "decode"))
			return
		}
		if verr := validation.ValidateStruct(&b); verr != nil {
			sess.log.Debug().Err(verr).Msg("Dropping invalid frame")
			e.deliver(sess, sess.RecordFrameError(now, "validation"))
			return
		}

		out := sess.ProcessFrame(now, &b)
		e.deliver(sess, out.Alerts...)
		if out.Caption != nil {
			e.startCaption(sess, out.Caption)
		}
		metrics.RecordFrame(time.Since(start))
	})
}

// SubmitFrameError records a frame the client failed to produce.
func (e *Engine) SubmitFrameError(ctx context.Context, id, reason string) error {
	return e.submit(ctx, id, func(_ context.Context, sess *Session) {
		sess.log.Debug().Str("reason", reason).Msg("Client reported frame error")
		e.deliver(sess, sess.RecordFrameError(e.now(), "client"))
	})
}

// RequestScan sends a manual environment-scan request.
func (e *Engine) RequestScan(ctx context.Context, id string) error {
	return e.submit(ctx, id, func(_ context.Context, sess *Session) {
		e.deliver(sess, sess.ManualScan(e.now()))
	})
}

// ForwardClientAlert relays a client-originated alert back unchanged.
func (e *Engine) ForwardClientAlert(ctx context.Context, id string, raw json.RawMessage) error {
	return e.submit(ctx, id, func(_ context.Context, sess *Session) {
		if err := e.send(sess.id, raw); err != nil {
			sess.log.Warn().Err(err).Msg("Failed to forward client alert")
		}
	})
}

// ClientResponse logs a client acknowledgement. It changes no state.
func (e *Engine) ClientResponse(id string, raw json.RawMessage) {
	sess, ok := e.registry.Get(id)
	if !ok {
		logging.Warn().Str("session_id", id).Msg("Client response for unknown session")
		return
	}
	ev := sess.log.Info()
	if json.Valid(raw) {
		ev = ev.RawJSON("response", raw)
	} else {
		ev = ev.Bytes("response", raw)
	}
	ev.Msg("Client response")
}

// Sessions lists live sessions ordered by ID.
func (e *Engine) Sessions() []models.SessionInfo {
	out := make([]models.SessionInfo, 0, e.registry.Len())
	e.registry.Range(func(_ string, s *Session) bool {
		out = append(out, s.Info())
		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i].SessionID < out[j].SessionID })
	return out
}

// Serve blocks until ctx ends, then shuts the engine down. It satisfies
// suture.Service.
func (e *Engine) Serve(ctx context.Context) error {
	logging.Info().Msg("Detection engine started")
	<-ctx.Done()
	e.Shutdown()
	return ctx.Err()
}

// Shutdown closes every lane and waits for caption and notifier goroutines.
func (e *Engine) Shutdown() {
	e.cancel()
	e.lanes.Stop()
	e.wg.Wait()
	logging.Info().Msg("Detection engine stopped")
}

// WaitIdle waits until no session work is queued or running. Captions in
// flight are not counted until their result is queued.
func (e *Engine) WaitIdle(timeout time.Duration) bool {
	return e.lanes.WaitIdle(timeout)
}

func (e *Engine) String() string { return "detection-engine" }

func (e *Engine) submit(ctx context.Context, id string, fn func(context.Context, *Session)) error {
	sess, ok := e.registry.Get(id)
	if !ok {
		logging.Warn().Str("session_id", id).Msg("Input for unknown session ignored")
		return fmt.Errorf("%w: %s", session.ErrSessionNotFound, id)
	}
	err := e.lanes.Enqueue(ctx, id, func(ctx context.Context) { fn(ctx, sess) })
	if errors.Is(err, session.ErrLaneClosed) {
		return fmt.Errorf("%w: %s", session.ErrSessionNotFound, id)
	}
	return err
}

// startCaption runs the caption off-lane and rejoins the session's lane with
// the result. A session closed in the meantime drops the result, even when a
// new session has taken its ID.
func (e *Engine) startCaption(sess *Session, req *CaptionRequest) {
	if e.captioner == nil || !e.captioner.Enabled() {
		res := caption.Unavailable(caption.ErrDisabled)
		e.deliver(sess, sess.CaptionDone(e.now(), req, res.Text))
		return
	}

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		if err := e.captionSem.Acquire(e.ctx, 1); err != nil {
			return
		}
		ctx, cancel := context.WithTimeout(logging.ContextWithSessionID(e.ctx, sess.id), e.cfg.CaptionTimeout)
		res := e.captioner.Caption(ctx, req.Image, req.Reason)
		cancel()
		e.captionSem.Release(1)

		err := e.lanes.Enqueue(e.ctx, sess.id, func(context.Context) {
			// The ID may have been reconnected while the caption ran.
			if cur, ok := e.registry.Get(sess.id); !ok || cur != sess {
				sess.log.Debug().Msg("Caption result for a closed session discarded")
				return
			}
			e.deliver(sess, sess.CaptionDone(e.now(), req, res.Text))
		})
		if err != nil {
			sess.log.Debug().Err(err).Msg("Caption result discarded")
		}
	}()
}

// deliver sends alerts to the session in order and fans urgent ones out
// to notifiers. nil alerts are skipped.
func (e *Engine) deliver(sess *Session, alerts ...*Alert) {
	for _, a := range alerts {
		if a == nil {
			continue
		}
		a.SessionID = sess.id
		if err := e.send(sess.id, a); err != nil {
			sess.log.Warn().Err(err).Str("alert", a.Title).Msg("Alert delivery failed")
			continue
		}
		metrics.RecordAlert(string(a.Kind))
		sess.log.Info().Str("alert", a.Title).Str("kind", string(a.Kind)).Msg("Alert emitted")
		if a.Severity == behavior.SeverityUrgent {
			e.notify(a)
		}
	}
}

func (e *Engine) send(id string, data interface{}) error {
	if e.broadcaster == nil {
		return nil
	}
	return e.broadcaster.SendToSession(id, MessageTypeAlert, data)
}

// notify hands an alert to every enabled notifier without blocking the lane.
func (e *Engine) notify(a *Alert) {
	e.mu.RLock()
	notifiers := make([]Notifier, 0, len(e.notifiers))
	for _, n := range e.notifiers {
		if n.Enabled() {
			notifiers = append(notifiers, n)
		}
	}
	e.mu.RUnlock()

	for _, n := range notifiers {
		e.wg.Add(1)
		go func(n Notifier) {
			defer e.wg.Done()
			ctx, cancel := context.WithTimeout(e.ctx, e.cfg.NotifyTimeout)
			defer cancel()
			err := n.Send(ctx, a)
			metrics.RecordNotification(n.Name(), err)
			if err != nil {
				logging.Error().Err(err).Str("notifier", n.Name()).Str("session_id", a.SessionID).Msg("Failed to send alert")
			}
		}(n)
	}
}
