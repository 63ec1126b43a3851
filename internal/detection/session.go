// Vigil - Real-time Behavioral Alerting for Remote Proctoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vigil

package detection

import (
	"math"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/vigil/internal/behavior"
	"github.com/tomtom215/vigil/internal/logging"
	"github.com/tomtom215/vigil/internal/metrics"
	"github.com/tomtom215/vigil/internal/models"
)

type cooldown int

const (
	cooldownDetection cooldown = iota
	cooldownAnalysis
	cooldownMultiPerson
	numCooldowns
)

// Outcome is what one input produced: alerts to deliver now, and possibly
// a caption to run before the risk-object alert can be built.
type Outcome struct {
	Alerts  []*Alert
	Caption *CaptionRequest
}

func (o *Outcome) add(a *Alert) {
	if a != nil {
		o.Alerts = append(o.Alerts, a)
	}
}

// Session is the decision state of one monitored participant.
//
// All mutating methods must be called from a single goroutine, in arrival
// order. Counters readable through Info are atomic so operators can list
// sessions while frames are in flight.
type Session struct {
	id          string
	participant string
	cfg         *Config
	risk        map[string]struct{}
	log         zerolog.Logger

	startTime time.Time
	debouncer *Debouncer
	analyzer  *behavior.Analyzer
	lastFired [numCooldowns]time.Time

	frameCount          atomic.Int64
	errorCount          atomic.Int64
	lastSuspicionScore  atomic.Int32
	sentEnvironmentScan atomic.Bool
}

// NewSession creates a session that started at start.
func NewSession(id, participant string, start time.Time, cfg *Config) *Session {
	return &Session{
		id:          id,
		participant: participant,
		cfg:         cfg,
		risk:        riskSet(cfg.RiskObjects),
		log:         logging.ForSession(id),
		startTime:   start,
		debouncer:   NewDebouncer(cfg.Debounce),
		analyzer:    behavior.NewAnalyzer(cfg.HistorySize, cfg.AnalysisWindow),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// ProcessFrame runs one signal bundle through the decision pipeline.
func (s *Session) ProcessFrame(now time.Time, b *models.SignalBundle) Outcome {
	n := s.frameCount.Add(1)
	if s.cfg.StatsLogInterval > 0 && n%int64(s.cfg.StatsLogInterval) == 0 {
		s.log.Info().Int64("frames", n).Int64("errors", s.errorCount.Load()).
			Msgf("Processed %d frames, %d errors", n, s.errorCount.Load())
	}

	// More than one face is critical and checked every frame.
	if s.cfg.EnableMultipleFaceDetection && b.FaceCount > 1 && s.ready(cooldownMultiPerson, now, s.cfg.MultiPersonCooldown) {
		s.fire(cooldownMultiPerson, now)
		s.record(behavior.KindMultipleFaces, behavior.SeverityUrgent, now)
		return Outcome{Alerts: []*Alert{MultiPersonAlert(b.FaceCount, now)}}
	}

	trigger := s.debouncer.Update(now, b)
	s.observeEyes(b)

	if !s.ready(cooldownDetection, now, s.cfg.DetectionCooldown) {
		return Outcome{}
	}
	s.fire(cooldownDetection, now)
	return s.tick(now, b, trigger)
}

// tick resolves what to emit at a cooldown-gated tick.
func (s *Session) tick(now time.Time, b *models.SignalBundle, trigger behavior.Kind) Outcome {
	objs := FilterObjects(b.Objects, s.cfg.MinObjectConfidence)
	labels := RiskLabels(objs, s.risk)

	if trigger != "" {
		s.record(trigger, severityFor(trigger, len(labels) > 0), now)
	}

	if persons := CountLabel(objs, "person"); persons > 1 && s.cfg.EnableMultipleFaceDetection &&
		b.FaceCount <= 1 && s.ready(cooldownMultiPerson, now, s.cfg.MultiPersonCooldown) {
		s.fire(cooldownMultiPerson, now)
		s.record(behavior.KindMultiplePersons, behavior.SeverityUrgent, now)
		return Outcome{Alerts: []*Alert{MultiPersonAlert(persons, now)}}
	}

	var out Outcome
	switch {
	case len(labels) > 0 && s.ready(cooldownAnalysis, now, s.cfg.AnalysisCooldown):
		s.fire(cooldownAnalysis, now)
		s.record(behavior.KindRiskObject, behavior.SeverityUrgent, now)
		out.Caption = &CaptionRequest{
			Image:  b.Image,
			Reason: "Risk objects detected: " + strings.Join(labels, ", "),
			Labels: labels,
			Risk:   AssessRisk(objs),
		}
	case trigger != "":
		out.add(GazeAlert(trigger, now))
	}

	out.add(s.escalate(now))
	out.add(s.environmentScan(now))
	return out
}

// severityFor classifies a trigger for the behavior history.
func severityFor(kind behavior.Kind, riskPresent bool) behavior.Severity {
	switch {
	case riskPresent || kind.IsHighRisk():
		return behavior.SeverityUrgent
	case kind.IsGaze():
		return behavior.SeverityWarning
	default:
		return behavior.SeverityAttention
	}
}

// escalate emits a high-suspicion alert only on a strictly higher score
// at or above the threshold.
func (s *Session) escalate(now time.Time) *Alert {
	if !s.cfg.EnableBehaviorAnalysis {
		return nil
	}
	res := s.analyzer.SuspicionScore(now)
	metrics.SuspicionScore.Observe(float64(res.Score))

	if !s.crossed(res.Score) {
		return nil
	}
	s.log.Warn().Int("score", res.Score).Strs("reasons", res.Reasons).Msg("Suspicion score escalated")
	return HighSuspicionAlert(res, s.analyzer.PatternSummary(now), now)
}

// crossed reports whether score is at or above the threshold and strictly
// above the last escalated score, recording it if so.
func (s *Session) crossed(score int) bool {
	if score < s.cfg.SuspicionThreshold || score <= int(s.lastSuspicionScore.Load()) {
		return false
	}
	s.lastSuspicionScore.Store(int32(score))
	return true
}

// environmentScan fires once, the first tick after EnvironmentScanAfter.
func (s *Session) environmentScan(now time.Time) *Alert {
	if s.sentEnvironmentScan.Load() || elapsed(now, s.startTime) <= s.cfg.EnvironmentScanAfter {
		return nil
	}
	s.sentEnvironmentScan.Store(true)
	return ScanAlert(false, now)
}

// RecordFrameError counts a frame that could not be used. It returns a
// notice once the error count passes the threshold, then every interval.
func (s *Session) RecordFrameError(now time.Time, reason string) *Alert {
	s.frameCount.Add(1)
	n := s.errorCount.Add(1)
	metrics.RecordFrameError(reason)

	threshold := int64(s.cfg.ErrorNoticeThreshold)
	interval := int64(s.cfg.ErrorNoticeInterval)
	if interval < 1 {
		interval = 1
	}
	if n <= threshold || (n-threshold-1)%interval != 0 {
		return nil
	}
	s.log.Warn().Int64("errors", n).Str("reason", reason).Msg("Frame errors above threshold")
	return ErrorNoticeAlert(n, now)
}

// ManualScan always produces a scan request; it does not touch the
// automatic one-shot flag.
func (s *Session) ManualScan(now time.Time) *Alert {
	s.log.Info().Msg("Manual environment scan requested")
	return ScanAlert(true, now)
}

// CaptionDone builds the risk-object alert once its caption is back.
func (s *Session) CaptionDone(now time.Time, req *CaptionRequest, text string) *Alert {
	return RiskObjectAlert(req.Labels, text, req.Risk, now)
}

// Info returns the operator view of this session.
func (s *Session) Info() models.SessionInfo {
	return models.SessionInfo{
		SessionID:          s.id,
		Participant:        s.participant,
		StartTime:          s.startTime,
		FrameCount:         s.frameCount.Load(),
		ErrorCount:         s.errorCount.Load(),
		LastSuspicionScore: int(s.lastSuspicionScore.Load()),
		EnvironmentScanned: s.sentEnvironmentScan.Load(),
	}
}

func (s *Session) ready(c cooldown, now time.Time, d time.Duration) bool {
	last := s.lastFired[c]
	return last.IsZero() || elapsed(now, last) > d
}

func (s *Session) fire(c cooldown, now time.Time) {
	s.lastFired[c] = now
}

func (s *Session) record(kind behavior.Kind, sev behavior.Severity, now time.Time) {
	if !s.cfg.EnableBehaviorAnalysis {
		return
	}
	s.analyzer.AddEvent(kind, sev, now)
	metrics.RecordTrigger(string(kind), string(sev))
}

// observeEyes logs eye-tracking observations. They never raise alerts.
func (s *Session) observeEyes(b *models.SignalBundle) {
	if !s.cfg.EnableEyeTracking || b.Eyes == nil {
		return
	}
	if b.Eyes.AvgEyeHeight < s.cfg.EyeClosedHeight {
		metrics.EyeObservations.WithLabelValues("eyes_closed").Inc()
		s.log.Debug().Float64("eye_height", b.Eyes.AvgEyeHeight).Msg("Eyes appear closed")
	}
	if math.Abs(b.Eyes.GazeDirection) > s.cfg.EyeGazeAway {
		metrics.EyeObservations.WithLabelValues("looking_away").Inc()
		s.log.Debug().Float64("gaze_direction", b.Eyes.GazeDirection).Msg("Eye gaze away from screen")
	}
}
