// Vigil - Real-time Behavioral Alerting for Remote Proctoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vigil

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Session Metrics
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vigil_active_sessions",
			Help: "Current number of connected proctoring sessions",
		},
	)

	SessionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vigil_sessions_total",
			Help: "Total number of session lifecycle events",
		},
		[]string{"event"}, // opened, closed, rejected
	)

	FramesProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vigil_frames_processed_total",
			Help: "Total number of signal bundles processed",
		},
	)

	FrameErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vigil_frame_errors_total",
			Help: "Total number of frames dropped as errors",
		},
		[]string{"reason"}, // decode, validation, client
	)

	FrameDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vigil_frame_duration_seconds",
			Help:    "Time spent processing one signal bundle on its session lane",
			Buckets: []float64{0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01},
		},
	)

	// Decision Metrics
	TriggersFired = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vigil_triggers_total",
			Help: "Total number of triggers recorded as behavioral events",
		},
		[]string{"kind", "severity"},
	)

	AlertsEmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vigil_alerts_total",
			Help: "Total number of alerts delivered to sessions",
		},
		[]string{"kind"},
	)

	SuspicionScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vigil_suspicion_score",
			Help:    "Suspicion scores computed at gated ticks",
			Buckets: []float64{0, 10, 25, 40, 55, 70, 85, 100},
		},
	)

	EyeObservations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vigil_eye_observations_total",
			Help: "Eye-tracking observations (logged only, never alerted)",
		},
		[]string{"observation"}, // eyes_closed, looking_away
	)

	// Lane Metrics
	LaneJobs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vigil_lane_jobs_total",
			Help: "Total number of jobs submitted to session lanes",
		},
		[]string{"result"}, // queued, closed, canceled
	)

	LaneWait = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vigil_lane_wait_seconds",
			Help:    "Time a job waited between submission and execution",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	// Caption Metrics
	CaptionRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vigil_caption_requests_total",
			Help: "Total number of caption requests by outcome",
		},
		[]string{"status"}, // ok, unavailable, failed
	)

	CaptionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vigil_caption_duration_seconds",
			Help:    "Caption request latency",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		},
	)

	// Notifier Metrics
	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vigil_notifications_total",
			Help: "Total number of out-of-band alert notifications",
		},
		[]string{"notifier", "result"},
	)

	// Ingest Metrics
	IngestMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vigil_ingest_messages_total",
			Help: "Total number of NATS signal messages by outcome",
		},
		[]string{"result"}, // routed, unknown_session, malformed, failed
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	AuthFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vigil_auth_failures_total",
			Help: "Total number of rejected connection attempts",
		},
		[]string{"mode"},
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent",
		},
	)

	WSMessagesReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_messages_received_total",
			Help: "Total number of WebSocket messages received",
		},
		[]string{"type"},
	)

	WSErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_errors_total",
			Help: "Total number of WebSocket errors",
		},
		[]string{"error_type"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // success, failure, rejected
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks in-flight API requests.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordFrame records one processed signal bundle.
func RecordFrame(duration time.Duration) {
	FramesProcessed.Inc()
	FrameDuration.Observe(duration.Seconds())
}

// RecordFrameError records a dropped frame.
func RecordFrameError(reason string) {
	FrameErrors.WithLabelValues(reason).Inc()
}

// RecordTrigger records a behavioral event.
func RecordTrigger(kind, severity string) {
	TriggersFired.WithLabelValues(kind, severity).Inc()
}

// RecordAlert records a delivered alert.
func RecordAlert(kind string) {
	AlertsEmitted.WithLabelValues(kind).Inc()
}

// RecordCaption records a caption outcome and its latency.
func RecordCaption(status string, duration time.Duration) {
	CaptionRequests.WithLabelValues(status).Inc()
	CaptionDuration.Observe(duration.Seconds())
}

// RecordNotification records a notifier send.
func RecordNotification(notifier string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	NotificationsSent.WithLabelValues(notifier, result).Inc()
}

// RecordSessionOpened marks a session as connected.
func RecordSessionOpened() {
	ActiveSessions.Inc()
	SessionsTotal.WithLabelValues("opened").Inc()
}

// RecordSessionClosed marks a session as disconnected.
func RecordSessionClosed() {
	ActiveSessions.Dec()
	SessionsTotal.WithLabelValues("closed").Inc()
}
