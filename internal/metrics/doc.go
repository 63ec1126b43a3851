// Vigil - Real-time Behavioral Alerting for Remote Proctoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vigil

/*
Package metrics provides Prometheus collectors for the proctoring service.

All collectors are registered with the default registry through promauto
and exposed at /metrics:

	curl http://localhost:5002/metrics

# Available Metrics

Sessions and frames:
  - vigil_active_sessions, vigil_sessions_total{event}
  - vigil_frames_processed_total, vigil_frame_errors_total{reason}
  - vigil_frame_duration_seconds

Decisions:
  - vigil_triggers_total{kind,severity}
  - vigil_alerts_total{kind}
  - vigil_suspicion_score
  - vigil_eye_observations_total{observation}

Lanes:
  - vigil_lane_jobs_total{result}, vigil_lane_wait_seconds

Collaborators:
  - vigil_caption_requests_total{status}, vigil_caption_duration_seconds
  - circuit_breaker_state{name}, circuit_breaker_requests_total{name,result},
    circuit_breaker_state_transitions_total{name,from_state,to_state}
  - vigil_notifications_total{notifier,result}
  - vigil_ingest_messages_total{result}

Transport:
  - api_requests_total, api_request_duration_seconds, api_active_requests
  - vigil_auth_failures_total{mode}
  - websocket_connections, websocket_messages_sent_total,
    websocket_messages_received_total{type}, websocket_errors_total{error_type}

# Usage

Prefer the Record* helpers over touching collectors directly:

	metrics.RecordFrame(time.Since(start))
	metrics.RecordAlert("risk_object")
*/
package metrics
