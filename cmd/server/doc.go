// Vigil - Real-time Behavioral Alerting for Remote Proctoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vigil

/*
Command server runs Vigil, the real-time behavioral alerting service for
remote proctoring.

Vigil sits between a perception layer and the proctoring UI. Perception
workers (or the candidate's browser) send one signal bundle per frame: face
presence and head deviation, face count, detected objects and optional eye
metrics. Vigil debounces those signals, scores recent behavior, picks at
most one alert per frame and streams alerts back to the session's WebSocket.

# Supervision

	vigil
	├── core-layer       detection-engine
	├── messaging-layer  websocket-hub, nats-ingest (NATS_ENABLED)
	└── api-layer        http-server

# Configuration

Defaults, then config.yaml (CONFIG_PATH), then environment variables:

	HTTP_PORT=5002
	AUTH_MODE=token            # token, jwt or none
	SECRET_KEY=...             # shared token for AUTH_MODE=token
	JWT_SECRET=...             # 32+ characters for AUTH_MODE=jwt
	CORS_ORIGINS=https://exam.example.com
	GAZE_ALERT_DELAY=2s
	SUSPICION_SCORE_THRESHOLD=70
	CAPTION_ENABLED=true
	CAPTION_URL=http://captioner:8000/caption
	NOTIFIER_ENABLED=true
	NOTIFIER_URL=https://dashboard.example.com/hooks/vigil
	NATS_ENABLED=true
	NATS_EMBEDDED=true

# Endpoints

	GET  /health
	GET  /metrics
	GET  /ws?session_id=...&token=...
	GET  /api/v1/sessions
	POST /api/v1/sessions/{id}/scan

SIGINT or SIGTERM cancels the tree. Each service gets ten seconds to stop;
open WebSocket connections receive a close frame.
*/
package main
