// Vigil - Real-time Behavioral Alerting for Remote Proctoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vigil

/*
Package models defines the wire types shared by the transports and the
detection engine.

  - SignalBundle: one frame of perception output (face geometry, face count,
    detected objects, optional eye metrics and the encoded frame)
  - ClientMessage: the inbound WebSocket envelope {type, data}
  - IngestEnvelope: the NATS payload {session_id, bundle}
  - SessionInfo and HealthResponse: operator-facing views

Validation tags are enforced by internal/validation. A bundle that fails
them is counted as a frame error, never processed.
*/
package models
