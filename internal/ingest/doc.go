// Vigil - Real-time Behavioral Alerting for Remote Proctoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vigil

// Package ingest consumes perception signal bundles from NATS.
//
// Perception workers publish {"session_id": ..., "bundle": {...}} to the
// configured subject. A Watermill router with a core NATS subscriber hands
// each message to Handler, which queues the bundle on the session's lane,
// the same lane WebSocket frames use. Messages for unknown sessions are
// acked and counted.
//
// For single-node deployments the service can start an embedded NATS
// server and subscribe to it.
package ingest
