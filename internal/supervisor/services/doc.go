// Vigil - Real-time Behavioral Alerting for Remote Proctoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vigil

// Package services adapts components that do not already speak suture's
// Serve(ctx) error into supervised services.
//
// The detection engine, the websocket hub and the NATS ingest service
// implement suture.Service themselves and are added to the tree directly.
// Only the HTTP server needs a wrapper, to turn ListenAndServe plus
// Shutdown into a context-driven Serve.
package services
