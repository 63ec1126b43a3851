// Vigil - Real-time Behavioral Alerting for Remote Proctoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vigil

// Package api is the HTTP surface of the alerting service, built on chi.
//
// Every route gets request IDs, panic recovery, CORS and Prometheus
// metrics. /ws and the operator endpoints under /api/v1 also require
// authentication; the operator endpoints are rate limited per client IP
// with go-chi/httprate. Authentication happens before the WebSocket
// upgrade, so a bad token is answered with a plain 401.
package api
