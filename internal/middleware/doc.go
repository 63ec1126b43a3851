// Vigil - Real-time Behavioral Alerting for Remote Proctoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vigil

// Package middleware provides the HTTP middleware shared by every route:
// request IDs that flow into the logging context, and Prometheus request
// metrics labelled by chi route pattern. Both keep the ResponseWriter
// hijackable so /ws upgrades pass through them.
package middleware
