// Vigil - Real-time Behavioral Alerting for Remote Proctoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vigil

// Package auth authenticates WebSocket connections and operator requests.
//
// Three modes are supported, selected by security.auth_mode:
//
//   - token: a shared secret, compared in constant time
//   - jwt: an HS256 token; the subject claim labels the participant and
//     an optional "sid" claim binds the token to one session
//   - none: everything is accepted (development only)
//
// Tokens are read from the Authorization bearer header, X-Auth-Token, or
// the "token" query parameter. Every failure wraps ErrUnauthorized.
package auth
