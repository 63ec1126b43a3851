// Vigil - Real-time Behavioral Alerting for Remote Proctoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vigil

// Package caption is the client for the contextual-captioning service.
//
// The service is expected to accept
//
//	POST <caption.url>
//	{"image": "<base64 JPEG>", "reason": "Risk objects detected: cell phone"}
//
// and answer {"caption": "a person holding a phone"}. Calls go through a
// sony/gobreaker circuit breaker named "caption-service".
//
// Caption never fails. Its Result carries one of three statuses:
//
//	ok           "Analysis: <caption>"
//	unavailable  "Contextual analysis model not loaded."  (disabled, no image, breaker open)
//	failed       "Local analysis failed."                  (transport, status, decode, empty)
package caption
