// Vigil - Real-time Behavioral Alerting for Remote Proctoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vigil

// Package validation wraps go-playground/validator with a shared instance
// and readable error messages.
//
// Signal bundles arriving over WebSocket or NATS are validated before they
// reach a session, so malformed frames are counted as frame errors instead
// of corrupting debouncer state:
//
//	var bundle models.SignalBundle
//	if err := json.Unmarshal(raw, &bundle); err != nil { ... }
//	if verr := validation.ValidateStruct(&bundle); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    ...
//	}
//
// Error messages name fields by their JSON tags, for example
// "image_width must be greater than 0" or
// "detected_objects[0].confidence must be less than or equal to 1".
//
// The custom "session_id" tag accepts 1-128 characters of letters, digits
// and "_.:-", starting with a letter or digit.
package validation
