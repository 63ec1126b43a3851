// Vigil - Real-time Behavioral Alerting for Remote Proctoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vigil

package caption

import "errors"

// Status is the outcome of a caption request.
type Status string

const (
	StatusOK          Status = "ok"
	StatusUnavailable Status = "unavailable"
	StatusFailed      Status = "failed"
)

// Fallback descriptions used when no caption could be produced.
const (
	FallbackUnavailable = "Contextual analysis model not loaded."
	FallbackFailed      = "Local analysis failed."
)

var (
	// ErrDisabled is reported when captioning is turned off or has no endpoint.
	ErrDisabled = errors.New("captioning disabled")

	// ErrNoImage is reported when a request carries no frame to describe.
	ErrNoImage = errors.New("no image to caption")

	// ErrEmptyCaption is reported when the service answers without text.
	ErrEmptyCaption = errors.New("caption service returned empty caption")
)

// Result is always usable: Text holds either the rendered caption or the
// fallback for Status. Err records why a fallback was used.
type Result struct {
	Text   string
	Status Status
	Err    error
}

// OK wraps a successful caption.
func OK(caption string) Result {
	return Result{Text: "Analysis: " + caption, Status: StatusOK}
}

// Unavailable returns the fallback for a collaborator that cannot be used.
func Unavailable(err error) Result {
	return Result{Text: FallbackUnavailable, Status: StatusUnavailable, Err: err}
}

// Failed returns the fallback for a request that was attempted and failed.
func Failed(err error) Result {
	return Result{Text: FallbackFailed, Status: StatusFailed, Err: err}
}
