// Vigil - Real-time Behavioral Alerting for Remote Proctoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vigil

package models

import (
	"time"
)

// SignalBundle is one frame's worth of perception output for a session.
//
// YawDeviation and PitchDeviation are normalized landmark offsets (fractions
// of the image width and height respectively). They are nil when the face
// is absent, or when landmark extraction failed for a present face; the
// latter is treated as "no signal" for that frame.
type SignalBundle struct {
	FacePresent    bool             `json:"face_present"`
	YawDeviation   *float64         `json:"yaw_deviation,omitempty"`
	PitchDeviation *float64         `json:"pitch_deviation,omitempty"`
	ImageWidth     int              `json:"image_width" validate:"gt=0"`
	ImageHeight    int              `json:"image_height" validate:"gt=0"`
	FaceCount      int              `json:"face_count" validate:"gte=0"`
	Objects        []DetectedObject `json:"detected_objects" validate:"omitempty,dive"`
	Eyes           *EyeMetrics      `json:"eyes,omitempty"`
	Image          []byte           `json:"image,omitempty"` // encoded frame, only needed for captioning
	Timestamp      time.Time        `json:"timestamp"`
}

// HasGeometry reports whether a present face came with usable deviations.
func (b *SignalBundle) HasGeometry() bool {
	return b.YawDeviation != nil && b.PitchDeviation != nil
}

// DetectedObject is one object-detector hit.
type DetectedObject struct {
	Label      string  `json:"label" validate:"required"`
	Confidence float64 `json:"confidence" validate:"gte=0,lte=1"`
}

// EyeMetrics carries optional eye-landmark measurements.
type EyeMetrics struct {
	AvgEyeHeight  float64 `json:"avg_eye_height" validate:"gte=0"`        // pixels
	GazeDirection float64 `json:"gaze_direction" validate:"gte=-1,lte=1"` // -1 left, 0 centre, 1 right
}
