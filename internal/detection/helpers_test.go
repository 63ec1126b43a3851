// Vigil - Real-time Behavioral Alerting for Remote Proctoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vigil

package detection

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/vigil/internal/logging"
	"github.com/tomtom215/vigil/internal/models"
)

func init() {
	logging.SetLogger(zerolog.Nop())
}

var t0 = time.Date(2026, 5, 4, 14, 0, 0, 0, time.UTC)

func at(d time.Duration) time.Time { return t0.Add(d) }

func secs(s float64) time.Duration { return time.Duration(s * float64(time.Second)) }

// face returns a 640x480 bundle with the given normalized deviations.
func face(yaw, pitch float64, objs ...models.DetectedObject) *models.SignalBundle {
	return &models.SignalBundle{
		FacePresent:    true,
		YawDeviation:   &yaw,
		PitchDeviation: &pitch,
		ImageWidth:     640,
		ImageHeight:    480,
		FaceCount:      1,
		Objects:        objs,
		Image:          []byte{0xff, 0xd8},
	}
}

func noFace() *models.SignalBundle {
	return &models.SignalBundle{ImageWidth: 640, ImageHeight: 480}
}

func centered(objs ...models.DetectedObject) *models.SignalBundle { return face(0, 0, objs...) }

// offRight is 0.2*640 = 128px, past the 60px yaw threshold.
func offRight() *models.SignalBundle { return face(0.2, 0) }

func obj(label string, conf float64) models.DetectedObject {
	return models.DetectedObject{Label: label, Confidence: conf}
}
