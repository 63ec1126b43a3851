// Vigil - Real-time Behavioral Alerting for Remote Proctoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vigil

package detection

import (
	"time"

	"github.com/tomtom215/vigil/internal/config"
)

// Config holds the decision-layer tuning shared by every session.
type Config struct {
	Debounce DebounceConfig

	DetectionCooldown   time.Duration
	AnalysisCooldown    time.Duration
	MultiPersonCooldown time.Duration

	SuspicionThreshold int
	HistorySize        int
	AnalysisWindow     time.Duration

	EnvironmentScanAfter time.Duration

	MinObjectConfidence float64
	RiskObjects         []string

	ErrorNoticeThreshold int
	ErrorNoticeInterval  int
	StatsLogInterval     int

	EnableMultipleFaceDetection bool
	EnableBehaviorAnalysis      bool
	EnableEyeTracking           bool

	EyeClosedHeight float64
	EyeGazeAway     float64
}

// DefaultConfig returns the tuned production defaults.
func DefaultConfig() Config {
	return Config{
		Debounce: DebounceConfig{
			YawThreshold:     60,
			PitchThreshold:   40,
			GazeDelay:        2 * time.Second,
			FaceMissingDelay: 3 * time.Second,
		},
		DetectionCooldown:           10 * time.Second,
		AnalysisCooldown:            15 * time.Second,
		MultiPersonCooldown:         10 * time.Second,
		SuspicionThreshold:          70,
		HistorySize:                 50,
		AnalysisWindow:              60 * time.Second,
		EnvironmentScanAfter:        300 * time.Second,
		MinObjectConfidence:         0.5,
		RiskObjects:                 []string{"cell phone", "book", "person", "tv", "remote"},
		ErrorNoticeThreshold:        10,
		ErrorNoticeInterval:         10,
		StatsLogInterval:            100,
		EnableMultipleFaceDetection: true,
		EnableBehaviorAnalysis:      true,
		EnableEyeTracking:           true,
		EyeClosedHeight:             8,
		EyeGazeAway:                 0.15,
	}
}

// ConfigFromProctor maps the loaded proctor section onto Config.
func ConfigFromProctor(p *config.ProctorConfig) Config {
	return Config{
		Debounce: DebounceConfig{
			YawThreshold:     p.YawThreshold,
			PitchThreshold:   p.PitchThreshold,
			GazeDelay:        p.GazeAlertDelay,
			FaceMissingDelay: p.FaceMissingDelay,
		},
		DetectionCooldown:           p.DetectionCooldown,
		AnalysisCooldown:            p.AnalysisCooldown,
		MultiPersonCooldown:         p.MultiPersonCooldown,
		SuspicionThreshold:          p.SuspicionThreshold,
		HistorySize:                 p.HistorySize,
		AnalysisWindow:              p.AnalysisWindow,
		EnvironmentScanAfter:        p.EnvironmentScanAfter,
		MinObjectConfidence:         p.MinObjectConfidence,
		RiskObjects:                 append([]string(nil), p.RiskObjects...),
		ErrorNoticeThreshold:        p.ErrorNoticeThreshold,
		ErrorNoticeInterval:         p.ErrorNoticeInterval,
		StatsLogInterval:            p.StatsLogInterval,
		EnableMultipleFaceDetection: p.EnableMultipleFaceDetection,
		EnableBehaviorAnalysis:      p.EnableBehaviorAnalysis,
		EnableEyeTracking:           p.EnableEyeTracking,
		EyeClosedHeight:             p.EyeClosedHeight,
		EyeGazeAway:                 p.EyeGazeAway,
	}
}
