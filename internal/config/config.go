// Vigil - Real-time Behavioral Alerting for Remote Proctoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vigil

package config

import (
	"time"
)

// Config holds all application configuration loaded from defaults, an
// optional YAML file, and environment variables (in that order of priority).
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Logging  LoggingConfig  `koanf:"logging"`
	Security SecurityConfig `koanf:"security"`
	Proctor  ProctorConfig  `koanf:"proctor"`
	Sessions SessionsConfig `koanf:"sessions"`
	Caption  CaptionConfig  `koanf:"caption"`
	Notifier NotifierConfig `koanf:"notifier"`
	Ingest   IngestConfig   `koanf:"ingest"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host        string        `koanf:"host"`
	Port        int           `koanf:"port"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"` // development, staging, production
}

// LoggingConfig holds zerolog settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is json or console.
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// SecurityConfig holds connection authentication and HTTP hardening settings.
type SecurityConfig struct {
	// AuthMode is one of: token, jwt, none.
	AuthMode string `koanf:"auth_mode"`

	// Token is the shared secret clients present when connecting (auth_mode=token).
	Token string `koanf:"token"`

	// JWTSecret is the HS256 signing key for connection tokens (auth_mode=jwt).
	JWTSecret string `koanf:"jwt_secret"`

	CORSOrigins     []string `koanf:"cors_origins"`
	AllowAllOrigins bool     `koanf:"allow_all_origins"`

	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// ProctorConfig holds the decision-layer thresholds, cooldowns and feature flags.
//
// Environment Variables:
//   - HEAD_YAW_THRESHOLD / HEAD_PITCH_THRESHOLD: pixel deviation thresholds (60 / 40)
//   - GAZE_ALERT_DELAY / FACE_MISSING_ALERT_DELAY: debounce delays (2s / 3s)
//   - DETECTION_COOLDOWN / ANALYSIS_COOLDOWN / MULTIPLE_FACES_COOLDOWN (10s / 15s / 10s)
//   - SUSPICION_SCORE_THRESHOLD (70), ALERT_HISTORY_SIZE (50), BEHAVIOR_ANALYSIS_WINDOW (60s)
type ProctorConfig struct {
	YawThreshold   float64 `koanf:"yaw_threshold"`
	PitchThreshold float64 `koanf:"pitch_threshold"`

	GazeAlertDelay   time.Duration `koanf:"gaze_alert_delay"`
	FaceMissingDelay time.Duration `koanf:"face_missing_delay"`

	DetectionCooldown   time.Duration `koanf:"detection_cooldown"`
	AnalysisCooldown    time.Duration `koanf:"analysis_cooldown"`
	MultiPersonCooldown time.Duration `koanf:"multi_person_cooldown"`

	SuspicionThreshold int           `koanf:"suspicion_threshold"`
	HistorySize        int           `koanf:"history_size"`
	AnalysisWindow     time.Duration `koanf:"analysis_window"`

	EnvironmentScanAfter time.Duration `koanf:"environment_scan_after"`

	MinObjectConfidence float64  `koanf:"min_object_confidence"`
	RiskObjects         []string `koanf:"risk_objects"`

	ErrorNoticeThreshold int `koanf:"error_notice_threshold"`
	ErrorNoticeInterval  int `koanf:"error_notice_interval"`
	StatsLogInterval     int `koanf:"stats_log_interval"`

	EnableMultipleFaceDetection bool `koanf:"enable_multiple_face_detection"`
	EnableBehaviorAnalysis      bool `koanf:"enable_behavior_analysis"`
	EnableEyeTracking           bool `koanf:"enable_eye_tracking"`

	EyeClosedHeight float64 `koanf:"eye_closed_height"`
	EyeGazeAway     float64 `koanf:"eye_gaze_away"`
}

// SessionsConfig sizes the per-session lanes.
type SessionsConfig struct {
	// LaneBuffer is the number of queued jobs per session before submitters block.
	LaneBuffer int `koanf:"lane_buffer"`

	// MaxConcurrent caps how many sessions execute a job at the same time.
	// Zero means 4 x GOMAXPROCS.
	MaxConcurrent int `koanf:"max_concurrent"`

	// CaptionConcurrency caps in-flight caption requests across all sessions.
	CaptionConcurrency int `koanf:"caption_concurrency"`
}

// CaptionConfig configures the contextual-captioning collaborator.
type CaptionConfig struct {
	Enabled bool          `koanf:"enabled"`
	URL     string        `koanf:"url"`
	Timeout time.Duration `koanf:"timeout"`

	BreakerMaxRequests  uint32        `koanf:"breaker_max_requests"`
	BreakerInterval     time.Duration `koanf:"breaker_interval"`
	BreakerTimeout      time.Duration `koanf:"breaker_timeout"`
	BreakerMinRequests  uint32        `koanf:"breaker_min_requests"`
	BreakerFailureRatio float64       `koanf:"breaker_failure_ratio"`
}

// NotifierConfig configures the optional dashboard webhook.
type NotifierConfig struct {
	Enabled   bool              `koanf:"enabled"`
	URL       string            `koanf:"url"`
	Headers   map[string]string `koanf:"headers"`
	RateLimit time.Duration     `koanf:"rate_limit"`
	Burst     int               `koanf:"burst"`
	Timeout   time.Duration     `koanf:"timeout"`
}

// IngestConfig configures NATS ingest of perception signal bundles.
type IngestConfig struct {
	Enabled          bool   `koanf:"enabled"`
	URL              string `koanf:"url"`
	Subject          string `koanf:"subject"`
	QueueGroup       string `koanf:"queue_group"`
	SubscribersCount int    `koanf:"subscribers_count"`

	EmbeddedServer bool   `koanf:"embedded_server"`
	EmbeddedHost   string `koanf:"embedded_host"`
	EmbeddedPort   int    `koanf:"embedded_port"`
}

// IsDevelopment reports whether the server runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "" || c.Server.Environment == "development"
}

// Load reads configuration from defaults, an optional config file, and
// environment variables. See LoadWithKoanf.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
