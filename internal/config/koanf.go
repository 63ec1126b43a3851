// Vigil - Real-time Behavioral Alerting for Remote Proctoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vigil

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/vigil/config.yaml",
	"/etc/vigil/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultCORSOrigins returns the browser origins allowed out of the box:
// local dev servers, the proctoring browser extensions and meeting hosts.
// Entries may hold one "*" wildcard.
func DefaultCORSOrigins() []string {
	return []string{
		"http://localhost:3000",
		"http://localhost:5173",
		"chrome-extension://*",
		"moz-extension://*",
		"https://meet.google.com",
		"https://zoom.us",
		"https://*.zoom.us",
	}
}

// defaultConfig returns a Config with every default applied. Values mirror
// the thresholds the proctoring pipeline was tuned with.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        5002,
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Security: SecurityConfig{
			AuthMode:        "token",
			CORSOrigins:     DefaultCORSOrigins(),
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
		Proctor: ProctorConfig{
			YawThreshold:                60,
			PitchThreshold:              40,
			GazeAlertDelay:              2 * time.Second,
			FaceMissingDelay:            3 * time.Second,
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
		},
		Sessions: SessionsConfig{
			LaneBuffer:         100,
			MaxConcurrent:      0,
			CaptionConcurrency: 4,
		},
		Caption: CaptionConfig{
			Enabled:             false,
			Timeout:             20 * time.Second,
			BreakerMaxRequests:  3,
			BreakerInterval:     time.Minute,
			BreakerTimeout:      2 * time.Minute,
			BreakerMinRequests:  5,
			BreakerFailureRatio: 0.6,
		},
		Notifier: NotifierConfig{
			Enabled:   false,
			RateLimit: time.Second,
			Burst:     5,
			Timeout:   10 * time.Second,
		},
		Ingest: IngestConfig{
			Enabled:          false,
			URL:              "nats://127.0.0.1:4222",
			Subject:          "proctor.signals",
			QueueGroup:       "vigil",
			SubscribersCount: 1,
			EmbeddedServer:   false,
			EmbeddedHost:     "127.0.0.1",
			EmbeddedPort:     4222,
		},
	}
}

// LoadWithKoanf loads configuration in three layers, later layers winning:
//  1. Struct defaults
//  2. Optional YAML file (CONFIG_PATH or DefaultConfigPaths)
//  3. Environment variables mapped by envTransformFunc
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file, or "" if none.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are parsed from comma-separated strings when set via env.
var sliceConfigPaths = []string{
	"security.cors_origins",
	"proctor.risk_objects",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps lowercased environment variable names to koanf paths.
// The proctor names keep the variable names operators already use.
var envMappings = map[string]string{
	"http_host":      "server.host",
	"http_port":      "server.port",
	"backend_host":   "server.host",
	"backend_port":   "server.port",
	"server_timeout": "server.timeout",
	"environment":    "server.environment",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	"auth_mode":           "security.auth_mode",
	"auth_token":          "security.token",
	"secret_key":          "security.token",
	"jwt_secret":          "security.jwt_secret",
	"cors_origins":        "security.cors_origins",
	"allow_all_origins":   "security.allow_all_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	"head_yaw_threshold":             "proctor.yaw_threshold",
	"head_pitch_threshold":           "proctor.pitch_threshold",
	"gaze_alert_delay":               "proctor.gaze_alert_delay",
	"face_missing_alert_delay":       "proctor.face_missing_delay",
	"detection_cooldown":             "proctor.detection_cooldown",
	"yolo_cooldown":                  "proctor.detection_cooldown",
	"analysis_cooldown":              "proctor.analysis_cooldown",
	"local_analysis_cooldown":        "proctor.analysis_cooldown",
	"multiple_faces_cooldown":        "proctor.multi_person_cooldown",
	"suspicion_score_threshold":      "proctor.suspicion_threshold",
	"alert_history_size":             "proctor.history_size",
	"behavior_analysis_window":       "proctor.analysis_window",
	"environment_scan_after":         "proctor.environment_scan_after",
	"min_object_confidence":          "proctor.min_object_confidence",
	"yolo_confidence_threshold":      "proctor.min_object_confidence",
	"risk_objects":                   "proctor.risk_objects",
	"error_notice_threshold":         "proctor.error_notice_threshold",
	"error_notice_interval":          "proctor.error_notice_interval",
	"stats_log_interval":             "proctor.stats_log_interval",
	"enable_multiple_face_detection": "proctor.enable_multiple_face_detection",
	"enable_behavior_analysis":       "proctor.enable_behavior_analysis",
	"enable_eye_tracking":            "proctor.enable_eye_tracking",

	"session_lane_buffer":    "sessions.lane_buffer",
	"session_max_concurrent": "sessions.max_concurrent",
	"caption_concurrency":    "sessions.caption_concurrency",

	"caption_enabled":               "caption.enabled",
	"caption_url":                   "caption.url",
	"caption_timeout":               "caption.timeout",
	"caption_breaker_max_requests":  "caption.breaker_max_requests",
	"caption_breaker_interval":      "caption.breaker_interval",
	"caption_breaker_timeout":       "caption.breaker_timeout",
	"caption_breaker_min_requests":  "caption.breaker_min_requests",
	"caption_breaker_failure_ratio": "caption.breaker_failure_ratio",

	"notifier_enabled":    "notifier.enabled",
	"notifier_url":        "notifier.url",
	"notifier_rate_limit": "notifier.rate_limit",
	"notifier_burst":      "notifier.burst",
	"notifier_timeout":    "notifier.timeout",

	"nats_enabled":       "ingest.enabled",
	"nats_url":           "ingest.url",
	"nats_subject":       "ingest.subject",
	"nats_queue_group":   "ingest.queue_group",
	"nats_subscribers":   "ingest.subscribers_count",
	"nats_embedded":      "ingest.embedded_server",
	"nats_embedded_host": "ingest.embedded_host",
	"nats_embedded_port": "ingest.embedded_port",
}

// envTransformFunc transforms environment variable names to koanf config paths.
// Unmapped variables return "" and are skipped, so unrelated environment
// does not leak into the configuration.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - SECRET_KEY -> security.token
//   - GAZE_ALERT_DELAY -> proctor.gaze_alert_delay
//   - NATS_URL -> ingest.url
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
