// Vigil - Real-time Behavioral Alerting for Remote Proctoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vigil

package config

import (
	"fmt"
	"strings"
)

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	if err := c.validateProctor(); err != nil {
		return err
	}
	if err := c.validateSessions(); err != nil {
		return err
	}
	if err := c.validateCaption(); err != nil {
		return err
	}
	if err := c.validateNotifier(); err != nil {
		return err
	}
	return c.validateIngest()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("SERVER_TIMEOUT must be positive, got %v", c.Server.Timeout)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, got %q", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	switch c.Security.AuthMode {
	case "token":
		if c.Security.Token == "" {
			return fmt.Errorf("SECRET_KEY is required when AUTH_MODE=token")
		}
	case "jwt":
		if len(c.Security.JWTSecret) < 32 {
			return fmt.Errorf("JWT_SECRET must be at least 32 characters when AUTH_MODE=jwt")
		}
	case "none":
	default:
		return fmt.Errorf("AUTH_MODE must be token, jwt or none, got %q", c.Security.AuthMode)
	}
	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs <= 0 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive, got %d", c.Security.RateLimitReqs)
		}
		if c.Security.RateLimitWindow <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %v", c.Security.RateLimitWindow)
		}
	}
	return nil
}

func (c *Config) validateProctor() error {
	p := &c.Proctor
	if p.YawThreshold <= 0 || p.PitchThreshold <= 0 {
		return fmt.Errorf("HEAD_YAW_THRESHOLD and HEAD_PITCH_THRESHOLD must be positive")
	}
	if p.GazeAlertDelay < 0 || p.FaceMissingDelay < 0 {
		return fmt.Errorf("GAZE_ALERT_DELAY and FACE_MISSING_ALERT_DELAY must not be negative")
	}
	if p.DetectionCooldown < 0 || p.AnalysisCooldown < 0 || p.MultiPersonCooldown < 0 {
		return fmt.Errorf("cooldowns must not be negative")
	}
	if p.SuspicionThreshold < 0 || p.SuspicionThreshold > 100 {
		return fmt.Errorf("SUSPICION_SCORE_THRESHOLD must be between 0 and 100, got %d", p.SuspicionThreshold)
	}
	if p.HistorySize < 1 {
		return fmt.Errorf("ALERT_HISTORY_SIZE must be at least 1, got %d", p.HistorySize)
	}
	if p.AnalysisWindow <= 0 {
		return fmt.Errorf("BEHAVIOR_ANALYSIS_WINDOW must be positive, got %v", p.AnalysisWindow)
	}
	if p.MinObjectConfidence < 0 || p.MinObjectConfidence > 1 {
		return fmt.Errorf("MIN_OBJECT_CONFIDENCE must be between 0 and 1, got %v", p.MinObjectConfidence)
	}
	if p.ErrorNoticeInterval < 1 {
		return fmt.Errorf("ERROR_NOTICE_INTERVAL must be at least 1, got %d", p.ErrorNoticeInterval)
	}
	return nil
}

func (c *Config) validateSessions() error {
	if c.Sessions.LaneBuffer < 1 {
		return fmt.Errorf("SESSION_LANE_BUFFER must be at least 1, got %d", c.Sessions.LaneBuffer)
	}
	if c.Sessions.MaxConcurrent < 0 {
		return fmt.Errorf("SESSION_MAX_CONCURRENT must not be negative, got %d", c.Sessions.MaxConcurrent)
	}
	if c.Sessions.CaptionConcurrency < 1 {
		return fmt.Errorf("CAPTION_CONCURRENCY must be at least 1, got %d", c.Sessions.CaptionConcurrency)
	}
	return nil
}

func (c *Config) validateCaption() error {
	if !c.Caption.Enabled {
		return nil
	}
	if c.Caption.URL == "" {
		return fmt.Errorf("CAPTION_URL is required when CAPTION_ENABLED=true")
	}
	if err := validateHTTPURL(c.Caption.URL, "CAPTION_URL"); err != nil {
		return err
	}
	if c.Caption.BreakerFailureRatio <= 0 || c.Caption.BreakerFailureRatio > 1 {
		return fmt.Errorf("CAPTION_BREAKER_FAILURE_RATIO must be in (0, 1], got %v", c.Caption.BreakerFailureRatio)
	}
	return nil
}

func (c *Config) validateNotifier() error {
	if !c.Notifier.Enabled {
		return nil
	}
	if c.Notifier.URL == "" {
		return fmt.Errorf("NOTIFIER_URL is required when NOTIFIER_ENABLED=true")
	}
	return validateHTTPURL(c.Notifier.URL, "NOTIFIER_URL")
}

func (c *Config) validateIngest() error {
	if !c.Ingest.Enabled {
		return nil
	}
	if c.Ingest.Subject == "" {
		return fmt.Errorf("NATS_SUBJECT is required when NATS_ENABLED=true")
	}
	if c.Ingest.SubscribersCount < 1 {
		return fmt.Errorf("NATS_SUBSCRIBERS must be at least 1, got %d", c.Ingest.SubscribersCount)
	}
	if c.Ingest.EmbeddedServer {
		return nil
	}
	if err := validateNATSURL(c.Ingest.URL); err != nil {
		return fmt.Errorf("NATS_URL is invalid: %w", err)
	}
	return nil
}
