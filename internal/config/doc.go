// Vigil - Real-time Behavioral Alerting for Remote Proctoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vigil

// Package config provides layered configuration for Vigil using Koanf v2.
//
// Configuration is loaded in three layers (highest priority last):
//
//  1. Built-in defaults (defaultConfig)
//  2. Optional YAML file: CONFIG_PATH, ./config.yaml, or /etc/vigil/config.yaml
//  3. Environment variables, mapped explicitly by envTransformFunc
//
// Unmapped environment variables are ignored. Comma-separated values are
// split for slice fields (CORS_ORIGINS, RISK_OBJECTS).
//
// # Sections
//
//   - server: HTTP listener
//   - logging: zerolog level and format
//   - security: connection auth (token, jwt, none), CORS, rate limiting
//   - proctor: debounce delays, cooldowns, scoring thresholds, feature flags
//   - sessions: per-session lane sizing and caption concurrency
//   - caption: captioning collaborator endpoint and circuit breaker
//   - notifier: optional dashboard webhook
//   - ingest: optional NATS ingest of perception signal bundles
//
// # Example
//
//	cfg, err := config.Load()
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("Failed to load configuration")
//	}
//
// A minimal config.yaml:
//
//	security:
//	  auth_mode: token
//	  token: change-me
//	proctor:
//	  gaze_alert_delay: 2s
//	  suspicion_threshold: 70
package config
