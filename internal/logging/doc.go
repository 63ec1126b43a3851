// Vigil - Real-time Behavioral Alerting for Remote Proctoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vigil

// Package logging provides centralized zerolog-based structured logging for Vigil.
//
// A single global logger is configured once at startup and used through
// package-level helpers. JSON output is the default; console output is
// available for local development.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Str("addr", addr).Msg("HTTP server listening")
//	logging.Err(err).Msg("Caption request failed")
//
// # Sessions
//
// Every log line about a proctoring session carries a session_id field.
// Use ForSession for long-lived per-session loggers, or attach the ID to a
// context and log through Ctx:
//
//	log := logging.ForSession(id)
//	log.Warn().Int("faces", n).Msg("Multiple faces detected")
//
//	ctx = logging.ContextWithSessionID(ctx, id)
//	logging.Ctx(ctx).Info().Msg("Manual scan requested")
//
// # Configuration
//
//	LOG_LEVEL   - trace, debug, info, warn, error (default: info)
//	LOG_FORMAT  - json, console (default: json)
//	LOG_CALLER  - include caller file:line (default: false)
//
// # slog Bridge
//
// SlogHandler adapts zerolog to log/slog for libraries that require an
// *slog.Logger, notably sutureslog in the supervisor tree.
package logging
