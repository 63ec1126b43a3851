// Vigil - Real-time Behavioral Alerting for Remote Proctoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vigil

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/tomtom215/vigil/internal/config"
)

// ChiMiddlewareConfig holds configuration for the CORS and rate-limit middleware.
type ChiMiddlewareConfig struct {
	CORSAllowedOrigins []string
	CORSAllowedMethods []string
	CORSAllowedHeaders []string
	CORSMaxAge         int // seconds

	RateLimitRequests int
	RateLimitWindow   time.Duration
	RateLimitDisabled bool
}

// ChiMiddlewareConfigFrom maps the security section onto ChiMiddlewareConfig.
func ChiMiddlewareConfigFrom(sec *config.SecurityConfig) *ChiMiddlewareConfig {
	origins := append([]string(nil), sec.CORSOrigins...)
	if sec.AllowAllOrigins {
		origins = []string{"*"}
	}
	return &ChiMiddlewareConfig{
		CORSAllowedOrigins: origins,
		CORSAllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		CORSAllowedHeaders: []string{"Content-Type", "Authorization", "X-Auth-Token", "X-Request-ID"},
		CORSMaxAge:         86400,
		RateLimitRequests:  sec.RateLimitReqs,
		RateLimitWindow:    sec.RateLimitWindow,
		RateLimitDisabled:  sec.RateLimitDisabled,
	}
}

// ChiMiddleware builds the CORS and rate-limit middleware once.
type ChiMiddleware struct {
	config  *ChiMiddlewareConfig
	cors    func(http.Handler) http.Handler
	origins []originPattern
}

// originPattern is an allowed origin split around its optional "*".
type originPattern struct {
	prefix   string
	suffix   string
	wildcard bool
}

func (p originPattern) match(origin string) bool {
	if !p.wildcard {
		return origin == p.prefix
	}
	return len(origin) >= len(p.prefix)+len(p.suffix) &&
		strings.HasPrefix(origin, p.prefix) &&
		strings.HasSuffix(origin, p.suffix)
}

func compileOrigins(origins []string) []originPattern {
	patterns := make([]originPattern, 0, len(origins))
	for _, o := range origins {
		o = strings.ToLower(o)
		if i := strings.IndexByte(o, '*'); i >= 0 {
			patterns = append(patterns, originPattern{prefix: o[:i], suffix: o[i+1:], wildcard: true})
			continue
		}
		patterns = append(patterns, originPattern{prefix: o})
	}
	return patterns
}

// NewChiMiddleware creates the middleware set.
func NewChiMiddleware(cfg *ChiMiddlewareConfig) *ChiMiddleware {
	return &ChiMiddleware{
		config:  cfg,
		origins: compileOrigins(cfg.CORSAllowedOrigins),
		cors: cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			AllowedMethods: cfg.CORSAllowedMethods,
			AllowedHeaders: cfg.CORSAllowedHeaders,
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         cfg.CORSMaxAge,
		}),
	}
}

// CORS returns the go-chi/cors middleware.
func (m *ChiMiddleware) CORS() func(http.Handler) http.Handler {
	return m.cors
}

// RateLimit limits requests per client IP, answering 429 with the API
// error envelope.
func (m *ChiMiddleware) RateLimit() func(http.Handler) http.Handler {
	if m.config.RateLimitDisabled {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(
		m.config.RateLimitRequests,
		m.config.RateLimitWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			respondError(w, r, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests", nil)
		}),
	)
}

// originAllowed reports whether origin matches a configured entry, using
// the same single-wildcard rules as the CORS handler.
func (m *ChiMiddleware) originAllowed(origin string) bool {
	origin = strings.ToLower(origin)
	for _, p := range m.origins {
		if p.match(origin) {
			return true
		}
	}
	return false
}
