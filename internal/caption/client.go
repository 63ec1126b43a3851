// Vigil - Real-time Behavioral Alerting for Remote Proctoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vigil

package caption

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/vigil/internal/config"
	"github.com/tomtom215/vigil/internal/logging"
	"github.com/tomtom215/vigil/internal/metrics"
)

const breakerName = "caption-service"

// maxResponseBytes bounds how much of a caption response is read.
const maxResponseBytes = 64 << 10

type captionRequest struct {
	Image  []byte `json:"image"` // base64 on the wire
	Reason string `json:"reason"`
}

type captionResponse struct {
	Caption string `json:"caption"`
}

// Client calls an HTTP captioning service behind a circuit breaker.
type Client struct {
	url     string
	enabled bool
	http    *http.Client
	cb      *gobreaker.CircuitBreaker[string]
}

// NewClient builds a client from configuration. A disabled config yields a
// client whose Caption always reports StatusUnavailable.
func NewClient(cfg *config.CaptionConfig) *Client {
	c := &Client{
		url:     cfg.URL,
		enabled: cfg.Enabled && cfg.URL != "",
		http:    &http.Client{Timeout: cfg.Timeout},
	}

	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(breakerName).Set(0)

	minRequests := cfg.BreakerMinRequests
	failureRatio := cfg.BreakerFailureRatio
	c.cb = gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: cfg.BreakerMaxRequests,
		Interval:    cfg.BreakerInterval,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < minRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			if ratio >= failureRatio {
				logging.Warn().Uint32("failures", counts.TotalFailures).Float64("failure_rate", ratio*100).Msg("Opening caption circuit")
				return true
			}
			return false
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := stateToString(from), stateToString(to)
			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("Circuit breaker state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})
	return c
}

// Enabled reports whether captions can be requested at all.
func (c *Client) Enabled() bool { return c.enabled }

// BreakerState returns "closed", "half-open", "open", or "disabled".
func (c *Client) BreakerState() string {
	if !c.enabled {
		return "disabled"
	}
	return stateToString(c.cb.State())
}

// Caption describes image. It never returns an error; see Result.
func (c *Client) Caption(ctx context.Context, image []byte, reason string) Result {
	start := time.Now()
	res := c.caption(ctx, image, reason)
	metrics.RecordCaption(string(res.Status), time.Since(start))
	if res.Err != nil {
		logging.Ctx(ctx).Warn().Err(res.Err).Str("status", string(res.Status)).Msg("Caption fallback used")
	}
	return res
}

func (c *Client) caption(ctx context.Context, image []byte, reason string) Result {
	if !c.enabled {
		return Unavailable(ErrDisabled)
	}
	if len(image) == 0 {
		return Unavailable(ErrNoImage)
	}

	text, err := c.execute(func() (string, error) {
		return c.post(ctx, image, reason)
	})
	switch {
	case err == nil:
		return OK(text)
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return Unavailable(err)
	default:
		return Failed(err)
	}
}

// execute runs fn through the breaker and keeps the breaker metrics current.
func (c *Client) execute(fn func() (string, error)) (string, error) {
	text, err := c.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "rejected").Inc()
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "failure").Inc()
			metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(breakerName).Set(float64(c.cb.Counts().ConsecutiveFailures))
		}
		return "", err
	}
	metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(breakerName).Set(0)
	return text, nil
}

func (c *Client) post(ctx context.Context, image []byte, reason string) (string, error) {
	body, err := json.Marshal(captionRequest{Image: image, Reason: reason})
	if err != nil {
		return "", fmt.Errorf("marshal caption request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create caption request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if id := logging.CorrelationIDFromContext(ctx); id != "" {
		req.Header.Set("X-Correlation-ID", id)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("caption request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("caption service returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("read caption response: %w", err)
	}
	var out captionResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("decode caption response: %w", err)
	}
	text := strings.TrimSpace(out.Caption)
	if text == "" {
		return "", ErrEmptyCaption
	}
	return text, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
