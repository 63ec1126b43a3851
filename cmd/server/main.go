// Vigil - Real-time Behavioral Alerting for Remote Proctoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vigil

package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/tomtom215/vigil/internal/api"
	"github.com/tomtom215/vigil/internal/auth"
	"github.com/tomtom215/vigil/internal/caption"
	"github.com/tomtom215/vigil/internal/config"
	"github.com/tomtom215/vigil/internal/detection"
	"github.com/tomtom215/vigil/internal/ingest"
	"github.com/tomtom215/vigil/internal/logging"
	"github.com/tomtom215/vigil/internal/supervisor"
	"github.com/tomtom215/vigil/internal/supervisor/services"
	ws "github.com/tomtom215/vigil/internal/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		logging.Fatal().Err(err).Msg("Server exited with error")
	}
	logging.Info().Msg("Vigil stopped")
}

func run(ctx context.Context, cfg *config.Config) error {
	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("auth_mode", cfg.Security.AuthMode).
		Bool("caption_enabled", cfg.Caption.Enabled).
		Bool("ingest_enabled", cfg.Ingest.Enabled).
		Msg("Starting Vigil")

	authenticator, err := auth.New(&cfg.Security)
	if err != nil {
		return fmt.Errorf("init authentication: %w", err)
	}

	hub := ws.NewHub()
	captioner := caption.NewClient(&cfg.Caption)

	engine := detection.NewEngine(detection.EngineConfig{
		Detection:          detection.ConfigFromProctor(&cfg.Proctor),
		LaneBuffer:         cfg.Sessions.LaneBuffer,
		MaxConcurrent:      cfg.Sessions.MaxConcurrent,
		CaptionConcurrency: cfg.Sessions.CaptionConcurrency,
		CaptionTimeout:     cfg.Caption.Timeout,
		NotifyTimeout:      cfg.Notifier.Timeout,
	}, hub, captioner)

	if cfg.Notifier.Enabled {
		engine.RegisterNotifier(detection.NewWebhookNotifier(detection.WebhookConfig{
			WebhookURL: cfg.Notifier.URL,
			Headers:    cfg.Notifier.Headers,
			Enabled:    true,
			RateLimit:  cfg.Notifier.RateLimit,
			Burst:      cfg.Notifier.Burst,
			Timeout:    cfg.Notifier.Timeout,
		}))
	}

	mw := api.NewChiMiddleware(api.ChiMiddlewareConfigFrom(&cfg.Security))
	handler := api.NewHandler(engine, hub, captioner, mw, authenticator.Name())

	server := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:           api.NewRouter(handler, authenticator),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
		// WriteTimeout stays zero: it would cut long-lived WebSocket
		// connections. The ws write pump sets its own deadlines.
	}

	tree := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddCoreService(engine)
	tree.AddMessagingService(hub)
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	if cfg.Ingest.Enabled {
		svc, err := ingest.NewService(&cfg.Ingest, engine)
		if err != nil {
			return fmt.Errorf("init ingest: %w", err)
		}
		tree.AddMessagingService(svc)
	}

	err = tree.Serve(ctx)

	if report, rerr := tree.UnstoppedServiceReport(); rerr == nil && len(report) > 0 {
		for _, svc := range report {
			logging.Warn().Str("service", svc.Name).Msg("Service did not stop within timeout")
		}
	}
	return err
}
