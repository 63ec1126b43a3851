// Vigil - Real-time Behavioral Alerting for Remote Proctoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vigil

package ingest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"

	"github.com/tomtom215/vigil/internal/config"
	"github.com/tomtom215/vigil/internal/logging"
)

const handlerName = "proctor-signals"

// Service runs the ingest router, and the embedded server when configured.
// It satisfies suture.Service.
type Service struct {
	cfg     config.IngestConfig
	handler *Handler
	logger  watermill.LoggerAdapter

	readyOnce sync.Once
	ready     chan struct{}
}

// NewService creates the ingest service.
func NewService(cfg *config.IngestConfig, submitter FrameSubmitter) (*Service, error) {
	h, err := NewHandler(submitter)
	if err != nil {
		return nil, err
	}
	return &Service{
		cfg:     *cfg,
		handler: h,
		logger:  watermill.NewSlogLogger(logging.NewSlogLogger()),
		ready:   make(chan struct{}),
	}, nil
}

// Ready is closed the first time the router starts consuming.
func (s *Service) Ready() <-chan struct{} { return s.ready }

// Serve subscribes until ctx ends.
func (s *Service) Serve(ctx context.Context) error {
	url := s.cfg.URL
	if s.cfg.EmbeddedServer {
		es, err := NewEmbeddedServer(s.cfg.EmbeddedHost, s.cfg.EmbeddedPort)
		if err != nil {
			return fmt.Errorf("start embedded NATS server: %w", err)
		}
		defer es.Shutdown()
		url = es.ClientURL()
		logging.Info().Str("url", url).Msg("Embedded NATS server started")
	}

	sub, err := NewSubscriber(&s.cfg, url, s.logger)
	if err != nil {
		return err
	}
	defer sub.Close()

	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: 10 * time.Second}, s.logger)
	if err != nil {
		return fmt.Errorf("create watermill router: %w", err)
	}
	router.AddMiddleware(middleware.Recoverer)
	router.AddNoPublisherHandler(handlerName, s.cfg.Subject, sub, s.handler.Handle)

	go func() {
		select {
		case <-router.Running():
			s.readyOnce.Do(func() { close(s.ready) })
			logging.Info().Str("subject", s.cfg.Subject).Str("url", url).Msg("NATS ingest consuming")
		case <-ctx.Done():
		}
	}()

	if err := router.Run(ctx); err != nil {
		return fmt.Errorf("ingest router: %w", err)
	}
	return ctx.Err()
}

func (s *Service) String() string { return "nats-ingest" }
