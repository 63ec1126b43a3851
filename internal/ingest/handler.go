// Vigil - Real-time Behavioral Alerting for Remote Proctoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vigil

package ingest

import (
	"context"
	"errors"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/vigil/internal/logging"
	"github.com/tomtom215/vigil/internal/metrics"
	"github.com/tomtom215/vigil/internal/models"
	"github.com/tomtom215/vigil/internal/session"
	"github.com/tomtom215/vigil/internal/validation"
)

// ErrNilSubmitter is returned when a handler is built without a submitter.
var ErrNilSubmitter = errors.New("ingest: frame submitter is nil")

// FrameSubmitter queues a raw signal bundle on a session's lane.
// Satisfied by *detection.Engine.
type FrameSubmitter interface {
	SubmitFrame(ctx context.Context, sessionID string, raw []byte) error
}

// Handler routes NATS signal messages into session lanes.
//
// Every message is acked. A bad envelope cannot be fixed by redelivery and
// a session that is gone will not come back, so neither is retried.
type Handler struct {
	submitter FrameSubmitter
	log       zerolog.Logger
}

// NewHandler creates a handler.
func NewHandler(submitter FrameSubmitter) (*Handler, error) {
	if submitter == nil {
		return nil, ErrNilSubmitter
	}
	return &Handler{submitter: submitter, log: logging.WithComponent("ingest")}, nil
}

// Handle is a watermill NoPublishHandlerFunc.
func (h *Handler) Handle(msg *message.Message) error {
	var env models.IngestEnvelope
	if err := json.Unmarshal(msg.Payload, &env); err != nil {
		h.log.Warn().Err(err).Str("message_uuid", msg.UUID).Msg("Dropping undecodable ingest message")
		metrics.IngestMessages.WithLabelValues("malformed").Inc()
		return nil
	}
	if verr := validation.ValidateStruct(&env); verr != nil || !validation.ValidSessionID(env.SessionID) {
		h.log.Warn().Str("message_uuid", msg.UUID).Msg("Dropping invalid ingest envelope")
		metrics.IngestMessages.WithLabelValues("malformed").Inc()
		return nil
	}

	err := h.submitter.SubmitFrame(msg.Context(), env.SessionID, env.Bundle)
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		metrics.IngestMessages.WithLabelValues("unknown_session").Inc()
	case err != nil:
		h.log.Warn().Err(err).Str("session_id", env.SessionID).Msg("Failed to queue ingested frame")
		metrics.IngestMessages.WithLabelValues("failed").Inc()
	default:
		metrics.IngestMessages.WithLabelValues("routed").Inc()
	}
	return nil
}
