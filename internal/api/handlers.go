// Vigil - Real-time Behavioral Alerting for Remote Proctoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vigil

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	gws "github.com/gorilla/websocket"

	"github.com/tomtom215/vigil/internal/auth"
	"github.com/tomtom215/vigil/internal/detection"
	"github.com/tomtom215/vigil/internal/logging"
	"github.com/tomtom215/vigil/internal/models"
	"github.com/tomtom215/vigil/internal/session"
	"github.com/tomtom215/vigil/internal/validation"
	ws "github.com/tomtom215/vigil/internal/websocket"
)

// Engine is what the HTTP layer needs from the detection engine.
type Engine interface {
	ws.Handler
	OpenSession(sessionID, participant string) error
	Sessions() []models.SessionInfo
	Capabilities() detection.Capabilities
	ActiveSessions() int
}

// BreakerStater reports the caption circuit breaker state.
type BreakerStater interface {
	BreakerState() string
}

// Handler serves the HTTP surface.
type Handler struct {
	engine    Engine
	hub       *ws.Hub
	breaker   BreakerStater
	mw        *ChiMiddleware
	authMode  string
	startTime time.Time
}

// NewHandler creates a handler. breaker may be nil.
func NewHandler(engine Engine, hub *ws.Hub, breaker BreakerStater, mw *ChiMiddleware, authMode string) *Handler {
	return &Handler{
		engine:    engine,
		hub:       hub,
		breaker:   breaker,
		mw:        mw,
		authMode:  authMode,
		startTime: time.Now(),
	}
}

// Health reports capabilities and load.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	caps := h.engine.Capabilities()
	breaker := "disabled"
	if h.breaker != nil {
		breaker = h.breaker.BreakerState()
	}
	respondJSON(w, http.StatusOK, &models.HealthResponse{
		Status: "healthy",
		Models: map[string]bool{
			"captioning":        caps.Captioning,
			"object_detection":  caps.ObjectDetection,
			"behavior_analysis": caps.BehaviorAnalysis,
			"eye_tracking":      caps.EyeTracking,
		},
		CaptionBreaker:    breaker,
		ActiveConnections: h.engine.ActiveSessions(),
		WebSocketClients:  h.hub.GetClientCount(),
		Uptime:            time.Since(h.startTime).Round(time.Second).String(),
	})
}

// ListSessions returns every live session.
func (h *Handler) ListSessions(w http.ResponseWriter, r *http.Request) {
	sessions := h.engine.Sessions()
	n := len(sessions)
	respondData(w, r, http.StatusOK, sessions, &APIMeta{Count: &n})
}

// RequestScan queues a manual environment scan for one session.
func (h *Handler) RequestScan(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !validation.ValidSessionID(id) {
		respondError(w, r, http.StatusBadRequest, "INVALID_SESSION_ID", "Invalid session ID", nil)
		return
	}

	err := h.engine.RequestScan(r.Context(), id)
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		respondError(w, r, http.StatusNotFound, "SESSION_NOT_FOUND", "Session not found", nil)
	case err != nil:
		respondError(w, r, http.StatusServiceUnavailable, "SCAN_NOT_QUEUED", "Scan request could not be queued", nil)
	default:
		logging.Ctx(r.Context()).Info().Str("session_id", id).Msg("Manual scan requested via API")
		respondData(w, r, http.StatusAccepted, map[string]string{"session_id": id, "status": "queued"}, nil)
	}
}

// WebSocket authenticates (via middleware), resolves the session ID and
// upgrades the connection.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	participant := r.URL.Query().Get("participant")

	if subject := auth.SubjectFromContext(r.Context()); subject != nil {
		if subject.SessionID != "" {
			if sessionID != "" && sessionID != subject.SessionID {
				respondError(w, r, http.StatusForbidden, "SESSION_MISMATCH", "Token is bound to a different session", nil)
				return
			}
			sessionID = subject.SessionID
		}
		if subject.Participant != "" {
			participant = subject.Participant
		}
	}
	if sessionID == "" {
		sessionID = uuid.New().String()
	}
	if !validation.ValidSessionID(sessionID) {
		respondError(w, r, http.StatusBadRequest, "INVALID_SESSION_ID", "Invalid session ID", nil)
		return
	}
	if h.hub.Connected(sessionID) {
		respondError(w, r, http.StatusConflict, "SESSION_CONNECTED", "Session already has a connection", nil)
		return
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		logging.Ctx(r.Context()).Warn().Err(err).Msg("WebSocket upgrade error")
		return
	}

	client := ws.NewClient(h.hub, conn, sessionID, h.engine)
	if err := h.hub.Register(client); err != nil {
		rejectConn(conn, err)
		return
	}
	if err := h.engine.OpenSession(sessionID, participant); err != nil {
		h.hub.Detach(client)
		rejectConn(conn, err)
		return
	}
	client.Start()
}

func rejectConn(conn *gws.Conn, err error) {
	logging.Warn().Err(err).Msg("WebSocket connection rejected")
	msg := gws.FormatCloseMessage(gws.ClosePolicyViolation, err.Error())
	_ = conn.WriteControl(gws.CloseMessage, msg, time.Now().Add(time.Second))
	_ = conn.Close()
}

func (h *Handler) getUpgrader() gws.Upgrader {
	return gws.Upgrader{
		ReadBufferSize:   4096,
		WriteBufferSize:  4096,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin accepts configured origins. A missing Origin means
// a non-browser client, which is only accepted when it had to authenticate.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return h.authMode != string(auth.AuthModeNone)
	}
	if h.mw.originAllowed(origin) {
		return true
	}
	logging.Warn().Str("origin", origin).Msg("WebSocket connection rejected from unauthorized origin")
	return false
}
