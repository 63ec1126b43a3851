// Vigil - Real-time Behavioral Alerting for Remote Proctoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vigil

package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tomtom215/vigil/internal/config"
)

// ErrUnauthorized is the root of every authentication failure.
var ErrUnauthorized = errors.New("unauthorized")

var (
	// ErrNoCredentials is returned when the request carries no token.
	ErrNoCredentials = fmt.Errorf("%w: no credentials provided", ErrUnauthorized)

	// ErrInvalidCredentials is returned for a token that does not verify.
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthorized)

	// ErrExpiredCredentials is returned for an expired JWT.
	ErrExpiredCredentials = fmt.Errorf("%w: credentials expired", ErrUnauthorized)
)

// AuthMode represents the authentication strategy.
type AuthMode string

const (
	// AuthModeNone accepts every connection.
	AuthModeNone AuthMode = "none"

	// AuthModeToken compares a shared secret.
	AuthModeToken AuthMode = "token"

	// AuthModeJWT verifies an HS256 token whose subject labels the participant.
	AuthModeJWT AuthMode = "jwt"
)

// ParseAuthMode converts a string to AuthMode.
func ParseAuthMode(s string) (AuthMode, error) {
	switch AuthMode(strings.ToLower(strings.TrimSpace(s))) {
	case AuthModeNone, "":
		return AuthModeNone, nil
	case AuthModeToken:
		return AuthModeToken, nil
	case AuthModeJWT:
		return AuthModeJWT, nil
	default:
		return "", errors.New("invalid auth mode: " + s)
	}
}

// Subject is an authenticated caller.
type Subject struct {
	// Participant labels the caller, from the JWT subject. Empty for shared tokens.
	Participant string

	// SessionID is an optional session the token is bound to.
	SessionID string

	// Method is the AuthMode that accepted the caller.
	Method AuthMode
}

// Authenticator verifies the credentials on a request.
type Authenticator interface {
	Authenticate(r *http.Request) (*Subject, error)
	Name() string
}

// New builds the authenticator selected by cfg.
func New(cfg *config.SecurityConfig) (Authenticator, error) {
	mode, err := ParseAuthMode(cfg.AuthMode)
	if err != nil {
		return nil, err
	}
	switch mode {
	case AuthModeToken:
		return NewTokenAuthenticator(cfg.Token)
	case AuthModeJWT:
		manager, err := NewJWTManager(cfg.JWTSecret)
		if err != nil {
			return nil, err
		}
		return NewJWTAuthenticator(manager), nil
	default:
		return NoneAuthenticator{}, nil
	}
}

// NoneAuthenticator accepts every request.
type NoneAuthenticator struct{}

// Authenticate always succeeds.
func (NoneAuthenticator) Authenticate(*http.Request) (*Subject, error) {
	return &Subject{Method: AuthModeNone}, nil
}

// Name returns the authenticator name.
func (NoneAuthenticator) Name() string { return string(AuthModeNone) }

// extractToken finds a token in, by priority: the Authorization bearer
// header, the X-Auth-Token header, then the "token" query parameter.
// Browsers cannot set headers on a WebSocket handshake, hence the last.
func extractToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			if token := strings.TrimSpace(parts[1]); token != "" {
				return token
			}
		}
	}
	if token := strings.TrimSpace(r.Header.Get("X-Auth-Token")); token != "" {
		return token
	}
	return r.URL.Query().Get("token")
}
