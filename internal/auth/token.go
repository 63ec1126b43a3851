// Vigil - Real-time Behavioral Alerting for Remote Proctoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vigil

package auth

import (
	"crypto/subtle"
	"errors"
	"net/http"
)

// TokenAuthenticator accepts requests presenting the shared secret.
type TokenAuthenticator struct {
	token []byte
}

// NewTokenAuthenticator creates a shared-token authenticator.
func NewTokenAuthenticator(token string) (*TokenAuthenticator, error) {
	if token == "" {
		return nil, errors.New("AUTH_TOKEN is required when AUTH_MODE=token")
	}
	return &TokenAuthenticator{token: []byte(token)}, nil
}

// Authenticate compares the presented token in constant time.
func (a *TokenAuthenticator) Authenticate(r *http.Request) (*Subject, error) {
	presented := extractToken(r)
	if presented == "" {
		return nil, ErrNoCredentials
	}
	if subtle.ConstantTimeCompare([]byte(presented), a.token) != 1 {
		return nil, ErrInvalidCredentials
	}
	return &Subject{Method: AuthModeToken}, nil
}

// Name returns the authenticator name.
func (a *TokenAuthenticator) Name() string { return string(AuthModeToken) }
