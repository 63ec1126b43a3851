// Vigil - Real-time Behavioral Alerting for Remote Proctoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vigil

package config

import (
	"testing"
)

func validConfig() *Config {
	cfg := defaultConfig()
	cfg.Security.Token = "test-token"
	return cfg
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults with token", func(c *Config) {}, false},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, true},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, true},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, true},
		{"token mode without token", func(c *Config) { c.Security.Token = "" }, true},
		{"jwt mode short secret", func(c *Config) {
			c.Security.AuthMode = "jwt"
			c.Security.JWTSecret = "short"
		}, true},
		{"jwt mode long secret", func(c *Config) {
			c.Security.AuthMode = "jwt"
			c.Security.JWTSecret = "0123456789abcdef0123456789abcdef"
		}, false},
		{"none mode", func(c *Config) {
			c.Security.AuthMode = "none"
			c.Security.Token = ""
		}, false},
		{"unknown auth mode", func(c *Config) { c.Security.AuthMode = "basic" }, true},
		{"threshold above 100", func(c *Config) { c.Proctor.SuspicionThreshold = 101 }, true},
		{"zero history", func(c *Config) { c.Proctor.HistorySize = 0 }, true},
		{"confidence above 1", func(c *Config) { c.Proctor.MinObjectConfidence = 1.5 }, true},
		{"zero lane buffer", func(c *Config) { c.Sessions.LaneBuffer = 0 }, true},
		{"caption enabled without url", func(c *Config) { c.Caption.Enabled = true }, true},
		{"caption enabled with url", func(c *Config) {
			c.Caption.Enabled = true
			c.Caption.URL = "http://captioner:8000/caption"
		}, false},
		{"caption bad scheme", func(c *Config) {
			c.Caption.Enabled = true
			c.Caption.URL = "ftp://captioner"
		}, true},
		{"notifier without url", func(c *Config) { c.Notifier.Enabled = true }, true},
		{"ingest bad url", func(c *Config) {
			c.Ingest.Enabled = true
			c.Ingest.URL = "http://nats:4222"
		}, true},
		{"ingest embedded ignores url", func(c *Config) {
			c.Ingest.Enabled = true
			c.Ingest.EmbeddedServer = true
			c.Ingest.URL = ""
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateNATSURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url     string
		wantErr bool
	}{
		{"nats://localhost:4222", false},
		{"tls://nats.example.com:4222", false},
		{"wss://nats.example.com", false},
		{"http://localhost:4222", true},
		{"nats://", true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			t.Parallel()
			if err := validateNATSURL(tt.url); (err != nil) != tt.wantErr {
				t.Errorf("validateNATSURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}
