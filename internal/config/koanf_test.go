// Vigil - Real-time Behavioral Alerting for Remote Proctoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vigil

package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()

	if cfg.Server.Port != 5002 {
		t.Errorf("Server.Port = %d, want 5002", cfg.Server.Port)
	}
	if cfg.Proctor.YawThreshold != 60 {
		t.Errorf("Proctor.YawThreshold = %v, want 60", cfg.Proctor.YawThreshold)
	}
	if cfg.Proctor.PitchThreshold != 40 {
		t.Errorf("Proctor.PitchThreshold = %v, want 40", cfg.Proctor.PitchThreshold)
	}
	if cfg.Proctor.GazeAlertDelay != 2*time.Second {
		t.Errorf("Proctor.GazeAlertDelay = %v, want 2s", cfg.Proctor.GazeAlertDelay)
	}
	if cfg.Proctor.FaceMissingDelay != 3*time.Second {
		t.Errorf("Proctor.FaceMissingDelay = %v, want 3s", cfg.Proctor.FaceMissingDelay)
	}
	if cfg.Proctor.DetectionCooldown != 10*time.Second {
		t.Errorf("Proctor.DetectionCooldown = %v, want 10s", cfg.Proctor.DetectionCooldown)
	}
	if cfg.Proctor.AnalysisCooldown != 15*time.Second {
		t.Errorf("Proctor.AnalysisCooldown = %v, want 15s", cfg.Proctor.AnalysisCooldown)
	}
	if cfg.Proctor.SuspicionThreshold != 70 {
		t.Errorf("Proctor.SuspicionThreshold = %d, want 70", cfg.Proctor.SuspicionThreshold)
	}
	if cfg.Proctor.HistorySize != 50 {
		t.Errorf("Proctor.HistorySize = %d, want 50", cfg.Proctor.HistorySize)
	}
	if cfg.Proctor.AnalysisWindow != time.Minute {
		t.Errorf("Proctor.AnalysisWindow = %v, want 1m", cfg.Proctor.AnalysisWindow)
	}
	if cfg.Proctor.EnvironmentScanAfter != 5*time.Minute {
		t.Errorf("Proctor.EnvironmentScanAfter = %v, want 5m", cfg.Proctor.EnvironmentScanAfter)
	}
	wantRisk := []string{"cell phone", "book", "person", "tv", "remote"}
	if !reflect.DeepEqual(cfg.Proctor.RiskObjects, wantRisk) {
		t.Errorf("Proctor.RiskObjects = %v, want %v", cfg.Proctor.RiskObjects, wantRisk)
	}
	if cfg.Caption.Enabled {
		t.Error("Caption.Enabled = true, want false")
	}
	if cfg.Ingest.Subject != "proctor.signals" {
		t.Errorf("Ingest.Subject = %q, want proctor.signals", cfg.Ingest.Subject)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	t.Parallel()

	tests := []struct {
		env  string
		want string
	}{
		{"HTTP_PORT", "server.port"},
		{"SECRET_KEY", "security.token"},
		{"AUTH_TOKEN", "security.token"},
		{"GAZE_ALERT_DELAY", "proctor.gaze_alert_delay"},
		{"YOLO_COOLDOWN", "proctor.detection_cooldown"},
		{"LOCAL_ANALYSIS_COOLDOWN", "proctor.analysis_cooldown"},
		{"SUSPICION_SCORE_THRESHOLD", "proctor.suspicion_threshold"},
		{"ENABLE_EYE_TRACKING", "proctor.enable_eye_tracking"},
		{"CAPTION_URL", "caption.url"},
		{"NATS_EMBEDDED", "ingest.embedded_server"},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Parallel()
			if got := envTransformFunc(tt.env); got != tt.want {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.env, got, tt.want)
			}
		})
	}
}

func TestLoadWithKoanf_EnvOverrides(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, "")
	t.Setenv("SECRET_KEY", "s3cret")
	t.Setenv("HTTP_PORT", "9100")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("GAZE_ALERT_DELAY", "1500ms")
	t.Setenv("SUSPICION_SCORE_THRESHOLD", "80")
	t.Setenv("RISK_OBJECTS", "cell phone, book")
	t.Setenv("ENABLE_EYE_TRACKING", "false")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Security.Token != "s3cret" {
		t.Errorf("Security.Token = %q, want s3cret", cfg.Security.Token)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("Server.Port = %d, want 9100", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Proctor.GazeAlertDelay != 1500*time.Millisecond {
		t.Errorf("Proctor.GazeAlertDelay = %v, want 1.5s", cfg.Proctor.GazeAlertDelay)
	}
	if cfg.Proctor.SuspicionThreshold != 80 {
		t.Errorf("Proctor.SuspicionThreshold = %d, want 80", cfg.Proctor.SuspicionThreshold)
	}
	if want := []string{"cell phone", "book"}; !reflect.DeepEqual(cfg.Proctor.RiskObjects, want) {
		t.Errorf("Proctor.RiskObjects = %v, want %v", cfg.Proctor.RiskObjects, want)
	}
	if cfg.Proctor.EnableEyeTracking {
		t.Error("Proctor.EnableEyeTracking = true, want false")
	}
	if cfg.Proctor.FaceMissingDelay != 3*time.Second {
		t.Errorf("Proctor.FaceMissingDelay = %v, want 3s (default)", cfg.Proctor.FaceMissingDelay)
	}
}

func TestLoadWithKoanf_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 6000
security:
  auth_mode: token
  token: from-file
proctor:
  analysis_cooldown: 20s
  history_size: 25
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("HTTP_PORT", "6100")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 6100 {
		t.Errorf("Server.Port = %d, want 6100 (env overrides file)", cfg.Server.Port)
	}
	if cfg.Security.Token != "from-file" {
		t.Errorf("Security.Token = %q, want from-file", cfg.Security.Token)
	}
	if cfg.Proctor.AnalysisCooldown != 20*time.Second {
		t.Errorf("Proctor.AnalysisCooldown = %v, want 20s", cfg.Proctor.AnalysisCooldown)
	}
	if cfg.Proctor.HistorySize != 25 {
		t.Errorf("Proctor.HistorySize = %d, want 25", cfg.Proctor.HistorySize)
	}
}

func TestLoadWithKoanf_ValidationError(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, "")
	t.Setenv("AUTH_MODE", "token")
	t.Setenv("SECRET_KEY", "")

	if _, err := LoadWithKoanf(); err == nil {
		t.Fatal("LoadWithKoanf() error = nil, want missing SECRET_KEY error")
	}
}

func TestFindConfigFile_EnvPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 1\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	if got := findConfigFile(); got != path {
		t.Errorf("findConfigFile() = %q, want %q", got, path)
	}
}
