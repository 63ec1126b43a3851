// Vigil - Real-time Behavioral Alerting for Remote Proctoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vigil

package detection

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/vigil/internal/behavior"
	"github.com/tomtom215/vigil/internal/metrics"
	"github.com/tomtom215/vigil/internal/models"
)

func newTestSession(t *testing.T, mutate func(*Config)) *Session {
	t.Helper()
	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	return NewSession("exam-1", "alice", t0, &cfg)
}

func kinds(alerts []*Alert) []AlertKind {
	out := make([]AlertKind, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, a.Kind)
	}
	return out
}

func TestSession_GazeAlertAtTick(t *testing.T) {
	t.Parallel()
	s := newTestSession(t, nil)

	if out := s.ProcessFrame(at(0), offRight()); len(out.Alerts) != 0 {
		t.Fatalf("first frame alerts = %v", kinds(out.Alerts))
	}
	// Trigger is active but the detection cooldown has not elapsed.
	for _, d := range []time.Duration{secs(3), secs(5), secs(10)} {
		if out := s.ProcessFrame(at(d), offRight()); len(out.Alerts) != 0 {
			t.Fatalf("t+%v alerts = %v, want none", d, kinds(out.Alerts))
		}
	}

	out := s.ProcessFrame(at(secs(10.5)), offRight())
	if !reflect.DeepEqual(kinds(out.Alerts), []AlertKind{AlertGaze}) {
		t.Fatalf("t+10.5s alerts = %v, want [gaze]", kinds(out.Alerts))
	}
	if out.Alerts[0].Description != "Candidate is looking to the right." {
		t.Errorf("Description = %q", out.Alerts[0].Description)
	}
	if sum := s.analyzer.PatternSummary(at(secs(10.5))); sum.Warning != 1 || sum.TotalEvents != 1 {
		t.Errorf("history summary = %+v, want one warning", sum)
	}
}

func TestSession_RiskObjectSuppressesGazeAlert(t *testing.T) {
	t.Parallel()
	s := newTestSession(t, nil)

	s.ProcessFrame(at(0), offRight())
	out := s.ProcessFrame(at(secs(11)), face(0.2, 0, obj("cell phone", 0.9), obj("laptop", 0.8)))

	if len(out.Alerts) != 0 {
		t.Errorf("alerts = %v, want none (gaze suppressed, risk alert is async)", kinds(out.Alerts))
	}
	if out.Caption == nil {
		t.Fatal("expected a caption request")
	}
	if !reflect.DeepEqual(out.Caption.Labels, []string{"cell phone"}) {
		t.Errorf("Labels = %v", out.Caption.Labels)
	}
	if out.Caption.Reason != "Risk objects detected: cell phone" {
		t.Errorf("Reason = %q", out.Caption.Reason)
	}
	if !out.Caption.Risk.HighRisk {
		t.Error("phone at 0.9 should be high risk")
	}

	// Gaze is still recorded, as urgent because a risk object was present.
	sum := s.analyzer.PatternSummary(at(secs(11)))
	if sum.TotalEvents != 2 || sum.Urgent != 2 {
		t.Errorf("history summary = %+v, want two urgent events", sum)
	}
}

func TestSession_AnalysisCooldown(t *testing.T) {
	t.Parallel()
	s := newTestSession(t, nil)
	phone := func() *models.SignalBundle { return centered(obj("cell phone", 0.9)) }

	if out := s.ProcessFrame(at(0), phone()); out.Caption == nil {
		t.Fatal("t+0: expected caption request")
	}
	if out := s.ProcessFrame(at(secs(11)), phone()); out.Caption != nil {
		t.Error("t+11s: analysis cooldown should suppress caption")
	}
	if out := s.ProcessFrame(at(secs(22)), phone()); out.Caption == nil {
		t.Error("t+22s: expected caption request after cooldown")
	}
}

func TestSession_LowConfidenceObjectsIgnored(t *testing.T) {
	t.Parallel()
	s := newTestSession(t, nil)
	if out := s.ProcessFrame(at(0), centered(obj("cell phone", 0.3))); out.Caption != nil {
		t.Error("sub-threshold detection must not request a caption")
	}
}

func TestSession_MultipleFaces(t *testing.T) {
	t.Parallel()
	s := newTestSession(t, nil)
	crowd := func() *models.SignalBundle {
		b := offRight()
		b.FaceCount = 2
		return b
	}

	out := s.ProcessFrame(at(0), crowd())
	if !reflect.DeepEqual(kinds(out.Alerts), []AlertKind{AlertMultiPerson}) {
		t.Fatalf("alerts = %v, want [multi_person]", kinds(out.Alerts))
	}
	if !strings.Contains(out.Alerts[0].Description, "Detected 2 people") {
		t.Errorf("Description = %q", out.Alerts[0].Description)
	}

	out = s.ProcessFrame(at(secs(1)), crowd())
	for _, k := range kinds(out.Alerts) {
		if k == AlertMultiPerson {
			t.Error("multi-person alert repeated inside its cooldown")
		}
	}

	out = s.ProcessFrame(at(secs(10.5)), crowd())
	if !reflect.DeepEqual(kinds(out.Alerts), []AlertKind{AlertMultiPerson}) {
		t.Errorf("after cooldown alerts = %v, want [multi_person]", kinds(out.Alerts))
	}
}

func TestSession_MultiplePersonsFromObjects(t *testing.T) {
	t.Parallel()
	s := newTestSession(t, nil)

	out := s.ProcessFrame(at(0), centered(obj("person", 0.8), obj("person", 0.7), obj("book", 0.9)))
	if !reflect.DeepEqual(kinds(out.Alerts), []AlertKind{AlertMultiPerson}) {
		t.Fatalf("alerts = %v, want [multi_person]", kinds(out.Alerts))
	}
	if out.Caption != nil {
		t.Error("multi-person alert short-circuits risk analysis")
	}
	if sum := s.analyzer.PatternSummary(at(0)); sum.Urgent != 1 {
		t.Errorf("history summary = %+v, want one urgent event", sum)
	}
}

func TestSession_MultipleFaceDetectionDisabled(t *testing.T) {
	t.Parallel()
	s := newTestSession(t, func(c *Config) { c.EnableMultipleFaceDetection = false })
	b := centered()
	b.FaceCount = 3
	for _, k := range kinds(s.ProcessFrame(at(0), b).Alerts) {
		if k == AlertMultiPerson {
			t.Error("multi-person alert with detection disabled")
		}
	}
}

func TestSession_Crossed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		scores []int
		want   []bool
	}{
		{"monotonic escalation", []int{60, 75, 75, 90}, []bool{false, true, false, true}},
		{"drop then recover", []int{80, 75, 85}, []bool{true, false, true}},
		{"exactly threshold", []int{70, 70}, []bool{true, false}},
		{"never crosses", []int{10, 50, 69}, []bool{false, false, false}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := newTestSession(t, nil)
			for i, score := range tt.scores {
				if got := s.crossed(score); got != tt.want[i] {
					t.Errorf("crossed(%d) at step %d = %v, want %v", score, i, got, tt.want[i])
				}
			}
		})
	}
}

func TestSession_Escalate(t *testing.T) {
	t.Parallel()
	s := newTestSession(t, nil)
	for i := 0; i < 3; i++ {
		s.analyzer.AddEvent(behavior.KindRiskObject, behavior.SeverityUrgent, at(time.Duration(i)*6*time.Second))
	}

	a := s.escalate(at(secs(20)))
	if a == nil {
		t.Fatal("expected escalation at 75")
	}
	if a.Title != "HIGH SUSPICION SCORE: 75/100" || a.PatternSummary.Urgent != 3 || len(a.Reasons) == 0 {
		t.Errorf("alert = %+v", a)
	}
	if again := s.escalate(at(secs(21))); again != nil {
		t.Error("equal score must not re-alert")
	}

	s.analyzer.AddEvent(behavior.KindRiskObject, behavior.SeverityUrgent, at(secs(22)))
	if a := s.escalate(at(secs(23))); a == nil || *a.SuspicionScore != 100 {
		t.Errorf("expected escalation to 100, got %+v", a)
	}
	if got := s.Info().LastSuspicionScore; got != 100 {
		t.Errorf("LastSuspicionScore = %d, want 100", got)
	}
}

func TestSession_BehaviorAnalysisDisabled(t *testing.T) {
	t.Parallel()
	s := newTestSession(t, func(c *Config) { c.EnableBehaviorAnalysis = false })

	s.ProcessFrame(at(0), offRight())
	out := s.ProcessFrame(at(secs(11)), offRight())
	if !reflect.DeepEqual(kinds(out.Alerts), []AlertKind{AlertGaze}) {
		t.Errorf("alerts = %v, want [gaze]", kinds(out.Alerts))
	}
	if s.analyzer.Len() != 0 {
		t.Errorf("history len = %d, want 0", s.analyzer.Len())
	}
	s.analyzer.AddEvent(behavior.KindRiskObject, behavior.SeverityUrgent, at(secs(11)))
	if a := s.escalate(at(secs(12))); a != nil {
		t.Error("escalation with behavior analysis disabled")
	}
}

func TestSession_EnvironmentScanOnce(t *testing.T) {
	t.Parallel()
	s := newTestSession(t, nil)

	steps := []struct {
		at   time.Duration
		want bool
	}{
		{0, false},
		{300 * time.Second, false}, // must be strictly after
		{311 * time.Second, true},
		{322 * time.Second, false},
		{900 * time.Second, false},
	}
	for _, st := range steps {
		out := s.ProcessFrame(at(st.at), centered())
		got := reflect.DeepEqual(kinds(out.Alerts), []AlertKind{AlertEnvironmentScan})
		if got != st.want {
			t.Errorf("t+%v scan = %v, want %v (alerts %v)", st.at, got, st.want, kinds(out.Alerts))
		}
	}
	if !s.Info().EnvironmentScanned {
		t.Error("EnvironmentScanned should be set")
	}
}

func TestSession_ManualScan(t *testing.T) {
	t.Parallel()
	s := newTestSession(t, nil)
	for i := 0; i < 3; i++ {
		a := s.ManualScan(at(time.Duration(i) * time.Second))
		if a == nil || a.Type != TypeEnvironmentReq {
			t.Fatalf("ManualScan() = %+v", a)
		}
	}
	if s.Info().EnvironmentScanned {
		t.Error("manual scans must not consume the automatic scan")
	}
}

func TestSession_RecordFrameError(t *testing.T) {
	t.Parallel()
	s := newTestSession(t, nil)

	var noticedAt []int
	for i := 1; i <= 35; i++ {
		if a := s.RecordFrameError(at(0), "decode"); a != nil {
			noticedAt = append(noticedAt, i)
			if !strings.Contains(a.Description, "Encountered") {
				t.Errorf("Description = %q", a.Description)
			}
		}
	}
	if !reflect.DeepEqual(noticedAt, []int{11, 21, 31}) {
		t.Errorf("notices at %v, want [11 21 31]", noticedAt)
	}
	info := s.Info()
	if info.ErrorCount != 35 || info.FrameCount != 35 {
		t.Errorf("Info() = %+v", info)
	}
}

func TestSession_FeatureFailureIsSilent(t *testing.T) {
	t.Parallel()
	s := newTestSession(t, nil)
	broken := &models.SignalBundle{FacePresent: true, ImageWidth: 640, ImageHeight: 480, FaceCount: 1}
	for i := 0; i < 5; i++ {
		if out := s.ProcessFrame(at(time.Duration(i)*11*time.Second), broken); len(out.Alerts) != 0 {
			t.Errorf("frame %d alerts = %v", i, kinds(out.Alerts))
		}
	}
}

func TestSession_EyeObservations(t *testing.T) {
	t.Parallel()
	s := newTestSession(t, nil)
	closed := metrics.EyeObservations.WithLabelValues("eyes_closed")
	away := metrics.EyeObservations.WithLabelValues("looking_away")
	beforeClosed, beforeAway := testutil.ToFloat64(closed), testutil.ToFloat64(away)

	b := centered()
	b.Eyes = &models.EyeMetrics{AvgEyeHeight: 4, GazeDirection: -0.5}
	if out := s.ProcessFrame(at(0), b); len(out.Alerts) != 0 {
		t.Errorf("eye observations must not alert, got %v", kinds(out.Alerts))
	}

	if got := testutil.ToFloat64(closed) - beforeClosed; got != 1 {
		t.Errorf("eyes_closed delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(away) - beforeAway; got != 1 {
		t.Errorf("looking_away delta = %v, want 1", got)
	}
}
