// Vigil - Real-time Behavioral Alerting for Remote Proctoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vigil

package detection

import (
	"reflect"
	"testing"

	"github.com/tomtom215/vigil/internal/models"
)

func TestFilterObjects(t *testing.T) {
	t.Parallel()
	objs := []models.DetectedObject{obj("book", 0.49), obj("book", 0.5), obj("cell phone", 0.9)}
	got := FilterObjects(objs, 0.5)
	if len(got) != 2 || got[0].Confidence != 0.5 {
		t.Errorf("FilterObjects() = %+v, want the 0.5 and 0.9 detections", got)
	}
}

func TestRiskLabels(t *testing.T) {
	t.Parallel()
	set := riskSet([]string{"Cell Phone", " book ", "person"})

	tests := []struct {
		name string
		objs []models.DetectedObject
		want []string
	}{
		{"none", nil, nil},
		{"non-risk only", []models.DetectedObject{obj("laptop", 0.9), obj("cup", 0.8)}, nil},
		{
			name: "first-seen order without duplicates",
			objs: []models.DetectedObject{obj("book", 0.6), obj("laptop", 0.9), obj("CELL PHONE", 0.8), obj("book", 0.7)},
			want: []string{"book", "cell phone"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := RiskLabels(tt.objs, set); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("RiskLabels() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCountLabel(t *testing.T) {
	t.Parallel()
	objs := []models.DetectedObject{obj("person", 0.9), obj("Person", 0.7), obj("book", 0.9)}
	if got := CountLabel(objs, "person"); got != 2 {
		t.Errorf("CountLabel(person) = %d, want 2", got)
	}
}

func TestAssessRisk(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		objs      []models.DetectedObject
		wantTotal float64
		wantHigh  bool
		wantN     int
	}{
		{"phone is high risk", []models.DetectedObject{obj("cell phone", 0.9)}, 9, true, 1},
		{"weak book is not", []models.DetectedObject{obj("book", 0.5)}, 4, false, 1},
		{"unweighted labels ignored", []models.DetectedObject{obj("cup", 1), obj("mouse", 1)}, 2, false, 1},
		{"sums across objects", []models.DetectedObject{obj("keyboard", 1), obj("laptop", 1)}, 8, true, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rc := AssessRisk(tt.objs)
			if rc.TotalRisk != tt.wantTotal || rc.HighRisk != tt.wantHigh || len(rc.Objects) != tt.wantN {
				t.Errorf("AssessRisk() = %+v, want total=%v high=%v n=%d", rc, tt.wantTotal, tt.wantHigh, tt.wantN)
			}
		})
	}
}

func TestRiskContext_ConfidenceSuffix(t *testing.T) {
	t.Parallel()
	if got := (RiskContext{}).ConfidenceSuffix(); got != "" {
		t.Errorf("empty suffix = %q", got)
	}
	rc := AssessRisk([]models.DetectedObject{obj("cell phone", 0.87), obj("book", 0.64)})
	want := " | Confidence: cell phone (87%), book (64%)"
	if got := rc.ConfidenceSuffix(); got != want {
		t.Errorf("ConfidenceSuffix() = %q, want %q", got, want)
	}
}
