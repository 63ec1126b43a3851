// Vigil - Real-time Behavioral Alerting for Remote Proctoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vigil

package detection

import (
	"fmt"
	"strings"

	"github.com/tomtom215/vigil/internal/models"
)

// objectWeights scores how incriminating an object is. Unlisted labels weigh 0.
var objectWeights = map[string]float64{
	"cell phone": 10,
	"book":       8,
	"person":     9,
	"laptop":     5,
	"keyboard":   3,
	"mouse":      2,
}

// highRiskTotal is the summed risk at which a frame counts as high risk.
const highRiskTotal = 8

// WeightedObject is a detection that carries a non-zero risk weight.
type WeightedObject struct {
	Label      string
	Confidence float64
	RiskValue  float64
}

// RiskContext summarizes the weighted detections in one frame.
type RiskContext struct {
	Objects   []WeightedObject
	TotalRisk float64
	HighRisk  bool
}

// FilterObjects drops detections below minConfidence.
func FilterObjects(objs []models.DetectedObject, minConfidence float64) []models.DetectedObject {
	out := make([]models.DetectedObject, 0, len(objs))
	for _, o := range objs {
		if o.Confidence >= minConfidence {
			out = append(out, o)
		}
	}
	return out
}

// RiskLabels returns the distinct detected labels that are in riskSet,
// in the order they were first detected.
func RiskLabels(objs []models.DetectedObject, riskSet map[string]struct{}) []string {
	var out []string
	seen := make(map[string]struct{}, len(objs))
	for _, o := range objs {
		label := strings.ToLower(o.Label)
		if _, risky := riskSet[label]; !risky {
			continue
		}
		if _, dup := seen[label]; dup {
			continue
		}
		seen[label] = struct{}{}
		out = append(out, label)
	}
	return out
}

// CountLabel counts detections with the given label.
func CountLabel(objs []models.DetectedObject, label string) int {
	n := 0
	for _, o := range objs {
		if strings.EqualFold(o.Label, label) {
			n++
		}
	}
	return n
}

// AssessRisk weighs each detection by label and confidence.
func AssessRisk(objs []models.DetectedObject) RiskContext {
	var rc RiskContext
	for _, o := range objs {
		w, ok := objectWeights[strings.ToLower(o.Label)]
		if !ok {
			continue
		}
		v := w * o.Confidence
		rc.Objects = append(rc.Objects, WeightedObject{Label: strings.ToLower(o.Label), Confidence: o.Confidence, RiskValue: v})
		rc.TotalRisk += v
	}
	rc.HighRisk = rc.TotalRisk >= highRiskTotal
	return rc
}

// ConfidenceSuffix renders " | Confidence: cell phone (87%), book (64%)",
// or "" when nothing was weighted.
func (rc RiskContext) ConfidenceSuffix() string {
	if len(rc.Objects) == 0 {
		return ""
	}
	parts := make([]string, len(rc.Objects))
	for i, o := range rc.Objects {
		parts[i] = fmt.Sprintf("%s (%.0f%%)", o.Label, o.Confidence*100)
	}
	return " | Confidence: " + strings.Join(parts, ", ")
}

// riskSet builds a lookup from configured labels.
func riskSet(labels []string) map[string]struct{} {
	set := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		set[strings.ToLower(strings.TrimSpace(l))] = struct{}{}
	}
	return set
}
