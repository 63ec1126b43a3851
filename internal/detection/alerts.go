// Vigil - Real-time Behavioral Alerting for Remote Proctoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vigil

package detection

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tomtom215/vigil/internal/behavior"
)

// multiPersonScore is the fixed suspicion score attached to multi-person alerts.
const multiPersonScore = 85

type gazeCopy struct {
	title       string
	description string
	severity    behavior.Severity
}

var gazeCatalogue = map[behavior.Kind]gazeCopy{
	behavior.KindLookingLeft:  {"WARNING: Off-Screen Gaze", "Candidate is looking to the left.", behavior.SeverityWarning},
	behavior.KindLookingRight: {"WARNING: Off-Screen Gaze", "Candidate is looking to the right.", behavior.SeverityWarning},
	behavior.KindLookingDown:  {"WARNING: Looking Down", "Detected downward glances.", behavior.SeverityWarning},
	behavior.KindFaceMissing:  {"ATTENTION: Face Not Visible", "Candidate is not visible in the camera feed.", behavior.SeverityAttention},
}

const (
	scanTitle             = "REQUEST: 360° Environmental Scan"
	scanAutoDescription   = "Please show your surroundings by doing a 360-degree scan with your camera."
	scanManualDescription = "Proctor has manually requested a 360-degree scan of your surroundings."
)

var titleCaser = cases.Title(language.English)

func intPtr(v int) *int { return &v }

// GazeAlert returns the alert for a debouncer trigger.
func GazeAlert(kind behavior.Kind, now time.Time) *Alert {
	c, ok := gazeCatalogue[kind]
	if !ok {
		c = gazeCopy{"ATTENTION: Unusual Behavior", string(kind), behavior.SeverityAttention}
	}
	return &Alert{Title: c.title, Description: c.description, Severity: c.severity, Timestamp: now, Kind: AlertGaze}
}

// MultiPersonAlert reports count people in frame.
func MultiPersonAlert(count int, now time.Time) *Alert {
	return &Alert{
		Title:          "ALERT: Multiple People Detected",
		Description:    fmt.Sprintf("Detected %d people in the frame. Only the candidate should be present.", count),
		SuspicionScore: intPtr(multiPersonScore),
		Severity:       behavior.SeverityUrgent,
		Timestamp:      now,
		Kind:           AlertMultiPerson,
	}
}

// RiskObjectAlert builds the urgent alert for detected risk objects.
func RiskObjectAlert(labels []string, captionText string, rc RiskContext, now time.Time) *Alert {
	titled := make([]string, len(labels))
	for i, l := range labels {
		titled[i] = titleCaser.String(l)
	}
	return &Alert{
		Title:       fmt.Sprintf("URGENT: %s Detected", strings.Join(titled, ", ")),
		Description: captionText + rc.ConfidenceSuffix(),
		Severity:    behavior.SeverityUrgent,
		Timestamp:   now,
		Kind:        AlertRiskObject,
	}
}

// HighSuspicionAlert reports a new, higher suspicion score.
func HighSuspicionAlert(res behavior.Result, summary behavior.Summary, now time.Time) *Alert {
	return &Alert{
		Title:          fmt.Sprintf("HIGH SUSPICION SCORE: %d/100", res.Score),
		Description:    "Behavioral patterns detected: " + strings.Join(res.Reasons, "; "),
		SuspicionScore: intPtr(res.Score),
		PatternSummary: &summary,
		Reasons:        res.Reasons,
		Severity:       behavior.SeverityUrgent,
		Timestamp:      now,
		Kind:           AlertHighSuspicion,
	}
}

// ScanAlert asks the candidate for a 360° environmental scan.
func ScanAlert(manual bool, now time.Time) *Alert {
	desc := scanAutoDescription
	if manual {
		desc = scanManualDescription
	}
	return &Alert{
		Title:       scanTitle,
		Description: desc,
		Type:        TypeEnvironmentReq,
		Severity:    behavior.SeverityAttention,
		Timestamp:   now,
		Kind:        AlertEnvironmentScan,
	}
}

// ReadyAlert is sent once when a session connects.
func ReadyAlert(caps Capabilities, now time.Time) *Alert {
	return &Alert{
		Title:        "System Connected",
		Description:  "AI proctor is ready with enhanced detection.",
		Type:         TypeSessionReady,
		Timestamp:    now,
		Kind:         AlertSessionReady,
		ModelsLoaded: &caps,
	}
}

// ErrorNoticeAlert reports accumulated frame processing errors.
func ErrorNoticeAlert(errorCount int64, now time.Time) *Alert {
	return &Alert{
		Title:       "Processing Errors",
		Description: fmt.Sprintf("Encountered %d errors processing frames. Check video quality.", errorCount),
		Severity:    behavior.SeverityAttention,
		Timestamp:   now,
		Kind:        AlertProcessingErrors,
	}
}
