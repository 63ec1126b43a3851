// Vigil - Real-time Behavioral Alerting for Remote Proctoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vigil

// Package session provides the process-wide session registry and the
// per-session execution lanes.
//
// Every session gets one lane: a buffered channel drained by one goroutine,
// so jobs for a session run one at a time in submission order. A weighted
// semaphore caps how many lanes execute at once across the process. A full
// lane applies backpressure to its submitter instead of dropping or
// reordering work.
//
//	lanes := session.NewLanes(100, 0)
//	_ = lanes.Open("exam-42")
//	_ = lanes.Enqueue(ctx, "exam-42", func(ctx context.Context) { ... })
//	lanes.Close("exam-42") // queued jobs are discarded
package session
