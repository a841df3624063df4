// internal/app/monitoring/status.go
package monitoring

import (
	"time"

	"github.com/dalemusser/parishhub/internal/domain/models"
)

// Attendance-rate thresholds for status transitions.
const (
	needsAttentionBelow = 30
	recoveryAtLeast     = 50
)

// Recalculate recomputes the derived fields and runs the status rules.
// It is a pure function of the visitor's current state: running it twice
// on unchanged inputs yields the same rate, progress, and status.
//
// Transition rules, evaluated in order with first match winning:
//
//  1. overall >= 100 while active        -> completed
//  2. attendance rate < 30 while active  -> needs-attention
//  3. needs-attention and rate >= 50     -> active (recovery)
//  4. otherwise unchanged
//
// "converted-to-member" is terminal: conversion happens only through the
// explicit convert operation, and a converted visitor is never moved back
// into the pipeline here.
func Recalculate(v *models.Visitor) {
	v.AttendanceRate = AttendanceRate(v.VisitHistory)
	v.MonitoringProgress = OverallProgress(v)

	if v.MonitoringStatus == StatusConverted {
		return
	}

	switch {
	// The completed check compares the unrounded composite, while
	// MonitoringProgress stores the rounded value. A visitor can therefore
	// display progress 100 and still be active until the composite itself
	// reaches 100.
	case v.MonitoringStatus == StatusActive && overall(v) >= 100:
		v.MonitoringStatus = StatusCompleted
	case v.MonitoringStatus == StatusActive && v.AttendanceRate < needsAttentionBelow:
		v.MonitoringStatus = StatusNeedsAttention
	case v.MonitoringStatus == StatusNeedsAttention && v.AttendanceRate >= recoveryAtLeast:
		v.MonitoringStatus = StatusActive
	}
}

// RecordVisit appends one attendance outcome and runs the full
// recomputation chain: attendance rate, milestone auto-completion, then the
// status calculator. The caller persists the visitor afterwards; the whole
// sequence is one unit of work on one document.
func RecordVisit(v *models.Visitor, rec models.VisitRecord, now time.Time) {
	if rec.Date.IsZero() {
		rec.Date = now
	}
	v.VisitHistory = append(v.VisitHistory, rec)
	ApplyAutoMilestones(v, now)
	Recalculate(v)
	v.UpdatedAt = now
}

// Convert moves a visitor to the terminal converted-to-member status.
// Converting an already-converted visitor is a no-op; the first conversion
// time is kept.
func Convert(v *models.Visitor, now time.Time) {
	if v.MonitoringStatus == StatusConverted {
		return
	}
	v.MonitoringStatus = StatusConverted
	t := now
	v.ConvertedAt = &t
	v.UpdatedAt = now
}
