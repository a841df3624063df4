// Package monitoring implements the visitor monitoring engine: attendance
// rate derivation, milestone auto-completion, the composite progress score,
// and monitoring-status transitions.
//
// Everything here is a pure function over the Visitor aggregate. Handlers
// load a visitor, apply one of these operations, and persist the whole
// document back, so the engine itself never touches the database.
package monitoring

import (
	"math"
	"time"

	"github.com/dalemusser/parishhub/internal/domain/models"
)

// Monitoring statuses.
const (
	StatusInactive       = "inactive"
	StatusActive         = "active"
	StatusNeedsAttention = "needs-attention"
	StatusCompleted      = "completed"
	StatusConverted      = "converted-to-member"
)

// Visitor types.
const (
	TypeVisiting = "visiting"
	TypeJoining  = "joining"
)

// Attendance outcomes.
const (
	AttendancePresent = "present"
	AttendanceAbsent  = "absent"
)

// EventPrimaryService is the event type whose present-records drive
// milestone auto-completion.
const EventPrimaryService = "primary-service"

const (
	// MilestoneWeeks is the fixed length of the weekly milestone program.
	MilestoneWeeks = 12

	// MonitoringDays is the fixed monitoring window for joining visitors.
	MonitoringDays = 90

	// ChecklistItems is the number of integration-checklist flags.
	ChecklistItems = 6
)

// Composite progress weights (see OverallProgress).
const (
	milestoneWeight  = 0.5
	attendanceWeight = 0.3
	checklistWeight  = 0.2
)

// IsValidStatus reports whether s is a known monitoring status.
func IsValidStatus(s string) bool {
	switch s {
	case StatusInactive, StatusActive, StatusNeedsAttention, StatusCompleted, StatusConverted:
		return true
	}
	return false
}

// NewMilestones returns the fixed 12-entry milestone slice for a visitor
// whose monitoring is beginning, all incomplete.
func NewMilestones() []models.Milestone {
	ms := make([]models.Milestone, MilestoneWeeks)
	for i := range ms {
		ms[i].Week = i + 1
	}
	return ms
}

// Window returns the monitoring window for a program starting at start:
// the start itself and the fixed end 90 days later.
func Window(start time.Time) (time.Time, time.Time) {
	return start, start.AddDate(0, 0, MonitoringDays)
}

// AttendanceRate returns the percentage of "present" records across the
// whole visit history, rounded to the nearest integer. An empty history
// reports 0, never an error.
func AttendanceRate(history []models.VisitRecord) int {
	if len(history) == 0 {
		return 0
	}
	present := 0
	for _, v := range history {
		if v.AttendanceStatus == AttendancePresent {
			present++
		}
	}
	return roundPct(present, len(history))
}

// PresentPrimaryCount counts "present" records of the primary-service
// event type across the full history. Cumulative, never a rolling window.
func PresentPrimaryCount(history []models.VisitRecord) int {
	n := 0
	for _, v := range history {
		if v.AttendanceStatus == AttendancePresent && v.EventType == EventPrimaryService {
			n++
		}
	}
	return n
}

// MilestoneProgress returns round(100 * completed / 12).
func MilestoneProgress(ms []models.Milestone) int {
	if len(ms) == 0 {
		return 0
	}
	done := 0
	for _, m := range ms {
		if m.Completed {
			done++
		}
	}
	return roundPct(done, MilestoneWeeks)
}

// ChecklistProgress returns the integration-checklist percentage:
// 100 * (true flags / 6).
func ChecklistProgress(cl models.IntegrationChecklist) int {
	done := 0
	for _, b := range []bool{
		cl.WelcomePackage,
		cl.HomeVisit,
		cl.SmallGroupIntro,
		cl.MinistryOpportunities,
		cl.MentorAssigned,
		cl.RegularCheckIns,
	} {
		if b {
			done++
		}
	}
	return roundPct(done, ChecklistItems)
}

// OverallProgress computes the composite monitoring progress:
//
//	0.5*milestones + 0.3*min(attendanceRate,100) + 0.2*checklist
//
// The result is rounded and always lands in [0,100] for inputs in their
// valid domains.
func OverallProgress(v *models.Visitor) int {
	return int(math.Round(overall(v)))
}

func overall(v *models.Visitor) float64 {
	ar := v.AttendanceRate
	if ar > 100 {
		ar = 100
	}
	return milestoneWeight*float64(MilestoneProgress(v.Milestones)) +
		attendanceWeight*float64(ar) +
		checklistWeight*float64(ChecklistProgress(v.IntegrationChecklist))
}

func roundPct(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return int(math.Round(100 * float64(part) / float64(whole)))
}
