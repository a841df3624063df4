// internal/app/monitoring/milestones.go
package monitoring

import (
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/parishhub/internal/domain/models"
)

// ErrInvalidWeek is returned when a milestone week is outside 1..12.
var ErrInvalidWeek = errors.New("milestone week must be between 1 and 12")

// autoRule maps a cumulative present-count threshold at primary services to
// the milestone week it unlocks. The table is fixed; it is not runtime
// configuration.
type autoRule struct {
	week        int
	threshold   int
	description string
}

var autoRules = []autoRule{
	{week: 5, threshold: 2, description: "small-group introduction unlocked"},
	{week: 7, threshold: 4, description: "volunteer opportunity unlocked"},
	{week: 9, threshold: 6, description: "regular check-ins unlocked"},
}

// ApplyAutoMilestones completes every milestone whose attendance threshold
// is met and not yet completed, stamping the completion time and an auto
// note with the qualifying count. Already-completed milestones are left
// untouched, so the operation only ever moves incomplete -> complete and is
// idempotent for an unchanged history.
//
// It returns the weeks newly completed by this call.
func ApplyAutoMilestones(v *models.Visitor, now time.Time) []int {
	count := PresentPrimaryCount(v.VisitHistory)

	var completed []int
	for _, rule := range autoRules {
		if count < rule.threshold {
			continue
		}
		m := findOrCreateMilestone(v, rule.week)
		if m.Completed {
			continue
		}
		m.Completed = true
		t := now
		m.CompletedDate = &t
		m.Notes = fmt.Sprintf("auto-completed: %d present primary-service visits (threshold %d), %s",
			count, rule.threshold, rule.description)
		completed = append(completed, rule.week)
	}
	return completed
}

// SetMilestone is the manual override: it sets one week's completed flag
// directly, with free-text notes from the caretaker. Marking an already
// completed milestone complete again is idempotent; setting completed=false
// clears the completion date.
func SetMilestone(v *models.Visitor, week int, completed bool, notes string, now time.Time) error {
	if week < 1 || week > MilestoneWeeks {
		return ErrInvalidWeek
	}
	m := findOrCreateMilestone(v, week)
	if notes != "" {
		m.ProtocolMemberNotes = notes
	}
	if completed {
		if !m.Completed {
			m.Completed = true
			t := now
			m.CompletedDate = &t
		}
		return nil
	}
	m.Completed = false
	m.CompletedDate = nil
	return nil
}

// findOrCreateMilestone returns a pointer to the milestone entry for the
// given week. Visitors registered as joining always carry all 12 entries,
// but a visitor promoted from "visiting" may not, so missing entries are
// backfilled in week order.
func findOrCreateMilestone(v *models.Visitor, week int) *models.Milestone {
	for i := range v.Milestones {
		if v.Milestones[i].Week == week {
			return &v.Milestones[i]
		}
	}
	v.Milestones = append(v.Milestones, models.Milestone{Week: week})
	return &v.Milestones[len(v.Milestones)-1]
}
