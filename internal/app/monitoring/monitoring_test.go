package monitoring_test

import (
	"testing"
	"time"

	"github.com/dalemusser/parishhub/internal/app/monitoring"
	"github.com/dalemusser/parishhub/internal/domain/models"
)

func visit(event, status string) models.VisitRecord {
	return models.VisitRecord{
		Date:             time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		EventType:        event,
		AttendanceStatus: status,
	}
}

func presentPrimary(n int) []models.VisitRecord {
	out := make([]models.VisitRecord, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, visit(monitoring.EventPrimaryService, monitoring.AttendancePresent))
	}
	return out
}

func TestAttendanceRate(t *testing.T) {
	tests := []struct {
		name    string
		history []models.VisitRecord
		want    int
	}{
		{"empty history reports zero", nil, 0},
		{"all present", presentPrimary(4), 100},
		{"half present", []models.VisitRecord{
			visit("midweek", monitoring.AttendancePresent),
			visit("midweek", monitoring.AttendanceAbsent),
		}, 50},
		{"one of three rounds to 33", []models.VisitRecord{
			visit("midweek", monitoring.AttendancePresent),
			visit("midweek", monitoring.AttendanceAbsent),
			visit("midweek", monitoring.AttendanceAbsent),
		}, 33},
		{"two of three rounds to 67", []models.VisitRecord{
			visit("midweek", monitoring.AttendancePresent),
			visit("midweek", monitoring.AttendancePresent),
			visit("midweek", monitoring.AttendanceAbsent),
		}, 67},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := monitoring.AttendanceRate(tt.history); got != tt.want {
				t.Errorf("AttendanceRate = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestApplyAutoMilestones_ThresholdExactness(t *testing.T) {
	tests := []struct {
		presents int
		week     int
		want     bool
	}{
		{1, 5, false},
		{2, 5, true},
		{3, 7, false},
		{4, 7, true},
		{5, 9, false},
		{6, 9, true},
	}

	for _, tt := range tests {
		v := &models.Visitor{
			Milestones:   monitoring.NewMilestones(),
			VisitHistory: presentPrimary(tt.presents),
		}
		monitoring.ApplyAutoMilestones(v, time.Now().UTC())

		got := milestoneByWeek(t, v, tt.week).Completed
		if got != tt.want {
			t.Errorf("with %d present visits, week %d completed = %v, want %v",
				tt.presents, tt.week, got, tt.want)
		}
	}
}

func TestApplyAutoMilestones_NonPrimaryVisitsDoNotCount(t *testing.T) {
	v := &models.Visitor{Milestones: monitoring.NewMilestones()}
	for i := 0; i < 6; i++ {
		v.VisitHistory = append(v.VisitHistory, visit("midweek", monitoring.AttendancePresent))
	}
	monitoring.ApplyAutoMilestones(v, time.Now().UTC())

	if milestoneByWeek(t, v, 5).Completed {
		t.Error("week 5 should not auto-complete from non-primary visits")
	}
}

func TestApplyAutoMilestones_Idempotent(t *testing.T) {
	now := time.Date(2026, 3, 8, 9, 0, 0, 0, time.UTC)
	v := &models.Visitor{
		Milestones:   monitoring.NewMilestones(),
		VisitHistory: presentPrimary(4),
	}

	first := monitoring.ApplyAutoMilestones(v, now)
	if len(first) != 2 {
		t.Fatalf("first run completed %v, want weeks 5 and 7", first)
	}
	note := milestoneByWeek(t, v, 5).Notes
	date := milestoneByWeek(t, v, 5).CompletedDate

	second := monitoring.ApplyAutoMilestones(v, now.Add(24*time.Hour))
	if len(second) != 0 {
		t.Errorf("second run with no new attendance completed %v, want none", second)
	}
	if got := milestoneByWeek(t, v, 5).Notes; got != note {
		t.Errorf("note overwritten on re-run: %q -> %q", note, got)
	}
	if got := milestoneByWeek(t, v, 5).CompletedDate; !got.Equal(*date) {
		t.Error("completed date changed on re-run")
	}
}

func TestApplyAutoMilestones_NeverUncompletes(t *testing.T) {
	now := time.Now().UTC()
	v := &models.Visitor{Milestones: monitoring.NewMilestones()}
	if err := monitoring.SetMilestone(v, 5, true, "done in person", now); err != nil {
		t.Fatalf("SetMilestone: %v", err)
	}
	// No qualifying attendance at all.
	monitoring.ApplyAutoMilestones(v, now)

	if !milestoneByWeek(t, v, 5).Completed {
		t.Error("auto-completion flipped a completed milestone back to incomplete")
	}
}

func TestSetMilestone(t *testing.T) {
	now := time.Now().UTC()
	v := &models.Visitor{Milestones: monitoring.NewMilestones()}

	if err := monitoring.SetMilestone(v, 3, true, "met the family", now); err != nil {
		t.Fatalf("SetMilestone: %v", err)
	}
	m := milestoneByWeek(t, v, 3)
	if !m.Completed || m.CompletedDate == nil {
		t.Error("expected week 3 completed with a date")
	}
	if m.ProtocolMemberNotes != "met the family" {
		t.Errorf("notes: got %q", m.ProtocolMemberNotes)
	}

	// Toggling back clears the completion date.
	if err := monitoring.SetMilestone(v, 3, false, "", now); err != nil {
		t.Fatalf("SetMilestone: %v", err)
	}
	m = milestoneByWeek(t, v, 3)
	if m.Completed || m.CompletedDate != nil {
		t.Error("expected week 3 incomplete with cleared date")
	}
}

func TestSetMilestone_InvalidWeek(t *testing.T) {
	v := &models.Visitor{Milestones: monitoring.NewMilestones()}
	for _, week := range []int{0, -1, 13, 99} {
		if err := monitoring.SetMilestone(v, week, true, "", time.Now().UTC()); err != monitoring.ErrInvalidWeek {
			t.Errorf("week %d: got %v, want ErrInvalidWeek", week, err)
		}
	}
}

func TestOverallProgress_Bounds(t *testing.T) {
	// Empty visitor.
	v := &models.Visitor{}
	if got := monitoring.OverallProgress(v); got != 0 {
		t.Errorf("empty visitor progress = %d, want 0", got)
	}

	// Everything maxed.
	v = &models.Visitor{
		Milestones:     monitoring.NewMilestones(),
		AttendanceRate: 100,
		IntegrationChecklist: models.IntegrationChecklist{
			WelcomePackage: true, HomeVisit: true, SmallGroupIntro: true,
			MinistryOpportunities: true, MentorAssigned: true, RegularCheckIns: true,
		},
	}
	for week := 1; week <= monitoring.MilestoneWeeks; week++ {
		if err := monitoring.SetMilestone(v, week, true, "", time.Now().UTC()); err != nil {
			t.Fatalf("SetMilestone(%d): %v", week, err)
		}
	}
	if got := monitoring.OverallProgress(v); got != 100 {
		t.Errorf("maxed visitor progress = %d, want 100", got)
	}

	// Attendance rate above 100 is clamped, keeping the total in bounds.
	v.AttendanceRate = 250
	if got := monitoring.OverallProgress(v); got != 100 {
		t.Errorf("clamped progress = %d, want 100", got)
	}
}

func TestRecalculate_CompletedTransition(t *testing.T) {
	v := fullyProgressedVisitor(t)
	v.MonitoringStatus = monitoring.StatusActive

	monitoring.Recalculate(v)

	if v.MonitoringProgress != 100 {
		t.Errorf("progress = %d, want 100", v.MonitoringProgress)
	}
	if v.MonitoringStatus != monitoring.StatusCompleted {
		t.Errorf("status = %q, want completed", v.MonitoringStatus)
	}
}

func TestRecalculate_NeedsAttention(t *testing.T) {
	// One present out of five -> rate 20, below the attention threshold.
	v := &models.Visitor{
		MonitoringStatus: monitoring.StatusActive,
		Milestones:       monitoring.NewMilestones(),
		VisitHistory: []models.VisitRecord{
			visit(monitoring.EventPrimaryService, monitoring.AttendancePresent),
			visit("midweek", monitoring.AttendanceAbsent),
			visit("midweek", monitoring.AttendanceAbsent),
			visit("midweek", monitoring.AttendanceAbsent),
			visit("midweek", monitoring.AttendanceAbsent),
		},
	}

	monitoring.Recalculate(v)

	if v.AttendanceRate != 20 {
		t.Fatalf("attendance rate = %d, want 20", v.AttendanceRate)
	}
	if v.MonitoringStatus != monitoring.StatusNeedsAttention {
		t.Errorf("status = %q, want needs-attention", v.MonitoringStatus)
	}
}

func TestRecalculate_Recovery(t *testing.T) {
	// Five present of nine -> rate 56, above the recovery threshold.
	v := &models.Visitor{
		MonitoringStatus: monitoring.StatusNeedsAttention,
		Milestones:       monitoring.NewMilestones(),
	}
	for i := 0; i < 5; i++ {
		v.VisitHistory = append(v.VisitHistory, visit("midweek", monitoring.AttendancePresent))
	}
	for i := 0; i < 4; i++ {
		v.VisitHistory = append(v.VisitHistory, visit("midweek", monitoring.AttendanceAbsent))
	}

	monitoring.Recalculate(v)

	if v.AttendanceRate < 50 {
		t.Fatalf("attendance rate = %d, want >= 50", v.AttendanceRate)
	}
	if v.MonitoringStatus != monitoring.StatusActive {
		t.Errorf("status = %q, want active", v.MonitoringStatus)
	}
}

func TestRecalculate_BelowRecoveryStaysFlagged(t *testing.T) {
	// Rate 40 sits between the two thresholds: no recovery.
	v := &models.Visitor{
		MonitoringStatus: monitoring.StatusNeedsAttention,
		Milestones:       monitoring.NewMilestones(),
		VisitHistory: []models.VisitRecord{
			visit("midweek", monitoring.AttendancePresent),
			visit("midweek", monitoring.AttendancePresent),
			visit("midweek", monitoring.AttendanceAbsent),
			visit("midweek", monitoring.AttendanceAbsent),
			visit("midweek", monitoring.AttendanceAbsent),
		},
	}

	monitoring.Recalculate(v)

	if v.MonitoringStatus != monitoring.StatusNeedsAttention {
		t.Errorf("status = %q, want needs-attention", v.MonitoringStatus)
	}
}

func TestRecalculate_ConversionIsTerminal(t *testing.T) {
	v := fullyProgressedVisitor(t)
	v.MonitoringStatus = monitoring.StatusConverted

	monitoring.Recalculate(v)
	if v.MonitoringStatus != monitoring.StatusConverted {
		t.Errorf("status = %q, converted visitors must never re-enter the pipeline", v.MonitoringStatus)
	}

	// Terrible attendance must not flag a converted visitor either.
	v.VisitHistory = []models.VisitRecord{
		visit("midweek", monitoring.AttendanceAbsent),
		visit("midweek", monitoring.AttendanceAbsent),
	}
	monitoring.Recalculate(v)
	if v.MonitoringStatus != monitoring.StatusConverted {
		t.Errorf("status = %q after absences, want converted-to-member", v.MonitoringStatus)
	}
}

func TestRecalculate_CompletionNeedsFullComposite(t *testing.T) {
	// 12/12 milestones, full checklist, 99 of 100 visits present: the
	// composite is 0.5*100 + 0.3*99 + 0.2*100 = 99.7. The stored progress
	// rounds to 100 but the completed transition must not fire.
	v := fullyProgressedVisitor(t)
	v.MonitoringStatus = monitoring.StatusActive
	v.VisitHistory = append(presentPrimary(99), visit(monitoring.EventPrimaryService, monitoring.AttendanceAbsent))

	monitoring.Recalculate(v)

	if v.AttendanceRate != 99 {
		t.Fatalf("attendance rate = %d, want 99", v.AttendanceRate)
	}
	if v.MonitoringProgress != 100 {
		t.Errorf("progress = %d, want rounded 100", v.MonitoringProgress)
	}
	if v.MonitoringStatus != monitoring.StatusActive {
		t.Errorf("status = %q, want still active below a true 100", v.MonitoringStatus)
	}

	// With every visit present the composite reaches a true 100.
	v.VisitHistory = presentPrimary(100)
	monitoring.Recalculate(v)
	if v.MonitoringStatus != monitoring.StatusCompleted {
		t.Errorf("status = %q, want completed once the composite reaches 100", v.MonitoringStatus)
	}
}

func TestRecalculate_Idempotent(t *testing.T) {
	v := &models.Visitor{
		MonitoringStatus: monitoring.StatusActive,
		Milestones:       monitoring.NewMilestones(),
		VisitHistory:     presentPrimary(3),
	}

	monitoring.Recalculate(v)
	status, rate, progress := v.MonitoringStatus, v.AttendanceRate, v.MonitoringProgress

	monitoring.Recalculate(v)
	if v.MonitoringStatus != status || v.AttendanceRate != rate || v.MonitoringProgress != progress {
		t.Errorf("second run changed state: (%q,%d,%d) -> (%q,%d,%d)",
			status, rate, progress, v.MonitoringStatus, v.AttendanceRate, v.MonitoringProgress)
	}
}

func TestRecordVisit_FullChain(t *testing.T) {
	now := time.Date(2026, 4, 5, 11, 0, 0, 0, time.UTC)
	v := &models.Visitor{
		MonitoringStatus: monitoring.StatusActive,
		Milestones:       monitoring.NewMilestones(),
		VisitHistory:     presentPrimary(1),
	}

	// Second present primary-service visit crosses the week-5 threshold.
	monitoring.RecordVisit(v, models.VisitRecord{
		EventType:        monitoring.EventPrimaryService,
		AttendanceStatus: monitoring.AttendancePresent,
	}, now)

	if len(v.VisitHistory) != 2 {
		t.Fatalf("history length = %d, want 2", len(v.VisitHistory))
	}
	if !v.VisitHistory[1].Date.Equal(now) {
		t.Error("omitted date should default to now")
	}
	if !milestoneByWeek(t, v, 5).Completed {
		t.Error("week 5 should auto-complete on the second present primary visit")
	}
	if v.AttendanceRate != 100 {
		t.Errorf("attendance rate = %d, want 100", v.AttendanceRate)
	}
	if v.MonitoringProgress == 0 {
		t.Error("expected a recomputed non-zero progress")
	}
}

func TestConvert(t *testing.T) {
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	v := &models.Visitor{MonitoringStatus: monitoring.StatusActive}

	monitoring.Convert(v, now)
	if v.MonitoringStatus != monitoring.StatusConverted {
		t.Fatalf("status = %q, want converted-to-member", v.MonitoringStatus)
	}
	if v.ConvertedAt == nil || !v.ConvertedAt.Equal(now) {
		t.Error("expected converted_at stamped with conversion time")
	}

	// Converting again keeps the original timestamp.
	monitoring.Convert(v, now.Add(48*time.Hour))
	if !v.ConvertedAt.Equal(now) {
		t.Error("second convert overwrote the original conversion time")
	}
}

// fullyProgressedVisitor builds a visitor with 12/12 milestones, perfect
// attendance, and a full integration checklist.
func fullyProgressedVisitor(t *testing.T) *models.Visitor {
	t.Helper()
	v := &models.Visitor{
		Milestones:   monitoring.NewMilestones(),
		VisitHistory: presentPrimary(6),
		IntegrationChecklist: models.IntegrationChecklist{
			WelcomePackage: true, HomeVisit: true, SmallGroupIntro: true,
			MinistryOpportunities: true, MentorAssigned: true, RegularCheckIns: true,
		},
	}
	for week := 1; week <= monitoring.MilestoneWeeks; week++ {
		if err := monitoring.SetMilestone(v, week, true, "", time.Now().UTC()); err != nil {
			t.Fatalf("SetMilestone(%d): %v", week, err)
		}
	}
	return v
}

func milestoneByWeek(t *testing.T, v *models.Visitor, week int) models.Milestone {
	t.Helper()
	for _, m := range v.Milestones {
		if m.Week == week {
			return m
		}
	}
	t.Fatalf("no milestone entry for week %d", week)
	return models.Milestone{}
}
