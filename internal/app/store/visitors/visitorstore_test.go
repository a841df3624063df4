package visitorstore_test

import (
	"errors"
	"testing"
	"time"

	"github.com/dalemusser/parishhub/internal/app/monitoring"
	visitorstore "github.com/dalemusser/parishhub/internal/app/store/visitors"
	"github.com/dalemusser/parishhub/internal/app/system/indexes"
	"github.com/dalemusser/parishhub/internal/domain/models"
	"github.com/dalemusser/parishhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreate_JoiningOpensWindow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := visitorstore.New(db)

	v, err := store.Create(ctx, models.Visitor{
		FullName: "Grace Okafor",
		Email:    "Grace.Okafor@Example.com",
		Type:     monitoring.TypeJoining,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if v.MonitoringStatus != monitoring.StatusActive {
		t.Errorf("monitoring status: got %q, want %q", v.MonitoringStatus, monitoring.StatusActive)
	}
	if v.MonitoringStartDate == nil || v.MonitoringEndDate == nil {
		t.Fatal("expected monitoring window to be set")
	}
	wantEnd := v.MonitoringStartDate.AddDate(0, 0, monitoring.MonitoringDays)
	if !v.MonitoringEndDate.Equal(wantEnd) {
		t.Errorf("window end: got %v, want %v", v.MonitoringEndDate, wantEnd)
	}
	if len(v.Milestones) != monitoring.MilestoneWeeks {
		t.Errorf("milestones: got %d, want %d", len(v.Milestones), monitoring.MilestoneWeeks)
	}
	if v.Email != "grace.okafor@example.com" {
		t.Errorf("email not normalized: %q", v.Email)
	}
	if !v.IsActive {
		t.Error("expected new visitor to be active")
	}
}

func TestCreate_VisitingStaysInactive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := visitorstore.New(db)

	v, err := store.Create(ctx, models.Visitor{
		FullName: "Sam Idowu",
		Email:    "sam@example.com",
		Type:     monitoring.TypeVisiting,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if v.MonitoringStatus != monitoring.StatusInactive {
		t.Errorf("monitoring status: got %q, want %q", v.MonitoringStatus, monitoring.StatusInactive)
	}
	if v.MonitoringStartDate != nil || v.MonitoringEndDate != nil {
		t.Error("expected no monitoring window for visiting visitor")
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	store := visitorstore.New(db)

	seed := models.Visitor{FullName: "First", Email: "dup@example.com", Type: monitoring.TypeVisiting}
	if _, err := store.Create(ctx, seed); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}

	_, err := store.Create(ctx, models.Visitor{FullName: "Second", Email: "DUP@example.com", Type: monitoring.TypeVisiting})
	if !errors.Is(err, visitorstore.ErrDuplicateEmail) {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestList_Filters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	store := visitorstore.New(db)

	f.CreateJoiningVisitor(ctx, "Ada Eze", "ada@example.com")
	f.CreateJoiningVisitor(ctx, "Adaeze Obi", "adaeze@example.com")
	f.CreateVisitingVisitor(ctx, "Ben Carter", "ben@example.com")

	joining, err := store.List(ctx, visitorstore.ListFilter{Type: monitoring.TypeJoining})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(joining) != 2 {
		t.Errorf("joining filter: got %d, want 2", len(joining))
	}

	prefixed, err := store.List(ctx, visitorstore.ListFilter{NamePrefix: "ada"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(prefixed) != 2 {
		t.Errorf("name prefix: got %d, want 2", len(prefixed))
	}
	// Sorted by folded name.
	if len(prefixed) == 2 && prefixed[0].FullName != "Ada Eze" {
		t.Errorf("sort order: got %q first", prefixed[0].FullName)
	}

	inactive, err := store.List(ctx, visitorstore.ListFilter{MonitoringStatus: monitoring.StatusInactive})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(inactive) != 1 {
		t.Errorf("status filter: got %d, want 1", len(inactive))
	}
}

func TestReplace_RoundTrip(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	store := visitorstore.New(db)

	seed := f.CreateJoiningVisitor(ctx, "Ruth Ames", "ruth@example.com")

	v, err := store.GetByID(ctx, seed.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}

	monitoring.RecordVisit(v, models.VisitRecord{
		EventType:        monitoring.EventPrimaryService,
		AttendanceStatus: monitoring.AttendancePresent,
	}, time.Now().UTC())

	if err := store.Replace(ctx, v); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}

	got, err := store.GetByID(ctx, seed.ID)
	if err != nil {
		t.Fatalf("GetByID after replace failed: %v", err)
	}
	if len(got.VisitHistory) != 1 {
		t.Errorf("visit history: got %d, want 1", len(got.VisitHistory))
	}
	if got.AttendanceRate != 100 {
		t.Errorf("attendance rate: got %d, want 100", got.AttendanceRate)
	}
}

func TestFlagLapsedWindows(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	store := visitorstore.New(db)

	lapsed := f.CreateJoiningVisitor(ctx, "Lapsed Window", "lapsed@example.com")
	current := f.CreateJoiningVisitor(ctx, "Current Window", "current@example.com")

	// Push the first visitor's window into the past.
	v, err := store.GetByID(ctx, lapsed.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	past := time.Now().UTC().AddDate(0, 0, -1)
	start := past.AddDate(0, 0, -monitoring.MonitoringDays)
	v.MonitoringStartDate = &start
	v.MonitoringEndDate = &past
	if err := store.Replace(ctx, v); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}

	n, err := store.FlagLapsedWindows(ctx, time.Now().UTC())
	if err != nil {
		t.Fatalf("FlagLapsedWindows failed: %v", err)
	}
	if n != 1 {
		t.Errorf("flagged count: got %d, want 1", n)
	}

	got, err := store.GetByID(ctx, lapsed.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.MonitoringStatus != monitoring.StatusNeedsAttention {
		t.Errorf("lapsed status: got %q, want %q", got.MonitoringStatus, monitoring.StatusNeedsAttention)
	}

	untouched, err := store.GetByID(ctx, current.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if untouched.MonitoringStatus != monitoring.StatusActive {
		t.Errorf("current-window status: got %q, want %q", untouched.MonitoringStatus, monitoring.StatusActive)
	}
}

func TestAssignAndDeactivate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	store := visitorstore.New(db)

	seed := f.CreateJoiningVisitor(ctx, "Assigned Visitor", "assigned@example.com")
	member := primitive.NewObjectID()
	team := primitive.NewObjectID()

	if err := store.Assign(ctx, seed.ID, &member, &team); err != nil {
		t.Fatalf("Assign failed: %v", err)
	}
	got, err := store.GetByID(ctx, seed.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.AssignedProtocolMember == nil || *got.AssignedProtocolMember != member {
		t.Error("expected assigned protocol member to be set")
	}
	if got.ProtocolTeamID == nil || *got.ProtocolTeamID != team {
		t.Error("expected protocol team to be set")
	}

	if err := store.Deactivate(ctx, seed.ID); err != nil {
		t.Fatalf("Deactivate failed: %v", err)
	}
	got, err = store.GetByID(ctx, seed.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.IsActive {
		t.Error("expected visitor to be inactive after Deactivate")
	}

	// Soft delete: the document is still there for analytics.
	all, err := store.List(ctx, visitorstore.ListFilter{IncludeInactive: true})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("expected deactivated visitor to remain, got %d docs", len(all))
	}
}
