package statsstore_test

import (
	"testing"
	"time"

	"github.com/dalemusser/parishhub/internal/app/monitoring"
	statsstore "github.com/dalemusser/parishhub/internal/app/store/stats"
	"github.com/dalemusser/parishhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
)

func TestFetchConversionStats_ZeroDenominator(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	got, err := statsstore.FetchConversionStats(ctx, db, statsstore.Window{})
	if err != nil {
		t.Fatalf("FetchConversionStats failed: %v", err)
	}
	if got.Joining != 0 || got.Converted != 0 || got.Rate != 0 {
		t.Errorf("empty collection: got %+v, want zeros", got)
	}
}

func TestFetchConversionStats(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)

	f.CreateJoiningVisitor(ctx, "One", "one@example.com")
	f.CreateJoiningVisitor(ctx, "Two", "two@example.com")
	converted := f.CreateJoiningVisitor(ctx, "Three", "three@example.com")
	f.CreateVisitingVisitor(ctx, "Casual", "casual@example.com")

	_, err := db.Collection("visitors").UpdateOne(ctx,
		bson.M{"_id": converted.ID},
		bson.M{"$set": bson.M{"monitoring_status": monitoring.StatusConverted}})
	if err != nil {
		t.Fatalf("seed update failed: %v", err)
	}

	got, err := statsstore.FetchConversionStats(ctx, db, statsstore.Window{})
	if err != nil {
		t.Fatalf("FetchConversionStats failed: %v", err)
	}
	if got.Joining != 3 {
		t.Errorf("joining: got %d, want 3", got.Joining)
	}
	if got.Converted != 1 {
		t.Errorf("converted: got %d, want 1", got.Converted)
	}
	want := 100.0 / 3.0
	if got.Rate < want-0.01 || got.Rate > want+0.01 {
		t.Errorf("rate: got %f, want about %f", got.Rate, want)
	}
}

func TestFetchConversionStats_Window(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	now := time.Now().UTC()

	f.CreateJoiningVisitor(ctx, "Recent", "recent@example.com")
	old := f.CreateJoiningVisitor(ctx, "Old", "old@example.com")

	lastYear := now.AddDate(-1, 0, 0)
	_, err := db.Collection("visitors").UpdateOne(ctx,
		bson.M{"_id": old.ID},
		bson.M{"$set": bson.M{"created_at": lastYear}})
	if err != nil {
		t.Fatalf("seed update failed: %v", err)
	}

	from := now.AddDate(0, -1, 0)
	got, err := statsstore.FetchConversionStats(ctx, db, statsstore.Window{From: &from})
	if err != nil {
		t.Fatalf("FetchConversionStats failed: %v", err)
	}
	if got.Joining != 1 {
		t.Errorf("windowed joining: got %d, want 1", got.Joining)
	}
}

func TestFetchTeamStats(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	team := f.CreateTeam(ctx, "Stats Team")

	a := f.CreateJoiningVisitor(ctx, "Stat A", "stata@example.com")
	b := f.CreateJoiningVisitor(ctx, "Stat B", "statb@example.com")
	f.CreateJoiningVisitor(ctx, "Unassigned", "un@example.com")

	coll := db.Collection("visitors")
	for _, seed := range []struct {
		id   any
		rate int
		st   string
	}{
		{a.ID, 80, monitoring.StatusActive},
		{b.ID, 40, monitoring.StatusConverted},
	} {
		_, err := coll.UpdateOne(ctx, bson.M{"_id": seed.id}, bson.M{"$set": bson.M{
			"protocol_team_id":  team.ID,
			"attendance_rate":   seed.rate,
			"monitoring_status": seed.st,
		}})
		if err != nil {
			t.Fatalf("seed update failed: %v", err)
		}
	}

	rows, err := statsstore.FetchTeamStats(ctx, db, statsstore.Window{})
	if err != nil {
		t.Fatalf("FetchTeamStats failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d teams, want 1", len(rows))
	}
	row := rows[0]
	if row.TeamID != team.ID {
		t.Error("wrong team id")
	}
	if row.Visitors != 2 {
		t.Errorf("visitors: got %d, want 2", row.Visitors)
	}
	if row.Converted != 1 {
		t.Errorf("converted: got %d, want 1", row.Converted)
	}
	if row.AvgAttendanceRate != 60 {
		t.Errorf("avg attendance: got %f, want 60", row.AvgAttendanceRate)
	}
}

func TestFetchMonthlyTrends_ZeroFills(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	now := time.Now().UTC()

	v := f.CreateJoiningVisitor(ctx, "Trend", "trend@example.com")
	twoMonthsAgo := now.AddDate(0, -2, 0)
	_, err := db.Collection("visitors").UpdateOne(ctx,
		bson.M{"_id": v.ID},
		bson.M{"$set": bson.M{"created_at": twoMonthsAgo}})
	if err != nil {
		t.Fatalf("seed update failed: %v", err)
	}

	buckets, err := statsstore.FetchMonthlyTrends(ctx, db, 4, now)
	if err != nil {
		t.Fatalf("FetchMonthlyTrends failed: %v", err)
	}
	if len(buckets) != 4 {
		t.Fatalf("got %d buckets, want 4", len(buckets))
	}
	if buckets[3].Month != now.Format("2006-01") {
		t.Errorf("last bucket: got %q, want %q", buckets[3].Month, now.Format("2006-01"))
	}

	var registered int64
	for _, b := range buckets {
		registered += b.Registered
	}
	if registered != 1 {
		t.Errorf("total registered: got %d, want 1", registered)
	}
	// No conversions seeded; every bucket is present and zero.
	for _, b := range buckets {
		if b.Conversions != 0 {
			t.Errorf("bucket %s: conversions %d, want 0", b.Month, b.Conversions)
		}
	}
}

func TestFetchDashboardCounts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	f.CreateJoiningVisitor(ctx, "Dash A", "dasha@example.com")
	f.CreateVisitingVisitor(ctx, "Dash B", "dashb@example.com")
	f.CreateTeam(ctx, "Dash Team")
	f.CreateUser(ctx, "Dash Protocol", "dashp@example.com", "protocol")
	f.CreateEvent(ctx, "Sunday Service", monitoring.EventPrimaryService, time.Now().UTC().Add(24*time.Hour))

	counts := statsstore.FetchDashboardCounts(ctx, db)

	if counts.Visitors != 2 {
		t.Errorf("visitors: got %d, want 2", counts.Visitors)
	}
	if counts.ActiveWindows != 1 {
		t.Errorf("active windows: got %d, want 1", counts.ActiveWindows)
	}
	if counts.Teams != 1 {
		t.Errorf("teams: got %d, want 1", counts.Teams)
	}
	if counts.ProtocolStaff != 1 {
		t.Errorf("protocol staff: got %d, want 1", counts.ProtocolStaff)
	}
	if counts.UpcomingEvents != 1 {
		t.Errorf("upcoming events: got %d, want 1", counts.UpcomingEvents)
	}
}
