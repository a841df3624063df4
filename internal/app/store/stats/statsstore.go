package statsstore

import (
	"context"
	"time"

	"github.com/dalemusser/parishhub/internal/app/monitoring"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Counts is the set of totals used by the dashboards.
type Counts struct {
	Visitors       int64 `json:"visitors"`
	ActiveWindows  int64 `json:"active_windows"`
	NeedsAttention int64 `json:"needs_attention"`
	Completed      int64 `json:"completed"`
	Converted      int64 `json:"converted"`
	Teams          int64 `json:"teams"`
	ProtocolStaff  int64 `json:"protocol_staff"`
	UpcomingEvents int64 `json:"upcoming_events"`
	OpenPrayer     int64 `json:"open_prayer_requests"`
}

// FetchDashboardCounts returns the high-level counts used by dashboards.
// Intentionally tolerant: on error it returns 0 for that counter.
func FetchDashboardCounts(ctx context.Context, db *mongo.Database) Counts {
	var out Counts

	visitors := db.Collection("visitors")
	if n, err := visitors.CountDocuments(ctx, bson.M{"is_active": true}); err == nil {
		out.Visitors = n
	}
	if n, err := visitors.CountDocuments(ctx, bson.M{"monitoring_status": monitoring.StatusActive}); err == nil {
		out.ActiveWindows = n
	}
	if n, err := visitors.CountDocuments(ctx, bson.M{"monitoring_status": monitoring.StatusNeedsAttention}); err == nil {
		out.NeedsAttention = n
	}
	if n, err := visitors.CountDocuments(ctx, bson.M{"monitoring_status": monitoring.StatusCompleted}); err == nil {
		out.Completed = n
	}
	if n, err := visitors.CountDocuments(ctx, bson.M{"monitoring_status": monitoring.StatusConverted}); err == nil {
		out.Converted = n
	}

	if n, err := db.Collection("teams").CountDocuments(ctx, bson.M{"status": "active"}); err == nil {
		out.Teams = n
	}
	if n, err := db.Collection("users").CountDocuments(ctx, bson.M{"role": "protocol", "status": "active"}); err == nil {
		out.ProtocolStaff = n
	}
	if n, err := db.Collection("events").CountDocuments(ctx, bson.M{
		"status":    "active",
		"starts_at": bson.M{"$gte": time.Now().UTC()},
	}); err == nil {
		out.UpcomingEvents = n
	}
	if n, err := db.Collection("prayer_requests").CountDocuments(ctx, bson.M{"status": "open"}); err == nil {
		out.OpenPrayer = n
	}

	return out
}

// Window optionally restricts a report to visitors registered inside a
// date range. A zero Window means no restriction.
type Window struct {
	From *time.Time
	To   *time.Time
}

// apply adds the created_at range to an existing match filter.
func (w Window) apply(match bson.M) bson.M {
	rng := bson.M{}
	if w.From != nil {
		rng["$gte"] = *w.From
	}
	if w.To != nil {
		rng["$lt"] = *w.To
	}
	if len(rng) > 0 {
		match["created_at"] = rng
	}
	return match
}

// TeamStats summarizes one protocol team's caseload.
type TeamStats struct {
	TeamID            primitive.ObjectID `json:"team_id"`
	Visitors          int64              `json:"visitors"`
	Converted         int64              `json:"converted"`
	AvgAttendanceRate float64            `json:"avg_attendance_rate"`
	AvgProgress       float64            `json:"avg_progress"`
}

// FetchTeamStats aggregates visitor counts and averages per protocol team,
// optionally restricted to visitors registered inside w. Teams with no
// visitors are absent from the result; callers zero-fill.
func FetchTeamStats(ctx context.Context, db *mongo.Database, w Window) ([]TeamStats, error) {
	pipeline := []bson.M{
		{"$match": w.apply(bson.M{
			"is_active":        true,
			"protocol_team_id": bson.M{"$ne": nil},
		})},
		{"$group": bson.M{
			"_id":      "$protocol_team_id",
			"visitors": bson.M{"$sum": 1},
			"converted": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$monitoring_status", monitoring.StatusConverted}}, 1, 0,
			}}},
			"avg_attendance_rate": bson.M{"$avg": "$attendance_rate"},
			"avg_progress":        bson.M{"$avg": "$monitoring_progress"},
		}},
	}

	cur, err := db.Collection("visitors").Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		TeamID            primitive.ObjectID `bson:"_id"`
		Visitors          int64              `bson:"visitors"`
		Converted         int64              `bson:"converted"`
		AvgAttendanceRate float64            `bson:"avg_attendance_rate"`
		AvgProgress       float64            `bson:"avg_progress"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}

	out := make([]TeamStats, 0, len(rows))
	for _, r := range rows {
		out = append(out, TeamStats{
			TeamID:            r.TeamID,
			Visitors:          r.Visitors,
			Converted:         r.Converted,
			AvgAttendanceRate: r.AvgAttendanceRate,
			AvgProgress:       r.AvgProgress,
		})
	}
	return out, nil
}

// ConversionStats reports the joining-to-member funnel.
type ConversionStats struct {
	Joining   int64   `json:"joining"`
	Converted int64   `json:"converted"`
	Rate      float64 `json:"rate"` // percentage; 0 when no joining visitors
}

// FetchConversionStats counts joining visitors and how many converted,
// optionally restricted to visitors registered inside w.
func FetchConversionStats(ctx context.Context, db *mongo.Database, w Window) (ConversionStats, error) {
	visitors := db.Collection("visitors")

	joining, err := visitors.CountDocuments(ctx, w.apply(bson.M{"type": monitoring.TypeJoining}))
	if err != nil {
		return ConversionStats{}, err
	}
	converted, err := visitors.CountDocuments(ctx, w.apply(bson.M{
		"type":              monitoring.TypeJoining,
		"monitoring_status": monitoring.StatusConverted,
	}))
	if err != nil {
		return ConversionStats{}, err
	}

	out := ConversionStats{Joining: joining, Converted: converted}
	if joining > 0 {
		out.Rate = 100 * float64(converted) / float64(joining)
	}
	return out, nil
}

// MonthBucket is one month of trend data. Month is "YYYY-MM".
type MonthBucket struct {
	Month       string `json:"month"`
	Registered  int64  `json:"registered"`
	Conversions int64  `json:"conversions"`
}

// FetchMonthlyTrends returns registration and conversion counts for the
// last months calendar months, oldest first. Months with no activity are
// zero-filled so charts stay continuous.
func FetchMonthlyTrends(ctx context.Context, db *mongo.Database, months int, now time.Time) ([]MonthBucket, error) {
	if months <= 0 {
		months = 6
	}
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(months - 1), 0)

	visitors := db.Collection("visitors")

	regByMonth, err := countByMonth(ctx, visitors, "created_at", start)
	if err != nil {
		return nil, err
	}
	convByMonth, err := countByMonth(ctx, visitors, "converted_at", start)
	if err != nil {
		return nil, err
	}

	out := make([]MonthBucket, 0, months)
	for i := 0; i < months; i++ {
		m := start.AddDate(0, i, 0)
		key := m.Format("2006-01")
		out = append(out, MonthBucket{
			Month:       key,
			Registered:  regByMonth[key],
			Conversions: convByMonth[key],
		})
	}
	return out, nil
}

func countByMonth(ctx context.Context, coll *mongo.Collection, field string, start time.Time) (map[string]int64, error) {
	pipeline := []bson.M{
		{"$match": bson.M{field: bson.M{"$gte": start}}},
		{"$group": bson.M{
			"_id": bson.M{"$dateToString": bson.M{"format": "%Y-%m", "date": "$" + field}},
			"n":   bson.M{"$sum": 1},
		}},
	}
	cur, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		Month string `bson:"_id"`
		N     int64  `bson:"n"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}

	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Month] = r.N
	}
	return out, nil
}
