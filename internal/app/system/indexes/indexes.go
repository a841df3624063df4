// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureVisitors(ctx, db); err != nil {
		problems = append(problems, "visitors: "+err.Error())
	}
	if err := ensureTeams(ctx, db); err != nil {
		problems = append(problems, "teams: "+err.Error())
	}
	if err := ensureTeamMemberships(ctx, db); err != nil {
		problems = append(problems, "team_memberships: "+err.Error())
	}
	if err := ensureEvents(ctx, db); err != nil {
		problems = append(problems, "events: "+err.Error())
	}
	if err := ensurePrayerRequests(ctx, db); err != nil {
		problems = append(problems, "prayer_requests: "+err.Error())
	}
	if err := ensureAnnouncements(ctx, db); err != nil {
		problems = append(problems, "announcements: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func sameBoolPtr(a, b *bool) bool {
	av := false
	bv := false
	if a != nil {
		av = *a
	}
	if b != nil {
		bv = *b
	}
	return av == bv
}

// Best-effort duplicate-detector (works cross-vendors)
func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 { // E11000 duplicate key error index
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string

	for _, m := range models {
		var desiredName string
		var desiredUnique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				desiredName = *m.Options.Name
			}
			if m.Options.Unique != nil {
				desiredUnique = m.Options.Unique
			}
		}
		desiredSig := keySig(m.Keys.(bson.D))

		start := time.Now()
		zap.L().Info("ensuring index",
			zap.String("collection", coll.Name()),
			zap.String("name", desiredName),
			zap.String("keys", desiredSig),
			zap.Bool("unique", desiredUnique != nil && *desiredUnique))

		// Load existing indexes so we can reuse matching ones.
		existing := map[string]existingIndex{} // sig -> index
		cur, err := coll.Indexes().List(ctx)
		if err == nil {
			for cur.Next(ctx) {
				var idx existingIndex
				if err := cur.Decode(&idx); err != nil {
					zap.L().Warn("failed to decode existing index",
						zap.String("collection", coll.Name()),
						zap.Error(err))
					continue
				}
				existing[keySig(idx.Key)] = idx
			}
			cur.Close(ctx)
		}

		if ex, ok := existing[desiredSig]; ok {
			if sameBoolPtr(desiredUnique, ex.Unique) {
				zap.L().Info("reusing existing index",
					zap.String("collection", coll.Name()),
					zap.String("name", ex.Name),
					zap.String("keys", desiredSig),
					zap.String("took", time.Since(start).String()))
				continue
			}

			// Options mismatch (e.g., upgrading to unique). Drop & recreate.
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), desiredName, err))
				continue
			}
			if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
				if isDuplicateKeyErr(err) && desiredUnique != nil && *desiredUnique {
					errs = append(errs, fmt.Sprintf("%s(%s): cannot create unique index (duplicates present)", coll.Name(), desiredName))
				} else {
					errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), desiredName, err))
				}
				continue
			}
			zap.L().Info("index dropped and recreated",
				zap.String("collection", coll.Name()),
				zap.String("name", desiredName),
				zap.String("keys", desiredSig),
				zap.String("took", time.Since(start).String()))
			continue
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if isDuplicateKeyErr(err) && desiredUnique != nil && *desiredUnique {
				errs = append(errs, fmt.Sprintf("%s(%s): cannot create unique index (duplicates present)", coll.Name(), desiredName))
			} else {
				errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), desiredName, err))
			}
			continue
		}
		zap.L().Info("index ensured",
			zap.String("collection", coll.Name()),
			zap.String("name", desiredName),
			zap.String("keys", desiredSig),
			zap.Bool("unique", desiredUnique != nil && *desiredUnique),
			zap.String("took", time.Since(start).String()))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                              */
/* -------------------------------------------------------------------------- */

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("users")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Email must be unique across all users
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_users_email"),
		},
		// Role-scoped lists (protocol member pickers, user admin screens)
		{
			Keys: bson.D{
				{Key: "role", Value: 1},
				{Key: "status", Value: 1},
				{Key: "full_name_ci", Value: 1},
				{Key: "_id", Value: 1},
			},
			Options: options.Index().SetName("idx_users_role_status_fullnameci_id"),
		},
		// Google OAuth account linking
		{
			Keys:    bson.D{{Key: "google_sub", Value: 1}},
			Options: options.Index().SetName("idx_users_google_sub"),
		},
	})
}

func ensureVisitors(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("visitors")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// One visitor record per email
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_visitors_email"),
		},
		// List pages: filter by type/status + name prefix + stable tiebreak
		{
			Keys: bson.D{
				{Key: "type", Value: 1},
				{Key: "status", Value: 1},
				{Key: "full_name_ci", Value: 1},
				{Key: "_id", Value: 1},
			},
			Options: options.Index().SetName("idx_visitors_type_status_fullnameci_id"),
		},
		// Monitoring dashboards: flagged / completed / converted segments
		{
			Keys: bson.D{
				{Key: "monitoring_status", Value: 1},
				{Key: "monitoring_end_date", Value: 1},
			},
			Options: options.Index().SetName("idx_visitors_monstatus_enddate"),
		},
		// Caseload views for an assigned protocol member
		{
			Keys: bson.D{
				{Key: "assigned_protocol_member", Value: 1},
				{Key: "monitoring_status", Value: 1},
			},
			Options: options.Index().SetName("idx_visitors_assigned_monstatus"),
		},
		// Team-scoped caseload views
		{
			Keys:    bson.D{{Key: "protocol_team_id", Value: 1}},
			Options: options.Index().SetName("idx_visitors_team"),
		},
		// Conversion trend queries (converted_at is sparse in practice)
		{
			Keys:    bson.D{{Key: "converted_at", Value: -1}},
			Options: options.Index().SetName("idx_visitors_converted_at"),
		},
	})
}

func ensureTeams(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("teams")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// No duplicate team names (case/diacritics folded via name_ci)
		{
			Keys:    bson.D{{Key: "name_ci", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_teams_nameci"),
		},
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "name_ci", Value: 1},
				{Key: "_id", Value: 1},
			},
			Options: options.Index().SetName("idx_teams_status_nameci__id"),
		},
	})
}

func ensureTeamMemberships(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("team_memberships")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Exactly one membership per (user, team); role is scalar on the doc
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "team_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_tm_user_team"),
		},
		// List team members (+role segmentation, stable tiebreak by user_id)
		{
			Keys:    bson.D{{Key: "team_id", Value: 1}, {Key: "role", Value: 1}, {Key: "user_id", Value: 1}},
			Options: options.Index().SetName("idx_tm_team_role_user"),
		},
		// List a user's teams (+role segmentation, stable tiebreak by team_id)
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "role", Value: 1}, {Key: "team_id", Value: 1}},
			Options: options.Index().SetName("idx_tm_user_role_team"),
		},
	})
}

func ensureEvents(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("events")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Calendar listings: upcoming/past by date
		{
			Keys:    bson.D{{Key: "starts_at", Value: -1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("idx_events_startsat__id"),
		},
		// Attendance screens filter by event type
		{
			Keys:    bson.D{{Key: "event_type", Value: 1}, {Key: "starts_at", Value: -1}},
			Options: options.Index().SetName("idx_events_type_startsat"),
		},
	})
}

func ensurePrayerRequests(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("prayer_requests")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Open-requests queue, newest first
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_prayer_status_created"),
		},
		// A member's own requests
		{
			Keys:    bson.D{{Key: "requester_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_prayer_requester_created"),
		},
	})
}

func ensureAnnouncements(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("announcements")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Clients address announcements by public UUID
		{
			Keys:    bson.D{{Key: "public_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_announcements_publicid"),
		},
		// Feed listing, newest first
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("idx_announcements_created__id"),
		},
	})
}
