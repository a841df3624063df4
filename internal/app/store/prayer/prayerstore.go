package prayerstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/parishhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("prayer_requests")}
}

// Prayer request statuses.
const (
	StatusOpen     = "open"
	StatusPraying  = "praying"
	StatusAnswered = "answered"
)

var errBadStatus = errors.New(`status must be "open", "praying", or "answered"`)

// IsValidStatus reports whether st names a known prayer-request status.
func IsValidStatus(st string) bool {
	switch st {
	case StatusOpen, StatusPraying, StatusAnswered:
		return true
	}
	return false
}

// Create inserts a new prayer request with status "open".
func (s *Store) Create(ctx context.Context, p models.PrayerRequest) (models.PrayerRequest, error) {
	p.ID = primitive.NewObjectID()
	p.Status = StatusOpen

	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.PrayerRequest{}, err
	}
	return p, nil
}

// GetByID loads a prayer request by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.PrayerRequest, error) {
	var p models.PrayerRequest
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns prayer requests, newest first. Private requests are included
// only when includePrivate is true. A non-empty st filters by status.
func (s *Store) List(ctx context.Context, st string, includePrivate bool) ([]models.PrayerRequest, error) {
	q := bson.M{}
	if st != "" {
		q["status"] = st
	}
	if !includePrivate {
		q["private"] = false
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, q, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.PrayerRequest
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByRequester returns a member's own requests, newest first.
func (s *Store) ListByRequester(ctx context.Context, requesterID primitive.ObjectID) ([]models.PrayerRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"requester_id": requesterID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.PrayerRequest
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetStatus moves a request along open -> praying -> answered. Any known
// status may be set; the progression is a convention, not a constraint.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, st string) error {
	if !IsValidStatus(st) {
		return errBadStatus
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"status":     st,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
