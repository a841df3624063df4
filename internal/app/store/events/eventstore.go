package eventstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/parishhub/internal/app/monitoring"
	"github.com/dalemusser/parishhub/internal/app/system/normalize"
	"github.com/dalemusser/parishhub/internal/app/system/status"
	"github.com/dalemusser/parishhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("events")}
}

// Known event types.
const (
	TypeMidweek = "midweek"
	TypeSpecial = "special"
)

var errBadEventType = errors.New(`event_type must be "primary-service"|"midweek"|"special"`)

// IsValidEventType reports whether t names a known event type.
func IsValidEventType(t string) bool {
	switch t {
	case monitoring.EventPrimaryService, TypeMidweek, TypeSpecial:
		return true
	}
	return false
}

// Create inserts a new event.
func (s *Store) Create(ctx context.Context, e models.Event) (models.Event, error) {
	if !IsValidEventType(e.EventType) {
		return models.Event{}, errBadEventType
	}

	e.ID = primitive.NewObjectID()
	e.Name = normalize.Name(e.Name)
	e.NameCI = text.Fold(e.Name)
	if e.Status == "" {
		e.Status = status.Active
	}

	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, e); err != nil {
		return models.Event{}, err
	}
	return e, nil
}

// GetByID loads an event by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Event, error) {
	var e models.Event
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&e); err != nil {
		return nil, err
	}
	return &e, nil
}

// List returns events, newest first. If eventType is non-empty only events
// of that type are returned.
func (s *Store) List(ctx context.Context, eventType string) ([]models.Event, error) {
	q := bson.M{"status": status.Active}
	if eventType != "" {
		q["event_type"] = eventType
	}
	opts := options.Find().SetSort(bson.D{{Key: "starts_at", Value: -1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, q, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Event
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Cancel retires an event without deleting it.
func (s *Store) Cancel(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"status":     status.Disabled,
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
