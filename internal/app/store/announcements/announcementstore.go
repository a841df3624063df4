package announcementstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/parishhub/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("announcements")}
}

// Announcement audiences.
const (
	AudienceAll      = "all"
	AudienceLeaders  = "leaders"
	AudienceProtocol = "protocol"
)

var errBadAudience = errors.New(`audience must be "all"|"leaders"|"protocol"`)

// IsValidAudience reports whether a names a known announcement audience.
func IsValidAudience(a string) bool {
	switch a {
	case AudienceAll, AudienceLeaders, AudienceProtocol:
		return true
	}
	return false
}

// Create inserts a new announcement, minting its public UUID.
func (s *Store) Create(ctx context.Context, a models.Announcement) (models.Announcement, error) {
	if a.Audience == "" {
		a.Audience = AudienceAll
	}
	if !IsValidAudience(a.Audience) {
		return models.Announcement{}, errBadAudience
	}

	a.ID = primitive.NewObjectID()
	a.PublicID = uuid.NewString()
	a.CreatedAt = time.Now().UTC()

	if _, err := s.c.InsertOne(ctx, a); err != nil {
		return models.Announcement{}, err
	}
	return a, nil
}

// GetByPublicID loads an announcement by its client-facing UUID.
func (s *Store) GetByPublicID(ctx context.Context, publicID string) (*models.Announcement, error) {
	var a models.Announcement
	if err := s.c.FindOne(ctx, bson.M{"public_id": publicID}).Decode(&a); err != nil {
		return nil, err
	}
	return &a, nil
}

// List returns announcements visible to the given audiences, newest first.
func (s *Store) List(ctx context.Context, audiences ...string) ([]models.Announcement, error) {
	q := bson.M{}
	if len(audiences) > 0 {
		q["audience"] = bson.M{"$in": audiences}
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, q, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Announcement
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes an announcement by public UUID.
func (s *Store) Delete(ctx context.Context, publicID string) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"public_id": publicID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
