// internal/domain/models/announcement.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Announcement is a congregation-wide message. PublicID is the stable
// identifier surfaced to clients (the Mongo _id stays internal).
type Announcement struct {
	ID       primitive.ObjectID `bson:"_id" json:"-"`
	PublicID string             `bson:"public_id" json:"id"`
	Title    string             `bson:"title" json:"title"`
	Body     string             `bson:"body" json:"body"`

	// Audience is "all", "leaders", or "protocol".
	Audience  string             `bson:"audience" json:"audience"`
	CreatedBy primitive.ObjectID `bson:"created_by" json:"created_by"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
