// internal/domain/models/prayerrequest.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PrayerRequest is a request submitted by a member or on behalf of a
// visitor. Private requests are visible only to bishops and leaders.
type PrayerRequest struct {
	ID            primitive.ObjectID  `bson:"_id" json:"id"`
	RequesterID   *primitive.ObjectID `bson:"requester_id,omitempty" json:"requester_id,omitempty"`
	RequesterName string              `bson:"requester_name" json:"requester_name"`
	Text          string              `bson:"text" json:"text"`

	// Status progresses open -> praying -> answered.
	Status  string `bson:"status" json:"status"`
	Private bool   `bson:"private" json:"private"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
