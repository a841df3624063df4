// internal/domain/models/event.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event is a scheduled service or church activity. Attendance records carry
// the event's type, so the primary-service type is what feeds milestone
// auto-completion.
type Event struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"name_ci"`
	EventType   string             `bson:"event_type" json:"event_type"` // primary-service | midweek | special
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Location    string             `bson:"location,omitempty" json:"location,omitempty"`

	StartsAt time.Time `bson:"starts_at" json:"starts_at"`
	EndsAt   time.Time `bson:"ends_at,omitempty" json:"ends_at,omitempty"`

	Status    string             `bson:"status" json:"status"`
	CreatedBy primitive.ObjectID `bson:"created_by" json:"created_by"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
