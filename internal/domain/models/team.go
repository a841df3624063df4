// internal/domain/models/team.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Team is a protocol (visitor-care) team.
//
// NOTE:
//   - Member lists are not embedded on Team. All membership is stored in
//     the team_memberships collection.
type Team struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"name_ci"`
	Description string             `bson:"description" json:"description"`

	Status string `bson:"status" json:"status"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Team membership roles.
const (
	TeamRoleLead   = "lead"
	TeamRoleMember = "member"
)

// TeamMembership links a user to a protocol team. Role is "lead" or
// "member"; a user may belong to more than one team.
type TeamMembership struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	TeamID    primitive.ObjectID `bson:"team_id" json:"team_id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	Role      string             `bson:"role" json:"role"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
