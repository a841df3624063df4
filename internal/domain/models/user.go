// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents bishops, group leaders, protocol members, and members.
//
// NOTE:
//   - Protocol-team membership is not embedded here. Use the
//     team_memberships collection to discover a user's teams.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName   string             `bson:"full_name" json:"full_name"`
	FullNameCI string             `bson:"full_name_ci" json:"full_name_ci"` // lowercase, diacritics-stripped
	Email      string             `bson:"email" json:"email"`
	Phone      string             `bson:"phone,omitempty" json:"phone,omitempty"`

	// Role is one of bishop | leader | protocol | member.
	Role   string `bson:"role" json:"role"`
	Status string `bson:"status,omitempty" json:"status,omitempty"` // active | disabled

	AuthMethod   string `bson:"auth_method,omitempty" json:"auth_method,omitempty"` // password | google
	PasswordHash string `bson:"password_hash,omitempty" json:"-"`
	GoogleSub    string `bson:"google_sub,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
