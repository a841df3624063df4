// internal/app/policy/visitorpolicy/visitorpolicy.go
package visitorpolicy

import (
	"context"
	"net/http"

	"github.com/dalemusser/parishhub/internal/app/system/authz"
	"github.com/dalemusser/parishhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// IsOnTeam returns true if the given user belongs to the given team
// according to the authoritative team_memberships collection.
func IsOnTeam(ctx context.Context, db *mongo.Database, teamID, userID primitive.ObjectID) (bool, error) {
	c := db.Collection("team_memberships")
	n, err := c.CountDocuments(ctx, bson.M{
		"team_id": teamID,
		"user_id": userID,
	})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CanManageVisitor reports whether the current request user can manage the
// visitor record (record attendance, edit milestones, update the checklist):
//   - Bishops always can
//   - Leaders and protocol members can if they are the assigned caretaker
//   - Protocol members can if they belong to the visitor's protocol team
//
// Returns an error if the database check fails, allowing callers to
// distinguish "not authorized" (false, nil) from "database error" (false, err).
func CanManageVisitor(ctx context.Context, db *mongo.Database, r *http.Request, v *models.Visitor) (bool, error) {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		return false, nil
	}
	if role == authz.RoleBishop {
		return true, nil
	}
	if role != authz.RoleLeader && role != authz.RoleProtocol {
		return false, nil
	}
	if v.AssignedProtocolMember != nil && *v.AssignedProtocolMember == uid {
		return true, nil
	}
	if role == authz.RoleProtocol && v.ProtocolTeamID != nil {
		return IsOnTeam(ctx, db, *v.ProtocolTeamID, uid)
	}
	return false, nil
}

// CanViewVisitor reports whether the current request user can read the
// visitor record. Any staff role can view; plain members cannot.
func CanViewVisitor(r *http.Request) bool {
	return authz.IsStaff(r)
}
