// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"github.com/dalemusser/parishhub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the user's role (lowercased), name, Mongo ObjectID, and a
// found flag. If no user is present in context or the user ID is malformed,
// it returns "guest", "", NilObjectID, false, so callers can trust that
// ok=true means a valid, authenticated user with a valid ObjectID.
func UserCtx(r *http.Request) (role string, name string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "guest", "", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		// Malformed user ID in session - fail closed.
		return "guest", "", primitive.NilObjectID, false
	}
	return strings.ToLower(user.Role), user.Name, userID, true
}

// IsBishop reports whether the current request's user is a bishop.
func IsBishop(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == RoleBishop
}

// IsLeader reports whether the current request's user is a group leader.
func IsLeader(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == RoleLeader
}

// IsProtocol reports whether the current request's user is on a protocol team.
func IsProtocol(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == RoleProtocol
}

// IsMember reports whether the current request's user is a member.
func IsMember(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == RoleMember
}

// IsStaff reports whether the user holds any caretaking role (bishop,
// leader, or protocol). Staff can see visitor records their policy checks
// allow; plain members cannot.
func IsStaff(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && (role == RoleBishop || role == RoleLeader || role == RoleProtocol)
}
