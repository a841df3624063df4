// Package gates provides authorization gate functions for HTTP handlers.
// Gates check authentication and authorization, writing the appropriate
// JSON error when checks fail.
//
// # Three-Tier Authorization Pattern
//
// ParishHub uses a three-tier authorization approach:
//
//  1. Route-Level Middleware (auth.RequireSignedIn, auth.RequireRole)
//     Applied in routes.go files for coarse-grained access control.
//     Example: sm.RequireRole("bishop") ensures all routes in a group
//     require the bishop role. When middleware handles role checking,
//     handlers don't need gates.
//
//  2. Handler-Level Gates (this package)
//     Used in handlers that need role checks WITHOUT route-level middleware,
//     or need different role requirements than the route group. Gates write
//     JSON errors and return user context (role, name, userID).
//
//  3. Policy Layer (internal/app/policy/*)
//     Used for resource-specific authorization requiring database lookups.
//     Example: visitorpolicy.CanManageVisitor checks if the user can manage
//     a specific visitor. Policies return (bool, error) - callers handle
//     error responses.
//
// Don't use gates in handlers that are behind role-specific middleware.
// If routes.go has RequireRole("bishop"), handlers don't need
// gates.RequireBishop; use authz.UserCtx(r) to get user context without
// re-checking the role.
package gates

import (
	"net/http"

	"github.com/dalemusser/parishhub/internal/app/system/authz"
	"github.com/dalemusser/parishhub/internal/app/system/httpjson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Result contains the result of an authorization gate check.
type Result struct {
	Role   string
	Name   string
	UserID primitive.ObjectID
	OK     bool
}

// RequireAuth ensures a user is authenticated.
// If not authenticated, it writes a 401 and returns OK=false.
func RequireAuth(w http.ResponseWriter, r *http.Request) Result {
	role, name, uid, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "sign in required")
		return Result{OK: false}
	}
	return Result{Role: role, Name: name, UserID: uid, OK: true}
}

// RequireBishop ensures the user is authenticated and has the bishop role.
// Writes a 401 when unauthenticated and a 403 when the role does not match.
func RequireBishop(w http.ResponseWriter, r *http.Request) Result {
	return RequireAnyRole(w, r, authz.RoleBishop)
}

// RequireStaff ensures the user holds one of the caretaking roles
// (bishop, leader, or protocol).
func RequireStaff(w http.ResponseWriter, r *http.Request) Result {
	return RequireAnyRole(w, r, authz.RoleBishop, authz.RoleLeader, authz.RoleProtocol)
}

// RequireAnyRole ensures the user is authenticated and has one of the
// specified roles. Writes a 401 when unauthenticated and a 403 when no
// role matches.
func RequireAnyRole(w http.ResponseWriter, r *http.Request, roles ...string) Result {
	role, name, uid, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "sign in required")
		return Result{OK: false}
	}
	for _, allowed := range roles {
		if role == allowed {
			return Result{Role: role, Name: name, UserID: uid, OK: true}
		}
	}
	httpjson.Forbidden(w)
	return Result{OK: false}
}
