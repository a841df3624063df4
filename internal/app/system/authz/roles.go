// internal/app/system/authz/roles.go
package authz

// Application roles.
//
//	bishop   - full administrative access
//	leader   - small-group leader
//	protocol - visitor-care team member
//	member   - ordinary congregation member
const (
	RoleBishop   = "bishop"
	RoleLeader   = "leader"
	RoleProtocol = "protocol"
	RoleMember   = "member"
)

// IsValidRole reports whether role names a known application role.
func IsValidRole(role string) bool {
	switch role {
	case RoleBishop, RoleLeader, RoleProtocol, RoleMember:
		return true
	}
	return false
}
