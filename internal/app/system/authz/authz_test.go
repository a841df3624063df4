package authz_test

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/parishhub/internal/app/system/auth"
	"github.com/dalemusser/parishhub/internal/app/system/authz"
)

const validHexID = "507f1f77bcf86cd799439011"

func TestUserCtx_NoUser(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)

	role, name, uid, ok := authz.UserCtx(req)
	if ok {
		t.Error("expected ok=false without a session user")
	}
	if role != "guest" || name != "" || !uid.IsZero() {
		t.Errorf("got (%q,%q,%v)", role, name, uid)
	}
}

func TestUserCtx_MalformedID(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{ID: "not-an-object-id", Role: "bishop"})

	_, _, _, ok := authz.UserCtx(req)
	if ok {
		t.Error("expected ok=false for a malformed session user ID")
	}
}

func TestUserCtx_NormalizesRole(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{ID: validHexID, Name: "Ada", Role: "Bishop"})

	role, name, uid, ok := authz.UserCtx(req)
	if !ok {
		t.Fatal("expected ok=true")
	}
	if role != "bishop" {
		t.Errorf("role = %q, want lowercased bishop", role)
	}
	if name != "Ada" || uid.IsZero() {
		t.Errorf("got (%q,%v)", name, uid)
	}
}

func TestRolePredicates(t *testing.T) {
	tests := []struct {
		role     string
		bishop   bool
		leader   bool
		protocol bool
		isStaff  bool
	}{
		{"bishop", true, false, false, true},
		{"leader", false, true, false, true},
		{"protocol", false, false, true, true},
		{"member", false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req = auth.WithTestUser(req, &auth.SessionUser{ID: validHexID, Role: tt.role})

			if got := authz.IsBishop(req); got != tt.bishop {
				t.Errorf("IsBishop = %v", got)
			}
			if got := authz.IsLeader(req); got != tt.leader {
				t.Errorf("IsLeader = %v", got)
			}
			if got := authz.IsProtocol(req); got != tt.protocol {
				t.Errorf("IsProtocol = %v", got)
			}
			if got := authz.IsStaff(req); got != tt.isStaff {
				t.Errorf("IsStaff = %v", got)
			}
		})
	}
}

func TestIsValidRole(t *testing.T) {
	for _, role := range []string{"bishop", "leader", "protocol", "member"} {
		if !authz.IsValidRole(role) {
			t.Errorf("IsValidRole(%q) = false", role)
		}
	}
	for _, role := range []string{"", "admin", "BISHOP", "visitor"} {
		if authz.IsValidRole(role) {
			t.Errorf("IsValidRole(%q) = true", role)
		}
	}
}
