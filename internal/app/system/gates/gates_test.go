package gates_test

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/parishhub/internal/app/system/auth"
	"github.com/dalemusser/parishhub/internal/app/system/gates"
)

const validHexID = "507f1f77bcf86cd799439011"

func TestRequireAuth(t *testing.T) {
	t.Run("unauthenticated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/", nil)

		res := gates.RequireAuth(rec, req)
		if res.OK {
			t.Error("expected OK=false")
		}
		if rec.Code != 401 {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("authenticated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/", nil)
		req = auth.WithTestUser(req, &auth.SessionUser{ID: validHexID, Name: "Ada", Role: "member"})

		res := gates.RequireAuth(rec, req)
		if !res.OK {
			t.Fatal("expected OK=true")
		}
		if res.Role != "member" || res.Name != "Ada" || res.UserID.IsZero() {
			t.Errorf("result = %+v", res)
		}
	})
}

func TestRequireBishop(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		wantOK   bool
		wantCode int
	}{
		{"bishop allowed", "bishop", true, 200},
		{"leader forbidden", "leader", false, 403},
		{"member forbidden", "member", false, 403},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/", nil)
			req = auth.WithTestUser(req, &auth.SessionUser{ID: validHexID, Role: tt.role})

			res := gates.RequireBishop(rec, req)
			if res.OK != tt.wantOK {
				t.Errorf("OK = %v, want %v", res.OK, tt.wantOK)
			}
			if !tt.wantOK && rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
		})
	}
}

func TestRequireAnyRole(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{ID: validHexID, Role: "protocol"})

	res := gates.RequireAnyRole(rec, req, "bishop", "protocol")
	if !res.OK {
		t.Fatal("expected OK=true for protocol in allowed set")
	}

	rec = httptest.NewRecorder()
	res = gates.RequireAnyRole(rec, req, "bishop", "leader")
	if res.OK {
		t.Error("expected OK=false for protocol outside allowed set")
	}
	if rec.Code != 403 {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestRequireStaff(t *testing.T) {
	for _, role := range []string{"bishop", "leader", "protocol"} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/", nil)
		req = auth.WithTestUser(req, &auth.SessionUser{ID: validHexID, Role: role})
		if res := gates.RequireStaff(rec, req); !res.OK {
			t.Errorf("RequireStaff rejected %q", role)
		}
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{ID: validHexID, Role: "member"})
	if res := gates.RequireStaff(rec, req); res.OK {
		t.Error("RequireStaff allowed member")
	}
}
