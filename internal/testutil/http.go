package testutil

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/dalemusser/parishhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// TestUser represents user data for testing HTTP handlers.
type TestUser struct {
	ID    string
	Name  string
	Email string
	Role  string
}

// BishopUser returns a TestUser with the bishop role.
func BishopUser() TestUser {
	return TestUser{
		ID:    primitive.NewObjectID().Hex(),
		Name:  "Test Bishop",
		Email: "bishop@test.com",
		Role:  "bishop",
	}
}

// LeaderUser returns a TestUser with the leader role.
func LeaderUser() TestUser {
	return TestUser{
		ID:    primitive.NewObjectID().Hex(),
		Name:  "Test Leader",
		Email: "leader@test.com",
		Role:  "leader",
	}
}

// ProtocolUser returns a TestUser with the protocol role.
func ProtocolUser() TestUser {
	return TestUser{
		ID:    primitive.NewObjectID().Hex(),
		Name:  "Test Protocol",
		Email: "protocol@test.com",
		Role:  "protocol",
	}
}

// MemberUser returns a TestUser with the member role.
func MemberUser() TestUser {
	return TestUser{
		ID:    primitive.NewObjectID().Hex(),
		Name:  "Test Member",
		Email: "member@test.com",
		Role:  "member",
	}
}

// WithUser adds a user to the request context for testing authenticated
// handlers, bypassing the session middleware.
func WithUser(r *http.Request, user TestUser) *http.Request {
	return auth.WithTestUser(r, &auth.SessionUser{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	})
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

// NewJSONRequest creates an HTTP request with a JSON body.
func NewJSONRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// NewAuthenticatedRequest creates an HTTP request with a user in context.
func NewAuthenticatedRequest(method, target string, user TestUser) *http.Request {
	return WithUser(httptest.NewRequest(method, target, nil), user)
}

// NewAuthenticatedJSONRequest creates a JSON request with a user in context.
func NewAuthenticatedJSONRequest(method, target, body string, user TestUser) *http.Request {
	return WithUser(NewJSONRequest(method, target, body), user)
}

// ResponseRecorder wraps httptest.ResponseRecorder with helper methods.
type ResponseRecorder struct {
	*httptest.ResponseRecorder
}

// NewRecorder creates a new ResponseRecorder.
func NewRecorder() *ResponseRecorder {
	return &ResponseRecorder{httptest.NewRecorder()}
}

// AssertStatus checks the response status code.
func (r *ResponseRecorder) AssertStatus(t interface{ Errorf(string, ...any) }, expected int) {
	if r.Code != expected {
		t.Errorf("status code: got %d, want %d", r.Code, expected)
	}
}

// AssertContains checks if the response body contains the expected string.
func (r *ResponseRecorder) AssertContains(t interface{ Errorf(string, ...any) }, expected string) {
	if !strings.Contains(r.Body.String(), expected) {
		t.Errorf("response body does not contain %q", expected)
	}
}

// BodyString drains and returns the response body.
func (r *ResponseRecorder) BodyString() string {
	b, _ := io.ReadAll(r.Body)
	return string(b)
}
