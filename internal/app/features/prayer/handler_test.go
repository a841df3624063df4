package prayer_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/dalemusser/parishhub/internal/app/features/prayer"
	"github.com/dalemusser/parishhub/internal/domain/models"
	"github.com/dalemusser/parishhub/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) *prayer.Handler {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return prayer.NewHandler(db, zap.NewNop())
}

func submit(t *testing.T, h *prayer.Handler, body string, user testutil.TestUser) models.PrayerRequest {
	t.Helper()

	req := testutil.NewAuthenticatedJSONRequest("POST", "/prayer-requests", body, user)
	rec := testutil.NewRecorder()
	h.HandleSubmit(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusCreated)

	var p models.PrayerRequest
	if err := json.Unmarshal([]byte(rec.BodyString()), &p); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return p
}

func listNames(t *testing.T, h *prayer.Handler, target string, user testutil.TestUser) []string {
	t.Helper()

	req := testutil.NewAuthenticatedRequest("GET", target, user)
	rec := testutil.NewRecorder()
	h.ServeList(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusOK)

	var resp struct {
		PrayerRequests []models.PrayerRequest `json:"prayer_requests"`
	}
	if err := json.Unmarshal([]byte(rec.BodyString()), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	names := make([]string, 0, len(resp.PrayerRequests))
	for _, p := range resp.PrayerRequests {
		names = append(names, p.Text)
	}
	return names
}

func TestHandleSubmit_StripsMarkup(t *testing.T) {
	h := newTestHandler(t)

	p := submit(t, h, `{"text":"pray for <b>healing</b>"}`, testutil.MemberUser())

	if p.Text != "pray for healing" {
		t.Errorf("text: got %q, want markup stripped", p.Text)
	}
	if p.Status != "open" {
		t.Errorf("status: got %q, want open", p.Status)
	}
	if p.RequesterName == "" {
		t.Error("expected requester name from session")
	}
}

func TestHandleSubmit_EmptyText(t *testing.T) {
	h := newTestHandler(t)

	req := testutil.NewAuthenticatedJSONRequest("POST", "/prayer-requests",
		`{"text":"<script>alert(1)</script>"}`, testutil.MemberUser())
	rec := testutil.NewRecorder()
	h.HandleSubmit(rec.ResponseRecorder, req)

	// Nothing survives sanitizing, so the field is effectively empty.
	rec.AssertStatus(t, http.StatusUnprocessableEntity)
	rec.AssertContains(t, `"field":"text"`)
}

func TestServeList_PrivateScoping(t *testing.T) {
	h := newTestHandler(t)

	owner := testutil.MemberUser()
	other := testutil.MemberUser()

	submit(t, h, `{"text":"public request"}`, other)
	submit(t, h, `{"text":"private request","private":true}`, owner)

	// Bishops see everything.
	got := listNames(t, h, "/prayer-requests", testutil.BishopUser())
	if len(got) != 2 {
		t.Errorf("bishop list: got %d requests, want 2", len(got))
	}

	// The owner sees the public request plus their own private one.
	got = listNames(t, h, "/prayer-requests", owner)
	if len(got) != 2 {
		t.Errorf("owner list: got %d requests, want 2", len(got))
	}

	// An unrelated member sees only the public request.
	got = listNames(t, h, "/prayer-requests", other)
	if len(got) != 1 || got[0] != "public request" {
		t.Errorf("member list: got %v, want only the public request", got)
	}
}

func TestHandleSetStatus(t *testing.T) {
	h := newTestHandler(t)

	p := submit(t, h, `{"text":"status walk"}`, testutil.MemberUser())

	req := testutil.NewAuthenticatedJSONRequest("PUT", "/prayer-requests/"+p.ID.Hex()+"/status",
		`{"status":"praying"}`, testutil.LeaderUser())
	req = testutil.WithChiURLParam(req, "id", p.ID.Hex())
	rec := testutil.NewRecorder()
	h.HandleSetStatus(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusOK)

	got := listNames(t, h, "/prayer-requests?status=praying", testutil.BishopUser())
	if len(got) != 1 {
		t.Errorf("praying filter: got %d requests, want 1", len(got))
	}

	req = testutil.NewAuthenticatedJSONRequest("PUT", "/prayer-requests/"+p.ID.Hex()+"/status",
		`{"status":"snoozed"}`, testutil.LeaderUser())
	req = testutil.WithChiURLParam(req, "id", p.ID.Hex())
	rec = testutil.NewRecorder()
	h.HandleSetStatus(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusUnprocessableEntity)
	rec.AssertContains(t, `"field":"status"`)
}
