package userstore_test

import (
	"errors"
	"testing"

	userstore "github.com/dalemusser/parishhub/internal/app/store/users"
	"github.com/dalemusser/parishhub/internal/app/system/indexes"
	"github.com/dalemusser/parishhub/internal/domain/models"
	"github.com/dalemusser/parishhub/internal/testutil"
)

func TestCreate_HashesPassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := userstore.New(db)

	u, err := store.Create(ctx, models.User{
		FullName: "Pat Bishop",
		Email:    "Pat@Example.com",
		Role:     "bishop",
	}, "sw0rdfish-pass")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if u.Email != "pat@example.com" {
		t.Errorf("email not normalized: %q", u.Email)
	}
	if u.PasswordHash == "" || u.PasswordHash == "sw0rdfish-pass" {
		t.Error("expected bcrypt hash, not plaintext")
	}
	if u.AuthMethod != "password" {
		t.Errorf("auth method: got %q, want password", u.AuthMethod)
	}

	if !userstore.VerifyPassword(&u, "sw0rdfish-pass") {
		t.Error("VerifyPassword rejected the correct password")
	}
	if userstore.VerifyPassword(&u, "wrong") {
		t.Error("VerifyPassword accepted a wrong password")
	}
}

func TestCreate_RejectsBadRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := userstore.New(db)

	_, err := store.Create(ctx, models.User{
		FullName: "No Role",
		Email:    "norole@example.com",
		Role:     "pope",
	}, "")
	if !errors.Is(err, userstore.ErrBadRole) {
		t.Errorf("expected ErrBadRole, got %v", err)
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	store := userstore.New(db)

	if _, err := store.Create(ctx, models.User{FullName: "First", Email: "dup@example.com", Role: "leader"}, ""); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	_, err := store.Create(ctx, models.User{FullName: "Second", Email: "Dup@Example.com", Role: "leader"}, "")
	if !errors.Is(err, userstore.ErrDuplicateEmail) {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestSetStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := userstore.New(db)

	u, err := store.Create(ctx, models.User{FullName: "Dee Active", Email: "dee@example.com", Role: "protocol"}, "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.SetStatus(ctx, u.ID, "disabled"); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	got, err := store.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != "disabled" {
		t.Errorf("status: got %q, want disabled", got.Status)
	}

	if err := store.SetStatus(ctx, u.ID, "frozen"); !errors.Is(err, userstore.ErrBadStatus) {
		t.Errorf("expected ErrBadStatus, got %v", err)
	}
}

func TestLinkGoogle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := userstore.New(db)

	u, err := store.Create(ctx, models.User{FullName: "Gail Google", Email: "gail@example.com", Role: "member"}, "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.LinkGoogle(ctx, u.ID, "google-sub-123"); err != nil {
		t.Fatalf("LinkGoogle failed: %v", err)
	}

	got, err := store.GetByGoogleSub(ctx, "google-sub-123")
	if err != nil {
		t.Fatalf("GetByGoogleSub failed: %v", err)
	}
	if got.ID != u.ID {
		t.Error("GetByGoogleSub returned the wrong user")
	}
	if got.AuthMethod != "google" {
		t.Errorf("auth method: got %q, want google", got.AuthMethod)
	}
}

func TestListByRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	store := userstore.New(db)

	f.CreateUser(ctx, "Zoe Protocol", "zoe@example.com", "protocol")
	f.CreateUser(ctx, "Ana Protocol", "ana@example.com", "protocol")
	f.CreateUser(ctx, "Lee Leader", "lee@example.com", "leader")

	got, err := store.ListByRole(ctx, "protocol")
	if err != nil {
		t.Fatalf("ListByRole failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d users, want 2", len(got))
	}
	if got[0].FullName != "Ana Protocol" {
		t.Errorf("sort order: got %q first", got[0].FullName)
	}
}
