package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/parishhub/internal/app/monitoring"
	"github.com/dalemusser/parishhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts a user with the given name, email, and role.
func (f *Fixtures) CreateUser(ctx context.Context, name, email, role string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:         primitive.NewObjectID(),
		FullName:   name,
		FullNameCI: text.Fold(name),
		Email:      email,
		Role:       role,
		Status:     "active",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("create user fixture: %v", err)
	}
	return u
}

// CreateTeam inserts an active protocol team.
func (f *Fixtures) CreateTeam(ctx context.Context, name string) models.Team {
	f.t.Helper()

	now := time.Now().UTC()
	tm := models.Team{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("teams").InsertOne(ctx, tm); err != nil {
		f.t.Fatalf("create team fixture: %v", err)
	}
	return tm
}

// AddTeamMember links a user to a team with the given membership role.
func (f *Fixtures) AddTeamMember(ctx context.Context, teamID, userID primitive.ObjectID, role string) models.TeamMembership {
	f.t.Helper()

	m := models.TeamMembership{
		ID:        primitive.NewObjectID(),
		TeamID:    teamID,
		UserID:    userID,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := f.db.Collection("team_memberships").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("create team membership fixture: %v", err)
	}
	return m
}

// CreateJoiningVisitor inserts a joining visitor with an active monitoring
// window starting now and the full milestone schedule.
func (f *Fixtures) CreateJoiningVisitor(ctx context.Context, name, email string) models.Visitor {
	f.t.Helper()

	now := time.Now().UTC()
	start, end := monitoring.Window(now)
	v := models.Visitor{
		ID:                  primitive.NewObjectID(),
		FullName:            name,
		FullNameCI:          text.Fold(name),
		Email:               email,
		Type:                monitoring.TypeJoining,
		MonitoringStatus:    monitoring.StatusActive,
		MonitoringStartDate: &start,
		MonitoringEndDate:   &end,
		VisitHistory:        []models.VisitRecord{},
		Milestones:          monitoring.NewMilestones(),
		IsActive:            true,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if _, err := f.db.Collection("visitors").InsertOne(ctx, v); err != nil {
		f.t.Fatalf("create visitor fixture: %v", err)
	}
	return v
}

// CreateVisitingVisitor inserts a casual visitor with monitoring inactive.
func (f *Fixtures) CreateVisitingVisitor(ctx context.Context, name, email string) models.Visitor {
	f.t.Helper()

	now := time.Now().UTC()
	v := models.Visitor{
		ID:               primitive.NewObjectID(),
		FullName:         name,
		FullNameCI:       text.Fold(name),
		Email:            email,
		Type:             monitoring.TypeVisiting,
		MonitoringStatus: monitoring.StatusInactive,
		VisitHistory:     []models.VisitRecord{},
		IsActive:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if _, err := f.db.Collection("visitors").InsertOne(ctx, v); err != nil {
		f.t.Fatalf("create visitor fixture: %v", err)
	}
	return v
}

// CreateEvent inserts an active event of the given type starting at startsAt.
func (f *Fixtures) CreateEvent(ctx context.Context, name, eventType string, startsAt time.Time) models.Event {
	f.t.Helper()

	now := time.Now().UTC()
	e := models.Event{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		EventType: eventType,
		StartsAt:  startsAt,
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("events").InsertOne(ctx, e); err != nil {
		f.t.Fatalf("create event fixture: %v", err)
	}
	return e
}
