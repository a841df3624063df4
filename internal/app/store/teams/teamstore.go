package teamstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/parishhub/internal/app/system/normalize"
	"github.com/dalemusser/parishhub/internal/app/system/status"
	"github.com/dalemusser/parishhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	teams       *mongo.Collection
	memberships *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		teams:       db.Collection("teams"),
		memberships: db.Collection("team_memberships"),
	}
}

var (
	// ErrDuplicateName is returned when a team with the same folded name exists.
	ErrDuplicateName = errors.New("a team with this name already exists")
	// ErrAlreadyMember is returned when adding a user who is already on the team.
	ErrAlreadyMember = errors.New("user is already a member of this team")
	// ErrBadMemberRole is returned for a membership role other than lead/member.
	ErrBadMemberRole = errors.New(`membership role must be "lead" or "member"`)
)

// Create inserts a new protocol team.
func (s *Store) Create(ctx context.Context, t models.Team) (models.Team, error) {
	t.ID = primitive.NewObjectID()
	t.Name = normalize.Name(t.Name)
	t.NameCI = text.Fold(t.Name)
	if t.Status == "" {
		t.Status = status.Active
	}

	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now

	if _, err := s.teams.InsertOne(ctx, t); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Team{}, ErrDuplicateName
		}
		return models.Team{}, err
	}
	return t, nil
}

// GetByID loads a team by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Team, error) {
	var t models.Team
	if err := s.teams.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		return nil, err
	}
	return &t, nil
}

// List returns all active teams sorted by folded name.
func (s *Store) List(ctx context.Context) ([]models.Team, error) {
	q := bson.M{"status": status.Active}
	opts := options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.teams.Find(ctx, q, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Team
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Rename updates a team's name.
func (s *Store) Rename(ctx context.Context, id primitive.ObjectID, name string) error {
	name = normalize.Name(name)
	res, err := s.teams.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"name":       name,
		"name_ci":    text.Fold(name),
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateName
		}
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Disable retires a team without deleting its membership history.
func (s *Store) Disable(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.teams.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"status":     status.Disabled,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Memberships                                                                */
/* -------------------------------------------------------------------------- */

// AddMember creates a membership with the given role ("lead" or "member").
// The unique (user, team) index rejects duplicates.
func (s *Store) AddMember(ctx context.Context, teamID, userID primitive.ObjectID, role string) error {
	switch role {
	case models.TeamRoleLead, models.TeamRoleMember:
	default:
		return ErrBadMemberRole
	}

	m := models.TeamMembership{
		ID:        primitive.NewObjectID(),
		TeamID:    teamID,
		UserID:    userID,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.memberships.InsertOne(ctx, m); err != nil {
		if wafflemongo.IsDup(err) {
			return ErrAlreadyMember
		}
		return err
	}
	return nil
}

// RemoveMember deletes the (user, team) membership if present.
func (s *Store) RemoveMember(ctx context.Context, teamID, userID primitive.ObjectID) (int64, error) {
	res, err := s.memberships.DeleteOne(ctx, bson.M{"team_id": teamID, "user_id": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ListMembers returns the memberships of a team, leads first.
func (s *Store) ListMembers(ctx context.Context, teamID primitive.ObjectID) ([]models.TeamMembership, error) {
	opts := options.Find().SetSort(bson.D{{Key: "role", Value: 1}, {Key: "user_id", Value: 1}})
	cur, err := s.memberships.Find(ctx, bson.M{"team_id": teamID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.TeamMembership
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListUserTeams returns the memberships a user holds across all teams.
func (s *Store) ListUserTeams(ctx context.Context, userID primitive.ObjectID) ([]models.TeamMembership, error) {
	cur, err := s.memberships.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.TeamMembership
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// IsUserOnTeam reports whether the user has a membership on the team.
func (s *Store) IsUserOnTeam(ctx context.Context, userID, teamID primitive.ObjectID) (bool, error) {
	n, err := s.memberships.CountDocuments(ctx, bson.M{"user_id": userID, "team_id": teamID}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
