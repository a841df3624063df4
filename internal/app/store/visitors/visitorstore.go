package visitorstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/parishhub/internal/app/monitoring"
	"github.com/dalemusser/parishhub/internal/app/system/normalize"
	"github.com/dalemusser/parishhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("visitors")}
}

var (
	// ErrDuplicateEmail is returned when registering a visitor whose email
	// already exists.
	ErrDuplicateEmail = errors.New("a visitor with this email already exists")
	errBadType        = errors.New(`type must be "visiting"|"joining"`)
)

// Create inserts a new visitor after normalizing fields and applying the
// registration defaults. Joining visitors get an active 90-day monitoring
// window and the fixed 12-week milestone schedule; visiting visitors start
// with monitoring inactive and no milestones.
func (s *Store) Create(ctx context.Context, v models.Visitor) (models.Visitor, error) {
	v.ID = primitive.NewObjectID()
	v.FullName = normalize.Name(v.FullName)
	v.FullNameCI = text.Fold(v.FullName)
	v.Email = normalize.Email(v.Email)

	switch v.Type {
	case monitoring.TypeVisiting, monitoring.TypeJoining:
	default:
		return models.Visitor{}, errBadType
	}

	now := time.Now().UTC()
	v.IsActive = true
	v.VisitHistory = []models.VisitRecord{}
	v.AttendanceRate = 0
	v.MonitoringProgress = 0
	v.ConvertedAt = nil

	if v.Type == monitoring.TypeJoining {
		start, end := monitoring.Window(now)
		v.MonitoringStatus = monitoring.StatusActive
		v.MonitoringStartDate = &start
		v.MonitoringEndDate = &end
		v.Milestones = monitoring.NewMilestones()
	} else {
		v.MonitoringStatus = monitoring.StatusInactive
		v.MonitoringStartDate = nil
		v.MonitoringEndDate = nil
		v.Milestones = nil
	}

	v.CreatedAt = now
	v.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, v); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Visitor{}, ErrDuplicateEmail
		}
		return models.Visitor{}, err
	}
	return v, nil
}

// GetByID loads a visitor by ObjectID. Returns mongo.ErrNoDocuments if absent.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Visitor, error) {
	var v models.Visitor
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&v); err != nil {
		return nil, err
	}
	return &v, nil
}

// GetByEmail looks up a visitor by case-insensitive email.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.Visitor, error) {
	var v models.Visitor
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&v); err != nil {
		return nil, err
	}
	return &v, nil
}

// ListFilter narrows List results. Zero values mean "no filter".
type ListFilter struct {
	Type             string
	MonitoringStatus string
	AssignedTo       primitive.ObjectID
	TeamID           primitive.ObjectID
	NamePrefix       string
	IncludeInactive  bool
}

// List returns visitors matching the filter, sorted by folded name then ID
// for a stable order.
func (s *Store) List(ctx context.Context, f ListFilter) ([]models.Visitor, error) {
	q := bson.M{}
	if !f.IncludeInactive {
		q["is_active"] = true
	}
	if f.Type != "" {
		q["type"] = f.Type
	}
	if f.MonitoringStatus != "" {
		q["monitoring_status"] = f.MonitoringStatus
	}
	if !f.AssignedTo.IsZero() {
		q["assigned_protocol_member"] = f.AssignedTo
	}
	if !f.TeamID.IsZero() {
		q["protocol_team_id"] = f.TeamID
	}
	if f.NamePrefix != "" {
		folded := text.Fold(f.NamePrefix)
		q["full_name_ci"] = bson.M{"$gte": folded, "$lt": folded + "\uffff"}
	}

	opts := options.Find().SetSort(bson.D{{Key: "full_name_ci", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, q, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Visitor
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Replace persists the whole visitor document. Handlers mutate the loaded
// aggregate through the monitoring package and save it back with this, so
// embedded history, milestones, and derived fields stay consistent.
func (s *Store) Replace(ctx context.Context, v *models.Visitor) error {
	res, err := s.c.ReplaceOne(ctx, bson.M{"_id": v.ID}, v)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// AppendSuggestion pushes one feedback suggestion onto the visitor.
func (s *Store) AppendSuggestion(ctx context.Context, id primitive.ObjectID, sug models.Suggestion) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$push": bson.M{"suggestions": sug},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// AppendExperience pushes one rated experience onto the visitor.
func (s *Store) AppendExperience(ctx context.Context, id primitive.ObjectID, exp models.Experience) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$push": bson.M{"experiences": exp},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Assign sets the caretaking protocol member and team. Either may be nil to
// clear the reference.
func (s *Store) Assign(ctx context.Context, id primitive.ObjectID, member, team *primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"assigned_protocol_member": member,
		"protocol_team_id":         team,
		"updated_at":               time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Deactivate soft-deletes a visitor. The record stays for analytics but
// drops out of default listings.
func (s *Store) Deactivate(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"is_active":  false,
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

// FlagLapsedWindows flags visitors whose 90-day monitoring window passed
// without completion as needs-attention so caretakers see them. Completed,
// converted, and inactive records are untouched. Returns the number of
// visitors updated.
func (s *Store) FlagLapsedWindows(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{
			"monitoring_status":   monitoring.StatusActive,
			"monitoring_end_date": bson.M{"$lte": now},
		},
		bson.M{"$set": bson.M{
			"monitoring_status": monitoring.StatusNeedsAttention,
			"updated_at":        now,
		}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
