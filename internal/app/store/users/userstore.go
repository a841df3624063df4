package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/parishhub/internal/app/system/authz"
	"github.com/dalemusser/parishhub/internal/app/system/normalize"
	"github.com/dalemusser/parishhub/internal/app/system/status"
	"github.com/dalemusser/parishhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

var (
	// ErrDuplicateEmail is returned when attempting to create a user with an email that already exists.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	// ErrBadRole is returned for a role outside bishop/leader/protocol/member.
	ErrBadRole = errors.New(`role must be "bishop", "leader", "protocol", or "member"`)
	// ErrBadStatus is returned for a status other than active/disabled.
	ErrBadStatus = errors.New(`status must be "active" or "disabled"`)
)

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by case-insensitive email. Returns
// mongo.ErrNoDocuments if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByGoogleSub looks up a user by their Google account subject.
func (s *Store) GetByGoogleSub(ctx context.Context, sub string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"google_sub": sub}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user after normalizing & validating fields.
// If password is non-empty it is hashed with bcrypt before storage.
func (s *Store) Create(ctx context.Context, u models.User, password string) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.FullName = normalize.Name(u.FullName)
	u.FullNameCI = text.Fold(u.FullName)
	u.Email = normalize.Email(u.Email)
	u.Role = normalize.Role(u.Role)
	if u.Status == "" {
		u.Status = status.Active
	}

	if !authz.IsValidRole(u.Role) {
		return models.User{}, ErrBadRole
	}
	if !status.IsValid(u.Status) {
		return models.User{}, ErrBadStatus
	}

	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return models.User{}, err
		}
		u.PasswordHash = string(hash)
		if u.AuthMethod == "" {
			u.AuthMethod = "password"
		}
	}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// VerifyPassword checks a plaintext password against the stored hash.
func VerifyPassword(u *models.User, password string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// Update holds the profile fields a bishop can edit.
type Update struct {
	FullName string
	Email    string
	Phone    string
	Role     string
	Status   string
}

// UpdateProfile applies an Update to the user with the given ID.
// Returns ErrDuplicateEmail if the email already belongs to another user.
func (s *Store) UpdateProfile(ctx context.Context, id primitive.ObjectID, upd Update) error {
	role := normalize.Role(upd.Role)
	if !authz.IsValidRole(role) {
		return ErrBadRole
	}
	st := normalize.Status(upd.Status)
	if !status.IsValid(st) {
		return ErrBadStatus
	}

	name := normalize.Name(upd.FullName)
	set := bson.M{
		"full_name":    name,
		"full_name_ci": text.Fold(name),
		"email":        normalize.Email(upd.Email),
		"phone":        upd.Phone,
		"role":         role,
		"status":       st,
		"updated_at":   time.Now().UTC(),
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
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

// SetStatus flips a user between active and disabled without touching the
// rest of the profile.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, st string) error {
	st = normalize.Status(st)
	if !status.IsValid(st) {
		return ErrBadStatus
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"status":     st,
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

// LinkGoogle records the Google subject for an existing user so future
// OAuth sign-ins resolve without an email lookup.
func (s *Store) LinkGoogle(ctx context.Context, id primitive.ObjectID, sub string) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"google_sub":  sub,
		"auth_method": "google",
		"updated_at":  time.Now().UTC(),
	}})
	return err
}

// ListByRole returns active users with the given role, sorted by folded name.
func (s *Store) ListByRole(ctx context.Context, role string) ([]models.User, error) {
	q := bson.M{"role": normalize.Role(role), "status": status.Active}
	opts := options.Find().SetSort(bson.D{{Key: "full_name_ci", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, q, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.User
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a user by ID. Returns the number of documents deleted.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
