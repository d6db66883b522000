// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/restok/internal/app/system/normalize"
	"github.com/dalemusser/restok/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when no user matches the lookup.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned when creating a user whose email already exists.
	ErrDuplicateEmail = errors.New("a user with this email already exists")

	errBadRole   = errors.New(`role must be "owner"|"admin"|"member"`)
	errOrgNeeded = errors.New("a role requires organization_id")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// EnsureIndexes creates the unique email index (which backs the duplicate
// detection in Create) and the org roster index.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_users_email"),
		},
		{
			Keys: bson.D{
				{Key: "organization_id", Value: 1},
				{Key: "role", Value: 1},
			},
			Options: options.Index().SetName("idx_users_org_role"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// GetByID loads a user by uid. Returns ErrNotFound if absent.
func (s *Store) GetByID(ctx context.Context, uid string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": uid}).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by normalized email. Returns ErrNotFound if absent.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user after normalizing and validating fields.
// The caller supplies the uid (the identity provider's subject).
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.Email = normalize.Email(u.Email)

	if u.OrganizationID != nil {
		if !u.Role.Valid() {
			return models.User{}, errBadRole
		}
	} else if u.Role != "" {
		return models.User{}, errOrgNeeded
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

// SetDisabled updates the record's mirror of the identity provider's
// disabled flag.
func (s *Store) SetDisabled(ctx context.Context, uid string, disabled bool) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": uid}, bson.M{"$set": bson.M{
		"disabled":   disabled,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateRole sets a user's role and refreshes UpdatedAt.
func (s *Store) UpdateRole(ctx context.Context, uid string, role models.Role) error {
	if !role.Valid() {
		return errBadRole
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": uid}, bson.M{"$set": bson.M{
		"role":       role,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a user record. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, uid string) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": uid})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// CountByOrg returns the number of users affiliated with the organization.
// Every affiliated user occupies a seat, including the owner.
func (s *Store) CountByOrg(ctx context.Context, orgID string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"organization_id": orgID})
}

// CountPrivilegedByOrg returns the number of users in the organization with
// an owner or admin role (the last-admin guard total).
func (s *Store) CountPrivilegedByOrg(ctx context.Context, orgID string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{
		"organization_id": orgID,
		"role":            bson.M{"$in": []models.Role{models.RoleOwner, models.RoleAdmin}},
	})
}

// ListByOrg returns all members of an organization sorted by email.
func (s *Store) ListByOrg(ctx context.Context, orgID string) ([]models.User, error) {
	cur, err := s.c.Find(ctx, bson.M{"organization_id": orgID},
		options.Find().SetSort(bson.D{{Key: "email", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// ListPrivilegedByOrg returns the organization's owner and admins
// (reminder digest recipients).
func (s *Store) ListPrivilegedByOrg(ctx context.Context, orgID string) ([]models.User, error) {
	cur, err := s.c.Find(ctx, bson.M{
		"organization_id": orgID,
		"role":            bson.M{"$in": []models.Role{models.RoleOwner, models.RoleAdmin}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}
