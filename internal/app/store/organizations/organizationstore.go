// internal/app/store/organizations/organizationstore.go
package organizationstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/restok/internal/app/system/plans"
	"github.com/dalemusser/restok/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when no organization matches the lookup.
	ErrNotFound = errors.New("organization not found")
	// ErrDuplicateOrganization is returned when the org id already exists.
	ErrDuplicateOrganization = errors.New("an organization with this id already exists")

	errBadPlan = errors.New("unrecognized plan")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("organizations")}
}

// EnsureIndexes creates the folded-name lookup index.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name_ci", Value: 1}},
		Options: options.Index().SetName("idx_orgs_name_ci"),
	})
	return err
}

// Create inserts a new organization. The caller supplies the id (the
// creating owner's uid, by convention).
func (s *Store) Create(ctx context.Context, org models.Organization) (models.Organization, error) {
	if !plans.Valid(org.Plan) {
		return models.Organization{}, errBadPlan
	}
	now := time.Now().UTC()
	org.NameCI = text.Fold(org.Name)
	org.CreatedAt = now
	org.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, org); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Organization{}, ErrDuplicateOrganization
		}
		return models.Organization{}, err
	}
	return org, nil
}

// GetByID loads an organization. Returns ErrNotFound if absent.
func (s *Store) GetByID(ctx context.Context, id string) (*models.Organization, error) {
	var org models.Organization
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&org); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &org, nil
}

// SetOwner points the organization at a new owner uid.
func (s *Store) SetOwner(ctx context.Context, id, ownerID string) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"owner_id":   ownerID,
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

// SetPlan updates the organization's plan. A downgrade never evicts
// members; existing seats above the new limit persist until members leave.
func (s *Store) SetPlan(ctx context.Context, id, plan string) error {
	if !plans.Valid(plan) {
		return errBadPlan
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"plan":       plan,
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

// Delete removes an organization. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id string) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
