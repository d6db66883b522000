// internal/app/store/supplies/supplystore.go
package supplystore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/restok/internal/app/system/normalize"
	"github.com/dalemusser/restok/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when no supply item matches the lookup.
	ErrNotFound = errors.New("supply item not found")

	errBadInterval = errors.New("reorder_every_days must be at least 1")
	errNameNeeded  = errors.New("name is required")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("supply_items")}
}

// EnsureIndexes creates the org listing and reminder scan indexes.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "organization_id", Value: 1},
				{Key: "name_ci", Value: 1},
			},
			Options: options.Index().SetName("idx_supplies_org_name"),
		},
		{
			Keys:    bson.D{{Key: "next_remind_at", Value: 1}},
			Options: options.Index().SetName("idx_supplies_remind"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Create inserts a new supply item after normalizing and validating fields.
func (s *Store) Create(ctx context.Context, item models.SupplyItem) (models.SupplyItem, error) {
	item.Name = normalize.Name(item.Name)
	if item.Name == "" {
		return models.SupplyItem{}, errNameNeeded
	}
	if item.ReorderEveryDays < 1 {
		return models.SupplyItem{}, errBadInterval
	}

	now := time.Now().UTC()
	item.ID = primitive.NewObjectID()
	item.NameCI = text.Fold(item.Name)
	if item.NextRemindAt.IsZero() {
		item.NextRemindAt = now.AddDate(0, 0, item.ReorderEveryDays)
	}
	item.CreatedAt = now
	item.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, item); err != nil {
		return models.SupplyItem{}, err
	}
	return item, nil
}

// GetByID loads a supply item. Returns ErrNotFound if absent.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.SupplyItem, error) {
	var item models.SupplyItem
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&item); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// ListByOrg returns an organization's supply items sorted by folded name.
func (s *Store) ListByOrg(ctx context.Context, orgID string) ([]models.SupplyItem, error) {
	cur, err := s.c.Find(ctx, bson.M{"organization_id": orgID},
		options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var items []models.SupplyItem
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Update holds the mutable fields of a supply item.
type Update struct {
	Name             string
	Notes            string
	ReorderEveryDays int
}

// UpdateFields modifies a supply item's editable fields.
func (s *Store) UpdateFields(ctx context.Context, id primitive.ObjectID, upd Update) error {
	name := normalize.Name(upd.Name)
	if name == "" {
		return errNameNeeded
	}
	if upd.ReorderEveryDays < 1 {
		return errBadInterval
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"name":               name,
		"name_ci":            text.Fold(name),
		"notes":              upd.Notes,
		"reorder_every_days": upd.ReorderEveryDays,
		"updated_at":         time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkOrdered records a reorder: stamps LastOrderedAt and pushes
// NextRemindAt out by the item's cadence.
func (s *Store) MarkOrdered(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	item, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	_, err = s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"last_ordered_at": at,
		"next_remind_at":  at.AddDate(0, 0, item.ReorderEveryDays),
		"updated_at":      time.Now().UTC(),
	}})
	return err
}

// Delete removes a supply item. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ListDue returns items whose NextRemindAt is at or before now, grouped
// for the reminder worker.
func (s *Store) ListDue(ctx context.Context, now time.Time) ([]models.SupplyItem, error) {
	cur, err := s.c.Find(ctx, bson.M{"next_remind_at": bson.M{"$lte": now}},
		options.Find().SetSort(bson.D{
			{Key: "organization_id", Value: 1},
			{Key: "name_ci", Value: 1},
		}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var items []models.SupplyItem
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Snooze advances an item's NextRemindAt by its cadence after a reminder
// is sent, so the next digest does not repeat it immediately.
func (s *Store) Snooze(ctx context.Context, id primitive.ObjectID, from time.Time) error {
	item, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	_, err = s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"next_remind_at": from.AddDate(0, 0, item.ReorderEveryDays),
		"updated_at":     time.Now().UTC(),
	}})
	return err
}
