// internal/app/store/audit/store.go
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Event categories
const (
	CategoryAuth    = "auth"
	CategoryAdmin   = "admin"
	CategoryBilling = "billing"
)

// Auth event types
const (
	EventSignupCompleted     = "signup_completed"
	EventSetupTokenRejected  = "setup_token_rejected"
	EventSetupTokenValidated = "setup_token_validated"
)

// Admin event types
const (
	EventMemberCreated        = "member_created"
	EventMemberInvited        = "member_invited"
	EventMemberRemoved        = "member_removed"
	EventRoleChanged          = "role_changed"
	EventOwnershipTransferred = "ownership_transferred"
	EventOrgProvisioned       = "org_provisioned"
	EventOrgDeleted           = "org_deleted"
	EventAccountDeleted       = "account_deleted"
	EventContactSubmitted     = "contact_submitted"
)

// Billing event types
const (
	EventPlanChanged = "plan_changed"
)

// Event represents an audit event. UIDs are identity-provider subject
// strings, matching the users collection keys.
type Event struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	CorrelationID  string             `bson:"correlation_id"`
	Timestamp      time.Time          `bson:"timestamp"`
	OrganizationID string             `bson:"organization_id,omitempty"`

	// Event classification
	Category  string `bson:"category"`
	EventType string `bson:"event_type"`

	// Who
	UID     string `bson:"uid,omitempty"`      // affected user
	ActorID string `bson:"actor_id,omitempty"` // who performed the action

	// Outcome
	Success       bool   `bson:"success"`
	FailureReason string `bson:"failure_reason,omitempty"`

	// Additional details (varies by event type)
	Details map[string]string `bson:"details,omitempty"`
}

// QueryFilter defines filters for querying audit events.
type QueryFilter struct {
	OrganizationID string
	UID            string
	Category       string
	EventType      string
	StartTime      *time.Time
	EndTime        *time.Time
	Limit          int64
	Offset         int64
}

// Store manages audit event records. The collection is append-only; there
// are no update or delete operations.
type Store struct {
	c *mongo.Collection
}

// New creates a new audit Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("audit_events")}
}

// EnsureIndexes creates indexes for efficient querying.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "timestamp", Value: -1}},
		},
		{
			Keys: bson.D{
				{Key: "organization_id", Value: 1},
				{Key: "timestamp", Value: -1},
			},
		},
		{
			Keys: bson.D{
				{Key: "uid", Value: 1},
				{Key: "timestamp", Value: -1},
			},
		},
		{
			Keys: bson.D{
				{Key: "category", Value: 1},
				{Key: "event_type", Value: 1},
				{Key: "timestamp", Value: -1},
			},
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Log appends an audit event, assigning id, correlation id, and timestamp
// when the caller left them zero.
func (s *Store) Log(ctx context.Context, event Event) error {
	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	if event.CorrelationID == "" {
		event.CorrelationID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	_, err := s.c.InsertOne(ctx, event)
	return err
}

// Query retrieves audit events matching the given filter, newest first.
func (s *Store) Query(ctx context.Context, filter QueryFilter) ([]Event, error) {
	query := buildQuery(filter)

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit).
		SetSkip(filter.Offset)

	cursor, err := s.c.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []Event
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// CountByFilter returns the count of events matching the filter.
func (s *Store) CountByFilter(ctx context.Context, filter QueryFilter) (int64, error) {
	return s.c.CountDocuments(ctx, buildQuery(filter))
}

func buildQuery(filter QueryFilter) bson.M {
	query := bson.M{}
	if filter.OrganizationID != "" {
		query["organization_id"] = filter.OrganizationID
	}
	if filter.UID != "" {
		query["uid"] = filter.UID
	}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.EventType != "" {
		query["event_type"] = filter.EventType
	}
	if filter.StartTime != nil || filter.EndTime != nil {
		timeQuery := bson.M{}
		if filter.StartTime != nil {
			timeQuery["$gte"] = *filter.StartTime
		}
		if filter.EndTime != nil {
			timeQuery["$lte"] = *filter.EndTime
		}
		query["timestamp"] = timeQuery
	}
	return query
}
