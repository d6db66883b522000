// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/restok/internal/app/system/normalize"
	"github.com/dalemusser/restok/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
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

// CreateOrganization creates a test organization owned by ownerUID. By
// convention the org id is the owner's uid.
func (f *Fixtures) CreateOrganization(ctx context.Context, ownerUID, name, plan string) models.Organization {
	f.t.Helper()

	now := time.Now().UTC()
	org := models.Organization{
		ID:        ownerUID,
		OwnerID:   ownerUID,
		Name:      name,
		NameCI:    text.Fold(name),
		Plan:      plan,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("organizations").InsertOne(ctx, org); err != nil {
		f.t.Fatalf("failed to create test organization: %v", err)
	}
	return org
}

// CreateUser creates a test user with the given uid, email, role, and
// organization. Pass orgID "" for an unaffiliated account.
func (f *Fixtures) CreateUser(ctx context.Context, uid, email string, role models.Role, orgID string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:        uid,
		Email:     normalize.Email(email),
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if orgID != "" {
		user.OrganizationID = &orgID
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateOwner creates an organization plus its owner record and returns both.
func (f *Fixtures) CreateOwner(ctx context.Context, uid, email, orgName, plan string) (models.User, models.Organization) {
	f.t.Helper()
	org := f.CreateOrganization(ctx, uid, orgName, plan)
	owner := f.CreateUser(ctx, uid, email, models.RoleOwner, org.ID)
	return owner, org
}
