// internal/app/membership/mongodir.go
package membership

import (
	"context"
	"errors"

	organizationstore "github.com/dalemusser/restok/internal/app/store/organizations"
	userstore "github.com/dalemusser/restok/internal/app/store/users"
	"github.com/dalemusser/restok/internal/app/system/txn"
	"github.com/dalemusser/restok/internal/domain/models"
)

// MongoDirectory adapts the Mongo-backed user and organization stores to
// the Directory interface, translating store sentinels into engine errors.
type MongoDirectory struct {
	users  *userstore.Store
	orgs   *organizationstore.Store
	runner *txn.Runner
}

var _ Directory = (*MongoDirectory)(nil)

// NewMongoDirectory wires a directory over the concrete stores.
func NewMongoDirectory(users *userstore.Store, orgs *organizationstore.Store, runner *txn.Runner) *MongoDirectory {
	return &MongoDirectory{users: users, orgs: orgs, runner: runner}
}

func (d *MongoDirectory) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return d.runner.WithTransaction(ctx, fn)
}

func (d *MongoDirectory) User(ctx context.Context, uid string) (*models.User, error) {
	u, err := d.users.GetByID(ctx, uid)
	if errors.Is(err, userstore.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

func (d *MongoDirectory) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := d.users.GetByEmail(ctx, email)
	if errors.Is(err, userstore.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

func (d *MongoDirectory) CreateUser(ctx context.Context, u models.User) error {
	_, err := d.users.Create(ctx, u)
	if errors.Is(err, userstore.ErrDuplicateEmail) {
		return ErrUserAlreadyExists
	}
	return err
}

func (d *MongoDirectory) SetUserRole(ctx context.Context, uid string, role models.Role) error {
	err := d.users.UpdateRole(ctx, uid, role)
	if errors.Is(err, userstore.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}

func (d *MongoDirectory) SetUserDisabled(ctx context.Context, uid string, disabled bool) error {
	err := d.users.SetDisabled(ctx, uid, disabled)
	if errors.Is(err, userstore.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}

func (d *MongoDirectory) DeleteUser(ctx context.Context, uid string) error {
	n, err := d.users.Delete(ctx, uid)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (d *MongoDirectory) MemberCount(ctx context.Context, orgID string) (int64, error) {
	return d.users.CountByOrg(ctx, orgID)
}

func (d *MongoDirectory) PrivilegedCount(ctx context.Context, orgID string) (int64, error) {
	return d.users.CountPrivilegedByOrg(ctx, orgID)
}

func (d *MongoDirectory) Members(ctx context.Context, orgID string) ([]models.User, error) {
	return d.users.ListByOrg(ctx, orgID)
}

func (d *MongoDirectory) Org(ctx context.Context, orgID string) (*models.Organization, error) {
	org, err := d.orgs.GetByID(ctx, orgID)
	if errors.Is(err, organizationstore.ErrNotFound) {
		return nil, ErrOrgNotFound
	}
	return org, err
}

func (d *MongoDirectory) CreateOrg(ctx context.Context, org models.Organization) error {
	_, err := d.orgs.Create(ctx, org)
	return err
}

func (d *MongoDirectory) SetOrgOwner(ctx context.Context, orgID, ownerID string) error {
	err := d.orgs.SetOwner(ctx, orgID, ownerID)
	if errors.Is(err, organizationstore.ErrNotFound) {
		return ErrOrgNotFound
	}
	return err
}

func (d *MongoDirectory) SetOrgPlan(ctx context.Context, orgID, plan string) error {
	err := d.orgs.SetPlan(ctx, orgID, plan)
	if errors.Is(err, organizationstore.ErrNotFound) {
		return ErrOrgNotFound
	}
	return err
}

func (d *MongoDirectory) DeleteOrg(ctx context.Context, orgID string) error {
	_, err := d.orgs.Delete(ctx, orgID)
	return err
}
