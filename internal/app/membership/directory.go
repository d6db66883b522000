// internal/app/membership/directory.go
package membership

import (
	"context"

	"github.com/dalemusser/restok/internal/domain/models"
)

// Directory is the engine's view of the user and organization collections.
// Implementations translate their own not-found conditions into
// ErrUserNotFound / ErrOrgNotFound and duplicate-email conflicts into
// ErrUserAlreadyExists, so the engine never sees storage-layer sentinels.
//
// InTransaction runs fn atomically; all reads and writes inside fn must use
// the context it receives. Implementations without transactional storage
// may run fn directly, at the cost of atomicity.
type Directory interface {
	InTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	User(ctx context.Context, uid string) (*models.User, error)
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, u models.User) error
	SetUserRole(ctx context.Context, uid string, role models.Role) error
	SetUserDisabled(ctx context.Context, uid string, disabled bool) error
	DeleteUser(ctx context.Context, uid string) error

	MemberCount(ctx context.Context, orgID string) (int64, error)
	PrivilegedCount(ctx context.Context, orgID string) (int64, error)
	Members(ctx context.Context, orgID string) ([]models.User, error)

	Org(ctx context.Context, orgID string) (*models.Organization, error)
	CreateOrg(ctx context.Context, org models.Organization) error
	SetOrgOwner(ctx context.Context, orgID, ownerID string) error
	SetOrgPlan(ctx context.Context, orgID, plan string) error
	DeleteOrg(ctx context.Context, orgID string) error
}
