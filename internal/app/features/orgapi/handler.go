// internal/app/features/orgapi/handler.go

// Package orgapi exposes the organization membership operations over JSON:
// create, invite, remove, role change, ownership transfer, and the member
// roster. All routes require a bearer token; transfer-ownership requires
// the internalAdmin claim.
package orgapi

import (
	"context"
	"net/http"

	"github.com/dalemusser/restok/internal/app/features/api"
	"github.com/dalemusser/restok/internal/domain/models"
	"go.uber.org/zap"
)

// MembershipService is the slice of the membership engine this feature
// uses. Satisfied by *membership.Engine.
type MembershipService interface {
	CreateMember(ctx context.Context, callerID, orgID, email, password string) (string, error)
	InviteMember(ctx context.Context, callerID, orgID, email string) (string, error)
	RemoveMember(ctx context.Context, callerID, targetUID string) error
	ChangeRole(ctx context.Context, callerID, targetUID string, newRole models.Role) error
	TransferOwnership(ctx context.Context, actorID, orgID, newOwnerUID string) error
	Member(ctx context.Context, uid string) (*models.User, error)
	Members(ctx context.Context, callerID, orgID string) ([]models.User, error)
}

// Handler is the feature-level handler for the org API.
type Handler struct {
	Engine MembershipService
	Log    *zap.Logger
}

func NewHandler(engine MembershipService, logger *zap.Logger) *Handler {
	return &Handler{
		Engine: engine,
		Log:    logger,
	}
}

// engineError writes an engine failure. Taxonomy rejections are expected
// traffic and logged at debug; anything else is an internal failure.
func (h *Handler) engineError(w http.ResponseWriter, op string, err error) {
	if api.IsRejection(err) {
		h.Log.Debug(op+" rejected", zap.Error(err))
	} else {
		h.Log.Error(op+" failed", zap.Error(err))
	}
	api.EngineError(w, err)
}
