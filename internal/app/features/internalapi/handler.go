// internal/app/features/internalapi/handler.go

// Package internalapi serves operator-only endpoints: organization
// provisioning, plan overrides, and account deletion. Every route requires
// a bearer token carrying the internalAdmin claim.
package internalapi

import (
	"context"
	"net/http"

	"github.com/dalemusser/restok/internal/app/features/api"
	"go.uber.org/zap"
)

// AdminService is the slice of the membership engine this feature uses.
// Satisfied by *membership.Engine.
type AdminService interface {
	ProvisionOrg(ctx context.Context, actorID, email, password, orgName, plan string) (string, error)
	SetPlan(ctx context.Context, actorID, orgID, plan string) error
	DeleteAccount(ctx context.Context, actorID, uid string) error
}

// Handler is the feature-level handler for the internal API.
type Handler struct {
	Engine AdminService
	Log    *zap.Logger
}

func NewHandler(engine AdminService, logger *zap.Logger) *Handler {
	return &Handler{
		Engine: engine,
		Log:    logger,
	}
}

func (h *Handler) engineError(w http.ResponseWriter, op string, err error) {
	if api.IsRejection(err) {
		h.Log.Debug(op+" rejected", zap.Error(err))
	} else {
		h.Log.Error(op+" failed", zap.Error(err))
	}
	api.EngineError(w, err)
}
