// internal/app/features/supplies/handler.go

// Package supplies is the org-scoped CRUD surface for recurring supply
// items: list, create, edit, delete, and marking an item reordered. Any
// member of the organization may read and write its items.
package supplies

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/restok/internal/app/features/api"
	supplystore "github.com/dalemusser/restok/internal/app/store/supplies"
	"github.com/dalemusser/restok/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// SupplyStore is the persistence surface this feature uses. Satisfied by
// *supplystore.Store.
type SupplyStore interface {
	Create(ctx context.Context, item models.SupplyItem) (models.SupplyItem, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.SupplyItem, error)
	ListByOrg(ctx context.Context, orgID string) ([]models.SupplyItem, error)
	UpdateFields(ctx context.Context, id primitive.ObjectID, upd supplystore.Update) error
	MarkOrdered(ctx context.Context, id primitive.ObjectID, at time.Time) error
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
}

// MemberService resolves a caller to their membership record. Satisfied by
// *membership.Engine.
type MemberService interface {
	Member(ctx context.Context, uid string) (*models.User, error)
}

// Handler is the feature-level handler for supply items.
type Handler struct {
	Supplies SupplyStore
	Engine   MemberService
	Log      *zap.Logger
}

func NewHandler(supplies SupplyStore, engine MemberService, logger *zap.Logger) *Handler {
	return &Handler{
		Supplies: supplies,
		Engine:   engine,
		Log:      logger,
	}
}

// callerOrg resolves the caller's organization or writes the rejection.
func (h *Handler) callerOrg(w http.ResponseWriter, r *http.Request, uid string) (string, bool) {
	caller, err := h.Engine.Member(r.Context(), uid)
	if err != nil {
		if api.IsRejection(err) {
			h.Log.Debug("supplies access rejected", zap.String("uid", uid), zap.Error(err))
		} else {
			h.Log.Error("membership lookup failed", zap.String("uid", uid), zap.Error(err))
		}
		api.EngineError(w, err)
		return "", false
	}
	return *caller.OrganizationID, true
}
