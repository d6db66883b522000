// internal/app/features/supplies/item.go
package supplies

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/restok/internal/app/features/api"
	"github.com/dalemusser/restok/internal/app/system/identity"
	supplystore "github.com/dalemusser/restok/internal/app/store/supplies"
	"github.com/dalemusser/restok/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// loadItem resolves the {id} path parameter to an item in the caller's
// organization. Items outside it read as not found, so ids cannot be
// probed across tenants.
func (h *Handler) loadItem(w http.ResponseWriter, r *http.Request, orgID string) (*models.SupplyItem, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		api.Error(w, http.StatusBadRequest, "invalid item id")
		return nil, false
	}

	item, err := h.Supplies.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, supplystore.ErrNotFound) {
			api.Error(w, http.StatusNotFound, "supply item not found")
			return nil, false
		}
		h.Log.Error("supply lookup failed", zap.String("id", id.Hex()), zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "internal error")
		return nil, false
	}
	if item.OrganizationID != orgID {
		api.Error(w, http.StatusNotFound, "supply item not found")
		return nil, false
	}
	return item, true
}

type updateItemRequest struct {
	Name             string `json:"name"`
	Notes            string `json:"notes"`
	ReorderEveryDays int    `json:"reorder_every_days"`
}

// HandleUpdate handles POST /supplies/{id}/update.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	p := identity.FromContext(r.Context())

	orgID, ok := h.callerOrg(w, r, p.UID)
	if !ok {
		return
	}
	item, ok := h.loadItem(w, r, orgID)
	if !ok {
		return
	}

	var req updateItemRequest
	if err := api.Decode(w, r, &req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		api.Error(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.ReorderEveryDays < 1 {
		api.Error(w, http.StatusBadRequest, "reorder_every_days must be at least 1")
		return
	}

	err := h.Supplies.UpdateFields(r.Context(), item.ID, supplystore.Update{
		Name:             req.Name,
		Notes:            req.Notes,
		ReorderEveryDays: req.ReorderEveryDays,
	})
	if err != nil {
		h.Log.Error("supply update failed", zap.String("id", item.ID.Hex()), zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	api.Success(w, nil)
}

// HandleDelete handles POST /supplies/{id}/delete.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	p := identity.FromContext(r.Context())

	orgID, ok := h.callerOrg(w, r, p.UID)
	if !ok {
		return
	}
	item, ok := h.loadItem(w, r, orgID)
	if !ok {
		return
	}

	if _, err := h.Supplies.Delete(r.Context(), item.ID); err != nil {
		h.Log.Error("supply delete failed", zap.String("id", item.ID.Hex()), zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	api.Success(w, nil)
}

// HandleOrdered handles POST /supplies/{id}/ordered: records a reorder and
// pushes the next reminder out by the item's cadence.
func (h *Handler) HandleOrdered(w http.ResponseWriter, r *http.Request) {
	p := identity.FromContext(r.Context())

	orgID, ok := h.callerOrg(w, r, p.UID)
	if !ok {
		return
	}
	item, ok := h.loadItem(w, r, orgID)
	if !ok {
		return
	}

	if err := h.Supplies.MarkOrdered(r.Context(), item.ID, time.Now().UTC()); err != nil {
		h.Log.Error("supply mark-ordered failed", zap.String("id", item.ID.Hex()), zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	api.Success(w, nil)
}
