// internal/app/features/supplies/create.go
package supplies

import (
	"net/http"
	"strings"

	"github.com/dalemusser/restok/internal/app/features/api"
	"github.com/dalemusser/restok/internal/app/system/identity"
	"github.com/dalemusser/restok/internal/domain/models"
	"go.uber.org/zap"
)

type createItemRequest struct {
	Name             string `json:"name"`
	Notes            string `json:"notes"`
	ReorderEveryDays int    `json:"reorder_every_days"`
}

// HandleCreate handles POST /supplies.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	p := identity.FromContext(r.Context())

	orgID, ok := h.callerOrg(w, r, p.UID)
	if !ok {
		return
	}

	var req createItemRequest
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

	item, err := h.Supplies.Create(r.Context(), models.SupplyItem{
		OrganizationID:   orgID,
		Name:             req.Name,
		Notes:            req.Notes,
		ReorderEveryDays: req.ReorderEveryDays,
		CreatedBy:        p.UID,
	})
	if err != nil {
		h.Log.Error("supply create failed", zap.String("org_id", orgID), zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	api.Success(w, map[string]any{"item": item})
}
