// internal/app/features/internalapi/setplan.go
package internalapi

import (
	"net/http"

	"github.com/dalemusser/restok/internal/app/features/api"
	"github.com/dalemusser/restok/internal/app/system/identity"
)

type setPlanRequest struct {
	OrgID string `json:"orgId"`
	Plan  string `json:"plan"`
}

// HandleSetPlan handles POST /internal/set-plan, the administrative plan
// override. Downgrades never evict members.
func (h *Handler) HandleSetPlan(w http.ResponseWriter, r *http.Request) {
	p := identity.FromContext(r.Context())

	var req setPlanRequest
	if err := api.Decode(w, r, &req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.OrgID == "" || req.Plan == "" {
		api.Error(w, http.StatusBadRequest, "orgId and plan are required")
		return
	}

	if err := h.Engine.SetPlan(r.Context(), p.UID, req.OrgID, req.Plan); err != nil {
		h.engineError(w, "set-plan", err)
		return
	}
	api.Success(w, nil)
}
