// internal/app/features/orgapi/updaterole.go
package orgapi

import (
	"net/http"

	"github.com/dalemusser/restok/internal/app/features/api"
	"github.com/dalemusser/restok/internal/app/system/identity"
	"github.com/dalemusser/restok/internal/domain/models"
)

type updateRoleRequest struct {
	UID  string `json:"uid"`
	Role string `json:"role"`
}

// HandleUpdateRole handles POST /org/update-role, moving a member between
// admin and member. The owner role is out of reach here.
func (h *Handler) HandleUpdateRole(w http.ResponseWriter, r *http.Request) {
	p := identity.FromContext(r.Context())

	var req updateRoleRequest
	if err := api.Decode(w, r, &req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UID == "" || req.Role == "" {
		api.Error(w, http.StatusBadRequest, "uid and role are required")
		return
	}

	if err := h.Engine.ChangeRole(r.Context(), p.UID, req.UID, models.Role(req.Role)); err != nil {
		h.engineError(w, "update-role", err)
		return
	}
	api.Success(w, nil)
}
