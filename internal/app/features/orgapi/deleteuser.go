// internal/app/features/orgapi/deleteuser.go
package orgapi

import (
	"net/http"

	"github.com/dalemusser/restok/internal/app/features/api"
	"github.com/dalemusser/restok/internal/app/system/identity"
)

type deleteUserRequest struct {
	UID string `json:"uid"`
}

// HandleDeleteUser handles POST /org/delete-user.
func (h *Handler) HandleDeleteUser(w http.ResponseWriter, r *http.Request) {
	p := identity.FromContext(r.Context())

	var req deleteUserRequest
	if err := api.Decode(w, r, &req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UID == "" {
		api.Error(w, http.StatusBadRequest, "uid is required")
		return
	}

	if err := h.Engine.RemoveMember(r.Context(), p.UID, req.UID); err != nil {
		h.engineError(w, "delete-user", err)
		return
	}
	api.Success(w, nil)
}
