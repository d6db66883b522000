// internal/app/features/internalapi/deleteaccount.go
package internalapi

import (
	"net/http"

	"github.com/dalemusser/restok/internal/app/features/api"
	"github.com/dalemusser/restok/internal/app/system/identity"
)

type deleteAccountRequest struct {
	UID string `json:"uid"`
}

// HandleDeleteAccount handles POST /internal/delete-account. An owner's
// account can only go when it is the organization's sole member, taking
// the organization with it; otherwise ownership must be transferred first.
func (h *Handler) HandleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	p := identity.FromContext(r.Context())

	var req deleteAccountRequest
	if err := api.Decode(w, r, &req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UID == "" {
		api.Error(w, http.StatusBadRequest, "uid is required")
		return
	}

	if err := h.Engine.DeleteAccount(r.Context(), p.UID, req.UID); err != nil {
		h.engineError(w, "delete-account", err)
		return
	}
	api.Success(w, nil)
}
