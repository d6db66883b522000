// internal/app/features/orgapi/transferownership.go
package orgapi

import (
	"errors"
	"net/http"

	"github.com/dalemusser/restok/internal/app/features/api"
	"github.com/dalemusser/restok/internal/app/membership"
	"github.com/dalemusser/restok/internal/app/system/identity"
)

type transferOwnershipRequest struct {
	UID string `json:"uid"`
}

// HandleTransferOwnership handles POST /org/transfer-ownership. The target
// organization is the new owner's own organization; the previous owner is
// demoted to admin in the same transaction.
func (h *Handler) HandleTransferOwnership(w http.ResponseWriter, r *http.Request) {
	p := identity.FromContext(r.Context())

	var req transferOwnershipRequest
	if err := api.Decode(w, r, &req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UID == "" {
		api.Error(w, http.StatusBadRequest, "uid is required")
		return
	}

	target, err := h.Engine.Member(r.Context(), req.UID)
	if err != nil {
		if errors.Is(err, membership.ErrNoOrganization) {
			err = membership.ErrMissingOrg
		}
		h.engineError(w, "transfer-ownership", err)
		return
	}

	if err := h.Engine.TransferOwnership(r.Context(), p.UID, *target.OrganizationID, req.UID); err != nil {
		h.engineError(w, "transfer-ownership", err)
		return
	}
	api.Success(w, nil)
}
