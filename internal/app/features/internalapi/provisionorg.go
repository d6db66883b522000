// internal/app/features/internalapi/provisionorg.go
package internalapi

import (
	"net/http"

	"github.com/dalemusser/restok/internal/app/features/api"
	"github.com/dalemusser/restok/internal/app/system/identity"
	validate "github.com/dalemusser/waffle/pantry/validate"
)

type provisionOrgRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	OrgName  string `json:"orgName"`
	Plan     string `json:"plan"`
}

// HandleProvisionOrg handles POST /internal/provision-org: creates an
// identity, an organization owned by it, and the owner record. Plan
// defaults to basic when omitted.
func (h *Handler) HandleProvisionOrg(w http.ResponseWriter, r *http.Request) {
	p := identity.FromContext(r.Context())

	var req provisionOrgRequest
	if err := api.Decode(w, r, &req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || !validate.SimpleEmailValid(req.Email) {
		api.Error(w, http.StatusBadRequest, "a valid email is required")
		return
	}
	if req.Password == "" {
		api.Error(w, http.StatusBadRequest, "password is required")
		return
	}
	if req.OrgName == "" {
		api.Error(w, http.StatusBadRequest, "orgName is required")
		return
	}

	uid, err := h.Engine.ProvisionOrg(r.Context(), p.UID, req.Email, req.Password, req.OrgName, req.Plan)
	if err != nil {
		h.engineError(w, "provision-org", err)
		return
	}
	api.Success(w, map[string]any{"uid": uid, "orgId": uid})
}
