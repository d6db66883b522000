// internal/app/features/orgapi/createuser.go
package orgapi

import (
	"net/http"

	"github.com/dalemusser/restok/internal/app/features/api"
	"github.com/dalemusser/restok/internal/app/system/identity"
	validate "github.com/dalemusser/waffle/pantry/validate"
)

type createUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	OrgID    string `json:"orgId"`
}

// HandleCreateUser handles POST /org/create-user: an owner or admin adds a
// member with a known password. No invite email is involved.
func (h *Handler) HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	p := identity.FromContext(r.Context())

	var req createUserRequest
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
	if req.OrgID == "" {
		api.Error(w, http.StatusBadRequest, "orgId is required")
		return
	}

	uid, err := h.Engine.CreateMember(r.Context(), p.UID, req.OrgID, req.Email, req.Password)
	if err != nil {
		h.engineError(w, "create-user", err)
		return
	}
	api.Success(w, map[string]any{"uid": uid})
}
