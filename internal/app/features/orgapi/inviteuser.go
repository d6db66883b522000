// internal/app/features/orgapi/inviteuser.go
package orgapi

import (
	"net/http"

	"github.com/dalemusser/restok/internal/app/features/api"
	"github.com/dalemusser/restok/internal/app/system/identity"
	validate "github.com/dalemusser/waffle/pantry/validate"
)

type inviteUserRequest struct {
	Email string `json:"email"`
	OrgID string `json:"orgId"`
}

// HandleInviteUser handles POST /org/invite-user: the invitee gets a
// password-setup email instead of a password.
func (h *Handler) HandleInviteUser(w http.ResponseWriter, r *http.Request) {
	p := identity.FromContext(r.Context())

	var req inviteUserRequest
	if err := api.Decode(w, r, &req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || !validate.SimpleEmailValid(req.Email) {
		api.Error(w, http.StatusBadRequest, "a valid email is required")
		return
	}
	if req.OrgID == "" {
		api.Error(w, http.StatusBadRequest, "orgId is required")
		return
	}

	uid, err := h.Engine.InviteMember(r.Context(), p.UID, req.OrgID, req.Email)
	if err != nil {
		h.engineError(w, "invite-user", err)
		return
	}
	api.Success(w, map[string]any{"uid": uid})
}
