// internal/app/features/orgapi/listmembers.go
package orgapi

import (
	"net/http"

	"github.com/dalemusser/restok/internal/app/features/api"
	"github.com/dalemusser/restok/internal/app/system/identity"
)

// ServeMembers handles GET /org/members: the roster of the caller's own
// organization, any role may read it.
func (h *Handler) ServeMembers(w http.ResponseWriter, r *http.Request) {
	p := identity.FromContext(r.Context())

	caller, err := h.Engine.Member(r.Context(), p.UID)
	if err != nil {
		h.engineError(w, "members", err)
		return
	}

	members, err := h.Engine.Members(r.Context(), p.UID, *caller.OrganizationID)
	if err != nil {
		h.engineError(w, "members", err)
		return
	}
	api.Success(w, map[string]any{"members": members})
}
