// internal/app/features/supplies/list.go
package supplies

import (
	"net/http"

	"github.com/dalemusser/restok/internal/app/features/api"
	"github.com/dalemusser/restok/internal/app/system/identity"
	"go.uber.org/zap"
)

// ServeList handles GET /supplies: the caller's organization's items,
// sorted by name.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	p := identity.FromContext(r.Context())

	orgID, ok := h.callerOrg(w, r, p.UID)
	if !ok {
		return
	}

	items, err := h.Supplies.ListByOrg(r.Context(), orgID)
	if err != nil {
		h.Log.Error("supply listing failed", zap.String("org_id", orgID), zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	api.Success(w, map[string]any{"items": items})
}
