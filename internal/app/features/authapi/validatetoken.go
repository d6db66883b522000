// internal/app/features/authapi/validatetoken.go
package authapi

import (
	"net/http"

	"github.com/dalemusser/restok/internal/app/features/api"
)

type validateTokenRequest struct {
	Token string `json:"token"`
}

// HandleValidateToken handles POST /auth/validate-password-token: checks
// existence and expiry without consuming the token, so the setup page can
// reject dead links up front.
func (h *Handler) HandleValidateToken(w http.ResponseWriter, r *http.Request) {
	var req validateTokenRequest
	if err := api.Decode(w, r, &req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Token == "" {
		api.Error(w, http.StatusBadRequest, "token is required")
		return
	}

	if err := h.Engine.ValidateToken(r.Context(), req.Token); err != nil {
		h.engineError(w, "validate-password-token", err)
		return
	}
	api.Success(w, nil)
}
