// internal/app/features/authapi/completesignup.go
package authapi

import (
	"net/http"

	"github.com/dalemusser/restok/internal/app/features/api"
)

// Invited accounts set their first password here; a floor keeps trivially
// weak ones out. Strength rules beyond length belong to the identity
// provider.
const minPasswordLength = 8

type completeSignupRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// HandleCompleteSignup handles POST /auth/complete-signup: redeems the
// setup token, sets the password, enables the account, and consumes the
// token.
func (h *Handler) HandleCompleteSignup(w http.ResponseWriter, r *http.Request) {
	var req completeSignupRequest
	if err := api.Decode(w, r, &req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Token == "" {
		api.Error(w, http.StatusBadRequest, "token is required")
		return
	}
	if len(req.Password) < minPasswordLength {
		api.Error(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	if err := h.Engine.CompleteSignup(r.Context(), req.Token, req.Password); err != nil {
		h.engineError(w, "complete-signup", err)
		return
	}
	api.Success(w, nil)
}
