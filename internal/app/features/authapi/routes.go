// internal/app/features/authapi/routes.go
package authapi

import "github.com/go-chi/chi/v5"

// Routes mounts the auth API. Typically: r.Mount("/auth", authapi.Routes(h))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/complete-signup", h.HandleCompleteSignup)
	r.Post("/validate-password-token", h.HandleValidateToken)
	return r
}
