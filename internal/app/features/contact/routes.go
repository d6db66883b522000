// internal/app/features/contact/routes.go
package contact

import (
	"github.com/go-chi/chi/v5"
)

// Routes mounts the contact endpoint. Unauthenticated: the form is public.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.HandleSubmit)
	return r
}
