// internal/app/features/billing/routes.go
package billing

import "github.com/go-chi/chi/v5"

// Routes mounts the billing webhook. Typically:
// r.Mount("/billing", billing.Routes(h))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/webhook", h.HandleWebhook)
	return r
}
