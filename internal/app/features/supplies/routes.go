// internal/app/features/supplies/routes.go
package supplies

import (
	"github.com/dalemusser/restok/internal/app/system/identity"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Routes mounts the supplies API. Typically:
// r.Mount("/supplies", supplies.Routes(h, v, log))
func Routes(h *Handler, verifier *identity.Verifier, logger *zap.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(identity.RequireBearer(verifier, logger))

	r.Get("/", h.ServeList)
	r.Post("/", h.HandleCreate)
	r.Post("/{id}/update", h.HandleUpdate)
	r.Post("/{id}/delete", h.HandleDelete)
	r.Post("/{id}/ordered", h.HandleOrdered)

	return r
}
