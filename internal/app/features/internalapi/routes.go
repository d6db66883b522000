// internal/app/features/internalapi/routes.go
package internalapi

import (
	"github.com/dalemusser/restok/internal/app/system/identity"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Routes mounts the internal API. Typically:
// r.Mount("/internal", internalapi.Routes(h, v, log))
func Routes(h *Handler, verifier *identity.Verifier, logger *zap.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(identity.RequireInternalAdmin(verifier, logger))

	r.Post("/provision-org", h.HandleProvisionOrg)
	r.Post("/set-plan", h.HandleSetPlan)
	r.Post("/delete-account", h.HandleDeleteAccount)

	return r
}
