// internal/app/features/orgapi/routes.go
package orgapi

import (
	"github.com/dalemusser/restok/internal/app/system/identity"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Routes mounts the org API. Typically: r.Mount("/org", orgapi.Routes(h, v, log))
func Routes(h *Handler, verifier *identity.Verifier, logger *zap.Logger) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(identity.RequireBearer(verifier, logger))

		pr.Post("/create-user", h.HandleCreateUser)
		pr.Post("/invite-user", h.HandleInviteUser)
		pr.Post("/delete-user", h.HandleDeleteUser)
		pr.Post("/update-role", h.HandleUpdateRole)
		pr.Get("/members", h.ServeMembers)
	})

	// Ownership transfer is an operator action, not a member action.
	r.Group(func(ir chi.Router) {
		ir.Use(identity.RequireInternalAdmin(verifier, logger))

		ir.Post("/transfer-ownership", h.HandleTransferOwnership)
	})

	return r
}
