// internal/app/features/authapi/handler.go

// Package authapi serves the invite-completion flow: validating a
// password-setup token and completing signup with a password. The token
// itself is the credential, so these routes take no bearer token.
package authapi

import (
	"context"
	"net/http"

	"github.com/dalemusser/restok/internal/app/features/api"
	"go.uber.org/zap"
)

// SignupService is the slice of the membership engine this feature uses.
// Satisfied by *membership.Engine.
type SignupService interface {
	CompleteSignup(ctx context.Context, token, password string) error
	ValidateToken(ctx context.Context, token string) error
}

// Handler is the feature-level handler for the auth API.
type Handler struct {
	Engine SignupService
	Log    *zap.Logger
}

func NewHandler(engine SignupService, logger *zap.Logger) *Handler {
	return &Handler{
		Engine: engine,
		Log:    logger,
	}
}

func (h *Handler) engineError(w http.ResponseWriter, op string, err error) {
	if api.IsRejection(err) {
		h.Log.Debug(op+" rejected", zap.Error(err))
	} else {
		h.Log.Error(op+" failed", zap.Error(err))
	}
	api.EngineError(w, err)
}
