// internal/app/features/billing/handler.go

// Package billing receives Stripe webhook callbacks and applies
// subscription plan changes to organizations. Subscription metadata
// carries org_id and plan; everything else about payment processing stays
// on Stripe's side.
package billing

import (
	"context"

	"go.uber.org/zap"
)

// PlanService is the slice of the membership engine this feature uses.
// Satisfied by *membership.Engine.
type PlanService interface {
	ApplySubscriptionPlan(ctx context.Context, orgID, plan, subscriptionID string) error
}

// Handler is the feature-level handler for billing webhooks.
type Handler struct {
	Engine        PlanService
	WebhookSecret string
	Log           *zap.Logger
}

func NewHandler(engine PlanService, webhookSecret string, logger *zap.Logger) *Handler {
	return &Handler{
		Engine:        engine,
		WebhookSecret: webhookSecret,
		Log:           logger,
	}
}
