// internal/app/features/billing/webhook.go
package billing

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/dalemusser/restok/internal/app/features/api"
	"github.com/dalemusser/restok/internal/app/system/plans"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/webhook"
	"go.uber.org/zap"
)

// Stripe caps webhook payloads at 64KB; anything larger is not Stripe.
const maxPayloadBytes = 65536

// HandleWebhook handles POST /billing/webhook. Signature verification uses
// the endpoint's signing secret; events that carry no usable metadata are
// acknowledged and dropped so Stripe does not retry them forever, while
// internal failures return 500 to trigger a retry.
func (h *Handler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPayloadBytes))
	if err != nil {
		api.Error(w, http.StatusBadRequest, "unable to read payload")
		return
	}

	event, err := webhook.ConstructEventWithOptions(payload, r.Header.Get("Stripe-Signature"),
		h.WebhookSecret, webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		h.Log.Warn("stripe webhook signature verification failed", zap.Error(err))
		api.Error(w, http.StatusBadRequest, "signature verification failed")
		return
	}

	switch event.Type {
	case stripe.EventTypeCustomerSubscriptionCreated, stripe.EventTypeCustomerSubscriptionUpdated:
		h.applySubscription(w, r, event, "")
	case stripe.EventTypeCustomerSubscriptionDeleted:
		// A canceled subscription falls back to the basic plan. Members
		// above basic's seat limit are never evicted.
		h.applySubscription(w, r, event, plans.Basic)
	default:
		h.Log.Debug("ignoring stripe event", zap.String("type", string(event.Type)))
		api.Success(w, nil)
	}
}

// applySubscription extracts the subscription from the event and applies
// its plan. When planOverride is non-empty it wins over the metadata plan.
func (h *Handler) applySubscription(w http.ResponseWriter, r *http.Request, event stripe.Event, planOverride string) {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		h.Log.Warn("stripe subscription payload unreadable", zap.Error(err))
		api.Error(w, http.StatusBadRequest, "invalid subscription payload")
		return
	}

	orgID := sub.Metadata["org_id"]
	plan := planOverride
	if plan == "" {
		plan = sub.Metadata["plan"]
	}
	if orgID == "" || plan == "" {
		h.Log.Warn("stripe subscription missing org_id/plan metadata",
			zap.String("subscription", sub.ID), zap.String("event", event.ID))
		api.Success(w, nil)
		return
	}

	if err := h.Engine.ApplySubscriptionPlan(r.Context(), orgID, plan, sub.ID); err != nil {
		if api.IsRejection(err) {
			// Unknown org or plan will not fix itself on retry; ack it.
			h.Log.Warn("stripe plan change rejected",
				zap.String("org_id", orgID), zap.String("plan", plan), zap.Error(err))
			api.Success(w, nil)
			return
		}
		h.Log.Error("stripe plan change failed",
			zap.String("org_id", orgID), zap.String("plan", plan), zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.Log.Info("plan updated from stripe subscription",
		zap.String("org_id", orgID), zap.String("plan", plan), zap.String("subscription", sub.ID))
	api.Success(w, nil)
}
