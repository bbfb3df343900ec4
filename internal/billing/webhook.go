package billing

import (
	"context"
	"encoding/json"

	"github.com/rotisserie/eris"
	stripe "github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/webhook"
	"go.uber.org/zap"

	"github.com/commcap/prospector/internal/metrics"
	"github.com/commcap/prospector/internal/store"
)

// ErrBadSignature marks webhook payloads that fail signature verification.
var ErrBadSignature = eris.New("billing: webhook signature verification failed")

// WebhookProcessor verifies and applies Stripe webhook events.
type WebhookProcessor struct {
	store  store.Store
	secret string
}

// NewWebhookProcessor builds a processor bound to the user store.
func NewWebhookProcessor(st store.Store, webhookSecret string) *WebhookProcessor {
	return &WebhookProcessor{store: st, secret: webhookSecret}
}

// Process verifies the payload signature and applies the event. A
// returned ErrBadSignature means the caller should reject the request;
// any other error is a processing failure on a verified event.
func (p *WebhookProcessor) Process(ctx context.Context, payload []byte, sigHeader string) error {
	event, err := webhook.ConstructEvent(payload, sigHeader, p.secret)
	if err != nil {
		metrics.WebhookEvents.WithLabelValues("unknown", "bad_signature").Inc()
		return eris.Wrap(ErrBadSignature, err.Error())
	}

	switch event.Type {
	case "checkout.session.completed":
		return p.applyCheckoutCompleted(ctx, event)
	default:
		zap.L().Debug("unhandled stripe event", zap.String("type", string(event.Type)))
		metrics.WebhookEvents.WithLabelValues(string(event.Type), "ignored").Inc()
		return nil
	}
}

func (p *WebhookProcessor) applyCheckoutCompleted(ctx context.Context, event stripe.Event) error {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		metrics.WebhookEvents.WithLabelValues(string(event.Type), "error").Inc()
		return eris.Wrap(err, "billing: unmarshal checkout session")
	}

	email := sessionEmail(&sess)
	customerID := ""
	if sess.Customer != nil {
		customerID = sess.Customer.ID
	}
	subscriptionID := ""
	if sess.Subscription != nil {
		subscriptionID = sess.Subscription.ID
	}

	if email == "" || customerID == "" || subscriptionID == "" {
		zap.L().Warn("checkout session missing identifiers",
			zap.String("email", email),
			zap.String("customer_id", customerID),
			zap.String("subscription_id", subscriptionID))
		metrics.WebhookEvents.WithLabelValues(string(event.Type), "incomplete").Inc()
		return nil
	}

	user, err := p.store.GetUserByEmail(ctx, email)
	if err != nil {
		metrics.WebhookEvents.WithLabelValues(string(event.Type), "error").Inc()
		return eris.Wrapf(err, "billing: look up user %s", email)
	}
	if user == nil {
		zap.L().Warn("no user found for checkout email", zap.String("email", email))
		metrics.WebhookEvents.WithLabelValues(string(event.Type), "no_user").Inc()
		return nil
	}

	if err := p.store.ApplyCheckout(ctx, email, customerID, subscriptionID); err != nil {
		metrics.WebhookEvents.WithLabelValues(string(event.Type), "error").Inc()
		return eris.Wrapf(err, "billing: apply checkout for %s", email)
	}

	zap.L().Info("subscription activated",
		zap.String("email", email),
		zap.String("customer_id", customerID))
	metrics.WebhookEvents.WithLabelValues(string(event.Type), "applied").Inc()
	return nil
}

// sessionEmail prefers the email the customer entered at checkout and
// falls back to the metadata set when the session was created.
func sessionEmail(sess *stripe.CheckoutSession) string {
	if sess.CustomerDetails != nil && sess.CustomerDetails.Email != "" {
		return sess.CustomerDetails.Email
	}
	if v := sess.Metadata["userEmail"]; v != "" {
		return v
	}
	return sess.Metadata["email"]
}
