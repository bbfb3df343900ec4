// Package billing integrates Stripe subscription checkout and webhook
// processing for broker accounts.
package billing

import (
	"context"

	"github.com/rotisserie/eris"
	stripe "github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"
)

// Config holds the Stripe credentials and product mapping.
type Config struct {
	SecretKey     string            `yaml:"secret_key" mapstructure:"secret_key"`
	WebhookSecret string            `yaml:"webhook_secret" mapstructure:"webhook_secret"`
	PriceIDs      map[string]string `yaml:"price_ids" mapstructure:"price_ids"`
	SuccessURL    string            `yaml:"success_url" mapstructure:"success_url"`
	CancelURL     string            `yaml:"cancel_url" mapstructure:"cancel_url"`
}

// SessionCreator starts a hosted checkout session for a plan.
type SessionCreator interface {
	CreateSession(ctx context.Context, plan, email string) (string, error)
}

// Checkout implements SessionCreator against the Stripe API.
type Checkout struct {
	api *client.API
	cfg Config
}

// NewCheckout builds a Checkout service from config.
func NewCheckout(cfg Config) *Checkout {
	api := &client.API{}
	api.Init(cfg.SecretKey, nil)
	return &Checkout{api: api, cfg: cfg}
}

// CreateSession creates a subscription-mode checkout session and returns
// the hosted payment page URL.
func (c *Checkout) CreateSession(ctx context.Context, plan, email string) (string, error) {
	priceID, ok := c.cfg.PriceIDs[plan]
	if !ok {
		return "", eris.Errorf("billing: unknown plan %q", plan)
	}

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		CustomerEmail:      stripe.String(email),
		SuccessURL:         stripe.String(c.cfg.SuccessURL),
		CancelURL:          stripe.String(c.cfg.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(priceID), Quantity: stripe.Int64(1)},
		},
	}
	params.Context = ctx
	params.AddMetadata("userEmail", email)
	params.AddMetadata("plan", plan)

	sess, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return "", eris.Wrapf(err, "billing: create checkout session for plan %s", plan)
	}
	return sess.URL, nil
}
