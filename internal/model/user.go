package model

import "time"

// SubscriptionStatus is the lifecycle state of a broker's subscription.
type SubscriptionStatus string

const (
	StatusTrial    SubscriptionStatus = "trial"
	StatusActive   SubscriptionStatus = "active"
	StatusStarter  SubscriptionStatus = "starter"
	StatusPro      SubscriptionStatus = "pro"
	StatusInactive SubscriptionStatus = "inactive"
)

// Paid reports whether the status grants access without a live trial.
func (s SubscriptionStatus) Paid() bool {
	switch s {
	case StatusActive, StatusStarter, StatusPro:
		return true
	}
	return false
}

// User is a broker's subscription record. Auth itself is external; the
// record is keyed by the email the sign-in flow verified.
type User struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	BrokerName string `json:"brokerName"`
	Company    string `json:"company"`
	Phone      string `json:"phone"`

	SubscriptionStatus SubscriptionStatus `json:"subscriptionStatus"`
	SubscriptionPlan   string             `json:"subscriptionPlan,omitempty"`
	TrialExpiresAt     *time.Time         `json:"trialExpiresAt,omitempty"`

	StripeCustomerID     string `json:"stripeCustomerId,omitempty"`
	StripeSubscriptionID string `json:"stripeSubscriptionId,omitempty"`

	MonthlySearchesUsed int `json:"monthlySearchesUsed"`
	MonthlySearchLimit  int `json:"monthlySearchLimit"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
