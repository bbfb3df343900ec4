// Package store persists user accounts and subscription state. Two
// backends are provided: SQLite for single-node deployments and
// PostgreSQL for shared ones.
package store

import (
	"context"

	"github.com/commcap/prospector/internal/model"
)

// Store defines the persistence interface for user accounts.
type Store interface {
	// GetUserByEmail returns the user for the given email, or nil if
	// no such user exists.
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)

	// UpsertUser inserts the user or, when the email already exists,
	// updates the mutable profile and subscription fields.
	UpsertUser(ctx context.Context, user *model.User) error

	// ApplyCheckout records a completed checkout: it stores the Stripe
	// customer and subscription IDs and marks the subscription active.
	ApplyCheckout(ctx context.Context, email, customerID, subscriptionID string) error

	// IncrementSearches bumps the user's monthly search counter.
	IncrementSearches(ctx context.Context, email string) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
