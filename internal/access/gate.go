// Package access decides whether a broker may run searches, based on their
// subscription record.
package access

import (
	"time"

	"github.com/commcap/prospector/internal/model"
)

// Blocked reports whether the user is locked out of the search flow.
//
// A user is allowed through when their subscription status is paid, or when
// they are on a trial that has not yet expired. Stripe identifiers are
// deliberately NOT required during a live trial: a trial starts before the
// first checkout, so a record without payment identifiers is the normal
// trial state, not an anomaly.
func Blocked(user *model.User, now time.Time) bool {
	if user == nil {
		return true
	}

	if user.SubscriptionStatus.Paid() {
		return false
	}

	if user.SubscriptionStatus == model.StatusTrial &&
		user.TrialExpiresAt != nil &&
		now.Before(*user.TrialExpiresAt) {
		return false
	}

	return true
}

// TrialDaysLeft returns the whole days remaining on the trial, never
// negative. Zero for non-trial users.
func TrialDaysLeft(user *model.User, now time.Time) int {
	if user == nil || user.SubscriptionStatus != model.StatusTrial || user.TrialExpiresAt == nil {
		return 0
	}
	left := user.TrialExpiresAt.Sub(now)
	if left <= 0 {
		return 0
	}
	days := int(left.Hours() / 24)
	if left.Hours() > float64(days)*24 {
		days++ // round up partial days, matching the dashboard countdown
	}
	return days
}
