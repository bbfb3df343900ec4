package access

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/commcap/prospector/internal/model"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func trialUser(expires time.Time) *model.User {
	return &model.User{
		Email:              "broker@example.com",
		SubscriptionStatus: model.StatusTrial,
		TrialExpiresAt:     &expires,
	}
}

func TestBlocked_ActiveSubscription(t *testing.T) {
	u := &model.User{SubscriptionStatus: model.StatusActive}
	assert.False(t, Blocked(u, now))
}

func TestBlocked_PaidPlanStatuses(t *testing.T) {
	for _, status := range []model.SubscriptionStatus{model.StatusStarter, model.StatusPro} {
		u := &model.User{SubscriptionStatus: status}
		assert.False(t, Blocked(u, now), "status %s", status)
	}
}

func TestBlocked_LiveTrial(t *testing.T) {
	u := trialUser(now.Add(48 * time.Hour))
	assert.False(t, Blocked(u, now))
}

func TestBlocked_LiveTrialWithoutStripeIDs(t *testing.T) {
	u := trialUser(now.Add(time.Hour))
	u.StripeCustomerID = ""
	u.StripeSubscriptionID = ""
	assert.False(t, Blocked(u, now))
}

func TestBlocked_ExpiredTrial(t *testing.T) {
	u := trialUser(now.Add(-time.Minute))
	assert.True(t, Blocked(u, now))
}

func TestBlocked_TrialWithoutExpiry(t *testing.T) {
	u := &model.User{SubscriptionStatus: model.StatusTrial}
	assert.True(t, Blocked(u, now))
}

func TestBlocked_Inactive(t *testing.T) {
	u := &model.User{SubscriptionStatus: model.StatusInactive}
	assert.True(t, Blocked(u, now))
}

func TestBlocked_NilUser(t *testing.T) {
	assert.True(t, Blocked(nil, now))
}

func TestTrialDaysLeft(t *testing.T) {
	assert.Equal(t, 3, TrialDaysLeft(trialUser(now.Add(72*time.Hour)), now))
	assert.Equal(t, 2, TrialDaysLeft(trialUser(now.Add(30*time.Hour)), now))
	assert.Equal(t, 0, TrialDaysLeft(trialUser(now.Add(-time.Hour)), now))
	assert.Equal(t, 0, TrialDaysLeft(&model.User{SubscriptionStatus: model.StatusActive}, now))
	assert.Equal(t, 0, TrialDaysLeft(nil, now))
}
