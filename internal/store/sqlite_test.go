package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commcap/prospector/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func trialUser(email string) *model.User {
	expires := time.Now().UTC().Add(72 * time.Hour).Truncate(time.Second)
	return &model.User{
		Email:              email,
		BrokerName:         "Pat Doyle",
		Company:            "Doyle Capital",
		Phone:              "555-0100",
		SubscriptionStatus: model.StatusTrial,
		TrialExpiresAt:     &expires,
		MonthlySearchLimit: 25,
	}
}

func TestSQLite_UpsertAndGet(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	u := trialUser("pat@doyle.capital")
	require.NoError(t, st.UpsertUser(ctx, u))
	assert.NotEmpty(t, u.ID)

	got, err := st.GetUserByEmail(ctx, "pat@doyle.capital")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "Pat Doyle", got.BrokerName)
	assert.Equal(t, model.StatusTrial, got.SubscriptionStatus)
	require.NotNil(t, got.TrialExpiresAt)
	assert.WithinDuration(t, *u.TrialExpiresAt, *got.TrialExpiresAt, time.Second)
	assert.Equal(t, 25, got.MonthlySearchLimit)
}

func TestSQLite_GetUser_Missing(t *testing.T) {
	st := newTestSQLiteStore(t)

	got, err := st.GetUserByEmail(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLite_Upsert_UpdatesExisting(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	u := trialUser("pat@doyle.capital")
	require.NoError(t, st.UpsertUser(ctx, u))
	firstID := u.ID

	u2 := trialUser("pat@doyle.capital")
	u2.Company = "Doyle Equipment Finance"
	u2.SubscriptionStatus = model.StatusPro
	require.NoError(t, st.UpsertUser(ctx, u2))

	got, err := st.GetUserByEmail(ctx, "pat@doyle.capital")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, firstID, got.ID, "upsert must not change the row identity")
	assert.Equal(t, "Doyle Equipment Finance", got.Company)
	assert.Equal(t, model.StatusPro, got.SubscriptionStatus)
}

func TestSQLite_ApplyCheckout(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, st.UpsertUser(ctx, trialUser("pat@doyle.capital")))
	require.NoError(t, st.ApplyCheckout(ctx, "pat@doyle.capital", "cus_123", "sub_456"))

	got, err := st.GetUserByEmail(ctx, "pat@doyle.capital")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "cus_123", got.StripeCustomerID)
	assert.Equal(t, "sub_456", got.StripeSubscriptionID)
	assert.Equal(t, model.StatusActive, got.SubscriptionStatus)
}

func TestSQLite_ApplyCheckout_UnknownEmail(t *testing.T) {
	st := newTestSQLiteStore(t)

	err := st.ApplyCheckout(context.Background(), "ghost@example.com", "cus_1", "sub_1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user not found")
}

func TestSQLite_IncrementSearches(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, st.UpsertUser(ctx, trialUser("pat@doyle.capital")))

	require.NoError(t, st.IncrementSearches(ctx, "pat@doyle.capital"))
	require.NoError(t, st.IncrementSearches(ctx, "pat@doyle.capital"))

	got, err := st.GetUserByEmail(ctx, "pat@doyle.capital")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 2, got.MonthlySearchesUsed)
}

func TestSQLite_IncrementSearches_UnknownEmail(t *testing.T) {
	st := newTestSQLiteStore(t)

	err := st.IncrementSearches(context.Background(), "ghost@example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user not found")
}
