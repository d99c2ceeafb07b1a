package userdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hansonchs/portfolio-tracker/internal/common"
	"github.com/hansonchs/portfolio-tracker/internal/interfaces"
	"github.com/hansonchs/portfolio-tracker/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(common.NewSilentLogger(), t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestPositionRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	pos := &models.Position{
		UserID:   "default",
		Ticker:   "AAPL",
		Market:   models.MarketUS,
		Kind:     models.KindStock,
		Quantity: 10,
		AvgCost:  100,
	}
	require.NoError(t, store.SavePosition(ctx, pos))
	assert.NotEmpty(t, pos.ID)

	got, err := store.GetPosition(ctx, "default", pos.ID)
	require.NoError(t, err)
	assert.Equal(t, "AAPL", got.Ticker)
	assert.Equal(t, 10.0, got.Quantity)

	// Positions are invisible outside their user scope.
	_, err = store.GetPosition(ctx, "someone-else", pos.ID)
	assert.Error(t, err)

	require.NoError(t, store.DeletePosition(ctx, "default", pos.ID))
	_, err = store.GetPosition(ctx, "default", pos.ID)
	assert.Error(t, err)
}

func TestListPositionsScopedByUser(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, ticker := range []string{"0700", "AAPL"} {
		require.NoError(t, store.SavePosition(ctx, &models.Position{
			UserID: "alice", Ticker: ticker, Market: models.MarketUS,
			Kind: models.KindStock, Quantity: 1, AvgCost: 1,
		}))
	}
	require.NoError(t, store.SavePosition(ctx, &models.Position{
		UserID: "bob", Ticker: "MSFT", Market: models.MarketUS,
		Kind: models.KindStock, Quantity: 1, AvgCost: 1,
	}))

	alice, err := store.ListPositions(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, alice, 2)

	bob, err := store.ListPositions(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, bob, 1)
	assert.Equal(t, "MSFT", bob[0].Ticker)
}

func TestEnsureAccountIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first, err := store.EnsureAccount(ctx, "default", interfaces.AccountCriteria{Name: "Portfolio", Currency: "HKD"})
	require.NoError(t, err)
	assert.Equal(t, "Portfolio", first.Name)
	assert.Equal(t, "HKD", first.Currency)

	second, err := store.EnsureAccount(ctx, "default", interfaces.AccountCriteria{Name: "Portfolio", Currency: "HKD"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	accounts, err := store.ListAccounts(ctx, "default")
	require.NoError(t, err)
	assert.Len(t, accounts, 1)
}

func TestEnsureAccountByCurrency(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	usd := &models.Account{UserID: "default", Name: "WeBull", Currency: "USD"}
	require.NoError(t, store.SaveAccount(ctx, usd))

	// Currency-only criteria finds the existing USD account.
	found, err := store.EnsureAccount(ctx, "default", interfaces.AccountCriteria{Currency: "USD"})
	require.NoError(t, err)
	assert.Equal(t, usd.ID, found.ID)

	// No HKD account exists yet; one is created with the default name.
	created, err := store.EnsureAccount(ctx, "default", interfaces.AccountCriteria{Currency: "HKD"})
	require.NoError(t, err)
	assert.NotEqual(t, usd.ID, created.ID)
	assert.Equal(t, "Portfolio", created.Name)
	assert.Equal(t, "HKD", created.Currency)
}

func TestGetOrCreateSettings(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	settings, err := store.GetOrCreateSettings(ctx, "default")
	require.NoError(t, err)
	assert.Equal(t, float64(models.DefaultAlertThreshold), settings.AlertThreshold)
	assert.Empty(t, settings.Targets)

	settings.AlertThreshold = 25
	settings.Targets.Set("AAPL", 60)
	require.NoError(t, store.SaveSettings(ctx, settings))

	// Second call returns the stored row, not fresh defaults.
	again, err := store.GetOrCreateSettings(ctx, "default")
	require.NoError(t, err)
	assert.Equal(t, 25.0, again.AlertThreshold)
	pct, ok := again.Targets.Get("AAPL")
	require.True(t, ok)
	assert.Equal(t, 60.0, pct)

	// Settings are per user.
	other, err := store.GetOrCreateSettings(ctx, "other")
	require.NoError(t, err)
	assert.Equal(t, float64(models.DefaultAlertThreshold), other.AlertThreshold)
}
