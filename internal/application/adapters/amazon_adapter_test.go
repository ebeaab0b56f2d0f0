package adapters

import (
	"context"
	"testing"

	"stocksync-core-layer/internal/domain"
	"stocksync-core-layer/internal/infrastructure/amazon"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amazonCreds(env *testEnv) {
	env.secrets.set("co-1", domain.PlatformAmazonFBA, `{"seller_id":"A1SELLER","auth_token":"amzn.mws.token"}`)
}

func TestAmazonAdapter_SyncProducts_FullCatalog(t *testing.T) {
	env := newTestEnv()
	amazonCreds(env)

	adapter := NewAmazonAdapterWithOptions(amazon.NewSimulatedSource(), env.deps(), 0, 10)
	adapter.sleep = noSleep

	total, err := adapter.SyncProducts(context.Background(), testIntegration(domain.PlatformAmazonFBA))
	require.NoError(t, err)
	assert.Equal(t, 25, total)
	assert.Equal(t, 3, env.inventory.batches, "25 listings at page size 10 is three pages")

	first := env.inventory.bySKU("FBA-SKU-001")
	require.NotNil(t, first)
	assert.Equal(t, "FBA Product 1", first.Name)
	assert.Equal(t, "B000000001", first.ExternalProductID)
	assert.Equal(t, first.ExternalProductID, first.ExternalVariantID, "listings have no variant axis")
	assert.Equal(t, int64(600), first.PriceCents)

	assert.Empty(t, env.syncState.cursor("int-1", domain.SyncTypeProducts))
}

func TestAmazonAdapter_SyncProducts_Deterministic(t *testing.T) {
	env := newTestEnv()
	amazonCreds(env)

	adapter := NewAmazonAdapterWithOptions(amazon.NewSimulatedSource(), env.deps(), 0, 10)
	adapter.sleep = noSleep
	integration := testIntegration(domain.PlatformAmazonFBA)

	_, err := adapter.SyncProducts(context.Background(), integration)
	require.NoError(t, err)
	firstRun := len(env.inventory.items)

	_, err = adapter.SyncProducts(context.Background(), integration)
	require.NoError(t, err)
	assert.Equal(t, firstRun, len(env.inventory.items), "repeat sync must update in place, not duplicate")
}

func TestAmazonAdapter_SyncOrders_FullHistory(t *testing.T) {
	env := newTestEnv()
	amazonCreds(env)

	adapter := NewAmazonAdapterWithOptions(amazon.NewSimulatedSource(), env.deps(), 0, 10)
	adapter.sleep = noSleep

	synced, err := adapter.SyncOrders(context.Background(), testIntegration(domain.PlatformAmazonFBA))
	require.NoError(t, err)
	assert.Equal(t, 15, synced)
	assert.Len(t, env.orders.orders, 15)

	for _, o := range env.orders.orders {
		assert.Equal(t, domain.PlatformAmazonFBA, o.SourcePlatform)
		assert.Equal(t, "USD", o.Currency)
		assert.False(t, o.PlacedAt.IsZero())
		require.Len(t, o.LineItems, 2)

		var sum int64
		for _, li := range o.LineItems {
			sum += li.PriceCents * int64(li.Quantity)
		}
		assert.Equal(t, o.TotalCents, sum, "order total must equal the sum of its lines")
	}
}

func TestAmazonAdapter_MissingCredentials(t *testing.T) {
	env := newTestEnv()
	adapter := NewAmazonAdapterWithOptions(amazon.NewSimulatedSource(), env.deps(), 0, 10)
	adapter.sleep = noSleep

	_, err := adapter.SyncProducts(context.Background(), testIntegration(domain.PlatformAmazonFBA))
	assert.ErrorIs(t, err, domain.ErrNoCredentials)

	env.secrets.set("co-1", domain.PlatformAmazonFBA, `{"seller_id":"A1SELLER"}`)
	_, err = adapter.SyncOrders(context.Background(), testIntegration(domain.PlatformAmazonFBA))
	assert.ErrorIs(t, err, domain.ErrNoCredentials)
}
