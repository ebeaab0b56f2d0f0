package adapters

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"stocksync-core-layer/internal/domain"
	"stocksync-core-layer/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWooClient struct {
	productPages map[int][]ports.WooProduct
	orderPages   map[int][]ports.WooOrder
	variations   map[int64][]ports.WooVariation
	lastPage     int
	failPages    map[int]bool
	calls        []string
}

func newFakeWooClient() *fakeWooClient {
	return &fakeWooClient{
		productPages: make(map[int][]ports.WooProduct),
		orderPages:   make(map[int][]ports.WooOrder),
		variations:   make(map[int64][]ports.WooVariation),
		failPages:    make(map[int]bool),
		lastPage:     1,
	}
}

func (f *fakeWooClient) FetchProducts(_ context.Context, _ ports.WooStore, page int) ([]ports.WooProduct, bool, error) {
	f.calls = append(f.calls, fmt.Sprintf("products:%d", page))
	if f.failPages[page] {
		return nil, false, fmt.Errorf("store returned 500")
	}
	return f.productPages[page], page < f.lastPage, nil
}

func (f *fakeWooClient) FetchVariations(_ context.Context, _ ports.WooStore, productID int64) ([]ports.WooVariation, error) {
	f.calls = append(f.calls, fmt.Sprintf("variations:%d", productID))
	return f.variations[productID], nil
}

func (f *fakeWooClient) FetchOrders(_ context.Context, _ ports.WooStore, page int) ([]ports.WooOrder, bool, error) {
	f.calls = append(f.calls, fmt.Sprintf("orders:%d", page))
	if f.failPages[page] {
		return nil, false, fmt.Errorf("store returned 500")
	}
	return f.orderPages[page], page < f.lastPage, nil
}

func intPtr(n int) *int { return &n }

func wooCreds(env *testEnv) {
	env.secrets.set("co-1", domain.PlatformWooCommerce, `{"consumer_key":"ck_abc","consumer_secret":"cs_def"}`)
}

func TestWooCommerceAdapter_SyncProducts_ExpandsVariations(t *testing.T) {
	env := newTestEnv()
	wooCreds(env)

	client := newFakeWooClient()
	client.productPages[1] = []ports.WooProduct{
		{
			ID: 10, Name: "Trail Shirt", Type: "variable",
			Categories: []ports.WooCategory{{ID: 1, Name: "Apparel"}},
			Variations: []int64{101, 102},
		},
		{
			ID: 20, Name: "Water Bottle", Type: "simple", SKU: "BOTTLE-1",
			Price: "4.99", StockQuantity: intPtr(40),
		},
	}
	client.variations[10] = []ports.WooVariation{
		{ID: 101, SKU: "SHIRT-S", Price: "9.99", StockQuantity: intPtr(12),
			Attributes: []struct {
				Name   string `json:"name"`
				Option string `json:"option"`
			}{{Name: "Size", Option: "Small"}}},
		{ID: 102, SKU: "", Price: "9.99", StockQuantity: nil,
			Attributes: []struct {
				Name   string `json:"name"`
				Option string `json:"option"`
			}{{Name: "Size", Option: "Medium"}}},
	}

	adapter := NewWooCommerceAdapterWithOptions(client, env.deps(), 0, 10)
	adapter.sleep = noSleep

	total, err := adapter.SyncProducts(context.Background(), testIntegration(domain.PlatformWooCommerce))
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	small := env.inventory.bySKU("SHIRT-S")
	require.NotNil(t, small)
	assert.Equal(t, "Trail Shirt - Small", small.Name)
	assert.Equal(t, int64(999), small.PriceCents)
	assert.Equal(t, 12, small.Quantity)
	assert.Equal(t, "Apparel", small.Category)
	assert.Equal(t, "10", small.ExternalProductID)
	assert.Equal(t, "101", small.ExternalVariantID)

	medium := env.inventory.bySKU("WC-102")
	require.NotNil(t, medium)
	assert.Equal(t, "Trail Shirt - Medium", medium.Name)
	assert.Equal(t, 0, medium.Quantity, "null stock quantity maps to zero")

	bottle := env.inventory.bySKU("BOTTLE-1")
	require.NotNil(t, bottle)
	assert.Equal(t, "20", bottle.ExternalVariantID, "simple products use the product id as variant id")
}

func TestWooCommerceAdapter_SyncProducts_ResumesFromPageCheckpoint(t *testing.T) {
	env := newTestEnv()
	wooCreds(env)

	client := newFakeWooClient()
	client.lastPage = 3
	for p := 1; p <= 3; p++ {
		client.productPages[p] = []ports.WooProduct{
			{ID: int64(p), Name: fmt.Sprintf("Item %d", p), Type: "simple", SKU: fmt.Sprintf("SKU-%d", p), Price: "1.00"},
		}
	}
	client.failPages[3] = true

	adapter := NewWooCommerceAdapterWithOptions(client, env.deps(), 0, 10)
	adapter.sleep = noSleep
	integration := testIntegration(domain.PlatformWooCommerce)

	_, err := adapter.SyncProducts(context.Background(), integration)
	require.Error(t, err)
	assert.Equal(t, "3", env.syncState.cursor("int-1", domain.SyncTypeProducts))

	client.failPages[3] = false
	client.calls = nil

	total, err := adapter.SyncProducts(context.Background(), integration)
	require.NoError(t, err)
	assert.Equal(t, 1, total, "retry pulls only the page that failed")
	assert.Equal(t, []string{"products:3"}, client.calls)
	assert.Empty(t, env.syncState.cursor("int-1", domain.SyncTypeProducts))
}

func TestWooCommerceAdapter_SyncOrders_PartialFailure(t *testing.T) {
	env := newTestEnv()
	wooCreds(env)
	env.orders.failIDs["502"] = true

	client := newFakeWooClient()
	client.orderPages[1] = []ports.WooOrder{
		{
			ID: 501, Number: "501", Total: "19.98", Currency: "EUR",
			DateCreated: "2026-03-14T09:30:00",
			Billing:     ports.WooBilling{FirstName: "Ana", LastName: "Ruiz", Email: "ana@example.com"},
			LineItems: []ports.WooLineItem{
				{Name: "Trail Shirt - Small", SKU: "SHIRT-S", Quantity: 2, Total: "19.98", VariationID: 101, ProductID: 10},
			},
		},
		{ID: 502, Number: "502", Total: "4.99", Currency: "EUR"},
		{ID: 503, Number: "503", Total: "4.99", Currency: "EUR",
			LineItems: []ports.WooLineItem{
				{Name: "Water Bottle", SKU: "BOTTLE-1", Quantity: 1, Total: "4.99", ProductID: 20},
			}},
	}

	adapter := NewWooCommerceAdapterWithOptions(client, env.deps(), 0, 10)
	adapter.sleep = noSleep

	synced, err := adapter.SyncOrders(context.Background(), testIntegration(domain.PlatformWooCommerce))
	require.Error(t, err)

	var partial *domain.PartialSyncError
	require.True(t, errors.As(err, &partial))
	assert.Equal(t, 2, partial.Synced)
	assert.Equal(t, 1, partial.Failed)
	assert.Equal(t, 2, synced)

	recorded := env.orders.orders["co-1/501"]
	require.NotNil(t, recorded)
	assert.Equal(t, "Ana Ruiz", recorded.CustomerName)
	assert.Equal(t, int64(1998), recorded.TotalCents)
	assert.False(t, recorded.PlacedAt.IsZero(), "store-local timestamp without zone must still parse")
	require.Len(t, recorded.LineItems, 1)
	assert.Equal(t, int64(999), recorded.LineItems[0].PriceCents, "unit price is line total over quantity")
	assert.Equal(t, "101", recorded.LineItems[0].ExternalVariantID)

	simple := env.orders.orders["co-1/503"]
	require.NotNil(t, simple)
	assert.Equal(t, "20", simple.LineItems[0].ExternalVariantID, "lines without a variation fall back to the product id")
}

func TestWooCommerceAdapter_MissingCredentials(t *testing.T) {
	env := newTestEnv()
	adapter := NewWooCommerceAdapterWithOptions(newFakeWooClient(), env.deps(), 0, 10)
	adapter.sleep = noSleep

	_, err := adapter.SyncProducts(context.Background(), testIntegration(domain.PlatformWooCommerce))
	assert.ErrorIs(t, err, domain.ErrNoCredentials)

	env.secrets.set("co-1", domain.PlatformWooCommerce, `{"consumer_key":"ck_abc"}`)
	_, err = adapter.SyncOrders(context.Background(), testIntegration(domain.PlatformWooCommerce))
	assert.ErrorIs(t, err, domain.ErrNoCredentials)
}
