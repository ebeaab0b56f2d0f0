package adapters

import (
	"context"
	"fmt"
	"time"

	"stocksync-core-layer/internal/domain"
	"stocksync-core-layer/internal/ports"

	"github.com/rs/zerolog"
)

// fakeSecretStore serves plaintext blobs keyed (companyID, platform).
type fakeSecretStore struct {
	secrets map[string]string
	err     error
}

func newFakeSecretStore() *fakeSecretStore {
	return &fakeSecretStore{secrets: make(map[string]string)}
}

func (f *fakeSecretStore) set(companyID string, platform domain.Platform, plaintext string) {
	f.secrets[domain.SecretName(companyID, platform)] = plaintext
}

func (f *fakeSecretStore) CreateOrUpdateSecret(_ context.Context, companyID string, platform domain.Platform, plaintext string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.secrets[domain.SecretName(companyID, platform)] = plaintext
	return "secret-id", nil
}

func (f *fakeSecretStore) GetSecret(_ context.Context, companyID string, platform domain.Platform) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.secrets[domain.SecretName(companyID, platform)], nil
}

func (f *fakeSecretStore) DeleteSecret(_ context.Context, companyID string, platform domain.Platform) error {
	delete(f.secrets, domain.SecretName(companyID, platform))
	return f.err
}

// fakeInventoryRepo keys items the way the mongo repository does, so a
// repeat sync overwrites instead of appending.
type fakeInventoryRepo struct {
	items   map[string]*domain.InventoryItem
	batches int
	err     error
}

func newFakeInventoryRepo() *fakeInventoryRepo {
	return &fakeInventoryRepo{items: make(map[string]*domain.InventoryItem)}
}

func (f *fakeInventoryRepo) UpsertBatch(_ context.Context, items []*domain.InventoryItem) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.batches++
	for _, it := range items {
		key := fmt.Sprintf("%s/%s/%s", it.CompanyID, it.SourcePlatform, it.ExternalVariantID)
		f.items[key] = it
	}
	return len(items), nil
}

func (f *fakeInventoryRepo) bySKU(sku string) *domain.InventoryItem {
	for _, it := range f.items {
		if it.SKU == sku {
			return it
		}
	}
	return nil
}

// fakeOrderRepo records orders keyed (companyID, externalOrderID) and
// can be told to reject specific external order ids.
type fakeOrderRepo struct {
	orders  map[string]*domain.Order
	failIDs map[string]bool
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[string]*domain.Order), failIDs: make(map[string]bool)}
}

func (f *fakeOrderRepo) RecordOrder(_ context.Context, order *domain.Order) error {
	if f.failIDs[order.ExternalOrderID] {
		return fmt.Errorf("write failed for order %s", order.ExternalOrderID)
	}
	f.orders[order.CompanyID+"/"+order.ExternalOrderID] = order
	return nil
}

// fakeSyncStateRepo is an in-memory checkpoint store.
type fakeSyncStateRepo struct {
	states map[string]*domain.SyncState
	err    error
}

func newFakeSyncStateRepo() *fakeSyncStateRepo {
	return &fakeSyncStateRepo{states: make(map[string]*domain.SyncState)}
}

func stateKey(integrationID string, syncType domain.SyncType) string {
	return integrationID + "/" + string(syncType)
}

func (f *fakeSyncStateRepo) Get(_ context.Context, integrationID string, syncType domain.SyncType) (*domain.SyncState, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.states[stateKey(integrationID, syncType)], nil
}

func (f *fakeSyncStateRepo) Save(_ context.Context, state *domain.SyncState) error {
	if f.err != nil {
		return f.err
	}
	f.states[stateKey(state.IntegrationID, state.SyncType)] = state
	return nil
}

func (f *fakeSyncStateRepo) Clear(_ context.Context, integrationID string, syncType domain.SyncType) error {
	delete(f.states, stateKey(integrationID, syncType))
	return f.err
}

func (f *fakeSyncStateRepo) cursor(integrationID string, syncType domain.SyncType) string {
	if s := f.states[stateKey(integrationID, syncType)]; s != nil {
		return s.Cursor
	}
	return ""
}

type testEnv struct {
	secrets   *fakeSecretStore
	inventory *fakeInventoryRepo
	orders    *fakeOrderRepo
	syncState *fakeSyncStateRepo
}

func newTestEnv() *testEnv {
	return &testEnv{
		secrets:   newFakeSecretStore(),
		inventory: newFakeInventoryRepo(),
		orders:    newFakeOrderRepo(),
		syncState: newFakeSyncStateRepo(),
	}
}

func (e *testEnv) deps() Deps {
	return Deps{
		Secrets:   e.secrets,
		Inventory: e.inventory,
		Orders:    e.orders,
		SyncState: e.syncState,
		Logger:    zerolog.Nop(),
	}
}

func noSleep(_ context.Context, _ time.Duration) error { return nil }

func testIntegration(platform domain.Platform) *domain.Integration {
	return &domain.Integration{
		ID:         "int-1",
		CompanyID:  "co-1",
		Platform:   platform,
		ShopDomain: "demo-store.example.com",
		ShopName:   "Demo Store",
		IsActive:   true,
		SyncStatus: domain.SyncStatusIdle,
	}
}

var _ ports.SecretStore = (*fakeSecretStore)(nil)
var _ ports.InventoryRepository = (*fakeInventoryRepo)(nil)
var _ ports.OrderRepository = (*fakeOrderRepo)(nil)
var _ ports.SyncStateRepository = (*fakeSyncStateRepo)(nil)
