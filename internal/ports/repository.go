package ports

import (
	"context"

	"stocksync-core-layer/internal/domain"
)

// IntegrationRepository defines the interface for integration persistence.
type IntegrationRepository interface {
	// Create creates a new integration row.
	Create(ctx context.Context, integration *domain.Integration) error

	// GetByIDAndCompany retrieves an integration scoped by both id and
	// owning company. Returns (nil, nil) when absent.
	GetByIDAndCompany(ctx context.Context, id, companyID string) (*domain.Integration, error)

	// GetByCompanyAndPlatform retrieves the company's integration for a
	// platform. Returns (nil, nil) when absent.
	GetByCompanyAndPlatform(ctx context.Context, companyID string, platform domain.Platform) (*domain.Integration, error)

	// ListByCompany retrieves all integrations owned by a company.
	ListByCompany(ctx context.Context, companyID string) ([]*domain.Integration, error)

	// BeginSync atomically transitions the integration into the syncing
	// state and stamps last_sync_at, but only if no sync is currently in
	// flight. Returns false when the conditional update matched nothing
	// because the status was already a syncing value.
	BeginSync(ctx context.Context, id, companyID string) (bool, error)

	// SetStatus updates sync_status while a sync is in flight (phase
	// sub-states). Terminal statuses go through FinishSync.
	SetStatus(ctx context.Context, id string, status domain.SyncStatus) error

	// FinishSync writes the terminal status and stamps last_sync_at.
	FinishSync(ctx context.Context, id string, status domain.SyncStatus) error

	// Update persists mutable connection fields (shop domain/name,
	// is_active) of an existing integration.
	Update(ctx context.Context, integration *domain.Integration) error

	// Delete removes an integration owned by the company.
	Delete(ctx context.Context, id, companyID string) error
}

// InventoryRepository persists inventory rows produced by product syncs.
type InventoryRepository interface {
	// UpsertBatch writes a page of items keyed on (company_id,
	// source_platform, external_variant_id) and returns how many were
	// written.
	UpsertBatch(ctx context.Context, items []*domain.InventoryItem) (int, error)
}

// OrderRepository persists vendor orders.
type OrderRepository interface {
	// RecordOrder writes one order and its embedded line items and
	// customer snapshot atomically, keyed on (company_id,
	// external_order_id). Re-recording the same order is an update.
	RecordOrder(ctx context.Context, order *domain.Order) error
}

// SyncLogRepository maintains the append-only sync audit trail.
type SyncLogRepository interface {
	Start(ctx context.Context, integrationID string, syncType domain.SyncType) (string, error)
	Complete(ctx context.Context, id string, recordsSynced int) error
	Fail(ctx context.Context, id string, recordsSynced int, errorMessage string) error
}

// SyncStateRepository persists pagination checkpoints per
// (integration, sync-type).
type SyncStateRepository interface {
	// Get returns the checkpoint, or (nil, nil) when the previous run of
	// this sync-type completed cleanly.
	Get(ctx context.Context, integrationID string, syncType domain.SyncType) (*domain.SyncState, error)

	// Save upserts the cursor for the next unprocessed page.
	Save(ctx context.Context, state *domain.SyncState) error

	// Clear deletes the checkpoint; called exactly once, on clean
	// completion. Clearing an absent checkpoint is a no-op.
	Clear(ctx context.Context, integrationID string, syncType domain.SyncType) error
}
