package adapters

import (
	"context"
	"fmt"
	"time"

	"stocksync-core-layer/internal/domain"
	"stocksync-core-layer/internal/ports"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	// defaultPageDelay is the fixed wait between vendor page fetches.
	// This is a vendor requirement, not tuning: repeated rate-limit
	// violations get an integration suspended.
	defaultPageDelay = 500 * time.Millisecond

	// defaultMaxPages bounds a single phase so a malformed continuation
	// link can never loop a sync forever.
	defaultMaxPages = 500
)

// Deps are the collaborators every platform adapter shares.
type Deps struct {
	Secrets   ports.SecretStore
	Inventory ports.InventoryRepository
	Orders    ports.OrderRepository
	SyncState ports.SyncStateRepository
	Logger    zerolog.Logger
}

// sleepFunc is injectable so tests run the paging loop without real delays.
type sleepFunc func(ctx context.Context, d time.Duration) error

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// loadCursor returns the checkpoint cursor for (integration, sync-type),
// or "" when the previous run completed cleanly and the phase starts
// from the beginning.
func loadCursor(ctx context.Context, repo ports.SyncStateRepository, integrationID string, syncType domain.SyncType) (string, error) {
	state, err := repo.Get(ctx, integrationID, syncType)
	if err != nil {
		return "", fmt.Errorf("failed to load %s checkpoint: %w", syncType, err)
	}
	if state == nil {
		return "", nil
	}
	return state.Cursor, nil
}

func saveCursor(ctx context.Context, repo ports.SyncStateRepository, integrationID string, syncType domain.SyncType, cursor string) error {
	err := repo.Save(ctx, &domain.SyncState{
		IntegrationID: integrationID,
		SyncType:      syncType,
		Cursor:        cursor,
	})
	if err != nil {
		return fmt.Errorf("failed to save %s checkpoint: %w", syncType, err)
	}
	return nil
}

// centsFromDecimal converts a vendor decimal price to integer cents.
func centsFromDecimal(d *decimal.Decimal) int64 {
	if d == nil {
		return 0
	}
	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// centsFromString converts a vendor price string ("9.99") to cents.
// Blank or malformed prices map to zero rather than failing the record.
func centsFromString(s string) int64 {
	if s == "" {
		return 0
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// parseVendorTime handles the timestamp formats the vendors emit. Woo
// omits the timezone suffix on store-local timestamps.
func parseVendorTime(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
