package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stocksync-core-layer/internal/domain"
	"stocksync-core-layer/internal/ports"

	"github.com/rs/zerolog"
)

const (
	// maxSyncAttempts caps the retry loop per trigger.
	maxSyncAttempts = 3

	// backoffBase scales the exponential retry delay: 2^attempt * base
	// gives 4s after the first failure and 8s after the second.
	backoffBase = 2 * time.Second
)

// Dispatcher is the platform-agnostic sync orchestrator. It owns every
// integration status transition: adapters below it never write a
// terminal status, so there is exactly one code path deciding final
// state.
type Dispatcher struct {
	integrations ports.IntegrationRepository
	syncLogs     ports.SyncLogRepository
	adapters     map[domain.Platform]ports.PlatformAdapter
	cache        ports.CacheInvalidator
	views        ports.ViewRefresher
	metrics      ports.SyncMetrics
	logger       zerolog.Logger

	maxAttempts int
	backoffBase time.Duration
	sleep       func(ctx context.Context, d time.Duration) error
}

// NewDispatcher creates a sync dispatcher. Adapters are added with
// Register; platforms without a registered adapter fail fast.
func NewDispatcher(
	integrations ports.IntegrationRepository,
	syncLogs ports.SyncLogRepository,
	cache ports.CacheInvalidator,
	views ports.ViewRefresher,
	metrics ports.SyncMetrics,
	logger zerolog.Logger,
) *Dispatcher {
	return &Dispatcher{
		integrations: integrations,
		syncLogs:     syncLogs,
		adapters:     make(map[domain.Platform]ports.PlatformAdapter),
		cache:        cache,
		views:        views,
		metrics:      metrics,
		logger:       logger,
		maxAttempts:  maxSyncAttempts,
		backoffBase:  backoffBase,
		sleep: func(ctx context.Context, d time.Duration) error {
			t := time.NewTimer(d)
			defer t.Stop()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-t.C:
				return nil
			}
		},
	}
}

// Register adds a platform adapter to the dispatch registry.
func (d *Dispatcher) Register(adapter ports.PlatformAdapter) {
	d.adapters[adapter.Platform()] = adapter
}

// RunSync executes a full sync for one integration, owned by companyID.
//
// A duplicate trigger while a sync is in flight is a silent no-op: the
// claim on the integration row is a conditional update, so of two
// near-simultaneous triggers exactly one proceeds. Failures are retried
// with exponential backoff up to the attempt cap; pagination
// checkpoints survive between attempts, so a retry resumes where the
// failed attempt stopped rather than starting over.
func (d *Dispatcher) RunSync(ctx context.Context, integrationID, companyID string) error {
	integration, err := d.integrations.GetByIDAndCompany(ctx, integrationID, companyID)
	if err != nil {
		return fmt.Errorf("failed to load integration: %w", err)
	}
	if integration == nil {
		return domain.ErrNotFoundOrForbidden
	}

	claimed, err := d.integrations.BeginSync(ctx, integrationID, companyID)
	if err != nil {
		return fmt.Errorf("failed to claim integration for sync: %w", err)
	}
	if !claimed {
		d.logger.Info().
			Str("integrationId", integrationID).
			Str("status", string(integration.SyncStatus)).
			Msg("Sync already in progress, ignoring duplicate trigger")
		return nil
	}

	start := time.Now()
	err = d.runWithRetries(ctx, integration)
	result := "success"
	if err != nil {
		result = "failed"
	}
	if d.metrics != nil {
		d.metrics.ObserveSync(integration.Platform, result, time.Since(start))
	}
	return err
}

func (d *Dispatcher) runWithRetries(ctx context.Context, integration *domain.Integration) error {
	adapter, ok := d.adapters[integration.Platform]
	if !ok {
		if err := d.integrations.FinishSync(ctx, integration.ID, domain.SyncStatusFailed); err != nil {
			d.logger.Error().Err(err).Str("integrationId", integration.ID).Msg("Failed to write terminal status")
		}
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedPlatform, integration.Platform)
	}

	var lastErr error
	for attempt := 1; attempt <= d.maxAttempts; attempt++ {
		lastErr = d.runFullSync(ctx, integration, adapter)
		if lastErr == nil {
			if err := d.integrations.FinishSync(ctx, integration.ID, domain.SyncStatusSuccess); err != nil {
				return fmt.Errorf("failed to write terminal status: %w", err)
			}
			d.logger.Info().
				Str("integrationId", integration.ID).
				Str("platform", string(integration.Platform)).
				Int("attempt", attempt).
				Msg("Sync completed")
			return nil
		}

		if isConfigError(lastErr) {
			break
		}
		if attempt < d.maxAttempts {
			delay := (1 << attempt) * d.backoffBase
			d.logger.Warn().
				Err(lastErr).
				Str("integrationId", integration.ID).
				Int("attempt", attempt).
				Dur("backoff", delay).
				Msg("Sync attempt failed, retrying")
			if err := d.sleep(ctx, delay); err != nil {
				lastErr = err
				break
			}
		}
	}

	if err := d.integrations.FinishSync(ctx, integration.ID, domain.SyncStatusFailed); err != nil {
		d.logger.Error().Err(err).Str("integrationId", integration.ID).Msg("Failed to write terminal status")
	}
	d.logger.Error().
		Err(lastErr).
		Str("integrationId", integration.ID).
		Str("platform", string(integration.Platform)).
		Msg("Sync failed")
	return lastErr
}

// isConfigError reports errors that no amount of retrying will fix.
func isConfigError(err error) bool {
	return errors.Is(err, domain.ErrNoCredentials) ||
		errors.Is(err, domain.ErrVaultUnavailable) ||
		errors.Is(err, domain.ErrUnsupportedPlatform)
}

// runFullSync drives both phases in order. Products always complete
// before sales start, because order recording looks up product SKUs for
// cost data. After a clean data sync the cached aggregates are dropped
// and the materialized views rebuilt; a failure there fails the sync,
// because succeeding at the data layer while leaving stale dashboards
// is not success.
func (d *Dispatcher) runFullSync(ctx context.Context, integration *domain.Integration, adapter ports.PlatformAdapter) error {
	if err := d.runPhase(ctx, integration, domain.SyncTypeProducts, domain.SyncStatusSyncingProducts, adapter.SyncProducts); err != nil {
		return err
	}
	if err := d.runPhase(ctx, integration, domain.SyncTypeSales, domain.SyncStatusSyncingSales, adapter.SyncOrders); err != nil {
		return err
	}

	if err := d.cache.InvalidateCompany(ctx, integration.CompanyID); err != nil {
		return fmt.Errorf("cache invalidation after sync: %w", err)
	}
	if err := d.views.RefreshCompany(ctx, integration.CompanyID); err != nil {
		return fmt.Errorf("view refresh after sync: %w", err)
	}
	return nil
}

// runPhase brackets one sync-type with its status sub-state and its
// audit log row.
func (d *Dispatcher) runPhase(
	ctx context.Context,
	integration *domain.Integration,
	syncType domain.SyncType,
	status domain.SyncStatus,
	run func(ctx context.Context, integration *domain.Integration) (int, error),
) error {
	if err := d.integrations.SetStatus(ctx, integration.ID, status); err != nil {
		return fmt.Errorf("failed to set %s status: %w", status, err)
	}

	logID, err := d.syncLogs.Start(ctx, integration.ID, syncType)
	if err != nil {
		return fmt.Errorf("failed to open sync log: %w", err)
	}

	records, err := run(ctx, integration)
	if d.metrics != nil && records > 0 {
		d.metrics.AddRecords(integration.Platform, syncType, records)
	}
	if err != nil {
		if logErr := d.syncLogs.Fail(ctx, logID, records, err.Error()); logErr != nil {
			d.logger.Error().Err(logErr).Str("syncLogId", logID).Msg("Failed to close sync log")
		}
		return fmt.Errorf("%s sync: %w", syncType, err)
	}

	if err := d.syncLogs.Complete(ctx, logID, records); err != nil {
		return fmt.Errorf("failed to close sync log: %w", err)
	}
	return nil
}
