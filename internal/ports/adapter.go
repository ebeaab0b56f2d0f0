package ports

import (
	"context"
	"time"

	"stocksync-core-layer/internal/domain"
)

// PlatformAdapter is the common capability every connected platform
// implements. Adapters are looked up in a registry by platform value;
// adding a platform means registering a new implementation.
//
// Both phases page through the vendor API with a fixed inter-request
// delay, checkpoint the continuation cursor after every page, and
// return the number of records written alongside any error. A returned
// error aborts the phase but leaves the checkpoint in place so the next
// attempt resumes rather than restarts.
type PlatformAdapter interface {
	Platform() domain.Platform
	SyncProducts(ctx context.Context, integration *domain.Integration) (int, error)
	SyncOrders(ctx context.Context, integration *domain.Integration) (int, error)
}

// CacheInvalidator drops cached company-scoped aggregates after a
// successful sync. Failures are sync failures: stale dashboards are a
// correctness defect, not an acceptable degradation.
type CacheInvalidator interface {
	InvalidateCompany(ctx context.Context, companyID string) error
}

// ViewRefresher rebuilds the materialized analytics views that back
// downstream queries.
type ViewRefresher interface {
	RefreshCompany(ctx context.Context, companyID string) error
}

// SyncMetrics records sync observability counters.
type SyncMetrics interface {
	ObserveSync(platform domain.Platform, result string, duration time.Duration)
	AddRecords(platform domain.Platform, syncType domain.SyncType, count int)
}
