package metrics

import (
	"time"

	"stocksync-core-layer/internal/domain"
	"stocksync-core-layer/internal/ports"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SyncMetrics implements ports.SyncMetrics on Prometheus collectors.
type SyncMetrics struct {
	syncsTotal    *prometheus.CounterVec
	syncDuration  *prometheus.HistogramVec
	recordsSynced *prometheus.CounterVec
}

// NewSyncMetrics registers the sync collectors on the default registry.
func NewSyncMetrics() *SyncMetrics {
	return &SyncMetrics{
		syncsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "stocksync_syncs_total",
			Help: "Sync runs by platform and terminal result.",
		}, []string{"platform", "result"}),
		syncDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "stocksync_sync_duration_seconds",
			Help:    "Wall-clock duration of full sync runs.",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 12),
		}, []string{"platform"}),
		recordsSynced: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "stocksync_records_synced_total",
			Help: "Records written to the destination schema.",
		}, []string{"platform", "sync_type"}),
	}
}

// ObserveSync records one finished sync run.
func (m *SyncMetrics) ObserveSync(platform domain.Platform, result string, duration time.Duration) {
	m.syncsTotal.WithLabelValues(string(platform), result).Inc()
	m.syncDuration.WithLabelValues(string(platform)).Observe(duration.Seconds())
}

// AddRecords counts records written during one phase.
func (m *SyncMetrics) AddRecords(platform domain.Platform, syncType domain.SyncType, count int) {
	m.recordsSynced.WithLabelValues(string(platform), string(syncType)).Add(float64(count))
}

var _ ports.SyncMetrics = (*SyncMetrics)(nil)
