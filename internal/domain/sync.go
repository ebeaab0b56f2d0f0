package domain

import "time"

// SyncType distinguishes the two phases of a full sync.
type SyncType string

const (
	SyncTypeProducts SyncType = "products"
	SyncTypeSales    SyncType = "sales"
)

// SyncLogStatus is the status of a single sync attempt record.
type SyncLogStatus string

const (
	SyncLogStarted   SyncLogStatus = "started"
	SyncLogCompleted SyncLogStatus = "completed"
	SyncLogFailed    SyncLogStatus = "failed"
)

// SyncLog is one row of the append-only sync audit trail. A log is
// never mutated after completion except to set its terminal status.
type SyncLog struct {
	ID            string        `json:"id"`
	IntegrationID string        `json:"integration_id"`
	SyncType      SyncType      `json:"sync_type"`
	Status        SyncLogStatus `json:"status"`
	RecordsSynced int           `json:"records_synced"`
	ErrorMessage  string        `json:"error_message,omitempty"`
	StartedAt     time.Time     `json:"started_at"`
	CompletedAt   *time.Time    `json:"completed_at,omitempty"`
}

// SyncState holds the pagination checkpoint for one (integration,
// sync-type) pair. The presence of a row means that sync-type did not
// reach completion; it is deleted exactly when the phase completes
// without error, so an interrupted pull resumes instead of restarting.
type SyncState struct {
	IntegrationID string    `json:"integration_id"`
	SyncType      SyncType  `json:"sync_type"`
	Cursor        string    `json:"cursor"`
	UpdatedAt     time.Time `json:"updated_at"`
}
