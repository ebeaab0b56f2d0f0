package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFoundOrForbidden is returned when an integration does not
	// exist or is not owned by the requesting company. The two cases are
	// deliberately indistinguishable to the caller.
	ErrNotFoundOrForbidden = errors.New("integration not found or not owned by company")

	// ErrUnsupportedPlatform is returned for a platform value with no
	// registered adapter. Fatal, never retried.
	ErrUnsupportedPlatform = errors.New("unsupported platform")

	// ErrVaultUnavailable is returned when the encrypted secret store is
	// not provisioned.
	ErrVaultUnavailable = errors.New("credential vault is not provisioned")

	// ErrVaultRead wraps any vault retrieval fault other than a missing
	// secret. A missing secret is not an error.
	ErrVaultRead = errors.New("failed to read credentials from vault")

	// ErrNoCredentials is returned by an adapter when no credential is
	// stored for its integration. Fatal, never retried.
	ErrNoCredentials = errors.New("could not retrieve credentials")
)

// PartialSyncError reports a sales phase in which individual orders
// failed while the rest of the batch was still recorded. The phase is
// surfaced as failed so the problem is visible, without discarding the
// partial progress.
type PartialSyncError struct {
	SyncType SyncType
	Synced   int
	Failed   int
}

func (e *PartialSyncError) Error() string {
	return fmt.Sprintf("%s sync completed with %d failed records (%d synced)", e.SyncType, e.Failed, e.Synced)
}
