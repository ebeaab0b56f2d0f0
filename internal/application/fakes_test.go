package application

import (
	"context"
	"fmt"
	"time"

	"stocksync-core-layer/internal/domain"
	"stocksync-core-layer/internal/ports"
)

// fakeIntegrationRepo reproduces the conditional claim semantics of the
// mongo repository: BeginSync succeeds only when the current status is
// not a syncing value.
type fakeIntegrationRepo struct {
	integrations map[string]*domain.Integration
	statusLog    []domain.SyncStatus
	beginErr     error
}

func newFakeIntegrationRepo(integrations ...*domain.Integration) *fakeIntegrationRepo {
	repo := &fakeIntegrationRepo{integrations: make(map[string]*domain.Integration)}
	for _, in := range integrations {
		repo.integrations[in.ID] = in
	}
	return repo
}

func (f *fakeIntegrationRepo) Create(_ context.Context, integration *domain.Integration) error {
	if integration.ID == "" {
		integration.ID = fmt.Sprintf("int-%d", len(f.integrations)+1)
	}
	copied := *integration
	f.integrations[integration.ID] = &copied
	return nil
}

func (f *fakeIntegrationRepo) GetByIDAndCompany(_ context.Context, id, companyID string) (*domain.Integration, error) {
	in, ok := f.integrations[id]
	if !ok || in.CompanyID != companyID {
		return nil, nil
	}
	copied := *in
	return &copied, nil
}

func (f *fakeIntegrationRepo) GetByCompanyAndPlatform(_ context.Context, companyID string, platform domain.Platform) (*domain.Integration, error) {
	for _, in := range f.integrations {
		if in.CompanyID == companyID && in.Platform == platform {
			copied := *in
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeIntegrationRepo) ListByCompany(_ context.Context, companyID string) ([]*domain.Integration, error) {
	var out []*domain.Integration
	for _, in := range f.integrations {
		if in.CompanyID == companyID {
			copied := *in
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeIntegrationRepo) BeginSync(_ context.Context, id, companyID string) (bool, error) {
	if f.beginErr != nil {
		return false, f.beginErr
	}
	in, ok := f.integrations[id]
	if !ok || in.CompanyID != companyID || in.SyncStatus.Busy() {
		return false, nil
	}
	in.SyncStatus = domain.SyncStatusSyncing
	now := time.Now().UTC()
	in.LastSyncAt = &now
	f.statusLog = append(f.statusLog, domain.SyncStatusSyncing)
	return true, nil
}

func (f *fakeIntegrationRepo) SetStatus(_ context.Context, id string, status domain.SyncStatus) error {
	in, ok := f.integrations[id]
	if !ok {
		return fmt.Errorf("integration %s not found", id)
	}
	in.SyncStatus = status
	f.statusLog = append(f.statusLog, status)
	return nil
}

func (f *fakeIntegrationRepo) FinishSync(_ context.Context, id string, status domain.SyncStatus) error {
	return f.SetStatus(context.Background(), id, status)
}

func (f *fakeIntegrationRepo) Update(_ context.Context, integration *domain.Integration) error {
	if _, ok := f.integrations[integration.ID]; !ok {
		return fmt.Errorf("integration %s not found", integration.ID)
	}
	copied := *integration
	f.integrations[integration.ID] = &copied
	return nil
}

func (f *fakeIntegrationRepo) Delete(_ context.Context, id, companyID string) error {
	in, ok := f.integrations[id]
	if !ok || in.CompanyID != companyID {
		return domain.ErrNotFoundOrForbidden
	}
	delete(f.integrations, id)
	return nil
}

func (f *fakeIntegrationRepo) status(id string) domain.SyncStatus {
	return f.integrations[id].SyncStatus
}

// fakeSyncLogRepo records the audit trail in memory.
type logEntry struct {
	integrationID string
	syncType      domain.SyncType
	status        domain.SyncLogStatus
	records       int
	errorMessage  string
}

type fakeSyncLogRepo struct {
	entries []logEntry
}

func (f *fakeSyncLogRepo) Start(_ context.Context, integrationID string, syncType domain.SyncType) (string, error) {
	f.entries = append(f.entries, logEntry{integrationID: integrationID, syncType: syncType, status: domain.SyncLogStarted})
	return fmt.Sprintf("log-%d", len(f.entries)-1), nil
}

func (f *fakeSyncLogRepo) Complete(_ context.Context, id string, recordsSynced int) error {
	var idx int
	if _, err := fmt.Sscanf(id, "log-%d", &idx); err != nil {
		return err
	}
	f.entries[idx].status = domain.SyncLogCompleted
	f.entries[idx].records = recordsSynced
	return nil
}

func (f *fakeSyncLogRepo) Fail(_ context.Context, id string, recordsSynced int, errorMessage string) error {
	var idx int
	if _, err := fmt.Sscanf(id, "log-%d", &idx); err != nil {
		return err
	}
	f.entries[idx].status = domain.SyncLogFailed
	f.entries[idx].records = recordsSynced
	f.entries[idx].errorMessage = errorMessage
	return nil
}

// scriptedAdapter returns scripted results per call, one script entry
// per invocation of each phase.
type phaseResult struct {
	records int
	err     error
}

type scriptedAdapter struct {
	platform     domain.Platform
	productRuns  []phaseResult
	orderRuns    []phaseResult
	productCalls int
	orderCalls   int
}

func (a *scriptedAdapter) Platform() domain.Platform { return a.platform }

func (a *scriptedAdapter) SyncProducts(_ context.Context, _ *domain.Integration) (int, error) {
	r := a.productRuns[min(a.productCalls, len(a.productRuns)-1)]
	a.productCalls++
	return r.records, r.err
}

func (a *scriptedAdapter) SyncOrders(_ context.Context, _ *domain.Integration) (int, error) {
	r := a.orderRuns[min(a.orderCalls, len(a.orderRuns)-1)]
	a.orderCalls++
	return r.records, r.err
}

type fakeCache struct {
	invalidated []string
	err         error
}

func (f *fakeCache) InvalidateCompany(_ context.Context, companyID string) error {
	if f.err != nil {
		return f.err
	}
	f.invalidated = append(f.invalidated, companyID)
	return nil
}

type fakeViews struct {
	refreshed []string
	err       error
}

func (f *fakeViews) RefreshCompany(_ context.Context, companyID string) error {
	if f.err != nil {
		return f.err
	}
	f.refreshed = append(f.refreshed, companyID)
	return nil
}

// fakeVault backs SecretService tests without mongo.
type fakeVault struct {
	blobs map[string]string
	err   error
}

func newFakeVault() *fakeVault {
	return &fakeVault{blobs: make(map[string]string)}
}

func (f *fakeVault) Put(_ context.Context, name, ciphertext string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.blobs[name] = ciphertext
	return "vault-" + name, nil
}

func (f *fakeVault) Get(_ context.Context, name string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.blobs[name], nil
}

func (f *fakeVault) Delete(_ context.Context, name string) error {
	if f.err != nil {
		return f.err
	}
	delete(f.blobs, name)
	return nil
}

var _ ports.IntegrationRepository = (*fakeIntegrationRepo)(nil)
var _ ports.SyncLogRepository = (*fakeSyncLogRepo)(nil)
var _ ports.PlatformAdapter = (*scriptedAdapter)(nil)
var _ ports.CacheInvalidator = (*fakeCache)(nil)
var _ ports.ViewRefresher = (*fakeViews)(nil)
var _ ports.Vault = (*fakeVault)(nil)
