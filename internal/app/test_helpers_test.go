package app

import (
	"context"
	"io"
	"log"
	"sync"
	"time"

	"github.com/TI-Processtec/Analise-de-Cobertura/internal/models"
	"github.com/TI-Processtec/Analise-de-Cobertura/internal/ports/primary"
	"github.com/TI-Processtec/Analise-de-Cobertura/internal/ports/secondary"
)

// mustDay parses "YYYY-MM-DD" or panics. Test data only.
func mustDay(s string) models.Day {
	d, err := models.ParseDay(s)
	if err != nil {
		panic(err)
	}
	return d
}

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// testRetrier is a retrier with no backoff so exhaustion is instant.
func testRetrier() *Retrier {
	return &Retrier{MaxRetries: DefaultMaxRetries, Backoff: 0, Logger: discardLogger()}
}

// openGovernor admits everything without spacing or a meaningful ceiling.
func openGovernor(clock secondary.Clock) *RateGovernor {
	return NewRateGovernorWithLimits(clock, 0, 1_000_000)
}

// ============================================================================
// Mock Implementations
// ============================================================================

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(at time.Time) *fakeClock {
	return &fakeClock{now: at}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Ensure fakeClock implements the interface
var _ secondary.Clock = (*fakeClock)(nil)

// mockOrderAPI implements secondary.OrderAPI for testing. Listing pages are
// scripted per kind; detail records come from a fixed table.
type mockOrderAPI struct {
	pages   map[models.OrderKind][][]secondary.OrderListing
	details map[int64]*models.OrderRecord
	balance map[string]float64

	listErr    error
	detailErr  map[int64]error
	balanceErr error

	listCalls    int
	detailCalls  int
	balanceCalls int
	queries      []secondary.ListQuery
}

func newMockOrderAPI() *mockOrderAPI {
	return &mockOrderAPI{
		pages:     make(map[models.OrderKind][][]secondary.OrderListing),
		details:   make(map[int64]*models.OrderRecord),
		balance:   make(map[string]float64),
		detailErr: make(map[int64]error),
	}
}

func (m *mockOrderAPI) ListOrders(ctx context.Context, kind models.OrderKind, q secondary.ListQuery) ([]secondary.OrderListing, error) {
	m.listCalls++
	m.queries = append(m.queries, q)
	if m.listErr != nil {
		return nil, m.listErr
	}
	pages := m.pages[kind]
	if q.Page > len(pages) {
		return nil, nil
	}
	return pages[q.Page-1], nil
}

func (m *mockOrderAPI) GetOrder(ctx context.Context, kind models.OrderKind, id int64) (*models.OrderRecord, error) {
	m.detailCalls++
	if err := m.detailErr[id]; err != nil {
		return nil, err
	}
	rec, ok := m.details[id]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (m *mockOrderAPI) StockBalance(ctx context.Context, sku string) (float64, error) {
	m.balanceCalls++
	if m.balanceErr != nil {
		return 0, m.balanceErr
	}
	return m.balance[sku], nil
}

// Ensure mockOrderAPI implements the interface
var _ secondary.OrderAPI = (*mockOrderAPI)(nil)

// mockCacheRepo implements secondary.RecordCacheRepository for testing.
type mockCacheRepo struct {
	caches    map[models.OrderKind]map[int64]models.OrderRecord
	loadErr   error
	saveErr   error
	saveCalls int
	saved     map[models.OrderKind]map[int64]models.OrderRecord
}

func newMockCacheRepo() *mockCacheRepo {
	return &mockCacheRepo{
		caches: make(map[models.OrderKind]map[int64]models.OrderRecord),
		saved:  make(map[models.OrderKind]map[int64]models.OrderRecord),
	}
}

func (m *mockCacheRepo) Load(ctx context.Context, kind models.OrderKind) (map[int64]models.OrderRecord, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	out := make(map[int64]models.OrderRecord, len(m.caches[kind]))
	for id, rec := range m.caches[kind] {
		out[id] = rec
	}
	return out, nil
}

func (m *mockCacheRepo) Save(ctx context.Context, kind models.OrderKind, cache map[int64]models.OrderRecord) error {
	m.saveCalls++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved[kind] = cache
	m.caches[kind] = cache
	return nil
}

func (m *mockCacheRepo) Count(ctx context.Context, kind models.OrderKind) (int, error) {
	return len(m.caches[kind]), nil
}

func (m *mockCacheRepo) Clear(ctx context.Context, kind models.OrderKind) error {
	delete(m.caches, kind)
	return nil
}

// Ensure mockCacheRepo implements the interface
var _ secondary.RecordCacheRepository = (*mockCacheRepo)(nil)

// mockCheckpointRepo implements secondary.CheckpointRepository for testing.
type mockCheckpointRepo struct {
	cp        models.Checkpoint
	loadErr   error
	saveErr   error
	saveCalls int
}

func (m *mockCheckpointRepo) Load(ctx context.Context) (models.Checkpoint, error) {
	if m.loadErr != nil {
		return models.Checkpoint{}, m.loadErr
	}
	return m.cp, nil
}

func (m *mockCheckpointRepo) Save(ctx context.Context, cp models.Checkpoint) error {
	m.saveCalls++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.cp = cp
	return nil
}

// Ensure mockCheckpointRepo implements the interface
var _ secondary.CheckpointRepository = (*mockCheckpointRepo)(nil)

// mockTabularStore implements secondary.TabularStore for testing.
type mockTabularStore struct {
	rows      [][]string
	getErr    error
	updateErr error
	written   [][]string
}

func (m *mockTabularStore) GetRange(ctx context.Context, sheetID, rng string) ([][]string, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.rows, nil
}

func (m *mockTabularStore) UpdateRange(ctx context.Context, sheetID, rng string, rows [][]string) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.written = rows
	return nil
}

// Ensure mockTabularStore implements the interface
var _ secondary.TabularStore = (*mockTabularStore)(nil)

// mockCollectionService implements primary.CollectionService for testing the
// reconciliation and run services in isolation.
type mockCollectionService struct {
	responses   map[models.OrderKind]*primary.CollectResponse
	purchaseErr error
	saleErr     error

	balances   map[string]float64
	balanceErr error

	collectCalls []models.OrderKind
	balanceSKUs  []string
}

func newMockCollectionService() *mockCollectionService {
	return &mockCollectionService{
		responses: make(map[models.OrderKind]*primary.CollectResponse),
		balances:  make(map[string]float64),
	}
}

func (m *mockCollectionService) Collect(ctx context.Context, req primary.CollectRequest) (*primary.CollectResponse, error) {
	m.collectCalls = append(m.collectCalls, req.Kind)
	if req.Kind == models.KindPurchase && m.purchaseErr != nil {
		return nil, m.purchaseErr
	}
	if req.Kind == models.KindSale && m.saleErr != nil {
		return nil, m.saleErr
	}
	if resp, ok := m.responses[req.Kind]; ok {
		return resp, nil
	}
	return &primary.CollectResponse{
		Cache: make(map[int64]models.OrderRecord),
		Stats: primary.CollectStats{Kind: req.Kind},
	}, nil
}

func (m *mockCollectionService) StockBalance(ctx context.Context, sku string) (float64, error) {
	m.balanceSKUs = append(m.balanceSKUs, sku)
	if m.balanceErr != nil {
		return 0, m.balanceErr
	}
	return m.balances[sku], nil
}

// Ensure mockCollectionService implements the interface
var _ primary.CollectionService = (*mockCollectionService)(nil)

// mockReconciler implements primary.ReconciliationService for testing.
type mockReconciler struct {
	resp         primary.ReconcileResponse
	reconcileErr error
	gotReq       *primary.ReconcileRequest
	mutate       func(req primary.ReconcileRequest)
}

func (m *mockReconciler) Reconcile(ctx context.Context, req primary.ReconcileRequest) (*primary.ReconcileResponse, error) {
	m.gotReq = &req
	if m.reconcileErr != nil {
		return nil, m.reconcileErr
	}
	if m.mutate != nil {
		m.mutate(req)
	}
	resp := m.resp
	resp.RowsTotal = len(req.Rows)
	return &resp, nil
}

// Ensure mockReconciler implements the interface
var _ primary.ReconciliationService = (*mockReconciler)(nil)
