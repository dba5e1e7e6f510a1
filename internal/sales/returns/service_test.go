package returns

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-erp/meridian-erp/internal/platform/erpapi"
	sharederr "github.com/meridian-erp/meridian-erp/internal/shared"
)

// ============================================================================
// MOCK GATEWAYS
// ============================================================================

type mockOrderGateway struct {
	customers map[int64]*erpapi.Customer
	orders    map[int64][]erpapi.SaleOrder
	lines     map[int64][]erpapi.OrderLine

	getCustomerError error
	listOrdersError  error
	linesError       error
	linesCalls       int
}

func newMockOrderGateway() *mockOrderGateway {
	return &mockOrderGateway{
		customers: make(map[int64]*erpapi.Customer),
		orders:    make(map[int64][]erpapi.SaleOrder),
		lines:     make(map[int64][]erpapi.OrderLine),
	}
}

func (m *mockOrderGateway) GetCustomer(ctx context.Context, id int64) (*erpapi.Customer, error) {
	if m.getCustomerError != nil {
		return nil, m.getCustomerError
	}
	c, ok := m.customers[id]
	if !ok {
		return nil, sharederr.ErrNotFound
	}
	return c, nil
}

func (m *mockOrderGateway) SaleOrdersByCustomer(ctx context.Context, customerID int64) ([]erpapi.SaleOrder, error) {
	if m.listOrdersError != nil {
		return nil, m.listOrdersError
	}
	return m.orders[customerID], nil
}

func (m *mockOrderGateway) SaleOrderLines(ctx context.Context, orderID int64) ([]erpapi.OrderLine, error) {
	m.linesCalls++
	if m.linesError != nil {
		return nil, m.linesError
	}
	return m.lines[orderID], nil
}

type mockReturnGateway struct {
	mu          sync.Mutex
	submitted   []erpapi.ReturnSubmission
	submitError error
	submitDelay time.Duration
	receipt     *erpapi.ReturnReceipt
}

func (m *mockReturnGateway) SubmitReturn(ctx context.Context, sub erpapi.ReturnSubmission) (*erpapi.ReturnReceipt, error) {
	if m.submitDelay > 0 {
		time.Sleep(m.submitDelay)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.submitError != nil {
		return nil, m.submitError
	}
	m.submitted = append(m.submitted, sub)
	if m.receipt != nil {
		return m.receipt, nil
	}
	return &erpapi.ReturnReceipt{ReturnNumber: "SR-0001", SaleReturnHeaderID: 501}, nil
}

func (m *mockReturnGateway) GetReturn(ctx context.Context, headerID int64) (*erpapi.ReturnDocument, error) {
	return &erpapi.ReturnDocument{ReturnNumber: "SR-0001"}, nil
}

func (m *mockReturnGateway) ListReturns(ctx context.Context, limit, offset int) ([]erpapi.ReturnDocument, error) {
	return nil, nil
}

func (m *mockReturnGateway) submitCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.submitted)
}

type mockLedger struct {
	mu        sync.Mutex
	posted    []float64
	postError error
}

func (m *mockLedger) PostReturnCredit(ctx context.Context, customerID int64, amount float64, referenceNumber, postedBy string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.postError != nil {
		return m.postError
	}
	m.posted = append(m.posted, amount)
	return nil
}

type mockAudit struct {
	mu      sync.Mutex
	records []sharederr.AuditLog
}

func (m *mockAudit) Record(ctx context.Context, log sharederr.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, log)
	return nil
}

func (m *mockAudit) actions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.records))
	for _, r := range m.records {
		out = append(out, r.Action)
	}
	return out
}

// ============================================================================
// FIXTURE
// ============================================================================

type fixture struct {
	service *Service
	orders  *mockOrderGateway
	returns *mockReturnGateway
	ledger  *mockLedger
	audit   *mockAudit
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	orders := newMockOrderGateway()
	orders.customers[7] = &erpapi.Customer{ID: 7, Name: "Sharma Traders"}
	orders.customers[8] = &erpapi.Customer{ID: 8, Name: "Patel Hardware"}
	orders.orders[7] = []erpapi.SaleOrder{{ID: 42, Number: "SO-0042", CustomerID: 7}}
	orders.orders[8] = []erpapi.SaleOrder{{ID: 55, Number: "SO-0055", CustomerID: 8}}
	orders.lines[42] = []erpapi.OrderLine{
		{ProductID: 1, ProductName: "Cement Bag", Quantity: 20, Rate: 600, TaxPercent: 5},
		{ProductID: 2, ProductName: "Steel Rod", Quantity: 25, Rate: 85, TaxPercent: 5},
	}

	returnsGW := &mockReturnGateway{}
	ledger := &mockLedger{}
	audit := &mockAudit{}

	svc := NewService(
		slog.New(slog.DiscardHandler),
		NewDraftStore(client, time.Hour),
		orders, returnsGW, ledger, audit,
	)
	return &fixture{service: svc, orders: orders, returns: returnsGW, ledger: ledger, audit: audit}
}

func (f *fixture) loadedDraft(t *testing.T, sessionID string) *Draft {
	t.Helper()
	ctx := context.Background()
	_, err := f.service.SelectCustomer(ctx, sessionID, 7)
	require.NoError(t, err)
	draft, err := f.service.SelectOrder(ctx, sessionID, 42)
	require.NoError(t, err)
	return draft
}

// ============================================================================
// TESTS
// ============================================================================

func TestSelectOrderLoadsItemsWithZeroReturnQuantity(t *testing.T) {
	f := newFixture(t)
	draft := f.loadedDraft(t, "sess-1")

	assert.Equal(t, StateItemsLoaded, draft.State)
	require.Len(t, draft.Lines, 2)
	for _, l := range draft.Lines {
		assert.Zero(t, l.ReturnQuantity)
	}
	assert.Zero(t, draft.Totals.GrandTotal)
}

func TestCustomerChangeClearsOrderAndItems(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.loadedDraft(t, "sess-1")

	draft, err := f.service.SelectCustomer(ctx, "sess-1", 8)
	require.NoError(t, err)

	assert.Equal(t, StateCustomerSelected, draft.State)
	assert.Equal(t, int64(8), draft.CustomerID)
	assert.Zero(t, draft.SaleOrderID)
	assert.Empty(t, draft.Lines)
	assert.Zero(t, draft.Totals.GrandTotal)
}

func TestSelectOrderRejectsForeignOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.service.SelectCustomer(ctx, "sess-1", 7)
	require.NoError(t, err)

	_, err = f.service.SelectOrder(ctx, "sess-1", 55)
	assert.ErrorIs(t, err, sharederr.ErrValidation)
}

func TestItemLoadFailureKeepsOrderSelectedWithNoItems(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.service.SelectCustomer(ctx, "sess-1", 7)
	require.NoError(t, err)

	f.orders.linesError = errors.New("upstream timeout")
	draft, err := f.service.SelectOrder(ctx, "sess-1", 42)
	require.Error(t, err)
	require.NotNil(t, draft)

	assert.Equal(t, StateSourceOrderSelected, draft.State)
	assert.Equal(t, int64(42), draft.SaleOrderID)
	assert.Empty(t, draft.Lines)

	// no automatic retry
	assert.Equal(t, 1, f.orders.linesCalls)

	// stored draft reflects the same degraded state
	stored, err := f.service.Draft(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, StateSourceOrderSelected, stored.State)
	assert.Empty(t, stored.Lines)
}

func TestSetReturnQuantityRecomputesTotals(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.loadedDraft(t, "sess-1")

	draft, err := f.service.SetReturnQuantity(ctx, "sess-1", 1, 20)
	require.NoError(t, err)
	assert.InDelta(t, 12000, draft.Totals.SubTotal, 1e-9)
	assert.InDelta(t, 600, draft.Totals.TotalTax, 1e-9)
	assert.InDelta(t, 12600, draft.Totals.GrandTotal, 1e-9)

	draft, err = f.service.SetReturnQuantity(ctx, "sess-1", 2, 25)
	require.NoError(t, err)
	assert.InDelta(t, 14125, draft.Totals.SubTotal, 1e-9)
	assert.InDelta(t, 706.25, draft.Totals.TotalTax, 1e-9)
	assert.InDelta(t, 14831.25, draft.Totals.GrandTotal, 1e-9)
}

func TestSetReturnQuantityRejectsOutOfBounds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.loadedDraft(t, "sess-1")

	_, err := f.service.SetReturnQuantity(ctx, "sess-1", 1, 21)
	assert.ErrorIs(t, err, sharederr.ErrValidation)

	_, err = f.service.SetReturnQuantity(ctx, "sess-1", 1, -1)
	assert.ErrorIs(t, err, sharederr.ErrValidation)

	_, err = f.service.SetReturnQuantity(ctx, "sess-1", 99, 1)
	assert.ErrorIs(t, err, sharederr.ErrValidation)
}

func TestSubmitRejectedLocallyWhenAllQuantitiesZero(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.loadedDraft(t, "sess-1")

	_, err := f.service.Submit(ctx, "sess-1", "9")
	assert.ErrorIs(t, err, sharederr.ErrValidation)
	assert.Zero(t, f.returns.submitCount())
	assert.Empty(t, f.ledger.posted)
}

func TestSubmitSuccessPostsLedgerAndReturnsGatePassParams(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.loadedDraft(t, "sess-1")
	_, err := f.service.SetReturnQuantity(ctx, "sess-1", 1, 20)
	require.NoError(t, err)
	_, err = f.service.SetReturnQuantity(ctx, "sess-1", 2, 25)
	require.NoError(t, err)

	outcome, err := f.service.Submit(ctx, "sess-1", "9")
	require.NoError(t, err)

	assert.Equal(t, "SR-0001", outcome.ReturnNumber)
	assert.Equal(t, int64(501), outcome.HeaderID)
	assert.True(t, outcome.LedgerPosted)
	assert.Empty(t, outcome.Warning)

	assert.Equal(t, "SR-0001", outcome.GatePass.ReferenceNumber)
	assert.Equal(t, int64(501), outcome.GatePass.ReferenceID)
	assert.InDelta(t, 45, outcome.GatePass.TotalQuantity, 1e-9)
	assert.Equal(t, "Sharma Traders", outcome.GatePass.PartyName)

	require.Len(t, f.ledger.posted, 1)
	assert.InDelta(t, 14831.25, f.ledger.posted[0], 1e-9)

	// only lines with a positive return quantity are submitted
	require.Equal(t, 1, f.returns.submitCount())
	assert.Len(t, f.returns.submitted[0].Items, 2)

	// draft is gone after a successful save
	draft, err := f.service.Draft(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, StateIdle, draft.State)
}

func TestSubmitFailureKeepsDraft(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.loadedDraft(t, "sess-1")
	_, err := f.service.SetReturnQuantity(ctx, "sess-1", 1, 5)
	require.NoError(t, err)

	f.returns.submitError = errors.New("upstream 502")
	_, err = f.service.Submit(ctx, "sess-1", "9")
	assert.ErrorIs(t, err, sharederr.ErrSubmission)
	assert.Empty(t, f.ledger.posted)

	draft, err := f.service.Draft(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, StateItemsLoaded, draft.State)
	require.Len(t, draft.Lines, 2)
	assert.InDelta(t, 5, draft.Lines[0].ReturnQuantity, 1e-9)
}

func TestLedgerFailureDegradesOutcomeWithoutRollback(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.loadedDraft(t, "sess-1")
	_, err := f.service.SetReturnQuantity(ctx, "sess-1", 1, 10)
	require.NoError(t, err)

	f.ledger.postError = errors.New("ledger unavailable")
	outcome, err := f.service.Submit(ctx, "sess-1", "9")
	require.NoError(t, err)

	assert.False(t, outcome.LedgerPosted)
	assert.NotEmpty(t, outcome.Warning)
	assert.Equal(t, "SR-0001", outcome.ReturnNumber)
	assert.Equal(t, "Sharma Traders", outcome.GatePass.PartyName)
	assert.Equal(t, 1, f.returns.submitCount())

	assert.Contains(t, f.audit.actions(), sharederr.AuditActionLedgerDegraded)
}

func TestSubmitReentrancyGuard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.loadedDraft(t, "sess-1")
	_, err := f.service.SetReturnQuantity(ctx, "sess-1", 1, 1)
	require.NoError(t, err)

	f.returns.submitDelay = 100 * time.Millisecond

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.service.Submit(ctx, "sess-1", "9")
		}(i)
	}
	wg.Wait()

	var rejected int
	for _, err := range errs {
		if errors.Is(err, sharederr.ErrValidation) {
			rejected++
		}
	}
	assert.Equal(t, 1, rejected)
	assert.Equal(t, 1, f.returns.submitCount())
}

func TestSubmitRecordsAudit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.loadedDraft(t, "sess-1")
	_, err := f.service.SetReturnQuantity(ctx, "sess-1", 2, 3)
	require.NoError(t, err)

	_, err = f.service.Submit(ctx, "sess-1", "9")
	require.NoError(t, err)
	assert.Contains(t, f.audit.actions(), sharederr.AuditActionReturnSubmit)
}
