package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-erp/meridian-erp/internal/platform/erpapi"
)

type mockGateway struct {
	returnsErr   error
	purchasesErr error
	calls        int
}

func (m *mockGateway) ListReturns(ctx context.Context, limit, offset int) ([]erpapi.ReturnDocument, error) {
	m.calls++
	if m.returnsErr != nil {
		return nil, m.returnsErr
	}
	return []erpapi.ReturnDocument{{GrandTotal: 12600}, {GrandTotal: 2231.25}}, nil
}

func (m *mockGateway) ListPurchaseOrders(ctx context.Context, status string, limit, offset int) ([]erpapi.PurchaseOrder, error) {
	if m.purchasesErr != nil {
		return nil, m.purchasesErr
	}
	return []erpapi.PurchaseOrder{{GrandTotal: 50000}}, nil
}

func (m *mockGateway) ListGatePasses(ctx context.Context, limit, offset int) ([]erpapi.GatePass, error) {
	return []erpapi.GatePass{{}, {}, {}}, nil
}

func (m *mockGateway) SearchProducts(ctx context.Context, query string, limit, offset int) ([]erpapi.Product, error) {
	return []erpapi.Product{{}, {}}, nil
}

func TestRebuildAggregatesTiles(t *testing.T) {
	svc := NewService(slog.New(slog.DiscardHandler), &mockGateway{}, nil, 0)

	summary, err := svc.Rebuild(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.RecentReturns.Count)
	assert.InDelta(t, 14831.25, summary.RecentReturns.Amount, 1e-9)
	assert.Equal(t, 1, summary.OpenPurchases.Count)
	assert.Equal(t, 3, summary.GatePassesOpen.Count)
	assert.Equal(t, 2, summary.Products.Count)
	assert.False(t, summary.GeneratedAt.IsZero())
}

func TestFailedSourceDegradesOnlyItsTile(t *testing.T) {
	gw := &mockGateway{purchasesErr: errors.New("upstream down")}
	svc := NewService(slog.New(slog.DiscardHandler), gw, nil, 0)

	summary, err := svc.Rebuild(context.Background())
	require.NoError(t, err)

	assert.True(t, summary.OpenPurchases.Degraded)
	assert.Zero(t, summary.OpenPurchases.Count)
	assert.False(t, summary.RecentReturns.Degraded)
	assert.Equal(t, 2, summary.RecentReturns.Count)
}

func TestSummaryServedFromCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	gw := &mockGateway{}
	svc := NewService(slog.New(slog.DiscardHandler), gw, client, time.Minute)
	ctx := context.Background()

	_, err := svc.Summary(ctx)
	require.NoError(t, err)
	_, err = svc.Summary(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, gw.calls)
}
