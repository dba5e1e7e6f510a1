package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-erp/meridian-erp/internal/platform/erpapi"
	"github.com/meridian-erp/meridian-erp/internal/shared"
)

type mockGateway struct {
	entries []erpapi.LedgerEntry
	err     error
}

func (m *mockGateway) PostLedgerEntry(ctx context.Context, entry erpapi.LedgerEntry) error {
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, entry)
	return nil
}

func TestPostReturnCredit(t *testing.T) {
	gw := &mockGateway{}
	svc := NewService(gw)

	err := svc.PostReturnCredit(context.Background(), 7, 14831.25, "SR-0001", "9")
	require.NoError(t, err)
	require.Len(t, gw.entries, 1)

	entry := gw.entries[0]
	assert.Equal(t, int64(7), entry.CustomerID)
	assert.InDelta(t, 14831.25, entry.Amount, 1e-9)
	assert.Equal(t, PaymentModeCreditNote, entry.PaymentMode)
	assert.Equal(t, "SR-0001", entry.ReferenceNumber)
	assert.Equal(t, "9", entry.CreatedBy)
	assert.False(t, entry.PaymentDate.IsZero())
}

func TestPostReturnCreditValidation(t *testing.T) {
	svc := NewService(&mockGateway{})
	ctx := context.Background()

	assert.ErrorIs(t, svc.PostReturnCredit(ctx, 0, 100, "SR-1", "9"), shared.ErrValidation)
	assert.ErrorIs(t, svc.PostReturnCredit(ctx, 7, 0, "SR-1", "9"), shared.ErrValidation)
	assert.ErrorIs(t, svc.PostReturnCredit(ctx, 7, 100, "", "9"), shared.ErrValidation)
}

func TestPostReturnCreditWrapsGatewayFailure(t *testing.T) {
	gw := &mockGateway{err: errors.New("ledger unavailable")}
	svc := NewService(gw)

	err := svc.PostReturnCredit(context.Background(), 7, 100, "SR-1", "9")
	assert.ErrorIs(t, err, shared.ErrSideEffect)
}
