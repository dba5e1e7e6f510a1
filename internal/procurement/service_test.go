package procurement

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-erp/meridian-erp/internal/platform/erpapi"
	"github.com/meridian-erp/meridian-erp/internal/shared"
)

type mockGateway struct {
	created []erpapi.PurchaseOrderInput
}

func (m *mockGateway) ListPurchaseOrders(ctx context.Context, status string, limit, offset int) ([]erpapi.PurchaseOrder, error) {
	return nil, nil
}

func (m *mockGateway) GetPurchaseOrder(ctx context.Context, id int64) (*erpapi.PurchaseOrder, error) {
	return &erpapi.PurchaseOrder{ID: id}, nil
}

func (m *mockGateway) CreatePurchaseOrder(ctx context.Context, in erpapi.PurchaseOrderInput) (*erpapi.PurchaseOrder, error) {
	m.created = append(m.created, in)
	return &erpapi.PurchaseOrder{ID: 1, Number: "PO-0001"}, nil
}

func (m *mockGateway) ReceivePurchaseOrder(ctx context.Context, id int64, receivedBy string) (*erpapi.PurchaseOrder, error) {
	return &erpapi.PurchaseOrder{ID: id, Status: "RECEIVED"}, nil
}

func (m *mockGateway) ListSuppliers(ctx context.Context, query string) ([]erpapi.Supplier, error) {
	return nil, nil
}

func TestCreateComputesLineAmounts(t *testing.T) {
	gw := &mockGateway{}
	svc := NewService(gw)

	_, err := svc.Create(context.Background(), CreateRequest{
		SupplierID: 3,
		Lines: []CreateLineRequest{
			{ProductID: 1, Quantity: 20, Rate: 600, TaxPercent: 5},
			{ProductID: 2, Quantity: 25, Rate: 85, TaxPercent: 5},
		},
	}, "9")
	require.NoError(t, err)
	require.Len(t, gw.created, 1)

	lines := gw.created[0].Lines
	require.Len(t, lines, 2)
	assert.InDelta(t, 12600, lines[0].Amount, 1e-9)
	assert.InDelta(t, 2231.25, lines[1].Amount, 1e-9)
	assert.Equal(t, "9", gw.created[0].CreatedBy)
	assert.False(t, gw.created[0].OrderDate.IsZero())
}

func TestCreateRequiresLines(t *testing.T) {
	svc := NewService(&mockGateway{})
	_, err := svc.Create(context.Background(), CreateRequest{SupplierID: 3}, "9")
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestCreateRejectsZeroQuantity(t *testing.T) {
	svc := NewService(&mockGateway{})
	_, err := svc.Create(context.Background(), CreateRequest{
		SupplierID: 3,
		Lines:      []CreateLineRequest{{ProductID: 1, Quantity: 0, Rate: 100}},
	}, "9")
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestReceiveValidatesID(t *testing.T) {
	svc := NewService(&mockGateway{})
	_, err := svc.Receive(context.Background(), 0, "9")
	assert.ErrorIs(t, err, shared.ErrValidation)
}
