package gatepass

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
	created   []erpapi.GatePassInput
	cancelled []int64
	createErr error
	cancelErr error
}

func (m *mockGateway) CreateGatePass(ctx context.Context, in erpapi.GatePassInput) (*erpapi.GatePass, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.created = append(m.created, in)
	return &erpapi.GatePass{ID: 1, Number: "GP-0001", Status: string(StatusIssued)}, nil
}

func (m *mockGateway) ListGatePasses(ctx context.Context, limit, offset int) ([]erpapi.GatePass, error) {
	return nil, nil
}

func (m *mockGateway) CancelGatePass(ctx context.Context, id int64, reason string) error {
	if m.cancelErr != nil {
		return m.cancelErr
	}
	m.cancelled = append(m.cancelled, id)
	return nil
}

func TestCreateGatePass(t *testing.T) {
	gw := &mockGateway{}
	svc := NewService(gw)

	pass, err := svc.Create(context.Background(), CreateRequest{
		Direction:       "INWARD",
		ReferenceNumber: "SR-0001",
		ReferenceID:     501,
		PartyName:       "Sharma Traders",
		Quantity:        45,
	}, "9")
	require.NoError(t, err)
	assert.Equal(t, "GP-0001", pass.Number)

	require.Len(t, gw.created, 1)
	assert.Equal(t, "SR-0001", gw.created[0].ReferenceNumber)
	assert.Equal(t, "9", gw.created[0].CreatedBy)
}

func TestCreateGatePassValidation(t *testing.T) {
	svc := NewService(&mockGateway{})
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateRequest{Direction: "SIDEWAYS", ReferenceNumber: "SR-1", PartyName: "X", Quantity: 1}, "9")
	assert.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.Create(ctx, CreateRequest{Direction: "INWARD", ReferenceNumber: "SR-1", PartyName: "X", Quantity: 0}, "9")
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestCancelRespectsLifecycle(t *testing.T) {
	gw := &mockGateway{}
	svc := NewService(gw)
	ctx := context.Background()

	require.NoError(t, svc.Cancel(ctx, 1, StatusIssued, "wrong party"))
	assert.Equal(t, []int64{1}, gw.cancelled)

	assert.ErrorIs(t, svc.Cancel(ctx, 2, StatusCompleted, "too late"), shared.ErrValidation)
	assert.ErrorIs(t, svc.Cancel(ctx, 3, StatusCancelled, "again"), shared.ErrValidation)
}

func TestPrefillFromReturn(t *testing.T) {
	req := PrefillFromReturn("SR-0001", 501, 45, "Sharma Traders")
	assert.Equal(t, "INWARD", req.Direction)
	assert.Equal(t, "SR-0001", req.ReferenceNumber)
	assert.Equal(t, int64(501), req.ReferenceID)
	assert.InDelta(t, 45, req.Quantity, 1e-9)
	assert.Equal(t, "Sharma Traders", req.PartyName)
}

func TestCreateWrapsGatewayFailure(t *testing.T) {
	gw := &mockGateway{createErr: errors.New("upstream down")}
	svc := NewService(gw)
	_, err := svc.Create(context.Background(), PrefillFromReturn("SR-1", 1, 2, "X"), "9")
	assert.Error(t, err)
}
