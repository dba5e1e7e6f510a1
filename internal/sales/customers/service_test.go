package customers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-erp/meridian-erp/internal/platform/erpapi"
	"github.com/meridian-erp/meridian-erp/internal/shared"
)

type mockGateway struct {
	customers []erpapi.Customer
	searches  []string
}

func (m *mockGateway) SearchCustomers(ctx context.Context, query string) ([]erpapi.Customer, error) {
	m.searches = append(m.searches, query)
	return m.customers, nil
}

func (m *mockGateway) GetCustomer(ctx context.Context, id int64) (*erpapi.Customer, error) {
	for i := range m.customers {
		if m.customers[i].ID == id {
			return &m.customers[i], nil
		}
	}
	return nil, shared.ErrNotFound
}

func TestSearchPassesQueryThrough(t *testing.T) {
	gw := &mockGateway{customers: []erpapi.Customer{{ID: 7, Name: "Sharma Traders"}}}
	svc := NewService(gw)

	got, err := svc.Search(context.Background(), "  sharma ")
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, []string{"sharma"}, gw.searches)
}

func TestSearchRejectsSingleCharacter(t *testing.T) {
	svc := NewService(&mockGateway{})
	_, err := svc.Search(context.Background(), "s")
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestSearchAllowsEmptyQuery(t *testing.T) {
	gw := &mockGateway{}
	svc := NewService(gw)
	_, err := svc.Search(context.Background(), "")
	require.NoError(t, err)
}

func TestGetValidatesID(t *testing.T) {
	svc := NewService(&mockGateway{})
	_, err := svc.Get(context.Background(), 0)
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestGetNotFound(t *testing.T) {
	svc := NewService(&mockGateway{})
	_, err := svc.Get(context.Background(), 99)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
