package products

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-erp/meridian-erp/internal/platform/erpapi"
	"github.com/meridian-erp/meridian-erp/internal/shared"
)

type mockGateway struct {
	products    []erpapi.Product
	searchCalls int
}

func (m *mockGateway) SearchProducts(ctx context.Context, query string, limit, offset int) ([]erpapi.Product, error) {
	m.searchCalls++
	return m.products, nil
}

func (m *mockGateway) GetProduct(ctx context.Context, id int64) (*erpapi.Product, error) {
	for i := range m.products {
		if m.products[i].ID == id {
			return &m.products[i], nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *mockGateway) CreateProduct(ctx context.Context, in erpapi.ProductInput) (*erpapi.Product, error) {
	p := erpapi.Product{ID: 100, Name: in.Name, Rate: in.Rate}
	m.products = append(m.products, p)
	return &p, nil
}

func (m *mockGateway) UpdateProduct(ctx context.Context, id int64, in erpapi.ProductInput) (*erpapi.Product, error) {
	return &erpapi.Product{ID: id, Name: in.Name, Rate: in.Rate}, nil
}

func newCachedService(t *testing.T, gw *mockGateway, ttl time.Duration) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewService(gw, client, ttl)
}

func TestSearchUsesShortCache(t *testing.T) {
	gw := &mockGateway{products: []erpapi.Product{{ID: 11, Name: "Cement Bag", Rate: 600}}}
	svc := newCachedService(t, gw, time.Minute)
	ctx := context.Background()

	first, _, err := svc.Search(ctx, "cement", 1, 20)
	require.NoError(t, err)
	second, _, err := svc.Search(ctx, "cement", 1, 20)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, gw.searchCalls)

	// a different query misses the cache
	_, _, err = svc.Search(ctx, "steel", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 2, gw.searchCalls)
}

func TestSearchWithoutCache(t *testing.T) {
	gw := &mockGateway{}
	svc := NewService(gw, nil, 0)
	_, _, err := svc.Search(context.Background(), "cement", 1, 20)
	require.NoError(t, err)
	_, _, err = svc.Search(context.Background(), "cement", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 2, gw.searchCalls)
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(&mockGateway{}, nil, 0)
	ctx := context.Background()

	_, err := svc.Create(ctx, erpapi.ProductInput{Name: " "})
	assert.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.Create(ctx, erpapi.ProductInput{Name: "Cement", Rate: -1})
	assert.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.Create(ctx, erpapi.ProductInput{Name: "Cement", TaxPercent: 120})
	assert.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.Create(ctx, erpapi.ProductInput{Name: "Cement", Rate: 600, TaxPercent: 5})
	require.NoError(t, err)
}
