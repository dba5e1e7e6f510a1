// Package products exposes the product catalogue. Reads go through a short
// Redis cache so rapid repeated searches from the picker do not hammer the
// remote API; writes invalidate nothing because entries expire in seconds.
package products

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/meridian-erp/meridian-erp/internal/platform/erpapi"
	"github.com/meridian-erp/meridian-erp/internal/shared"
)

// Gateway supplies product records.
type Gateway interface {
	SearchProducts(ctx context.Context, query string, limit, offset int) ([]erpapi.Product, error)
	GetProduct(ctx context.Context, id int64) (*erpapi.Product, error)
	CreateProduct(ctx context.Context, in erpapi.ProductInput) (*erpapi.Product, error)
	UpdateProduct(ctx context.Context, id int64, in erpapi.ProductInput) (*erpapi.Product, error)
}

// Service handles catalogue lookups and maintenance.
type Service struct {
	gateway  Gateway
	cache    *redis.Client
	cacheTTL time.Duration
}

// NewService builds Service instance. A nil cache disables search caching.
func NewService(gateway Gateway, cache *redis.Client, cacheTTL time.Duration) *Service {
	if cacheTTL <= 0 {
		cacheTTL = 15 * time.Second
	}
	return &Service{gateway: gateway, cache: cache, cacheTTL: cacheTTL}
}

// Search returns catalogue entries matching the query.
func (s *Service) Search(ctx context.Context, query string, page, perPage int) ([]erpapi.Product, shared.Pagination, error) {
	query = strings.TrimSpace(query)
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 || perPage > 100 {
		perPage = 20
	}
	offset := (page - 1) * perPage

	if cached, ok := s.cachedSearch(ctx, query, perPage, offset); ok {
		return cached, shared.NewPagination(page, perPage, len(cached)), nil
	}

	products, err := s.gateway.SearchProducts(ctx, query, perPage, offset)
	if err != nil {
		return nil, shared.Pagination{}, fmt.Errorf("search products: %w", err)
	}
	s.storeSearch(ctx, query, perPage, offset, products)
	return products, shared.NewPagination(page, perPage, len(products)), nil
}

// Get fetches one product.
func (s *Service) Get(ctx context.Context, id int64) (*erpapi.Product, error) {
	if id <= 0 {
		return nil, shared.Validationf("invalid product id")
	}
	return s.gateway.GetProduct(ctx, id)
}

// Create persists a new product.
func (s *Service) Create(ctx context.Context, in erpapi.ProductInput) (*erpapi.Product, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	return s.gateway.CreateProduct(ctx, in)
}

// Update replaces a product record.
func (s *Service) Update(ctx context.Context, id int64, in erpapi.ProductInput) (*erpapi.Product, error) {
	if id <= 0 {
		return nil, shared.Validationf("invalid product id")
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}
	return s.gateway.UpdateProduct(ctx, id, in)
}

func validateInput(in erpapi.ProductInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return shared.Validationf("product name required")
	}
	if in.Rate < 0 {
		return shared.Validationf("product rate cannot be negative")
	}
	if in.TaxPercent < 0 || in.TaxPercent > 100 {
		return shared.Validationf("tax percent must be between 0 and 100")
	}
	return nil
}

func (s *Service) cachedSearch(ctx context.Context, query string, limit, offset int) ([]erpapi.Product, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, err := s.cache.Get(ctx, searchKey(query, limit, offset)).Bytes()
	if err != nil {
		return nil, false
	}
	var products []erpapi.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, false
	}
	return products, true
}

func (s *Service) storeSearch(ctx context.Context, query string, limit, offset int, products []erpapi.Product) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(products)
	if err != nil {
		return
	}
	_ = s.cache.Set(ctx, searchKey(query, limit, offset), data, s.cacheTTL).Err()
}

func searchKey(query string, limit, offset int) string {
	return fmt.Sprintf("product_search:%s:%d:%d", strings.ToLower(query), limit, offset)
}
