// Package pricelists maintains negotiated product rates per customer tier.
package pricelists

import (
	"context"
	"fmt"
	"strings"

	"github.com/meridian-erp/meridian-erp/internal/platform/erpapi"
	"github.com/meridian-erp/meridian-erp/internal/shared"
)

// Gateway supplies price list records.
type Gateway interface {
	ListPriceLists(ctx context.Context) ([]erpapi.PriceList, error)
	GetPriceList(ctx context.Context, id int64) (*erpapi.PriceList, error)
	SavePriceList(ctx context.Context, list erpapi.PriceList) (*erpapi.PriceList, error)
}

// Service handles price list maintenance.
type Service struct {
	gateway Gateway
}

// NewService builds Service instance.
func NewService(gateway Gateway) *Service {
	return &Service{gateway: gateway}
}

// List returns all price list headers.
func (s *Service) List(ctx context.Context) ([]erpapi.PriceList, error) {
	lists, err := s.gateway.ListPriceLists(ctx)
	if err != nil {
		return nil, fmt.Errorf("list price lists: %w", err)
	}
	return lists, nil
}

// Get fetches one price list with entries.
func (s *Service) Get(ctx context.Context, id int64) (*erpapi.PriceList, error) {
	if id <= 0 {
		return nil, shared.Validationf("invalid price list id")
	}
	return s.gateway.GetPriceList(ctx, id)
}

// Save validates and stores a price list.
func (s *Service) Save(ctx context.Context, list erpapi.PriceList) (*erpapi.PriceList, error) {
	if strings.TrimSpace(list.Name) == "" {
		return nil, shared.Validationf("price list name required")
	}
	for _, entry := range list.Entries {
		if entry.ProductID <= 0 {
			return nil, shared.Validationf("price list entry missing product")
		}
		if entry.Rate < 0 {
			return nil, shared.Validationf("price list rate cannot be negative")
		}
	}
	return s.gateway.SavePriceList(ctx, list)
}
