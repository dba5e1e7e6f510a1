// Package customers exposes customer lookups for the front office. Data
// lives behind the remote API; this service only shapes and validates.
package customers

import (
	"context"
	"fmt"
	"strings"

	"github.com/meridian-erp/meridian-erp/internal/platform/erpapi"
	"github.com/meridian-erp/meridian-erp/internal/shared"
)

// Gateway supplies customer records.
type Gateway interface {
	SearchCustomers(ctx context.Context, query string) ([]erpapi.Customer, error)
	GetCustomer(ctx context.Context, id int64) (*erpapi.Customer, error)
}

// Service handles customer lookups.
type Service struct {
	gateway Gateway
}

// NewService builds Service instance.
func NewService(gateway Gateway) *Service {
	return &Service{gateway: gateway}
}

// Search returns customers matching the query. Very short queries are
// rejected to keep lookups selective.
func (s *Service) Search(ctx context.Context, query string) ([]erpapi.Customer, error) {
	query = strings.TrimSpace(query)
	if len(query) > 0 && len(query) < 2 {
		return nil, shared.Validationf("search term must be at least 2 characters")
	}
	customers, err := s.gateway.SearchCustomers(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search customers: %w", err)
	}
	return customers, nil
}

// Get fetches one customer.
func (s *Service) Get(ctx context.Context, id int64) (*erpapi.Customer, error) {
	if id <= 0 {
		return nil, shared.Validationf("invalid customer id")
	}
	return s.gateway.GetCustomer(ctx, id)
}
