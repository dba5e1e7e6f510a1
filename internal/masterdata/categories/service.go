// Package categories maintains the category tree used by the catalogue.
package categories

import (
	"context"
	"fmt"
	"strings"

	"github.com/meridian-erp/meridian-erp/internal/platform/erpapi"
	"github.com/meridian-erp/meridian-erp/internal/shared"
)

// Gateway supplies category records.
type Gateway interface {
	ListCategories(ctx context.Context) ([]erpapi.Category, error)
	CreateCategory(ctx context.Context, name string) (*erpapi.Category, error)
	CreateSubcategory(ctx context.Context, categoryID int64, name string) (*erpapi.Subcategory, error)
}

// Service handles category maintenance.
type Service struct {
	gateway Gateway
}

// NewService builds Service instance.
func NewService(gateway Gateway) *Service {
	return &Service{gateway: gateway}
}

// List returns all categories with subcategories.
func (s *Service) List(ctx context.Context) ([]erpapi.Category, error) {
	categories, err := s.gateway.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// Create adds a category.
func (s *Service) Create(ctx context.Context, name string) (*erpapi.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.Validationf("category name required")
	}
	return s.gateway.CreateCategory(ctx, name)
}

// CreateSubcategory adds a subcategory under an existing category.
func (s *Service) CreateSubcategory(ctx context.Context, categoryID int64, name string) (*erpapi.Subcategory, error) {
	if categoryID <= 0 {
		return nil, shared.Validationf("invalid category id")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.Validationf("subcategory name required")
	}
	return s.gateway.CreateSubcategory(ctx, categoryID, name)
}
