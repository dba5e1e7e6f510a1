// Package procurement handles purchase orders for the front office. Orders
// persist behind the remote API; line amounts come from the same calculator
// the sales side uses.
package procurement

import (
	"context"
	"fmt"
	"time"

	"github.com/meridian-erp/meridian-erp/internal/platform/erpapi"
	salesshared "github.com/meridian-erp/meridian-erp/internal/sales/shared"
	"github.com/meridian-erp/meridian-erp/internal/shared"
)

// Gateway supplies purchase orders and suppliers.
type Gateway interface {
	ListPurchaseOrders(ctx context.Context, status string, limit, offset int) ([]erpapi.PurchaseOrder, error)
	GetPurchaseOrder(ctx context.Context, id int64) (*erpapi.PurchaseOrder, error)
	CreatePurchaseOrder(ctx context.Context, in erpapi.PurchaseOrderInput) (*erpapi.PurchaseOrder, error)
	ReceivePurchaseOrder(ctx context.Context, id int64, receivedBy string) (*erpapi.PurchaseOrder, error)
	ListSuppliers(ctx context.Context, query string) ([]erpapi.Supplier, error)
}

// CreateLineRequest is one requested purchase order line.
type CreateLineRequest struct {
	ProductID       int64   `json:"product_id" validate:"required,gt=0"`
	ProductName     string  `json:"product_name"`
	Quantity        float64 `json:"quantity" validate:"required,gt=0"`
	Rate            float64 `json:"rate" validate:"gte=0"`
	DiscountPercent float64 `json:"discount_percent" validate:"gte=0,lte=100"`
	TaxPercent      float64 `json:"tax_percent" validate:"gte=0,lte=100"`
}

// CreateRequest is the validated input for a new purchase order.
type CreateRequest struct {
	SupplierID int64               `json:"supplier_id" validate:"required,gt=0"`
	OrderDate  time.Time           `json:"order_date"`
	Remarks    string              `json:"remarks" validate:"max=500"`
	Lines      []CreateLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// Service handles purchase order workflows.
type Service struct {
	gateway Gateway
}

// NewService builds Service instance.
func NewService(gateway Gateway) *Service {
	return &Service{gateway: gateway}
}

// List returns purchase orders filtered by status.
func (s *Service) List(ctx context.Context, status string, limit, offset int) ([]erpapi.PurchaseOrder, error) {
	return s.gateway.ListPurchaseOrders(ctx, status, limit, offset)
}

// Get fetches one purchase order with lines.
func (s *Service) Get(ctx context.Context, id int64) (*erpapi.PurchaseOrder, error) {
	if id <= 0 {
		return nil, shared.Validationf("invalid purchase order id")
	}
	return s.gateway.GetPurchaseOrder(ctx, id)
}

// Create computes line amounts and persists a purchase order.
func (s *Service) Create(ctx context.Context, req CreateRequest, createdBy string) (*erpapi.PurchaseOrder, error) {
	if len(req.Lines) == 0 {
		return nil, shared.Validationf("purchase order needs at least one line")
	}
	orderDate := req.OrderDate
	if orderDate.IsZero() {
		orderDate = time.Now()
	}

	lines := make([]erpapi.PurchaseOrderLine, 0, len(req.Lines))
	for _, l := range req.Lines {
		if l.Quantity <= 0 {
			return nil, shared.Validationf("line quantity must be positive")
		}
		amounts := salesshared.CalculateLine(salesshared.LineInput{
			Quantity:        l.Quantity,
			Rate:            l.Rate,
			DiscountPercent: l.DiscountPercent,
			TaxPercent:      l.TaxPercent,
		})
		lines = append(lines, erpapi.PurchaseOrderLine{
			ProductID:       l.ProductID,
			ProductName:     l.ProductName,
			Quantity:        l.Quantity,
			Rate:            l.Rate,
			DiscountPercent: l.DiscountPercent,
			TaxPercent:      l.TaxPercent,
			Amount:          amounts.Total,
		})
	}

	order, err := s.gateway.CreatePurchaseOrder(ctx, erpapi.PurchaseOrderInput{
		SupplierID: req.SupplierID,
		OrderDate:  orderDate,
		Remarks:    req.Remarks,
		Lines:      lines,
		CreatedBy:  createdBy,
	})
	if err != nil {
		return nil, fmt.Errorf("create purchase order: %w", err)
	}
	return order, nil
}

// Receive records goods receipt against an order.
func (s *Service) Receive(ctx context.Context, id int64, receivedBy string) (*erpapi.PurchaseOrder, error) {
	if id <= 0 {
		return nil, shared.Validationf("invalid purchase order id")
	}
	order, err := s.gateway.ReceivePurchaseOrder(ctx, id, receivedBy)
	if err != nil {
		return nil, fmt.Errorf("receive purchase order: %w", err)
	}
	return order, nil
}

// Suppliers returns suppliers matching the query.
func (s *Service) Suppliers(ctx context.Context, query string) ([]erpapi.Supplier, error) {
	return s.gateway.ListSuppliers(ctx, query)
}
