// Package orders exposes sale orders for the front office: listings per
// customer and line items with derived amounts for the returns picker.
package orders

import (
	"context"
	"fmt"

	"github.com/meridian-erp/meridian-erp/internal/platform/erpapi"
	"github.com/meridian-erp/meridian-erp/internal/sales/shared"
	sharederr "github.com/meridian-erp/meridian-erp/internal/shared"
)

// Gateway supplies sale orders and their line items.
type Gateway interface {
	SaleOrdersByCustomer(ctx context.Context, customerID int64) ([]erpapi.SaleOrder, error)
	SaleOrderLines(ctx context.Context, orderID int64) ([]erpapi.OrderLine, error)
}

// LineView is an order line with its derived amounts at full quantity.
type LineView struct {
	erpapi.OrderLine
	Amounts shared.LineAmounts `json:"amounts"`
}

// OrderView is a sale order with recomputed totals.
type OrderView struct {
	Order  erpapi.SaleOrder      `json:"order"`
	Lines  []LineView            `json:"lines"`
	Totals shared.DocumentTotals `json:"totals"`
}

// Service handles sale order lookups.
type Service struct {
	gateway Gateway
}

// NewService builds Service instance.
func NewService(gateway Gateway) *Service {
	return &Service{gateway: gateway}
}

// ListByCustomer returns a customer's sale orders.
func (s *Service) ListByCustomer(ctx context.Context, customerID int64) ([]erpapi.SaleOrder, error) {
	if customerID <= 0 {
		return nil, sharederr.Validationf("invalid customer id")
	}
	orders, err := s.gateway.SaleOrdersByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("list sale orders: %w", err)
	}
	return orders, nil
}

// Lines fetches an order's items and recomputes each line's amounts at the
// ordered quantity. Totals come out of the same calculator the return
// workflow uses, so the two views can never disagree.
func (s *Service) Lines(ctx context.Context, orderID int64) ([]LineView, shared.DocumentTotals, error) {
	if orderID <= 0 {
		return nil, shared.DocumentTotals{}, sharederr.Validationf("invalid order id")
	}
	lines, err := s.gateway.SaleOrderLines(ctx, orderID)
	if err != nil {
		return nil, shared.DocumentTotals{}, fmt.Errorf("load order items: %w", err)
	}

	views := make([]LineView, 0, len(lines))
	amounts := make([]shared.LineAmounts, 0, len(lines))
	for _, l := range lines {
		a := shared.CalculateLine(shared.LineInput{
			Quantity:        l.Quantity,
			Rate:            l.Rate,
			DiscountPercent: l.DiscountPercent,
			TaxPercent:      l.TaxPercent,
		})
		views = append(views, LineView{OrderLine: l, Amounts: a})
		amounts = append(amounts, a)
	}
	return views, shared.Aggregate(amounts), nil
}
