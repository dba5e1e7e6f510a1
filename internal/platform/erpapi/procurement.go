package erpapi

import (
	"context"
	"net/url"
	"strconv"
	"time"
)

// PurchaseOrderLine is a normalized purchase order line.
type PurchaseOrderLine struct {
	ProductID       int64   `json:"product_id"`
	ProductName     string  `json:"product_name"`
	Quantity        float64 `json:"quantity"`
	Rate            float64 `json:"rate"`
	DiscountPercent float64 `json:"discount_percent"`
	TaxPercent      float64 `json:"tax_percent"`
	Amount          float64 `json:"amount"`
}

// PurchaseOrder is a normalized purchase order.
type PurchaseOrder struct {
	ID         int64               `json:"id"`
	Number     string              `json:"number"`
	SupplierID int64               `json:"supplier_id"`
	Supplier   string              `json:"supplier"`
	OrderDate  time.Time           `json:"order_date"`
	Status     string              `json:"status"`
	SubTotal   float64             `json:"sub_total"`
	TotalTax   float64             `json:"total_tax"`
	GrandTotal float64             `json:"grand_total"`
	Lines      []PurchaseOrderLine `json:"lines,omitempty"`
}

// PurchaseOrderInput is the create payload for a purchase order.
type PurchaseOrderInput struct {
	SupplierID int64               `json:"supplierId"`
	OrderDate  time.Time           `json:"orderDate"`
	Remarks    string              `json:"remarks,omitempty"`
	Lines      []PurchaseOrderLine `json:"items"`
	CreatedBy  string              `json:"createdBy"`
}

// Supplier is a normalized supplier record.
type Supplier struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ListPurchaseOrders lists purchase orders, optionally filtered by status.
func (c *Client) ListPurchaseOrders(ctx context.Context, status string, limit, offset int) ([]PurchaseOrder, error) {
	q := url.Values{}
	if status != "" {
		q.Set("status", status)
	}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	var orders []PurchaseOrder
	if err := c.get(ctx, "/purchase-orders", q, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetPurchaseOrder fetches one purchase order with lines.
func (c *Client) GetPurchaseOrder(ctx context.Context, id int64) (*PurchaseOrder, error) {
	var order PurchaseOrder
	if err := c.get(ctx, "/purchase-orders/"+strconv.FormatInt(id, 10), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// CreatePurchaseOrder persists a purchase order.
func (c *Client) CreatePurchaseOrder(ctx context.Context, in PurchaseOrderInput) (*PurchaseOrder, error) {
	var order PurchaseOrder
	if err := c.post(ctx, "/purchase-orders", in, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// ReceivePurchaseOrder records goods receipt (GRN) against a purchase order.
func (c *Client) ReceivePurchaseOrder(ctx context.Context, id int64, receivedBy string) (*PurchaseOrder, error) {
	var order PurchaseOrder
	payload := map[string]string{"receivedBy": receivedBy}
	if err := c.post(ctx, "/purchase-orders/"+strconv.FormatInt(id, 10)+"/receive", payload, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// ListSuppliers returns suppliers matching the query.
func (c *Client) ListSuppliers(ctx context.Context, query string) ([]Supplier, error) {
	q := url.Values{}
	if query != "" {
		q.Set("search", query)
	}
	var suppliers []Supplier
	if err := c.get(ctx, "/suppliers", q, &suppliers); err != nil {
		return nil, err
	}
	return suppliers, nil
}
