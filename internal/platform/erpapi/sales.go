package erpapi

import (
	"context"
	"net/url"
	"strconv"
)

// SearchCustomers returns customers matching the query string.
func (c *Client) SearchCustomers(ctx context.Context, query string) ([]Customer, error) {
	q := url.Values{}
	if query != "" {
		q.Set("search", query)
	}
	var raw []rawCustomer
	if err := c.get(ctx, "/customers", q, &raw); err != nil {
		return nil, err
	}
	customers := make([]Customer, 0, len(raw))
	for _, r := range raw {
		customers = append(customers, r.normalize())
	}
	return customers, nil
}

// GetCustomer fetches a single customer by id.
func (c *Client) GetCustomer(ctx context.Context, id int64) (*Customer, error) {
	var raw rawCustomer
	if err := c.get(ctx, "/customers/"+strconv.FormatInt(id, 10), nil, &raw); err != nil {
		return nil, err
	}
	customer := raw.normalize()
	return &customer, nil
}

// SaleOrdersByCustomer lists sale orders belonging to a customer.
func (c *Client) SaleOrdersByCustomer(ctx context.Context, customerID int64) ([]SaleOrder, error) {
	q := url.Values{}
	q.Set("customerId", strconv.FormatInt(customerID, 10))
	var raw []rawSaleOrder
	if err := c.get(ctx, "/sale-orders", q, &raw); err != nil {
		return nil, err
	}
	orders := make([]SaleOrder, 0, len(raw))
	for _, r := range raw {
		orders = append(orders, r.normalize())
	}
	return orders, nil
}

// SaleOrderLines fetches the line items of a sale order.
func (c *Client) SaleOrderLines(ctx context.Context, orderID int64) ([]OrderLine, error) {
	var raw []rawOrderLine
	if err := c.get(ctx, "/sale-orders/"+strconv.FormatInt(orderID, 10)+"/items", nil, &raw); err != nil {
		return nil, err
	}
	lines := make([]OrderLine, 0, len(raw))
	for _, r := range raw {
		lines = append(lines, r.normalize())
	}
	return lines, nil
}

// SubmitReturn persists a sale return and yields its identifiers.
func (c *Client) SubmitReturn(ctx context.Context, sub ReturnSubmission) (*ReturnReceipt, error) {
	var receipt ReturnReceipt
	if err := c.post(ctx, "/sale-returns", sub, &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}

// GetReturn re-fetches a persisted sale return for display or print.
func (c *Client) GetReturn(ctx context.Context, headerID int64) (*ReturnDocument, error) {
	var raw rawReturnDocument
	if err := c.get(ctx, "/sale-returns/"+strconv.FormatInt(headerID, 10), nil, &raw); err != nil {
		return nil, err
	}
	doc := raw.normalize()
	return &doc, nil
}

// ListReturns lists persisted sale returns, newest first.
func (c *Client) ListReturns(ctx context.Context, limit, offset int) ([]ReturnDocument, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	var raw []rawReturnDocument
	if err := c.get(ctx, "/sale-returns", q, &raw); err != nil {
		return nil, err
	}
	docs := make([]ReturnDocument, 0, len(raw))
	for _, r := range raw {
		docs = append(docs, r.normalize())
	}
	return docs, nil
}

// PostLedgerEntry records a financial adjustment against a customer balance.
func (c *Client) PostLedgerEntry(ctx context.Context, entry LedgerEntry) error {
	return c.post(ctx, "/ledger/receipts", entry, nil)
}

// GetCompanyProfile fetches branding and address fields for printing.
func (c *Client) GetCompanyProfile(ctx context.Context) (*CompanyProfile, error) {
	var raw rawCompanyProfile
	if err := c.get(ctx, "/company/profile", nil, &raw); err != nil {
		return nil, err
	}
	profile := raw.normalize()
	return &profile, nil
}

// MenuForUser fetches the caller's menu/permission set. The result must not
// be cached across requests; stale grants would outlive a re-login.
func (c *Client) MenuForUser(ctx context.Context) ([]MenuPermission, error) {
	var raw []rawMenuPermission
	if err := c.get(ctx, "/menu", nil, &raw); err != nil {
		return nil, err
	}
	perms := make([]MenuPermission, 0, len(raw))
	for _, r := range raw {
		perms = append(perms, r.normalize())
	}
	return perms, nil
}

// Login exchanges credentials for a token and user identity.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var raw rawLoginResult
	payload := map[string]string{"email": email, "password": password}
	if err := c.post(ctx, "/auth/login", payload, &raw); err != nil {
		return nil, err
	}
	result := raw.normalize()
	return &result, nil
}
