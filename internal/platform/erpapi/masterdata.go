package erpapi

import (
	"context"
	"net/url"
	"strconv"
	"time"
)

// Product is a normalized catalogue entry.
type Product struct {
	ID            int64   `json:"id"`
	Code          string  `json:"code"`
	Name          string  `json:"name"`
	CategoryID    int64   `json:"category_id"`
	SubcategoryID int64   `json:"subcategory_id"`
	Rate          float64 `json:"rate"`
	TaxPercent    float64 `json:"tax_percent"`
	UOM           string  `json:"uom"`
	IsActive      bool    `json:"is_active"`
}

type rawProduct struct {
	ID            int64   `json:"id"`
	ProductID     int64   `json:"productId"`
	Code          string  `json:"code"`
	ProductCode   string  `json:"productCode"`
	Name          string  `json:"name"`
	ProductName   string  `json:"productName"`
	CategoryID    int64   `json:"categoryId"`
	SubcategoryID int64   `json:"subcategoryId"`
	Rate          float64 `json:"rate"`
	SaleRate      float64 `json:"saleRate"`
	Price         float64 `json:"price"`
	TaxPercent    float64 `json:"taxPercent"`
	UOM           string  `json:"uom"`
	IsActive      bool    `json:"isActive"`
}

func (r rawProduct) normalize() Product {
	return Product{
		ID:            firstID(r.ID, r.ProductID),
		Code:          firstString(r.Code, r.ProductCode),
		Name:          firstString(r.Name, r.ProductName),
		CategoryID:    r.CategoryID,
		SubcategoryID: r.SubcategoryID,
		Rate:          firstFloat(r.Rate, r.SaleRate, r.Price),
		TaxPercent:    r.TaxPercent,
		UOM:           r.UOM,
		IsActive:      r.IsActive,
	}
}

// ProductInput is the create/update payload for a product.
type ProductInput struct {
	Code          string  `json:"code"`
	Name          string  `json:"name"`
	CategoryID    int64   `json:"categoryId"`
	SubcategoryID int64   `json:"subcategoryId,omitempty"`
	Rate          float64 `json:"rate"`
	TaxPercent    float64 `json:"taxPercent"`
	UOM           string  `json:"uom"`
	IsActive      bool    `json:"isActive"`
}

// Category groups products; Subcategories are nested one level deep.
type Category struct {
	ID            int64         `json:"id"`
	Name          string        `json:"name"`
	Subcategories []Subcategory `json:"subcategories,omitempty"`
}

// Subcategory belongs to exactly one category.
type Subcategory struct {
	ID         int64  `json:"id"`
	CategoryID int64  `json:"category_id"`
	Name       string `json:"name"`
}

// PriceList maps products to negotiated rates.
type PriceList struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	EffectiveFrom time.Time       `json:"effective_from"`
	Entries       []PriceListItem `json:"entries,omitempty"`
}

// PriceListItem is one product rate within a price list.
type PriceListItem struct {
	ProductID int64   `json:"product_id"`
	Rate      float64 `json:"rate"`
}

// SearchProducts returns catalogue entries matching the query.
func (c *Client) SearchProducts(ctx context.Context, query string, limit, offset int) ([]Product, error) {
	q := url.Values{}
	if query != "" {
		q.Set("search", query)
	}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	var raw []rawProduct
	if err := c.get(ctx, "/products", q, &raw); err != nil {
		return nil, err
	}
	products := make([]Product, 0, len(raw))
	for _, r := range raw {
		products = append(products, r.normalize())
	}
	return products, nil
}

// GetProduct fetches one product.
func (c *Client) GetProduct(ctx context.Context, id int64) (*Product, error) {
	var raw rawProduct
	if err := c.get(ctx, "/products/"+strconv.FormatInt(id, 10), nil, &raw); err != nil {
		return nil, err
	}
	p := raw.normalize()
	return &p, nil
}

// CreateProduct persists a new product and returns the stored record.
func (c *Client) CreateProduct(ctx context.Context, in ProductInput) (*Product, error) {
	var raw rawProduct
	if err := c.post(ctx, "/products", in, &raw); err != nil {
		return nil, err
	}
	p := raw.normalize()
	return &p, nil
}

// UpdateProduct replaces a product record.
func (c *Client) UpdateProduct(ctx context.Context, id int64, in ProductInput) (*Product, error) {
	var raw rawProduct
	if err := c.put(ctx, "/products/"+strconv.FormatInt(id, 10), in, &raw); err != nil {
		return nil, err
	}
	p := raw.normalize()
	return &p, nil
}

// ListCategories returns all categories with their subcategories.
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := c.get(ctx, "/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// CreateCategory persists a category.
func (c *Client) CreateCategory(ctx context.Context, name string) (*Category, error) {
	var cat Category
	if err := c.post(ctx, "/categories", map[string]string{"name": name}, &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

// CreateSubcategory persists a subcategory under a category.
func (c *Client) CreateSubcategory(ctx context.Context, categoryID int64, name string) (*Subcategory, error) {
	var sub Subcategory
	payload := map[string]any{"categoryId": categoryID, "name": name}
	if err := c.post(ctx, "/categories/"+strconv.FormatInt(categoryID, 10)+"/subcategories", payload, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// ListPriceLists returns price list headers.
func (c *Client) ListPriceLists(ctx context.Context) ([]PriceList, error) {
	var lists []PriceList
	if err := c.get(ctx, "/price-lists", nil, &lists); err != nil {
		return nil, err
	}
	return lists, nil
}

// GetPriceList fetches one price list with entries.
func (c *Client) GetPriceList(ctx context.Context, id int64) (*PriceList, error) {
	var list PriceList
	if err := c.get(ctx, "/price-lists/"+strconv.FormatInt(id, 10), nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// SavePriceList creates or replaces a price list.
func (c *Client) SavePriceList(ctx context.Context, list PriceList) (*PriceList, error) {
	var saved PriceList
	if list.ID == 0 {
		if err := c.post(ctx, "/price-lists", list, &saved); err != nil {
			return nil, err
		}
		return &saved, nil
	}
	if err := c.put(ctx, "/price-lists/"+strconv.FormatInt(list.ID, 10), list, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}
