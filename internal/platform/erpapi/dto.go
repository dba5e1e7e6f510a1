package erpapi

import "time"

// The remote API is inconsistent about field names across endpoints
// (rate vs saleRate vs price, name vs customerName). Raw structs capture the
// alternates; normalize() picks one value and the rest of the codebase only
// ever sees the clean form.

// Customer is a normalized customer record.
type Customer struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	City  string `json:"city,omitempty"`
}

type rawCustomer struct {
	ID           int64  `json:"id"`
	CustomerID   int64  `json:"customerId"`
	Name         string `json:"name"`
	CustomerName string `json:"customerName"`
	Phone        string `json:"phone"`
	MobileNo     string `json:"mobileNo"`
	City         string `json:"city"`
}

func (r rawCustomer) normalize() Customer {
	return Customer{
		ID:    firstID(r.ID, r.CustomerID),
		Name:  firstString(r.Name, r.CustomerName),
		Phone: firstString(r.Phone, r.MobileNo),
		City:  r.City,
	}
}

// SaleOrder is a normalized sale order header.
type SaleOrder struct {
	ID         int64     `json:"id"`
	Number     string    `json:"number"`
	CustomerID int64     `json:"customer_id"`
	OrderDate  time.Time `json:"order_date"`
	GrandTotal float64   `json:"grand_total"`
	Status     string    `json:"status"`
}

type rawSaleOrder struct {
	ID          int64     `json:"id"`
	SaleOrderID int64     `json:"saleOrderId"`
	Number      string    `json:"number"`
	OrderNo     string    `json:"orderNo"`
	CustomerID  int64     `json:"customerId"`
	OrderDate   time.Time `json:"orderDate"`
	GrandTotal  float64   `json:"grandTotal"`
	NetAmount   float64   `json:"netAmount"`
	Status      string    `json:"status"`
}

func (r rawSaleOrder) normalize() SaleOrder {
	return SaleOrder{
		ID:         firstID(r.ID, r.SaleOrderID),
		Number:     firstString(r.Number, r.OrderNo),
		CustomerID: r.CustomerID,
		OrderDate:  r.OrderDate,
		GrandTotal: firstFloat(r.GrandTotal, r.NetAmount),
		Status:     r.Status,
	}
}

// OrderLine is a normalized sale order line item.
type OrderLine struct {
	ProductID       int64   `json:"product_id"`
	ProductName     string  `json:"product_name"`
	Quantity        float64 `json:"quantity"`
	Rate            float64 `json:"rate"`
	DiscountPercent float64 `json:"discount_percent"`
	TaxPercent      float64 `json:"tax_percent"`
}

type rawOrderLine struct {
	ProductID       int64   `json:"productId"`
	ItemID          int64   `json:"itemId"`
	ProductName     string  `json:"productName"`
	ItemName        string  `json:"itemName"`
	Quantity        float64 `json:"quantity"`
	Qty             float64 `json:"qty"`
	Rate            float64 `json:"rate"`
	SaleRate        float64 `json:"saleRate"`
	Price           float64 `json:"price"`
	DiscountPercent float64 `json:"discountPercent"`
	Discount        float64 `json:"discount"`
	TaxPercent      float64 `json:"taxPercent"`
	Tax             float64 `json:"tax"`
}

func (r rawOrderLine) normalize() OrderLine {
	return OrderLine{
		ProductID:       firstID(r.ProductID, r.ItemID),
		ProductName:     firstString(r.ProductName, r.ItemName),
		Quantity:        firstFloat(r.Quantity, r.Qty),
		Rate:            firstFloat(r.Rate, r.SaleRate, r.Price),
		DiscountPercent: firstFloat(r.DiscountPercent, r.Discount),
		TaxPercent:      firstFloat(r.TaxPercent, r.Tax),
	}
}

// ReturnItem is one line of a return submission payload.
type ReturnItem struct {
	ProductID       int64   `json:"productId"`
	Quantity        float64 `json:"quantity"`
	Rate            float64 `json:"rate"`
	DiscountPercent float64 `json:"discountPercent"`
	TaxPercent      float64 `json:"taxPercent"`
	Amount          float64 `json:"amount"`
}

// ReturnSubmission is the payload accepted by the return endpoint.
type ReturnSubmission struct {
	ReturnDate  time.Time    `json:"returnDate"`
	SaleOrderID int64        `json:"saleOrderId"`
	CustomerID  int64        `json:"customerId"`
	Remarks     string       `json:"remarks,omitempty"`
	Items       []ReturnItem `json:"items"`
	CreatedBy   string       `json:"createdBy"`
}

// ReturnReceipt identifies a persisted sale return.
type ReturnReceipt struct {
	ReturnNumber       string `json:"returnNumber"`
	SaleReturnHeaderID int64  `json:"saleReturnHeaderId"`
}

// ReturnDocumentLine is a persisted return line as re-fetched for display.
type ReturnDocumentLine struct {
	ProductID       int64   `json:"product_id"`
	ProductName     string  `json:"product_name"`
	Quantity        float64 `json:"quantity"`
	Rate            float64 `json:"rate"`
	DiscountPercent float64 `json:"discount_percent"`
	TaxPercent      float64 `json:"tax_percent"`
	Amount          float64 `json:"amount"`
}

// ReturnDocument is a persisted sale return re-fetched for display or print.
// Persisted documents are read only; figures shown or printed always come
// from here, never from local form state.
type ReturnDocument struct {
	HeaderID     int64                `json:"header_id"`
	ReturnNumber string               `json:"return_number"`
	ReturnDate   time.Time            `json:"return_date"`
	CustomerID   int64                `json:"customer_id"`
	CustomerName string               `json:"customer_name"`
	SaleOrderID  int64                `json:"sale_order_id"`
	Remarks      string               `json:"remarks"`
	Items        []ReturnDocumentLine `json:"items"`
	SubTotal     float64              `json:"sub_total"`
	TotalTax     float64              `json:"total_tax"`
	GrandTotal   float64              `json:"grand_total"`
	Status       string               `json:"status"`
}

type rawReturnDocument struct {
	HeaderID     int64     `json:"id"`
	SaleReturnID int64     `json:"saleReturnHeaderId"`
	ReturnNumber string    `json:"returnNumber"`
	ReturnNo     string    `json:"returnNo"`
	ReturnDate   time.Time `json:"returnDate"`
	CustomerID   int64     `json:"customerId"`
	CustomerName string    `json:"customerName"`
	SaleOrderID  int64     `json:"saleOrderId"`
	Remarks      string    `json:"remarks"`
	Items        []struct {
		rawOrderLine
		Amount float64 `json:"amount"`
	} `json:"items"`
	SubTotal   float64 `json:"subTotal"`
	TotalTax   float64 `json:"totalTax"`
	GrandTotal float64 `json:"grandTotal"`
	Status     string  `json:"status"`
}

func (r rawReturnDocument) normalize() ReturnDocument {
	doc := ReturnDocument{
		HeaderID:     firstID(r.HeaderID, r.SaleReturnID),
		ReturnNumber: firstString(r.ReturnNumber, r.ReturnNo),
		ReturnDate:   r.ReturnDate,
		CustomerID:   r.CustomerID,
		CustomerName: r.CustomerName,
		SaleOrderID:  r.SaleOrderID,
		Remarks:      r.Remarks,
		SubTotal:     r.SubTotal,
		TotalTax:     r.TotalTax,
		GrandTotal:   r.GrandTotal,
		Status:       r.Status,
	}
	for _, item := range r.Items {
		line := item.rawOrderLine.normalize()
		doc.Items = append(doc.Items, ReturnDocumentLine{
			ProductID:       line.ProductID,
			ProductName:     line.ProductName,
			Quantity:        line.Quantity,
			Rate:            line.Rate,
			DiscountPercent: line.DiscountPercent,
			TaxPercent:      line.TaxPercent,
			Amount:          item.Amount,
		})
	}
	return doc
}

// LedgerEntry is the receipt-posting payload.
type LedgerEntry struct {
	CustomerID      int64     `json:"customerId"`
	Amount          float64   `json:"amount"`
	PaymentMode     string    `json:"paymentMode"`
	ReferenceNumber string    `json:"referenceNumber"`
	PaymentDate     time.Time `json:"paymentDate"`
	Remarks         string    `json:"remarks,omitempty"`
	CreatedBy       string    `json:"createdBy"`
}

// CompanyProfile carries branding and address fields for printed documents.
type CompanyProfile struct {
	Name         string `json:"name"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2,omitempty"`
	City         string `json:"city"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	TaxID        string `json:"tax_id"`
}

type rawCompanyProfile struct {
	Name         string `json:"name"`
	CompanyName  string `json:"companyName"`
	AddressLine1 string `json:"addressLine1"`
	Address      string `json:"address"`
	AddressLine2 string `json:"addressLine2"`
	City         string `json:"city"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	TaxID        string `json:"gstNo"`
}

func (r rawCompanyProfile) normalize() CompanyProfile {
	return CompanyProfile{
		Name:         firstString(r.Name, r.CompanyName),
		AddressLine1: firstString(r.AddressLine1, r.Address),
		AddressLine2: r.AddressLine2,
		City:         r.City,
		Phone:        r.Phone,
		Email:        r.Email,
		TaxID:        r.TaxID,
	}
}

// MenuPermission is one server-granted navigation capability.
type MenuPermission struct {
	Route   string `json:"route"`
	Title   string `json:"title"`
	CanView bool   `json:"can_view"`
	CanEdit bool   `json:"can_edit"`
}

type rawMenuPermission struct {
	Route    string `json:"route"`
	Path     string `json:"path"`
	Title    string `json:"title"`
	MenuName string `json:"menuName"`
	CanView  bool   `json:"canView"`
	CanEdit  bool   `json:"canEdit"`
}

func (r rawMenuPermission) normalize() MenuPermission {
	return MenuPermission{
		Route:   firstString(r.Route, r.Path),
		Title:   firstString(r.Title, r.MenuName),
		CanView: r.CanView,
		CanEdit: r.CanEdit,
	}
}

// LoginResult is the normalized login response.
type LoginResult struct {
	Token    string `json:"token"`
	UserID   int64  `json:"user_id"`
	UserName string `json:"user_name"`
}

type rawLoginResult struct {
	Token       string `json:"token"`
	AccessToken string `json:"accessToken"`
	UserID      int64  `json:"userId"`
	UserName    string `json:"userName"`
	FullName    string `json:"fullName"`
}

func (r rawLoginResult) normalize() LoginResult {
	return LoginResult{
		Token:    firstString(r.Token, r.AccessToken),
		UserID:   r.UserID,
		UserName: firstString(r.UserName, r.FullName),
	}
}

func firstString(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstFloat(values ...float64) float64 {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}

func firstID(values ...int64) int64 {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}
