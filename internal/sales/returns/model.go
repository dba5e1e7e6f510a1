package returns

import (
	"time"

	"github.com/meridian-erp/meridian-erp/internal/sales/shared"
	sharederr "github.com/meridian-erp/meridian-erp/internal/shared"
)

// State names the stages of the return workflow.
type State string

const (
	StateIdle                State = "idle"
	StateCustomerSelected    State = "customer_selected"
	StateSourceOrderSelected State = "source_order_selected"
	StateItemsLoaded         State = "items_loaded"
	StateSubmitting          State = "submitting"
	StateSaved               State = "saved"
)

// Line is one returnable line sourced from a sale order. Original order
// figures are kept alongside the chosen return quantity; derived amounts are
// always recomputed from the return quantity, never edited directly.
type Line struct {
	ProductID       int64              `json:"product_id"`
	ProductName     string             `json:"product_name"`
	OrderedQuantity float64            `json:"ordered_quantity"`
	Rate            float64            `json:"rate"`
	DiscountPercent float64            `json:"discount_percent"`
	TaxPercent      float64            `json:"tax_percent"`
	ReturnQuantity  float64            `json:"return_quantity"`
	Amounts         shared.LineAmounts `json:"amounts"`
}

// Draft is the in-progress return for one session. It lives in the draft
// store until submission succeeds; a saved return is immutable and is only
// ever re-fetched from the API for display or print.
type Draft struct {
	State           State                 `json:"state"`
	CustomerID      int64                 `json:"customer_id"`
	CustomerName    string                `json:"customer_name"`
	SaleOrderID     int64                 `json:"sale_order_id"`
	SaleOrderNumber string                `json:"sale_order_number"`
	ReturnDate      time.Time             `json:"return_date"`
	Remarks         string                `json:"remarks"`
	Lines           []Line                `json:"lines"`
	Totals          shared.DocumentTotals `json:"totals"`
}

// NewDraft returns an empty draft in the idle state.
func NewDraft() *Draft {
	return &Draft{State: StateIdle, ReturnDate: time.Now()}
}

// SelectCustomer switches the draft to a customer. Any previously selected
// source order and its items are cleared; stale lines must never survive a
// customer change.
func (d *Draft) SelectCustomer(id int64, name string) {
	d.CustomerID = id
	d.CustomerName = name
	d.SaleOrderID = 0
	d.SaleOrderNumber = ""
	d.Lines = nil
	d.Totals = shared.DocumentTotals{}
	d.State = StateCustomerSelected
}

// SelectSourceOrder records the chosen sale order and clears items pending a
// fresh load.
func (d *Draft) SelectSourceOrder(id int64, number string) error {
	if d.State == StateIdle {
		return sharederr.Validationf("select a customer before choosing an order")
	}
	d.SaleOrderID = id
	d.SaleOrderNumber = number
	d.Lines = nil
	d.Totals = shared.DocumentTotals{}
	d.State = StateSourceOrderSelected
	return nil
}

// LoadItems replaces the line set with freshly fetched order lines. Return
// quantities default to zero.
func (d *Draft) LoadItems(lines []Line) error {
	if d.State != StateSourceOrderSelected && d.State != StateItemsLoaded {
		return sharederr.Validationf("select a source order before loading items")
	}
	for i := range lines {
		lines[i].ReturnQuantity = 0
		lines[i].Amounts = shared.LineAmounts{}
	}
	d.Lines = lines
	d.State = StateItemsLoaded
	d.Recompute()
	return nil
}

// SetReturnQuantity updates one line's return quantity within
// [0, OrderedQuantity] and recomputes the totals.
func (d *Draft) SetReturnQuantity(productID int64, qty float64) error {
	if d.State != StateItemsLoaded {
		return sharederr.Validationf("no items loaded")
	}
	for i := range d.Lines {
		if d.Lines[i].ProductID != productID {
			continue
		}
		if qty < 0 {
			return sharederr.Validationf("return quantity cannot be negative")
		}
		if qty > d.Lines[i].OrderedQuantity {
			return sharederr.Validationf("return quantity %.2f exceeds ordered quantity %.2f", qty, d.Lines[i].OrderedQuantity)
		}
		d.Lines[i].ReturnQuantity = qty
		d.Recompute()
		return nil
	}
	return sharederr.Validationf("product %d is not on the selected order", productID)
}

// Recompute rederives every line's amounts from its return quantity and
// refreshes the document totals. It runs synchronously after each mutation.
func (d *Draft) Recompute() {
	amounts := make([]shared.LineAmounts, 0, len(d.Lines))
	for i := range d.Lines {
		d.Lines[i].Amounts = shared.CalculateLine(shared.LineInput{
			Quantity:        d.Lines[i].ReturnQuantity,
			Rate:            d.Lines[i].Rate,
			DiscountPercent: d.Lines[i].DiscountPercent,
			TaxPercent:      d.Lines[i].TaxPercent,
		})
		amounts = append(amounts, d.Lines[i].Amounts)
	}
	d.Totals = shared.Aggregate(amounts)
}

// ValidateForSubmit applies the local submission rules: at least one line
// with a positive return quantity and every quantity within bounds. Failing
// either rule rejects the submission before any network call.
func (d *Draft) ValidateForSubmit() error {
	if d.State != StateItemsLoaded {
		return sharederr.Validationf("return is not ready to submit")
	}
	hasPositive := false
	for _, l := range d.Lines {
		if l.ReturnQuantity < 0 || l.ReturnQuantity > l.OrderedQuantity {
			return sharederr.Validationf("return quantity for %s is out of range", l.ProductName)
		}
		if l.ReturnQuantity > 0 {
			hasPositive = true
		}
	}
	if !hasPositive {
		return sharederr.Validationf("at least one item must have a return quantity")
	}
	return nil
}

// TotalReturnQuantity sums the chosen return quantities, used for gate-pass
// follow-up parameters.
func (d *Draft) TotalReturnQuantity() float64 {
	var total float64
	for _, l := range d.Lines {
		total += l.ReturnQuantity
	}
	return total
}

// GatePassParams carries the values handed to the gate-pass form after a
// successful submission.
type GatePassParams struct {
	ReferenceNumber string  `json:"reference_number"`
	ReferenceID     int64   `json:"reference_id"`
	TotalQuantity   float64 `json:"total_quantity"`
	PartyName       string  `json:"party_name"`
}

// SubmitOutcome reports the result of a submission. LedgerPosted false with
// a non-empty Warning is the degraded success path: the return is saved but
// the credit could not be posted.
type SubmitOutcome struct {
	ReturnNumber string         `json:"return_number"`
	HeaderID     int64          `json:"header_id"`
	LedgerPosted bool           `json:"ledger_posted"`
	Warning      string         `json:"warning,omitempty"`
	GatePass     GatePassParams `json:"gate_pass"`
}
