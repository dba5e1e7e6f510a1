package shared

import "math"

// LineInput is the raw figure set for one document line. Values arrive from
// user input or remote payloads and may be NaN or negative.
type LineInput struct {
	Quantity        float64
	Rate            float64
	DiscountPercent float64
	TaxPercent      float64
}

// LineAmounts holds the derived amounts for one line. Nothing here is
// rounded; rounding happens only when a document is rendered for print.
type LineAmounts struct {
	DiscountPerUnit float64
	NetRate         float64
	TaxableAmount   float64
	TaxAmount       float64
	DiscountAmount  float64
	Total           float64
}

// DocumentTotals aggregates line amounts for a whole document.
type DocumentTotals struct {
	SubTotal      float64
	TotalTax      float64
	TotalDiscount float64
	GrandTotal    float64
}

// CalculateLine derives the amounts for one line. The computation order is
// fixed: per-unit discount off the rate, then taxable amount, then tax.
// Invalid inputs coerce to zero so a half-typed row never poisons totals.
func CalculateLine(in LineInput) LineAmounts {
	qty := sanitize(in.Quantity)
	rate := sanitize(in.Rate)
	discountPct := sanitize(in.DiscountPercent)
	taxPct := sanitize(in.TaxPercent)

	discountPerUnit := rate * discountPct / 100
	netRate := rate - discountPerUnit
	taxable := qty * netRate
	tax := taxable * taxPct / 100

	return LineAmounts{
		DiscountPerUnit: discountPerUnit,
		NetRate:         netRate,
		TaxableAmount:   taxable,
		TaxAmount:       tax,
		DiscountAmount:  qty * discountPerUnit,
		Total:           taxable + tax,
	}
}

// Aggregate recomputes document totals from the full line set. Callers run
// it synchronously after every mutation; totals are never stored apart from
// the lines they were derived from.
func Aggregate(lines []LineAmounts) DocumentTotals {
	var t DocumentTotals
	for _, l := range lines {
		t.SubTotal += l.TaxableAmount
		t.TotalTax += l.TaxAmount
		t.TotalDiscount += l.DiscountAmount
	}
	t.GrandTotal = t.SubTotal + t.TotalTax
	return t
}

func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
