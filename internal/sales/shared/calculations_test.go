package shared

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateLineWithoutDiscount(t *testing.T) {
	got := CalculateLine(LineInput{Quantity: 20, Rate: 600, DiscountPercent: 0, TaxPercent: 5})

	assert.InDelta(t, 0, got.DiscountPerUnit, 1e-9)
	assert.InDelta(t, 600, got.NetRate, 1e-9)
	assert.InDelta(t, 12000, got.TaxableAmount, 1e-9)
	assert.InDelta(t, 600, got.TaxAmount, 1e-9)
	assert.InDelta(t, 12600, got.Total, 1e-9)
}

func TestCalculateLineFractionalTax(t *testing.T) {
	got := CalculateLine(LineInput{Quantity: 25, Rate: 85, DiscountPercent: 0, TaxPercent: 5})

	assert.InDelta(t, 2125, got.TaxableAmount, 1e-9)
	assert.InDelta(t, 106.25, got.TaxAmount, 1e-9)
	assert.InDelta(t, 2231.25, got.Total, 1e-9)
}

func TestCalculateLineDiscountIsPerUnit(t *testing.T) {
	got := CalculateLine(LineInput{Quantity: 10, Rate: 200, DiscountPercent: 10, TaxPercent: 18})

	assert.InDelta(t, 20, got.DiscountPerUnit, 1e-9)
	assert.InDelta(t, 180, got.NetRate, 1e-9)
	assert.InDelta(t, 1800, got.TaxableAmount, 1e-9)
	assert.InDelta(t, 200, got.DiscountAmount, 1e-9)
	assert.InDelta(t, 324, got.TaxAmount, 1e-9)
	assert.InDelta(t, 2124, got.Total, 1e-9)
}

func TestCalculateLineMatchesClosedForm(t *testing.T) {
	cases := []LineInput{
		{Quantity: 3, Rate: 99.99, DiscountPercent: 12.5, TaxPercent: 18},
		{Quantity: 7, Rate: 1234.56, DiscountPercent: 2, TaxPercent: 28},
		{Quantity: 1, Rate: 0.01, DiscountPercent: 100, TaxPercent: 5},
	}
	for _, in := range cases {
		got := CalculateLine(in)
		want := in.Quantity * in.Rate * (1 - in.DiscountPercent/100) * (1 + in.TaxPercent/100)
		assert.InDelta(t, want, got.Total, 1e-9)
	}
}

func TestCalculateLineCoercesInvalidInputsToZero(t *testing.T) {
	got := CalculateLine(LineInput{Quantity: math.NaN(), Rate: 600, DiscountPercent: -5, TaxPercent: math.Inf(1)})

	assert.Zero(t, got.TaxableAmount)
	assert.Zero(t, got.TaxAmount)
	assert.Zero(t, got.Total)
	assert.InDelta(t, 600, got.NetRate, 1e-9)
}

func TestAggregateSumsLines(t *testing.T) {
	lines := []LineAmounts{
		CalculateLine(LineInput{Quantity: 20, Rate: 600, TaxPercent: 5}),
		CalculateLine(LineInput{Quantity: 25, Rate: 85, TaxPercent: 5}),
	}

	totals := Aggregate(lines)
	assert.InDelta(t, 14125, totals.SubTotal, 1e-9)
	assert.InDelta(t, 706.25, totals.TotalTax, 1e-9)
	assert.InDelta(t, totals.SubTotal+totals.TotalTax, totals.GrandTotal, 1e-9)
}

func TestAggregateEmptyIsZero(t *testing.T) {
	totals := Aggregate(nil)
	assert.Zero(t, totals.SubTotal)
	assert.Zero(t, totals.TotalTax)
	assert.Zero(t, totals.GrandTotal)
}
