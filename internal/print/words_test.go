package print

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAmountInWords(t *testing.T) {
	cases := []struct {
		amount float64
		want   string
	}{
		{0, "Zero only"},
		{1, "One only"},
		{15, "Fifteen only"},
		{42, "Forty Two only"},
		{100, "One Hundred only"},
		{215, "Two Hundred Fifteen only"},
		{999, "Nine Hundred Ninety Nine only"},
		{1000, "One Thousand only"},
		{22000, "Twenty Two Thousand only"},
		{12600, "Twelve Thousand Six Hundred only"},
		{100000, "One Lakh only"},
		{2550000, "Twenty Five Lakh Fifty Thousand only"},
		{10000000, "One Crore only"},
		{12345678, "One Crore Twenty Three Lakh Forty Five Thousand Six Hundred Seventy Eight only"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, AmountInWords(tc.amount), "amount %v", tc.amount)
	}
}

func TestAmountInWordsPaise(t *testing.T) {
	assert.Equal(t, "Twenty Two Thousand and Fifty Paise only", AmountInWords(22000.50))
	assert.Equal(t, "Five Paise only", AmountInWords(0.05))
	assert.Equal(t, "Two Thousand Two Hundred Thirty One and Twenty Five Paise only", AmountInWords(2231.25))
}

func TestAmountInWordsRoundsToTwoDecimals(t *testing.T) {
	assert.Equal(t, "Ten only", AmountInWords(9.999))
	assert.Equal(t, "Nine and Ninety Nine Paise only", AmountInWords(9.994))
}

func TestAmountInWordsInvalidInputs(t *testing.T) {
	assert.Equal(t, "Zero only", AmountInWords(math.NaN()))
	assert.Equal(t, "Zero only", AmountInWords(-5))
	assert.Equal(t, "Zero only", AmountInWords(math.Inf(1)))
}
