package print

import (
	"math"
	"strings"
)

var onesWords = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
	"Seventeen", "Eighteen", "Nineteen",
}

var tensWords = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}

// AmountInWords renders a money amount using Indian grouping, crore/lakh/
// thousand/hundred, suffixed with "only". The amount is rounded to two
// decimals; a non-zero fraction adds a paise clause.
//
//	22000    -> "Twenty Two Thousand only"
//	22000.50 -> "Twenty Two Thousand and Fifty Paise only"
func AmountInWords(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		amount = 0
	}
	rounded := math.Round(amount*100) / 100
	rupees := int64(rounded)
	paise := int64(math.Round((rounded - float64(rupees)) * 100))

	var parts []string
	if rupees == 0 && paise == 0 {
		return "Zero only"
	}
	if rupees > 0 {
		parts = append(parts, integerInWords(rupees))
	}
	if paise > 0 {
		clause := belowThousand(paise) + " Paise"
		if rupees > 0 {
			clause = "and " + clause
		}
		parts = append(parts, clause)
	}
	return strings.Join(parts, " ") + " only"
}

func integerInWords(n int64) string {
	var parts []string
	appendGroup := func(value int64, label string) {
		if value == 0 {
			return
		}
		word := belowThousand(value)
		if label != "" {
			word += " " + label
		}
		parts = append(parts, word)
	}

	appendGroup(n/10000000, "Crore")
	n %= 10000000
	appendGroup(n/100000, "Lakh")
	n %= 100000
	appendGroup(n/1000, "Thousand")
	n %= 1000
	appendGroup(n, "")

	return strings.Join(parts, " ")
}

func belowThousand(n int64) string {
	var parts []string
	if n >= 100 {
		parts = append(parts, onesWords[n/100]+" Hundred")
		n %= 100
	}
	if n >= 20 {
		if n%10 > 0 {
			parts = append(parts, tensWords[n/10]+" "+onesWords[n%10])
		} else {
			parts = append(parts, tensWords[n/10])
		}
	} else if n > 0 {
		parts = append(parts, onesWords[n])
	}
	return strings.Join(parts, " ")
}
