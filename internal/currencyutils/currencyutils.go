// Package currencyutils formats monetary amounts for display.
package currencyutils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatAmount formats a decimal amount with two decimal places and the currency.
// Returns strings like "AED 1234.56" or "€1234.56"; an empty currency yields the bare amount.
func FormatAmount(amount decimal.Decimal, currency string) string {
	formattedAmount := amount.StringFixed(2)

	switch strings.ToUpper(currency) {
	case "":
		return formattedAmount
	case "EUR":
		return "€" + formattedAmount
	case "USD":
		return "$" + formattedAmount
	case "GBP":
		return "£" + formattedAmount
	default:
		return strings.ToUpper(currency) + " " + formattedAmount
	}
}

// Sum adds amounts.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
