package entity

import "strings"

// DefaultCurrencies is the list offered to users for selection
var DefaultCurrencies = []string{"USD", "EUR", "GBP", "PLN", "CAD", "AUD"}

// NormalizeCurrency trims and uppercases a currency code. Any string is accepted.
func NormalizeCurrency(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
