package entity

import "github.com/shopspring/decimal"

// ExchangeRate represents the rate for converting one unit of From into To
type ExchangeRate struct {
	From string          `json:"from"`
	To   string          `json:"to"`
	Rate decimal.Decimal `json:"rate"`
}

// RateCacheKey returns the cache key for a normalized currency pair
func RateCacheKey(from, to string) string {
	return "fx_rate:" + from + ":" + to
}
