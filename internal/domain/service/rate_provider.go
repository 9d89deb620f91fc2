package service

import (
	"context"

	"github.com/shopspring/decimal"
)

// RateProvider defines the interface for the external exchange rate API
type RateProvider interface {
	// FetchRate retrieves the latest rate for converting from into to
	FetchRate(ctx context.Context, from, to string) (decimal.Decimal, error)
}
