package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// RateCache is a time-bounded store of previously fetched rates.
// Store replaces a key's value and expiry atomically.
type RateCache interface {
	// Lookup returns the rate for key if present and not expired
	Lookup(ctx context.Context, key string) (decimal.Decimal, bool, error)

	// Store saves rate under key for ttl
	Store(ctx context.Context, key string, rate decimal.Decimal, ttl time.Duration) error
}
