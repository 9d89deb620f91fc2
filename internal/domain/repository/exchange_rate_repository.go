// Package repository internal/domain/repository/exchange_rate_repository.go
package repository

import (
	"context"

	"github.com/Oksentiy/currency-converter/internal/domain/entity"
)

// ExchangeRateRepository defines the interface for exchange rate access
type ExchangeRateRepository interface {
	// FindRate returns the current rate for a normalized currency pair
	FindRate(ctx context.Context, from, to string) (*entity.ExchangeRate, error)
}
