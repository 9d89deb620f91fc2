// internal/mocks/mocks.go
package mocks

import (
	"context"
	"time"

	"github.com/Oksentiy/currency-converter/internal/domain/entity"
	"github.com/Oksentiy/currency-converter/internal/infrastructure/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockExchangeRateRepository mocks the ExchangeRateRepository interface
type MockExchangeRateRepository struct {
	mock.Mock
}

func (m *MockExchangeRateRepository) FindRate(ctx context.Context, from, to string) (*entity.ExchangeRate, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ExchangeRate), args.Error(1)
}

// MockRateProvider mocks the RateProvider interface
type MockRateProvider struct {
	mock.Mock
}

func (m *MockRateProvider) FetchRate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockRateCache mocks the RateCache interface
type MockRateCache struct {
	mock.Mock
}

func (m *MockRateCache) Lookup(ctx context.Context, key string) (decimal.Decimal, bool, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(decimal.Decimal), args.Bool(1), args.Error(2)
}

func (m *MockRateCache) Store(ctx context.Context, key string, rate decimal.Decimal, ttl time.Duration) error {
	args := m.Called(ctx, key, rate, ttl)
	return args.Error(0)
}

// MockLogger mocks the logger interface
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) Info(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) Warn(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) Error(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) Fatal(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

// WithField returns the mock itself so expectations keep applying to scoped loggers
func (m *MockLogger) WithField(key string, value interface{}) logger.Logger {
	return m
}

func (m *MockLogger) WithFields(fields map[string]interface{}) logger.Logger {
	return m
}
