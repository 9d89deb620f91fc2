// Package service internal/application/service/conversion_service.go
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Oksentiy/currency-converter/internal/domain/apperror"
	"github.com/Oksentiy/currency-converter/internal/domain/entity"
	"github.com/Oksentiy/currency-converter/internal/domain/repository"
	"github.com/Oksentiy/currency-converter/internal/infrastructure/logger"
	"github.com/Oksentiy/currency-converter/internal/infrastructure/metrics"
	"github.com/Oksentiy/currency-converter/internal/infrastructure/middleware"
)

// convertedPlaces is the number of decimal places kept in a converted amount
const convertedPlaces = 2

// ConversionService converts amounts between currencies. It holds no per-call state.
type ConversionService struct {
	rates   repository.ExchangeRateRepository
	logger  logger.Logger
	metrics *metrics.Metrics
}

// NewConversionService creates a new conversion service
func NewConversionService(rates repository.ExchangeRateRepository, log logger.Logger, m *metrics.Metrics) *ConversionService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &ConversionService{
		rates:   rates,
		logger:  log,
		metrics: m,
	}
}

// Convert validates the input, looks up the rate and returns amount*rate rounded half-up to cents.
// Every failure is an *apperror.Error whose message can be shown to the user as is.
func (s *ConversionService) Convert(ctx context.Context, amount interface{}, from, to string) (*entity.ConversionResult, error) {
	result, err := s.convert(ctx, amount, from, to)
	if err != nil {
		s.metrics.ObserveConversion(strings.ToLower(string(apperror.KindOf(err))))
		return nil, err
	}

	s.metrics.ObserveConversion("ok")
	return result, nil
}

func (s *ConversionService) convert(ctx context.Context, rawAmount interface{}, rawFrom, rawTo string) (*entity.ConversionResult, error) {
	requestID := middleware.GetRequestID(ctx)

	amount, err := entity.ParseAmount(rawAmount)
	if err != nil {
		s.logger.Warn("Rejected conversion amount", map[string]interface{}{
			"request_id": requestID,
			"amount":     fmt.Sprintf("%v", rawAmount),
		})
		return nil, err
	}

	from := entity.NormalizeCurrency(rawFrom)
	to := entity.NormalizeCurrency(rawTo)

	if !amount.IsPositive() {
		s.logger.Warn("Rejected non-positive amount", map[string]interface{}{
			"request_id": requestID,
			"amount":     amount.String(),
		})
		return nil, apperror.New(apperror.InvalidAmount, "Amount must be greater than 0")
	}

	if from == to {
		s.logger.Warn("Rejected conversion into the same currency", map[string]interface{}{
			"request_id": requestID,
			"currency":   from,
		})
		return nil, apperror.New(apperror.SameCurrency, "Currencies must be different")
	}

	s.logger.Debug("Finding exchange rate", map[string]interface{}{
		"request_id": requestID,
		"from":       from,
		"to":         to,
	})

	rate, err := s.rates.FindRate(ctx, from, to)
	if err != nil {
		s.logger.Error("Failed to get exchange rate", map[string]interface{}{
			"request_id": requestID,
			"from":       from,
			"to":         to,
			"error":      err.Error(),
		})

		if apperror.KindOf(err) == "" {
			return nil, apperror.Wrap(apperror.RateUnavailable, err, "Network error: %s", err.Error())
		}
		return nil, err
	}

	converted := amount.Mul(rate.Rate).Round(convertedPlaces)

	s.logger.Info("Conversion completed", map[string]interface{}{
		"request_id": requestID,
		"from":       from,
		"to":         to,
		"amount":     amount.String(),
		"rate":       rate.Rate.String(),
		"converted":  converted.String(),
	})

	return &entity.ConversionResult{
		Amount:    amount,
		From:      from,
		To:        to,
		Rate:      rate.Rate,
		Converted: converted,
	}, nil
}
