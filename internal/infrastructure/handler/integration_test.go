// internal/infrastructure/handler/integration_test.go
package handler_test

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Oksentiy/currency-converter/internal/application/service"
	"github.com/Oksentiy/currency-converter/internal/domain/apperror"
	"github.com/Oksentiy/currency-converter/internal/domain/entity"
	"github.com/Oksentiy/currency-converter/internal/infrastructure/handler"
	"github.com/Oksentiy/currency-converter/internal/infrastructure/logger"
	"github.com/Oksentiy/currency-converter/internal/infrastructure/metrics"
	"github.com/Oksentiy/currency-converter/internal/mocks"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// setupTestServer creates a test server with a mocked rate repository
func setupTestServer(t *testing.T, rates *mocks.MockExchangeRateRepository) *httptest.Server {
	t.Helper()

	log := logger.Nop()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	conversionService := service.NewConversionService(rates, log, m)
	conversionHandler := handler.NewConversionHandler(conversionService, entity.DefaultCurrencies, log)

	server := httptest.NewServer(handler.NewRouter(conversionHandler, reg, log))
	t.Cleanup(server.Close)
	return server
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func decodeError(t *testing.T, body []byte) handler.ErrorResponse {
	t.Helper()
	var errResp handler.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &errResp))
	return errResp
}

func TestConvertEndpoint(t *testing.T) {
	rates := new(mocks.MockExchangeRateRepository)
	server := setupTestServer(t, rates)

	rates.On("FindRate", mock.Anything, "USD", "EUR").
		Return(&entity.ExchangeRate{From: "USD", To: "EUR", Rate: decimal.RequireFromString("0.85")}, nil)

	t.Run("Successful conversion", func(t *testing.T) {
		resp, body := get(t, server.URL+"/api/v1/convert?amount=123.45&from=USD&to=EUR")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
		assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

		var convResp handler.ConversionResponse
		require.NoError(t, json.Unmarshal(body, &convResp))

		assert.Equal(t, 123.45, convResp.Amount)
		assert.Equal(t, "USD", convResp.From)
		assert.Equal(t, "EUR", convResp.To)
		assert.Equal(t, 0.85, convResp.Rate)
		assert.Equal(t, 104.93, convResp.Converted) // 123.45 * 0.85 = 104.9325
	})

	t.Run("Lowercase codes", func(t *testing.T) {
		resp, body := get(t, server.URL+"/api/v1/convert?amount=100&from=usd&to=eur")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, string(body), `"converted":85`)
	})

	t.Run("Missing parameter", func(t *testing.T) {
		resp, body := get(t, server.URL+"/api/v1/convert?amount=100&from=USD")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Missing parameter", decodeError(t, body).Error)
	})

	t.Run("Unsupported currency", func(t *testing.T) {
		resp, body := get(t, server.URL+"/api/v1/convert?amount=100&from=USD&to=jpy")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, decodeError(t, body).Description, "JPY")
	})

	t.Run("Invalid amount", func(t *testing.T) {
		resp, body := get(t, server.URL+"/api/v1/convert?amount=-5&from=USD&to=EUR")
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

		errResp := decodeError(t, body)
		assert.Equal(t, "INVALID_AMOUNT", errResp.Code)
		assert.Equal(t, "Amount must be greater than 0", errResp.Description)
		assert.Equal(t, resp.Header.Get("X-Request-ID"), errResp.RequestID)
	})

	t.Run("Same currency", func(t *testing.T) {
		resp, body := get(t, server.URL+"/api/v1/convert?amount=100&from=usd&to=USD")
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.Equal(t, "SAME_CURRENCY", decodeError(t, body).Code)
	})
}

func TestConvertEndpointRateFailures(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{
			name:   "Provider error",
			err:    apperror.New(apperror.ProviderError, "Failed to fetch exchange rate (status: 500)"),
			status: http.StatusBadGateway,
			code:   "PROVIDER_ERROR",
		},
		{
			name:   "Rate unavailable",
			err:    apperror.Wrap(apperror.RateUnavailable, errors.New("refused"), "Network error: refused"),
			status: http.StatusServiceUnavailable,
			code:   "RATE_UNAVAILABLE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rates := new(mocks.MockExchangeRateRepository)
			server := setupTestServer(t, rates)
			rates.On("FindRate", mock.Anything, "USD", "EUR").Return(nil, tt.err).Once()

			resp, body := get(t, server.URL+"/api/v1/convert?amount=100&from=USD&to=EUR")
			assert.Equal(t, tt.status, resp.StatusCode)

			errResp := decodeError(t, body)
			assert.Equal(t, tt.code, errResp.Code)
			assert.Equal(t, tt.err.Error(), errResp.Description)
			rates.AssertExpectations(t)
		})
	}
}

func TestAuxiliaryEndpoints(t *testing.T) {
	rates := new(mocks.MockExchangeRateRepository)
	server := setupTestServer(t, rates)

	resp, body := get(t, server.URL+"/api/v1/currencies")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var currencies handler.CurrenciesResponse
	require.NoError(t, json.Unmarshal(body, &currencies))
	assert.Equal(t, []string{"USD", "EUR", "GBP", "PLN", "CAD", "AUD"}, currencies.Currencies)

	resp, body = get(t, server.URL+"/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))

	// one rejected conversion so the counter has a sample
	get(t, server.URL+"/api/v1/convert?amount=abc&from=USD&to=EUR")
	resp, body = get(t, server.URL+"/metrics")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `fx_conversions_total{result="invalid_amount"} 1`)

	resp, _ = get(t, server.URL+"/api/v1/unknown")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
