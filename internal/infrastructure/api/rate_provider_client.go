package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Oksentiy/currency-converter/internal/domain/apperror"
	"github.com/Oksentiy/currency-converter/internal/infrastructure/logger"
	"github.com/Oksentiy/currency-converter/internal/infrastructure/metrics"
	"github.com/shopspring/decimal"
)

const (
	latestRatesPath = "/latest"
	defaultTimeout  = 5 * time.Second
	maxBodyBytes    = 1 << 20
)

// Provider request outcomes, used as metric labels
const (
	outcomeSuccess       = "success"
	outcomeProviderError = "provider_error"
	outcomeUnavailable   = "unavailable"
)

// RateProviderClient talks to a Frankfurter-compatible "latest rates" API
type RateProviderClient struct {
	baseURL    string
	httpClient *http.Client
	logger     logger.Logger
	metrics    *metrics.Metrics
}

// NewRateProviderClient creates a client for baseURL. A nil httpClient gets a 5s timeout.
func NewRateProviderClient(baseURL string, httpClient *http.Client, log logger.Logger, m *metrics.Metrics) *RateProviderClient {
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: defaultTimeout,
		}
	}
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &RateProviderClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     log.WithField("component", "rate_provider"),
		metrics:    m,
	}
}

// LatestRatesResponse is the body of a successful /latest call.
// Rates are decoded straight into decimals so no precision is lost to float64.
type LatestRatesResponse struct {
	Amount decimal.Decimal            `json:"amount"`
	Base   string                     `json:"base"`
	Date   string                     `json:"date"`
	Rates  map[string]decimal.Decimal `json:"rates"`
}

// FetchRate retrieves the latest rate for converting from into to
func (c *RateProviderClient) FetchRate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	started := time.Now()

	reqURL := c.baseURL + latestRatesPath + "?" + url.Values{
		"from": {from},
		"to":   {to},
	}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		c.metrics.ObserveProviderRequest(outcomeUnavailable, started)
		return decimal.Zero, apperror.Wrap(apperror.RateUnavailable,
			fmt.Errorf("failed to create request: %w", err), "Network error: %s", err.Error())
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("Requesting exchange rate", map[string]interface{}{
		"url":  reqURL,
		"from": from,
		"to":   to,
	})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveProviderRequest(outcomeUnavailable, started)
		c.logger.Warn("Rate provider unreachable", map[string]interface{}{
			"from":  from,
			"to":    to,
			"error": err.Error(),
		})
		return decimal.Zero, apperror.Wrap(apperror.RateUnavailable, err, "Network error: %s", err.Error())
	}

	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn("Error closing response body", map[string]interface{}{
				"error": closeErr.Error(),
			})
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		c.metrics.ObserveProviderRequest(outcomeUnavailable, started)
		return decimal.Zero, apperror.Wrap(apperror.RateUnavailable,
			fmt.Errorf("failed to read response body: %w", err), "Network error: %s", err.Error())
	}

	rate, err := parseLatestRate(resp.StatusCode, body, to)
	if err != nil {
		c.metrics.ObserveProviderRequest(outcomeProviderError, started)
		c.logger.Warn("Unusable rate provider response", map[string]interface{}{
			"from":   from,
			"to":     to,
			"status": resp.StatusCode,
			"body":   truncate(string(body), 512),
			"error":  err.Error(),
		})
		return decimal.Zero, apperror.Wrap(apperror.ProviderError, err,
			"Failed to fetch exchange rate (status: %d)", resp.StatusCode)
	}

	c.metrics.ObserveProviderRequest(outcomeSuccess, started)
	c.logger.Info("Fetched exchange rate", map[string]interface{}{
		"from":        from,
		"to":          to,
		"rate":        rate.String(),
		"duration_ms": time.Since(started).Milliseconds(),
	})

	return rate, nil
}

func parseLatestRate(status int, body []byte, to string) (decimal.Decimal, error) {
	if status != http.StatusOK {
		return decimal.Zero, fmt.Errorf("API returned error status: %d", status)
	}

	var latest LatestRatesResponse
	if err := json.Unmarshal(body, &latest); err != nil {
		return decimal.Zero, fmt.Errorf("failed to decode response: %w", err)
	}

	if latest.Rates == nil {
		return decimal.Zero, fmt.Errorf("response has no rates object")
	}

	rate, ok := latest.Rates[to]
	if !ok {
		return decimal.Zero, fmt.Errorf("currency %s not found in response", to)
	}

	if !rate.IsPositive() {
		return decimal.Zero, fmt.Errorf("invalid exchange rate value: %s", rate.String())
	}

	return rate, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
