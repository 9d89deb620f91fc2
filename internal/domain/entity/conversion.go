package entity

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/Oksentiy/currency-converter/internal/domain/apperror"
	"github.com/shopspring/decimal"
)

// ConversionRequest is the raw input of a single conversion
type ConversionRequest struct {
	Amount interface{}
	From   string
	To     string
}

// ConversionResult is the outcome of a successful conversion
type ConversionResult struct {
	Amount    decimal.Decimal `json:"amount"`
	From      string          `json:"from"`
	To        string          `json:"to"`
	Rate      decimal.Decimal `json:"rate"`
	Converted decimal.Decimal `json:"converted"`
}

// Bounds on the precision of an accepted amount
const (
	maxAmountExponent = 18
	minAmountExponent = -18
	maxAmountDigits   = 30
)

// ParseAmount converts raw user input into an exact decimal.
// Strings, json.Number, decimals, integers and floats are accepted.
// Amounts outside the supported precision are rejected as InvalidAmount.
func ParseAmount(raw interface{}) (decimal.Decimal, error) {
	d, err := parseAmount(raw)
	if err != nil {
		return decimal.Zero, err
	}
	if err := checkAmountBounds(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

func parseAmount(raw interface{}) (decimal.Decimal, error) {
	switch v := raw.(type) {
	case decimal.Decimal:
		return v, nil
	case *decimal.Decimal:
		if v != nil {
			return *v, nil
		}
	case string:
		return parseAmountString(v)
	case json.Number:
		return parseAmountString(v.String())
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int32:
		return decimal.NewFromInt32(v), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case float32:
		return parseAmountFloat(float64(v))
	case float64:
		return parseAmountFloat(v)
	}

	return decimal.Zero, apperror.New(apperror.InvalidAmount, "Invalid amount")
}

// checkAmountBounds keeps rounding and multiplication bounded for any accepted amount
func checkAmountBounds(d decimal.Decimal) error {
	exp := d.Exponent()
	if exp > maxAmountExponent || exp < minAmountExponent || d.NumDigits() > maxAmountDigits {
		return apperror.Wrap(apperror.InvalidAmount,
			fmt.Errorf("amount out of range: exponent %d, %d digits", exp, d.NumDigits()), "Invalid amount")
	}
	return nil
}

func parseAmountString(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, apperror.New(apperror.InvalidAmount, "Invalid amount")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, apperror.Wrap(apperror.InvalidAmount,
			fmt.Errorf("failed to parse amount %q: %w", s, err), "Invalid amount")
	}

	return d, nil
}

func parseAmountFloat(f float64) (decimal.Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, apperror.New(apperror.InvalidAmount, "Invalid amount")
	}

	// NewFromFloat uses the shortest decimal that round-trips, so 0.1 stays 0.1
	return decimal.NewFromFloat(f), nil
}
