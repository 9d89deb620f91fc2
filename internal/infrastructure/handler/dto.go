package handler

// ConversionResponse represents the response for the convert endpoint.
// Numbers are rendered from decimals only after rounding.
type ConversionResponse struct {
	Amount    float64 `json:"amount"`
	From      string  `json:"from"`
	To        string  `json:"to"`
	Rate      float64 `json:"rate"`
	Converted float64 `json:"converted"`
}

// CurrenciesResponse lists the codes users may pick
type CurrenciesResponse struct {
	Currencies []string `json:"currencies"`
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error       string `json:"error"`
	Code        string `json:"code,omitempty"`
	Status      int    `json:"status"`
	Description string `json:"description,omitempty"`
	RequestID   string `json:"request_id,omitempty"`
}
