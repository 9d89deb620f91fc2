// Package handler internal/infrastructure/handler/conversion_handler.go
package handler

import (
	"net/http"

	"github.com/Oksentiy/currency-converter/internal/application/service"
	"github.com/Oksentiy/currency-converter/internal/domain/apperror"
	"github.com/Oksentiy/currency-converter/internal/domain/entity"
	"github.com/Oksentiy/currency-converter/internal/infrastructure/logger"
	"github.com/Oksentiy/currency-converter/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
)

// ConversionHandler handles HTTP requests for currency conversion
type ConversionHandler struct {
	service    *service.ConversionService
	currencies []string
	supported  map[string]bool
	logger     logger.Logger
}

// NewConversionHandler creates a new conversion handler. Only codes in currencies are accepted.
func NewConversionHandler(service *service.ConversionService, currencies []string, log logger.Logger) *ConversionHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}
	if len(currencies) == 0 {
		currencies = entity.DefaultCurrencies
	}

	supported := make(map[string]bool, len(currencies))
	for _, code := range currencies {
		supported[entity.NormalizeCurrency(code)] = true
	}

	return &ConversionHandler{
		service:    service,
		currencies: currencies,
		supported:  supported,
		logger:     log,
	}
}

// Convert handles GET /api/v1/convert?amount=&from=&to=
func (h *ConversionHandler) Convert(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	query := r.URL.Query()
	amount, from, to := query.Get("amount"), query.Get("from"), query.Get("to")

	if amount == "" || from == "" || to == "" {
		sendErrorResponse(w, h.logger, "Missing parameter", "",
			"The 'amount', 'from' and 'to' query parameters are required", http.StatusBadRequest, requestID)
		return
	}

	req := entity.ConversionRequest{Amount: amount, From: from, To: to}

	for _, code := range []string{req.From, req.To} {
		if !h.supported[entity.NormalizeCurrency(code)] {
			h.logger.Warn("Unsupported currency", map[string]interface{}{
				"request_id": requestID,
				"currency":   code,
			})
			sendErrorResponse(w, h.logger, "Unsupported currency", "",
				"Currency "+entity.NormalizeCurrency(code)+" is not supported", http.StatusBadRequest, requestID)
			return
		}
	}

	result, err := h.service.Convert(r.Context(), req.Amount, req.From, req.To)
	if err != nil {
		h.sendConversionError(w, err, requestID)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, ConversionResponse{
		Amount:    result.Amount.InexactFloat64(),
		From:      result.From,
		To:        result.To,
		Rate:      result.Rate.InexactFloat64(),
		Converted: result.Converted.InexactFloat64(),
	})
}

func (h *ConversionHandler) sendConversionError(w http.ResponseWriter, err error, requestID string) {
	kind := apperror.KindOf(err)

	switch kind {
	case apperror.InvalidAmount:
		sendErrorResponse(w, h.logger, "Invalid amount", string(kind), err.Error(), http.StatusUnprocessableEntity, requestID)
	case apperror.SameCurrency:
		sendErrorResponse(w, h.logger, "Same currency", string(kind), err.Error(), http.StatusUnprocessableEntity, requestID)
	case apperror.ProviderError:
		sendErrorResponse(w, h.logger, "Exchange rate provider error", string(kind), err.Error(), http.StatusBadGateway, requestID)
	case apperror.RateUnavailable:
		sendErrorResponse(w, h.logger, "Exchange rate service unavailable", string(kind), err.Error(), http.StatusServiceUnavailable, requestID)
	default:
		h.logger.Error("Unexpected error in conversion handler", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Internal server error", "",
			"An unexpected error occurred. Please try again later.", http.StatusInternalServerError, requestID)
	}
}

// Currencies handles GET /api/v1/currencies
func (h *ConversionHandler) Currencies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, CurrenciesResponse{Currencies: h.currencies})
}

// RegisterRoutes registers the conversion handler routes
func (h *ConversionHandler) RegisterRoutes(router *mux.Router) {
	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/convert", h.Convert).Methods(http.MethodGet)
	api.HandleFunc("/currencies", h.Currencies).Methods(http.MethodGet)

	h.logger.Info("Conversion routes registered", map[string]interface{}{
		"routes": []string{
			"GET /api/v1/convert",
			"GET /api/v1/currencies",
		},
	})
}
