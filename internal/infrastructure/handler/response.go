package handler

import (
	"encoding/json"
	"net/http"

	"github.com/Oksentiy/currency-converter/internal/infrastructure/logger"
)

func writeJSON(w http.ResponseWriter, log logger.Logger, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error("Failed to encode response", map[string]interface{}{
			"status": status,
			"error":  err.Error(),
		})
	}
}

func sendErrorResponse(w http.ResponseWriter, log logger.Logger, title, code, description string, status int, requestID string) {
	writeJSON(w, log, status, ErrorResponse{
		Error:       title,
		Code:        code,
		Status:      status,
		Description: description,
		RequestID:   requestID,
	})
}
