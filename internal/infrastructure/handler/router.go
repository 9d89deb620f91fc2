package handler

import (
	"net/http"

	"github.com/Oksentiy/currency-converter/internal/infrastructure/logger"
	"github.com/Oksentiy/currency-converter/internal/infrastructure/middleware"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// recoveryLogger adapts logger.Logger to gorilla's RecoveryHandlerLogger
type recoveryLogger struct {
	log logger.Logger
}

func (l recoveryLogger) Println(v ...interface{}) {
	l.log.Error("Recovered from panic", map[string]interface{}{
		"panic": v,
	})
}

// NewRouter wires the API routes, health and metrics endpoints behind the common middleware
func NewRouter(conversion *ConversionHandler, gatherer prometheus.Gatherer, log logger.Logger) http.Handler {
	router := mux.NewRouter()
	conversion.RegisterRoutes(router)

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, log, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	if gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	router.Use(middleware.RequestIDMiddleware, middleware.LoggingMiddleware(log))

	return handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{log: log}),
		handlers.PrintRecoveryStack(false),
	)(router)
}
