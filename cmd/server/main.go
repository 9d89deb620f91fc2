package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Oksentiy/currency-converter/internal/application/service"
	"github.com/Oksentiy/currency-converter/internal/config"
	"github.com/Oksentiy/currency-converter/internal/domain/repository"
	"github.com/Oksentiy/currency-converter/internal/infrastructure/api"
	"github.com/Oksentiy/currency-converter/internal/infrastructure/cache"
	"github.com/Oksentiy/currency-converter/internal/infrastructure/db"
	"github.com/Oksentiy/currency-converter/internal/infrastructure/handler"
	"github.com/Oksentiy/currency-converter/internal/infrastructure/logger"
	"github.com/Oksentiy/currency-converter/internal/infrastructure/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.GetDefaultLogger().Fatal("Invalid configuration", map[string]interface{}{
			"error": err.Error(),
		})
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	log := logger.NewJSONLogger(os.Stdout, level).WithField("service", "currency-converter")
	logger.SetDefaultLogger(log)
	if err != nil {
		log.Warn("Falling back to INFO log level", map[string]interface{}{"error": err.Error()})
	}

	log.Info("Starting currency converter", map[string]interface{}{
		"addr":          cfg.HTTPAddr,
		"provider":      cfg.Provider.BaseURL,
		"cache_backend": cfg.Cache.Backend,
		"cache_ttl":     cfg.Cache.TTL.String(),
		"single_flight": cfg.Cache.SingleFlight,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	rateCache, closeCache, err := newRateCache(ctx, cfg.Cache, log)
	if err != nil {
		log.Fatal("Failed to initialize rate cache", map[string]interface{}{
			"backend": cfg.Cache.Backend,
			"error":   err.Error(),
		})
	}
	defer closeCache()

	// Initialize API client, repository and service
	provider := api.NewRateProviderClient(cfg.Provider.BaseURL, &http.Client{Timeout: cfg.Provider.Timeout}, log, m)
	rates := db.NewCachedRateRepository(rateCache, provider, db.CachedRateRepositoryOptions{
		TTL:          cfg.Cache.TTL,
		SingleFlight: cfg.Cache.SingleFlight,
		Logger:       log,
		Metrics:      m,
	})
	conversionService := service.NewConversionService(rates, log, m)

	// Initialize handlers
	conversionHandler := handler.NewConversionHandler(conversionService, cfg.SupportedCurrencies, log)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler.NewRouter(conversionHandler, reg, log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("Graceful shutdown failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	log.Info("Server listening", map[string]interface{}{"addr": cfg.HTTPAddr})
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("Server stopped", map[string]interface{}{"error": err.Error()})
		return
	}

	log.Info("Server stopped", nil)
}

// newRateCache builds the configured cache backend and a func that releases it
func newRateCache(ctx context.Context, cfg config.CacheConfig, log logger.Logger) (repository.RateCache, func(), error) {
	switch cfg.Backend {
	case config.BackendBadger:
		if err := os.MkdirAll(cfg.BadgerPath, 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create database directory: %w", err)
		}

		badgerDB, err := db.OpenBadger(cfg.BadgerPath)
		if err != nil {
			return nil, nil, err
		}

		return db.NewBadgerRateCache(badgerDB), func() {
			if err := badgerDB.Close(); err != nil {
				log.Error("Error closing BadgerDB", map[string]interface{}{"error": err.Error()})
			}
		}, nil

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("failed to reach redis at %s: %w", cfg.RedisAddr, err)
		}

		redisCache := cache.NewRedisRateCache(client, "")
		return redisCache, func() {
			if err := redisCache.Close(); err != nil {
				log.Error("Error closing redis client", map[string]interface{}{"error": err.Error()})
			}
		}, nil

	default:
		memoryCache := cache.NewMemoryRateCache()
		go memoryCache.RunJanitor(ctx, cfg.CleanupInterval)
		return memoryCache, func() {}, nil
	}
}
