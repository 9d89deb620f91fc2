// Package db internal/infrastructure/db/cached_rate_repository.go
package db

import (
	"context"
	"time"

	"github.com/Oksentiy/currency-converter/internal/domain/apperror"
	"github.com/Oksentiy/currency-converter/internal/domain/entity"
	"github.com/Oksentiy/currency-converter/internal/domain/repository"
	"github.com/Oksentiy/currency-converter/internal/domain/service"
	"github.com/Oksentiy/currency-converter/internal/infrastructure/logger"
	"github.com/Oksentiy/currency-converter/internal/infrastructure/metrics"
	"golang.org/x/sync/singleflight"
)

// DefaultRateTTL is how long a fetched rate is served from cache
const DefaultRateTTL = time.Hour

// CachedRateRepository serves rates from a RateCache and falls back to the provider on a miss
type CachedRateRepository struct {
	cache    repository.RateCache
	provider service.RateProvider
	ttl      time.Duration
	logger   logger.Logger
	metrics  *metrics.Metrics

	// group is nil when concurrent misses are allowed to fetch independently
	group *singleflight.Group
}

// CachedRateRepositoryOptions tunes a CachedRateRepository. Zero values pick defaults.
type CachedRateRepositoryOptions struct {
	TTL          time.Duration
	SingleFlight bool
	Logger       logger.Logger
	Metrics      *metrics.Metrics
}

// NewCachedRateRepository creates a new repository for exchange rates
func NewCachedRateRepository(cache repository.RateCache, provider service.RateProvider, opts CachedRateRepositoryOptions) *CachedRateRepository {
	if opts.TTL <= 0 {
		opts.TTL = DefaultRateTTL
	}
	if opts.Logger == nil {
		opts.Logger = logger.GetDefaultLogger()
	}

	r := &CachedRateRepository{
		cache:    cache,
		provider: provider,
		ttl:      opts.TTL,
		logger:   opts.Logger,
		metrics:  opts.Metrics,
	}
	if opts.SingleFlight {
		r.group = &singleflight.Group{}
	}

	return r
}

// FindRate returns the rate for a normalized pair, fetching and caching it on a miss.
// A failed fetch leaves the cache untouched.
func (r *CachedRateRepository) FindRate(ctx context.Context, from, to string) (*entity.ExchangeRate, error) {
	key := entity.RateCacheKey(from, to)

	rate, found, err := r.cache.Lookup(ctx, key)
	switch {
	case err != nil:
		// a broken cache must not block conversions
		r.metrics.ObserveCacheLookup(metrics.CacheError)
		r.logger.Warn("Rate cache lookup failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	case found:
		r.metrics.ObserveCacheLookup(metrics.CacheHit)
		r.logger.Debug("Rate cache hit", map[string]interface{}{
			"key":  key,
			"rate": rate.String(),
		})
		return &entity.ExchangeRate{From: from, To: to, Rate: rate}, nil
	default:
		r.metrics.ObserveCacheLookup(metrics.CacheMiss)
		r.logger.Debug("Rate cache miss", map[string]interface{}{
			"key": key,
		})
	}

	if r.group == nil {
		return r.fetchAndStore(ctx, key, from, to)
	}

	// the flight outlives any single caller; the provider's own timeout bounds it
	flightCtx := context.WithoutCancel(ctx)
	ch := r.group.DoChan(key, func() (interface{}, error) {
		// a flight that finished after our lookup may already have stored the rate
		if rate, found, err := r.cache.Lookup(flightCtx, key); err == nil && found {
			return &entity.ExchangeRate{From: from, To: to, Rate: rate}, nil
		}
		return r.fetchAndStore(flightCtx, key, from, to)
	})

	select {
	case <-ctx.Done():
		r.logger.Warn("Gave up waiting for rate fetch", map[string]interface{}{
			"key":   key,
			"error": ctx.Err().Error(),
		})
		return nil, apperror.Wrap(apperror.RateUnavailable, ctx.Err(), "Network error: %s", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			r.logger.Debug("Coalesced concurrent rate fetch", map[string]interface{}{
				"key": key,
			})
		}

		fetched := *res.Val.(*entity.ExchangeRate)
		return &fetched, nil
	}
}

func (r *CachedRateRepository) fetchAndStore(ctx context.Context, key, from, to string) (*entity.ExchangeRate, error) {
	rate, err := r.provider.FetchRate(ctx, from, to)
	if err != nil {
		r.logger.Error("Failed to retrieve exchange rate", map[string]interface{}{
			"from":  from,
			"to":    to,
			"error": err.Error(),
		})
		return nil, err
	}

	if err := r.cache.Store(ctx, key, rate, r.ttl); err != nil {
		r.logger.Warn("Failed to cache exchange rate", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}

	return &entity.ExchangeRate{From: from, To: to, Rate: rate}, nil
}
