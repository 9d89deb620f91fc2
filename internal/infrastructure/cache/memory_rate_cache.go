package cache

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// CacheEntry represents a cached exchange rate with expiration
type CacheEntry struct {
	Rate      decimal.Decimal
	ExpiresAt time.Time
}

// MemoryRateCache provides a thread-safe in-memory cache for exchange rates
type MemoryRateCache struct {
	cache map[string]CacheEntry
	mutex sync.RWMutex
	now   func() time.Time
}

// NewMemoryRateCache creates an empty in-memory rate cache
func NewMemoryRateCache() *MemoryRateCache {
	return &MemoryRateCache{
		cache: make(map[string]CacheEntry),
		now:   time.Now,
	}
}

// Lookup retrieves a rate if present and not yet expired
func (c *MemoryRateCache) Lookup(_ context.Context, key string) (decimal.Decimal, bool, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, exists := c.cache[key]
	if !exists || !c.now().Before(entry.ExpiresAt) {
		return decimal.Zero, false, nil
	}

	return entry.Rate, true, nil
}

// Store saves a rate, replacing any previous value for key
func (c *MemoryRateCache) Store(_ context.Context, key string, rate decimal.Decimal, ttl time.Duration) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.cache[key] = CacheEntry{
		Rate:      rate,
		ExpiresAt: c.now().Add(ttl),
	}
	return nil
}

// Clear clears all entries from the cache
func (c *MemoryRateCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.cache = make(map[string]CacheEntry)
}

// Size returns the number of items in the cache, expired ones included
func (c *MemoryRateCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.cache)
}

// CleanExpired removes expired entries from the cache
func (c *MemoryRateCache) CleanExpired() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	count := 0
	now := c.now()

	for key, entry := range c.cache {
		if !now.Before(entry.ExpiresAt) {
			delete(c.cache, key)
			count++
		}
	}

	return count
}

// RunJanitor calls CleanExpired every interval until ctx is done
func (c *MemoryRateCache) RunJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.CleanExpired()
		}
	}
}
