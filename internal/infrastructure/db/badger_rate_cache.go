package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/shopspring/decimal"
)

// BadgerRateCache implements the rate cache on BadgerDB, using entry TTLs for expiry
type BadgerRateCache struct {
	db *badger.DB
}

// NewBadgerRateCache creates a new BadgerDB rate cache
func NewBadgerRateCache(db *badger.DB) *BadgerRateCache {
	return &BadgerRateCache{db: db}
}

// OpenBadger opens (or creates) a database at path with Badger's own logging disabled
func OpenBadger(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// Lookup returns the cached rate; Badger hides entries whose TTL has passed
func (c *BadgerRateCache) Lookup(ctx context.Context, key string) (decimal.Decimal, bool, error) {
	var rate decimal.Decimal

	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			parsed, err := decimal.NewFromString(string(val))
			if err != nil {
				return fmt.Errorf("failed to parse cached rate %q: %w", val, err)
			}
			rate = parsed
			return nil
		})
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return decimal.Zero, false, nil
	}

	if err != nil {
		return decimal.Zero, false, fmt.Errorf("failed to read %s: %w", key, err)
	}

	return rate, true, nil
}

// Store writes the rate with a TTL in one transaction
func (c *BadgerRateCache) Store(ctx context.Context, key string, rate decimal.Decimal, ttl time.Duration) error {
	err := c.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), []byte(rate.String())).WithTTL(ttl)
		return txn.SetEntry(entry)
	})

	if err != nil {
		return fmt.Errorf("failed to store %s: %w", key, err)
	}

	return nil
}
