package repository

import (
	"context"
	"time"
)

// IResponseCache is a generic time-to-live cache for fetched API responses.
// The cache is strictly a derived layer: deleting every entry must never
// change correctness, only latency.
type IResponseCache interface {
	// Set stores value under key with the given TTL; ttl <= 0 selects the
	// cache default. Any existing entry is overwritten.
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	// Get unmarshals a fresh entry into dest and reports whether one was
	// found. Expired entries are evicted and treated as absent.
	Get(ctx context.Context, key string, dest any) (bool, error)
	// Remove evicts a single entry.
	Remove(ctx context.Context, key string) error
	// Clear evicts every entry this cache owns, leaving unrelated persisted
	// state untouched.
	Clear(ctx context.Context) error
}
