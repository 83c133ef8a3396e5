package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tubemetrics/domain/repository"
)

// KeyPrefix namespaces every cache entry in storage so Clear never touches
// credentials, usage data or the error log.
const KeyPrefix = "youtube_analytics_"

// DefaultTTL is applied when a caller does not pick one.
const DefaultTTL = 5 * time.Minute

// envelope is the stored form of a cache entry. Timestamps and durations are
// unix milliseconds.
type envelope struct {
	Value     json.RawMessage `json:"value"`
	Timestamp int64           `json:"timestamp"`
	Duration  int64           `json:"duration"`
}

// ResponseCache is a generic TTL cache over the injected storage. Values are
// JSON round-tripped on both write and read, so callers always receive an
// isolated copy and can never mutate a shared cached structure.
type ResponseCache struct {
	store      repository.IStorage
	defaultTTL time.Duration
	now        func() time.Time
}

type Option func(*ResponseCache)

// WithNow substitutes the clock, for tests.
func WithNow(now func() time.Time) Option {
	return func(c *ResponseCache) { c.now = now }
}

// WithDefaultTTL overrides the default entry lifetime.
func WithDefaultTTL(ttl time.Duration) Option {
	return func(c *ResponseCache) { c.defaultTTL = ttl }
}

func NewResponseCache(store repository.IStorage, opts ...Option) *ResponseCache {
	c := &ResponseCache{store: store, defaultTTL: DefaultTTL, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *ResponseCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cache value %s: %w", key, err)
	}
	env := envelope{
		Value:     raw,
		Timestamp: c.now().UnixMilli(),
		Duration:  ttl.Milliseconds(),
	}
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode cache entry %s: %w", key, err)
	}
	return c.store.Set(ctx, KeyPrefix+key, string(data))
}

func (c *ResponseCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	data, ok, err := c.store.Get(ctx, KeyPrefix+key)
	if err != nil || !ok {
		return false, err
	}
	var env envelope
	if err := json.Unmarshal([]byte(data), &env); err != nil {
		// Corrupt entry: evict and report a miss.
		_ = c.store.Remove(ctx, KeyPrefix+key)
		return false, nil
	}
	if c.now().UnixMilli()-env.Timestamp > env.Duration {
		_ = c.store.Remove(ctx, KeyPrefix+key)
		return false, nil
	}
	if err := json.Unmarshal(env.Value, dest); err != nil {
		return false, fmt.Errorf("decode cache value %s: %w", key, err)
	}
	return true, nil
}

func (c *ResponseCache) Remove(ctx context.Context, key string) error {
	return c.store.Remove(ctx, KeyPrefix+key)
}

func (c *ResponseCache) Clear(ctx context.Context) error {
	keys, err := c.store.KeysWithPrefix(ctx, KeyPrefix)
	if err != nil {
		return err
	}
	for _, k := range keys {
		if err := c.store.Remove(ctx, k); err != nil {
			return err
		}
	}
	return nil
}
