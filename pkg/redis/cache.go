package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"
)

// Cache provides typed JSON caching on top of Client. It carries its own
// runtime toggle so callers can bypass caching without tearing down the
// Redis connection.
type Cache struct {
	client   *Client
	prefix   string
	disabled atomic.Bool
}

// NewCache creates a new cache helper
func NewCache(client *Client, prefix string) *Cache {
	return &Cache{
		client: client,
		prefix: prefix,
	}
}

// Enable turns the cache back on
func (c *Cache) Enable() {
	c.disabled.Store(false)
}

// Disable makes all reads miss and all writes no-ops
func (c *Cache) Disable() {
	c.disabled.Store(true)
}

// Enabled reports whether the cache is usable right now
func (c *Cache) Enabled() bool {
	return c.client.Enabled() && !c.disabled.Load()
}

// Get retrieves a cached value. A missing or expired key is reported as
// (false, nil), not an error.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !c.Enabled() {
		return false, nil
	}

	fullKey := fmt.Sprintf("%s:cache:%s", c.prefix, key)
	data, err := c.client.Redis().Get(ctx, fullKey).Bytes()
	if err != nil {
		// Key not found is not an error
		return false, nil
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache unmarshal failed: %w", err)
	}

	return true, nil
}

// Set stores a value in cache with TTL
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !c.Enabled() {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal failed: %w", err)
	}

	fullKey := fmt.Sprintf("%s:cache:%s", c.prefix, key)
	return c.client.Redis().Set(ctx, fullKey, data, ttl).Err()
}

// Delete removes a cached value
func (c *Cache) Delete(ctx context.Context, key string) error {
	if !c.Enabled() {
		return nil
	}

	fullKey := fmt.Sprintf("%s:cache:%s", c.prefix, key)
	return c.client.Redis().Del(ctx, fullKey).Err()
}

// GetOrSet retrieves from cache or calls fn to populate it
func (c *Cache) GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, fn func() (interface{}, error)) error {
	// Try cache first
	found, err := c.Get(ctx, key, dest)
	if err != nil {
		return err
	}
	if found {
		return nil
	}

	// Cache miss - call function
	value, err := fn()
	if err != nil {
		return err
	}

	// Store in cache
	if err := c.Set(ctx, key, value, ttl); err != nil {
		// Log but don't fail
		return nil
	}

	// Unmarshal into dest
	data, _ := json.Marshal(value)
	return json.Unmarshal(data, dest)
}

// Predefined TTLs
const (
	TTLShort  = 1 * time.Minute  // live quotes
	TTLMedium = 10 * time.Minute // per-ticker summaries
	TTLLong   = 1 * time.Hour    // reference data
	TTLDaily  = 24 * time.Hour   // daily feed snapshots
)

// Common cache key generators
func TickerKey(symbol string) string {
	return fmt.Sprintf("ticker:%s", symbol)
}

func EstimateKey(symbol string) string {
	return fmt.Sprintf("estimate:%s", symbol)
}

func CalendarKey(symbol string) string {
	return fmt.Sprintf("calendar:%s", symbol)
}
