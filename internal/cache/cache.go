// Package cache provides the Redis-backed cache layer: read-through caching
// for event lists and analytics, and the invalidation hook the booking core
// fires when an event's capacity state changes.
//
// Services call CapacityChanged strictly after the database transaction has
// committed, never before: evicting ahead of commit would let a concurrent
// reader repopulate the key with pre-commit stale data.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache keys. Eviction of EventKey and AnalyticsKey on every capacity
// change is the invalidation contract the booking core honors.
const (
	EventsKey    = "events:all"
	AnalyticsKey = "analytics:data"
)

// EventKey is the cache key for a single event.
func EventKey(eventID string) string {
	return fmt.Sprintf("event:%s", eventID)
}

// UserBookingsKey is the cache key for a user's booking history.
func UserBookingsKey(userID string) string {
	return fmt.Sprintf("user:%s:bookings", userID)
}

// Store is the cache interface consumed by the service layer. The zero
// cache (Noop) satisfies it for deployments without Redis.
type Store interface {
	// Get unmarshals the cached value into dest and reports a hit.
	Get(ctx context.Context, key string, dest any) (bool, error)
	// Set stores value under key with a TTL.
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	// Delete evicts keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error

	// CapacityChanged is the invalidation hook: fired exactly once per
	// committed transaction that changed an event's booked_count.
	CapacityChanged(ctx context.Context, eventID string) error
	// UserBookingsChanged evicts a user's booking history.
	UserBookingsChanged(ctx context.Context, userID string) error

	// Status reports the backend identity and health for the admin
	// cache-status endpoint.
	Status(ctx context.Context) (map[string]string, error)
	// Clear evicts everything.
	Clear(ctx context.Context) error
}

// Redis is the Redis-backed Store.
type Redis struct {
	client *redis.Client
}

// NewRedis connects to Redis at addr and verifies the connection.
func NewRedis(ctx context.Context, addr string) (*Redis, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Redis{client: client}, nil
}

// Close releases the underlying connection pool.
func (c *Redis) Close() error {
	return c.client.Close()
}

func (c *Redis) Get(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("cache decode %s: %w", key, err)
	}
	return true, nil
}

func (c *Redis) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

func (c *Redis) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

func (c *Redis) CapacityChanged(ctx context.Context, eventID string) error {
	return c.Delete(ctx, EventKey(eventID), EventsKey, AnalyticsKey)
}

func (c *Redis) UserBookingsChanged(ctx context.Context, userID string) error {
	return c.Delete(ctx, UserBookingsKey(userID))
}

func (c *Redis) Status(ctx context.Context) (map[string]string, error) {
	info, err := c.client.Info(ctx, "server", "memory", "clients").Result()
	if err != nil {
		return map[string]string{
			"cache_type": "redis",
			"status":     "error",
			"error":      err.Error(),
		}, nil
	}
	status := map[string]string{"cache_type": "redis", "status": "connected"}
	for _, line := range strings.Split(info, "\n") {
		k, v, ok := strings.Cut(strings.TrimSpace(line), ":")
		if !ok {
			continue
		}
		switch k {
		case "redis_version", "used_memory_human", "connected_clients":
			status[k] = v
		}
	}
	return status, nil
}

func (c *Redis) Clear(ctx context.Context) error {
	if err := c.client.FlushDB(ctx).Err(); err != nil {
		return fmt.Errorf("cache clear: %w", err)
	}
	return nil
}

// Noop satisfies Store for deployments without Redis: every read misses
// and every write succeeds.
type Noop struct{}

func (Noop) Get(context.Context, string, any) (bool, error)        { return false, nil }
func (Noop) Set(context.Context, string, any, time.Duration) error { return nil }
func (Noop) Delete(context.Context, ...string) error               { return nil }
func (Noop) CapacityChanged(context.Context, string) error         { return nil }
func (Noop) UserBookingsChanged(context.Context, string) error     { return nil }
func (Noop) Clear(context.Context) error                           { return nil }

func (Noop) Status(context.Context) (map[string]string, error) {
	return map[string]string{"cache_type": "none", "status": "disabled"}, nil
}
