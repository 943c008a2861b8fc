// Package cache provides an optional Redis read-through cache for derived
// calendar days.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/warp/calendar-engine/calendar"
)

// ErrMiss is returned by Get when the key is absent.
var ErrMiss = errors.New("cache miss")

// DefaultTTL bounds how long a cached day outlives its build.
const DefaultTTL = 24 * time.Hour

// RedisClient wraps redis.Client
type RedisClient struct {
	client *redis.Client
	prefix string
}

// NewRedisClient creates a new Redis client. It returns nil when Redis is
// unreachable so callers can run without a cache.
func NewRedisClient(host, port, password string) *RedisClient {
	addr := fmt.Sprintf("%s:%s", host, port)
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0, // use default DB
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("[Cache] Failed to connect to Redis at %s: %v", addr, err)
		client.Close()
		return nil
	}

	log.Printf("[Cache] Connected to Redis at %s", addr)
	return &RedisClient{client: client, prefix: "calendar"}
}

// NewFromClient wraps an existing client.
func NewFromClient(client *redis.Client, prefix string) *RedisClient {
	return &RedisClient{client: client, prefix: prefix}
}

// Set stores a value in Redis with expiration
func (r *RedisClient) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	if r == nil || r.client == nil {
		return fmt.Errorf("redis client not initialized")
	}

	jsonBytes, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return r.client.Set(ctx, key, jsonBytes, expiration).Err()
}

// Get retrieves a value from Redis
func (r *RedisClient) Get(ctx context.Context, key string, dest any) error {
	if r == nil || r.client == nil {
		return fmt.Errorf("redis client not initialized")
	}

	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return err
	}

	return json.Unmarshal([]byte(val), dest)
}

// Close closes the Redis connection
func (r *RedisClient) Close() error {
	if r != nil && r.client != nil {
		return r.client.Close()
	}
	return nil
}

// =============================================================================
// DAY CACHE
// =============================================================================

// DayKey is the cache key of one day of one calendar version. A rebuild
// changes the version, so stale entries are never read again and simply
// expire.
func (r *RedisClient) DayKey(version string, d calendar.Date) string {
	prefix := "calendar"
	if r != nil && r.prefix != "" {
		prefix = r.prefix
	}
	return fmt.Sprintf("%s:%s:day:%d", prefix, version, d.Key())
}

// GetDay returns a cached day. ok is false on a miss or when the cache is
// disabled; errors other than a miss are logged and treated as a miss.
func (r *RedisClient) GetDay(ctx context.Context, version string, d calendar.Date) (calendar.CalendarDay, bool) {
	if r == nil {
		return calendar.CalendarDay{}, false
	}
	var day calendar.CalendarDay
	if err := r.Get(ctx, r.DayKey(version, d), &day); err != nil {
		if !errors.Is(err, ErrMiss) {
			log.Printf("[Cache] Get %s failed: %v", d, err)
		}
		return calendar.CalendarDay{}, false
	}
	return day, true
}

// PutDay caches a day. Failures are logged; the cache is best effort.
func (r *RedisClient) PutDay(ctx context.Context, version string, day calendar.CalendarDay) {
	if r == nil {
		return
	}
	if err := r.Set(ctx, r.DayKey(version, day.Date), day, DefaultTTL); err != nil {
		log.Printf("[Cache] Put %s failed: %v", day.Date, err)
	}
}
