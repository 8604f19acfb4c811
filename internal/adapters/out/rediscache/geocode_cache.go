// Package rediscache keeps forward geocoding answers in Redis so repeated
// addresses do not spend provider quota.
package rediscache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"logistics/internal/core/domain/model/kernel"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix  = "logistics"
	DefaultTTL = 7 * 24 * time.Hour
)

// Options configures the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
}

// NewClient connects to Redis and verifies the connection.
func NewClient(ctx context.Context, opts Options) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opts.Addr, err)
	}

	return client, nil
}

// GeocodeCache stores coordinates as "lng,lat" strings keyed by address.
type GeocodeCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewGeocodeCache creates the cache. A non-positive ttl uses DefaultTTL.
func NewGeocodeCache(client redis.Cmdable, ttl time.Duration) *GeocodeCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &GeocodeCache{client: client, ttl: ttl}
}

// Get reports false on a miss. A stored value that no longer parses is
// treated as a miss and removed.
func (c *GeocodeCache) Get(ctx context.Context, address string) (kernel.Coordinate, bool, error) {
	key := c.generateKey(address)

	value, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return kernel.Coordinate{}, false, nil
	}
	if err != nil {
		return kernel.Coordinate{}, false, err
	}

	point, err := kernel.ParseCoordinate(value)
	if err != nil {
		_ = c.client.Del(ctx, key).Err()
		return kernel.Coordinate{}, false, nil
	}

	return point, true, nil
}

func (c *GeocodeCache) Set(ctx context.Context, address string, point kernel.Coordinate) error {
	return c.client.Set(ctx, c.generateKey(address), point.String(), c.ttl).Err()
}

func (c *GeocodeCache) generateKey(address string) string {
	return fmt.Sprintf("%s:geocode:%s", keyPrefix, strings.TrimSpace(address))
}
