package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"appliance-rental-backend/internal/logger"

	"github.com/redis/go-redis/v9"
)

// ListingCache stores rendered listing views. Every key is scoped by a version
// counter so a single Invalidate drops all views at once.
//
// Get resolves the key against the version current at lookup time and returns
// that Slot even on a miss. Set writes to the Slot, so a view loaded before an
// Invalidate lands under the old version and is never served.
type ListingCache interface {
	Get(ctx context.Context, key string, dest any) (Slot, bool, error)
	Set(ctx context.Context, slot Slot, value any) error
	Invalidate(ctx context.Context) error
}

// Slot is a listing key bound to one cache version. The zero Slot discards writes.
type Slot string

const versionKey = "listings:version"

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to redisURL and verifies the connection.
func NewRedisCache(ctx context.Context, redisURL string, ttl time.Duration) (ListingCache, *redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return NewRedisCacheWithClient(client, ttl), client, nil
}

func NewRedisCacheWithClient(client *redis.Client, ttl time.Duration) ListingCache {
	return &redisCache{client: client, ttl: ttl}
}

func (c *redisCache) slot(ctx context.Context, key string) (Slot, error) {
	version, err := c.client.Get(ctx, versionKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}
	return Slot(fmt.Sprintf("listings:v%d:%s", version, key)), nil
}

func (c *redisCache) Get(ctx context.Context, key string, dest any) (Slot, bool, error) {
	slot, err := c.slot(ctx, key)
	if err != nil {
		return "", false, err
	}
	data, err := c.client.Get(ctx, string(slot)).Bytes()
	if errors.Is(err, redis.Nil) {
		return slot, false, nil
	}
	if err != nil {
		return slot, false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return slot, false, fmt.Errorf("failed to decode cached %s: %w", key, err)
	}
	return slot, true, nil
}

func (c *redisCache) Set(ctx context.Context, slot Slot, value any) error {
	if slot == "" {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, string(slot), data, c.ttl).Err()
}

func (c *redisCache) Invalidate(ctx context.Context) error {
	version, err := c.client.Incr(ctx, versionKey).Result()
	if err != nil {
		return err
	}
	logger.Debug("Listing cache invalidated", "version", version)
	return nil
}

type noopCache struct{}

// NewNoopCache returns a cache that never hits; used when Redis is not configured.
func NewNoopCache() ListingCache {
	return noopCache{}
}

func (noopCache) Get(context.Context, string, any) (Slot, bool, error) { return "", false, nil }
func (noopCache) Set(context.Context, Slot, any) error                 { return nil }
func (noopCache) Invalidate(context.Context) error                     { return nil }
