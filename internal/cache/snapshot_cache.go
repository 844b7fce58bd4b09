// Package cache stores short-lived dashboard snapshots in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/homebuilt/warranty-service/internal/analytics"
)

const defaultPrefix = "warranty:metrics"

// Generation identifies the cache epoch a read was made in. A snapshot
// computed after a miss must be stored under the generation of that miss.
type Generation int64

// SnapshotCache keeps computed snapshots keyed by builder group.
type SnapshotCache interface {
	// Get returns the cached snapshot, or nil on a miss, together with the
	// generation the lookup ran against.
	Get(ctx context.Context, builderGroup string) (*analytics.Snapshot, Generation, error)
	Set(ctx context.Context, builderGroup string, gen Generation, snap analytics.Snapshot, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}

type redisSnapshotCache struct {
	client redis.Cmdable
	prefix string
}

// NewRedisSnapshotCache returns a cache backed by client. Invalidation bumps a
// generation counter so stale keys are never read again and expire on their
// own TTL.
func NewRedisSnapshotCache(client redis.Cmdable) SnapshotCache {
	return &redisSnapshotCache{client: client, prefix: defaultPrefix}
}

func (c *redisSnapshotCache) Get(ctx context.Context, builderGroup string) (*analytics.Snapshot, Generation, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		return nil, 0, err
	}
	raw, err := c.client.Get(ctx, SnapshotKey(c.prefix, gen, builderGroup)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, gen, nil
	}
	if err != nil {
		return nil, gen, fmt.Errorf("read snapshot: %w", err)
	}
	var snap analytics.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, gen, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, gen, nil
}

// Set writes snap under gen. If the cache was invalidated since gen was read
// the write lands on a key no reader will ask for.
func (c *redisSnapshotCache) Set(ctx context.Context, builderGroup string, gen Generation, snap analytics.Snapshot, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return c.client.Set(ctx, SnapshotKey(c.prefix, gen, builderGroup), raw, ttl).Err()
}

func (c *redisSnapshotCache) Invalidate(ctx context.Context) error {
	return c.client.Incr(ctx, c.generationKey()).Err()
}

func (c *redisSnapshotCache) generation(ctx context.Context) (Generation, error) {
	gen, err := c.client.Get(ctx, c.generationKey()).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, fmt.Errorf("read cache generation: %w", err)
	}
	return Generation(gen), nil
}

func (c *redisSnapshotCache) generationKey() string {
	return c.prefix + ":generation"
}

// SnapshotKey formats the Redis key for a builder group at a generation.
func SnapshotKey(prefix string, gen Generation, builderGroup string) string {
	if builderGroup == "" {
		builderGroup = analytics.AllBuilderGroups
	}
	return fmt.Sprintf("%s:g%d:%s", prefix, gen, builderGroup)
}
