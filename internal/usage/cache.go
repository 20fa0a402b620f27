package usage

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "usage:daily:"

// Cache is a short-TTL Redis cache for daily usage snapshots. It only serves
// the public usage-check endpoint, which browsers poll aggressively; the
// translation pipeline always reads the store directly. All cache errors
// fail open.
type Cache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

// NewCache creates a snapshot cache with the given TTL.
func NewCache(rdb redis.Cmdable, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

// Get returns the cached snapshot for date, or ok=false on miss or error.
func (c *Cache) Get(ctx context.Context, date string) (Snapshot, bool) {
	data, err := c.rdb.Get(ctx, cacheKeyPrefix+date).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("usage cache read failed", "error", err)
		}
		return Snapshot{}, false
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, false
	}
	return snap, true
}

// Set stores a snapshot under its date.
func (c *Cache) Set(ctx context.Context, snap Snapshot) {
	data, err := json.Marshal(snap)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, cacheKeyPrefix+snap.Date, data, c.ttl).Err(); err != nil {
		slog.Warn("usage cache write failed", "error", err)
	}
}

// Invalidate drops the cached snapshot for date. Called after every
// admission so the polled counter never lags a successful AI rewrite by
// more than one cache miss.
func (c *Cache) Invalidate(ctx context.Context, date string) {
	if err := c.rdb.Del(ctx, cacheKeyPrefix+date).Err(); err != nil {
		slog.Warn("usage cache invalidation failed", "error", err)
	}
}
