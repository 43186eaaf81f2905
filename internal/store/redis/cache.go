// Package redis holds the optional metadata cache. The cache is strictly
// best-effort: a miss, an unreachable Redis or a decode error all make the
// caller fall through to a live fetch.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/hmoreau/linkshelf/internal/domain"
)

// DefaultMetaTTL is the default TTL for cached metadata records.
const DefaultMetaTTL = 24 * time.Hour

// MetaCache caches fetch-meta results in Redis.
type MetaCache struct {
	client *goredis.Client
	ttl    time.Duration
}

// NewMetaCache creates a metadata cache. A zero ttl falls back to
// DefaultMetaTTL.
func NewMetaCache(client *goredis.Client, ttl time.Duration) *MetaCache {
	if ttl <= 0 {
		ttl = DefaultMetaTTL
	}
	return &MetaCache{client: client, ttl: ttl}
}

// Get returns the cached metadata for url. A cache miss returns (nil, nil).
func (c *MetaCache) Get(ctx context.Context, url string) (*domain.Metadata, error) {
	data, err := c.client.Get(ctx, MetaKey(url)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cached metadata: %w", err)
	}

	var meta domain.Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached metadata: %w", err)
	}
	return &meta, nil
}

// Set stores the metadata for url. Empty results are not cached so that a
// transient fetch failure does not shadow the page for a whole TTL.
func (c *MetaCache) Set(ctx context.Context, url string, meta domain.Metadata) error {
	if meta.Empty() {
		return nil
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	if err := c.client.Set(ctx, MetaKey(url), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache metadata: %w", err)
	}
	return nil
}
