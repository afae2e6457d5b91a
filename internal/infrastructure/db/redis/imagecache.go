package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ImageCache stores rendered preview PNGs in Redis, keyed by the preview
// service (board id + updated-at, so stale entries age out naturally).
type ImageCache struct {
	client *redis.Client
}

// NewImageCache creates an ImageCache wrapping the given Redis client.
func NewImageCache(client *redis.Client) *ImageCache {
	return &ImageCache{client: client}
}

// Get returns the cached PNG, or (nil, nil) on a miss.
func (c *ImageCache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("image cache get: %w", err)
	}
	return data, nil
}

// Set stores the PNG with the given TTL.
func (c *ImageCache) Set(ctx context.Context, key string, png []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, png, ttl).Err(); err != nil {
		return fmt.Errorf("image cache set: %w", err)
	}
	return nil
}
