package images

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("image url not in cache")

// Cache stores resolved image URLs per SKU.
type Cache interface {
	Get(ctx context.Context, sku string) (string, error)
	Set(ctx context.Context, sku, url string) error
}

// RedisCache keeps resolved URLs for about as long as the HTTP response is
// cacheable downstream. Jitter spreads expiry so a page of products does not
// refresh at once.
type RedisCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		client:  client,
		baseTTL: time.Hour,
	}
}

func (r *RedisCache) Get(ctx context.Context, sku string) (string, error) {
	url, err := r.client.Get(ctx, cacheKey(sku)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	if err != nil {
		return "", fmt.Errorf("redis get failed: %w", err)
	}
	return url, nil
}

func (r *RedisCache) Set(ctx context.Context, sku, url string) error {
	jitter := time.Duration(rand.Intn(5)) * time.Minute
	if err := r.client.Set(ctx, cacheKey(sku), url, r.baseTTL+jitter).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func cacheKey(sku string) string {
	return fmt.Sprintf("product-image:%s", sku)
}
