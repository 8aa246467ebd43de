package barcode

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

const cachePrefix = "barcode:"

type (
	// Cache stores product lookups keyed by barcode.
	Cache interface {
		Get(ctx context.Context, code string) (string, bool, error)
		Set(ctx context.Context, code string, value string, ttl time.Duration) error
	}

	redisCache struct {
		client *redis.Client
	}
)

func NewRedisCache(client *redis.Client) Cache {
	return &redisCache{client: client}
}

// NewRedisClient connects using a redis:// URL and pings once.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

func (c *redisCache) Get(ctx context.Context, code string) (string, bool, error) {
	v, err := c.client.Get(ctx, cachePrefix+code).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (c *redisCache) Set(ctx context.Context, code string, value string, ttl time.Duration) error {
	return c.client.Set(ctx, cachePrefix+code, value, ttl).Err()
}
