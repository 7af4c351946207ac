package server

import (
	"context"
	"time"

	"github.com/bytedance/sonic"
	"github.com/matst80/slask-catalogue/pkg/types"
	"github.com/redis/go-redis/v9"
)

// PageCache stores assembled catalogue pages keyed by their canonical URL.
// Only complete pages go in; redirects and errors are never cached.
type PageCache interface {
	Get(ctx context.Context, key string) (*types.CataloguePage, bool)
	Set(ctx context.Context, key string, page *types.CataloguePage)
}

type RedisCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisCache{Client: client, TTL: ttl}
}

func cacheKey(key string) string {
	return "catalogue:page:" + key
}

func (c *RedisCache) Get(ctx context.Context, key string) (*types.CataloguePage, bool) {
	data, err := c.Client.Get(ctx, cacheKey(key)).Bytes()
	if err != nil {
		return nil, false
	}
	page := &types.CataloguePage{}
	if err := sonic.Unmarshal(data, page); err != nil {
		return nil, false
	}
	return page, true
}

func (c *RedisCache) Set(ctx context.Context, key string, page *types.CataloguePage) {
	data, err := sonic.Marshal(page)
	if err != nil {
		return
	}
	c.Client.Set(ctx, cacheKey(key), data, c.TTL)
}
