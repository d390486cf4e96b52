package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/agencyhq/go-agency-ledger/internal/common"
)

// CacheRepository backs the idempotency middleware.
type CacheRepository interface {
	SetIfNotExists(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	// Get returns common.ErrDataNotFound for a missing key.
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
}

type cacheClient struct {
	redis *redis.Client
}

func NewCacheRepository(client *redis.Client) CacheRepository {
	return &cacheClient{redis: client}
}

func (cc *cacheClient) SetIfNotExists(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	return cc.redis.SetNX(ctx, key, value, ttl).Result()
}

func (cc *cacheClient) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	return cc.redis.Set(ctx, key, value, ttl).Err()
}

func (cc *cacheClient) Get(ctx context.Context, key string) (string, error) {
	val, err := cc.redis.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", common.ErrDataNotFound
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(val), nil
}

func (cc *cacheClient) Del(ctx context.Context, keys ...string) error {
	return cc.redis.Del(ctx, keys...).Err()
}

func (cc *cacheClient) Ping(ctx context.Context) error {
	return cc.redis.Ping(ctx).Err()
}
