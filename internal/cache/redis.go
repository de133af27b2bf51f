package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stablemate/stablemate/internal/config"
)

type RedisCache struct {
	Client *redis.Client
}

// NewRedisCache initializes Redis client from config.
// Only Addr is mandatory, Password/DB are optional.
func NewRedisCache(cfg *config.Config) *RedisCache {
	opts := &redis.Options{
		Addr: cfg.Redis.Addr,
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}
	return &RedisCache{Client: redis.NewClient(opts)}
}

// NewRedisCacheFromClient wraps an existing client; used by tests with
// miniredis.
func NewRedisCacheFromClient(client *redis.Client) *RedisCache {
	return &RedisCache{Client: client}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return c.Client.Set(ctx, key, value, ttl).Err()
}

// Get returns the value for key, or "" on a cache miss.
func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	val, err := c.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return val, err
}

func (c *RedisCache) Del(ctx context.Context, key string) error {
	return c.Client.Del(ctx, key).Err()
}

func (c *RedisCache) Incr(ctx context.Context, key string) (int64, error) {
	return c.Client.Incr(ctx, key).Result()
}

func (c *RedisCache) Decr(ctx context.Context, key string) (int64, error) {
	return c.Client.Decr(ctx, key).Result()
}

func (c *RedisCache) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return c.Client.Expire(ctx, key, ttl).Err()
}

// KeyForLikeCount generates the Redis key for a horse's received-like count.
func (c *RedisCache) KeyForLikeCount(horseID string) string {
	return fmt.Sprintf("likes:count:%s", horseID)
}

// KeyForSession generates the Redis key for a server-side session record.
func (c *RedisCache) KeyForSession(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}

// GetLikeCount reads the cached like count for a horse. A miss returns
// (0, false, nil); hits refresh the TTL since the owner is active.
func (c *RedisCache) GetLikeCount(ctx context.Context, horseID string) (int64, bool, error) {
	key := c.KeyForLikeCount(horseID)
	val, err := c.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	} else if err != nil {
		return 0, false, err
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, err
	}
	_ = c.Client.Expire(ctx, key, time.Hour).Err()
	return n, true, nil
}

// SetLikeCount stores the like count for a horse with a fresh TTL.
func (c *RedisCache) SetLikeCount(ctx context.Context, horseID string, count int64) error {
	return c.Client.Set(ctx, c.KeyForLikeCount(horseID), count, time.Hour).Err()
}
