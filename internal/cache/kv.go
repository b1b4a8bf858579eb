package cache

import (
	"context"
	"errors"
	"time"

	"github.com/EmpoweredVote/booth-results/internal/utils"
	"github.com/avast/retry-go/v4"
	"github.com/go-redis/redis/v8"
)

// ErrCacheMiss means the key is not present.
var ErrCacheMiss = errors.New("cache miss")

// KVStore is the subset of Redis used for response caching; tests substitute a map.
type KVStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// RedisKVStore implements KVStore on go-redis.
type RedisKVStore struct {
	client *redis.Client
}

func NewRedisKVStore(client *redis.Client) *RedisKVStore {
	return &RedisKVStore{client: client}
}

// Dial connects to Redis and verifies the connection with PING, retrying a few times.
func Dial(ctx context.Context, addr, password string, db int) (*RedisKVStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	err := retry.Do(func() error {
		return client.Ping(ctx).Err()
	}, retry.Context(ctx), utils.RetryAttempts, utils.RetryDelay, utils.RetryErr)
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	return NewRedisKVStore(client), nil
}

func (r *RedisKVStore) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", ErrCacheMiss
		}
		return "", err
	}
	return val, nil
}

func (r *RedisKVStore) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *RedisKVStore) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}

func (r *RedisKVStore) Close() error {
	return r.client.Close()
}

// NopKVStore never stores anything. Used when Redis is not configured.
type NopKVStore struct{}

func (NopKVStore) Get(context.Context, string) (string, error)              { return "", ErrCacheMiss }
func (NopKVStore) Set(context.Context, string, string, time.Duration) error { return nil }
func (NopKVStore) Del(context.Context, ...string) error                     { return nil }
