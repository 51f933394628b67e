package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a cache stored in Redis. Values are encoded with the Marshaler (JSON by default).
type Redis[V any] struct {
	client     redis.UniversalClient
	marshaler  Marshaler[V]
	prefix     string
	defaultTTL time.Duration
}

// RedisOption configures Redis.
type RedisOption func(*redisConfig)

type redisConfig struct {
	prefix     string
	defaultTTL time.Duration
}

// WithPrefix namespaces keys as "{prefix}:{key}".
func WithPrefix(prefix string) RedisOption {
	return func(c *redisConfig) { c.prefix = prefix }
}

// WithRedisDefaultTTL sets the TTL used when Set receives zero. Default: 1 hour.
func WithRedisDefaultTTL(d time.Duration) RedisOption {
	return func(c *redisConfig) { c.defaultTTL = d }
}

// NewRedis creates a Redis-backed cache. A nil Marshaler selects JSON.
// The client is owned by the caller; Close does not close it.
func NewRedis[V any](client redis.UniversalClient, m Marshaler[V], opts ...RedisOption) *Redis[V] {
	cfg := &redisConfig{defaultTTL: time.Hour}
	for _, opt := range opts {
		opt(cfg)
	}
	if m == nil {
		m = jsonMarshaler[V]{}
	}
	return &Redis[V]{client: client, marshaler: m, prefix: cfg.prefix, defaultTTL: cfg.defaultTTL}
}

func (r *Redis[V]) Get(ctx context.Context, key string) (V, error) {
	var zero V

	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return zero, ErrNotFound
		}
		return zero, err
	}
	return r.marshaler.Unmarshal(data)
}

func (r *Redis[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) error {
	data, err := r.marshaler.Marshal(value)
	if err != nil {
		return err
	}

	switch {
	case ttl == 0:
		ttl = r.defaultTTL
	case ttl < 0:
		ttl = 0 // go-redis: no expiration
	}
	return r.client.Set(ctx, r.key(key), data, ttl).Err()
}

func (r *Redis[V]) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.key(key)).Err()
}

func (r *Redis[V]) Close() error { return nil }

func (r *Redis[V]) key(k string) string {
	if r.prefix == "" {
		return k
	}
	return r.prefix + ":" + k
}
