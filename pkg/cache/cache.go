package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache is a key-value cache with TTL support.
//
// TTL semantics for Set: positive expires after the duration, zero uses the
// backend default, negative never expires.
type Cache[V any] interface {
	Get(ctx context.Context, key string) (V, error)
	Set(ctx context.Context, key string, value V, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Marshaler converts values for byte-oriented backends.
type Marshaler[V any] interface {
	Marshal(v V) ([]byte, error)
	Unmarshal(data []byte) (V, error)
}

type jsonMarshaler[V any] struct{}

func (jsonMarshaler[V]) Marshal(v V) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Join(ErrMarshal, err)
	}
	return data, nil
}

func (jsonMarshaler[V]) Unmarshal(data []byte) (V, error) {
	var v V
	if err := json.Unmarshal(data, &v); err != nil {
		return v, errors.Join(ErrUnmarshal, err)
	}
	return v, nil
}

var group singleflight.Group

type loaded[V any] struct {
	val V
	ttl time.Duration
}

// GetOrSet returns the cached value for key or loads, stores, and returns it.
// Concurrent callers missing the same key share one load. Loader errors are
// returned as-is and nothing is cached. A failure to store the loaded value is
// ignored: the value is still returned.
func GetOrSet[V any](ctx context.Context, c Cache[V], key string, load func(ctx context.Context) (V, time.Duration, error)) (V, error) {
	if v, err := c.Get(ctx, key); err == nil {
		return v, nil
	} else if !errors.Is(err, ErrNotFound) {
		var zero V
		return zero, err
	}

	res, err, _ := group.Do(key, func() (any, error) {
		v, ttl, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return loaded[V]{val: v, ttl: ttl}, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}

	// A concurrent caller with a different V for the same key would fail this assertion.
	l, ok := res.(loaded[V])
	if !ok {
		v, _, err := load(ctx)
		return v, err
	}
	_ = c.Set(ctx, key, l.val, l.ttl)
	return l.val, nil
}
