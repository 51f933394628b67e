package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/lingo/pkg/redis"
)

func TestParseOptions(t *testing.T) {
	t.Parallel()

	t.Run("empty url", func(t *testing.T) {
		t.Parallel()

		_, err := redis.ParseOptions(redis.Config{})
		require.ErrorIs(t, err, redis.ErrEmptyConnectionURL)
	})

	t.Run("rejects non-redis schemes", func(t *testing.T) {
		t.Parallel()

		for _, url := range []string{"http://localhost:6379", "localhost:6379", "postgres://x"} {
			_, err := redis.ParseOptions(redis.Config{URL: url})
			require.ErrorIs(t, err, redis.ErrFailedToParseURL, url)
		}
	})

	t.Run("applies pool settings", func(t *testing.T) {
		t.Parallel()

		opts, err := redis.ParseOptions(redis.Config{
			URL:          "redis://localhost:6379/2",
			PoolSize:     20,
			MinIdleConns: 4,
			ReadTimeout:  time.Second,
		})
		require.NoError(t, err)
		require.Equal(t, "localhost:6379", opts.Addr)
		require.Equal(t, 2, opts.DB)
		require.Equal(t, 20, opts.PoolSize)
		require.Equal(t, 4, opts.MinIdleConns)
		require.Equal(t, time.Second, opts.ReadTimeout)
	})
}

func TestConfig_Enabled(t *testing.T) {
	t.Parallel()

	require.False(t, redis.Config{URL: "  "}.Enabled())
	require.True(t, redis.Config{URL: "redis://localhost:6379"}.Enabled())
}

func TestHealthcheck_NilClient(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, redis.Healthcheck(nil)(context.Background()), redis.ErrHealthcheckFailed)
}
