// Package redis opens [github.com/redis/go-redis/v9] clients with startup
// retries and exposes healthcheck and shutdown hooks.
//
//	client, err := redis.Open(ctx, redis.Config{URL: "redis://localhost:6379/0"})
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
// Only redis:// and rediss:// (TLS) URLs are accepted.
package redis
