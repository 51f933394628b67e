// Package cache provides a generic TTL cache with in-memory and Redis backends.
//
// [GetOrSet] collapses concurrent misses for the same key into one call of
// the loader using singleflight:
//
//	principal, err := cache.GetOrSet(ctx, c, tokenHash, func(ctx context.Context) (Principal, time.Duration, error) {
//		p, err := store.Lookup(ctx, tokenHash)
//		return p, time.Minute, err
//	})
package cache
