package cache

import (
	"context"
)

// Optimistic runs a mutation as snapshot -> apply guess -> commit or restore.
//
// guess receives the cached value of key and returns the intended result; it must not modify its argument in place.
// When key has no cached value (or a value of another type) nothing is patched.
// On failure the exact snapshot is restored before the error is returned.
// On both outcomes settle keys are invalidated (prefix match) so the next read reconciles with the server.
func Optimistic[T any, R any](ctx context.Context, c *Cache, key Key, guess func(current T) T, mutate func(ctx context.Context) (R, error), settle ...Key) (R, error) {
	snapshot, hasSnapshot := c.snapshot(key)
	if hasSnapshot && snapshot.hasValue {
		if current, ok := snapshot.value.(T); ok {
			c.Set(key, guess(current))
		} else {
			hasSnapshot = false
		}
	} else {
		hasSnapshot = false
	}
	result, err := mutate(ctx)
	if err != nil && hasSnapshot {
		c.restore(key, snapshot)
		c.metrics.IncCacheRollback()
	}
	for _, settleKey := range settle {
		c.Invalidate(settleKey)
	}
	return result, err
}
