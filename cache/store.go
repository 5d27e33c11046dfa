// cache/store.go
package cache

import (
	"context"
	"time"
)

// Store is the key-value backend the query cache writes through.
//
// Contract:
// - Get reports a miss as (nil, false, nil); an error means the store itself
//   is unreachable, which the cache layer degrades around.
// - Delete and DeleteMany are idempotent.
// - Keys lists every key matching a glob-style pattern.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeleteMany(ctx context.Context, keys []string) error
	Keys(ctx context.Context, pattern string) ([]string, error)
}
