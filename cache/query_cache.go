// cache/query_cache.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	herd_errors "github.com/dairyops/herdwise/api/errors"
	logger "github.com/dairyops/herdwise/api/logging"
)

// FetchFn computes the authoritative value on a cache miss.
type FetchFn[T any] func(ctx context.Context) (T, error)

// QueryCache layers get-or-compute semantics over a Store. Caching here is a
// performance optimization, never a correctness dependency: if the store is
// unreachable every read degrades to a miss and the compute function still
// runs. Entries are written only after a compute fully returns, so a failed
// or cancelled compute never reaches the store.
type QueryCache struct {
	store Store
}

func NewQueryCache(store Store) *QueryCache {
	return &QueryCache{store: store}
}

// GetOrCompute returns the payload cached under key, or invokes compute and
// stores its result with the given TTL and tags. Compute errors propagate to
// the caller uncached. Concurrent misses for the same key may each invoke
// compute; last write wins on the store, which is safe for pure reads.
func (q *QueryCache) GetOrCompute(ctx context.Context, key string, ttl time.Duration, tags []string, compute FetchFn[[]byte]) ([]byte, error) {
	if key == "" {
		return nil, herd_errors.ErrInvalidCacheKey
	}
	if payload, ok := q.lookup(ctx, key); ok {
		return payload, nil
	}
	payload, err := compute(ctx)
	if err != nil {
		return nil, err
	}
	q.storeEntry(ctx, key, payload, ttl, tags)
	return payload, nil
}

// GetOrCompute is the typed wrapper over QueryCache for callers that want
// their values back as structs rather than raw payloads. Values round-trip
// through JSON; an entry that no longer unmarshals is dropped and recomputed.
func GetOrCompute[T any](ctx context.Context, q *QueryCache, key string, ttl time.Duration, tags []string, fetch FetchFn[T]) (T, error) {
	var zero T
	if key == "" {
		return zero, herd_errors.ErrInvalidCacheKey
	}
	if payload, ok := q.lookup(ctx, key); ok {
		var value T
		if err := json.Unmarshal(payload, &value); err == nil {
			return value, nil
		}
		logger.Warn("Dropping undecodable cache entry", zap.String("key", key))
		if err := q.InvalidateKey(ctx, key); err != nil {
			logger.Warn("Failed to drop cache entry", zap.String("key", key), zap.Error(err))
		}
	}

	value, err := fetch(ctx)
	if err != nil {
		return zero, err
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return zero, fmt.Errorf("failed to marshal cache value: %w", err)
	}
	q.storeEntry(ctx, key, payload, ttl, tags)
	return value, nil
}

// Invalidate removes every entry registered under tag. Safe to call on a tag
// with nothing stored (no-op). A store outage is logged and swallowed: the
// entries it would have removed are unreachable anyway while the store is
// down, and reads degrade to misses.
func (q *QueryCache) Invalidate(ctx context.Context, tag string) error {
	indexKeys, err := q.store.Keys(ctx, tagIndexPattern(tag))
	if err != nil {
		logger.Warn("Cache store unavailable during tag invalidation",
			zap.String("tag", tag),
			zap.Error(err))
		return nil
	}
	if len(indexKeys) == 0 {
		return nil
	}

	prefix := tagIndexPrefix + ":" + tag + ":"
	targets := make([]string, 0, len(indexKeys)*2)
	for _, indexKey := range indexKeys {
		targets = append(targets, strings.TrimPrefix(indexKey, prefix), indexKey)
	}
	if err := q.store.DeleteMany(ctx, targets); err != nil {
		logger.Warn("Failed to delete cache entries for tag",
			zap.String("tag", tag),
			zap.Int("entries", len(indexKeys)),
			zap.Error(err))
		return nil
	}

	logger.Debug("Invalidated cache tag",
		zap.String("tag", tag),
		zap.Int("entries", len(indexKeys)))
	return nil
}

// InvalidateKey removes a single entry by its exact key.
func (q *QueryCache) InvalidateKey(ctx context.Context, key string) error {
	if err := q.store.Delete(ctx, key); err != nil {
		logger.Warn("Cache store unavailable during key invalidation",
			zap.String("key", key),
			zap.Error(err))
	}
	return nil
}

// InvalidateTenant removes every entry namespaced to tenantID — both the
// derived entries (qc:{tenant}:...) and any tag registrations
// ({tenant}:{dataClass}). Used on tenant-level events where the affected data
// classes are too numerous to enumerate.
func (q *QueryCache) InvalidateTenant(ctx context.Context, tenantID string) error {
	if tenantID == "" {
		return herd_errors.ErrTenantRequired
	}

	var targets []string
	for _, pattern := range []string{tenantEntryPattern(tenantID), tenantIndexPattern(tenantID)} {
		keys, err := q.store.Keys(ctx, pattern)
		if err != nil {
			logger.Warn("Cache store unavailable during tenant invalidation",
				zap.String("tenantID", tenantID),
				zap.Error(err))
			return nil
		}
		targets = append(targets, keys...)
	}
	if len(targets) == 0 {
		return nil
	}

	if err := q.store.DeleteMany(ctx, targets); err != nil {
		logger.Warn("Failed to delete tenant cache entries",
			zap.String("tenantID", tenantID),
			zap.Error(err))
		return nil
	}

	logger.Info("Invalidated tenant cache entries",
		zap.String("tenantID", tenantID),
		zap.Int("entries", len(targets)))
	return nil
}

// lookup returns the payload for key. Store failures read as misses.
func (q *QueryCache) lookup(ctx context.Context, key string) ([]byte, bool) {
	payload, found, err := q.store.Get(ctx, key)
	if err != nil {
		logger.Warn("Cache store unavailable, treating read as miss",
			zap.String("key", key),
			zap.Error(err))
		return nil, false
	}
	return payload, found
}

// storeEntry writes the payload and registers it under each tag. The tag
// index keys carry the entry key in their name and share the entry's TTL, so
// they expire together and an invalidation sweep needs no extra reads. Write
// failures are logged, not surfaced: the caller already has its value.
func (q *QueryCache) storeEntry(ctx context.Context, key string, payload []byte, ttl time.Duration, tags []string) {
	if err := q.store.Set(ctx, key, payload, ttl); err != nil {
		logger.Warn("Cache store unavailable, skipping write",
			zap.String("key", key),
			zap.Error(err))
		return
	}
	for _, tag := range tags {
		if tag == "" {
			continue
		}
		if err := q.store.Set(ctx, tagIndexKey(tag, key), []byte("1"), ttl); err != nil {
			logger.Warn("Failed to register cache tag",
				zap.String("key", key),
				zap.String("tag", tag),
				zap.Error(err))
		}
	}
}
