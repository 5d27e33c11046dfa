// cache/query_cache_test.go
package cache_test

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dairyops/herdwise/api/cache"
	logger "github.com/dairyops/herdwise/api/logging"
)

func TestMain(m *testing.M) {
	logger.InitLogger("")
	defer logger.Sync()
	os.Exit(m.Run())
}

// memoryStore is an in-process cache.Store with a failure toggle for
// exercising the degrade-to-miss paths.
type memoryStore struct {
	mu      sync.Mutex
	entries map[string][]byte
	down    bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{entries: make(map[string][]byte)}
}

var errStoreDown = errors.New("store unreachable")

func (s *memoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.down {
		return nil, false, errStoreDown
	}
	value, ok := s.entries[key]
	return value, ok, nil
}

func (s *memoryStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.down {
		return errStoreDown
	}
	s.entries[key] = value
	return nil
}

func (s *memoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.down {
		return errStoreDown
	}
	delete(s.entries, key)
	return nil
}

func (s *memoryStore) DeleteMany(ctx context.Context, keys []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.down {
		return errStoreDown
	}
	for _, key := range keys {
		delete(s.entries, key)
	}
	return nil
}

func (s *memoryStore) Keys(ctx context.Context, pattern string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.down {
		return nil, errStoreDown
	}
	prefix := strings.TrimSuffix(pattern, "*")
	var matched []string
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			matched = append(matched, key)
		}
	}
	return matched, nil
}

func (s *memoryStore) setDown(down bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.down = down
}

func (s *memoryStore) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

type herdSummary struct {
	Animals int    `json:"animals"`
	Breed   string `json:"breed"`
}

func TestGetOrCompute_ComputesOnceThenServesCached(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	qc := cache.NewQueryCache(store)

	key, err := cache.DeriveKey("farm-7", cache.ClassEntityList, map[string]any{"breed": "holstein"})
	assert.NoError(t, err)
	tags := []string{cache.Tag("farm-7", cache.ClassEntityList)}

	computes := 0
	fetch := func(ctx context.Context) (herdSummary, error) {
		computes++
		return herdSummary{Animals: 120, Breed: "holstein"}, nil
	}

	first, err := cache.GetOrCompute(ctx, qc, key, time.Minute, tags, fetch)
	assert.NoError(t, err)
	assert.Equal(t, 120, first.Animals)

	second, err := cache.GetOrCompute(ctx, qc, key, time.Minute, tags, fetch)
	assert.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, computes)
}

func TestGetOrCompute_FailedComputeNotCached(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	qc := cache.NewQueryCache(store)

	key, err := cache.DeriveKey("farm-7", cache.ClassStats, map[string]any{"month": "2026-08"})
	assert.NoError(t, err)

	computes := 0
	failing := func(ctx context.Context) (herdSummary, error) {
		computes++
		return herdSummary{}, errors.New("milk yield query timed out")
	}

	_, err = cache.GetOrCompute(ctx, qc, key, time.Minute, nil, failing)
	assert.Error(t, err)
	assert.Equal(t, 0, store.size())

	// The next read recomputes instead of serving a phantom entry.
	_, err = cache.GetOrCompute(ctx, qc, key, time.Minute, nil, failing)
	assert.Error(t, err)
	assert.Equal(t, 2, computes)
}

func TestGetOrCompute_StoreOutageDegradesToMiss(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	qc := cache.NewQueryCache(store)

	key, err := cache.DeriveKey("farm-7", cache.ClassDashboard, nil)
	assert.NoError(t, err)

	computes := 0
	fetch := func(ctx context.Context) (herdSummary, error) {
		computes++
		return herdSummary{Animals: 80}, nil
	}

	store.setDown(true)

	// Every call hits the source, none errors out.
	for i := 0; i < 3; i++ {
		value, err := cache.GetOrCompute(ctx, qc, key, time.Minute, nil, fetch)
		assert.NoError(t, err)
		assert.Equal(t, 80, value.Animals)
	}
	assert.Equal(t, 3, computes)

	// Recovery: caching resumes without intervention.
	store.setDown(false)
	_, err = cache.GetOrCompute(ctx, qc, key, time.Minute, nil, fetch)
	assert.NoError(t, err)
	_, err = cache.GetOrCompute(ctx, qc, key, time.Minute, nil, fetch)
	assert.NoError(t, err)
	assert.Equal(t, 4, computes)
}

func TestInvalidate_RemovesOnlyTaggedEntries(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	qc := cache.NewQueryCache(store)

	listKey, _ := cache.DeriveKey("farm-7", cache.ClassEntityList, map[string]any{"page": 1})
	statsKey, _ := cache.DeriveKey("farm-7", cache.ClassStats, map[string]any{"month": "2026-08"})

	listComputes, statsComputes := 0, 0
	listFetch := func(ctx context.Context) (herdSummary, error) {
		listComputes++
		return herdSummary{Animals: 120}, nil
	}
	statsFetch := func(ctx context.Context) (herdSummary, error) {
		statsComputes++
		return herdSummary{Animals: 7}, nil
	}

	_, err := cache.GetOrCompute(ctx, qc, listKey, time.Minute, []string{cache.Tag("farm-7", cache.ClassEntityList)}, listFetch)
	assert.NoError(t, err)
	_, err = cache.GetOrCompute(ctx, qc, statsKey, time.Minute, []string{cache.Tag("farm-7", cache.ClassStats)}, statsFetch)
	assert.NoError(t, err)

	// A herd write invalidates the list class, not the stats class.
	assert.NoError(t, qc.Invalidate(ctx, cache.Tag("farm-7", cache.ClassEntityList)))

	_, err = cache.GetOrCompute(ctx, qc, listKey, time.Minute, []string{cache.Tag("farm-7", cache.ClassEntityList)}, listFetch)
	assert.NoError(t, err)
	_, err = cache.GetOrCompute(ctx, qc, statsKey, time.Minute, []string{cache.Tag("farm-7", cache.ClassStats)}, statsFetch)
	assert.NoError(t, err)

	assert.Equal(t, 2, listComputes)
	assert.Equal(t, 1, statsComputes)
}

func TestInvalidate_OtherTenantUnaffected(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	qc := cache.NewQueryCache(store)

	keyA, _ := cache.DeriveKey("farm-7", cache.ClassEntityList, map[string]any{"page": 1})
	keyB, _ := cache.DeriveKey("farm-8", cache.ClassEntityList, map[string]any{"page": 1})

	computesB := 0
	_, err := cache.GetOrCompute(ctx, qc, keyA, time.Minute, []string{cache.Tag("farm-7", cache.ClassEntityList)},
		func(ctx context.Context) (herdSummary, error) { return herdSummary{}, nil })
	assert.NoError(t, err)
	fetchB := func(ctx context.Context) (herdSummary, error) {
		computesB++
		return herdSummary{}, nil
	}
	_, err = cache.GetOrCompute(ctx, qc, keyB, time.Minute, []string{cache.Tag("farm-8", cache.ClassEntityList)}, fetchB)
	assert.NoError(t, err)

	assert.NoError(t, qc.Invalidate(ctx, cache.Tag("farm-7", cache.ClassEntityList)))

	_, err = cache.GetOrCompute(ctx, qc, keyB, time.Minute, []string{cache.Tag("farm-8", cache.ClassEntityList)}, fetchB)
	assert.NoError(t, err)
	assert.Equal(t, 1, computesB)
}

func TestInvalidate_UnusedTagIsNoOp(t *testing.T) {
	ctx := context.Background()
	qc := cache.NewQueryCache(newMemoryStore())

	assert.NoError(t, qc.Invalidate(ctx, cache.Tag("farm-7", cache.ClassReport)))
}

func TestInvalidate_StoreOutageSwallowed(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	store.setDown(true)
	qc := cache.NewQueryCache(store)

	assert.NoError(t, qc.Invalidate(ctx, cache.Tag("farm-7", cache.ClassEntityList)))
}

func TestInvalidateTenant_SweepsEverything(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	qc := cache.NewQueryCache(store)

	computes := 0
	fetch := func(ctx context.Context) (herdSummary, error) {
		computes++
		return herdSummary{}, nil
	}

	for _, class := range []string{cache.ClassEntityList, cache.ClassStats, cache.ClassDashboard} {
		key, _ := cache.DeriveKey("farm-7", class, nil)
		_, err := cache.GetOrCompute(ctx, qc, key, time.Minute, []string{cache.Tag("farm-7", class)}, fetch)
		assert.NoError(t, err)
	}
	otherKey, _ := cache.DeriveKey("farm-8", cache.ClassStats, nil)
	_, err := cache.GetOrCompute(ctx, qc, otherKey, time.Minute, []string{cache.Tag("farm-8", cache.ClassStats)}, fetch)
	assert.NoError(t, err)

	assert.NoError(t, qc.InvalidateTenant(ctx, "farm-7"))

	for _, class := range []string{cache.ClassEntityList, cache.ClassStats, cache.ClassDashboard} {
		key, _ := cache.DeriveKey("farm-7", class, nil)
		_, err := cache.GetOrCompute(ctx, qc, key, time.Minute, []string{cache.Tag("farm-7", class)}, fetch)
		assert.NoError(t, err)
	}
	_, err = cache.GetOrCompute(ctx, qc, otherKey, time.Minute, []string{cache.Tag("farm-8", cache.ClassStats)}, fetch)
	assert.NoError(t, err)

	// farm-7 reads recomputed, farm-8's entry survived.
	assert.Equal(t, 7, computes)
}

func TestInvalidateTenant_RequiresTenant(t *testing.T) {
	qc := cache.NewQueryCache(newMemoryStore())
	assert.Error(t, qc.InvalidateTenant(context.Background(), ""))
}

func TestGetOrCompute_RawBytes(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	qc := cache.NewQueryCache(store)

	key, _ := cache.DeriveKey("farm-7", cache.ClassReport, map[string]any{"quarter": "Q3"})
	payload := []byte(`{"yield":"12000L"}`)

	got, err := qc.GetOrCompute(ctx, key, time.Minute, nil, func(ctx context.Context) ([]byte, error) {
		return payload, nil
	})
	assert.NoError(t, err)
	assert.Equal(t, payload, got)

	cached, err := qc.GetOrCompute(ctx, key, time.Minute, nil, func(ctx context.Context) ([]byte, error) {
		t.Fatal("compute ran on a warm cache")
		return nil, nil
	})
	assert.NoError(t, err)
	assert.Equal(t, payload, cached)
}

func TestGetOrCompute_EmptyKeyRejected(t *testing.T) {
	qc := cache.NewQueryCache(newMemoryStore())
	_, err := cache.GetOrCompute(context.Background(), qc, "", time.Minute, nil,
		func(ctx context.Context) (herdSummary, error) { return herdSummary{}, nil })
	assert.Error(t, err)
}
