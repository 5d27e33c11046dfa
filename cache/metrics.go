// cache/metrics.go
package cache

import (
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	logger "github.com/dairyops/herdwise/api/logging"
	"github.com/dairyops/herdwise/api/model"
)

// SlowOperationThreshold is the duration past which a timed operation is
// logged as slow.
const SlowOperationThreshold = time.Second

// Tracker accumulates per-operation timing samples in process. Observability
// scaffolding only: it is reset on demand and never persisted.
type Tracker struct {
	mu  sync.Mutex
	ops map[string]*opStats
}

type opStats struct {
	count int64
	total time.Duration
	min   time.Duration
	max   time.Duration
}

func NewTracker() *Tracker {
	return &Tracker{ops: make(map[string]*opStats)}
}

// Record adds one sample for operation.
func (t *Tracker) Record(operation string, d time.Duration) {
	if d >= SlowOperationThreshold {
		logger.Warn("Slow operation",
			zap.String("operation", operation),
			zap.Duration("duration", d))
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	stats, ok := t.ops[operation]
	if !ok {
		stats = &opStats{min: d, max: d}
		t.ops[operation] = stats
	}
	stats.count++
	stats.total += d
	if d < stats.min {
		stats.min = d
	}
	if d > stats.max {
		stats.max = d
	}
}

// Timed runs fn and records its duration under operation. The wrapped error
// passes through untouched.
func (t *Tracker) Timed(operation string, fn func() error) error {
	start := time.Now()
	err := fn()
	t.Record(operation, time.Since(start))
	return err
}

// Timed is the typed variant: the wrapped result and error pass through
// untouched.
func Timed[T any](t *Tracker, operation string, fn func() (T, error)) (T, error) {
	start := time.Now()
	value, err := fn()
	t.Record(operation, time.Since(start))
	return value, err
}

// Snapshot returns the aggregated stats, sorted by operation name.
func (t *Tracker) Snapshot() []model.OperationStats {
	t.mu.Lock()
	defer t.mu.Unlock()

	snapshot := make([]model.OperationStats, 0, len(t.ops))
	for operation, stats := range t.ops {
		totalMs := float64(stats.total) / float64(time.Millisecond)
		snapshot = append(snapshot, model.OperationStats{
			Operation: operation,
			Count:     stats.count,
			TotalMs:   totalMs,
			AvgMs:     totalMs / float64(stats.count),
			MinMs:     float64(stats.min) / float64(time.Millisecond),
			MaxMs:     float64(stats.max) / float64(time.Millisecond),
		})
	}
	sort.Slice(snapshot, func(i, j int) bool {
		return snapshot[i].Operation < snapshot[j].Operation
	})
	return snapshot
}

// Reset discards all accumulated samples.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ops = make(map[string]*opStats)
}
