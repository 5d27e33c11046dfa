// audit/cached_service.go
package audit

import (
	"context"

	"github.com/dairyops/herdwise/api/cache"
)

// platformTenant namespaces platform-level (non-tenant) cache entries. The
// key derivation contract requires a tenant segment in every key.
const platformTenant = "platform"

// cachedService memoizes audit trail queries through the query cache.
// Elasticsearch searches over the audit index are the service's only
// report-class reads, and admins reload them far more often than flags
// change. Every logged change invalidates the report tag before returning,
// so a query issued after a mutation sees fresh results. Both operations
// feed the shared tracker so the metrics endpoint reflects real traffic.
type cachedService struct {
	inner   Service
	qc      *cache.QueryCache
	ttl     *cache.TTLPolicy
	tracker *cache.Tracker
}

func NewCachedService(inner Service, qc *cache.QueryCache, ttl *cache.TTLPolicy, tracker *cache.Tracker) Service {
	return &cachedService{inner: inner, qc: qc, ttl: ttl, tracker: tracker}
}

func (s *cachedService) LogChange(ctx context.Context, change FlagChange) error {
	if err := s.tracker.Timed("audit.log_change", func() error {
		return s.inner.LogChange(ctx, change)
	}); err != nil {
		return err
	}
	return s.qc.Invalidate(ctx, cache.Tag(platformTenant, cache.ClassReport))
}

func (s *cachedService) QueryChanges(ctx context.Context, query ChangeQuery) ([]FlagChange, error) {
	return cache.Timed(s.tracker, "audit.query_changes", func() ([]FlagChange, error) {
		key, err := cache.DeriveKey(platformTenant, cache.ClassReport, query)
		if err != nil {
			return s.inner.QueryChanges(ctx, query)
		}
		tags := []string{cache.Tag(platformTenant, cache.ClassReport)}
		return cache.GetOrCompute(ctx, s.qc, key, s.ttl.For(cache.ClassReport), tags,
			func(ctx context.Context) ([]FlagChange, error) {
				return s.inner.QueryChanges(ctx, query)
			})
	})
}
