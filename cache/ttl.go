// cache/ttl.go
package cache

import (
	"time"

	"github.com/spf13/viper"
)

// TTLPolicy maps data classes to expiry durations. Different data shapes go
// stale at different cadences: paginated lists churn with every write, while
// profile lookups barely move.
type TTLPolicy struct {
	byClass  map[string]time.Duration
	fallback time.Duration
}

// NewTTLPolicy returns the documented defaults.
func NewTTLPolicy() *TTLPolicy {
	return &TTLPolicy{
		byClass: map[string]time.Duration{
			ClassEntityList: 5 * time.Minute,
			ClassStats:      10 * time.Minute,
			ClassDashboard:  3 * time.Minute,
			ClassReport:     15 * time.Minute,
			ClassProfile:    60 * time.Minute,
		},
		fallback: 5 * time.Minute,
	}
}

// NewTTLPolicyFromConfig reads the per-class durations from viper, falling
// back to the documented defaults for anything unset.
func NewTTLPolicyFromConfig() *TTLPolicy {
	policy := NewTTLPolicy()
	for class := range policy.byClass {
		if d := viper.GetDuration("cache.ttl." + class); d > 0 {
			policy.byClass[class] = d
		}
	}
	if d := viper.GetDuration("cache.ttl.default"); d > 0 {
		policy.fallback = d
	}
	return policy
}

// For returns the TTL for a data class.
func (p *TTLPolicy) For(dataClass string) time.Duration {
	if d, ok := p.byClass[dataClass]; ok {
		return d
	}
	return p.fallback
}
