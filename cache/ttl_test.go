// cache/ttl_test.go
package cache_test

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"

	"github.com/dairyops/herdwise/api/cache"
)

func TestTTLPolicy_Defaults(t *testing.T) {
	policy := cache.NewTTLPolicy()

	assert.Equal(t, 5*time.Minute, policy.For(cache.ClassEntityList))
	assert.Equal(t, 10*time.Minute, policy.For(cache.ClassStats))
	assert.Equal(t, 3*time.Minute, policy.For(cache.ClassDashboard))
	assert.Equal(t, 15*time.Minute, policy.For(cache.ClassReport))
	assert.Equal(t, 60*time.Minute, policy.For(cache.ClassProfile))
}

func TestTTLPolicy_UnknownClassFallsBack(t *testing.T) {
	policy := cache.NewTTLPolicy()
	assert.Equal(t, 5*time.Minute, policy.For("search-results"))
}

func TestTTLPolicy_FromConfigOverrides(t *testing.T) {
	viper.Set("cache.ttl.stats", "30s")
	defer viper.Set("cache.ttl.stats", nil)

	policy := cache.NewTTLPolicyFromConfig()
	assert.Equal(t, 30*time.Second, policy.For(cache.ClassStats))
	assert.Equal(t, 3*time.Minute, policy.For(cache.ClassDashboard))
}
