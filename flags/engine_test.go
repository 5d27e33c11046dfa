// flags/engine_test.go
package flags_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	herd_errors "github.com/dairyops/herdwise/api/errors"
	"github.com/dairyops/herdwise/api/flags"
	logger "github.com/dairyops/herdwise/api/logging"
	"github.com/dairyops/herdwise/api/model"
	"github.com/dairyops/herdwise/api/test/mock"
)

func TestMain(m *testing.M) {
	logger.InitLogger("")
	defer logger.Sync()
	os.Exit(m.Run())
}

func newEngine(store flags.Store) *flags.Engine {
	return flags.NewEngine(store, flags.DefaultEngineConfig())
}

func storedFlag(key string, pct int, enabledDefault bool) *model.CapabilityFlag {
	return &model.CapabilityFlag{
		Key:               key,
		EnabledDefault:    enabledDefault,
		RolloutPercentage: pct,
		Version:           1,
	}
}

func TestResolve_TargetUserBypassesPercentage(t *testing.T) {
	ctx := context.Background()
	store := new(mock.MockFlagStore)
	flag := storedFlag(flags.KeyMilkAnalyticsV2, 0, true)
	flag.TargetUserIDs = []string{"pilot-user"}
	store.On("GetFlag", ctx, flags.KeyMilkAnalyticsV2).Return(flag, nil)

	engine := newEngine(store)

	assert.True(t, engine.Resolve(ctx, flags.KeyMilkAnalyticsV2, model.Caller{UserID: "pilot-user"}))
	assert.False(t, engine.Resolve(ctx, flags.KeyMilkAnalyticsV2, model.Caller{UserID: "other-user"}))
}

func TestResolve_TargetTenantEnablesWholeFarm(t *testing.T) {
	ctx := context.Background()
	store := new(mock.MockFlagStore)
	flag := storedFlag(flags.KeyHealthAIInsights, 0, true)
	flag.TargetTenantIDs = []string{"farm-7"}
	store.On("GetFlag", ctx, flags.KeyHealthAIInsights).Return(flag, nil)

	engine := newEngine(store)

	// Every user of the targeted farm sees the capability, regardless of
	// their rollout bucket.
	for _, userID := range []string{"vet-1", "owner-2", "worker-3"} {
		caller := model.Caller{UserID: userID, TenantID: "farm-7"}
		assert.True(t, engine.Resolve(ctx, flags.KeyHealthAIInsights, caller))
	}
	assert.False(t, engine.Resolve(ctx, flags.KeyHealthAIInsights, model.Caller{UserID: "vet-1", TenantID: "farm-9"}))
}

func TestResolve_FullRolloutFollowsEnabledDefault(t *testing.T) {
	ctx := context.Background()
	caller := model.Caller{UserID: "user-1"}

	enabled := new(mock.MockFlagStore)
	enabled.On("GetFlag", ctx, flags.KeyHerdBulkExport).Return(storedFlag(flags.KeyHerdBulkExport, 100, true), nil)
	assert.True(t, newEngine(enabled).Resolve(ctx, flags.KeyHerdBulkExport, caller))

	killSwitched := new(mock.MockFlagStore)
	killSwitched.On("GetFlag", ctx, flags.KeyHerdBulkExport).Return(storedFlag(flags.KeyHerdBulkExport, 100, false), nil)
	assert.False(t, newEngine(killSwitched).Resolve(ctx, flags.KeyHerdBulkExport, caller))
}

func TestResolve_ZeroPercentDisablesEveryone(t *testing.T) {
	ctx := context.Background()
	store := new(mock.MockFlagStore)
	store.On("GetFlag", ctx, flags.KeyBreedingPlanner).Return(storedFlag(flags.KeyBreedingPlanner, 0, true), nil)

	engine := newEngine(store)
	for i := 0; i < 50; i++ {
		caller := model.Caller{UserID: string(rune('a' + i%26))}
		assert.False(t, engine.Resolve(ctx, flags.KeyBreedingPlanner, caller))
	}
}

func TestResolve_PartialRolloutFollowsBucket(t *testing.T) {
	ctx := context.Background()
	caller := model.Caller{UserID: "user-42"}
	bucket := flags.Bucket(caller)

	if bucket < 99 {
		store := new(mock.MockFlagStore)
		store.On("GetFlag", ctx, flags.KeyBillingUsageAlerts).Return(storedFlag(flags.KeyBillingUsageAlerts, bucket+1, true), nil)
		assert.True(t, newEngine(store).Resolve(ctx, flags.KeyBillingUsageAlerts, caller))
	}
	if bucket > 0 {
		store := new(mock.MockFlagStore)
		store.On("GetFlag", ctx, flags.KeyBillingUsageAlerts).Return(storedFlag(flags.KeyBillingUsageAlerts, bucket, true), nil)
		assert.False(t, newEngine(store).Resolve(ctx, flags.KeyBillingUsageAlerts, caller))
	}
}

func TestResolve_DeterministicAcrossEngines(t *testing.T) {
	ctx := context.Background()
	flag := storedFlag(flags.KeyBillingUsageAlerts, 37, true)

	storeA := new(mock.MockFlagStore)
	storeA.On("GetFlag", ctx, flags.KeyBillingUsageAlerts).Return(flag, nil)
	storeB := new(mock.MockFlagStore)
	storeB.On("GetFlag", ctx, flags.KeyBillingUsageAlerts).Return(flag, nil)

	engineA := newEngine(storeA)
	engineB := newEngine(storeB)

	for i := 0; i < 200; i++ {
		caller := model.Caller{UserID: "user-" + string(rune('0'+i%10)), TenantID: "farm-1"}
		assert.Equal(t,
			engineA.Resolve(ctx, flags.KeyBillingUsageAlerts, caller),
			engineB.Resolve(ctx, flags.KeyBillingUsageAlerts, caller))
	}
}

func TestResolve_StoreFailureFallsBackToDefaults(t *testing.T) {
	ctx := context.Background()
	store := new(mock.MockFlagStore)
	store.On("GetFlag", ctx, flags.KeyHerdBulkExport).Return(nil, herd_errors.ErrDatabaseOperation)

	// herd.bulk-export ships enabled at full rollout, so the outage must not
	// take the feature away from anyone.
	engine := newEngine(store)
	assert.True(t, engine.Resolve(ctx, flags.KeyHerdBulkExport, model.Caller{UserID: "user-1"}))
}

func TestResolve_MissingRecordUsesDefaults(t *testing.T) {
	ctx := context.Background()
	store := new(mock.MockFlagStore)
	store.On("GetFlag", ctx, flags.KeyMilkAnalyticsV2).Return(nil, herd_errors.ErrFlagNotFound)

	// milk.analytics-v2 defaults to 0% rollout.
	engine := newEngine(store)
	assert.False(t, engine.Resolve(ctx, flags.KeyMilkAnalyticsV2, model.Caller{UserID: "user-1"}))
}

func TestResolve_EmptyTargetListsFallThrough(t *testing.T) {
	ctx := context.Background()
	flag := storedFlag(flags.KeyWeatherForecastCards, 100, true)
	flag.TargetUserIDs = []string{}
	flag.TargetTenantIDs = []string{}

	store := new(mock.MockFlagStore)
	store.On("GetFlag", ctx, flags.KeyWeatherForecastCards).Return(flag, nil)

	engine := newEngine(store)
	assert.True(t, engine.Resolve(ctx, flags.KeyWeatherForecastCards, model.Caller{UserID: "user-1"}))
}

func TestResolve_UnknownKeyDisabled(t *testing.T) {
	ctx := context.Background()
	store := new(mock.MockFlagStore)

	// The store must never be consulted for a key outside the enumerated set.
	engine := newEngine(store)
	assert.False(t, engine.Resolve(ctx, "milk.analytics-v3", model.Caller{UserID: "user-1"}))
	store.AssertNotCalled(t, "GetFlag")
}

func TestResolve_CachesFlagUntilInvalidated(t *testing.T) {
	ctx := context.Background()
	store := new(mock.MockFlagStore)
	store.On("GetFlag", ctx, flags.KeyBreedingPlanner).Return(storedFlag(flags.KeyBreedingPlanner, 0, true), nil).Once()
	store.On("GetFlag", ctx, flags.KeyBreedingPlanner).Return(storedFlag(flags.KeyBreedingPlanner, 100, true), nil).Once()

	engine := newEngine(store)
	caller := model.Caller{UserID: "user-1"}

	assert.False(t, engine.Resolve(ctx, flags.KeyBreedingPlanner, caller))
	// Served from the in-process cache, still the old config.
	assert.False(t, engine.Resolve(ctx, flags.KeyBreedingPlanner, caller))

	engine.InvalidateFlag(flags.KeyBreedingPlanner)
	assert.True(t, engine.Resolve(ctx, flags.KeyBreedingPlanner, caller))
	store.AssertExpectations(t)
}

func TestCurrentFlag_ReportsStoredState(t *testing.T) {
	ctx := context.Background()
	store := new(mock.MockFlagStore)
	store.On("GetFlag", ctx, flags.KeyBreedingPlanner).Return(storedFlag(flags.KeyBreedingPlanner, 25, true), nil)
	store.On("GetFlag", ctx, flags.KeyMilkAnalyticsV2).Return(nil, herd_errors.ErrFlagNotFound)

	engine := newEngine(store)

	stored, fromStore := engine.CurrentFlag(ctx, flags.KeyBreedingPlanner)
	assert.True(t, fromStore)
	assert.Equal(t, 25, stored.RolloutPercentage)

	def, fromStore := engine.CurrentFlag(ctx, flags.KeyMilkAnalyticsV2)
	assert.False(t, fromStore)
	assert.Equal(t, flags.KeyMilkAnalyticsV2, def.Key)
}
