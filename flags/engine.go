// flags/engine.go
package flags

import (
	"context"
	"errors"
	"time"

	"github.com/viccon/sturdyc"
	"go.uber.org/zap"

	herd_errors "github.com/dairyops/herdwise/api/errors"
	logger "github.com/dairyops/herdwise/api/logging"
	"github.com/dairyops/herdwise/api/model"
)

// EngineConfig tunes the in-process flag cache and key strictness.
type EngineConfig struct {
	CacheCapacity      int
	CacheShards        int
	CacheTTL           time.Duration
	EvictionPercentage int

	// StrictKeys makes Resolve panic on a key outside the enumerated set.
	// Enabled in development so typos surface immediately; production builds
	// log an error and treat the capability as disabled.
	StrictKeys bool
}

// DefaultEngineConfig returns the tuning used when no configuration is
// supplied. The TTL is minutes-scale to bound flag-store load without letting
// stale flags linger.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		CacheCapacity:      1024,
		CacheShards:        64,
		CacheTTL:           5 * time.Minute,
		EvictionPercentage: 10,
	}
}

// Engine resolves whether a capability is active for a caller. It is cheap,
// deterministic, and never returns an error: flag-store failures fall back to
// the built-in defaults.
type Engine struct {
	store      Store
	cache      *sturdyc.Client[model.CapabilityFlag]
	strictKeys bool
}

func NewEngine(store Store, cfg EngineConfig) *Engine {
	if cfg.CacheCapacity <= 0 || cfg.CacheShards <= 0 || cfg.CacheTTL <= 0 {
		cfg = DefaultEngineConfig()
	}
	return &Engine{
		store:      store,
		cache:      sturdyc.New[model.CapabilityFlag](cfg.CacheCapacity, cfg.CacheShards, cfg.CacheTTL, cfg.EvictionPercentage),
		strictKeys: cfg.StrictKeys,
	}
}

// Resolve reports whether capabilityKey is active for caller.
//
// Lookup order: explicit user target list, explicit tenant target list,
// percentage edge cases, then deterministic bucketing. Membership in a
// non-empty target list is authoritative and bypasses the percentage; an
// empty list is the same as an absent one.
func (e *Engine) Resolve(ctx context.Context, capabilityKey string, caller model.Caller) bool {
	if !IsKnownKey(capabilityKey) {
		if e.strictKeys {
			logger.Panic("Capability key is not registered", zap.String("key", capabilityKey))
		}
		logger.Error("Capability key is not registered, treating as disabled", zap.String("key", capabilityKey))
		return false
	}

	flag := e.currentFlag(ctx, capabilityKey)

	if caller.UserID != "" && containsIdentity(flag.TargetUserIDs, caller.UserID) {
		return true
	}
	if caller.TenantID != "" && containsIdentity(flag.TargetTenantIDs, caller.TenantID) {
		return true
	}

	switch {
	case flag.RolloutPercentage >= 100:
		return flag.EnabledDefault
	case flag.RolloutPercentage <= 0:
		return false
	}

	return Bucket(caller) < flag.RolloutPercentage
}

// CurrentFlag returns the flag Resolve would consult for key, and whether it
// came from the store rather than the built-in defaults. Used by the admin
// surface to show effective state.
func (e *Engine) CurrentFlag(ctx context.Context, key string) (model.CapabilityFlag, bool) {
	stored, err := e.store.GetFlag(ctx, key)
	if err != nil || stored == nil {
		def, _ := DefaultFlag(key)
		return def, false
	}
	return *stored, true
}

// InvalidateFlag drops the cached flag so the next Resolve sees the stored
// state within one round trip. Called synchronously by every flag write.
func (e *Engine) InvalidateFlag(key string) {
	e.cache.Delete(key)
}

// currentFlag serves the flag from the in-process cache, fetching from the
// store on a miss. Store failures and missing records both resolve to the
// built-in default; the fallback is cached like any other value and cleared
// by InvalidateFlag when an update lands.
func (e *Engine) currentFlag(ctx context.Context, key string) model.CapabilityFlag {
	flag, err := e.cache.GetOrFetch(ctx, key, func(ctx context.Context) (model.CapabilityFlag, error) {
		stored, err := e.store.GetFlag(ctx, key)
		if err != nil {
			if !errors.Is(err, herd_errors.ErrFlagNotFound) {
				logger.Warn("Flag store unavailable, using built-in default",
					zap.String("key", key),
					zap.Error(err))
			}
			def, _ := DefaultFlag(key)
			return def, nil
		}
		return *stored, nil
	})
	if err != nil {
		def, _ := DefaultFlag(key)
		return def
	}
	return flag
}

func containsIdentity(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
