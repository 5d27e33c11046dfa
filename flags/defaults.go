// flags/defaults.go
package flags

import (
	"sort"

	"github.com/dairyops/herdwise/api/model"
)

// Capability keys known to this build. Resolve treats anything outside this
// set as a call-site bug, not user input.
const (
	KeyHerdBulkExport       = "herd.bulk-export"
	KeyMilkAnalyticsV2      = "milk.analytics-v2"
	KeyHealthAIInsights     = "health.ai-insights"
	KeyBreedingPlanner      = "breeding.planner"
	KeyBillingUsageAlerts   = "billing.usage-alerts"
	KeyDashboardCompositeV2 = "dashboard.composite-v2"
	KeyWeatherForecastCards = "weather.forecast-cards"
)

// defaultFlags are the hard-coded fallbacks used whenever the flag store is
// unreachable or holds no record for a key. Every known key must appear here
// so resolution degrades safely instead of failing.
var defaultFlags = map[string]model.CapabilityFlag{
	KeyHerdBulkExport: {
		Key:               KeyHerdBulkExport,
		Description:       "CSV/Excel bulk export of the animal registry",
		EnabledDefault:    true,
		RolloutPercentage: 100,
	},
	KeyMilkAnalyticsV2: {
		Key:               KeyMilkAnalyticsV2,
		Description:       "Reworked milk production analytics queries",
		EnabledDefault:    true,
		RolloutPercentage: 0,
	},
	KeyHealthAIInsights: {
		Key:               KeyHealthAIInsights,
		Description:       "AI-generated summaries on health records",
		EnabledDefault:    true,
		RolloutPercentage: 0,
	},
	KeyBreedingPlanner: {
		Key:               KeyBreedingPlanner,
		Description:       "Calving and insemination planning board",
		EnabledDefault:    true,
		RolloutPercentage: 100,
	},
	KeyBillingUsageAlerts: {
		Key:               KeyBillingUsageAlerts,
		Description:       "Subscription usage threshold alerts",
		EnabledDefault:    true,
		RolloutPercentage: 50,
	},
	KeyDashboardCompositeV2: {
		Key:               KeyDashboardCompositeV2,
		Description:       "Composite farm dashboard served from cached rollups",
		EnabledDefault:    true,
		RolloutPercentage: 100,
	},
	KeyWeatherForecastCards: {
		Key:               KeyWeatherForecastCards,
		Description:       "Weather forecast cards on the farm dashboard",
		EnabledDefault:    true,
		RolloutPercentage: 100,
	},
}

// IsKnownKey reports whether key belongs to the enumerated capability set.
func IsKnownKey(key string) bool {
	_, ok := defaultFlags[key]
	return ok
}

// DefaultFlag returns the built-in fallback flag for key.
func DefaultFlag(key string) (model.CapabilityFlag, bool) {
	flag, ok := defaultFlags[key]
	return flag, ok
}

// KnownKeys returns the enumerated capability keys in stable order.
func KnownKeys() []string {
	keys := make([]string, 0, len(defaultFlags))
	for key := range defaultFlags {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
