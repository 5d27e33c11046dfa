// util/validation_util.go

package util

import (
	"fmt"

	"github.com/dairyops/herdwise/api/flags"
	"github.com/dairyops/herdwise/api/model"
)

type ValidationUtil struct{}

func NewValidationUtil() *ValidationUtil {
	return &ValidationUtil{}
}

func (v *ValidationUtil) ValidateFlagKey(key string) error {
	if key == "" {
		return fmt.Errorf("capability key cannot be empty")
	}
	if !flags.IsKnownKey(key) {
		return fmt.Errorf("capability key %q is not registered", key)
	}
	return nil
}

func (v *ValidationUtil) ValidateFlagPatch(key string, patch model.FlagPatch) error {
	if err := v.ValidateFlagKey(key); err != nil {
		return err
	}
	if patch.RolloutPercentage != nil {
		pct := *patch.RolloutPercentage
		if pct < 0 || pct > 100 {
			return fmt.Errorf("rollout percentage must be between 0 and 100, got %d", pct)
		}
	}
	if patch.TargetUserIDs != nil {
		for _, id := range *patch.TargetUserIDs {
			if id == "" {
				return fmt.Errorf("target user ids cannot contain empty entries")
			}
		}
	}
	if patch.TargetTenantIDs != nil {
		for _, id := range *patch.TargetTenantIDs {
			if id == "" {
				return fmt.Errorf("target tenant ids cannot contain empty entries")
			}
		}
	}
	return nil
}
