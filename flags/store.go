// flags/store.go
package flags

import (
	"context"

	"github.com/dairyops/herdwise/api/model"
)

// Store is the configuration backend for capability flags. GetFlag returns
// errors.ErrFlagNotFound when no record exists for the key; any other error
// means the store is unreachable and the engine falls back to built-in
// defaults.
type Store interface {
	GetFlag(ctx context.Context, key string) (*model.CapabilityFlag, error)
	UpsertFlag(ctx context.Context, flag model.CapabilityFlag, actorID string) (*model.CapabilityFlag, error)
	ListFlags(ctx context.Context) ([]*model.CapabilityFlag, error)
}
