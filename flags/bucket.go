// flags/bucket.go
package flags

import (
	"github.com/cespare/xxhash/v2"

	"github.com/dairyops/herdwise/api/model"
)

const anonymousIdentity = "anonymous"

// Bucket maps a caller identity to a stable bucket in [0, 100). The same
// identity always lands in the same bucket across processes and restarts,
// which is what keeps a caller from flapping in and out of a rollout.
// xxhash carries no per-process seed, so the mapping is portable.
func Bucket(caller model.Caller) int {
	identity := caller.UserID
	if identity == "" {
		identity = caller.TenantID
	}
	if identity == "" {
		identity = anonymousIdentity
	}
	return int(xxhash.Sum64String(identity) % 100)
}
