// cache/keys.go
package cache

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"

	herd_errors "github.com/dairyops/herdwise/api/errors"
)

// Data classes with distinct expiry cadences. Tags and derived keys both use
// these names, so a write invalidating Tag(tenant, ClassEntityList) hits
// exactly the list-style reads for that tenant.
const (
	ClassEntityList = "entity-list"
	ClassStats      = "stats"
	ClassDashboard  = "dashboard"
	ClassReport     = "report"
	ClassProfile    = "profile"
)

const (
	entryPrefix    = "qc"
	tagIndexPrefix = "qctag"
)

// DeriveKey builds the cache key for one query shape:
// qc:{tenantID}:{dataClass}:{digest}. The tenant id is always part of the key
// material — two tenants can never share an entry, whatever the params.
// Identical params always produce the identical key; params maps are
// canonicalized with sorted keys before hashing.
func DeriveKey(tenantID, dataClass string, params any) (string, error) {
	if tenantID == "" {
		return "", herd_errors.ErrTenantRequired
	}
	canonical, err := canonicalJSON(params)
	if err != nil {
		return "", fmt.Errorf("failed to canonicalize cache params: %w", err)
	}
	digest := xxhash.Sum64(canonical)
	return fmt.Sprintf("%s:%s:%s:%016x", entryPrefix, tenantID, dataClass, digest), nil
}

// Tag names the invalidation group for a tenant's data class. Writes use the
// same vocabulary as reads: "{tenantId}:{dataClass}".
func Tag(tenantID, dataClass string) string {
	return tenantID + ":" + dataClass
}

func tagIndexKey(tag, entryKey string) string {
	return tagIndexPrefix + ":" + tag + ":" + entryKey
}

func tagIndexPattern(tag string) string {
	return tagIndexPrefix + ":" + tag + ":*"
}

func tenantIndexPattern(tenantID string) string {
	return tagIndexPrefix + ":" + tenantID + ":*"
}

func tenantEntryPattern(tenantID string) string {
	return entryPrefix + ":" + tenantID + ":*"
}

// canonicalJSON produces a deterministic encoding of params. encoding/json
// already sorts map[string]K keys, but map[any]-shaped values arriving from
// decoded payloads are normalized explicitly so the digest never depends on
// iteration order.
func canonicalJSON(v any) ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}
	switch val := v.(type) {
	case map[string]any:
		return canonicalMap(val)
	case []any:
		return canonicalSlice(val)
	default:
		return json.Marshal(v)
	}
}

func canonicalMap(m map[string]any) ([]byte, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := []byte("{")
	for i, k := range keys {
		if i > 0 {
			result = append(result, ',')
		}
		keyBytes, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		result = append(result, keyBytes...)
		result = append(result, ':')
		valBytes, err := canonicalJSON(m[k])
		if err != nil {
			return nil, err
		}
		result = append(result, valBytes...)
	}
	return append(result, '}'), nil
}

func canonicalSlice(s []any) ([]byte, error) {
	result := []byte("[")
	for i, v := range s {
		if i > 0 {
			result = append(result, ',')
		}
		valBytes, err := canonicalJSON(v)
		if err != nil {
			return nil, err
		}
		result = append(result, valBytes...)
	}
	return append(result, ']'), nil
}
