// errors/cache_errors.go
package errors

import "errors"

var (
	ErrInvalidCacheKey = errors.New("cache key cannot be empty")
	ErrTenantRequired  = errors.New("tenant id is required for cache key derivation")
)
