// errors/flag_errors.go
package errors

import "errors"

var (
	ErrFlagNotFound      = errors.New("capability flag not found")
	ErrUnknownFlagKey    = errors.New("unknown capability key")
	ErrInvalidFlagData   = errors.New("invalid capability flag data")
	ErrDatabaseOperation = errors.New("database operation failed")
	ErrInternalServer    = errors.New("internal server error")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInvalidPagination = errors.New("invalid pagination parameters")
)
