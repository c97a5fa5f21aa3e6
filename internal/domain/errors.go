package domain

import "errors"

// Domain errors
var (
	ErrEventNotFound       = errors.New("stack event not found")
	ErrInvalidIndex        = errors.New("invalid event index")
	ErrInvalidParameter    = errors.New("invalid query parameter")
	ErrSnapshotUnavailable = errors.New("snapshot not loaded")
	ErrConfigNotFound      = errors.New("config file not found")
	ErrInvalidConfig       = errors.New("invalid configuration")
)

// Error codes for API responses
const (
	ErrCodeEventNotFound       = "EVENT_NOT_FOUND"
	ErrCodeInvalidIndex        = "INVALID_INDEX"
	ErrCodeInvalidParameter    = "INVALID_PARAMETER"
	ErrCodeSnapshotUnavailable = "SNAPSHOT_UNAVAILABLE"
	ErrCodeUnauthorized        = "UNAUTHORIZED"
	ErrCodeInternal            = "INTERNAL_ERROR"
)

// ErrorCode returns the API error code for a domain error
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrEventNotFound):
		return ErrCodeEventNotFound
	case errors.Is(err, ErrInvalidIndex):
		return ErrCodeInvalidIndex
	case errors.Is(err, ErrInvalidParameter):
		return ErrCodeInvalidParameter
	case errors.Is(err, ErrSnapshotUnavailable):
		return ErrCodeSnapshotUnavailable
	default:
		return ErrCodeInternal
	}
}
