package domain

import "errors"

var (
	// ErrRemoteUnavailable covers network failures, timeouts and server errors.
	ErrRemoteUnavailable = errors.New("remote unavailable")
	// ErrUnauthorized means the store credential was rejected.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrMalformedResponse means the remote answered with an unexpected shape.
	ErrMalformedResponse = errors.New("malformed response")
	// ErrNotConfigured means the context has no setup record.
	ErrNotConfigured = errors.New("context not configured")
	// ErrNoProducts means the catalog is empty even after a fetch.
	ErrNoProducts = errors.New("no products found")
)

// IsRetryable reports whether err is worth retrying on the next tick without
// human intervention. Credential and setup errors are not.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, ErrUnauthorized) && !errors.Is(err, ErrNotConfigured)
}
