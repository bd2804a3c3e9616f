package interview

import "errors"

var (
	// ErrSessionExpired is returned for any session id the registry does not
	// know, whether it never existed or was already ended. The two cases are
	// indistinguishable to callers
	ErrSessionExpired = errors.New("session expired")

	// ErrCompletionFailed is returned when the completion provider errors or
	// times out. Provider detail is logged, not surfaced
	ErrCompletionFailed = errors.New("completion failed")

	// ErrStorageFailure is returned when the document store is unavailable
	ErrStorageFailure = errors.New("storage failure")

	// ErrSessionNotFound is the registry-level error for updates against an
	// absent id; the service translates it to ErrSessionExpired
	ErrSessionNotFound = errors.New("session not found")
)
