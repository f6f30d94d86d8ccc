package apperr

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is a generic sentinel for auth failures.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUpstream marks a failed or malformed response from the AI provider.
	ErrUpstream = errors.New("upstream failure")
	// ErrDownload marks a failed webpage fetch.
	ErrDownload = errors.New("download failure")
)
