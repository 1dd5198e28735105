package service

import "errors"

// Domain errors. Handlers map these to HTTP status codes in one place.
var (
	// ErrAuthenticationFailed covers both an unknown username and a wrong
	// password so callers cannot tell which one it was.
	ErrAuthenticationFailed = errors.New("invalid username or password")

	ErrMissingAuthHeader = errors.New("missing Authorization header")
	ErrInvalidAuthHeader = errors.New("invalid Authorization header format")
	ErrInvalidToken      = errors.New("invalid or expired token")

	ErrForbidden = errors.New("you may only modify your own account")
	ErrNotFound  = errors.New("not found")
	ErrConflict  = errors.New("already exists")
)
