// Package errs defines the sentinel errors shared across the application.
package errs

import "errors"

var (
	// ErrNotFound is returned when a link does not exist within the
	// caller's scope or its semantic lifetime has ended.
	ErrNotFound = errors.New("not found")
	// ErrGone is returned on the public redirect path for links that
	// are still stored but past their expiration.
	ErrGone = errors.New("link expired")
	// ErrConflict is returned when a short code is already taken.
	ErrConflict = errors.New("data conflict")
	// ErrInvalidAlias is returned for malformed or reserved aliases.
	ErrInvalidAlias = errors.New("invalid alias")
	// ErrInvalidRequest is returned for malformed request data.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrUnauthorized is returned when no valid identity accompanies
	// an owner-scoped request.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrCodeSpaceExhausted is returned when code generation keeps
	// colliding after the retry budget.
	ErrCodeSpaceExhausted = errors.New("short code space exhausted")
	// ErrDBNotConnected is returned by storages without a live database.
	ErrDBNotConnected = errors.New("database not connected")
	// ErrNilDependency is returned by constructors given nil arguments.
	ErrNilDependency = errors.New("nil dependency")
)
