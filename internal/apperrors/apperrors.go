package apperrors

import "errors"

// Sentinel error kinds returned by services and repositories. Handlers map
// these to HTTP status codes with errors.Is at the transport boundary; nothing
// below the handlers knows about status codes.
var (
	// ErrValidation marks a bad request: a missing or foreign reference, a
	// malformed field, or any other caller mistake.
	ErrValidation = errors.New("validation failed")

	// ErrConflict marks a uniqueness violation (duplicate username, email or
	// spirit type name).
	ErrConflict = errors.New("conflict")

	// ErrNotFound marks a row that does not exist or is not visible to the
	// caller. Rows owned by another user are reported as not found rather
	// than forbidden so that ids do not leak across accounts.
	ErrNotFound = errors.New("not found")

	// ErrUnauthenticated marks a missing, malformed or expired credential.
	ErrUnauthenticated = errors.New("unauthenticated")
)
