package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidSource indicates a malformed source specification.
	// Fatal to that one source, other sources still process.
	ErrInvalidSource = errors.New("invalid source specification")

	// ErrUnparsableTemplate indicates a template that could not be
	// parsed into any of its sections. Recovered locally: the file is
	// skipped, siblings continue.
	ErrUnparsableTemplate = errors.New("unparsable template")

	// ErrUnsupportedType indicates no parser handles the file type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrRateLimited indicates the API rate limit was exceeded after
	// bounded retries.
	ErrRateLimited = errors.New("rate limited")

	// ErrAuthInvalid indicates the configured credential was rejected.
	ErrAuthInvalid = errors.New("authentication invalid")
)
