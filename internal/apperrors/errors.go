// Package apperrors holds the error taxonomy shared by repositories, services
// and controllers. Callers compare with errors.Is; the HTTP layer turns each
// sentinel into a status code.
package apperrors

import "errors"

var (
	// ErrValidation marks malformed or missing input.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks an id that does not resolve to a record.
	ErrNotFound = errors.New("not found")
	// ErrAuthentication marks bad credentials or a missing/expired/invalid token.
	ErrAuthentication = errors.New("authentication failed")
	// ErrForbidden marks an authenticated caller acting on someone else's record.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict marks a uniqueness violation.
	ErrConflict = errors.New("conflict")
	// ErrInfrastructure marks storage faults.
	ErrInfrastructure = errors.New("infrastructure error")
)
