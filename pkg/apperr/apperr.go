// Package apperr defines the domain error kinds every service returns:
// not-found lookups and business-rule (invariant) violations. Handlers map
// them to 404 and 409 respectively.
package apperr

import "errors"

// NotFoundError reports that an operation target does not exist.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return e.Entity + " not found"
}

// NotFound builds a NotFoundError for the given entity name ("Book", "Loan"...).
func NotFound(entity string) error {
	return &NotFoundError{Entity: entity}
}

// ConflictError reports a business-rule breach: book not loanable, book
// already loaned, loan already returned, user with active loans.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// Conflict builds a ConflictError with a caller-facing message.
func Conflict(message string) error {
	return &ConflictError{Message: message}
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsConflict reports whether err is (or wraps) a ConflictError.
func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}
