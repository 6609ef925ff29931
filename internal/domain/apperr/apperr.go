// internal/domain/apperr/apperr.go
package apperr

import (
	"errors"
	"fmt"
)

// The lifecycle engine reports failures in five shapes. Handlers map
// them to HTTP statuses; everything else (stack detail, store errors)
// stays server-side.

// ValidationError reports malformed input or a violated numeric or
// temporal invariant. Field is optional.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Msg
	}
	return e.Msg
}

// Validation builds a ValidationError without a field.
func Validation(msg string) error {
	return &ValidationError{Msg: msg}
}

// ValidationField builds a ValidationError for a named field.
func ValidationField(field, msg string) error {
	return &ValidationError{Field: field, Msg: msg}
}

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// AuthorizationError reports a failed role or ownership check.
type AuthorizationError struct {
	Msg string
}

func (e *AuthorizationError) Error() string { return e.Msg }

// Authorization builds an AuthorizationError.
func Authorization(msg string) error {
	return &AuthorizationError{Msg: msg}
}

// NotFoundError reports a missing assignment, submission, course, or user.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

// NotFound builds a NotFoundError for the named resource.
func NotFound(resource string) error {
	return &NotFoundError{Resource: resource}
}

// ConflictError reports a write that lost to an existing record, such
// as a duplicate submission.
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

// Conflict builds a ConflictError.
func Conflict(msg string) error {
	return &ConflictError{Msg: msg}
}

// PersistenceError wraps a store failure. The wrapped cause is logged
// server-side and never sent to clients.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *PersistenceError) Unwrap() error { return e.Err }

// Persistence wraps err as a PersistenceError for the named operation.
// A nil err returns nil.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Err: err}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsAuthorization reports whether err is an AuthorizationError.
func IsAuthorization(err error) bool {
	var ae *AuthorizationError
	return errors.As(err, &ae)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var ne *NotFoundError
	return errors.As(err, &ne)
}

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}
