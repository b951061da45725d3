package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure so that transport and queue layers can react
// without inspecting message text.
type ErrorKind string

const (
	KindValidation ErrorKind = "VALIDATION"
	KindNotFound   ErrorKind = "NOT_FOUND"
	KindForbidden  ErrorKind = "FORBIDDEN"
	KindConflict   ErrorKind = "CONFLICT"
	KindDependency ErrorKind = "DEPENDENCY"
	KindInternal   ErrorKind = "INTERNAL"
)

type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func NewNotFoundError(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func NewForbiddenError(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

func NewConflictError(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func NewDependencyError(message string, err error) *Error {
	return &Error{Kind: KindDependency, Message: message, Err: err}
}

func NewInternalError(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// IsKind reports whether err (or anything it wraps) is a domain Error of the
// given kind.
func IsKind(err error, kind ErrorKind) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind == kind
	}
	return false
}

// KindOf returns the kind of err, defaulting to KindInternal for untyped
// errors so callers always get a classification.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}
