// Package apperror defines the error kinds surfaced at the service boundary.
package apperror

import (
	"errors"
)

type Kind string

const (
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindValidation   Kind = "validation_error"
	KindStorage      Kind = "storage_error"
	KindInternal     Kind = "internal_error"
)

// Error carries a Kind and a human-readable message. Err, when set, is the underlying cause.
// Fields holds per-field messages for validation failures.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
	Err     error
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, err error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Storage wraps a durable-store failure.
func Storage(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}
	return Wrap(KindStorage, err, message)
}

func Validation(message string) *Error {
	return New(KindValidation, message)
}

func ValidationFields(message string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

// KindOf returns the Kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// MessageOf returns the message of the first *Error in err's chain.
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal server error"
}

// FieldsOf returns the per-field messages of the first *Error in err's chain.
func FieldsOf(err error) map[string]string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Fields
	}
	return nil
}

func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
