// Package apperr defines the error taxonomy shared by services and
// HTTP handlers. Every service method returns either nil or an *Error;
// handlers map the kind to an HTTP status and a response body.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	// Validation carries a field-keyed message map.
	Validation Kind = iota + 1
	// Unauthorized means no authenticated principal was supplied.
	Unauthorized
	// Forbidden means the principal lacks the required role or ownership.
	Forbidden
	NotFound
	// Conflict covers stock shortfalls, illegal status transitions and
	// uniqueness violations.
	Conflict
	Internal
)

type Error struct {
	Kind   Kind
	Msg    string
	Fields map[string]string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewValidation builds a validation error from field-keyed messages.
func NewValidation(fields map[string]string) *Error {
	return &Error{Kind: Validation, Msg: "validation failed", Fields: fields}
}

func Unauthorizedf(format string, args ...interface{}) *Error {
	return &Error{Kind: Unauthorized, Msg: fmt.Sprintf(format, args...)}
}

func Forbiddenf(format string, args ...interface{}) *Error {
	return &Error{Kind: Forbidden, Msg: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...interface{}) *Error {
	return &Error{Kind: NotFound, Msg: fmt.Sprintf(format, args...)}
}

func Conflictf(format string, args ...interface{}) *Error {
	return &Error{Kind: Conflict, Msg: fmt.Sprintf(format, args...)}
}

func Internalf(format string, args ...interface{}) *Error {
	return &Error{Kind: Internal, Msg: fmt.Sprintf(format, args...)}
}

// Wrap marks err as an internal failure. The original cause is kept for
// logging but never rendered to the client.
func Wrap(err error, msg string) *Error {
	return &Error{Kind: Internal, Msg: msg, Err: err}
}

// KindOf reports the kind of err, or Internal for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// FieldsOf returns the field map of a validation error, or nil.
func FieldsOf(err error) map[string]string {
	var e *Error
	if errors.As(err, &e) {
		return e.Fields
	}
	return nil
}
