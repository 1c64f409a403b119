package domain

import "net/http"

// Kind classifies a failure so transport layers can map it to a status
// code without inspecting messages.
type Kind string

const (
	KindInvalidInput Kind = "invalid_input"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindInternal     Kind = "internal"
)

// FieldError is a single validation failure on one input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the one error contract every failure path populates: a kind,
// a human-readable message, and an optional list of field-level details.
type Error struct {
	Kind    Kind
	Message string
	Data    []FieldError
}

func (e *Error) Error() string { return e.Message }

// Status maps the kind to its HTTP status code. Unknown kinds fall back
// to 500.
func (e *Error) Status() int {
	switch e.Kind {
	case KindInvalidInput:
		return http.StatusUnprocessableEntity
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// NewInvalidInput builds a 422-style error carrying per-field messages.
func NewInvalidInput(message string, fields []FieldError) *Error {
	return &Error{Kind: KindInvalidInput, Message: message, Data: fields}
}

// KindOf returns the kind of err when it is a *Error, KindInternal
// otherwise.
func KindOf(err error) Kind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return KindInternal
}
