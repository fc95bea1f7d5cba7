package entity

import (
	"errors"
	"net/http"
)

// ErrorKind classifies request failures so handlers can map them to an
// HTTP status without inspecting message text.
type ErrorKind int

const (
	KindService ErrorKind = iota // external store or network failure
	KindUnauthorized
	KindNotFound
	KindConflict   // business rule violated
	KindValidation // missing or malformed input
)

// Error carries a user-visible message and its kind. Store-level failures
// are wrapped as KindService so internals never leak to the caller.
type Error struct {
	Kind    ErrorKind
	Message string
	cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

func Unauthorized(msg string) *Error {
	return &Error{Kind: KindUnauthorized, Message: msg}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func Service(msg string, cause error) *Error {
	return &Error{Kind: KindService, Message: msg, cause: cause}
}

// HTTPStatus maps an error to its response status. Unknown errors are
// treated as service failures.
func HTTPStatus(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict, KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
