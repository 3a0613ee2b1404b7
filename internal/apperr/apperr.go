// Package apperr defines the error kinds surfaced at the HTTP boundary.
package apperr

import (
	"errors"
	"net/http"
)

type Kind string

const (
	KindBadRequest   Kind = "bad_request"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindNotFound     Kind = "not_found"
	KindRateLimited  Kind = "rate_limited"
	KindInternal     Kind = "internal"
)

// Error carries a Kind and a message safe to show to the caller.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func BadRequest(message string, err error) *Error {
	return New(KindBadRequest, message, err)
}

func Unauthorized(message string, err error) *Error {
	return New(KindUnauthorized, message, err)
}

func Forbidden(message string, err error) *Error {
	return New(KindForbidden, message, err)
}

func NotFound(message string, err error) *Error {
	return New(KindNotFound, message, err)
}

func RateLimited(message string) *Error {
	return New(KindRateLimited, message, nil)
}

func Internal(message string, err error) *Error {
	return New(KindInternal, message, err)
}

// KindOf reports the kind of err. Errors without a Kind are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func HTTPStatus(kind Kind) int {
	switch kind {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
