// Package apierr defines the error kinds returned by the request validator
// and the resource orchestrator.
//
// Expected client-input failures (NotFound, BadRequest, NotImplemented) are
// plain values, not panics or control flow. Anything else is Internal.
package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for rendering.
type Kind int

const (
	// KindInternal is an unclassified adapter or store failure.
	KindInternal Kind = iota
	KindNotFound
	KindBadRequest
	KindNotImplemented
)

// Status returns the HTTP status code for the kind.
func (k Kind) Status() int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindBadRequest:
		return http.StatusBadRequest
	case KindNotImplemented:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// Title returns the short title used in rendered errors.
func (k Kind) Title() string {
	switch k {
	case KindNotFound:
		return "Not Found"
	case KindBadRequest:
		return "Bad Request"
	case KindNotImplemented:
		return "Not Implemented"
	default:
		return "Internal Server Error"
	}
}

func (k Kind) String() string {
	return k.Title()
}

// Error is a classified failure with a human-readable detail.
type Error struct {
	Kind   Kind
	Detail string
	Err    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind.Title(), e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind.Title(), e.Detail)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Status returns the HTTP status code.
func (e *Error) Status() int {
	return e.Kind.Status()
}

// Title returns the short error title.
func (e *Error) Title() string {
	return e.Kind.Title()
}

func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Detail: fmt.Sprintf(format, args...)}
}

func BadRequest(format string, args ...interface{}) *Error {
	return &Error{Kind: KindBadRequest, Detail: fmt.Sprintf(format, args...)}
}

func NotImplemented(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotImplemented, Detail: fmt.Sprintf(format, args...)}
}

// Internal wraps an unexpected failure.
func Internal(err error, format string, args ...interface{}) *Error {
	return &Error{Kind: KindInternal, Detail: fmt.Sprintf(format, args...), Err: err}
}

// KindOf reports the kind of err. Errors that are not *Error are Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err is classified as kind k.
func Is(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}
