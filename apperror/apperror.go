// Package apperror defines the error kinds the API surfaces to clients and
// the HTTP status each one maps to.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindMissingField
	KindInvalidField
	KindEmptyPayload
	KindInvalidIdentifier
	KindNotFound
	KindUpstream
)

// Status returns the HTTP status code for the kind.
func (k Kind) Status() int {
	switch k {
	case KindMissingField, KindInvalidField, KindEmptyPayload, KindInvalidIdentifier:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (k Kind) String() string {
	switch k {
	case KindMissingField:
		return "MissingField"
	case KindInvalidField:
		return "InvalidField"
	case KindEmptyPayload:
		return "EmptyPayload"
	case KindInvalidIdentifier:
		return "InvalidIdentifier"
	case KindNotFound:
		return "NotFound"
	case KindUpstream:
		return "UpstreamError"
	default:
		return "Internal"
	}
}

// Error is a client-facing failure. Message is safe to return in a response
// body; Err carries the underlying cause for logs.
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

func (e *Error) Unwrap() error { return e.Err }

func MissingField(field string) *Error {
	return &Error{Kind: KindMissingField, Message: field + " is required"}
}

func InvalidField(field, reason string) *Error {
	return &Error{Kind: KindInvalidField, Message: fmt.Sprintf("%s %s", field, reason)}
}

func BadRequest(message string, err error) *Error {
	return &Error{Kind: KindInvalidField, Message: message, Err: err}
}

func EmptyPayload(message string) *Error {
	return &Error{Kind: KindEmptyPayload, Message: message}
}

func InvalidIdentifier(id string, err error) *Error {
	return &Error{Kind: KindInvalidIdentifier, Message: fmt.Sprintf("Invalid id %q", id), Err: err}
}

func NotFound(what string) *Error {
	return &Error{Kind: KindNotFound, Message: what + " not found"}
}

// Upstream wraps a provider failure. The detail is bounded to
// UpstreamDetailLimit characters so provider bodies never flood a response.
func Upstream(prefix string, err error) *Error {
	detail := ""
	if err != nil {
		detail = Truncate(err.Error(), UpstreamDetailLimit)
	}
	return &Error{Kind: KindUpstream, Message: prefix + ": " + detail}
}

func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

const UpstreamDetailLimit = 120

// KindOf reports the kind of err, or KindInternal when err is not an *Error.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}

// Truncate shortens s to at most n runes.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
