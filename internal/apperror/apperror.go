package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a service error so controllers can pick the HTTP status
// without inspecting message strings.
type Kind int

const (
	// KindInternal is the fallback for unclassified collaborator failures.
	KindInternal Kind = iota
	// KindBadRequest covers user input errors: missing parameters, zero
	// requested items, unresolved knowledge components, invalid payloads.
	KindBadRequest
	// KindNotFound covers ownership-scoped lookups. A request owned by
	// someone else reports the same error as one that does not exist.
	KindNotFound
	// KindConflict covers illegal state transitions, e.g. editing an
	// approved item.
	KindConflict
	// KindUpstream covers failures of the external generative service:
	// upload errors, timeouts, unparseable responses, empty output.
	KindUpstream
)

type Error struct {
	kind Kind
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.err }

func (e *Error) Kind() Kind { return e.kind }

// Message returns the user-facing text without the wrapped cause.
func (e *Error) Message() string { return e.msg }

func New(kind Kind, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{kind: kind, msg: msg, err: err}
}

func BadRequest(msg string) *Error { return New(KindBadRequest, msg) }

func NotFound(msg string) *Error { return New(KindNotFound, msg) }

func Conflict(msg string) *Error { return New(KindConflict, msg) }

func Upstream(msg string, err error) *Error { return Wrap(KindUpstream, msg, err) }

// KindOf extracts the kind from an error chain, defaulting to KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind()
	}
	return KindInternal
}

// MessageOf returns the user-facing message of a classified error, or the
// full error text for unclassified ones.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message()
	}
	return err.Error()
}

// HTTPStatus maps an error chain to the response status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindBadRequest, KindUpstream:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
