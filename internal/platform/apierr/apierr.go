// Package apierr defines the error taxonomy shared by every layer of the
// service. Callers branch on Kind, never on message text.
package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindValidation      Kind = "validation_failed"
	KindUnauthorized    Kind = "unauthorized"
	KindForbidden       Kind = "forbidden"
	KindNotFound        Kind = "not_found"
	KindConflict        Kind = "conflict"
	KindStorage         Kind = "storage_operation_failed"
	KindUpstreamMapping Kind = "upstream_mapping_failed"
)

type Error struct {
	Kind    Kind
	Message string
	Details map[string]interface{}
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Status maps the kind onto its HTTP status. Storage and upstream-mapping
// failures are gateway-class (502), distinct from caller errors.
func (e *Error) Status() int {
	if e == nil {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindStorage, KindUpstreamMapping:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// HTTPStatusCode satisfies httpx.HTTPStatusCoder so retry policy can
// classify taxonomy errors without unwrapping them.
func (e *Error) HTTPStatusCode() int { return e.Status() }

func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

// ValidationDetails carries structured detail alongside the message, e.g.
// the list of missing mandatory columns.
func ValidationDetails(msg string, details map[string]interface{}) *Error {
	return &Error{Kind: KindValidation, Message: msg, Details: details}
}

func Unauthorized(msg string) *Error {
	return &Error{Kind: KindUnauthorized, Message: msg}
}

func Forbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Message: msg}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

// Storage wraps any storage transport/permission failure under a single kind
// with the causing message attached for diagnostics.
func Storage(op string, err error) *Error {
	return &Error{Kind: KindStorage, Message: fmt.Sprintf("storage operation %q failed", op), Err: err}
}

// UpstreamMapping marks a mapping-service failure; an empty or non-success
// upstream response must surface through here, never as "no mapping found".
func UpstreamMapping(msg string, err error) *Error {
	return &Error{Kind: KindUpstreamMapping, Message: msg, Err: err}
}

// From extracts the taxonomy error from err's chain, or nil.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}

func IsKind(err error, kind Kind) bool {
	e := From(err)
	return e != nil && e.Kind == kind
}
