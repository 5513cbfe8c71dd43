package booking

import (
	"errors"
	"fmt"
)

// Kind tags an engine error with the failure category the boundary layer
// maps to a transport status.
type Kind string

const (
	// KindNotFound covers absent rooms/bookings and empty role-scoped views.
	KindNotFound Kind = "not_found"
	// KindConflict covers overlapping bookings on the same room.
	KindConflict Kind = "conflict"
	// KindBadRequest covers invalid intervals, capacity and horizon breaches.
	KindBadRequest Kind = "bad_request"
	// KindForbidden covers callers acting outside their role or ownership.
	KindForbidden Kind = "forbidden"
)

// Error is the tagged failure every engine operation returns on the error
// path. The message is surfaced verbatim by the boundary layer.
type Error struct {
	Kind    Kind
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

// NotFoundError constructs a NotFound tagged error.
func NotFoundError(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// ConflictError constructs a Conflict tagged error.
func ConflictError(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// BadRequestError constructs a BadRequest tagged error.
func BadRequestError(format string, args ...any) *Error {
	return &Error{Kind: KindBadRequest, Message: fmt.Sprintf(format, args...)}
}

// ForbiddenError constructs a Forbidden tagged error.
func ForbiddenError(format string, args ...any) *Error {
	return &Error{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the tag from an engine error, or "" for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) && e != nil {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries the given tag.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// ErrorKind maps an error to a stable logging label.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	if kind := KindOf(err); kind != "" {
		return string(kind)
	}
	return "unexpected"
}
