package engine

import (
	"context"
	"errors"
)

// Error is a non-success status reported by the engine together with the
// connection's error message at the time of failure.
type Error struct {
	Code Code
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Code.Errstr()
	}
	return e.Msg
}

// Is matches other engine errors by code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return t.Code == e.Code
	}
	return false
}

// NewError returns an engine error with the generic message for code.
func NewError(code Code) *Error {
	return &Error{Code: code, Msg: code.Errstr()}
}

// ErrNoMem is what every allocating call returns once the allocator refuses.
var ErrNoMem = NewError(CodeNoMem)

// Split returns the status code and message carried by err. Errors that did
// not come from the engine are reported as SQLITE_ERROR, except for context
// cancellation which the engine surfaces as an interrupt.
func Split(err error) (Code, string) {
	var e *Error
	if errors.As(err, &e) {
		return e.Code, e.Error()
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return CodeInterrupt, CodeInterrupt.Errstr()
	}
	return CodeError, err.Error()
}
