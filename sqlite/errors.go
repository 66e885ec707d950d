package sqlite

import (
	"fmt"

	"github.com/GintGld/sqlguard/internal/engine"
)

// Code is a SQLite primary result code.
type Code = engine.Code

const (
	CodeOK         = engine.CodeOK
	CodeError      = engine.CodeError
	CodeInternal   = engine.CodeInternal
	CodePerm       = engine.CodePerm
	CodeAbort      = engine.CodeAbort
	CodeBusy       = engine.CodeBusy
	CodeLocked     = engine.CodeLocked
	CodeNoMem      = engine.CodeNoMem
	CodeReadOnly   = engine.CodeReadOnly
	CodeInterrupt  = engine.CodeInterrupt
	CodeIOErr      = engine.CodeIOErr
	CodeCorrupt    = engine.CodeCorrupt
	CodeNotFound   = engine.CodeNotFound
	CodeFull       = engine.CodeFull
	CodeCantOpen   = engine.CodeCantOpen
	CodeProtocol   = engine.CodeProtocol
	CodeEmpty      = engine.CodeEmpty
	CodeSchema     = engine.CodeSchema
	CodeTooBig     = engine.CodeTooBig
	CodeConstraint = engine.CodeConstraint
	CodeMismatch   = engine.CodeMismatch
	CodeMisuse     = engine.CodeMisuse
	CodeNoLFS      = engine.CodeNoLFS
	CodeAuth       = engine.CodeAuth
	CodeFormat     = engine.CodeFormat
	CodeRange      = engine.CodeRange
	CodeNotADB     = engine.CodeNotADB
	CodeRow        = engine.CodeRow
	CodeDone       = engine.CodeDone
)

// CodeName returns the symbolic name of code, e.g. "SQLITE_BUSY".
func CodeName(code Code) string {
	return code.String()
}

// Failure is what the default error handler returns for a failed engine call.
type Failure struct {
	Code    Code
	Message string
}

func (f *Failure) Error() string {
	return f.Message
}

// Is matches failures by code, so errors.Is(err, sqlite.ErrBusy) works for
// any busy failure.
func (f *Failure) Is(err error) bool {
	if ferr, ok := err.(*Failure); ok {
		return ferr.Code == f.Code
	}
	return false
}

var (
	ErrBusy       = &Failure{Code: CodeBusy}
	ErrNoMem      = &Failure{Code: CodeNoMem}
	ErrInterrupt  = &Failure{Code: CodeInterrupt}
	ErrReadOnly   = &Failure{Code: CodeReadOnly}
	ErrConstraint = &Failure{Code: CodeConstraint}
)

func newFailure(code Code, msg string) *Failure {
	return &Failure{
		Code:    code,
		Message: fmt.Sprintf("%s[%d]: %s", CodeName(code), int(code), msg),
	}
}

// Usage error messages.
const (
	MsgNullHandle = "Null handle"
	MsgNotOpen    = "Database not open"
	MsgNotClosed  = "Previous db handle was not closed"
)

// UsageError reports a programming mistake detected without asking the
// engine: using a finalized or moved-from handle, reopening an open
// connection or using a closed one. It never goes through the error handler.
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string {
	return e.Msg
}

func (e *UsageError) Is(err error) bool {
	if uerr, ok := err.(*UsageError); ok {
		return uerr.Msg == e.Msg
	}
	return false
}

var (
	ErrNullHandle = &UsageError{Msg: MsgNullHandle}
	ErrNotOpen    = &UsageError{Msg: MsgNotOpen}
	ErrNotClosed  = &UsageError{Msg: MsgNotClosed}
)

// Invalid argument messages.
const (
	MsgInvalidFieldIndex = "Invalid field index requested"
	MsgInvalidFieldName  = "Invalid field name requested"
	MsgInvalidScalar     = "Invalid scalar query"
)

// InvalidArgumentError reports a bad column position or name, or a scalar
// query without a value. Like UsageError it bypasses the error handler.
type InvalidArgumentError struct {
	Msg string

	// Hint names the closest existing column for unknown field names.
	Hint string
}

func (e *InvalidArgumentError) Error() string {
	if e.Hint == "" {
		return e.Msg
	}
	return e.Msg + " (did you mean " + e.Hint + "?)"
}

func (e *InvalidArgumentError) Is(err error) bool {
	if ierr, ok := err.(*InvalidArgumentError); ok {
		return ierr.Msg == e.Msg
	}
	return false
}

var (
	ErrInvalidFieldIndex = &InvalidArgumentError{Msg: MsgInvalidFieldIndex}
	ErrInvalidFieldName  = &InvalidArgumentError{Msg: MsgInvalidFieldName}
	ErrInvalidScalar     = &InvalidArgumentError{Msg: MsgInvalidScalar}
)
