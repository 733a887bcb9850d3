package engine

import (
	"errors"
	"fmt"

	"github.com/roach88/llql/internal/queryir"
)

// CompileErrorCode identifies a compile-time error category.
type CompileErrorCode string

const (
	// ErrCodeUnknownTable indicates FROM names a table that does not exist.
	ErrCodeUnknownTable CompileErrorCode = "E200"

	// ErrCodeUnknownColumn indicates a column reference that does not resolve.
	ErrCodeUnknownColumn CompileErrorCode = "E201"

	// ErrCodeUnknownFunction indicates a call to an unregistered function.
	ErrCodeUnknownFunction CompileErrorCode = "E202"

	// ErrCodeArity indicates a call with too few or too many arguments.
	ErrCodeArity CompileErrorCode = "E203"

	// ErrCodeArgumentType indicates an argument whose type the parameter
	// does not accept.
	ErrCodeArgumentType CompileErrorCode = "E204"

	// ErrCodeOperatorType indicates an operator applied to unsupported
	// operand types.
	ErrCodeOperatorType CompileErrorCode = "E205"

	// ErrCodeAggregate indicates an aggregate in WHERE or GROUP BY, or a
	// nested aggregate.
	ErrCodeAggregate CompileErrorCode = "E206"

	// ErrCodeFold indicates a constant call that failed when evaluated at
	// compile time.
	ErrCodeFold CompileErrorCode = "E207"

	// ErrCodeGroupBy indicates a non-aggregated expression missing from
	// GROUP BY.
	ErrCodeGroupBy CompileErrorCode = "E208"

	// ErrCodeLimit indicates a negative LIMIT or OFFSET.
	ErrCodeLimit CompileErrorCode = "E209"
)

// CompileError is a problem found while compiling a statement.
type CompileError struct {
	Code    CompileErrorCode
	Pos     queryir.Pos
	Message string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%d:%d: %s: %s", e.Pos.Line, e.Pos.Column, e.Code, e.Message)
}

func compileErrorf(code CompileErrorCode, pos queryir.Pos, format string, args ...any) *CompileError {
	return &CompileError{Code: code, Pos: pos, Message: fmt.Sprintf(format, args...)}
}

// RuntimeErrorCode categorizes execution errors.
type RuntimeErrorCode string

const (
	// ErrCodeCallFailed indicates a builtin returned an error for row data.
	ErrCodeCallFailed RuntimeErrorCode = "CALL_FAILED"

	// ErrCodeScanFailed indicates the data provider failed.
	ErrCodeScanFailed RuntimeErrorCode = "SCAN_FAILED"

	// ErrCodeCanceled indicates the context was canceled mid-query.
	ErrCodeCanceled RuntimeErrorCode = "CANCELED"
)

// RuntimeError is a failure while executing a compiled plan.
type RuntimeError struct {
	Code    RuntimeErrorCode
	Message string
	Err     error
}

func (e *RuntimeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *RuntimeError) Unwrap() error { return e.Err }

// IsCompileError reports whether err is, or wraps, a *CompileError.
func IsCompileError(err error) bool {
	var ce *CompileError
	return errors.As(err, &ce)
}

// IsRuntimeError reports whether err is, or wraps, a *RuntimeError.
func IsRuntimeError(err error) bool {
	var re *RuntimeError
	return errors.As(err, &re)
}
