// Package errors defines the compile-time and run-time error taxonomies of
// the interpreter, along with helpers for rendering them.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// StackFrame represents a single frame in the call stack at the moment a
// runtime error occurred.
type StackFrame struct {
	Function string
	Line     int
}

// String returns a formatted string representation of the stack frame.
func (f StackFrame) String() string {
	return fmt.Sprintf("[line %d] in `%s` ->", f.Line, f.Function)
}

// RuntimeError is a fatal error raised while executing bytecode.
type RuntimeError struct {
	Code ErrorCode
	// Trace lists the active frames, innermost first. The last entry is the
	// top-level script frame.
	Trace []StackFrame
	// Hint is an optional suggestion shown by the CLI formatter.
	Hint string
}

// NewRuntimeError returns a runtime error with the given code and trace.
func NewRuntimeError(code ErrorCode, trace []StackFrame) *RuntimeError {
	return &RuntimeError{Code: code, Trace: trace}
}

// Line returns the line of the innermost frame, or 0 with no trace.
func (e *RuntimeError) Line() int {
	if len(e.Trace) == 0 {
		return 0
	}
	return e.Trace[0].Line
}

// Error implements the error interface. The output lists one line per
// enclosing function frame followed by the failing line in the script.
func (e *RuntimeError) Error() string {
	var b strings.Builder
	for i, frame := range e.Trace {
		if i == len(e.Trace)-1 {
			fmt.Fprintf(&b, "[line %d] RUN-TIME ERROR in script: ", frame.Line)
			break
		}
		b.WriteString(frame.String())
		b.WriteString("\n")
	}
	if len(e.Trace) == 0 {
		b.WriteString("RUN-TIME ERROR in script: ")
	}
	b.WriteString(e.Code.Message())
	return b.String()
}

// ToFormatted converts to the FormattedError type for display.
func (e *RuntimeError) ToFormatted() *FormattedError {
	fe := &FormattedError{
		Code:    e.Code,
		Kind:    "RUN-TIME ERROR",
		Message: e.Code.Message(),
		Hint:    e.Hint,
	}
	if n := len(e.Trace); n > 0 {
		fe.Stack = e.Trace[:n-1]
		fe.Line = e.Trace[n-1].Line
	}
	return fe
}

// FormattableError is an interface for errors that can be formatted with
// the colored error formatter.
type FormattableError interface {
	Error() string
	ToFormatted() *FormattedError
}

// HasCode reports whether err, or any error it wraps, is a compile or runtime
// error carrying the given code. Aggregated errors that implement
// WrappedErrors are searched as well.
func HasCode(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}
	var ce *CompileError
	if errors.As(err, &ce) && ce.Code == code {
		return true
	}
	var re *RuntimeError
	if errors.As(err, &re) && re.Code == code {
		return true
	}
	if multi, ok := err.(interface{ WrappedErrors() []error }); ok {
		for _, inner := range multi.WrappedErrors() {
			if HasCode(inner, code) {
				return true
			}
		}
	}
	return false
}

// IsCompileError reports whether err is, or aggregates, a compile error.
func IsCompileError(err error) bool {
	var ce *CompileError
	if errors.As(err, &ce) {
		return true
	}
	if multi, ok := err.(interface{ WrappedErrors() []error }); ok {
		for _, inner := range multi.WrappedErrors() {
			if IsCompileError(inner) {
				return true
			}
		}
	}
	return false
}

// IsRuntimeError reports whether err is a runtime error.
func IsRuntimeError(err error) bool {
	var re *RuntimeError
	return errors.As(err, &re)
}
