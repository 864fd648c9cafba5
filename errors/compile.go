package errors

import (
	"fmt"
	"strings"
)

// CompileError is a single diagnostic produced while compiling a script.
type CompileError struct {
	Code ErrorCode
	Line int
	// Lexeme carries the lexer's diagnostic text when the offending token was
	// illegal. In that case the error renders as a SYNTAX-ERROR.
	Lexeme  string
	Illegal bool
}

// NewCompileError returns a compile error of the given code at a line.
func NewCompileError(code ErrorCode, line int) *CompileError {
	return &CompileError{Code: code, Line: line}
}

// NewSyntaxError returns a compile error for an illegal token. The message is
// the text the lexer attached to the token.
func NewSyntaxError(line int, message string) *CompileError {
	return &CompileError{Code: CodeSyntax, Line: line, Lexeme: message, Illegal: true}
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	if e.Illegal {
		return fmt.Sprintf("[line %d] SYNTAX-ERROR in script: %s", e.Line, e.Lexeme)
	}
	return fmt.Sprintf("[line %d] COMPILE-TIME ERROR in script: %s", e.Line, e.Code.Message())
}

// Message returns the diagnostic text without the location prefix.
func (e *CompileError) Message() string {
	if e.Illegal {
		return e.Lexeme
	}
	return e.Code.Message()
}

// ToFormatted converts to the FormattedError type for display.
func (e *CompileError) ToFormatted() *FormattedError {
	kind := "COMPILE-TIME ERROR"
	if e.Illegal {
		kind = "SYNTAX-ERROR"
	}
	return &FormattedError{
		Code:    e.Code,
		Kind:    kind,
		Message: e.Message(),
		Line:    e.Line,
	}
}

// FormatCompileErrors renders a list of compile errors one per line. Its
// signature matches multierror.ErrorFormatFunc so it can be installed on an
// aggregated error.
func FormatCompileErrors(errs []error) string {
	lines := make([]string, 0, len(errs))
	for _, err := range errs {
		lines = append(lines, err.Error())
	}
	return strings.Join(lines, "\n")
}
