package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Formatter formats errors for terminal display, optionally with colors.
type Formatter struct {
	// UseColor enables ANSI color codes in output.
	UseColor bool
}

// NewFormatter creates a new error formatter.
func NewFormatter(useColor bool) *Formatter {
	return &Formatter{UseColor: useColor}
}

// Colors used for error formatting
var (
	colorKind     = color.New(color.FgRed, color.Bold)
	colorLocation = color.New(color.FgCyan)
	colorStack    = color.New(color.FgYellow)
	colorHint     = color.New(color.FgHiYellow)
	colorCode     = color.New(color.FgHiBlack)
)

// FormattedError represents an error ready for display.
type FormattedError struct {
	Code    ErrorCode
	Kind    string // "COMPILE-TIME ERROR", "SYNTAX-ERROR" or "RUN-TIME ERROR"
	Message string
	Line    int
	Hint    string
	Stack   []StackFrame // enclosing function frames, innermost first
}

func (f *Formatter) paint(c *color.Color, s string) string {
	if !f.UseColor {
		return s
	}
	c.EnableColor()
	return c.Sprint(s)
}

// Format renders a single error. Without colors and without a hint the
// output is identical to the error's Error() text.
func (f *Formatter) Format(err *FormattedError) string {
	var b strings.Builder
	for _, frame := range err.Stack {
		b.WriteString(f.paint(colorStack, frame.String()))
		b.WriteString("\n")
	}
	b.WriteString(f.paint(colorLocation, fmt.Sprintf("[line %d]", err.Line)))
	b.WriteString(" ")
	b.WriteString(f.paint(colorKind, err.Kind))
	b.WriteString(" in script: ")
	b.WriteString(err.Message)
	if f.UseColor && err.Code != "" {
		b.WriteString(" ")
		b.WriteString(f.paint(colorCode, "["+string(err.Code)+"]"))
	}
	if err.Hint != "" {
		b.WriteString("\n  ")
		b.WriteString(f.paint(colorHint, "hint: "))
		b.WriteString(err.Hint)
	}
	return b.String()
}

// FormatError renders any error. Aggregated compile errors are rendered one
// per line and errors without a structured form fall back to Error().
func (f *Formatter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	if multi, ok := err.(interface{ WrappedErrors() []error }); ok {
		lines := make([]string, 0, len(multi.WrappedErrors()))
		for _, inner := range multi.WrappedErrors() {
			lines = append(lines, f.FormatError(inner))
		}
		return strings.Join(lines, "\n")
	}
	if fe, ok := err.(FormattableError); ok {
		return f.Format(fe.ToFormatted())
	}
	return err.Error()
}
