package testing

import (
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/magnum-lang/magnum/errors"
)

// OutputConfig configures output formatting.
type OutputConfig struct {
	Writer io.Writer

	// Verbose shows log output for passing tests too.
	Verbose bool

	// UseColor enables ANSI color codes.
	UseColor bool
}

// Output prints test results. Problems are reported against the test file
// as file:line diagnostics, using the error kinds of the interpreter.
type Output struct {
	w        io.Writer
	verbose  bool
	useColor bool
}

// NewOutput creates a new Output formatter.
func NewOutput(cfg OutputConfig) *Output {
	return &Output{
		w:        cfg.Writer,
		verbose:  cfg.Verbose,
		useColor: cfg.UseColor,
	}
}

var (
	passColor = color.New(color.FgGreen)
	failColor = color.New(color.FgRed)
	skipColor = color.New(color.FgYellow)
)

// PrintResults prints the results of every file followed by the totals.
func (o *Output) PrintResults(summary *Summary) {
	for _, file := range summary.Files {
		o.File(file)
	}
	o.Summary(summary)
}

// File prints the diagnostics of a file that did not compile, or else the
// result of each of its tests.
func (o *Output) File(file *FileResult) {
	if file.CompileErr != nil {
		fmt.Fprintf(o.w, "%s %s (does not compile)\n", o.paint(failColor, "--- FAIL:"), file.Filename)
		for _, line := range o.compileDiagnostics(file.Filename, file.CompileErr) {
			o.detail(1, line)
		}
		return
	}
	for _, test := range file.Tests {
		o.Test(file.Filename, test)
	}
}

// Test prints the status line of one test and whatever explains it.
func (o *Output) Test(filename string, result *TestResult) {
	fmt.Fprintf(o.w, "%s %s (%.3fs)\n", o.status(result.Status), result.Name, result.Duration.Seconds())

	switch result.Status {
	case StatusSkipped:
		if result.SkipReason != "" {
			o.detail(1, result.SkipReason)
		}
	case StatusError:
		if result.Error != nil {
			o.runError(filename, result.Error)
		}
	}
	for _, failure := range result.Failures {
		o.failure(filename, failure)
	}
	if o.verbose || result.Status == StatusFailed || result.Status == StatusError {
		for _, log := range result.Logs {
			o.detail(1, log)
		}
	}
}

func (o *Output) status(s Status) string {
	switch s {
	case StatusPassed:
		return o.paint(passColor, "--- PASS:")
	case StatusFailed:
		return o.paint(failColor, "--- FAIL:")
	case StatusSkipped:
		return o.paint(skipColor, "--- SKIP:")
	case StatusError:
		return o.paint(failColor, "--- ERROR:")
	}
	return fmt.Sprintf("--- %s:", s)
}

func (o *Output) failure(filename string, f AssertionError) {
	if f.File != "" {
		filename = f.File
	}
	o.detail(1, fmt.Sprintf("%s: %s", location(filename, f.Line), f.Message))
	if f.Got != nil {
		o.detail(2, fmt.Sprintf("%s  %s", o.paint(failColor, "got:"), f.Got.Inspect()))
	}
	if f.Want != nil {
		o.detail(2, fmt.Sprintf("%s %s", o.paint(passColor, "want:"), f.Want.Inspect()))
	}
}

// runError prints a runtime error at the line of the innermost frame, then
// the calls that led there.
func (o *Output) runError(filename string, err error) {
	var rerr *errors.RuntimeError
	if !stderrors.As(err, &rerr) || len(rerr.Trace) == 0 {
		for _, line := range strings.Split(err.Error(), "\n") {
			o.detail(1, line)
		}
		return
	}
	top := rerr.Trace[0]
	o.detail(1, fmt.Sprintf("%s: %s in `%s`: %s", location(filename, rerr.Line()),
		o.paint(failColor, "RUN-TIME ERROR"), top.Function, rerr.Code.Message()))
	for _, frame := range rerr.Trace[1:] {
		o.detail(2, fmt.Sprintf("called from %s in `%s`", location(filename, frame.Line), frame.Function))
	}
	if rerr.Hint != "" {
		o.detail(2, "hint: "+rerr.Hint)
	}
}

// compileDiagnostics renders each compile error of an aggregated error as a
// located line. Errors of any other kind, such as a failed read, are kept as
// they are.
func (o *Output) compileDiagnostics(filename string, err error) []string {
	errs := []error{err}
	if multi, ok := err.(interface{ WrappedErrors() []error }); ok {
		errs = multi.WrappedErrors()
	}
	var lines []string
	for _, e := range errs {
		var ce *errors.CompileError
		if !stderrors.As(e, &ce) {
			lines = append(lines, strings.Split(e.Error(), "\n")...)
			continue
		}
		fe := ce.ToFormatted()
		lines = append(lines, fmt.Sprintf("%s: %s: %s", location(filename, fe.Line),
			o.paint(failColor, fe.Kind), fe.Message))
	}
	return lines
}

// Summary prints the overall status with the number of files and the
// non-zero counts.
func (o *Output) Summary(summary *Summary) {
	status := o.paint(passColor, "PASS")
	if !summary.Success() {
		status = o.paint(failColor, "FAIL")
	}
	parts := []string{plural(len(summary.Files), "file")}
	if summary.Passed > 0 {
		parts = append(parts, o.paint(passColor, fmt.Sprintf("%d passed", summary.Passed)))
	}
	if summary.Failed > 0 {
		parts = append(parts, o.paint(failColor, fmt.Sprintf("%d failed", summary.Failed)))
	}
	if summary.Skipped > 0 {
		parts = append(parts, o.paint(skipColor, fmt.Sprintf("%d skipped", summary.Skipped)))
	}
	if summary.Errors > 0 {
		parts = append(parts, o.paint(failColor, plural(summary.Errors, "error")))
	}
	fmt.Fprintf(o.w, "\n%s  %s\n", status, strings.Join(parts, ", "))
}

func (o *Output) detail(indent int, line string) {
	fmt.Fprintf(o.w, "%s%s\n", strings.Repeat("    ", indent), line)
}

func (o *Output) paint(c *color.Color, s string) string {
	if !o.useColor {
		return s
	}
	c.EnableColor()
	return c.Sprint(s)
}

func location(filename string, line int) string {
	if line > 0 {
		return fmt.Sprintf("%s:%d", filename, line)
	}
	return filename
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
