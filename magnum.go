// Package magnum compiles and runs Magnum scripts.
//
// A script is compiled into a top-level function whose bytecode is then
// executed by a stack based virtual machine:
//
//	result, err := magnum.Interpret(ctx, `print "hello" @ "world"`)
//
// Compile and Run may be used separately to execute one compiled script
// several times. Every run gets its own stack and, unless WithGlobals is
// given, its own global variables.
package magnum

import (
	"context"
	stderrors "errors"

	"github.com/magnum-lang/magnum/builtins"
	"github.com/magnum-lang/magnum/compiler"
	"github.com/magnum-lang/magnum/errors"
	"github.com/magnum-lang/magnum/object"
	"github.com/magnum-lang/magnum/vm"
)

// Result is the outcome of interpreting a script.
type Result int

const (
	ResultOK Result = iota
	ResultCompileError
	ResultRuntimeError
)

func (r Result) String() string {
	switch r {
	case ResultOK:
		return "ok"
	case ResultCompileError:
		return "compile error"
	case ResultRuntimeError:
		return "runtime error"
	default:
		return "unknown"
	}
}

// Exit codes follow the sysexits convention.
const (
	ExitOK           = 0
	ExitCompileError = 65 // EX_DATAERR
	ExitRuntimeError = 70 // EX_SOFTWARE
)

// ExitCode returns the process exit code for a result.
func ExitCode(r Result) int {
	switch r {
	case ResultCompileError:
		return ExitCompileError
	case ResultRuntimeError:
		return ExitRuntimeError
	default:
		return ExitOK
	}
}

// ResultOf classifies an error returned by Compile, Run or Interpret.
func ResultOf(err error) Result {
	switch {
	case err == nil:
		return ResultOK
	case errors.IsCompileError(err):
		return ResultCompileError
	default:
		return ResultRuntimeError
	}
}

// Natives returns the standard library natives: number, string and length.
// They are declared in every run unless WithoutStandardNatives is given.
func Natives() map[string]object.Object {
	return builtins.Natives()
}

// Compile compiles source into a top-level function. The returned error
// aggregates every compile diagnostic.
func Compile(source string, opts ...Option) (*object.Function, error) {
	o := collectOptions(opts...)
	return compiler.Compile(source, o.compilerOpts()...)
}

// Run executes a compiled script in a new virtual machine.
func Run(ctx context.Context, main *object.Function, opts ...Option) error {
	if main == nil {
		return stderrors.New("magnum: nil function")
	}
	o := collectOptions(opts...)
	return vm.Run(ctx, main, o.vmOpts()...)
}

// Interpret compiles and runs source, reporting which stage failed.
func Interpret(ctx context.Context, source string, opts ...Option) (Result, error) {
	main, err := Compile(source, opts...)
	if err != nil {
		return ResultCompileError, err
	}
	if err := Run(ctx, main, opts...); err != nil {
		return ResultRuntimeError, err
	}
	return ResultOK, nil
}
