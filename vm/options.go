package vm

import (
	"bufio"
	"io"

	"github.com/magnum-lang/magnum/object"
	"github.com/magnum-lang/magnum/symtab"
)

// Option is a configuration function for a Virtual Machine.
type Option func(*VirtualMachine)

// WithStdout sets the writer that receives print output.
func WithStdout(w io.Writer) Option {
	return func(vm *VirtualMachine) {
		vm.stdout = w
	}
}

// WithStdin sets the reader that get expressions read from. Passing a
// *bufio.Reader lets the caller share the buffered input with the VM.
func WithStdin(r io.Reader) Option {
	return func(vm *VirtualMachine) {
		if br, ok := r.(*bufio.Reader); ok {
			vm.stdin = br
			return
		}
		vm.stdin = bufio.NewReader(r)
	}
}

// WithGlobals sets the symbol table used for global variables. Sharing one
// table between sequential runs keeps globals alive across them, as the REPL
// does.
func WithGlobals(globals *symtab.Table) Option {
	return func(vm *VirtualMachine) {
		vm.globals = globals
	}
}

// WithNatives provides values to declare as globals before execution starts.
// Names that are already declared are left untouched.
func WithNatives(natives map[string]object.Object) Option {
	return func(vm *VirtualMachine) {
		for name, value := range natives {
			vm.natives[name] = value
		}
	}
}

// WithContextCheckInterval sets how often the VM checks ctx.Done() during
// execution, in number of instructions. A value of 0 limits the checks to
// function calls. The default is DefaultContextCheckInterval.
func WithContextCheckInterval(interval int) Option {
	return func(vm *VirtualMachine) {
		vm.contextCheckInterval = interval
	}
}

// WithObserver sets an observer for VM execution events.
// The observer receives callbacks for instruction steps, function calls,
// and function returns. Returning false from any observer method halts
// execution with ErrStopped.
func WithObserver(observer Observer) Option {
	return func(vm *VirtualMachine) {
		vm.observer = observer
	}
}
