package vm

import (
	"context"

	"github.com/magnum-lang/magnum/compiler"
	"github.com/magnum-lang/magnum/object"
)

// Run the given function in a new Virtual Machine.
func Run(ctx context.Context, main *object.Function, options ...Option) error {
	return New(main, options...).Run(ctx)
}

// run compiles and runs source in a new VM. Used for testing.
func run(ctx context.Context, source string, options ...Option) error {
	main, err := compiler.Compile(source)
	if err != nil {
		return err
	}
	return Run(ctx, main, options...)
}
