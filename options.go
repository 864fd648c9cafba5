package magnum

import (
	"io"
	"maps"

	"github.com/rs/zerolog"

	"github.com/magnum-lang/magnum/compiler"
	"github.com/magnum-lang/magnum/object"
	"github.com/magnum-lang/magnum/symtab"
	"github.com/magnum-lang/magnum/vm"
)

// Option configures a compilation or execution.
type Option func(*options)

type options struct {
	stdout         io.Writer
	stdin          io.Reader
	globals        *symtab.Table
	natives        map[string]object.Object
	withoutNatives bool
	observer       vm.Observer
	logger         *zerolog.Logger
}

func collectOptions(opts ...Option) *options {
	o := &options{natives: map[string]object.Object{}}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

func (o *options) compilerOpts() []compiler.Option {
	var opts []compiler.Option
	if o.logger != nil {
		opts = append(opts, compiler.WithLogger(*o.logger))
	}
	return opts
}

func (o *options) vmOpts() []vm.Option {
	natives := map[string]object.Object{}
	if !o.withoutNatives {
		maps.Copy(natives, Natives())
	}
	maps.Copy(natives, o.natives)

	opts := []vm.Option{vm.WithNatives(natives)}
	if o.stdout != nil {
		opts = append(opts, vm.WithStdout(o.stdout))
	}
	if o.stdin != nil {
		opts = append(opts, vm.WithStdin(o.stdin))
	}
	if o.globals != nil {
		opts = append(opts, vm.WithGlobals(o.globals))
	}
	if o.observer != nil {
		opts = append(opts, vm.WithObserver(o.observer))
	}
	return opts
}

// WithStdout sets the writer that print statements write to. The default is
// os.Stdout.
func WithStdout(w io.Writer) Option {
	return func(o *options) {
		o.stdout = w
	}
}

// WithStdin sets the reader that get expressions read from. The default is
// os.Stdin. Pass a *bufio.Reader to share buffered input across runs.
func WithStdin(r io.Reader) Option {
	return func(o *options) {
		o.stdin = r
	}
}

// WithGlobals sets the symbol table that holds global variables. Runs that
// share a table see each other's declarations, which is how the REPL keeps
// state between lines.
func WithGlobals(globals *symtab.Table) Option {
	return func(o *options) {
		o.globals = globals
	}
}

// WithNatives provides additional natives declared as globals before the
// script runs. This option is additive. If the same name is supplied more
// than once, the last value wins, and supplied natives replace standard ones
// of the same name.
func WithNatives(natives map[string]object.Object) Option {
	return func(o *options) {
		maps.Copy(o.natives, natives)
	}
}

// WithoutStandardNatives opts out of the natives returned by Natives.
func WithoutStandardNatives() Option {
	return func(o *options) {
		o.withoutNatives = true
	}
}

// WithObserver sets an observer for VM execution events.
func WithObserver(observer vm.Observer) Option {
	return func(o *options) {
		o.observer = observer
	}
}

// WithLogger sets a logger that receives compiler debug events.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = &logger
	}
}
