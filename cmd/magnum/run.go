package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/magnum-lang/magnum"
)

func newRunCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [file]",
		Short: "Run a script",
		Long: `Compile and run a script from a file, from --code, or from stdin.

Exits with status 65 when the script does not compile and 70 when it fails
at run time.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCommand(cmd, args, true)
		},
	}
	addSourceFlags(cmd)
	cmd.Flags().Bool("timing", false, "Show execution time")
	return cmd
}

func (a *app) runCommand(cmd *cobra.Command, args []string, stdinFallback bool) error {
	source, err := a.getSource(cmd, args, stdinFallback)
	if err != nil {
		return err
	}
	start := time.Now()
	if err := a.interpret(cmd.Context(), source); err != nil {
		return err
	}
	if a.v.GetBool("timing") {
		fmt.Fprintf(a.stderr, "%v\n", time.Since(start))
	}
	return nil
}

// options returns the interpreter options implied by the configuration.
func (a *app) options() []magnum.Option {
	opts := []magnum.Option{
		magnum.WithStdout(a.stdout),
		magnum.WithStdin(a.stdin),
	}
	if a.v.GetBool("trace") || a.v.GetBool("trace-steps") {
		tracer := newTraceObserver(a.stderr, a.v.GetBool("trace-steps"), a.color)
		opts = append(opts, magnum.WithObserver(tracer), magnum.WithLogger(tracer.logger))
	}
	return opts
}

func (a *app) interpret(ctx context.Context, source string, extra ...magnum.Option) error {
	if timeout := a.v.GetDuration("timeout"); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	result, err := magnum.Interpret(ctx, source, append(a.options(), extra...)...)
	if err != nil {
		return &exitError{code: magnum.ExitCode(result), err: err}
	}
	return nil
}
