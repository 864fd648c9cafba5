package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app carries the configuration and standard streams shared by all
// commands. Scripts and the REPL read from the same buffered stdin.
type app struct {
	v      *viper.Viper
	stdin  *bufio.Reader
	stdout io.Writer
	stderr io.Writer
	color  bool
}

// exitError reports a failure with a specific process exit code.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// execute runs the CLI and returns the process exit code.
func execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{
		v:      viper.New(),
		stdin:  bufio.NewReader(stdin),
		stdout: stdout,
		stderr: stderr,
	}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetIn(a.stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	a.printError(err)
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return 1
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "magnum [file]",
		Short: "Run Magnum scripts",
		Long: `Magnum is a small dynamically typed scripting language with decimal
numbers, compiled to bytecode and run on a stack based virtual machine.

With no file and no code, magnum starts a REPL when attached to a terminal
and otherwise reads the script from stdin.`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.bindFlags(cmd); err != nil {
				return fmt.Errorf("error binding flags: %w", err)
			}
			return a.loadConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if shouldRunRepl(cmd, args) && isTerminal(os.Stdin) {
				return a.repl(cmd.Context())
			}
			return a.runCommand(cmd, args, true)
		},
	}
	root.SetVersionTemplate("magnum {{.Version}}\n")

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (default: ~/.magnum.yaml)")
	flags.Bool("no-color", false, "Disable colored output")
	flags.Bool("trace", false, "Log function calls and returns to stderr")
	flags.Bool("trace-steps", false, "Also log every source line executed")
	flags.Duration("timeout", 0, "Abort execution after this duration")

	addSourceFlags(root)
	root.Flags().Bool("timing", false, "Show execution time")

	root.AddCommand(
		newRunCmd(a),
		newDisCmd(a),
		newTokensCmd(a),
		newReplCmd(a),
		newVersionCmd(a),
		newBenchCmd(a),
		newTestCmd(a),
	)
	return root
}

// bindFlags binds the persistent flags, and the --timing flag of the running
// command when it has one, to their configuration keys.
func (a *app) bindFlags(cmd *cobra.Command) error {
	if err := a.v.BindPFlags(cmd.Root().PersistentFlags()); err != nil {
		return err
	}
	if timing := cmd.Flags().Lookup("timing"); timing != nil {
		return a.v.BindPFlag("timing", timing)
	}
	return nil
}

// loadConfig reads the optional config file and applies the color settings.
// Precedence (highest to lowest): flags > MAGNUM_* env vars > config file.
func (a *app) loadConfig() error {
	a.v.SetEnvPrefix("MAGNUM")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	path := a.v.GetString("config")
	if path == "" {
		home, err := homedir.Dir()
		if err == nil {
			candidate := filepath.Join(home, ".magnum.yaml")
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
			}
		}
	}
	if path != "" {
		a.v.SetConfigFile(path)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	a.color = !a.v.GetBool("no-color") && os.Getenv("NO_COLOR") == "" && isTerminal(a.stderr)
	color.NoColor = !a.color
	return nil
}
