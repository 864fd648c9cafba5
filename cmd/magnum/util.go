package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	magnumerrors "github.com/magnum-lang/magnum/errors"
)

var red = color.New(color.FgRed).SprintFunc()

// printError writes err to stderr. Script errors are rendered with their
// line and trace, anything else is prefixed with "error:".
func (a *app) printError(err error) {
	var ee *exitError
	if errors.As(err, &ee) {
		fmt.Fprintln(a.stderr, magnumerrors.NewFormatter(a.color).FormatError(ee.err))
		return
	}
	fmt.Fprintln(a.stderr, red("error: ")+err.Error())
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("code", "c", "", "Code to evaluate")
	cmd.Flags().Bool("stdin", false, "Read code from stdin")
}

func flagChanged(cmd *cobra.Command, name string) bool {
	f := cmd.Flags().Lookup(name)
	return f != nil && f.Changed
}

func shouldRunRepl(cmd *cobra.Command, args []string) bool {
	return len(args) == 0 && !flagChanged(cmd, "code") && !flagChanged(cmd, "stdin")
}

// getSource determines what code is to be processed. There are three
// possibilities:
//  1. --code <code>
//  2. --stdin (read code from stdin)
//  3. path as args[0]
//
// With none of them, stdin is read when stdinFallback is set.
func (a *app) getSource(cmd *cobra.Command, args []string, stdinFallback bool) (string, error) {
	codeSet := flagChanged(cmd, "code")
	stdinSet := flagChanged(cmd, "stdin")
	pathSupplied := len(args) > 0

	count := 0
	for _, set := range []bool{codeSet, stdinSet, pathSupplied} {
		if set {
			count++
		}
	}
	if count > 1 {
		return "", errors.New("multiple input sources specified")
	}
	switch {
	case codeSet:
		return cmd.Flags().GetString("code")
	case pathSupplied:
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", err
		}
		return string(data), nil
	case stdinSet || stdinFallback:
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	return "", errors.New("no input provided")
}
