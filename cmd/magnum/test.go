package main

import (
	"errors"

	"github.com/spf13/cobra"

	mgtesting "github.com/magnum-lang/magnum/testing"
)

func newTestCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test [patterns...]",
		Short: "Run script tests",
		Long: `Run the test_* functions found in *_test.mg files.

Patterns may name files, directories, globs, or a directory followed by
"/..." to search recursively. The default is the current directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			runPattern, _ := cmd.Flags().GetString("run")
			verbose, _ := cmd.Flags().GetBool("verbose")

			summary, err := mgtesting.Run(cmd.Context(), &mgtesting.Config{
				Patterns:   args,
				RunPattern: runPattern,
			})
			if err != nil {
				return err
			}
			output := mgtesting.NewOutput(mgtesting.OutputConfig{
				Writer:   a.stdout,
				Verbose:  verbose,
				UseColor: a.color,
			})
			output.PrintResults(summary)
			if !summary.Success() {
				return &exitError{code: 1, err: errors.New("tests failed")}
			}
			return nil
		},
	}
	cmd.Flags().String("run", "", "Run only tests matching this regular expression")
	cmd.Flags().BoolP("verbose", "v", false, "Show log output for all tests")
	return cmd
}
