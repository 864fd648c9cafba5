package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/magnum-lang/magnum"
	"github.com/magnum-lang/magnum/dis"
)

func newDisCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dis [file]",
		Short: "Disassemble a script",
		Long: `Compile a script and print its bytecode. With --func, print the code of
the named function instead of the top-level script.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := a.getSource(cmd, args, false)
			if err != nil {
				return err
			}
			script, err := magnum.Compile(source)
			if err != nil {
				return &exitError{code: magnum.ExitCompileError, err: err}
			}

			target := script
			if name, _ := cmd.Flags().GetString("func"); name != "" {
				fn, ok := dis.FindFunction(script, name)
				if !ok {
					return fmt.Errorf("function %q not found", name)
				}
				target = fn
			}

			instructions, err := dis.Disassemble(target.Chunk())
			if err != nil {
				return err
			}
			if output, _ := cmd.Flags().GetString("output"); output == "json" {
				return dis.PrintJSON(a.stdout, instructions, a.color)
			}
			dis.Print(a.stdout, instructions)
			return nil
		},
	}
	addSourceFlags(cmd)
	cmd.Flags().String("func", "", "Function name to disassemble")
	cmd.Flags().StringP("output", "o", "table", "Output format (table or json)")
	return cmd
}
