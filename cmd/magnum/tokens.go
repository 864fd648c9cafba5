package main

import (
	"encoding/json"

	"github.com/hokaccha/go-prettyjson"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/magnum-lang/magnum"
	"github.com/magnum-lang/magnum/internal/lexer"
	"github.com/magnum-lang/magnum/token"
)

type tokenRow struct {
	Line    int    `json:"line"`
	Type    string `json:"type"`
	Literal string `json:"literal,omitempty"`
}

func newTokensCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokens [file]",
		Short: "Print the tokens of a script",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := a.getSource(cmd, args, false)
			if err != nil {
				return err
			}
			tokens, lexErr := lexer.Tokenize(source)
			rows := make([]tokenRow, 0, len(tokens))
			for _, tok := range tokens {
				rows = append(rows, tokenRow{Line: tok.Line, Type: string(tok.Type), Literal: literal(tok)})
			}

			if output, _ := cmd.Flags().GetString("output"); output == "json" {
				if err := a.writeJSON(rows); err != nil {
					return err
				}
			} else {
				t := table.NewWriter()
				t.SetOutputMirror(a.stdout)
				t.SetStyle(table.StyleLight)
				t.AppendHeader(table.Row{"Line", "Type", "Literal"})
				for _, row := range rows {
					t.AppendRow(table.Row{row.Line, row.Type, row.Literal})
				}
				t.Render()
			}
			if lexErr != nil {
				return &exitError{code: magnum.ExitCompileError, err: lexErr}
			}
			return nil
		},
	}
	addSourceFlags(cmd)
	cmd.Flags().StringP("output", "o", "table", "Output format (table or json)")
	return cmd
}

func literal(tok token.Token) string {
	if tok.Type == token.NEWLINE || tok.Type == token.EOF {
		return ""
	}
	return tok.Literal
}

// writeJSON prints v as indented JSON, colorized when color is enabled.
func (a *app) writeJSON(v any) error {
	var data []byte
	var err error
	if a.color {
		data, err = prettyjson.Marshal(v)
	} else {
		data, err = json.MarshalIndent(v, "", "  ")
	}
	if err != nil {
		return err
	}
	_, err = a.stdout.Write(append(data, '\n'))
	return err
}
