package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/magnum-lang/magnum"
	"github.com/magnum-lang/magnum/builtins"
	"github.com/magnum-lang/magnum/internal/lexer"
	"github.com/magnum-lang/magnum/symtab"
	"github.com/magnum-lang/magnum/token"
)

func newReplCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.repl(cmd.Context())
		},
	}
}

type replSession struct {
	app         *app
	globals     *symtab.Table
	prompt      bool
	historyPath string
}

// repl reads statements line by line and runs each one against a shared
// symbol table. Input with unbalanced braces continues on the next line.
// Errors are reported and the session carries on.
func (a *app) repl(ctx context.Context) error {
	s := &replSession{
		app:         a,
		globals:     symtab.New(),
		prompt:      isTerminal(os.Stdin),
		historyPath: historyPath(),
	}
	if s.prompt {
		fmt.Fprintf(a.stdout, "Magnum %s\nType :help for commands\n", version)
	}

	var pending strings.Builder
	for {
		if s.prompt {
			if pending.Len() == 0 {
				fmt.Fprint(a.stdout, color.New(color.FgYellow, color.Bold).Sprint(">>> "))
			} else {
				fmt.Fprint(a.stdout, color.New(color.FgYellow, color.Bold).Sprint("... "))
			}
		}
		line, err := a.stdin.ReadString('\n')
		if line == "" && err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		line = strings.TrimRight(line, "\r\n")

		if pending.Len() == 0 {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" {
				continue
			}
			if strings.HasPrefix(trimmed, ":") {
				if quit := s.command(trimmed); quit {
					return nil
				}
				continue
			}
		}

		pending.WriteString(line)
		pending.WriteByte('\n')
		source := pending.String()
		if unbalanced(source) {
			continue
		}
		pending.Reset()
		if err := appendToHistory(s.historyPath, strings.TrimSpace(source)); err != nil {
			fmt.Fprintf(a.stderr, "warning: history disabled: %v\n", err)
			s.historyPath = ""
		}
		s.eval(ctx, source)
	}
}

func (s *replSession) eval(ctx context.Context, source string) {
	if err := s.app.interpret(ctx, source, magnum.WithGlobals(s.globals)); err != nil {
		s.app.printError(err)
	}
}

// command handles a REPL command and reports whether the session should end.
func (s *replSession) command(input string) bool {
	parts := strings.Fields(input)
	switch strings.ToLower(parts[0]) {
	case ":help", ":h", ":?":
		s.help()
	case ":globals", ":g":
		s.listGlobals()
	case ":reset":
		s.globals = symtab.New()
	case ":exit", ":quit", ":q":
		return true
	default:
		fmt.Fprintf(s.app.stderr, "unknown command: %s (type :help for commands)\n", parts[0])
	}
	return false
}

func (s *replSession) help() {
	fmt.Fprintln(s.app.stdout, "Commands:")
	fmt.Fprintln(s.app.stdout, "  :help, :h, :?     Show this help")
	fmt.Fprintln(s.app.stdout, "  :globals, :g      List global variables")
	fmt.Fprintln(s.app.stdout, "  :reset           Forget all globals")
	fmt.Fprintln(s.app.stdout, "  :exit, :quit, :q  Leave the REPL")
	fmt.Fprintln(s.app.stdout)

	t := table.NewWriter()
	t.SetOutputMirror(s.app.stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Native", "Arguments", "Returns", "Description", "Example"})
	for _, spec := range builtins.Docs() {
		t.AppendRow(table.Row{spec.Name, strings.Join(spec.Args, ", "), spec.Returns, spec.Doc, spec.Example})
	}
	t.Render()
}

func (s *replSession) listGlobals() {
	natives := magnum.Natives()
	keys := s.globals.Keys()

	t := table.NewWriter()
	t.SetOutputMirror(s.app.stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Name", "Type", "Value"})
	for _, key := range keys {
		if _, ok := natives[key]; ok {
			continue
		}
		value, _ := s.globals.Get(key)
		t.AppendRow(table.Row{key, value.Type(), value.Inspect()})
	}
	t.Render()
}

// unbalanced reports whether source has more opening than closing braces,
// meaning a block continues on the next line.
func unbalanced(source string) bool {
	tokens, _ := lexer.Tokenize(source)
	depth := 0
	for _, tok := range tokens {
		switch tok.Type {
		case token.LBRACE:
			depth++
		case token.RBRACE:
			depth--
		}
	}
	return depth > 0
}

func historyPath() string {
	home, err := homedir.Dir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".magnum_history")
}

func appendToHistory(path, line string) error {
	if path == "" || line == "" {
		return nil
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(line + "\n"); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
