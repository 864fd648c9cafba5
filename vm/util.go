package vm

import (
	"bufio"
	"strings"
	"unicode"

	"github.com/magnum-lang/magnum/errors"
	"github.com/magnum-lang/magnum/object"
)

func (vm *VirtualMachine) checkCallArgs(fn *object.Function, argc int) error {
	if fn.Arity() != argc {
		return vm.runtimeError(errors.CodeArguments)
	}
	return nil
}

// readWord reads one whitespace-delimited word. It returns "" when the input
// is exhausted before any word character.
func readWord(r *bufio.Reader) string {
	var b strings.Builder
	for {
		ch, _, err := r.ReadRune()
		if err != nil {
			return b.String()
		}
		if unicode.IsSpace(ch) {
			if b.Len() > 0 {
				return b.String()
			}
			continue
		}
		b.WriteRune(ch)
	}
}

// assignmentHint suggests declared globals with names close to name.
func (vm *VirtualMachine) assignmentHint(name string) string {
	return errors.FormatSuggestions(errors.SuggestSimilar(name, vm.globals.Keys()))
}
