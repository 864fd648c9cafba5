// Package builtins defines the standard library natives available to every
// script: number, string and length.
//
// Natives never fail. A call with the wrong number of arguments or with an
// argument of the wrong type returns void.
package builtins

import (
	"github.com/magnum-lang/magnum/decimal"
	"github.com/magnum-lang/magnum/object"
)

// Number converts a string to a number. It returns void when the text is not
// a valid decimal.
func Number(args []object.Object) object.Object {
	s, ok := singleString(args)
	if !ok {
		return object.Void
	}
	n, err := decimal.Parse(s.Value())
	if err != nil {
		return object.Void
	}
	return object.NewNumber(n)
}

// String renders a number as its canonical text.
func String(args []object.Object) object.Object {
	if len(args) != 1 {
		return object.Void
	}
	n, ok := args[0].(*object.Number)
	if !ok {
		return object.Void
	}
	return object.NewString(n.Value().String())
}

// Length returns the number of bytes in a string.
func Length(args []object.Object) object.Object {
	s, ok := singleString(args)
	if !ok {
		return object.Void
	}
	return object.NewNumberFromInt(len(s.Value()))
}

func singleString(args []object.Object) (*object.String, bool) {
	if len(args) != 1 {
		return nil, false
	}
	s, ok := args[0].(*object.String)
	return s, ok
}

// Natives returns a new map of every standard library native, keyed by the
// global name it is declared under.
func Natives() map[string]object.Object {
	return map[string]object.Object{
		"length": object.NewNative("length", Length),
		"number": object.NewNative("number", Number),
		"string": object.NewNative("string", String),
	}
}
