// Package object provides the runtime value types of the language.
//
// Object is a closed sum type: only the types in this package implement it.
// Callers type switch on the concrete type:
//
//	switch obj := obj.(type) {
//	case *object.Number:
//		// do something with obj.Value()
//	case *object.String:
//		// do something with obj.Value()
//	}
//
// The Type() method of each object may also be used to get a string
// name of the object type, such as "number" or "string".
package object

import (
	"github.com/magnum-lang/magnum/op"
)

// Type of an object as a string.
type Type string

// Type constants
const (
	BOOL     Type = "bool"
	FUNCTION Type = "function"
	NATIVE   Type = "native"
	NUMBER   Type = "number"
	STRING   Type = "string"
	VOID     Type = "void"
)

var (
	Void  = &VoidType{}
	True  = &Bool{value: true}
	False = &Bool{value: false}
)

// Object is the interface that all runtime values implement.
type Object interface {
	// Type of the object.
	Type() Type

	// Inspect returns the text written by a print statement.
	Inspect() string

	// Returns true if the given object is equal to this object.
	Equals(other Object) bool

	// RunOperation runs an arithmetic operation with this object as the left
	// operand. The boolean result is false if the operand types are not a
	// supported pairing for the operator.
	RunOperation(opType op.BinaryOpType, right Object) (Object, bool)

	sealed()
}

// NewBool returns the shared Bool object for the given value.
func NewBool(value bool) *Bool {
	if value {
		return True
	}
	return False
}

// Bool wraps a boolean value.
type Bool struct {
	value bool
}

func (b *Bool) Type() Type {
	return BOOL
}

func (b *Bool) Value() bool {
	return b.value
}

func (b *Bool) Inspect() string {
	if b.value {
		return "true"
	}
	return "false"
}

func (b *Bool) String() string {
	return b.Inspect()
}

func (b *Bool) Equals(other Object) bool {
	o, ok := other.(*Bool)
	return ok && o.value == b.value
}

func (b *Bool) RunOperation(opType op.BinaryOpType, right Object) (Object, bool) {
	r, ok := right.(*Bool)
	if !ok {
		return nil, false
	}
	switch opType {
	case op.And:
		return NewBool(b.value && r.value), true
	case op.Or:
		return NewBool(b.value || r.value), true
	}
	return nil, false
}

func (b *Bool) sealed() {}
