package object

import (
	"github.com/magnum-lang/magnum/op"
)

// NativeFunction is the signature of a function implemented in Go. Natives
// never fail: a bad argument list produces Void.
type NativeFunction func(args []Object) Object

// Native wraps a Go function so scripts can call it.
type Native struct {
	name string
	fn   NativeFunction
}

func NewNative(name string, fn NativeFunction) *Native {
	return &Native{name: name, fn: fn}
}

func (n *Native) Type() Type {
	return NATIVE
}

func (n *Native) Name() string {
	return n.name
}

func (n *Native) Call(args []Object) Object {
	result := n.fn(args)
	if result == nil {
		return Void
	}
	return result
}

func (n *Native) Inspect() string {
	return "<Standard library function>"
}

func (n *Native) String() string {
	return n.Inspect()
}

// Equals is always false. Natives do not take part in equality.
func (n *Native) Equals(other Object) bool {
	return false
}

func (n *Native) RunOperation(opType op.BinaryOpType, right Object) (Object, bool) {
	return nil, false
}

func (n *Native) sealed() {}
