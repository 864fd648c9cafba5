package object

import (
	"github.com/magnum-lang/magnum/op"
)

// VoidType is the unit type. Void is its only value.
type VoidType struct{}

func (v *VoidType) Type() Type {
	return VOID
}

func (v *VoidType) Inspect() string {
	return "void"
}

func (v *VoidType) String() string {
	return "void"
}

func (v *VoidType) Equals(other Object) bool {
	_, ok := other.(*VoidType)
	return ok
}

func (v *VoidType) RunOperation(opType op.BinaryOpType, right Object) (Object, bool) {
	return nil, false
}

func (v *VoidType) sealed() {}
