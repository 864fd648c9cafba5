package object

import (
	"github.com/magnum-lang/magnum/op"
)

// BinaryOp performs an arithmetic or logical operation. The boolean result is
// false when the operand types do not support the operator.
func BinaryOp(opType op.BinaryOpType, a, b Object) (Object, bool) {
	return a.RunOperation(opType, b)
}

// Compare performs a comparison. Equality and inequality accept any operands
// and treat unsupported pairings as unequal. Ordering is defined for two
// numbers or two strings only.
func Compare(opType op.CompareOpType, a, b Object) (Object, bool) {
	switch opType {
	case op.Equal:
		return NewBool(a.Equals(b)), true
	case op.NotEqual:
		return NewBool(!a.Equals(b)), true
	}
	switch a := a.(type) {
	case *Number:
		b, ok := b.(*Number)
		if !ok {
			return nil, false
		}
		x, y := a.value, b.value
		switch opType {
		case op.LessThan:
			return NewBool(x.Less(y)), true
		case op.LessThanOrEqual:
			return NewBool(x.LessEqual(y)), true
		case op.GreaterThan:
			return NewBool(x.Greater(y)), true
		case op.GreaterThanOrEqual:
			return NewBool(x.GreaterEqual(y)), true
		}
	case *String:
		b, ok := b.(*String)
		if !ok {
			return nil, false
		}
		switch opType {
		case op.LessThan:
			return NewBool(a.Less(b)), true
		case op.LessThanOrEqual:
			return NewBool(!b.Less(a)), true
		case op.GreaterThan:
			return NewBool(b.Less(a)), true
		case op.GreaterThanOrEqual:
			return NewBool(!a.Less(b)), true
		}
	}
	return nil, false
}

// Negate implements unary minus: numbers change sign and strings are
// reversed.
func Negate(obj Object) (Object, bool) {
	switch obj := obj.(type) {
	case *Number:
		return NewNumber(obj.value.Neg()), true
	case *String:
		return obj.Reversed(), true
	}
	return nil, false
}

// Not implements logical negation of a boolean.
func Not(obj Object) (Object, bool) {
	if b, ok := obj.(*Bool); ok {
		return NewBool(!b.value), true
	}
	return nil, false
}

// Plus implements unary plus, which checks that its operand is a number or a
// string and leaves it unchanged.
func Plus(obj Object) (Object, bool) {
	switch obj.(type) {
	case *Number, *String:
		return obj, true
	}
	return nil, false
}
