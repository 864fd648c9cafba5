package object

import (
	"github.com/magnum-lang/magnum/decimal"
	"github.com/magnum-lang/magnum/op"
)

// Number wraps an arbitrary-precision decimal value.
type Number struct {
	value decimal.Number
}

func NewNumber(value decimal.Number) *Number {
	return &Number{value: value}
}

// NewNumberFromInt returns a Number holding an integer.
func NewNumberFromInt(i int) *Number {
	return &Number{value: decimal.FromInt(i)}
}

func (n *Number) Type() Type {
	return NUMBER
}

func (n *Number) Value() decimal.Number {
	return n.value
}

func (n *Number) Inspect() string {
	return n.value.String()
}

func (n *Number) String() string {
	return n.value.String()
}

func (n *Number) Equals(other Object) bool {
	o, ok := other.(*Number)
	return ok && n.value.Equal(o.value)
}

func (n *Number) RunOperation(opType op.BinaryOpType, right Object) (Object, bool) {
	r, ok := right.(*Number)
	if !ok {
		return nil, false
	}
	switch opType {
	case op.Add:
		return NewNumber(n.value.Add(r.value)), true
	case op.Subtract:
		return NewNumber(n.value.Sub(r.value)), true
	case op.Multiply:
		return NewNumber(n.value.Mul(r.value)), true
	case op.Divide:
		return NewNumber(n.value.Div(r.value)), true
	case op.Modulo:
		return NewNumber(n.value.Mod(r.value)), true
	}
	return nil, false
}

// MarshalJSON encodes the number as a JSON string so that no digits are lost.
func (n *Number) MarshalJSON() ([]byte, error) {
	return []byte(`"` + n.value.String() + `"`), nil
}

func (n *Number) sealed() {}
