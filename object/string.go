package object

import (
	"encoding/json"

	"github.com/magnum-lang/magnum/op"
)

type String struct {
	value string
}

func NewString(s string) *String {
	return &String{value: s}
}

func (s *String) Type() Type {
	return STRING
}

func (s *String) Value() string {
	return s.value
}

func (s *String) Inspect() string {
	return s.value
}

func (s *String) String() string {
	return s.value
}

func (s *String) Equals(other Object) bool {
	o, ok := other.(*String)
	return ok && o.value == s.value
}

// Less orders strings by length first and then byte by byte.
func (s *String) Less(other *String) bool {
	if len(s.value) != len(other.value) {
		return len(s.value) < len(other.value)
	}
	return s.value < other.value
}

// Reversed returns the string with its bytes in reverse order.
func (s *String) Reversed() *String {
	b := []byte(s.value)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return NewString(string(b))
}

func (s *String) RunOperation(opType op.BinaryOpType, right Object) (Object, bool) {
	r, ok := right.(*String)
	if !ok {
		return nil, false
	}
	switch opType {
	case op.Add:
		return NewString(s.value + r.value), true
	case op.Concat:
		return NewString(s.value + " " + r.value), true
	}
	return nil, false
}

func (s *String) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.value)
}

func (s *String) sealed() {}
