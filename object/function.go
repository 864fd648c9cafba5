package object

import (
	"encoding/json"
	"fmt"

	"github.com/magnum-lang/magnum/op"
)

// Function is a compiled script function. The top-level script is itself a
// Function with an empty name and no parameters.
type Function struct {
	name  string
	arity int
	chunk *Chunk
}

// NewFunction returns a function with an empty chunk.
func NewFunction(name string, arity int) *Function {
	return &Function{name: name, arity: arity, chunk: &Chunk{}}
}

func (f *Function) Type() Type {
	return FUNCTION
}

func (f *Function) Name() string {
	return f.name
}

// DisplayName is the name used in stack traces.
func (f *Function) DisplayName() string {
	if f.name == "" {
		return "script"
	}
	return f.name
}

func (f *Function) Arity() int {
	return f.arity
}

// SetArity is used by the compiler as parameters are declared.
func (f *Function) SetArity(arity int) {
	f.arity = arity
}

func (f *Function) Chunk() *Chunk {
	return f.chunk
}

func (f *Function) Inspect() string {
	return fmt.Sprintf("<Function object: `%s`>", f.name)
}

func (f *Function) String() string {
	return f.Inspect()
}

// Equals is always false. Functions do not take part in equality.
func (f *Function) Equals(other Object) bool {
	return false
}

func (f *Function) RunOperation(opType op.BinaryOpType, right Object) (Object, bool) {
	return nil, false
}

// MarshalJSON encodes a function as its printed form.
func (f *Function) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Inspect())
}

func (f *Function) sealed() {}
