package compiler

import (
	"github.com/magnum-lang/magnum/object"
	"github.com/magnum-lang/magnum/op"
)

// local is a variable that lives in a stack slot of the function being
// compiled. Its index in code.locals is its slot.
type local struct {
	name  string
	depth int
}

// code holds the state for one function under compilation. The top-level
// script is compiled into the outermost code at depth 0. Functions start at
// depth 1 with their parameters as the first locals.
type code struct {
	parent *code
	fn     *object.Function
	locals []local
	depth  int
}

func newCode(parent *code, fn *object.Function, depth int) *code {
	return &code{parent: parent, fn: fn, depth: depth}
}

func (c *code) chunk() *object.Chunk {
	return c.fn.Chunk()
}

func (c *code) isGlobalScope() bool {
	return c.depth == 0
}

// resolve returns the slot of the innermost local with the given name, or -1.
func (c *code) resolve(name string) int {
	for i := len(c.locals) - 1; i >= 0; i-- {
		if c.locals[i].name == name {
			return i
		}
	}
	return -1
}

// declaredInScope reports whether name is already a local of the current
// block.
func (c *code) declaredInScope(name string) bool {
	for i := len(c.locals) - 1; i >= 0; i-- {
		if c.locals[i].depth < c.depth {
			return false
		}
		if c.locals[i].name == name {
			return true
		}
	}
	return false
}

func (c *code) addLocal(name string) bool {
	if len(c.locals) >= MaxLocals {
		return false
	}
	c.locals = append(c.locals, local{name: name, depth: c.depth})
	return true
}

func (c *code) enterScope() {
	c.depth++
}

// leaveScope closes the current block and emits one PopTop per local that
// goes out of scope.
func (c *code) leaveScope(line int) {
	c.depth--
	for len(c.locals) > 0 && c.locals[len(c.locals)-1].depth > c.depth {
		c.chunk().Emit(line, op.PopTop)
		c.locals = c.locals[:len(c.locals)-1]
	}
}
