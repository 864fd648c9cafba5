package vm

import (
	"github.com/magnum-lang/magnum/object"
)

// frame is the activation record of a running function. Slot 0 of its
// locals sits at stack[base]. While a frame is not the active one, ip holds
// the offset just past its pending Call instruction.
type frame struct {
	fn   *object.Function
	ip   int
	base int
}

func (f *frame) activate(fn *object.Function, base int) {
	f.fn = fn
	f.ip = 0
	f.base = base
}

// line returns the source line of the instruction that precedes ip.
func (f *frame) line() int {
	return f.fn.Chunk().Line(f.ip - 1)
}
