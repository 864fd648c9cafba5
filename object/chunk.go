package object

import (
	"errors"
	"math"

	"github.com/magnum-lang/magnum/op"
)

// MaxConstants is the number of constants addressable by a one byte operand.
const MaxConstants = math.MaxUint8 + 1

var (
	ErrTooManyConstants = errors.New("too many constants in one chunk")
	ErrJumpTooFar       = errors.New("too much code to jump over")
	ErrLoopTooFar       = errors.New("loop body too large")
)

// Chunk is a sequence of instructions with a parallel table of source lines
// and a constant pool. Lines[i] is the source line of Code[i].
type Chunk struct {
	Code      []op.Code
	Lines     []int
	Constants []Object
}

// Emit appends an instruction and its operand bytes. It returns the offset of
// the opcode.
func (c *Chunk) Emit(line int, code op.Code, operands ...byte) int {
	offset := len(c.Code)
	c.Code = append(c.Code, code)
	c.Lines = append(c.Lines, line)
	for _, b := range operands {
		c.Code = append(c.Code, op.Code(b))
		c.Lines = append(c.Lines, line)
	}
	return offset
}

// AddConstant adds a value to the constant pool and returns its index. A value
// already present in the pool is reused.
func (c *Chunk) AddConstant(obj Object) (int, error) {
	for i, existing := range c.Constants {
		if existing.Type() == obj.Type() && existing.Equals(obj) {
			return i, nil
		}
	}
	if len(c.Constants) >= MaxConstants {
		return 0, ErrTooManyConstants
	}
	c.Constants = append(c.Constants, obj)
	return len(c.Constants) - 1, nil
}

// Jump is a forward jump whose target is not yet known.
type Jump struct {
	chunk   *Chunk
	operand int
}

// EmitJump appends a forward jump with a placeholder offset. The returned
// Jump must be patched once the target has been emitted.
func (c *Chunk) EmitJump(line int, code op.Code) Jump {
	c.Emit(line, code, 0xff, 0xff)
	return Jump{chunk: c, operand: len(c.Code) - 2}
}

// Patch points the jump at the current end of the chunk.
func (j Jump) Patch() error {
	distance := len(j.chunk.Code) - j.operand - 2
	if distance > math.MaxUint16 {
		return ErrJumpTooFar
	}
	j.chunk.Code[j.operand] = op.Code(distance >> 8)
	j.chunk.Code[j.operand+1] = op.Code(distance)
	return nil
}

// EmitLoop appends a backward jump to the instruction at start.
func (c *Chunk) EmitLoop(line int, start int) error {
	distance := len(c.Code) + op.JumpBackward.Width() - start
	if distance > math.MaxUint16 {
		return ErrLoopTooFar
	}
	c.Emit(line, op.JumpBackward, byte(distance>>8), byte(distance))
	return nil
}

// ReadUint16 decodes the big-endian operand stored at offset.
func (c *Chunk) ReadUint16(offset int) int {
	return int(c.Code[offset])<<8 | int(c.Code[offset+1])
}

// Line returns the source line of the instruction at offset, or 0 when the
// offset is out of range.
func (c *Chunk) Line(offset int) int {
	if offset < 0 || offset >= len(c.Lines) {
		return 0
	}
	return c.Lines[offset]
}
