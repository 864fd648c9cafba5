package object

import (
	"testing"

	"github.com/magnum-lang/magnum/op"
	"github.com/stretchr/testify/require"
)

func TestChunkEmit(t *testing.T) {
	c := &Chunk{}
	require.Equal(t, 0, c.Emit(1, op.True))
	require.Equal(t, 1, c.Emit(2, op.LoadConst, 7))
	require.Equal(t, []op.Code{op.True, op.LoadConst, 7}, c.Code)
	require.Equal(t, []int{1, 2, 2}, c.Lines)
	require.Equal(t, 2, c.Line(2))
	require.Equal(t, 0, c.Line(3))
	require.Equal(t, 0, c.Line(-1))
}

func TestChunkConstants(t *testing.T) {
	c := &Chunk{}
	i, err := c.AddConstant(NewString("x"))
	require.NoError(t, err)
	require.Equal(t, 0, i)
	i, err = c.AddConstant(NewNumberFromInt(1))
	require.NoError(t, err)
	require.Equal(t, 1, i)
	i, err = c.AddConstant(NewString("x"))
	require.NoError(t, err)
	require.Equal(t, 0, i)
	require.Len(t, c.Constants, 2)
}

func TestChunkTooManyConstants(t *testing.T) {
	c := &Chunk{}
	for i := 0; i < MaxConstants; i++ {
		_, err := c.AddConstant(NewNumberFromInt(i))
		require.NoError(t, err)
	}
	_, err := c.AddConstant(NewNumberFromInt(MaxConstants))
	require.ErrorIs(t, err, ErrTooManyConstants)
	// Existing values are still found.
	i, err := c.AddConstant(NewNumberFromInt(3))
	require.NoError(t, err)
	require.Equal(t, 3, i)
}

func TestChunkJump(t *testing.T) {
	c := &Chunk{}
	jump := c.EmitJump(1, op.JumpForwardIfFalse)
	c.Emit(1, op.PopTop)
	c.Emit(1, op.True)
	require.NoError(t, jump.Patch())
	require.Equal(t, 2, c.ReadUint16(1))
}

func TestChunkJumpTooFar(t *testing.T) {
	c := &Chunk{}
	jump := c.EmitJump(1, op.JumpForward)
	c.Code = append(c.Code, make([]op.Code, 70000)...)
	require.ErrorIs(t, jump.Patch(), ErrJumpTooFar)
}

func TestChunkLoop(t *testing.T) {
	c := &Chunk{}
	start := len(c.Code)
	c.Emit(1, op.True)
	c.Emit(1, op.PopTop)
	require.NoError(t, c.EmitLoop(1, start))
	// After reading the operand, ip is 5; jumping back 5 lands at 0.
	require.Equal(t, op.JumpBackward, c.Code[2])
	require.Equal(t, 5, c.ReadUint16(3))

	c.Code = append(c.Code, make([]op.Code, 70000)...)
	require.ErrorIs(t, c.EmitLoop(1, start), ErrLoopTooFar)
}
