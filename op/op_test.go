package op

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetInfo(t *testing.T) {
	info := GetInfo(JumpForwardIfFalse)
	require.Equal(t, "JUMP_FORWARD_IF_FALSE", info.Name)
	require.Equal(t, 2, info.OperandWidth)
	require.Equal(t, JumpForwardIfFalse, info.Code)
}

func TestGetInfoAllOpcodes(t *testing.T) {
	tests := []struct {
		code  Code
		name  string
		width int
	}{
		{Nop, "NOP", 0},
		{Halt, "HALT", 0},
		{Call, "CALL", 1},
		{ReturnValue, "RETURN_VALUE", 0},
		{JumpBackward, "JUMP_BACKWARD", 2},
		{JumpForward, "JUMP_FORWARD", 2},
		{LoadFast, "LOAD_FAST", 1},
		{LoadGlobal, "LOAD_GLOBAL", 1},
		{LoadConst, "LOAD_CONST", 1},
		{StoreFast, "STORE_FAST", 1},
		{StoreGlobal, "STORE_GLOBAL", 1},
		{DeclareGlobal, "DECLARE_GLOBAL", 1},
		{BinaryOp, "BINARY_OP", 1},
		{CompareOp, "COMPARE_OP", 1},
		{UnaryNegative, "UNARY_NEGATIVE", 0},
		{UnaryNot, "UNARY_NOT", 0},
		{UnaryPlus, "UNARY_PLUS", 0},
		{PopTop, "POP_TOP", 0},
		{Void, "VOID", 0},
		{False, "FALSE", 0},
		{True, "TRUE", 0},
		{Print, "PRINT", 0},
		{Input, "INPUT", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := GetInfo(tt.code)
			require.Equal(t, tt.name, info.Name)
			require.Equal(t, tt.width, info.OperandWidth)
			require.Equal(t, tt.width+1, tt.code.Width())
			require.Equal(t, tt.name, tt.code.String())
		})
	}
}

func TestUnknownOpcode(t *testing.T) {
	require.Equal(t, "INVALID", Code(250).String())
	require.Equal(t, "INVALID", Invalid.String())
	require.Equal(t, 1, Code(250).Width())
}

func TestOperatorStrings(t *testing.T) {
	require.Equal(t, "+", Add.String())
	require.Equal(t, "@", Concat.String())
	require.Equal(t, "", BinaryOpType(99).String())
	require.Equal(t, ">=", GreaterThanOrEqual.String())
	require.Equal(t, "", CompareOpType(99).String())
}
