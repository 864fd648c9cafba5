// Package op defines opcodes used by the compiler and virtual machine.
package op

// Code is a one byte opcode that indicates an operation to execute. Operands
// follow the opcode in the instruction stream.
type Code byte

const (
	Invalid Code = 0

	// Execution
	Nop         Code = 1 // Empty statement
	Halt        Code = 2
	Call        Code = 3
	ReturnValue Code = 4

	// Jump. Offsets are 16-bit big-endian and relative to the end of the
	// instruction.
	JumpBackward       Code = 10
	JumpForward        Code = 11
	JumpForwardIfFalse Code = 12 // Leaves the condition on the stack

	// Load
	LoadFast   Code = 21
	LoadGlobal Code = 23
	LoadConst  Code = 24

	// Store
	StoreFast     Code = 31
	StoreGlobal   Code = 33
	DeclareGlobal Code = 34

	// Operations
	BinaryOp      Code = 40
	CompareOp     Code = 41
	UnaryNegative Code = 42
	UnaryNot      Code = 43
	UnaryPlus     Code = 44

	// Stack
	PopTop Code = 72

	// Push constants
	Void  Code = 80
	False Code = 81
	True  Code = 82

	// Input and output
	Print Code = 100
	Input Code = 101
)

// BinaryOpType describes a type of binary operation, as in an operation that
// takes two operands. For example, addition, subtraction, multiplication, etc.
type BinaryOpType byte

const (
	Add      BinaryOpType = 1
	Subtract BinaryOpType = 2
	Multiply BinaryOpType = 3
	Divide   BinaryOpType = 4
	Modulo   BinaryOpType = 5
	And      BinaryOpType = 6
	Or       BinaryOpType = 7
	Concat   BinaryOpType = 8
)

// String returns a string representation of the binary operation.
// For example "+" for addition.
func (bop BinaryOpType) String() string {
	switch bop {
	case Add:
		return "+"
	case Subtract:
		return "-"
	case Multiply:
		return "*"
	case Divide:
		return "/"
	case Modulo:
		return "%"
	case And:
		return "and"
	case Or:
		return "or"
	case Concat:
		return "@"
	default:
		return ""
	}
}

// CompareOpType describes a type of comparison operation. For example, less
// than, greater than, equal, etc.
type CompareOpType byte

const (
	LessThan           CompareOpType = 1
	LessThanOrEqual    CompareOpType = 2
	Equal              CompareOpType = 3
	NotEqual           CompareOpType = 4
	GreaterThan        CompareOpType = 5
	GreaterThanOrEqual CompareOpType = 6
)

// String returns a string representation of the comparison operation.
// For example "<" for less than.
func (cop CompareOpType) String() string {
	switch cop {
	case LessThan:
		return "<"
	case LessThanOrEqual:
		return "<="
	case Equal:
		return "=="
	case NotEqual:
		return "!="
	case GreaterThan:
		return ">"
	case GreaterThanOrEqual:
		return ">="
	default:
		return ""
	}
}

// Info contains information about an opcode.
type Info struct {
	Code Code
	Name string
	// OperandWidth is the number of operand bytes that follow the opcode.
	OperandWidth int
}

var infos [256]Info

func init() {
	ops := []Info{
		{BinaryOp, "BINARY_OP", 1},
		{Call, "CALL", 1},
		{CompareOp, "COMPARE_OP", 1},
		{DeclareGlobal, "DECLARE_GLOBAL", 1},
		{False, "FALSE", 0},
		{Halt, "HALT", 0},
		{Input, "INPUT", 0},
		{JumpBackward, "JUMP_BACKWARD", 2},
		{JumpForward, "JUMP_FORWARD", 2},
		{JumpForwardIfFalse, "JUMP_FORWARD_IF_FALSE", 2},
		{LoadConst, "LOAD_CONST", 1},
		{LoadFast, "LOAD_FAST", 1},
		{LoadGlobal, "LOAD_GLOBAL", 1},
		{Nop, "NOP", 0},
		{PopTop, "POP_TOP", 0},
		{Print, "PRINT", 0},
		{ReturnValue, "RETURN_VALUE", 0},
		{StoreFast, "STORE_FAST", 1},
		{StoreGlobal, "STORE_GLOBAL", 1},
		{True, "TRUE", 0},
		{UnaryNegative, "UNARY_NEGATIVE", 0},
		{UnaryNot, "UNARY_NOT", 0},
		{UnaryPlus, "UNARY_PLUS", 0},
		{Void, "VOID", 0},
	}
	for _, o := range ops {
		infos[o.Code] = o
	}
}

// GetInfo returns information about the given opcode. Unknown opcodes have an
// empty name.
func GetInfo(op Code) Info {
	return infos[op]
}

// Width returns the total size in bytes of an instruction with this opcode.
func (c Code) Width() int {
	return 1 + infos[c].OperandWidth
}

// String returns the opcode name.
func (c Code) String() string {
	if name := infos[c].Name; name != "" {
		return name
	}
	return "INVALID"
}
