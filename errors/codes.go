package errors

import "strings"

// ErrorCode identifies one kind of diagnostic. Codes are organized by
// category:
//   - E1xxx: Compile errors
//   - E3xxx: Runtime errors
type ErrorCode string

const (
	// Compile errors (E1xxx)
	CodeSyntax            ErrorCode = "E1001" // Malformed token or unexpected syntax
	CodeConstant          ErrorCode = "E1002" // Constant pool overflow
	CodeLoop              ErrorCode = "E1003" // Loop body too large
	CodeJump              ErrorCode = "E1004" // Forward jump too large
	CodeExpression        ErrorCode = "E1005" // Missing expression
	CodeParameter         ErrorCode = "E1006" // Malformed argument list
	CodeBlock             ErrorCode = "E1007" // Unterminated block
	CodeIdentifier        ErrorCode = "E1008" // Missing identifier
	CodeScope             ErrorCode = "E1009" // Duplicate identifier in scope
	CodeDefine            ErrorCode = "E1010" // Function defined outside global scope
	CodeExpectedFunction  ErrorCode = "E1011" // Missing function name
	CodeExpectedParameter ErrorCode = "E1012" // Missing parameter name

	// Runtime errors (E3xxx)
	CodeOperands      ErrorCode = "E3001" // Operand type mismatch
	CodeDeclaration   ErrorCode = "E3002" // Duplicate global declaration
	CodeAssignment    ErrorCode = "E3003" // Assignment to undeclared name
	CodeCondition     ErrorCode = "E3004" // Non-boolean condition
	CodeFunction      ErrorCode = "E3005" // Calling a non-callable
	CodeArguments     ErrorCode = "E3006" // Argument count mismatch
	CodeStackOverflow ErrorCode = "E3007" // Call or value stack overflow
	CodeReturn        ErrorCode = "E3008" // Return outside a function
)

var codeMessages = map[ErrorCode]string{
	CodeSyntax:            "General syntax error",
	CodeConstant:          "Too many constants in one chunk",
	CodeLoop:              "The body of the loop contains too many instructions",
	CodeJump:              "Too much statements to jump over",
	CodeExpression:        "Expected an expression",
	CodeParameter:         "Expected end of arguments block",
	CodeBlock:             "Expected the end of a block",
	CodeIdentifier:        "Expected an identifier",
	CodeScope:             "The identifier is already used",
	CodeDefine:            "Functions can be defined only in global scope",
	CodeExpectedFunction:  "Expected a function identifier",
	CodeExpectedParameter: "Expected a parameter identifier",

	CodeOperands:      "The types of the operands does not match with the operator",
	CodeDeclaration:   "A variable or a function with the same identifier already exists",
	CodeAssignment:    "The referred variable or function has not been initialized yet",
	CodeCondition:     "The condition must return a boolean",
	CodeFunction:      "The call must invoke a function",
	CodeArguments:     "The number of arguments passed does not match with the function ones",
	CodeStackOverflow: "Function stack-overflow",
	CodeReturn:        "Can return only from function's bodies",
}

// Message returns the user facing message for the code.
func (c ErrorCode) Message() string {
	if msg, ok := codeMessages[c]; ok {
		return msg
	}
	return "unknown error"
}

// IsCompile reports whether the code belongs to the compile-time taxonomy.
func (c ErrorCode) IsCompile() bool {
	return strings.HasPrefix(string(c), "E1")
}

// IsRuntime reports whether the code belongs to the run-time taxonomy.
func (c ErrorCode) IsRuntime() bool {
	return strings.HasPrefix(string(c), "E3")
}

// AllCodes returns every defined error code, compile codes first.
func AllCodes() []ErrorCode {
	return []ErrorCode{
		CodeSyntax, CodeConstant, CodeLoop, CodeJump, CodeExpression,
		CodeParameter, CodeBlock, CodeIdentifier, CodeScope, CodeDefine,
		CodeExpectedFunction, CodeExpectedParameter,
		CodeOperands, CodeDeclaration, CodeAssignment, CodeCondition,
		CodeFunction, CodeArguments, CodeStackOverflow, CodeReturn,
	}
}
