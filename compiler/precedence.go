package compiler

import (
	"github.com/magnum-lang/magnum/token"
)

// Precedence orders the binding strength of operators, from loosest to
// tightest.
type Precedence int

const (
	PrecNone Precedence = iota
	PrecAssignment
	PrecOr
	PrecAnd
	PrecEquality
	PrecComparison
	PrecTerm
	PrecFactor
	PrecUnary
	PrecCall
	PrecPrimary
)

// handler identifies a parse function. The compiler maps it to a method in
// prefix and infix.
type handler uint8

const (
	noHandler handler = iota
	literalHandler
	variableHandler
	unaryHandler
	binaryHandler
	groupingHandler
	callHandler
	inputHandler
	invokeHandler
)

type rule struct {
	prefix     handler
	infix      handler
	precedence Precedence
}

// rules is never modified after initialization. Token types missing from
// the map have no handlers and PrecNone.
var rules = map[token.Type]rule{
	token.IDENT:     {variableHandler, noHandler, PrecNone},
	token.NUMBER:    {literalHandler, noHandler, PrecNone},
	token.STRING:    {literalHandler, noHandler, PrecNone},
	token.VOID:      {literalHandler, noHandler, PrecNone},
	token.TRUE:      {literalHandler, noHandler, PrecNone},
	token.FALSE:     {literalHandler, noHandler, PrecNone},
	token.PLUS:      {unaryHandler, binaryHandler, PrecTerm},
	token.MINUS:     {unaryHandler, binaryHandler, PrecTerm},
	token.ASTERISK:  {noHandler, binaryHandler, PrecFactor},
	token.SLASH:     {noHandler, binaryHandler, PrecFactor},
	token.MOD:       {noHandler, binaryHandler, PrecFactor},
	token.CONCAT:    {noHandler, binaryHandler, PrecTerm},
	token.AND:       {noHandler, binaryHandler, PrecAnd},
	token.OR:        {noHandler, binaryHandler, PrecOr},
	token.NOT:       {unaryHandler, noHandler, PrecNone},
	token.EQ:        {noHandler, binaryHandler, PrecEquality},
	token.NOT_EQ:    {noHandler, binaryHandler, PrecEquality},
	token.GT:        {noHandler, binaryHandler, PrecComparison},
	token.LT:        {noHandler, binaryHandler, PrecComparison},
	token.GT_EQUALS: {noHandler, binaryHandler, PrecComparison},
	token.LT_EQUALS: {noHandler, binaryHandler, PrecComparison},
	token.LPAREN:    {groupingHandler, callHandler, PrecCall},
	token.GET:       {inputHandler, noHandler, PrecNone},
	token.INVOKE:    {invokeHandler, noHandler, PrecNone},
}

func getRule(t token.Type) rule {
	return rules[t]
}
