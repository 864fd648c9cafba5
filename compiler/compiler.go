// Package compiler translates source text into bytecode in a single pass.
//
// The compiler pulls tokens from the lexer on demand and emits instructions
// as it recognizes each construct, with no intermediate syntax tree.
// Expressions are parsed by precedence climbing over the rule table in
// precedence.go; statements use plain recursive descent.
//
// # Scopes
//
// Names declared at depth 0 of the script are globals. They are stored as
// string constants and resolved by name at run time through the symbol table
// (LoadGlobal, StoreGlobal, DeclareGlobal). Every other declaration is a local
// that occupies a stack slot of the enclosing function (LoadFast, StoreFast).
// Functions may only be defined at depth 0, and their bodies start at depth 1
// with the parameters as the first locals.
//
// # Errors
//
// The first error in a statement puts the compiler in panic mode. Further
// errors are suppressed until the parser reaches a statement boundary, so one
// mistake yields one diagnostic. Compilation continues after recovery and
// all diagnostics are returned together, up to MaxErrors.
package compiler

import (
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"github.com/magnum-lang/magnum/decimal"
	"github.com/magnum-lang/magnum/errors"
	"github.com/magnum-lang/magnum/internal/lexer"
	"github.com/magnum-lang/magnum/object"
	"github.com/magnum-lang/magnum/op"
	"github.com/magnum-lang/magnum/token"
)

const (
	// MaxArgs is the maximum number of arguments in a call and of parameters
	// in a function definition.
	MaxArgs = 255

	// MaxLocals is the maximum number of locals live at once in a function.
	MaxLocals = 256

	// MaxErrors is the number of diagnostics after which compilation stops.
	MaxErrors = 10
)

// Compiler turns source text into a compiled top-level function.
type Compiler struct {
	lexer    *lexer.Lexer
	current  token.Token
	previous token.Token

	// The function currently being compiled.
	code *code

	errs      *multierror.Error
	panicMode bool
	halted    bool

	logger zerolog.Logger
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithLogger sets a logger that receives a debug event for every compiled
// function.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Compiler) {
		c.logger = logger
	}
}

// New returns a Compiler configured with the given options.
func New(opts ...Option) *Compiler {
	c := &Compiler{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile compiles source with a new Compiler.
func Compile(source string, opts ...Option) (*object.Function, error) {
	return New(opts...).Compile(source)
}

// Compile compiles source into the top-level script function. The returned
// error aggregates every diagnostic as an *errors.CompileError.
func (c *Compiler) Compile(source string) (*object.Function, error) {
	c.lexer = lexer.New(source)
	c.code = newCode(nil, object.NewFunction("", 0), 0)
	c.errs = nil
	c.panicMode = false
	c.halted = false
	c.current = token.Token{}
	c.previous = token.Token{}

	c.advance()
	for !c.match(token.EOF) && !c.halted {
		c.statement()
	}
	c.emit(op.Halt)

	script := c.code.fn
	c.logFunction(script)
	if c.errs != nil {
		c.errs.ErrorFormat = errors.FormatCompileErrors
		return nil, c.errs.ErrorOrNil()
	}
	return script, nil
}

func (c *Compiler) logFunction(fn *object.Function) {
	c.logger.Debug().
		Str("function", fn.DisplayName()).
		Int("arity", fn.Arity()).
		Int("code_size", len(fn.Chunk().Code)).
		Int("constants", len(fn.Chunk().Constants)).
		Msg("compiled function")
}

// Token handling

func (c *Compiler) advance() {
	c.previous = c.current
	c.current = c.lexer.Next()
	if c.current.Type == token.ILLEGAL {
		c.errorAt(c.current, errors.CodeSyntax)
	}
}

func (c *Compiler) check(t token.Type) bool {
	return c.current.Type == t
}

func (c *Compiler) match(t token.Type) bool {
	if !c.check(t) {
		return false
	}
	c.advance()
	return true
}

func (c *Compiler) consume(t token.Type, errCode errors.ErrorCode) bool {
	if c.check(t) {
		c.advance()
		return true
	}
	c.errorAt(c.current, errCode)
	return false
}

// Diagnostics

func (c *Compiler) errorAt(tok token.Token, errCode errors.ErrorCode) {
	if c.panicMode {
		return
	}
	c.panicMode = true
	var err *errors.CompileError
	if tok.Type == token.ILLEGAL {
		err = errors.NewSyntaxError(tok.Line, tok.Literal)
	} else {
		err = errors.NewCompileError(errCode, tok.Line)
	}
	c.errs = multierror.Append(c.errs, err)
	if c.errs.Len() >= MaxErrors {
		c.halted = true
	}
}

// synchronize skips tokens until a statement boundary: just after a ';' or a
// newline, or just before a keyword that starts a statement.
func (c *Compiler) synchronize() {
	c.panicMode = false
	for !c.check(token.EOF) {
		if c.previous.Type == token.SEMICOLON || c.previous.Type == token.NEWLINE {
			return
		}
		switch c.current.Type {
		case token.SET, token.DEFINE, token.PRINT, token.IF, token.WHILE,
			token.FOR, token.RETURN, token.EXIT, token.LBRACE, token.RBRACE:
			return
		}
		c.advance()
	}
}

// Emitting

func (c *Compiler) chunk() *object.Chunk {
	return c.code.chunk()
}

func (c *Compiler) emit(opcode op.Code, operands ...int) {
	bytes := make([]byte, len(operands))
	for i, operand := range operands {
		bytes[i] = byte(operand)
	}
	c.chunk().Emit(c.previous.Line, opcode, bytes...)
}

func (c *Compiler) makeConstant(obj object.Object) int {
	index, err := c.chunk().AddConstant(obj)
	if err != nil {
		c.errorAt(c.previous, errors.CodeConstant)
		return 0
	}
	return index
}

func (c *Compiler) emitConstant(obj object.Object) {
	c.emit(op.LoadConst, c.makeConstant(obj))
}

func (c *Compiler) identifierConstant(name string) int {
	return c.makeConstant(object.NewString(name))
}

func (c *Compiler) emitJump(opcode op.Code) object.Jump {
	return c.chunk().EmitJump(c.previous.Line, opcode)
}

func (c *Compiler) patchJump(jump object.Jump) {
	if err := jump.Patch(); err != nil {
		c.errorAt(c.current, errors.CodeJump)
	}
}

func (c *Compiler) emitLoop(start int) {
	if err := c.chunk().EmitLoop(c.previous.Line, start); err != nil {
		c.errorAt(c.current, errors.CodeLoop)
	}
}

// Expressions

func (c *Compiler) expression() {
	c.parsePrecedence(PrecAssignment)
}

func (c *Compiler) parsePrecedence(precedence Precedence) {
	c.advance()
	prefix := getRule(c.previous.Type).prefix
	if prefix == noHandler {
		c.errorAt(c.previous, errors.CodeExpression)
		return
	}
	canAssign := precedence <= PrecAssignment
	c.prefix(prefix, canAssign)

	for precedence <= getRule(c.current.Type).precedence {
		c.advance()
		c.infix(getRule(c.previous.Type).infix)
	}
	if canAssign && token.IsAssignment(c.current.Type) {
		c.errorAt(c.current, errors.CodeSyntax)
	}
}

func (c *Compiler) prefix(h handler, canAssign bool) {
	switch h {
	case literalHandler:
		c.literal()
	case variableHandler:
		c.variable(canAssign)
	case unaryHandler:
		c.unary()
	case groupingHandler:
		c.grouping()
	case inputHandler:
		c.emit(op.Input)
	case invokeHandler:
		c.parsePrecedence(PrecCall)
	}
}

func (c *Compiler) infix(h handler) {
	switch h {
	case binaryHandler:
		c.binary()
	case callHandler:
		c.call()
	default:
		c.errorAt(c.previous, errors.CodeExpression)
	}
}

func (c *Compiler) literal() {
	switch c.previous.Type {
	case token.NUMBER:
		value, err := decimal.Parse(c.previous.Literal)
		if err != nil {
			c.errorAt(c.previous, errors.CodeSyntax)
			return
		}
		c.emitConstant(object.NewNumber(value))
	case token.STRING:
		c.emitConstant(object.NewString(c.previous.Literal))
	case token.TRUE:
		c.emit(op.True)
	case token.FALSE:
		c.emit(op.False)
	case token.VOID:
		c.emit(op.Void)
	}
}

var compoundOps = map[token.Type]op.BinaryOpType{
	token.PLUS_EQUALS:     op.Add,
	token.MINUS_EQUALS:    op.Subtract,
	token.ASTERISK_EQUALS: op.Multiply,
	token.SLASH_EQUALS:    op.Divide,
	token.MOD_EQUALS:      op.Modulo,
	token.PLUS_PLUS:       op.Add,
	token.MINUS_MINUS:     op.Subtract,
}

func (c *Compiler) variable(canAssign bool) {
	name := c.previous.Literal
	load, store := op.LoadGlobal, op.StoreGlobal
	arg := c.code.resolve(name)
	if arg >= 0 {
		load, store = op.LoadFast, op.StoreFast
	} else {
		arg = c.identifierConstant(name)
	}

	if !canAssign || !token.IsAssignment(c.current.Type) {
		c.emit(load, arg)
		return
	}

	c.advance()
	operator := c.previous.Type
	switch operator {
	case token.ASSIGN:
		c.expression()
	case token.PLUS_PLUS, token.MINUS_MINUS:
		c.emit(load, arg)
		c.emitConstant(object.NewNumber(decimal.One))
		c.emit(op.BinaryOp, int(compoundOps[operator]))
	default:
		c.emit(load, arg)
		c.expression()
		c.emit(op.BinaryOp, int(compoundOps[operator]))
	}
	c.emit(store, arg)
}

func (c *Compiler) unary() {
	operator := c.previous.Type
	c.parsePrecedence(PrecUnary)
	switch operator {
	case token.PLUS:
		c.emit(op.UnaryPlus)
	case token.MINUS:
		c.emit(op.UnaryNegative)
	case token.NOT:
		c.emit(op.UnaryNot)
	}
}

var binaryOps = map[token.Type]op.BinaryOpType{
	token.PLUS:     op.Add,
	token.MINUS:    op.Subtract,
	token.ASTERISK: op.Multiply,
	token.SLASH:    op.Divide,
	token.MOD:      op.Modulo,
	token.CONCAT:   op.Concat,
	token.AND:      op.And,
	token.OR:       op.Or,
}

var compareOps = map[token.Type]op.CompareOpType{
	token.EQ:        op.Equal,
	token.NOT_EQ:    op.NotEqual,
	token.GT:        op.GreaterThan,
	token.GT_EQUALS: op.GreaterThanOrEqual,
	token.LT:        op.LessThan,
	token.LT_EQUALS: op.LessThanOrEqual,
}

func (c *Compiler) binary() {
	operator := c.previous.Type
	c.parsePrecedence(getRule(operator).precedence + 1)
	if opType, ok := binaryOps[operator]; ok {
		c.emit(op.BinaryOp, int(opType))
		return
	}
	c.emit(op.CompareOp, int(compareOps[operator]))
}

func (c *Compiler) grouping() {
	c.expression()
	c.consume(token.RPAREN, errors.CodeExpression)
}

func (c *Compiler) call() {
	argc := 0
	if !c.check(token.RPAREN) {
		for {
			c.expression()
			if argc == MaxArgs {
				c.errorAt(c.previous, errors.CodeParameter)
			}
			argc++
			if !c.match(token.COMMA) {
				break
			}
		}
	}
	c.consume(token.RPAREN, errors.CodeParameter)
	c.emit(op.Call, argc)
}
