package compiler

import (
	"github.com/magnum-lang/magnum/errors"
	"github.com/magnum-lang/magnum/object"
	"github.com/magnum-lang/magnum/op"
	"github.com/magnum-lang/magnum/token"
)

// statement compiles one statement along with its optional terminator, a
// semicolon or a newline.
func (c *Compiler) statement() {
	switch c.current.Type {
	case token.PRINT:
		c.printStatement()
	case token.SET:
		c.setStatement()
	case token.DEFINE:
		c.defineStatement()
	case token.RETURN:
		c.returnStatement()
	case token.LBRACE:
		c.block()
	case token.IF:
		c.ifStatement()
	case token.WHILE:
		c.whileStatement()
	case token.FOR:
		c.forStatement()
	case token.EXIT:
		c.advance()
		c.emit(op.Halt)
	case token.NEWLINE, token.EOF, token.SEMICOLON, token.EMPTY:
		c.match(token.EMPTY)
		c.emit(op.Nop)
	default:
		c.expression()
		c.emit(op.PopTop)
	}
	if !c.match(token.SEMICOLON) {
		c.match(token.NEWLINE)
	}
	if c.panicMode {
		c.synchronize()
	}
}

func (c *Compiler) printStatement() {
	c.advance()
	c.expression()
	c.emit(op.Print)
}

// setStatement compiles a comma separated list of declarations, each with an
// optional initializer after a colon. A local is registered only after its
// initializer has been compiled, so the initializer still sees any outer
// variable of the same name.
func (c *Compiler) setStatement() {
	c.advance()
	for {
		if !c.consume(token.IDENT, errors.CodeIdentifier) {
			return
		}
		name := c.previous
		if c.code.isGlobalScope() {
			index := c.identifierConstant(name.Literal)
			c.initializer()
			c.emit(op.DeclareGlobal, index)
		} else {
			if c.code.declaredInScope(name.Literal) {
				c.errorAt(name, errors.CodeScope)
			}
			c.initializer()
			if !c.code.addLocal(name.Literal) {
				c.errorAt(name, errors.CodeScope)
			}
		}
		if !c.match(token.COMMA) {
			return
		}
	}
}

func (c *Compiler) initializer() {
	if c.match(token.COLON) {
		c.expression()
	} else {
		c.emit(op.Void)
	}
}

// defineStatement compiles a function definition. The body is a single
// statement compiled into a new function, which is then bound to a global.
func (c *Compiler) defineStatement() {
	keyword := c.current
	c.advance()
	if !c.code.isGlobalScope() {
		c.errorAt(keyword, errors.CodeDefine)
		return
	}
	if !c.consume(token.IDENT, errors.CodeExpectedFunction) {
		return
	}
	name := c.previous.Literal
	index := c.identifierConstant(name)

	c.code = newCode(c.code, object.NewFunction(name, 0), 1)
	c.parameters()
	c.match(token.NEWLINE)
	c.statement()
	c.emit(op.Void)
	c.emit(op.ReturnValue)

	fn := c.code.fn
	c.code = c.code.parent
	c.logFunction(fn)

	c.emitConstant(fn)
	c.emit(op.DeclareGlobal, index)
}

func (c *Compiler) parameters() {
	if !c.match(token.LPAREN) {
		c.consume(token.COLON, errors.CodeSyntax)
		return
	}
	if c.match(token.RPAREN) {
		return
	}
	fn := c.code.fn
	for {
		if !c.consume(token.IDENT, errors.CodeExpectedParameter) {
			return
		}
		param := c.previous
		if c.code.declaredInScope(param.Literal) {
			c.errorAt(param, errors.CodeScope)
		}
		if fn.Arity() == MaxArgs {
			c.errorAt(param, errors.CodeParameter)
		}
		if !c.code.addLocal(param.Literal) {
			c.errorAt(param, errors.CodeScope)
		}
		fn.SetArity(fn.Arity() + 1)
		if !c.match(token.COMMA) {
			break
		}
	}
	c.consume(token.RPAREN, errors.CodeSyntax)
}

func (c *Compiler) returnStatement() {
	c.advance()
	switch c.current.Type {
	case token.SEMICOLON, token.NEWLINE, token.RBRACE, token.EOF:
		c.emit(op.Void)
	default:
		c.expression()
	}
	c.emit(op.ReturnValue)
}

func (c *Compiler) block() {
	c.advance()
	c.code.enterScope()
	for !c.check(token.RBRACE) && !c.check(token.EOF) && !c.halted {
		c.statement()
	}
	c.code.leaveScope(c.previous.Line)
	c.consume(token.RBRACE, errors.CodeBlock)
}

func (c *Compiler) ifStatement() {
	c.advance()
	c.expression()
	c.consume(token.COLON, errors.CodeSyntax)
	c.match(token.NEWLINE)

	thenJump := c.emitJump(op.JumpForwardIfFalse)
	c.emit(op.PopTop)
	c.statement()
	c.match(token.NEWLINE)

	elseJump := c.emitJump(op.JumpForward)
	c.patchJump(thenJump)
	c.emit(op.PopTop)

	if c.match(token.ELSE) {
		c.consume(token.COLON, errors.CodeSyntax)
		c.match(token.NEWLINE)
		c.statement()
	}
	c.patchJump(elseJump)
}

func (c *Compiler) whileStatement() {
	loopStart := len(c.chunk().Code)
	c.advance()
	c.expression()
	c.consume(token.COLON, errors.CodeSyntax)
	c.match(token.NEWLINE)

	exitJump := c.emitJump(op.JumpForwardIfFalse)
	c.emit(op.PopTop)
	c.statement()
	c.emitLoop(loopStart)

	c.patchJump(exitJump)
	c.emit(op.PopTop)
}

// forStatement compiles for (init; cond; incr) stmt. The loop opens its own
// scope so that variables declared in init are local to the loop. The
// increment is emitted ahead of the body and jumped over on entry.
func (c *Compiler) forStatement() {
	c.code.enterScope()
	c.advance()
	c.consume(token.LPAREN, errors.CodeSyntax)

	switch c.current.Type {
	case token.SEMICOLON:
	case token.SET:
		c.setStatement()
	default:
		c.expression()
		c.emit(op.PopTop)
	}
	c.consume(token.SEMICOLON, errors.CodeSyntax)

	loopStart := len(c.chunk().Code)
	var exitJump *object.Jump
	if !c.match(token.SEMICOLON) {
		c.expression()
		c.consume(token.SEMICOLON, errors.CodeSyntax)
		jump := c.emitJump(op.JumpForwardIfFalse)
		exitJump = &jump
		c.emit(op.PopTop)
	}

	if !c.match(token.RPAREN) {
		bodyJump := c.emitJump(op.JumpForward)
		incrementStart := len(c.chunk().Code)
		c.expression()
		c.emit(op.PopTop)
		c.consume(token.RPAREN, errors.CodeSyntax)
		c.emitLoop(loopStart)
		loopStart = incrementStart
		c.patchJump(bodyJump)
	}

	c.match(token.NEWLINE)
	c.statement()
	c.emitLoop(loopStart)

	if exitJump != nil {
		c.patchJump(*exitJump)
		c.emit(op.PopTop)
	}
	c.code.leaveScope(c.previous.Line)
}
