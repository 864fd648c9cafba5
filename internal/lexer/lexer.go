// Package lexer converts source text into a lazy stream of tokens.
package lexer

import (
	"github.com/magnum-lang/magnum/errors"
	"github.com/magnum-lang/magnum/token"
)

// Diagnostic texts carried by ILLEGAL tokens.
const (
	MsgUnexpectedChar      = "Unexpected or Wrong character"
	MsgUnterminatedString  = "Unterminated String, expected closing quote"
	MsgUnterminatedComment = "Unterminated comment, expected closing */"
)

// Lexer produces tokens on demand from an input string. It never rewinds;
// lex again from scratch to restart.
type Lexer struct {
	input string
	pos   int // current read offset
	start int // start offset of the token being scanned
	line  int
}

// New returns a Lexer positioned at the beginning of the input.
func New(input string) *Lexer {
	return &Lexer{input: input, line: 1}
}

// Next returns the next token. Once the input is exhausted every call returns
// an EOF token.
func (l *Lexer) Next() token.Token {
	for {
		l.skipSpaces()
		if l.pos >= len(l.input) {
			return token.Token{Type: token.EOF, Line: l.line}
		}
		ch := l.input[l.pos]
		switch {
		case ch == '\n':
			return l.readNewlines()
		case ch == '#':
			l.skipLineComment()
			continue
		case ch == '/' && l.peekChar() == '*':
			if tok, ok := l.skipBlockComment(); !ok {
				return tok
			}
			continue
		}
		l.start = l.pos
		switch {
		case ch == '"' || ch == '\'' || ch == '`':
			return l.readString(ch)
		case isLetter(ch):
			return l.readIdentifier()
		case isDigit(ch):
			return l.readNumber()
		case ch == '.':
			if isDigit(l.peekChar()) {
				return l.readNumber()
			}
			l.pos++
			return l.illegal(MsgUnexpectedChar, l.line)
		}
		if typ, ok := twoCharTokens[l.input[l.pos:min(l.pos+2, len(l.input))]]; ok {
			l.pos += 2
			return l.emit(typ)
		}
		if typ, ok := oneCharTokens[ch]; ok {
			l.pos++
			return l.emit(typ)
		}
		l.pos++
		return l.illegal(MsgUnexpectedChar, l.line)
	}
}

var twoCharTokens = map[string]token.Type{
	"==": token.EQ,
	"!=": token.NOT_EQ,
	">=": token.GT_EQUALS,
	"<=": token.LT_EQUALS,
	"+=": token.PLUS_EQUALS,
	"-=": token.MINUS_EQUALS,
	"*=": token.ASTERISK_EQUALS,
	"/=": token.SLASH_EQUALS,
	"%=": token.MOD_EQUALS,
	"++": token.PLUS_PLUS,
	"--": token.MINUS_MINUS,
}

var oneCharTokens = map[byte]token.Type{
	':': token.COLON,
	'=': token.ASSIGN,
	'+': token.PLUS,
	'-': token.MINUS,
	'*': token.ASTERISK,
	'/': token.SLASH,
	'%': token.MOD,
	'@': token.CONCAT,
	'&': token.AND,
	'|': token.OR,
	'!': token.NOT,
	'>': token.GT,
	'<': token.LT,
	',': token.COMMA,
	'(': token.LPAREN,
	')': token.RPAREN,
	'{': token.LBRACE,
	'}': token.RBRACE,
	';': token.SEMICOLON,
}

func (l *Lexer) emit(typ token.Type) token.Token {
	return token.Token{Type: typ, Literal: l.input[l.start:l.pos], Line: l.line}
}

func (l *Lexer) illegal(msg string, line int) token.Token {
	return token.Token{Type: token.ILLEGAL, Literal: msg, Line: line}
}

func (l *Lexer) peekChar() byte {
	if l.pos+1 >= len(l.input) {
		return 0
	}
	return l.input[l.pos+1]
}

func (l *Lexer) skipSpaces() {
	for l.pos < len(l.input) && isSpace(l.input[l.pos]) {
		l.pos++
	}
}

// readNewlines collapses a run of newlines into one token. Blank lines and
// comment-only lines inside the run are absorbed too.
func (l *Lexer) readNewlines() token.Token {
	tok := token.Token{Type: token.NEWLINE, Literal: "\n", Line: l.line}
	for l.pos < len(l.input) {
		switch ch := l.input[l.pos]; {
		case ch == '\n':
			l.line++
			l.pos++
		case isSpace(ch):
			l.pos++
		case ch == '#':
			l.skipLineComment()
		default:
			return tok
		}
	}
	return tok
}

func (l *Lexer) skipLineComment() {
	for l.pos < len(l.input) && l.input[l.pos] != '\n' {
		l.pos++
	}
}

// skipBlockComment consumes a /* */ comment. It returns an ILLEGAL token and
// false when the comment is never closed.
func (l *Lexer) skipBlockComment() (token.Token, bool) {
	line := l.line
	l.pos += 2
	for l.pos < len(l.input) {
		if l.input[l.pos] == '*' && l.peekChar() == '/' {
			l.pos += 2
			return token.Token{}, true
		}
		if l.input[l.pos] == '\n' {
			l.line++
		}
		l.pos++
	}
	return l.illegal(MsgUnterminatedComment, line), false
}

func (l *Lexer) readString(quote byte) token.Token {
	line := l.line
	l.pos++
	begin := l.pos
	for l.pos < len(l.input) && l.input[l.pos] != quote {
		if l.input[l.pos] == '\n' {
			return l.illegal(MsgUnterminatedString, line)
		}
		l.pos++
	}
	if l.pos >= len(l.input) {
		return l.illegal(MsgUnterminatedString, line)
	}
	tok := token.Token{Type: token.STRING, Literal: l.input[begin:l.pos], Line: line}
	l.pos++
	return tok
}

func (l *Lexer) readIdentifier() token.Token {
	for l.pos < len(l.input) && (isLetter(l.input[l.pos]) || isDigit(l.input[l.pos])) {
		l.pos++
	}
	word := l.input[l.start:l.pos]
	return token.Token{Type: token.LookupIdentifier(word), Literal: word, Line: l.line}
}

func (l *Lexer) readNumber() token.Token {
	for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
		l.pos++
	}
	if l.pos < len(l.input) && l.input[l.pos] == '.' {
		l.pos++
		for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
			l.pos++
		}
	}
	return l.emit(token.NUMBER)
}

// Tokenize lexes the whole input. The returned slice always ends with the
// EOF token. The error reports the first ILLEGAL token, if any.
func Tokenize(input string) ([]token.Token, error) {
	l := New(input)
	var tokens []token.Token
	var err error
	for {
		tok := l.Next()
		tokens = append(tokens, tok)
		if tok.Type == token.ILLEGAL && err == nil {
			err = errors.NewSyntaxError(tok.Line, tok.Literal)
		}
		if tok.Type == token.EOF {
			return tokens, err
		}
	}
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\v' || ch == '\f'
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_' || ch == '$'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
