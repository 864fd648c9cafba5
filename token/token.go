// Package token defines language keywords and tokens used when lexing source code.
package token

// Type describes the type of a token as a string.
type Type string

// Token represents one token lexed from the input source code.
type Token struct {
	Type    Type
	Literal string
	Line    int
}

// Token types
const (
	AND             Type = "&"
	ASSIGN          Type = "="
	ASTERISK        Type = "*"
	ASTERISK_EQUALS Type = "*="
	COLON           Type = ":"
	COMMA           Type = ","
	CONCAT          Type = "@"
	DEFINE          Type = "DEFINE"
	ELSE            Type = "ELSE"
	EMPTY           Type = "EMPTY"
	EOF             Type = "EOF"
	EQ              Type = "=="
	EXIT            Type = "EXIT"
	FALSE           Type = "FALSE"
	FOR             Type = "FOR"
	GET             Type = "GET"
	GT              Type = ">"
	GT_EQUALS       Type = ">="
	IDENT           Type = "IDENT"
	IF              Type = "IF"
	ILLEGAL         Type = "ILLEGAL"
	INVOKE          Type = "INVOKE"
	LBRACE          Type = "{"
	LPAREN          Type = "("
	LT              Type = "<"
	LT_EQUALS       Type = "<="
	MINUS           Type = "-"
	MINUS_EQUALS    Type = "-="
	MINUS_MINUS     Type = "--"
	MOD             Type = "%"
	MOD_EQUALS      Type = "%="
	NEWLINE         Type = "EOL"
	NOT             Type = "!"
	NOT_EQ          Type = "!="
	NUMBER          Type = "NUMBER"
	OR              Type = "|"
	PLUS            Type = "+"
	PLUS_EQUALS     Type = "+="
	PLUS_PLUS       Type = "++"
	PRINT           Type = "PRINT"
	RBRACE          Type = "}"
	RETURN          Type = "RETURN"
	RPAREN          Type = ")"
	SEMICOLON       Type = ";"
	SET             Type = "SET"
	SLASH           Type = "/"
	SLASH_EQUALS    Type = "/="
	STRING          Type = "STRING"
	TRUE            Type = "TRUE"
	VOID            Type = "VOID"
	WHILE           Type = "WHILE"
)

// Reserved keywords. The word operators map onto the same types as their
// symbolic spellings.
var keywords = map[string]Type{
	"and":    AND,
	"define": DEFINE,
	"else":   ELSE,
	"empty":  EMPTY,
	"exit":   EXIT,
	"false":  FALSE,
	"for":    FOR,
	"get":    GET,
	"if":     IF,
	"invoke": INVOKE,
	"is":     EQ,
	"not":    NOT,
	"or":     OR,
	"print":  PRINT,
	"return": RETURN,
	"set":    SET,
	"true":   TRUE,
	"void":   VOID,
	"while":  WHILE,
}

// LookupIdentifier returns the keyword type for the given word, or IDENT if
// the word is not reserved.
func LookupIdentifier(identifier string) Type {
	if tok, ok := keywords[identifier]; ok {
		return tok
	}
	return IDENT
}

// IsKeyword reports whether the word is reserved.
func IsKeyword(word string) bool {
	_, ok := keywords[word]
	return ok
}

// IsAssignment reports whether the type is one of the assignment operators,
// including the increment and decrement shorthands.
func IsAssignment(t Type) bool {
	switch t {
	case ASSIGN, PLUS_EQUALS, MINUS_EQUALS, ASTERISK_EQUALS, SLASH_EQUALS,
		MOD_EQUALS, PLUS_PLUS, MINUS_MINUS:
		return true
	}
	return false
}
