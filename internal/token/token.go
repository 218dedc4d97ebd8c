// Package token defines the closed set of terminal categories produced by
// the external lexer (spec §4.1: the lexer itself is an external
// collaborator — this package only names the contract tokens are expected
// to satisfy).
package token

import "fmt"

// Kind differentiates terminal categories.
type Kind int

const (
	// End of input.
	EOF Kind = iota
	UNKNOWN

	// Identifiers and literals.
	IDENT
	INT
	FLOAT
	STRING
	CHAR
	BOOL

	// Keywords.
	LET
	IF
	ELSE
	WHILE
	FOR
	FUNC
	RETURN
	RANGE
	TYPE_INT
	TYPE_CHAR
	TYPE_FLOAT
	TYPE_BOOL

	// Arithmetic operators.
	PLUS
	MINUS
	STAR
	SLASH
	PERCENT

	// Comparison operators.
	LT
	LE
	GT
	GE
	EQ
	NEQ

	// Logical operators.
	AND
	OR
	NOT

	// Pre/post operators.
	INC
	DEC

	// Assignment operators.
	ASSIGN
	PLUS_ASSIGN
	MINUS_ASSIGN
	STAR_ASSIGN
	SLASH_ASSIGN

	// Structure.
	LPAREN
	RPAREN
	LBRACKET
	RBRACKET
	LBRACE
	RBRACE
	COMMA
	DOT
	COLON
	SEMI
	ARROW
)

var names = [...]string{
	EOF:          "EOF",
	UNKNOWN:      "UNKNOWN",
	IDENT:        "IDENT",
	INT:          "INT",
	FLOAT:        "FLOAT",
	STRING:       "STRING",
	CHAR:         "CHAR",
	BOOL:         "BOOL",
	LET:          "let",
	IF:           "if",
	ELSE:         "else",
	WHILE:        "while",
	FOR:          "for",
	FUNC:         "func",
	RETURN:       "return",
	RANGE:        "range",
	TYPE_INT:     "int",
	TYPE_CHAR:    "char",
	TYPE_FLOAT:   "float",
	TYPE_BOOL:    "bool",
	PLUS:         "+",
	MINUS:        "-",
	STAR:         "*",
	SLASH:        "/",
	PERCENT:      "%",
	LT:           "<",
	LE:           "<=",
	GT:           ">",
	GE:           ">=",
	EQ:           "==",
	NEQ:          "!=",
	AND:          "&&",
	OR:           "||",
	NOT:          "!",
	INC:          "++",
	DEC:          "--",
	ASSIGN:       "=",
	PLUS_ASSIGN:  "+=",
	MINUS_ASSIGN: "-=",
	STAR_ASSIGN:  "*=",
	SLASH_ASSIGN: "/=",
	LPAREN:       "(",
	RPAREN:       ")",
	LBRACKET:     "[",
	RBRACKET:     "]",
	LBRACE:       "{",
	RBRACE:       "}",
	COMMA:        ",",
	DOT:          ".",
	COLON:        ":",
	SEMI:         ";",
	ARROW:        "->",
}

// String returns a print friendly name for the Kind.
func (k Kind) String() string {
	if int(k) < 0 || int(k) >= len(names) || names[k] == "" {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return names[k]
}

// Keywords maps reserved lexemes to their Kind, the way the teacher's
// frontend/lang.go partitions reserved words by length for a fast lookup.
var Keywords = map[string]Kind{
	"let":    LET,
	"if":     IF,
	"else":   ELSE,
	"while":  WHILE,
	"for":    FOR,
	"func":   FUNC,
	"return": RETURN,
	"range":  RANGE,
	"int":    TYPE_INT,
	"char":   TYPE_CHAR,
	"float":  TYPE_FLOAT,
	"bool":   TYPE_BOOL,
}

// Token is a single terminal produced by the lexer: (kind, lexeme, line, column).
type Token struct {
	Kind   Kind
	Lexeme string
	Line   int
	Column int
}

// String returns a print friendly representation of the Token.
func (t Token) String() string {
	if len(t.Lexeme) > 20 {
		return fmt.Sprintf("%s %.17q... (%d:%d)", t.Kind, t.Lexeme, t.Line, t.Column)
	}
	return fmt.Sprintf("%s %q (%d:%d)", t.Kind, t.Lexeme, t.Line, t.Column)
}
