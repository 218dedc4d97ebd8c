// lexer.go implements the token stream producer assumed external by spec §1
// and §4.1. It is based on, and structured like, Rob Pike's Go scanner talk
// the way the teacher's frontend/lexer.go is: a set of stateFunc values that
// walk the source rune by rune and emit tokens on a channel. Tokenize drains
// that channel into a slice before parsing begins.
package frontend

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"vslc/internal/token"
)

type stateFunc func(*lexer) stateFunc

const eof = 0

// lexer scans source text and emits token.Token values.
type lexer struct {
	input       string
	start       int
	pos         int
	width       int
	line        int
	startOnLine int
	items       chan token.Token
}

// newLexer creates a lexer over src.
func newLexer(src string) *lexer {
	return &lexer{
		input:       src,
		line:        1,
		startOnLine: 1,
		items:       make(chan token.Token, 2),
	}
}

// run drives the lexer to completion, closing items when done.
func (l *lexer) run() {
	defer close(l.items)
	for state := lexStart; state != nil; {
		state = state(l)
	}
}

// next returns the next rune in the input, advancing the cursor.
func (l *lexer) next() rune {
	if l.pos >= len(l.input) {
		l.width = 0
		return eof
	}
	r, w := utf8.DecodeRuneInString(l.input[l.pos:])
	l.width = w
	l.pos += w
	return r
}

// backup steps back one rune. Must only be called once per call to next.
func (l *lexer) backup() {
	if l.pos > l.start {
		l.pos -= l.width
	}
}

// peek returns, without consuming, the next rune.
func (l *lexer) peek() rune {
	r := l.next()
	l.backup()
	return r
}

// emit sends a token of kind k back to the caller.
func (l *lexer) emit(k token.Kind) {
	lexeme := l.input[l.start:l.pos]
	l.items <- token.Token{Kind: k, Lexeme: lexeme, Line: l.line, Column: l.startOnLine}
	l.startOnLine += len(lexeme)
	l.start = l.pos
}

// emitTrim is like emit but strips the leading/trailing rune (used for
// string/char literal quotes, per spec §4.1: "delivered with quotes
// stripped").
func (l *lexer) emitTrim(k token.Kind) {
	lexeme := l.input[l.start+1 : l.pos-1]
	l.items <- token.Token{Kind: k, Lexeme: lexeme, Line: l.line, Column: l.startOnLine}
	l.startOnLine += l.pos - l.start
	l.start = l.pos
}

// ignore discards the pending input before the current position.
func (l *lexer) ignore() {
	l.startOnLine += len(l.input[l.start:l.pos])
	l.start = l.pos
}

// errorf emits an UNKNOWN token carrying a diagnostic message and stops the lexer.
func (l *lexer) errorf(format string, args ...interface{}) stateFunc {
	l.items <- token.Token{Kind: token.UNKNOWN, Lexeme: fmt.Sprintf(format, args...), Line: l.line, Column: l.startOnLine}
	return nil
}

func isDigit(r rune) bool  { return r >= '0' && r <= '9' }
func isAlpha(r rune) bool  { return unicode.IsLetter(r) || r == '_' }
func isAlnum(r rune) bool  { return isAlpha(r) || isDigit(r) }

// lexStart is the lexer's initial state: skips whitespace and comments, and
// dispatches based on the first rune of the next lexeme.
func lexStart(l *lexer) stateFunc {
	r := l.next()
	switch {
	case r == eof:
		l.items <- token.Token{Kind: token.EOF, Line: l.line, Column: l.startOnLine}
		return nil
	case r == '\n':
		l.line++
		l.startOnLine = 1
		l.ignore()
		return lexStart
	case unicode.IsSpace(r):
		l.ignore()
		return lexStart
	case r == '/' && l.peek() == '/':
		return lexComment
	case isDigit(r):
		l.backup()
		return lexNumber
	case isAlpha(r):
		l.backup()
		return lexIdentifier
	case r == '"':
		return lexString
	case r == '\'':
		return lexChar
	default:
		l.backup()
		return lexOperator
	}
}

func lexComment(l *lexer) stateFunc {
	for {
		r := l.next()
		if r == '\n' || r == eof {
			l.backup()
			l.ignore()
			return lexStart
		}
	}
}

func lexNumber(l *lexer) stateFunc {
	for isDigit(l.peek()) {
		l.next()
	}
	isFloat := false
	if l.peek() == '.' {
		isFloat = true
		l.next()
		for isDigit(l.peek()) {
			l.next()
		}
	}
	if isFloat {
		l.emit(token.FLOAT)
	} else {
		l.emit(token.INT)
	}
	return lexStart
}

func lexIdentifier(l *lexer) stateFunc {
	for isAlnum(l.peek()) {
		l.next()
	}
	word := l.input[l.start:l.pos]
	switch word {
	case "true", "false":
		l.emit(token.BOOL)
	default:
		if k, ok := token.Keywords[word]; ok {
			l.emit(k)
		} else {
			l.emit(token.IDENT)
		}
	}
	return lexStart
}

func lexString(l *lexer) stateFunc {
	for {
		r := l.next()
		if r == '\n' || r == eof {
			return l.errorf("Unclosed string literal")
		}
		if r == '"' {
			l.emitTrim(token.STRING)
			return lexStart
		}
		if r == '\\' {
			l.next()
		}
	}
}

func lexChar(l *lexer) stateFunc {
	r := l.next()
	if r == '\\' {
		l.next()
	}
	if l.next() != '\'' {
		return l.errorf("Unclosed char literal")
	}
	l.emitTrim(token.CHAR)
	return lexStart
}

// ops is ordered longest-lexeme-first so greedy matching prefers "<=" over "<".
var ops = []struct {
	lexeme string
	kind   token.Kind
}{
	{"->", token.ARROW},
	{"++", token.INC},
	{"--", token.DEC},
	{"&&", token.AND},
	{"||", token.OR},
	{"<=", token.LE},
	{">=", token.GE},
	{"==", token.EQ},
	{"!=", token.NEQ},
	{"+=", token.PLUS_ASSIGN},
	{"-=", token.MINUS_ASSIGN},
	{"*=", token.STAR_ASSIGN},
	{"/=", token.SLASH_ASSIGN},
	{"+", token.PLUS},
	{"-", token.MINUS},
	{"*", token.STAR},
	{"/", token.SLASH},
	{"%", token.PERCENT},
	{"<", token.LT},
	{">", token.GT},
	{"=", token.ASSIGN},
	{"!", token.NOT},
	{"(", token.LPAREN},
	{")", token.RPAREN},
	{"[", token.LBRACKET},
	{"]", token.RBRACKET},
	{"{", token.LBRACE},
	{"}", token.RBRACE},
	{",", token.COMMA},
	{".", token.DOT},
	{":", token.COLON},
	{";", token.SEMI},
}

func lexOperator(l *lexer) stateFunc {
	rest := l.input[l.pos:]
	for _, o := range ops {
		if strings.HasPrefix(rest, o.lexeme) {
			l.pos += len(o.lexeme)
			l.emit(o.kind)
			return lexStart
		}
	}
	r := l.next()
	return l.errorf("unexpected character %q", r)
}
