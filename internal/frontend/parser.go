// parser.go is the package's public entry point: it drives the lexer
// (component C1) to completion, then runs the combinator grammar
// (components C3/C4) over the resulting token slice to produce a syntax
// tree (spec §4, the "parsing pipeline").
package frontend

import (
	"errors"

	"vslc/internal/ast"
	"vslc/internal/token"
)

var errUnparsed = errors.New("frontend: parse did not succeed but produced no diagnostic")

// Parse lexes src and parses it into a Program node. On failure it returns
// the diagnostic with the furthest error cursor the grammar encountered
// (spec property P7).
func Parse(src string) (*ast.Node, error) {
	toks := Tokenize(src)
	s := &state{toks: toks}
	res := ruleProgram()(s, 0)
	if res.Status != Success {
		if res.Err != nil {
			return nil, res.Err
		}
		return nil, errUnparsed
	}
	return res.Value.(*ast.Node), nil
}

// Tokenize runs the lexer to completion and returns the full token slice,
// exposed so callers (e.g. the -ts token dump) can inspect the stream
// independently of parsing.
func Tokenize(src string) []token.Token {
	l := newLexer(src)
	go l.run()
	var toks []token.Token
	for t := range l.items {
		toks = append(toks, t)
		if t.Kind == token.EOF {
			break
		}
	}
	return toks
}
