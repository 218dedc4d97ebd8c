package frontend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vslc/internal/token"
)

func toks(kinds ...token.Kind) *state {
	ts := make([]token.Token, len(kinds))
	for i, k := range kinds {
		ts[i] = token.Token{Kind: k, Line: 1, Column: i + 1}
	}
	return &state{toks: ts}
}

func TestTokenMatchesExactKind(t *testing.T) {
	s := toks(token.IDENT, token.PLUS)
	res := Token(token.IDENT)(s, 0)
	require.Equal(t, Success, res.Status)
	assert.Equal(t, 1, res.Next)

	res = Token(token.PLUS)(s, 0)
	assert.Equal(t, Failed, res.Status)
	assert.Equal(t, 0, res.ErrCursor)
}

func TestDiscardProducesNoValue(t *testing.T) {
	s := toks(token.LPAREN)
	res := Discard(token.LPAREN)(s, 0)
	require.Equal(t, Success, res.Status)
	assert.Nil(t, res.Value)
}

func TestNullAlwaysSucceedsWithoutAdvancing(t *testing.T) {
	s := toks(token.IDENT)
	res := Null(s, 0)
	assert.Equal(t, Success, res.Status)
	assert.Equal(t, 0, res.Next)
}

func TestSequenceThreadsCursorAndFailsOnFirstMiss(t *testing.T) {
	s := toks(token.IDENT, token.ASSIGN, token.INT)
	rule := Sequence(Token(token.IDENT), Token(token.ASSIGN), Token(token.INT))
	res := rule(s, 0)
	require.Equal(t, Success, res.Status)
	assert.Equal(t, 3, res.Next)

	bad := Sequence(Token(token.IDENT), Token(token.PLUS))
	res = bad(s, 0)
	assert.Equal(t, Failed, res.Status)
	assert.Equal(t, 0, res.Next, "Sequence must reset Next to the start position on failure")
}

func TestClosureCollectsZeroOrMore(t *testing.T) {
	s := toks(token.PLUS, token.PLUS, token.PLUS, token.IDENT)
	rule := Closure(Token(token.PLUS))
	res := rule(s, 0)
	require.Equal(t, Success, res.Status)
	assert.Equal(t, 3, res.Next)
	assert.Len(t, res.Value, 3)
}

func TestClosureOnZeroMatchesSucceedsEmpty(t *testing.T) {
	s := toks(token.IDENT)
	rule := Closure(Token(token.PLUS))
	res := rule(s, 0)
	require.Equal(t, Success, res.Status)
	assert.Equal(t, 0, res.Next)
	assert.Empty(t, res.Value)
}

// TestClosureCommittedChoicePropagatesPartialFailure exercises the
// committed-choice rule: once an inner Sequence has consumed at least one
// token beyond the loop's starting cursor, a subsequent failure must
// propagate instead of being swallowed as "stop the loop cleanly".
func TestClosureCommittedChoicePropagatesPartialFailure(t *testing.T) {
	// "( IDENT" with no closing paren: the inner sequence consumes LPAREN,
	// IDENT, then fails looking for RPAREN having advanced past where the
	// loop iteration started.
	s := toks(token.LPAREN, token.IDENT, token.LPAREN, token.IDENT)
	inner := Sequence(Discard(token.LPAREN), Token(token.IDENT), Discard(token.RPAREN))
	rule := Closure(inner)
	res := rule(s, 0)
	assert.Equal(t, Failed, res.Status)
	assert.True(t, res.ErrCursor > 0)
}

func TestChoiceReturnsFirstMatch(t *testing.T) {
	s := toks(token.INT)
	rule := Choice(Token(token.IDENT), Token(token.INT), Token(token.FLOAT))
	res := rule(s, 0)
	require.Equal(t, Success, res.Status)
	v := res.Value.(variant)
	assert.Equal(t, 1, v.Index)
}

// TestChoiceLongestMatchDiagnostic exercises property P7: among several
// failing alternatives, the one whose error cursor got furthest is the one
// reported.
func TestChoiceLongestMatchDiagnostic(t *testing.T) {
	s := toks(token.LPAREN, token.IDENT, token.PLUS)
	shallow := Token(token.IDENT) // fails immediately at position 0
	deep := Sequence(Discard(token.LPAREN), Token(token.IDENT), Discard(token.RPAREN))
	rule := Choice(shallow, deep)
	res := rule(s, 0)
	require.Equal(t, Failed, res.Status)
	assert.Equal(t, 2, res.ErrCursor, "expected the deeper alternative's error cursor to win")
}

func TestLazyDefersConstruction(t *testing.T) {
	var self Rule
	self = Lazy(func() Rule { return Token(token.IDENT) })
	s := toks(token.IDENT)
	res := self(s, 0)
	assert.Equal(t, Success, res.Status)
}
