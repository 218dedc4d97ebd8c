package frontend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vslc/internal/ast"
	"vslc/internal/util"
)

func TestParseFunctionDefinition(t *testing.T) {
	src := `
func add(a: int, b: int) -> int {
	let x: int = a + b;
	return x;
}`
	root, err := Parse(src)
	require.NoError(t, err)
	require.Equal(t, ast.Program, root.Tag)

	stmts := root.ChildrenOf(ast.Stmts)
	require.Len(t, stmts, 1)
	fn := stmts[0]
	require.Equal(t, ast.FuncDefineStmt, fn.Tag)

	ident := fn.Child(ast.Identifier)
	assert.Equal(t, "add", ident.Tok.Lexeme)

	params := fn.ChildrenOf(ast.Args)
	require.Len(t, params, 2)
	assert.Equal(t, "a", params[0].Child(ast.Identifier).Tok.Lexeme)
	assert.Equal(t, "b", params[1].Child(ast.Identifier).Tok.Lexeme)

	block := fn.Child(ast.Block)
	body := block.ChildrenOf(ast.Stmts)
	require.Len(t, body, 2)
	assert.Equal(t, ast.DeclareStmt, body[0].Tag)
	assert.Equal(t, ast.ReturnStmt, body[1].Tag)
}

func TestParseIfElse(t *testing.T) {
	src := `
func f() -> int {
	if (a < b) {
		return 1;
	} else {
		return 2;
	}
}`
	root, err := Parse(src)
	require.NoError(t, err)
	fn := root.ChildrenOf(ast.Stmts)[0]
	block := fn.Child(ast.Block)
	ifStmt := block.ChildrenOf(ast.Stmts)[0]
	require.Equal(t, ast.IfStmt, ifStmt.Tag)
	assert.True(t, ifStmt.Has(ast.ElseStmt))
}

func TestParseForCStyle(t *testing.T) {
	src := `
func f() -> int {
	for (let i: int = 0; i < 10; i = i + 1) {
		return i;
	}
}`
	root, err := Parse(src)
	require.NoError(t, err)
	fn := root.ChildrenOf(ast.Stmts)[0]
	block := fn.Child(ast.Block)
	forStmt := block.ChildrenOf(ast.Stmts)[0]
	require.Equal(t, ast.ForStmt, forStmt.Tag)
	assert.Equal(t, ast.DeclareStmt, forStmt.Child(ast.Identifier).Tag)
}

func TestParseDeclareWithoutTypeOrInitializerFails(t *testing.T) {
	src := `
func f() -> int {
	let x;
	return x;
}`
	_, err := Parse(src)
	require.Error(t, err)
	ce, ok := err.(*util.CompileError)
	require.True(t, ok)
	assert.Equal(t, util.ASTError, ce.Kind)
}

func TestParseUnexpectedTokenReportsFurthestError(t *testing.T) {
	src := `
func f() -> int {
	return ;
}`
	_, err := Parse(src)
	require.Error(t, err)
	ce, ok := err.(*util.CompileError)
	require.True(t, ok)
	assert.Equal(t, util.ParseError, ce.Kind)
}

func TestParseIncDecStatementAndExpression(t *testing.T) {
	src := `
func f() -> int {
	let x: int = 0;
	++x;
	let y: int = --x + 1;
	return y;
}`
	root, err := Parse(src)
	require.NoError(t, err)
	fn := root.ChildrenOf(ast.Stmts)[0]
	body := fn.Child(ast.Block).ChildrenOf(ast.Stmts)

	incStmt := body[1]
	require.Equal(t, ast.ExprStmt, incStmt.Tag)
	incExpr := incStmt.Child(ast.HeadExpr)
	require.Equal(t, ast.IncDecExpr, incExpr.Tag)
	assert.Equal(t, "x", incExpr.Child(ast.Identifier).Tok.Lexeme)
	assert.Equal(t, "++", incExpr.Child(ast.Op).Tok.Lexeme)

	decl := body[2]
	binary := decl.Child(ast.AssignTerm).Child(ast.HeadExpr)
	require.Equal(t, ast.BinaryExpr, binary.Tag)
	logic := binary.Child(ast.HeadExpr)
	require.Equal(t, ast.LogicExpr, logic.Tag)
	add := logic.Child(ast.HeadExpr)
	require.Equal(t, ast.AddExpr, add.Tag)
	assert.Len(t, add.ChildrenOf(ast.Ops), 1, "-- x + 1 must have exactly one + link at AddExpr level")
	mul := add.Child(ast.HeadExpr)
	require.Equal(t, ast.MulExpr, mul.Tag)
	prim := mul.Child(ast.HeadExpr)
	require.Equal(t, ast.PrimExpr, prim.Tag)
	decExpr := prim.Child(ast.HeadExpr)
	require.Equal(t, ast.IncDecExpr, decExpr.Tag)
	assert.Equal(t, "--", decExpr.Child(ast.Op).Tok.Lexeme)
}

func TestParseArrayLiteral(t *testing.T) {
	src := `
func f() -> int {
	let xs = [1, 2, 3];
	return xs;
}`
	root, err := Parse(src)
	require.NoError(t, err)
	fn := root.ChildrenOf(ast.Stmts)[0]
	decl := fn.Child(ast.Block).ChildrenOf(ast.Stmts)[0]
	whole := decl.Child(ast.AssignTerm)
	arr := whole.Child(ast.HeadExpr)
	require.Equal(t, ast.ArrayExpr, arr.Tag)
	assert.Len(t, arr.ChildrenOf(ast.Exprs), 3)
}
