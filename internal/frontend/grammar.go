// grammar.go builds the named productions of spec §4.3 (component C4) from
// the five combinator primitives in combinator.go (component C3). Each rule
// function returns a Rule whose tree-building action folds its combinator
// result into an ast.Node using the labelled-child model (spec §3).
package frontend

import (
	"vslc/internal/ast"
	"vslc/internal/token"
	"vslc/internal/util"
)

// withNode wraps r so that, on success, its raw combinator Value is folded
// into an *ast.Node by build.
func withNode(r Rule, build func(v interface{}) *ast.Node) Rule {
	return func(s *state, pos int) Result {
		res := r(s, pos)
		if res.Status != Success {
			return res
		}
		return Result{Status: Success, Value: build(res.Value), Next: res.Next}
	}
}

// seqVals extracts the []interface{} produced by Sequence.
func seqVals(v interface{}) []interface{} { return v.([]interface{}) }

// opt matches r, or nothing. The resulting variant has Index 0 if r matched.
func opt(r Rule) Rule { return Choice(r, Null) }

func optNode(v interface{}) (*ast.Node, bool) {
	vt := v.(variant)
	if vt.Index == 0 {
		return vt.Value.(*ast.Node), true
	}
	return nil, false
}

// chainRule builds a "head { op operand }" production into an ast.Node of
// tag, with the head under HeadExpr and one entry per link under Ops/Exprs.
func chainRule(tag ast.Tag, operand Rule, ops ...token.Kind) func() Rule {
	return func() Rule {
		opChoice := make([]Rule, len(ops))
		for i, k := range ops {
			opChoice[i] = Token(k)
		}
		full := Sequence(operand, Closure(Sequence(Choice(opChoice...), operand)))
		return withNode(full, func(v interface{}) *ast.Node {
			vals := seqVals(v)
			n := ast.New(tag)
			n.Add(ast.HeadExpr, vals[0].(*ast.Node))
			items, _ := vals[1].([]interface{})
			for _, it := range items {
				pair := seqVals(it)
				opVariant := pair[0].(variant)
				opTok := opVariant.Value.(token.Token)
				n.Add(ast.Ops, ast.NewToken(ast.Op, opTok))
				n.Add(ast.Exprs, pair[1].(*ast.Node))
			}
			return n
		})
	}
}

// ---------------------------------------------------------------------
// Expression grammar
// ---------------------------------------------------------------------

func ruleLiteral() Rule {
	return withNode(Choice(Token(token.INT), Token(token.FLOAT), Token(token.STRING), Token(token.BOOL), Token(token.CHAR)),
		func(v interface{}) *ast.Node {
			t := v.(variant).Value.(token.Token)
			return ast.NewToken(ast.Literal, t)
		})
}

func ruleIndexOp() Rule {
	return withNode(Sequence(Discard(token.LBRACKET), Lazy(ruleAddExpr), Discard(token.RBRACKET)),
		func(v interface{}) *ast.Node {
			vals := seqVals(v)
			n := ast.New(ast.IndexOp)
			n.Add(ast.HeadExpr, vals[1].(*ast.Node))
			return n
		})
}

func ruleCallingOp() Rule {
	argList := withNode(Sequence(Lazy(ruleWholeExpr), Closure(withNode(Sequence(Discard(token.COMMA), Lazy(ruleWholeExpr)),
		func(v interface{}) *ast.Node { return seqVals(v)[1].(*ast.Node) }))),
		func(v interface{}) *ast.Node {
			vals := seqVals(v)
			n := ast.New(ast.CallingOp)
			n.Add(ast.Args, vals[0].(*ast.Node))
			items, _ := vals[1].([]interface{})
			for _, it := range items {
				n.Add(ast.Args, it.(*ast.Node))
			}
			return n
		})
	return withNode(Sequence(Discard(token.LPAREN), opt(argList), Discard(token.RPAREN)),
		func(v interface{}) *ast.Node {
			vals := seqVals(v)
			if n, ok := optNode(vals[1]); ok {
				return n
			}
			return ast.New(ast.CallingOp)
		})
}

func ruleAtomIdent() Rule {
	postfix := Closure(Choice(ruleIndexOp(), ruleCallingOp()))
	return withNode(Sequence(Token(token.IDENT), postfix),
		func(v interface{}) *ast.Node {
			vals := seqVals(v)
			n := ast.New(ast.AtomIdentifier)
			n.Add(ast.Identifier, ast.NewToken(ast.Identifier, vals[0].(token.Token)))
			items, _ := vals[1].([]interface{})
			for _, it := range items {
				vt := it.(variant)
				n.Add(ast.Ops, vt.Value.(*ast.Node))
			}
			return n
		})
}

func ruleIdentExpr() Rule {
	bangs := Closure(Discard(token.NOT))
	chain := Closure(withNode(Sequence(Discard(token.DOT), ruleAtomIdent()),
		func(v interface{}) *ast.Node { return seqVals(v)[1].(*ast.Node) }))
	return withNode(Sequence(bangs, ruleAtomIdent(), chain),
		func(v interface{}) *ast.Node {
			vals := seqVals(v)
			n := ast.New(ast.IdentifierExpr)
			negations, _ := vals[0].([]interface{})
			for range negations {
				n.Add(ast.PreOp, ast.New(ast.PreOp))
			}
			n.Add(ast.Identifier, vals[1].(*ast.Node))
			items, _ := vals[2].([]interface{})
			for _, it := range items {
				n.Add(ast.Identifier, it.(*ast.Node))
			}
			return n
		})
}

// ruleIncDecExpr matches the prefix `++`/`--` operator applied to a bare
// identifier (`++x`, `--x`). The postfix form (`x++`) is not parsed.
func ruleIncDecExpr() Rule {
	return withNode(Sequence(Choice(Token(token.INC), Token(token.DEC)), Token(token.IDENT)),
		func(v interface{}) *ast.Node {
			vals := seqVals(v)
			n := ast.New(ast.IncDecExpr)
			opTok := vals[0].(variant).Value.(token.Token)
			n.Add(ast.Op, ast.NewToken(ast.Op, opTok))
			n.Add(ast.Identifier, ast.NewToken(ast.Identifier, vals[1].(token.Token)))
			return n
		})
}

func rulePrimExpr() Rule {
	paren := withNode(Sequence(Discard(token.LPAREN), Lazy(ruleWholeExpr), Discard(token.RPAREN)),
		func(v interface{}) *ast.Node { return seqVals(v)[1].(*ast.Node) })
	return withNode(Choice(ruleLiteral(), ruleIncDecExpr(), ruleIdentExpr(), paren),
		func(v interface{}) *ast.Node {
			vt := v.(variant)
			n := ast.New(ast.PrimExpr)
			switch vt.Index {
			case 0:
				n.Add(ast.Literal, vt.Value.(*ast.Node))
			case 1:
				n.Add(ast.HeadExpr, vt.Value.(*ast.Node))
			case 2:
				n.Add(ast.Identifier, vt.Value.(*ast.Node))
			case 3:
				n.Add(ast.HeadExpr, vt.Value.(*ast.Node))
			}
			return n
		})
}

func ruleMulExpr() Rule {
	return chainRule(ast.MulExpr, rulePrimExpr(), token.STAR, token.SLASH, token.PERCENT)()
}

func ruleAddExpr() Rule {
	return chainRule(ast.AddExpr, ruleMulExpr(), token.PLUS, token.MINUS)()
}

func ruleLogicExpr() Rule {
	return chainRule(ast.LogicExpr, ruleAddExpr(), token.LT, token.LE, token.GT, token.GE, token.NEQ, token.EQ)()
}

func ruleBinaryExpr() Rule {
	return chainRule(ast.BinaryExpr, ruleLogicExpr(), token.AND, token.OR)()
}

func ruleArrayExpr() Rule {
	elems := withNode(Sequence(Lazy(ruleWholeExpr), Closure(withNode(Sequence(Discard(token.COMMA), Lazy(ruleWholeExpr)),
		func(v interface{}) *ast.Node { return seqVals(v)[1].(*ast.Node) }))),
		func(v interface{}) *ast.Node {
			vals := seqVals(v)
			n := ast.New(ast.ArrayExpr)
			n.Add(ast.Exprs, vals[0].(*ast.Node))
			items, _ := vals[1].([]interface{})
			for _, it := range items {
				n.Add(ast.Exprs, it.(*ast.Node))
			}
			return n
		})
	return withNode(Sequence(Discard(token.LBRACKET), opt(elems), Discard(token.RBRACKET)),
		func(v interface{}) *ast.Node {
			vals := seqVals(v)
			if n, ok := optNode(vals[1]); ok {
				return n
			}
			return ast.New(ast.ArrayExpr)
		})
}

var assignOps = []token.Kind{token.ASSIGN, token.PLUS_ASSIGN, token.MINUS_ASSIGN, token.STAR_ASSIGN, token.SLASH_ASSIGN}

func ruleAssignExpr() Rule {
	ops := make([]Rule, len(assignOps))
	for i, k := range assignOps {
		ops[i] = Token(k)
	}
	return withNode(Sequence(ruleIdentExpr(), Choice(ops...), Lazy(ruleWholeExpr)),
		func(v interface{}) *ast.Node {
			vals := seqVals(v)
			n := ast.New(ast.AssignExpr)
			n.Add(ast.Identifier, vals[0].(*ast.Node))
			opTok := vals[1].(variant).Value.(token.Token)
			n.Add(ast.Op, ast.NewToken(ast.Op, opTok))
			n.Add(ast.AssignTerm, vals[2].(*ast.Node))
			return n
		})
}

func ruleWholeExpr() Rule {
	return withNode(Choice(ruleAssignExpr(), ruleBinaryExpr(), ruleArrayExpr()),
		func(v interface{}) *ast.Node {
			vt := v.(variant)
			n := ast.New(ast.WholeExpr)
			n.Add(ast.HeadExpr, vt.Value.(*ast.Node))
			return n
		})
}

// ---------------------------------------------------------------------
// Type grammar
// ---------------------------------------------------------------------

func ruleBasicType() Rule {
	return withNode(Choice(Token(token.TYPE_INT), Token(token.TYPE_CHAR), Token(token.TYPE_FLOAT), Token(token.TYPE_BOOL)),
		func(v interface{}) *ast.Node {
			t := v.(variant).Value.(token.Token)
			n := ast.NewToken(ast.BasicTypeModifier, t)
			return n
		})
}

func ruleArrayType() Rule {
	return withNode(Sequence(Discard(token.LBRACKET), Closure(Lazy(ruleAddExpr)), Discard(token.RBRACKET), ruleBasicType()),
		func(v interface{}) *ast.Node {
			vals := seqVals(v)
			n := ast.New(ast.ArrayTypeModifier)
			dims, _ := vals[1].([]interface{})
			for _, d := range dims {
				n.Add(ast.Exprs, d.(*ast.Node))
			}
			n.Add(ast.Type, vals[3].(*ast.Node))
			return n
		})
}

func ruleTypeMod() Rule {
	return withNode(Choice(ruleArrayType(), ruleBasicType()),
		func(v interface{}) *ast.Node {
			vt := v.(variant)
			n := ast.New(ast.TypeModifier)
			n.Add(ast.Type, vt.Value.(*ast.Node))
			return n
		})
}

func ruleRangeExpr() Rule {
	return withNode(Sequence(Discard(token.RANGE), Choice(ruleArrayExpr(), ruleIdentExpr())),
		func(v interface{}) *ast.Node {
			vals := seqVals(v)
			n := ast.New(ast.RangeExpr)
			vt := vals[1].(variant)
			n.Add(ast.HeadExpr, vt.Value.(*ast.Node))
			return n
		})
}

// ---------------------------------------------------------------------
// Statement grammar
// ---------------------------------------------------------------------

func ruleDeclareStmt() Rule {
	typeAnn := withNode(Sequence(Discard(token.COLON), ruleTypeMod()), func(v interface{}) *ast.Node { return seqVals(v)[1].(*ast.Node) })
	init := withNode(Sequence(Discard(token.ASSIGN), ruleWholeExpr()), func(v interface{}) *ast.Node { return seqVals(v)[1].(*ast.Node) })
	return func(s *state, pos int) Result {
		res := Sequence(Discard(token.LET), Token(token.IDENT), opt(typeAnn), opt(init), Discard(token.SEMI))(s, pos)
		if res.Status != Success {
			return res
		}
		vals := seqVals(res.Value)
		typeNode, hasType := optNode(vals[2])
		initNode, hasInit := optNode(vals[3])
		if !hasType && !hasInit {
			ident := vals[1].(token.Token)
			return Result{
				Status: Failed, Next: pos,
				Err: util.NewError(util.ASTError, util.Position{Line: ident.Line, Column: ident.Column},
					"A declaration must have an initializer if no type constraint is specified"),
				// Reported at the identifier, past the statement's start, so an
				// enclosing Closure propagates it instead of stopping cleanly.
				ErrCursor: pos + 1,
			}
		}
		n := ast.New(ast.DeclareStmt)
		n.Add(ast.Identifier, ast.NewToken(ast.Identifier, vals[1].(token.Token)))
		if hasType {
			n.Add(ast.Type, typeNode)
		}
		if hasInit {
			n.Add(ast.AssignTerm, initNode)
		}
		return Result{Status: Success, Value: n, Next: res.Next}
	}
}

func ruleExprStmt() Rule {
	return withNode(Sequence(Choice(ruleAssignExpr(), ruleIncDecExpr(), ruleIdentExpr()), Discard(token.SEMI)),
		func(v interface{}) *ast.Node {
			vals := seqVals(v)
			n := ast.New(ast.ExprStmt)
			vt := vals[0].(variant)
			n.Add(ast.HeadExpr, vt.Value.(*ast.Node))
			return n
		})
}

func ruleElseStmt() Rule {
	return withNode(Sequence(Discard(token.ELSE), Lazy(ruleBlockStmt)),
		func(v interface{}) *ast.Node {
			n := ast.New(ast.ElseStmt)
			n.Add(ast.Block, seqVals(v)[1].(*ast.Node))
			return n
		})
}

func ruleIfStmt() Rule {
	return withNode(Sequence(Discard(token.IF), Discard(token.LPAREN), ruleBinaryExpr(), Discard(token.RPAREN),
		Lazy(ruleBlockStmt), opt(ruleElseStmt())),
		func(v interface{}) *ast.Node {
			vals := seqVals(v)
			n := ast.New(ast.IfStmt)
			n.Add(ast.Condition, vals[2].(*ast.Node))
			n.Add(ast.Block, vals[4].(*ast.Node))
			if e, ok := optNode(vals[5]); ok {
				n.Add(ast.ElseStmt, e)
			}
			return n
		})
}

func ruleWhileStmt() Rule {
	return withNode(Sequence(Discard(token.WHILE), Discard(token.LPAREN), ruleBinaryExpr(), Discard(token.RPAREN), Lazy(ruleBlockStmt)),
		func(v interface{}) *ast.Node {
			vals := seqVals(v)
			n := ast.New(ast.WhileStmt)
			n.Add(ast.Condition, vals[2].(*ast.Node))
			n.Add(ast.Block, vals[4].(*ast.Node))
			return n
		})
}

func ruleForHead() Rule {
	cStyle := withNode(Sequence(ruleDeclareStmt(), ruleWholeExpr(), Discard(token.SEMI), ruleWholeExpr()),
		func(v interface{}) *ast.Node {
			vals := seqVals(v)
			n := ast.New(ast.ForStmt)
			n.Add(ast.Identifier, vals[0].(*ast.Node))
			n.Add(ast.Condition, vals[1].(*ast.Node))
			n.Add(ast.AssignTerm, vals[3].(*ast.Node))
			return n
		})
	typeAnn := withNode(Sequence(Discard(token.COLON), ruleTypeMod()), func(v interface{}) *ast.Node { return seqVals(v)[1].(*ast.Node) })
	rangeStyle := withNode(Sequence(Discard(token.LET), Token(token.IDENT), opt(typeAnn), Discard(token.ASSIGN), ruleRangeExpr()),
		func(v interface{}) *ast.Node {
			vals := seqVals(v)
			n := ast.New(ast.ForStmt)
			n.Add(ast.Identifier, ast.NewToken(ast.Identifier, vals[1].(token.Token)))
			if t, ok := optNode(vals[2]); ok {
				n.Add(ast.Type, t)
			}
			n.Add(ast.RangeExpr, vals[4].(*ast.Node))
			return n
		})
	return withNode(Choice(cStyle, rangeStyle), func(v interface{}) *ast.Node { return v.(variant).Value.(*ast.Node) })
}

func ruleForStmt() Rule {
	return withNode(Sequence(Discard(token.FOR), Discard(token.LPAREN), ruleForHead(), Discard(token.RPAREN), Lazy(ruleBlockStmt)),
		func(v interface{}) *ast.Node {
			vals := seqVals(v)
			n := vals[2].(*ast.Node) // ForStmt node already carries head fields.
			n.Add(ast.Block, vals[4].(*ast.Node))
			return n
		})
}

func ruleReturnStmt() Rule {
	return withNode(Sequence(Discard(token.RETURN), ruleWholeExpr(), Discard(token.SEMI)),
		func(v interface{}) *ast.Node {
			n := ast.New(ast.ReturnStmt)
			n.Add(ast.HeadExpr, seqVals(v)[1].(*ast.Node))
			return n
		})
}

func ruleContainableStmt() Rule {
	return withNode(Choice(ruleDeclareStmt(), ruleIfStmt(), ruleWhileStmt(), ruleForStmt(), Lazy(ruleBlockStmt), ruleReturnStmt(), ruleExprStmt()),
		func(v interface{}) *ast.Node { return v.(variant).Value.(*ast.Node) })
}

func ruleBlockStmt() Rule {
	return withNode(Sequence(Discard(token.LBRACE), Closure(ruleContainableStmt()), Discard(token.RBRACE)),
		func(v interface{}) *ast.Node {
			vals := seqVals(v)
			n := ast.New(ast.BlockStmt)
			items, _ := vals[1].([]interface{})
			for _, it := range items {
				n.Add(ast.Stmts, it.(*ast.Node))
			}
			return n
		})
}

func ruleParam() Rule {
	return withNode(Sequence(Token(token.IDENT), Discard(token.COLON), ruleTypeMod()),
		func(v interface{}) *ast.Node {
			vals := seqVals(v)
			n := ast.New(ast.Param)
			n.Add(ast.Identifier, ast.NewToken(ast.Identifier, vals[0].(token.Token)))
			n.Add(ast.Type, vals[2].(*ast.Node))
			return n
		})
}

func ruleFuncDefStmt() Rule {
	params := withNode(Sequence(ruleParam(), Closure(withNode(Sequence(Discard(token.COMMA), ruleParam()),
		func(v interface{}) *ast.Node { return seqVals(v)[1].(*ast.Node) }))),
		func(v interface{}) *ast.Node {
			vals := seqVals(v)
			n := ast.New(ast.Param)
			n.Add(ast.Args, vals[0].(*ast.Node))
			items, _ := vals[1].([]interface{})
			for _, it := range items {
				n.Add(ast.Args, it.(*ast.Node))
			}
			return n
		})
	return withNode(Sequence(Discard(token.FUNC), Token(token.IDENT), Discard(token.LPAREN), opt(params), Discard(token.RPAREN),
		Discard(token.ARROW), ruleTypeMod(), ruleBlockStmt()),
		func(v interface{}) *ast.Node {
			vals := seqVals(v)
			n := ast.New(ast.FuncDefineStmt)
			n.Add(ast.Identifier, ast.NewToken(ast.Identifier, vals[1].(token.Token)))
			if p, ok := optNode(vals[3]); ok {
				for _, a := range p.ChildrenOf(ast.Args) {
					n.Add(ast.Args, a)
				}
			}
			n.Add(ast.Type, vals[6].(*ast.Node))
			n.Add(ast.Block, vals[7].(*ast.Node))
			return n
		})
}

func ruleStmt() Rule {
	return withNode(Choice(ruleFuncDefStmt(), ruleContainableStmt()),
		func(v interface{}) *ast.Node { return v.(variant).Value.(*ast.Node) })
}

// ruleProgram is the compilation unit's entry point: zero or more top-level
// statements followed by end of input.
func ruleProgram() Rule {
	return withNode(Sequence(Closure(ruleStmt()), Token(token.EOF)),
		func(v interface{}) *ast.Node {
			vals := seqVals(v)
			n := ast.New(ast.Program)
			items, _ := vals[0].([]interface{})
			for _, it := range items {
				n.Add(ast.Stmts, it.(*ast.Node))
			}
			return n
		})
}
