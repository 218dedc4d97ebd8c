// builder.go implements the AST-walking IR construction pass (spec §4.4,
// component C11): it visits the parsed tree, maintains the builder cursor
// (module/function/block), issues instructions, manages scopes, and lowers
// control flow and short-circuit booleans into basic blocks.
package ir

import (
	"fmt"

	"vslc/internal/ast"
	"vslc/internal/token"
	"vslc/internal/types"
	"vslc/internal/util"
)

// Builder threads the AST-walking pass's state: the program under
// construction and, for each function body it enters, a short-circuit slot
// counter local to that function.
type Builder struct {
	Program *Program
	tbv     map[*Function]int
}

// NewBuilder creates a Builder over a fresh program named id.
func NewBuilder(id string) *Builder {
	return &Builder{Program: NewProgram(id), tbv: map[*Function]int{}}
}

func irErr(format string, args ...interface{}) error {
	return util.NewError(util.IRError, util.Position{}, format, args...)
}

// Build lowers a parsed Program node into IR (spec boundary B1: an empty
// source file produces an empty program with only the implicit "__main"
// module).
func (b *Builder) Build(root *ast.Node) (*Program, error) {
	util.Log.Debugw("ir: build starting", "program", b.Program.ID, "top_level_stmts", len(root.ChildrenOf(ast.Stmts)))
	mod := b.Program.DeclareModule("__main")
	b.Program.MoveTo(mod)
	for _, stmt := range root.ChildrenOf(ast.Stmts) {
		if stmt.Tag != ast.FuncDefineStmt {
			return nil, irErr("top-level statements other than function definitions are not supported")
		}
		if err := b.lowerFuncDef(mod, stmt); err != nil {
			util.Log.Debugw("ir: build failed", "program", b.Program.ID, "error", err)
			return nil, err
		}
	}
	util.Log.Debugw("ir: build finished", "program", b.Program.ID, "functions", len(mod.Functions))
	return b.Program, nil
}

// ---------------------------------------------------------------------
// Types
// ---------------------------------------------------------------------

func (b *Builder) resolveType(n *ast.Node) (*types.Type, error) {
	switch n.Tag {
	case ast.TypeModifier:
		return b.resolveType(n.Child(ast.Type))
	case ast.BasicTypeModifier:
		t, ok := types.FromBasic(n.Tok.Lexeme)
		if !ok {
			return nil, irErr("unknown basic type %q", n.Tok.Lexeme)
		}
		return t, nil
	case ast.ArrayTypeModifier:
		elem, err := b.resolveType(n.Child(ast.Type))
		if err != nil {
			return nil, err
		}
		dims := n.ChildrenOf(ast.Exprs)
		if len(dims) == 0 {
			return nil, irErr("array type requires at least one dimension")
		}
		t := elem
		for i := len(dims) - 1; i >= 0; i-- {
			n64, err := foldConstInt(dims[i])
			if err != nil {
				return nil, err
			}
			t = types.NewArray(t, int(n64))
		}
		return t, nil
	default:
		return nil, irErr("unexpected type node %s", n.Tag)
	}
}

// foldConstInt constant-folds the small arithmetic expressions legal in
// array dimension position. Array sizes are compile-time constants; this is
// the only place the builder needs constant folding rather than emission.
func foldConstInt(n *ast.Node) (int64, error) {
	switch n.Tag {
	case ast.WholeExpr:
		return foldConstInt(n.Child(ast.HeadExpr))
	case ast.AddExpr, ast.MulExpr:
		head, err := foldConstInt(n.Child(ast.HeadExpr))
		if err != nil {
			return 0, err
		}
		ops := n.ChildrenOf(ast.Ops)
		exprs := n.ChildrenOf(ast.Exprs)
		for i, opNode := range ops {
			rhs, err := foldConstInt(exprs[i])
			if err != nil {
				return 0, err
			}
			switch opNode.Tok.Kind {
			case token.PLUS:
				head += rhs
			case token.MINUS:
				head -= rhs
			case token.STAR:
				head *= rhs
			case token.SLASH:
				if rhs == 0 {
					return 0, irErr("division by zero in constant array dimension")
				}
				head /= rhs
			case token.PERCENT:
				if rhs == 0 {
					return 0, irErr("division by zero in constant array dimension")
				}
				head %= rhs
			}
		}
		return head, nil
	case ast.PrimExpr:
		if n.Has(ast.Literal) {
			return foldConstInt(n.Child(ast.Literal))
		}
		return 0, irErr("array dimension must be a constant expression")
	case ast.Literal:
		if v, ok := n.Value.(int32); ok {
			return int64(v), nil
		}
		return 0, irErr("array dimension must be an integer constant")
	default:
		return 0, irErr("array dimension must be a constant expression, got %s", n.Tag)
	}
}

// ---------------------------------------------------------------------
// Function definitions
// ---------------------------------------------------------------------

func (b *Builder) lowerFuncDef(mod *Module, n *ast.Node) error {
	name := n.Child(ast.Identifier).Tok.Lexeme
	retType, err := b.resolveType(n.Child(ast.Type))
	if err != nil {
		return err
	}
	var params []*Param
	for _, p := range n.ChildrenOf(ast.Args) {
		pName := p.Child(ast.Identifier).Tok.Lexeme
		pType, err := b.resolveType(p.Child(ast.Type))
		if err != nil {
			return err
		}
		params = append(params, &Param{Name: pName, Typ: pType})
	}

	util.Log.Debugw("ir: lowering function", "module", mod.ID, "func", name, "ret", retType.String(), "params", len(params))
	f := mod.DeclareFunction(name, retType, params)
	mod.MoveTo(f)
	entry := f.NewBlock("entry")
	f.MoveTo(entry)

	for _, p := range params {
		addr, err := f.Emit(OpDeclare, p.Typ)
		if err != nil {
			return err
		}
		if _, err := f.Emit(OpAssign, types.TVoid, addr, p); err != nil {
			return err
		}
		if err := f.Scope.Declare(&Symbol{Name: p.Name, Address: addr, Typ: p.Typ}); err != nil {
			return err
		}
	}

	if err := b.lowerBlockStmt(f, n.Child(ast.Block)); err != nil {
		return err
	}
	if !f.CurrentBlock().Terminated() {
		if retType == types.TVoid {
			return f.EmitRet(nil)
		}
		return irErr("function %q is missing a return on some path", name)
	}
	return nil
}

// ---------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------

// lowerBlockStmt implements the generic "block statement" production (spec
// §4.4): enter scope, allocate a fresh block, branch into it from whatever
// is current, lower statements sequentially, leave scope. Used for bare
// `{ ... }` statements and for a function's top-level body (spec scenario
// 5: the entry block branches into a body block).
func (b *Builder) lowerBlockStmt(f *Function, n *ast.Node) error {
	blk := f.NewBlock("block")
	if err := f.EmitBr(blk); err != nil {
		return err
	}
	f.MoveTo(blk)
	return b.lowerStmtsInto(f, n)
}

// lowerStmtsInto lowers n's Stmts children directly into whatever block is
// currently current, without allocating a new one — used by if/while/for,
// which allocate and wire their own named blocks per spec §4.4.
func (b *Builder) lowerStmtsInto(f *Function, n *ast.Node) error {
	f.Scope.Enter()
	defer f.Scope.Leave()
	for _, stmt := range n.ChildrenOf(ast.Stmts) {
		if f.CurrentBlock().Terminated() {
			break
		}
		if err := b.lowerStmt(f, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) lowerStmt(f *Function, n *ast.Node) error {
	switch n.Tag {
	case ast.DeclareStmt:
		return b.lowerDeclareStmt(f, n)
	case ast.ExprStmt:
		_, err := b.lowerExpr(f, n.Child(ast.HeadExpr))
		return err
	case ast.IfStmt:
		return b.lowerIfStmt(f, n)
	case ast.WhileStmt:
		return b.lowerWhileStmt(f, n)
	case ast.ForStmt:
		return b.lowerForStmt(f, n)
	case ast.BlockStmt:
		return b.lowerBlockStmt(f, n)
	case ast.ReturnStmt:
		v, err := b.lowerExpr(f, n.Child(ast.HeadExpr))
		if err != nil {
			return err
		}
		return f.EmitRet(v)
	default:
		return irErr("unexpected statement node %s", n.Tag)
	}
}

func (b *Builder) lowerDeclareStmt(f *Function, n *ast.Node) error {
	name := n.Child(ast.Identifier).Tok.Lexeme
	var declType *types.Type
	var err error
	if n.Has(ast.Type) {
		declType, err = b.resolveType(n.Child(ast.Type))
		if err != nil {
			return err
		}
	}
	var initVal Value
	if n.Has(ast.AssignTerm) {
		initVal, err = b.lowerExpr(f, n.Child(ast.AssignTerm))
		if err != nil {
			return err
		}
	}
	if declType == nil {
		declType = initVal.ValueType()
	}
	addr, err := f.Emit(OpDeclare, declType)
	if err != nil {
		return err
	}
	if initVal != nil {
		conv, err := convertAssign(f, initVal, declType)
		if err != nil {
			return err
		}
		if _, err := f.Emit(OpAssign, types.TVoid, addr, conv); err != nil {
			return err
		}
	}
	return f.Scope.Declare(&Symbol{Name: name, Address: addr, Typ: declType})
}

func (b *Builder) lowerIfStmt(f *Function, n *ast.Node) error {
	cond, err := b.lowerExpr(f, n.Child(ast.Condition))
	if err != nil {
		return err
	}
	hasElse := n.Has(ast.ElseStmt)
	before := f.CurrentBlock()
	thenBlk := f.NewBlock("if.then")
	mergeBlk := f.NewBlock("if.merge")
	var elseBlk *Block
	target := mergeBlk
	if hasElse {
		elseBlk = f.NewBlock("if.else")
		target = elseBlk
	}
	f.MoveTo(before)
	if err := f.EmitCondBr(cond, thenBlk, target); err != nil {
		return err
	}

	f.MoveTo(thenBlk)
	if err := b.lowerStmtsInto(f, n.Child(ast.Block)); err != nil {
		return err
	}
	if !f.CurrentBlock().Terminated() {
		if err := f.EmitBr(mergeBlk); err != nil {
			return err
		}
	}

	if hasElse {
		f.MoveTo(elseBlk)
		if err := b.lowerStmtsInto(f, n.Child(ast.ElseStmt).Child(ast.Block)); err != nil {
			return err
		}
		if !f.CurrentBlock().Terminated() {
			if err := f.EmitBr(mergeBlk); err != nil {
				return err
			}
		}
	}

	f.MoveTo(mergeBlk)
	return nil
}

func (b *Builder) lowerWhileStmt(f *Function, n *ast.Node) error {
	prepBlk := f.NewBlock("while.prep")
	bodyBlk := f.NewBlock("while.body")
	mergeBlk := f.NewBlock("while.merge")
	if err := f.EmitBr(prepBlk); err != nil {
		return err
	}

	f.MoveTo(prepBlk)
	cond, err := b.lowerExpr(f, n.Child(ast.Condition))
	if err != nil {
		return err
	}
	if err := f.EmitCondBr(cond, bodyBlk, mergeBlk); err != nil {
		return err
	}

	f.MoveTo(bodyBlk)
	if err := b.lowerStmtsInto(f, n.Child(ast.Block)); err != nil {
		return err
	}
	if !f.CurrentBlock().Terminated() {
		if err := f.EmitBr(prepBlk); err != nil {
			return err
		}
	}

	f.MoveTo(mergeBlk)
	return nil
}

func (b *Builder) lowerForStmt(f *Function, n *ast.Node) error {
	f.Scope.Enter()
	defer f.Scope.Leave()

	if n.Has(ast.RangeExpr) {
		return b.lowerForRange(f, n)
	}

	if err := b.lowerDeclareStmt(f, n.Child(ast.Identifier)); err != nil {
		return err
	}
	condBlk := f.NewBlock("for.cond")
	bodyBlk := f.NewBlock("for.body")
	stepBlk := f.NewBlock("for.step")
	mergeBlk := f.NewBlock("for.merge")
	if err := f.EmitBr(condBlk); err != nil {
		return err
	}

	f.MoveTo(condBlk)
	cond, err := b.lowerExpr(f, n.Child(ast.Condition))
	if err != nil {
		return err
	}
	if err := f.EmitCondBr(cond, bodyBlk, mergeBlk); err != nil {
		return err
	}

	f.MoveTo(bodyBlk)
	if err := b.lowerStmtsInto(f, n.Child(ast.Block)); err != nil {
		return err
	}
	if !f.CurrentBlock().Terminated() {
		if err := f.EmitBr(stepBlk); err != nil {
			return err
		}
	}

	f.MoveTo(stepBlk)
	if _, err := b.lowerExpr(f, n.Child(ast.AssignTerm)); err != nil {
		return err
	}
	if err := f.EmitBr(condBlk); err != nil {
		return err
	}

	f.MoveTo(mergeBlk)
	return nil
}

// lowerForRange handles the range-style for-head. Spec §9 leaves the exact
// (start, stop, step) semantics undefined for anything but a literal array;
// ranging over a literal array is lowered to the same four-block shape as
// the C-style loop, indexing the array by a hidden counter. Ranging over an
// identifier has no pinned semantics in the spec and is rejected.
func (b *Builder) lowerForRange(f *Function, n *ast.Node) error {
	rangeNode := n.Child(ast.RangeExpr)
	target := rangeNode.Child(ast.HeadExpr)
	if target.Tag != ast.ArrayExpr {
		return irErr("range-style for over an identifier has no pinned semantics; only literal array ranges are supported")
	}
	arrVal, err := b.lowerExpr(f, target)
	if err != nil {
		return err
	}
	n64 := arrVal.ValueType().Len

	loopVarName := n.Child(ast.Identifier).Tok.Lexeme
	var elemType *types.Type
	if n.Has(ast.Type) {
		elemType, err = b.resolveType(n.Child(ast.Type))
		if err != nil {
			return err
		}
	} else {
		elemType = arrVal.ValueType().Elem
	}

	idxAddr, err := f.Emit(OpDeclare, types.TInt32)
	if err != nil {
		return err
	}
	if _, err := f.Emit(OpAssign, types.TVoid, idxAddr, IntConstant(types.TInt32, 0)); err != nil {
		return err
	}
	loopAddr, err := f.Emit(OpDeclare, elemType)
	if err != nil {
		return err
	}
	if err := f.Scope.Declare(&Symbol{Name: loopVarName, Address: loopAddr, Typ: elemType}); err != nil {
		return err
	}

	condBlk := f.NewBlock("for.cond")
	bodyBlk := f.NewBlock("for.body")
	stepBlk := f.NewBlock("for.step")
	mergeBlk := f.NewBlock("for.merge")
	if err := f.EmitBr(condBlk); err != nil {
		return err
	}

	f.MoveTo(condBlk)
	idxVal, err := f.Emit(OpLoad, types.TInt32, idxAddr)
	if err != nil {
		return err
	}
	cond, err := f.Emit(OpLgcLsThan, types.TBool, idxVal, IntConstant(types.TInt32, int64(n64)))
	if err != nil {
		return err
	}
	if err := f.EmitCondBr(cond, bodyBlk, mergeBlk); err != nil {
		return err
	}

	f.MoveTo(bodyBlk)
	idxVal2, err := f.Emit(OpLoad, types.TInt32, idxAddr)
	if err != nil {
		return err
	}
	elemVal, err := f.Emit(OpIndexing, elemType, arrVal, idxVal2)
	if err != nil {
		return err
	}
	if _, err := f.Emit(OpAssign, types.TVoid, loopAddr, elemVal); err != nil {
		return err
	}
	if err := b.lowerStmtsInto(f, n.Child(ast.Block)); err != nil {
		return err
	}
	if !f.CurrentBlock().Terminated() {
		if err := f.EmitBr(stepBlk); err != nil {
			return err
		}
	}

	f.MoveTo(stepBlk)
	idxVal3, err := f.Emit(OpLoad, types.TInt32, idxAddr)
	if err != nil {
		return err
	}
	incr, err := f.Emit(OpAdd, types.TInt32, idxVal3, IntConstant(types.TInt32, 1))
	if err != nil {
		return err
	}
	if _, err := f.Emit(OpAssign, types.TVoid, idxAddr, incr); err != nil {
		return err
	}
	if err := f.EmitBr(condBlk); err != nil {
		return err
	}

	f.MoveTo(mergeBlk)
	return nil
}

// ---------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------

func (b *Builder) lowerExpr(f *Function, n *ast.Node) (Value, error) {
	switch n.Tag {
	case ast.WholeExpr:
		return b.lowerExpr(f, n.Child(ast.HeadExpr))
	case ast.AssignExpr:
		return b.lowerAssignExpr(f, n)
	case ast.ArrayExpr:
		return b.lowerArrayExpr(f, n)
	case ast.BinaryExpr:
		return b.lowerBinaryExpr(f, n)
	case ast.LogicExpr:
		return b.lowerChain(f, n, lowerCompareLink)
	case ast.AddExpr, ast.MulExpr:
		return b.lowerChain(f, n, lowerArithLink)
	case ast.PrimExpr:
		return b.lowerPrimExpr(f, n)
	case ast.Literal:
		return b.lowerLiteral(n)
	case ast.IdentifierExpr:
		return b.lowerIdentExpr(f, n)
	case ast.IncDecExpr:
		return b.lowerIncDecExpr(f, n)
	default:
		return nil, irErr("unexpected expression node %s", n.Tag)
	}
}

func (b *Builder) lowerPrimExpr(f *Function, n *ast.Node) (Value, error) {
	switch {
	case n.Has(ast.Literal):
		return b.lowerLiteral(n.Child(ast.Literal))
	case n.Has(ast.Identifier):
		return b.lowerIdentExpr(f, n.Child(ast.Identifier))
	case n.Has(ast.HeadExpr):
		return b.lowerExpr(f, n.Child(ast.HeadExpr))
	default:
		return nil, irErr("empty PrimExpr")
	}
}

func (b *Builder) lowerLiteral(n *ast.Node) (Value, error) {
	switch v := n.Value.(type) {
	case int32:
		return IntConstant(types.TInt32, int64(v)), nil
	case float32:
		return FloatConstant(types.TFloat32, float64(v)), nil
	case bool:
		return BoolConstant(v), nil
	case rune:
		return CharConstant(v), nil
	case string:
		return StringConstant(v), nil
	default:
		return nil, irErr("unrecognised literal payload %T", n.Value)
	}
}

type linkFn func(f *Function, opKind token.Kind, lhs, rhs Value) (Value, error)

func (b *Builder) lowerChain(f *Function, n *ast.Node, link linkFn) (Value, error) {
	lhs, err := b.lowerExpr(f, n.Child(ast.HeadExpr))
	if err != nil {
		return nil, err
	}
	ops := n.ChildrenOf(ast.Ops)
	exprs := n.ChildrenOf(ast.Exprs)
	for i, opNode := range ops {
		rhs, err := b.lowerExpr(f, exprs[i])
		if err != nil {
			return nil, err
		}
		lhs, err = link(f, opNode.Tok.Kind, lhs, rhs)
		if err != nil {
			return nil, err
		}
	}
	return lhs, nil
}

func lowerArithLink(f *Function, kind token.Kind, lhs, rhs Value) (Value, error) {
	result, err := unifyArith(lhs.ValueType(), rhs.ValueType())
	if err != nil {
		return nil, err
	}
	var op Opcode
	switch kind {
	case token.PLUS:
		op = OpAdd
	case token.MINUS:
		op = OpSub
	case token.STAR:
		op = OpMul
	case token.SLASH:
		op = OpDiv
	case token.PERCENT:
		op = OpMod
	default:
		return nil, irErr("unexpected arithmetic operator %s", kind)
	}
	return f.Emit(op, result, lhs, rhs)
}

func lowerCompareLink(f *Function, kind token.Kind, lhs, rhs Value) (Value, error) {
	if _, err := unifyArith(lhs.ValueType(), rhs.ValueType()); err != nil {
		if lhs.ValueType().Kind != types.Pointer || rhs.ValueType() != lhs.ValueType() {
			return nil, err
		}
	}
	var op Opcode
	switch kind {
	case token.LT:
		op = OpLgcLsThan
	case token.LE:
		op = OpLgcEqLsThan
	case token.GT:
		op = OpLgcMrThan
	case token.GE:
		op = OpLgcEqMrThan
	case token.EQ:
		op = OpLgcEqual
	case token.NEQ:
		op = OpLgcNotEqual
	default:
		return nil, irErr("unexpected comparison operator %s", kind)
	}
	return f.Emit(op, types.TBool, lhs, rhs)
}

// lowerBinaryExpr implements short-circuit lowering for &&/|| (spec §4.4
// "Short-circuit boolean lowering", property P5).
func (b *Builder) lowerBinaryExpr(f *Function, n *ast.Node) (Value, error) {
	lhs, err := b.lowerExpr(f, n.Child(ast.HeadExpr))
	if err != nil {
		return nil, err
	}
	ops := n.ChildrenOf(ast.Ops)
	exprs := n.ChildrenOf(ast.Exprs)
	if len(ops) == 0 {
		return lhs, nil
	}

	idx := b.tbv[f]
	b.tbv[f] = idx + 1
	slotName := fmt.Sprintf("tbv.%d", idx)
	slotAddr := &Instruction{Op: OpDeclare, Typ: types.TBool, Name: slotName}
	if err := f.CurrentBlock().Append(slotAddr); err != nil {
		return nil, err
	}
	if _, err := f.Emit(OpAssign, types.TVoid, slotAddr, lhs); err != nil {
		return nil, err
	}

	mergeBlk := f.NewBlock("short.cur.merge")
	before := f.CurrentBlock()
	current := lhs
	for i, opNode := range ops {
		isAnd := opNode.Tok.Kind == token.AND
		basename := "or.rhs"
		if isAnd {
			basename = "and.rhs"
		}
		rhsBlk := f.NewBlock(fmt.Sprintf("%s%d", basename, i))

		f.MoveTo(before)
		if isAnd {
			if err := f.EmitCondBr(current, rhsBlk, mergeBlk); err != nil {
				return nil, err
			}
		} else {
			if err := f.EmitCondBr(current, mergeBlk, rhsBlk); err != nil {
				return nil, err
			}
		}

		f.MoveTo(rhsBlk)
		rhsVal, err := b.lowerExpr(f, exprs[i])
		if err != nil {
			return nil, err
		}
		if _, err := f.Emit(OpAssign, types.TVoid, slotAddr, rhsVal); err != nil {
			return nil, err
		}
		if err := f.EmitBr(mergeBlk); err != nil {
			return nil, err
		}

		current = rhsVal
		before = rhsBlk
	}

	f.MoveTo(mergeBlk)
	return f.Emit(OpLoad, types.TBool, slotAddr)
}

func (b *Builder) lowerArrayExpr(f *Function, n *ast.Node) (Value, error) {
	elemNodes := n.ChildrenOf(ast.Exprs)
	if len(elemNodes) == 0 {
		return nil, irErr("cannot infer element type of an empty array literal")
	}
	vals := make([]Value, len(elemNodes))
	for i, en := range elemNodes {
		v, err := b.lowerExpr(f, en)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	elemType := vals[0].ValueType()
	for _, v := range vals[1:] {
		if v.ValueType() != elemType {
			return nil, irErr("array literal elements must all have the same type")
		}
	}
	arrType := types.NewArray(elemType, len(vals))
	return f.Emit(OpCreateArray, arrType, vals...)
}

// ---------------------------------------------------------------------
// Identifiers, assignment
// ---------------------------------------------------------------------

// lowerIdentExpr lowers an IdentifierExpr in read context: base identifier,
// any index/call postfix chain, and leading logical negations.
func (b *Builder) lowerIdentExpr(f *Function, n *ast.Node) (Value, error) {
	atoms := n.ChildrenOf(ast.Identifier)
	if len(atoms) == 0 {
		return nil, irErr("empty identifier expression")
	}
	if len(atoms) > 1 {
		return nil, irErr("member access (a.b) has no record type to resolve against")
	}
	val, err := b.lowerAtom(f, atoms[0])
	if err != nil {
		return nil, err
	}
	for range n.ChildrenOf(ast.PreOp) {
		val, err = f.Emit(OpLgcNot, types.TBool, val)
		if err != nil {
			return nil, err
		}
	}
	return val, nil
}

// lowerIncDecExpr lowers `++x` / `--x`: load x, add/sub the literal 1 of x's
// own type, store the result back into x's address, and yield that result as
// the expression's value.
func (b *Builder) lowerIncDecExpr(f *Function, n *ast.Node) (Value, error) {
	name := n.Child(ast.Identifier).Tok.Lexeme
	sym, ok := f.Scope.Lookup(name)
	if !ok {
		return nil, irErr("use of undeclared identifier %q", name)
	}
	if !sym.Typ.IsNumeric() {
		return nil, irErr("++/-- requires a numeric operand, got %s", sym.Typ)
	}
	loaded, err := f.Emit(OpLoad, sym.Typ, sym.Address)
	if err != nil {
		return nil, err
	}
	one := IntConstant(sym.Typ, 1)
	if sym.Typ.IsFloat() {
		one = FloatConstant(sym.Typ, 1)
	}
	arithKind := token.PLUS
	if n.Child(ast.Op).Tok.Kind == token.DEC {
		arithKind = token.MINUS
	}
	newVal, err := lowerArithLink(f, arithKind, loaded, one)
	if err != nil {
		return nil, err
	}
	if _, err := f.Emit(OpAssign, types.TVoid, sym.Address, newVal); err != nil {
		return nil, err
	}
	return newVal, nil
}

func (b *Builder) lowerAtom(f *Function, atom *ast.Node) (Value, error) {
	name := atom.Child(ast.Identifier).Tok.Lexeme
	ops := atom.ChildrenOf(ast.Ops)

	mod := f.Module
	if fn, ok := mod.Function(name); ok && len(ops) > 0 && ops[0].Tag == ast.CallingOp {
		args := make([]Value, 0, len(ops[0].ChildrenOf(ast.Args)))
		for _, argNode := range ops[0].ChildrenOf(ast.Args) {
			v, err := b.lowerExpr(f, argNode)
			if err != nil {
				return nil, err
			}
			args = append(args, v)
		}
		callee := &funcRef{fn}
		operands := append([]Value{callee}, args...)
		result, err := f.Emit(OpCall, fn.Ret, operands...)
		if err != nil {
			return nil, err
		}
		return b.lowerPostfix(f, result, fn.Ret, ops[1:])
	}

	sym, ok := f.Scope.Lookup(name)
	if !ok {
		return nil, irErr("use of undeclared identifier %q", name)
	}
	if len(ops) == 0 {
		return f.Emit(OpLoad, sym.Typ, sym.Address)
	}
	return b.lowerPostfix(f, sym.Address, sym.Typ, ops)
}

// lowerPostfix applies a chain of index/call postfix operators starting from
// base (an address for a variable, or an already-loaded value for a call
// result), per spec's fused "indexing (element address+load)" opcode.
func (b *Builder) lowerPostfix(f *Function, base Value, baseType *types.Type, ops []*ast.Node) (Value, error) {
	cur := base
	curType := baseType
	for _, op := range ops {
		switch op.Tag {
		case ast.IndexOp:
			if curType.Kind != types.Array && curType.Kind != types.Pointer {
				return nil, irErr("cannot index a value of type %s", curType)
			}
			idx, err := b.lowerExpr(f, op.Child(ast.HeadExpr))
			if err != nil {
				return nil, err
			}
			elemType := curType.Elem
			cur, err = f.Emit(OpIndexing, elemType, cur, idx)
			if err != nil {
				return nil, err
			}
			curType = elemType
		case ast.CallingOp:
			return nil, irErr("cannot call a non-function value")
		}
	}
	return cur, nil
}

// funcRef is the Value a call instruction's first operand carries: the
// identity of the function being called.
type funcRef struct{ fn *Function }

func (r *funcRef) ValueType() *types.Type { return r.fn.Ret }
func (r *funcRef) ValueName() string      { return r.fn.Name }

func (b *Builder) lowerAssignExpr(f *Function, n *ast.Node) (Value, error) {
	identNode := n.Child(ast.Identifier)
	atoms := identNode.ChildrenOf(ast.Identifier)
	if len(atoms) != 1 || len(atoms[0].ChildrenOf(ast.Ops)) != 0 || len(identNode.ChildrenOf(ast.PreOp)) != 0 {
		return nil, irErr("indexing's fused address+load opcode leaves no address-only form to assign through; assignment targets must be a plain identifier")
	}
	name := atoms[0].Child(ast.Identifier).Tok.Lexeme
	sym, ok := f.Scope.Lookup(name)
	if !ok {
		return nil, irErr("use of undeclared identifier %q", name)
	}

	rhs, err := b.lowerExpr(f, n.Child(ast.AssignTerm))
	if err != nil {
		return nil, err
	}

	opKind := n.Child(ast.Op).Tok.Kind
	var newVal Value
	if opKind == token.ASSIGN {
		newVal, err = convertAssign(f, rhs, sym.Typ)
		if err != nil {
			return nil, err
		}
	} else {
		loaded, err := f.Emit(OpLoad, sym.Typ, sym.Address)
		if err != nil {
			return nil, err
		}
		arithKind := map[token.Kind]token.Kind{
			token.PLUS_ASSIGN:  token.PLUS,
			token.MINUS_ASSIGN: token.MINUS,
			token.STAR_ASSIGN:  token.STAR,
			token.SLASH_ASSIGN: token.SLASH,
		}[opKind]
		newVal, err = lowerArithLink(f, arithKind, loaded, rhs)
		if err != nil {
			return nil, err
		}
	}
	if _, err := f.Emit(OpAssign, types.TVoid, sym.Address, newVal); err != nil {
		return nil, err
	}
	return newVal, nil
}

// ---------------------------------------------------------------------
// Type unification (spec §4.4 "Type rules")
// ---------------------------------------------------------------------

func unifyArith(a, b *types.Type) (*types.Type, error) {
	if a == b && a.IsNumeric() {
		return a, nil
	}
	if !a.IsNumeric() || !b.IsNumeric() {
		return nil, irErr("operand types %s and %s are not arithmetic-compatible", a, b)
	}
	if a.IsFloat() || b.IsFloat() {
		if a == types.TFloat64 || b == types.TFloat64 {
			return types.TFloat64, nil
		}
		return types.TFloat32, nil
	}
	return nil, irErr("operand types %s and %s do not unify", a, b)
}

// convertAssign enforces the assignment type rule: the stored value's type
// must equal the target's declared type. Integers of equal width and
// signedness are the same interned type, so the equality check admits them;
// no other implicit conversion is made (spec §4.4).
func convertAssign(f *Function, v Value, target *types.Type) (Value, error) {
	if v.ValueType() == target {
		return v, nil
	}
	return nil, irErr("cannot assign value of type %s to target of type %s", v.ValueType(), target)
}
