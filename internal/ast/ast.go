// Package ast implements the tagged, labelled-child syntax tree described by
// spec §3 ("AST node") and exposed as a stable external interface by spec
// §6 ("AST tag set"). Every node carries a tag drawn from the closed Tag
// enumeration, an optional token payload, and an ordered sequence of
// (label, node) pairs. Labels are themselves Tags and act as named slots:
// accessing a label that does not exist auto-creates an empty node under
// that label, which is how grammar.go's tree-building actions compose
// subtrees incrementally.
package ast

import (
	"fmt"
	"strconv"
	"strings"

	"vslc/internal/token"
)

// Tag is a closed-set identifier naming an AST node's role, or — when used
// as a child label — a named slot on a node.
type Tag int

const (
	// Node-role tags (spec §6 "AST tag set").
	Program Tag = iota
	Literal
	IndexOp
	CallingOp
	AtomIdentifier
	IdentifierExpr
	PrimExpr
	MulExpr
	AddExpr
	LogicExpr
	BinaryExpr
	ArrayExpr
	WholeExpr
	BasicTypeModifier
	ArrayTypeModifier
	TypeModifier
	AssignExpr
	RangeExpr
	DeclareStmt
	ExprStmt
	IfStmt
	ElseStmt
	WhileStmt
	ForStmt
	BlockStmt
	FuncDefineStmt
	ReturnStmt
	Stmt
	Param
	IncDecExpr

	// Label tags (spec §6 "Label tags"). Literal is reused from above.
	HeadExpr
	Exprs
	Op
	Ops
	Types
	Args
	Type
	AssignTerm
	Condition
	Block
	Stmts
	Identifier
	Symbol
	Keyword
	PreOp
)

var tagNames = map[Tag]string{
	Program: "Program", Literal: "Literal", IndexOp: "IndexOp", CallingOp: "CallingOp",
	AtomIdentifier: "AtomIdentifier", IdentifierExpr: "IdentifierExpr", PrimExpr: "PrimExpr",
	MulExpr: "MulExpr", AddExpr: "AddExpr", LogicExpr: "LogicExpr", BinaryExpr: "BinaryExpr",
	ArrayExpr: "ArrayExpr", WholeExpr: "WholeExpr", BasicTypeModifier: "BasicTypeModifier",
	ArrayTypeModifier: "ArrayTypeModifier", TypeModifier: "TypeModifier", AssignExpr: "AssignExpr",
	RangeExpr: "RangeExpr", DeclareStmt: "DeclareStmt", ExprStmt: "ExprStmt", IfStmt: "IfStmt",
	ElseStmt: "ElseStmt", WhileStmt: "WhileStmt", ForStmt: "ForStmt", BlockStmt: "BlockStmt",
	FuncDefineStmt: "FuncDefineStmt", ReturnStmt: "ReturnStmt", Stmt: "Stmt", Param: "Param",
	IncDecExpr: "IncDecExpr",
	HeadExpr: "HeadExpr", Exprs: "Exprs", Op: "Op", Ops: "Ops", Types: "Types", Args: "Args",
	Type: "Type", AssignTerm: "AssignTerm", Condition: "Condition", Block: "Block",
	Stmts: "Stmts", Identifier: "Identifier", Symbol: "Symbol", Keyword: "Keyword", PreOp: "PreOp",
}

// String returns the print friendly name of the Tag.
func (t Tag) String() string {
	if n, ok := tagNames[t]; ok {
		return n
	}
	return fmt.Sprintf("Tag(%d)", int(t))
}

// slot is one (label, node) pair in a Node's ordered child sequence.
type slot struct {
	label Tag
	node  *Node
}

// Node is a single node of the syntax tree: a tag, optional token content,
// and an ordered sequence of labelled children.
type Node struct {
	Tag      Tag
	Tok      *token.Token // Optional token payload (identifiers, literals, operators).
	Value    interface{}  // Parsed literal value (int, float, string, bool, rune), when applicable.
	children []slot
}

// New creates an empty Node of the given tag.
func New(tag Tag) *Node {
	return &Node{Tag: tag}
}

// NewToken creates a Node of the given tag carrying token t as content.
func NewToken(tag Tag, t token.Token) *Node {
	n := &Node{Tag: tag, Tok: &t}
	switch t.Kind {
	case token.INT:
		if v, err := strconv.Atoi(t.Lexeme); err == nil {
			n.Value = int32(v)
		}
	case token.FLOAT:
		if v, err := strconv.ParseFloat(t.Lexeme, 32); err == nil {
			n.Value = float32(v)
		}
	case token.BOOL:
		n.Value = t.Lexeme == "true"
	case token.CHAR:
		if len(t.Lexeme) > 0 {
			n.Value = rune(t.Lexeme[0])
		}
	case token.STRING:
		n.Value = t.Lexeme
	}
	return n
}

// Add appends child under label, preserving overall insertion order, and
// returns n for chaining inside tree-building actions.
func (n *Node) Add(label Tag, child *Node) *Node {
	if child == nil {
		child = New(label)
	}
	n.children = append(n.children, slot{label: label, node: child})
	return n
}

// Child returns the first child registered under label. If no such child
// exists, an empty Node is created under that label, appended to n's
// children (so a subsequent full iteration sees it too), and returned. This
// is the "auto-creating access" the grammar's tree-building actions rely on
// to compose subtrees one labelled slot at a time.
func (n *Node) Child(label Tag) *Node {
	for _, s := range n.children {
		if s.label == label {
			return s.node
		}
	}
	empty := New(label)
	n.children = append(n.children, slot{label: label, node: empty})
	return empty
}

// Has reports whether n has a child registered under label, without the
// auto-creating side effect of Child.
func (n *Node) Has(label Tag) bool {
	for _, s := range n.children {
		if s.label == label {
			return true
		}
	}
	return false
}

// ChildrenOf returns every child registered under label, in insertion order.
func (n *Node) ChildrenOf(label Tag) []*Node {
	var out []*Node
	for _, s := range n.children {
		if s.label == label {
			out = append(out, s.node)
		}
	}
	return out
}

// All returns every (label, node) pair in insertion order.
func (n *Node) All() [](struct {
	Label Tag
	Node  *Node
}) {
	out := make([]struct {
		Label Tag
		Node  *Node
	}, len(n.children))
	for i, s := range n.children {
		out[i] = struct {
			Label Tag
			Node  *Node
		}{Label: s.label, Node: s.node}
	}
	return out
}

// String returns a print friendly single-line representation of n.
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	if n.Value != nil {
		return fmt.Sprintf("%s [%v]", n.Tag, n.Value)
	}
	if n.Tok != nil {
		return fmt.Sprintf("%s [%q]", n.Tag, n.Tok.Lexeme)
	}
	return n.Tag.String()
}

// Print recursively prints n and its children, indenting one level per
// depth, the way the teacher's ir.Node.Print does for the -ast flag.
func (n *Node) Print(depth int, w *strings.Builder) {
	if n == nil {
		fmt.Fprintf(w, "%s---> NIL\n", strings.Repeat("  ", depth))
		return
	}
	fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), n.String())
	for _, s := range n.children {
		fmt.Fprintf(w, "%s%s:\n", strings.Repeat("  ", depth+1), s.label)
		s.node.Print(depth+2, w)
	}
}
