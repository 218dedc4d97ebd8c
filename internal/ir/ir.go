// Package ir implements the typed, three-address, SSA-shaped intermediate
// representation (spec §3, §4.4, components C7-C11): values, instructions,
// blocks, functions, modules, programs, scope, and the AST-walking builder
// that lowers a parsed tree into this IR. It is grounded on the teacher's
// ir package the way nodetype.go enumerates a closed node-type set with a
// parallel string table for printing, generalized here to the typed
// three-address opcode set this specification requires.
package ir

import (
	"fmt"

	"vslc/internal/types"
)

// Opcode is the closed set of three-address instruction operators (spec §3).
type Opcode int

const (
	OpConstant Opcode = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpLgcEqual
	OpLgcNotEqual
	OpLgcLsThan
	OpLgcMrThan
	OpLgcEqLsThan
	OpLgcEqMrThan
	OpLgcNot
	OpDeclare
	OpAssign
	OpLoad
	OpIndexing
	OpGmem
	OpCreateArray
	OpCall
	OpBr
	OpCondBr
	OpRet
)

var opcodeNames = [...]string{
	OpConstant: "constant", OpAdd: "add", OpSub: "sub", OpMul: "mul", OpDiv: "div", OpMod: "mod",
	OpLgcEqual: "lgc_equal", OpLgcNotEqual: "lgc_not_equal", OpLgcLsThan: "lgc_ls_than",
	OpLgcMrThan: "lgc_mr_than", OpLgcEqLsThan: "lgc_eq_ls_than", OpLgcEqMrThan: "lgc_eq_mr_than",
	OpLgcNot: "lgc_not", OpDeclare: "declare", OpAssign: "assign", OpLoad: "load",
	OpIndexing: "indexing", OpGmem: "gmem", OpCreateArray: "create_array", OpCall: "call",
	OpBr: "br", OpCondBr: "cond_br", OpRet: "ret",
}

func (o Opcode) String() string {
	if int(o) >= 0 && int(o) < len(opcodeNames) {
		return opcodeNames[o]
	}
	return fmt.Sprintf("Opcode(%d)", int(o))
}

// IsTerminal reports whether o closes a block (spec §3: "br, cond_br, ret
// are terminal; no further instruction may be appended to a block after a
// terminal").
func (o Opcode) IsTerminal() bool { return o == OpBr || o == OpCondBr || o == OpRet }

// Value is satisfied by every IR node usable as an instruction operand:
// constants, instructions, and function formal parameters (spec C7: "Base
// node for constants, instructions, blocks, functions; each carries a
// type").
type Value interface {
	ValueType() *types.Type
	ValueName() string
}

// Constant is an interned literal IR value (spec §3, property P4).
type Constant struct {
	Typ  *types.Type
	Kind ConstKind
	I    int64
	F    float64
	S    string
	B    bool
	C    rune
	used int
}

// ConstKind differentiates the payload carried by a Constant.
type ConstKind int

const (
	ConstInt ConstKind = iota
	ConstFloat
	ConstString
	ConstChar
	ConstBool
	ConstTypeInfo
)

func (c *Constant) ValueType() *types.Type { return c.Typ }

// Use increments the constant's use counter, the way the teacher's
// lir.Constant.Use does. Constants are interned (property P4), so the
// counter accumulates across every site in the program that references this
// particular (type, value) pair.
func (c *Constant) Use() { c.used++ }

// Used reports whether Use has ever been called on c.
func (c *Constant) Used() bool { return c.used > 0 }

func (c *Constant) ValueName() string {
	switch c.Kind {
	case ConstInt:
		return fmt.Sprintf("%d", c.I)
	case ConstFloat:
		return fmt.Sprintf("%g", c.F)
	case ConstString:
		return fmt.Sprintf("%q", c.S)
	case ConstChar:
		return fmt.Sprintf("%q", c.C)
	case ConstBool:
		return fmt.Sprintf("%t", c.B)
	default:
		return "<typeinfo>"
	}
}

// constKey is the structural interning key for Constant (spec property P4:
// "intern(type, value) called twice returns the same constant").
type constKey struct {
	typ  *types.Type
	kind ConstKind
	i    int64
	f    float64
	s    string
	b    bool
	c    rune
}

var constTable = map[constKey]*Constant{}

func internConstant(key constKey) *Constant {
	if c, ok := constTable[key]; ok {
		return c
	}
	c := &Constant{Typ: key.typ, Kind: key.kind, I: key.i, F: key.f, S: key.s, B: key.b, C: key.c}
	constTable[key] = c
	return c
}

// IntConstant interns an integer constant of the given type.
func IntConstant(t *types.Type, v int64) *Constant {
	return internConstant(constKey{typ: t, kind: ConstInt, i: v})
}

// FloatConstant interns a floating point constant of the given type.
func FloatConstant(t *types.Type, v float64) *Constant {
	return internConstant(constKey{typ: t, kind: ConstFloat, f: v})
}

// StringConstant interns a string constant.
func StringConstant(v string) *Constant {
	return internConstant(constKey{typ: types.NewPointer(types.TChar), kind: ConstString, s: v})
}

// CharConstant interns a char constant.
func CharConstant(v rune) *Constant {
	return internConstant(constKey{typ: types.TChar, kind: ConstChar, c: v})
}

// BoolConstant interns a bool constant.
func BoolConstant(v bool) *Constant {
	return internConstant(constKey{typ: types.TBool, kind: ConstBool, b: v})
}

// Instruction is a single three-address operation (spec C8).
type Instruction struct {
	Op      Opcode
	Typ     *types.Type
	Name    string
	Operand []Value
	Block   *Block // Parent-block back-pointer.

	// Branch targets, set only for br/cond_br.
	Then *Block
	Else *Block

	used     int
	disabled bool
}

func (i *Instruction) ValueType() *types.Type { return i.Typ }
func (i *Instruction) ValueName() string      { return i.Name }

// Use increments i's use counter, the way the teacher's lir.Constant.Use
// does for constants; here it is generalized to every typed IR instruction
// since this IR inlines constants as operands rather than pooling them as
// separate module-level declarations.
func (i *Instruction) Use() { i.used++ }

// Used reports whether Use has ever been called on i.
func (i *Instruction) Used() bool { return i.used > 0 }

// Enable marks i for inclusion in Block.Dump's textual rendering, the way
// the teacher's lir.Value.Enable does. Every instruction starts enabled
// (the zero value of the backing field means "not disabled"), matching
// instructions built either through Function.Emit or as bare struct
// literals in tests.
func (i *Instruction) Enable() { i.disabled = false }

// Disable excludes i from Block.Dump's textual rendering.
func (i *Instruction) Disable() { i.disabled = true }

// IsEnabled reports whether i is included in Block.Dump's rendering.
func (i *Instruction) IsEnabled() bool { return !i.disabled }

func (i *Instruction) String() string {
	switch i.Op {
	case OpBr:
		return fmt.Sprintf("br %s", i.Then.Name)
	case OpCondBr:
		return fmt.Sprintf("cond_br %s, %s, %s", i.Operand[0].ValueName(), i.Then.Name, i.Else.Name)
	case OpRet:
		if len(i.Operand) == 0 {
			return "ret"
		}
		return fmt.Sprintf("ret %s", i.Operand[0].ValueName())
	default:
		ops := make([]string, len(i.Operand))
		for k, o := range i.Operand {
			ops[k] = o.ValueName()
		}
		return fmt.Sprintf("%s %s = %s %v", i.Typ, i.Name, i.Op, ops)
	}
}
