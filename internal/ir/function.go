package ir

import (
	"fmt"
	"strings"

	"vslc/internal/types"
)

// Param is a formal parameter's (name, type) pair.
type Param struct {
	Name string
	Typ  *types.Type
}

func (p *Param) ValueType() *types.Type { return p.Typ }
func (p *Param) ValueName() string      { return p.Name }

// Function owns an ordered block list plus the cursor identifying which one
// instructions are currently emitted into (spec §3 "Function", component
// C9).
type Function struct {
	Name        string
	Ret         *types.Type
	Params      []*Param
	Blocks      []*Block
	Cursor      int
	Scope       *Scope
	Module      *Module
	blockSeq    map[string]int
	nameCounter int
}

// NewFunction creates a function declared in module with the given name,
// return type and formal parameters. Its scope is rooted with module's scope
// as parent (spec §4.5).
func NewFunction(module *Module, name string, ret *types.Type, params []*Param) *Function {
	return &Function{
		Name:     name,
		Ret:      ret,
		Params:   params,
		Module:   module,
		Scope:    NewScope(module.Scope),
		blockSeq: map[string]int{},
	}
}

// CurrentBlock returns the block the cursor currently points at.
func (f *Function) CurrentBlock() *Block { return f.Blocks[f.Cursor] }

// NewBlock allocates a fresh block with a name unique within f ("for.cond",
// "for.cond.1", "for.cond.2", ...), appends it to f.Blocks, and returns it.
// It does not move the cursor.
func (f *Function) NewBlock(basename string) *Block {
	n := f.blockSeq[basename]
	f.blockSeq[basename] = n + 1
	name := basename
	if n > 0 {
		name = fmt.Sprintf("%s.%d", basename, n)
	}
	b := &Block{ID: len(f.Blocks), Name: name, Function: f}
	f.Blocks = append(f.Blocks, b)
	return b
}

// MoveTo sets the emission cursor to b. b must belong to f.
func (f *Function) MoveTo(b *Block) {
	for i, existing := range f.Blocks {
		if existing == b {
			f.Cursor = i
			return
		}
	}
	panic("ir: Move cursor to unknown place")
}

// Emit appends instr to the current block, assigning it a fresh SSA-style
// name when it produces a value. It is the single choke point every
// expression-lowering rule in the builder goes through.
func (f *Function) Emit(op Opcode, typ *types.Type, operands ...Value) (*Instruction, error) {
	instr := &Instruction{Op: op, Typ: typ, Operand: operands}
	if typ != nil && typ != types.TVoid {
		instr.Name = f.freshName(op)
	}
	if err := f.CurrentBlock().Append(instr); err != nil {
		return nil, err
	}
	markUsed(operands...)
	return instr, nil
}

// EmitBr appends an unconditional branch to target and terminates the
// current block.
func (f *Function) EmitBr(target *Block) error {
	instr := &Instruction{Op: OpBr, Typ: types.TVoid, Then: target}
	return f.CurrentBlock().Append(instr)
}

// EmitCondBr appends a conditional branch and terminates the current block.
func (f *Function) EmitCondBr(cond Value, then, els *Block) error {
	instr := &Instruction{Op: OpCondBr, Typ: types.TVoid, Operand: []Value{cond}, Then: then, Else: els}
	err := f.CurrentBlock().Append(instr)
	markUsed(cond)
	return err
}

// EmitRet appends a return and terminates the current block.
func (f *Function) EmitRet(v Value) error {
	instr := &Instruction{Op: OpRet, Typ: types.TVoid}
	if v != nil {
		instr.Operand = []Value{v}
	}
	err := f.CurrentBlock().Append(instr)
	markUsed(v)
	return err
}

// markUsed increments the use counter (spec-supplemented feature, grounded
// on the teacher's lir.Constant.Use/lir.Value.Enable) of every operand that
// tracks usage, so the textual dump can elide instructions whose result is
// never read by anything else in the program.
func markUsed(operands ...Value) {
	for _, v := range operands {
		switch u := v.(type) {
		case *Instruction:
			u.Use()
		case *Constant:
			u.Use()
		}
	}
}

func (f *Function) freshName(op Opcode) string {
	n := f.nameCounter
	f.nameCounter++
	return fmt.Sprintf("%%%s.%d", op, n)
}

// Dump renders the function's signature and every block in emission order,
// the way the teacher's lir.Function.String does.
func (f *Function) Dump() string {
	var sb strings.Builder
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = fmt.Sprintf("%s %s", p.Typ, p.Name)
	}
	sb.WriteString(fmt.Sprintf("func %s(%s) %s {\n", f.Name, strings.Join(params, ", "), f.Ret))
	for _, b := range f.Blocks {
		for _, line := range strings.Split(strings.TrimRight(b.Dump(), "\n"), "\n") {
			sb.WriteString("  ")
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
	}
	sb.WriteString("}\n")
	return sb.String()
}
