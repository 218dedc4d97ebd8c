package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vslc/internal/types"
)

func TestNewBlockDedupsBasenames(t *testing.T) {
	prog := NewProgram("p")
	mod := prog.DeclareModule("m")
	fn := mod.DeclareFunction("f", types.TVoid, nil)

	a := fn.NewBlock("for.cond")
	b := fn.NewBlock("for.cond")
	c := fn.NewBlock("for.cond")

	assert.Equal(t, "for.cond", a.Name)
	assert.Equal(t, "for.cond.1", b.Name)
	assert.Equal(t, "for.cond.2", c.Name)
	assert.Equal(t, []*Block{a, b, c}, fn.Blocks)
}

func TestMoveToAndCurrentBlock(t *testing.T) {
	prog := NewProgram("p")
	mod := prog.DeclareModule("m")
	fn := mod.DeclareFunction("f", types.TVoid, nil)
	entry := fn.NewBlock("entry")
	other := fn.NewBlock("other")

	assert.Same(t, entry, fn.CurrentBlock())
	fn.MoveTo(other)
	assert.Same(t, other, fn.CurrentBlock())
}

func TestMoveToUnknownBlockPanics(t *testing.T) {
	prog := NewProgram("p")
	mod := prog.DeclareModule("m")
	fn := mod.DeclareFunction("f", types.TVoid, nil)
	fn.NewBlock("entry")
	foreign := &Block{Name: "foreign"}

	assert.Panics(t, func() { fn.MoveTo(foreign) })
}

func TestEmitAssignsFreshNameOnlyForTypedResults(t *testing.T) {
	prog := NewProgram("p")
	mod := prog.DeclareModule("m")
	fn := mod.DeclareFunction("f", types.TVoid, nil)
	fn.NewBlock("entry")

	add, err := fn.Emit(OpAdd, types.TInt32, IntConstant(types.TInt32, 1), IntConstant(types.TInt32, 2))
	require.NoError(t, err)
	assert.NotEmpty(t, add.Name)

	voidInstr, err := fn.Emit(OpDeclare, types.TVoid)
	require.NoError(t, err)
	assert.Empty(t, voidInstr.Name)
}

func TestEmitFreshNamesAreUnique(t *testing.T) {
	prog := NewProgram("p")
	mod := prog.DeclareModule("m")
	fn := mod.DeclareFunction("f", types.TVoid, nil)
	fn.NewBlock("entry")

	a, _ := fn.Emit(OpAdd, types.TInt32)
	b, _ := fn.Emit(OpAdd, types.TInt32)
	assert.NotEqual(t, a.Name, b.Name)
}

func TestEmitBrCondBrRetTerminateBlock(t *testing.T) {
	prog := NewProgram("p")
	mod := prog.DeclareModule("m")
	fn := mod.DeclareFunction("f", types.TVoid, nil)
	entry := fn.NewBlock("entry")
	target := fn.NewBlock("target")

	require.NoError(t, fn.EmitBr(target))
	assert.True(t, entry.Terminated())

	fn2 := mod.DeclareFunction("g", types.TVoid, nil)
	then := fn2.NewBlock("entry")
	els := fn2.NewBlock("else")
	require.NoError(t, fn2.EmitCondBr(BoolConstant(true), then, els))
	assert.True(t, fn2.CurrentBlock().Terminated())

	fn3 := mod.DeclareFunction("h", types.TInt32, nil)
	fn3.NewBlock("entry")
	require.NoError(t, fn3.EmitRet(IntConstant(types.TInt32, 0)))
	assert.True(t, fn3.CurrentBlock().Terminated())
}

func TestFunctionDumpRendersSignatureAndBlocks(t *testing.T) {
	prog := NewProgram("p")
	mod := prog.DeclareModule("m")
	fn := mod.DeclareFunction("add", types.TInt32, []*Param{
		{Name: "a", Typ: types.TInt32},
		{Name: "b", Typ: types.TInt32},
	})
	fn.NewBlock("entry")
	require.NoError(t, fn.EmitRet(IntConstant(types.TInt32, 0)))

	out := fn.Dump()
	assert.Contains(t, out, "func add(int32 a, int32 b) int32 {")
	assert.Contains(t, out, "entry:")
	assert.Contains(t, out, "ret 0")
}
